//go:build unit

package cache

import (
	"testing"

	"algoarena/internal/config"
)

func newTestCache(t *testing.T) (*Cache, func()) {
	t.Helper()
	c, err := New(config.CacheConfig{FilePath: "file::memory:"})
	if err != nil {
		t.Fatalf("failed to create test cache: %v", err)
	}
	return c, func() { c.Close() }
}

func TestCache_SetGet(t *testing.T) {
	c, teardown := newTestCache(t)
	defer teardown()

	if err := c.Set("topics", "all", []byte(`["a"]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := c.Get("topics", "all")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != `["a"]` {
		t.Errorf("expected cached value '[\"a\"]', got '%s'", got)
	}
}

func TestCache_MissReturnsNil(t *testing.T) {
	c, teardown := newTestCache(t)
	defer teardown()

	got, err := c.Get("topics", "missing")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil on cache miss, got '%s'", got)
	}
}

func TestCache_SetReplaces(t *testing.T) {
	c, teardown := newTestCache(t)
	defer teardown()

	if err := c.Set("doc", "1", []byte("old")); err != nil {
		t.Fatal(err)
	}
	if err := c.Set("doc", "1", []byte("new")); err != nil {
		t.Fatal(err)
	}

	got, err := c.Get("doc", "1")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Errorf("expected replaced value 'new', got '%s'", got)
	}
}

func TestCache_EvictNamespaces(t *testing.T) {
	c, teardown := newTestCache(t)
	defer teardown()

	entries := map[[2]string]string{
		{"topics", "all"}: "t",
		{"docs", "x:1"}:   "d1",
		{"docs", "y:1"}:   "d2",
		{"doc", "abc"}:    "d3",
	}
	for k, v := range entries {
		if err := c.Set(k[0], k[1], []byte(v)); err != nil {
			t.Fatal(err)
		}
	}

	if err := c.EvictNamespaces("docs", "doc"); err != nil {
		t.Fatalf("EvictNamespaces failed: %v", err)
	}

	// Evicted namespaces are empty.
	for _, k := range [][2]string{{"docs", "x:1"}, {"docs", "y:1"}, {"doc", "abc"}} {
		got, err := c.Get(k[0], k[1])
		if err != nil {
			t.Fatal(err)
		}
		if got != nil {
			t.Errorf("expected %s:%s to be evicted, got '%s'", k[0], k[1], got)
		}
	}

	// Untouched namespace survives.
	got, err := c.Get("topics", "all")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "t" {
		t.Errorf("expected topics namespace to survive eviction, got '%s'", got)
	}
}
