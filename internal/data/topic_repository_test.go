//go:build integration

package data

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// setupDataTest creates a new in-memory SQLite database with the content
// schema. It returns the database and a teardown function to be deferred.
func setupDataTest(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()

	// Use a non-shared in-memory database for complete test isolation.
	db, err := sqlx.Connect("sqlite3", "file::memory:")
	if err != nil {
		t.Fatalf("Failed to connect to sqlite test database: %v", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	schema := `
	CREATE TABLE topics (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL COLLATE NOCASE,
		slug TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		icon TEXT NOT NULL DEFAULT '',
		color TEXT NOT NULL DEFAULT '',
		display_order INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		document_count INTEGER NOT NULL DEFAULT 0,
		created_by TEXT NOT NULL DEFAULT '',
		updated_by TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	CREATE UNIQUE INDEX uq_topics_name ON topics (name COLLATE NOCASE);
	CREATE UNIQUE INDEX uq_topics_slug ON topics (slug);

	CREATE TABLE documents (
		id TEXT PRIMARY KEY,
		topic_id TEXT NOT NULL,
		title TEXT NOT NULL COLLATE NOCASE,
		slug TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		image_urls TEXT NOT NULL DEFAULT '[]',
		total_size INTEGER NOT NULL DEFAULT 0,
		display_order INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		is_draft BOOLEAN NOT NULL DEFAULT 0,
		estimated_read_time INTEGER NOT NULL DEFAULT 1,
		created_by TEXT NOT NULL DEFAULT '',
		updated_by TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		published_at TIMESTAMP,
		FOREIGN KEY (topic_id) REFERENCES topics(id)
	);
	CREATE UNIQUE INDEX uq_documents_topic_title ON documents (topic_id, title COLLATE NOCASE);
	CREATE INDEX ix_documents_topic_active ON documents (topic_id, is_active);`
	db.MustExec(schema)

	teardown := func() {
		db.Close()
	}
	return db, teardown
}

func testTopic(id, name, slug string) *Topic {
	now := time.Now().UTC().Truncate(time.Second)
	return &Topic{
		ID:        id,
		Name:      name,
		Slug:      slug,
		IsActive:  true,
		CreatedBy: "tester",
		UpdatedBy: "tester",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestTopicRepository_CreateAndGet(t *testing.T) {
	db, teardown := setupDataTest(t)
	defer teardown()
	repo := NewTopicRepository(db)
	ctx := context.Background()

	topic := testTopic("t1", "System Design", "system-design")
	if err := repo.Create(ctx, topic); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	byID, err := repo.GetByID(ctx, "t1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if byID == nil || byID.Name != "System Design" {
		t.Errorf("unexpected topic: %+v", byID)
	}

	bySlug, err := repo.GetBySlug(ctx, "system-design")
	if err != nil {
		t.Fatalf("GetBySlug failed: %v", err)
	}
	if bySlug == nil || bySlug.ID != "t1" {
		t.Errorf("unexpected topic: %+v", bySlug)
	}

	missing, err := repo.GetByID(ctx, "nope")
	if err != nil {
		t.Fatalf("GetByID for missing topic failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for a missing topic, got %+v", missing)
	}
}

func TestTopicRepository_GetAll_Ordering(t *testing.T) {
	db, teardown := setupDataTest(t)
	defer teardown()
	repo := NewTopicRepository(db)
	ctx := context.Background()

	second := testTopic("t2", "Go", "go")
	second.DisplayOrder = 2
	first := testTopic("t1", "React", "react")
	first.DisplayOrder = 1
	inactive := testTopic("t3", "Archived", "archived")
	inactive.DisplayOrder = 0
	inactive.IsActive = false

	for _, topic := range []*Topic{second, first, inactive} {
		if err := repo.Create(ctx, topic); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	all, err := repo.GetAll(ctx, false)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 3 || all[0].ID != "t3" || all[1].ID != "t1" || all[2].ID != "t2" {
		t.Errorf("unexpected order: %v", topicIDs(all))
	}

	active, err := repo.GetAll(ctx, true)
	if err != nil {
		t.Fatalf("GetAll(active) failed: %v", err)
	}
	if len(active) != 2 || active[0].ID != "t1" {
		t.Errorf("unexpected active topics: %v", topicIDs(active))
	}
}

func topicIDs(topics []*Topic) []string {
	ids := make([]string, len(topics))
	for i, topic := range topics {
		ids[i] = topic.ID
	}
	return ids
}

func TestTopicRepository_DuplicateName(t *testing.T) {
	db, teardown := setupDataTest(t)
	defer teardown()
	repo := NewTopicRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, testTopic("t1", "React", "react")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	err := repo.Create(ctx, testTopic("t2", "react", "react-2"))
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for a case-insensitive name collision, got %v", err)
	}
}

func TestTopicRepository_ExistsByName(t *testing.T) {
	db, teardown := setupDataTest(t)
	defer teardown()
	repo := NewTopicRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, testTopic("t1", "React", "react")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for _, name := range []string{"React", "react", "REACT"} {
		exists, err := repo.ExistsByName(ctx, name)
		if err != nil {
			t.Fatalf("ExistsByName(%q) failed: %v", name, err)
		}
		if !exists {
			t.Errorf("expected %q to exist", name)
		}
	}
	exists, err := repo.ExistsByName(ctx, "Vue")
	if err != nil {
		t.Fatalf("ExistsByName failed: %v", err)
	}
	if exists {
		t.Error("did not expect 'Vue' to exist")
	}
}

func TestTopicRepository_UpdateAndDelete(t *testing.T) {
	db, teardown := setupDataTest(t)
	defer teardown()
	repo := NewTopicRepository(db)
	ctx := context.Background()

	topic := testTopic("t1", "React", "react")
	if err := repo.Create(ctx, topic); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	topic.Name = "React 19"
	topic.Slug = "react-19"
	if err := repo.Update(ctx, topic); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	updated, _ := repo.GetByID(ctx, "t1")
	if updated.Slug != "react-19" {
		t.Errorf("expected updated slug, got %q", updated.Slug)
	}

	if err := repo.UpdateDocumentCount(ctx, "t1", 5); err != nil {
		t.Fatalf("UpdateDocumentCount failed: %v", err)
	}
	counted, _ := repo.GetByID(ctx, "t1")
	if counted.DocumentCount != 5 {
		t.Errorf("expected document count 5, got %d", counted.DocumentCount)
	}

	if err := repo.Delete(ctx, "t1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := repo.Delete(ctx, "t1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}

	missing := testTopic("ghost", "Ghost", "ghost")
	if err := repo.Update(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating a missing topic, got %v", err)
	}
}
