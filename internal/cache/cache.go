package cache

import (
	"database/sql"
	"fmt"

	"algoarena/internal/config"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Cache provides a SQLite-backed read cache keyed by namespace and key.
//
// Entries have no TTL: the cache is invalidated solely by write-triggered
// namespace eviction, so an entry is correct-or-flushed rather than aged
// out. Namespaces partition the key space by operation ("topics", "topic",
// "docs", "doc").
type Cache struct {
	db *sqlx.DB
}

// New creates a new Cache instance.
// It opens the SQLite database at the given file path and ensures the
// cache table is created.
func New(cfg config.CacheConfig) (*Cache, error) {
	db, err := sqlx.Connect("sqlite", cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite cache: %w", err)
	}

	// For a cache, WAL mode is generally better for concurrency.
	_, err = db.Exec("PRAGMA journal_mode=WAL;")
	if err != nil {
		return nil, fmt.Errorf("failed to set WAL mode on sqlite cache: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS cache (
		cache_key TEXT PRIMARY KEY,
		value BLOB
	);
	`
	_, err = db.Exec(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Get retrieves an item from the cache. It returns nil if the item is not found.
func (c *Cache) Get(namespace, key string) ([]byte, error) {
	var value []byte
	query := `SELECT value FROM cache WHERE cache_key = ?`
	err := c.db.Get(&value, query, compose(namespace, key))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found is not an error for a cache miss.
		}
		return nil, fmt.Errorf("failed to get item from cache: %w", err)
	}
	return value, nil
}

// Set adds an item to the cache, replacing any previous value.
func (c *Cache) Set(namespace, key string, value []byte) error {
	query := `INSERT OR REPLACE INTO cache (cache_key, value) VALUES (?, ?)`
	_, err := c.db.Exec(query, compose(namespace, key), value)
	if err != nil {
		return fmt.Errorf("failed to set item in cache: %w", err)
	}
	return nil
}

// EvictNamespaces removes every entry in each of the given namespaces.
func (c *Cache) EvictNamespaces(namespaces ...string) error {
	for _, ns := range namespaces {
		query := `DELETE FROM cache WHERE cache_key LIKE ?`
		if _, err := c.db.Exec(query, ns+":%"); err != nil {
			return fmt.Errorf("failed to evict cache namespace %q: %w", ns, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

func compose(namespace, key string) string {
	return namespace + ":" + key
}
