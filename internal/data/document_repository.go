package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// DocumentRepository handles database operations for documents.
type DocumentRepository struct {
	db *sqlx.DB
}

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

const documentColumns = `id, topic_id, title, slug, description, content, image_urls, total_size, display_order, is_active, is_draft, estimated_read_time, created_by, updated_by, created_at, updated_at, published_at`

// summaryColumns is the listing projection: every column except content.
const summaryColumns = `id, topic_id, title, slug, description, image_urls, total_size, display_order, is_active, is_draft, estimated_read_time, created_by, updated_by, created_at, updated_at, published_at`

// GetByTopic retrieves a page of documents for a topic ordered by display
// order, without their content. When activeOnly is set, inactive documents
// are excluded.
func (r *DocumentRepository) GetByTopic(ctx context.Context, topicID string, activeOnly bool, limit, offset int) ([]*Document, error) {
	var docs []*Document
	query := `SELECT ` + summaryColumns + ` FROM documents WHERE topic_id = ? ORDER BY display_order ASC LIMIT ? OFFSET ?`
	args := []interface{}{topicID, limit, offset}
	if activeOnly {
		query = `SELECT ` + summaryColumns + ` FROM documents WHERE topic_id = ? AND is_active = ? ORDER BY display_order ASC LIMIT ? OFFSET ?`
		args = []interface{}{topicID, true, limit, offset}
	}
	if err := r.db.SelectContext(ctx, &docs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get documents by topic: %w", err)
	}
	return docs, nil
}

// GetAllByTopic retrieves every document in a topic including content.
// Used by cascading topic deletion, which needs the content for media
// cleanup.
func (r *DocumentRepository) GetAllByTopic(ctx context.Context, topicID string) ([]*Document, error) {
	var docs []*Document
	query := `SELECT ` + documentColumns + ` FROM documents WHERE topic_id = ? ORDER BY display_order ASC`
	if err := r.db.SelectContext(ctx, &docs, query, topicID); err != nil {
		return nil, fmt.Errorf("failed to get all documents by topic: %w", err)
	}
	return docs, nil
}

// CountByTopic counts documents in a topic, optionally only active ones.
func (r *DocumentRepository) CountByTopic(ctx context.Context, topicID string, activeOnly bool) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM documents WHERE topic_id = ?`
	args := []interface{}{topicID}
	if activeOnly {
		query = `SELECT COUNT(*) FROM documents WHERE topic_id = ? AND is_active = ?`
		args = []interface{}{topicID, true}
	}
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count documents by topic: %w", err)
	}
	return count, nil
}

// GetByID retrieves a single document including content. Not found is not
// an error.
func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*Document, error) {
	var doc Document
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = ?`
	if err := r.db.GetContext(ctx, &doc, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document by id: %w", err)
	}
	return &doc, nil
}

// GetByTopicAndSlug retrieves a single document by its topic and slug,
// including content. Not found is not an error.
func (r *DocumentRepository) GetByTopicAndSlug(ctx context.Context, topicID, slug string) (*Document, error) {
	var doc Document
	query := `SELECT ` + documentColumns + ` FROM documents WHERE topic_id = ? AND slug = ?`
	if err := r.db.GetContext(ctx, &doc, query, topicID, slug); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document by slug: %w", err)
	}
	return &doc, nil
}

// ExistsByTitle reports whether a document with the given title exists in
// the topic, ignoring case.
func (r *DocumentRepository) ExistsByTitle(ctx context.Context, topicID, title string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM documents WHERE topic_id = ? AND LOWER(title) = LOWER(?)`
	if err := r.db.GetContext(ctx, &count, query, topicID, title); err != nil {
		return false, fmt.Errorf("failed to check document title: %w", err)
	}
	return count > 0, nil
}

// Create inserts a new document. Returns ErrDuplicate when the title
// collides within the topic.
func (r *DocumentRepository) Create(ctx context.Context, doc *Document) error {
	query := `INSERT INTO documents (id, topic_id, title, slug, description, content, image_urls, total_size, display_order, is_active, is_draft, estimated_read_time, created_by, updated_by, created_at, updated_at, published_at)
		VALUES (:id, :topic_id, :title, :slug, :description, :content, :image_urls, :total_size, :display_order, :is_active, :is_draft, :estimated_read_time, :created_by, :updated_by, :created_at, :updated_at, :published_at)`
	if _, err := r.db.NamedExecContext(ctx, query, doc); err != nil {
		if isDuplicateErr(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create document: %w", err)
	}
	return nil
}

// Update persists changes to an existing document.
func (r *DocumentRepository) Update(ctx context.Context, doc *Document) error {
	query := `UPDATE documents SET title = :title, slug = :slug, description = :description, content = :content,
		image_urls = :image_urls, total_size = :total_size, display_order = :display_order, is_active = :is_active,
		is_draft = :is_draft, estimated_read_time = :estimated_read_time, updated_by = :updated_by,
		updated_at = :updated_at, published_at = :published_at
		WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, doc)
	if err != nil {
		if isDuplicateErr(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update document: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a document by its ID.
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM documents WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the total number of documents.
func (r *DocumentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM documents`); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}
