package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// TopicRepository handles database operations for topics.
type TopicRepository struct {
	db *sqlx.DB
}

// NewTopicRepository creates a new TopicRepository.
func NewTopicRepository(db *sqlx.DB) *TopicRepository {
	return &TopicRepository{db: db}
}

const topicColumns = `id, name, slug, description, icon, color, display_order, is_active, document_count, created_by, updated_by, created_at, updated_at`

// GetAll retrieves topics ordered by display order. When activeOnly is set,
// inactive topics are excluded.
func (r *TopicRepository) GetAll(ctx context.Context, activeOnly bool) ([]*Topic, error) {
	var topics []*Topic
	query := `SELECT ` + topicColumns + ` FROM topics ORDER BY display_order ASC`
	if activeOnly {
		query = `SELECT ` + topicColumns + ` FROM topics WHERE is_active = ? ORDER BY display_order ASC`
		if err := r.db.SelectContext(ctx, &topics, query, true); err != nil {
			return nil, fmt.Errorf("failed to get active topics: %w", err)
		}
		return topics, nil
	}
	if err := r.db.SelectContext(ctx, &topics, query); err != nil {
		return nil, fmt.Errorf("failed to get topics: %w", err)
	}
	return topics, nil
}

// GetByID finds a topic by its ID. Not found is not an error.
func (r *TopicRepository) GetByID(ctx context.Context, id string) (*Topic, error) {
	var topic Topic
	query := `SELECT ` + topicColumns + ` FROM topics WHERE id = ?`
	if err := r.db.GetContext(ctx, &topic, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get topic by id: %w", err)
	}
	return &topic, nil
}

// GetBySlug finds a topic by its slug. Not found is not an error.
func (r *TopicRepository) GetBySlug(ctx context.Context, slug string) (*Topic, error) {
	var topic Topic
	query := `SELECT ` + topicColumns + ` FROM topics WHERE slug = ?`
	if err := r.db.GetContext(ctx, &topic, query, slug); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get topic by slug: %w", err)
	}
	return &topic, nil
}

// ExistsByName reports whether a topic with the given name exists,
// ignoring case.
func (r *TopicRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM topics WHERE LOWER(name) = LOWER(?)`
	if err := r.db.GetContext(ctx, &count, query, name); err != nil {
		return false, fmt.Errorf("failed to check topic name: %w", err)
	}
	return count > 0, nil
}

// Create inserts a new topic. Returns ErrDuplicate when the name or slug
// collides with an existing topic.
func (r *TopicRepository) Create(ctx context.Context, topic *Topic) error {
	query := `INSERT INTO topics (id, name, slug, description, icon, color, display_order, is_active, document_count, created_by, updated_by, created_at, updated_at)
		VALUES (:id, :name, :slug, :description, :icon, :color, :display_order, :is_active, :document_count, :created_by, :updated_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, topic); err != nil {
		if isDuplicateErr(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create topic: %w", err)
	}
	return nil
}

// Update persists changes to an existing topic.
func (r *TopicRepository) Update(ctx context.Context, topic *Topic) error {
	query := `UPDATE topics SET name = :name, slug = :slug, description = :description, icon = :icon, color = :color,
		display_order = :display_order, is_active = :is_active, updated_by = :updated_by, updated_at = :updated_at
		WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, topic)
	if err != nil {
		if isDuplicateErr(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update topic: %w", err)
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

// UpdateDocumentCount persists the cached document count for a topic.
func (r *TopicRepository) UpdateDocumentCount(ctx context.Context, id string, count int) error {
	query := `UPDATE topics SET document_count = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, count, id); err != nil {
		return fmt.Errorf("failed to update document count: %w", err)
	}
	return nil
}

// Delete removes a topic by its ID.
func (r *TopicRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM topics WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete topic: %w", err)
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

// Count returns the total number of topics.
func (r *TopicRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM topics`); err != nil {
		return 0, fmt.Errorf("failed to count topics: %w", err)
	}
	return count, nil
}
