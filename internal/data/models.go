package data

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Topic groups documents under a named subject (e.g. "React", "DBMS").
type Topic struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Slug          string    `db:"slug" json:"slug"`
	Description   string    `db:"description" json:"description,omitempty"`
	Icon          string    `db:"icon" json:"icon,omitempty"`
	Color         string    `db:"color" json:"color,omitempty"`
	DisplayOrder  int       `db:"display_order" json:"displayOrder"`
	IsActive      bool      `db:"is_active" json:"isActive"`
	DocumentCount int       `db:"document_count" json:"documentCount"`
	CreatedBy     string    `db:"created_by" json:"createdBy,omitempty"`
	UpdatedBy     string    `db:"updated_by" json:"updatedBy,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// Document is a titled unit of content owned by exactly one topic.
// Content is an opaque JSON tree from the frontend editor; the backend
// only inspects it to locate image references.
type Document struct {
	ID                string     `db:"id" json:"id"`
	TopicID           string     `db:"topic_id" json:"topicId"`
	Title             string     `db:"title" json:"title"`
	Slug              string     `db:"slug" json:"slug"`
	Description       string     `db:"description" json:"description,omitempty"`
	Content           string     `db:"content" json:"content,omitempty"`
	ImageURLs         StringList `db:"image_urls" json:"imageUrls,omitempty"`
	TotalSize         int64      `db:"total_size" json:"totalSize"`
	DisplayOrder      int        `db:"display_order" json:"displayOrder"`
	IsActive          bool       `db:"is_active" json:"isActive"`
	IsDraft           bool       `db:"is_draft" json:"isDraft"`
	EstimatedReadTime int        `db:"estimated_read_time" json:"estimatedReadTime"`
	CreatedBy         string     `db:"created_by" json:"createdBy,omitempty"`
	UpdatedBy         string     `db:"updated_by" json:"updatedBy,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updatedAt"`
	PublishedAt       *time.Time `db:"published_at" json:"publishedAt,omitempty"`
}

// Publish marks the document as published. PublishedAt is set only on the
// first transition and is never cleared afterwards.
func (d *Document) Publish() {
	d.IsDraft = false
	d.IsActive = true
	if d.PublishedAt == nil {
		now := time.Now()
		d.PublishedAt = &now
	}
}

// StringList stores a JSON-encoded list of strings in a single text column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to encode string list: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		if len(v) == 0 {
			*l = StringList{}
			return nil
		}
		return json.Unmarshal(v, l)
	case string:
		if v == "" {
			*l = StringList{}
			return nil
		}
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}
