package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"algoarena/internal/cache"
	"algoarena/internal/data"
	"algoarena/internal/logger"
	"algoarena/internal/media"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// Topic delete policies for ContentConfig.DeletePolicy.
const (
	DeleteRestrict = "restrict"
	DeleteCascade  = "cascade"
)

// Cache namespaces, partitioned by read operation.
const (
	nsTopics = "topics"
	nsTopic  = "topic"
	nsDocs   = "docs"
	nsDoc    = "doc"
)

// TopicRepository defines the interface for database operations on topics.
type TopicRepository interface {
	GetAll(ctx context.Context, activeOnly bool) ([]*data.Topic, error)
	GetByID(ctx context.Context, id string) (*data.Topic, error)
	GetBySlug(ctx context.Context, slug string) (*data.Topic, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, topic *data.Topic) error
	Update(ctx context.Context, topic *data.Topic) error
	UpdateDocumentCount(ctx context.Context, id string, count int) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// DocumentRepository defines the interface for database operations on documents.
type DocumentRepository interface {
	GetByTopic(ctx context.Context, topicID string, activeOnly bool, limit, offset int) ([]*data.Document, error)
	GetAllByTopic(ctx context.Context, topicID string) ([]*data.Document, error)
	CountByTopic(ctx context.Context, topicID string, activeOnly bool) (int64, error)
	GetByID(ctx context.Context, id string) (*data.Document, error)
	GetByTopicAndSlug(ctx context.Context, topicID, slug string) (*data.Document, error)
	ExistsByTitle(ctx context.Context, topicID, title string) (bool, error)
	Create(ctx context.Context, doc *data.Document) error
	Update(ctx context.Context, doc *data.Document) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// TopicInput carries the client-supplied fields for creating or updating
// a topic. Pointer fields are optional: nil leaves the current value (or
// default) in place.
type TopicInput struct {
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	Icon         *string `json:"icon"`
	Color        *string `json:"color"`
	DisplayOrder *int    `json:"displayOrder"`
	IsActive     *bool   `json:"isActive"`
}

// Stats summarizes the content inventory.
type Stats struct {
	TotalTopics    int64 `json:"totalTopics"`
	TotalDocuments int64 `json:"totalDocuments"`
}

// TopicServicer defines the interface for interacting with topics.
type TopicServicer interface {
	ListTopics(ctx context.Context, activeOnly bool) ([]*data.Topic, error)
	GetTopic(ctx context.Context, identifier string) (*data.Topic, error)
	CreateTopic(ctx context.Context, input TopicInput, actor string) (*data.Topic, error)
	UpdateTopic(ctx context.Context, id string, input TopicInput, actor string) (*data.Topic, error)
	DeleteTopic(ctx context.Context, id string) error
	Stats(ctx context.Context) (*Stats, error)
}

// TopicService provides business logic for managing topics.
type TopicService struct {
	topics       TopicRepository
	docs         DocumentRepository
	media        MediaCleaner
	tracker      media.Tracker
	cache        *cache.Cache
	deletePolicy string
	sanitizer    *bluemonday.Policy
	log          logger.Logger
}

// NewTopicService creates a new TopicService. deletePolicy is one of
// DeleteRestrict or DeleteCascade.
func NewTopicService(topics TopicRepository, docs DocumentRepository, cleaner MediaCleaner, tracker media.Tracker, c *cache.Cache, deletePolicy string, log logger.Logger) *TopicService {
	return &TopicService{
		topics:       topics,
		docs:         docs,
		media:        cleaner,
		tracker:      tracker,
		cache:        c,
		deletePolicy: deletePolicy,
		// StrictPolicy strips all HTML; names and descriptions are plain text.
		sanitizer: bluemonday.StrictPolicy(),
		log:       log,
	}
}

// ListTopics retrieves topics ordered by display order, serving from the
// read cache when possible.
func (s *TopicService) ListTopics(ctx context.Context, activeOnly bool) ([]*data.Topic, error) {
	key := "all"
	if activeOnly {
		key = "active"
	}
	if cached, err := s.cache.Get(nsTopics, key); err == nil && cached != nil {
		var topics []*data.Topic
		if err := json.Unmarshal(cached, &topics); err == nil {
			return topics, nil
		}
	}

	topics, err := s.topics.GetAll(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(topics); err == nil {
		if err := s.cache.Set(nsTopics, key, encoded); err != nil {
			s.log.Error(err, "Failed to cache topic list")
		}
	}
	return topics, nil
}

// GetTopic retrieves a single topic by ID or, failing that, by slug.
func (s *TopicService) GetTopic(ctx context.Context, identifier string) (*data.Topic, error) {
	if cached, err := s.cache.Get(nsTopic, identifier); err == nil && cached != nil {
		var topic data.Topic
		if err := json.Unmarshal(cached, &topic); err == nil {
			return &topic, nil
		}
	}

	topic, err := s.topics.GetByID(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		if topic, err = s.topics.GetBySlug(ctx, identifier); err != nil {
			return nil, err
		}
	}
	if topic == nil {
		return nil, fmt.Errorf("%w: %s", ErrTopicNotFound, identifier)
	}

	if encoded, err := json.Marshal(topic); err == nil {
		if err := s.cache.Set(nsTopic, identifier, encoded); err != nil {
			s.log.Error(err, "Failed to cache topic")
		}
	}
	return topic, nil
}

// CreateTopic creates a new topic. The name must be unique ignoring case.
func (s *TopicService) CreateTopic(ctx context.Context, input TopicInput, actor string) (*data.Topic, error) {
	name := s.sanitizer.Sanitize(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: topic name is required", ErrValidation)
	}

	exists, err := s.topics.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrNameTaken, name)
	}

	description := ""
	if input.Description != nil {
		description = s.sanitizer.Sanitize(*input.Description)
	}

	now := time.Now()
	topic := &data.Topic{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        slugify(name),
		Description: description,
		IsActive:    true,
		CreatedBy:   actor,
		UpdatedBy:   actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.Icon != nil {
		topic.Icon = *input.Icon
	}
	if input.Color != nil {
		topic.Color = *input.Color
	}
	if input.DisplayOrder != nil {
		topic.DisplayOrder = *input.DisplayOrder
	}
	if input.IsActive != nil {
		topic.IsActive = *input.IsActive
	}

	if err := s.topics.Create(ctx, topic); err != nil {
		// The unique index closes the window between the existence check
		// and the insert.
		if err == data.ErrDuplicate {
			return nil, fmt.Errorf("%w: %s", ErrNameTaken, name)
		}
		return nil, err
	}

	s.evictTopicCaches()
	return topic, nil
}

// UpdateTopic updates an existing topic. Renames re-check uniqueness
// excluding the topic itself; a changed icon has its previous media
// object deleted best-effort.
func (s *TopicService) UpdateTopic(ctx context.Context, id string, input TopicInput, actor string) (*data.Topic, error) {
	topic, err := s.topics.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, fmt.Errorf("%w: %s", ErrTopicNotFound, id)
	}

	name := s.sanitizer.Sanitize(input.Name)
	if name != "" && !strings.EqualFold(topic.Name, name) {
		exists, err := s.topics.ExistsByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%w: %s", ErrNameTaken, name)
		}
		topic.Name = name
		topic.Slug = slugify(name)
	} else if name != "" {
		// Same name modulo case still updates the stored spelling.
		topic.Name = name
		topic.Slug = slugify(name)
	}

	if input.Description != nil {
		topic.Description = s.sanitizer.Sanitize(*input.Description)
	}
	if input.Icon != nil && *input.Icon != topic.Icon {
		if topic.Icon != "" {
			s.media.DeleteByURL(ctx, topic.Icon)
		}
		topic.Icon = *input.Icon
	}
	if input.Color != nil {
		topic.Color = *input.Color
	}
	if input.DisplayOrder != nil {
		topic.DisplayOrder = *input.DisplayOrder
	}
	if input.IsActive != nil {
		topic.IsActive = *input.IsActive
	}
	topic.UpdatedBy = actor
	topic.UpdatedAt = time.Now()

	if err := s.topics.Update(ctx, topic); err != nil {
		if err == data.ErrDuplicate {
			return nil, fmt.Errorf("%w: %s", ErrNameTaken, name)
		}
		return nil, err
	}

	s.evictTopicCaches()
	return topic, nil
}

// DeleteTopic deletes a topic according to the configured policy:
// restrict refuses while the topic owns documents, cascade deletes every
// owned document (with its media) first. Media deletions are best-effort
// and never abort the cascade.
func (s *TopicService) DeleteTopic(ctx context.Context, id string) error {
	topic, err := s.topics.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if topic == nil {
		return fmt.Errorf("%w: %s", ErrTopicNotFound, id)
	}

	switch s.deletePolicy {
	case DeleteCascade:
		docs, err := s.docs.GetAllByTopic(ctx, id)
		if err != nil {
			return err
		}
		s.log.Info(fmt.Sprintf("Deleting topic %q with %d documents", topic.Name, len(docs)))
		for _, doc := range docs {
			for _, url := range s.tracker.URLs(doc.Content, doc.ImageURLs) {
				s.media.DeleteByURL(ctx, url)
			}
			if err := s.docs.Delete(ctx, doc.ID); err != nil {
				return fmt.Errorf("failed to cascade-delete document %s: %w", doc.ID, err)
			}
		}
	default: // DeleteRestrict
		count, err := s.docs.CountByTopic(ctx, id, false)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: %d remaining", ErrTopicNotEmpty, count)
		}
	}

	if topic.Icon != "" {
		s.media.DeleteByURL(ctx, topic.Icon)
	}

	if err := s.topics.Delete(ctx, id); err != nil {
		return err
	}

	s.evictAllCaches()
	return nil
}

// UpdateDocumentCount recomputes and persists the cached count of active
// documents under a topic. The count is eventually consistent: concurrent
// document writes may make it transiently stale.
func (s *TopicService) UpdateDocumentCount(ctx context.Context, topicID string) error {
	count, err := s.docs.CountByTopic(ctx, topicID, true)
	if err != nil {
		return err
	}
	return s.topics.UpdateDocumentCount(ctx, topicID, int(count))
}

// Stats returns total topic and document counts.
func (s *TopicService) Stats(ctx context.Context) (*Stats, error) {
	totalTopics, err := s.topics.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalDocs, err := s.docs.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{TotalTopics: totalTopics, TotalDocuments: totalDocs}, nil
}

func (s *TopicService) evictTopicCaches() {
	if err := s.cache.EvictNamespaces(nsTopics, nsTopic); err != nil {
		s.log.Error(err, "Failed to evict topic caches")
	}
}

func (s *TopicService) evictAllCaches() {
	if err := s.cache.EvictNamespaces(nsTopics, nsTopic, nsDocs, nsDoc); err != nil {
		s.log.Error(err, "Failed to evict caches")
	}
}
