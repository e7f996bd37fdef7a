package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"algoarena/internal/cache"
	"algoarena/internal/data"
	"algoarena/internal/logger"
	"algoarena/internal/media"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// readTimeCharsPerMinute is the reading speed assumed when estimating
// read time from content length.
const readTimeCharsPerMinute = 1000

// TopicCounter refreshes a topic's stored document count after document
// writes. Implemented by TopicService.
type TopicCounter interface {
	UpdateDocumentCount(ctx context.Context, topicID string) error
}

// DocumentInput carries the client-supplied fields for creating or
// updating a document. ImageURLs is only honored under explicit media
// tracking. Pointer fields are optional: on update, nil leaves the
// stored value untouched.
type DocumentInput struct {
	TopicID      string    `json:"topicId"`
	Title        string    `json:"title"`
	Description  *string   `json:"description"`
	Content      *string   `json:"content"`
	ImageURLs    *[]string `json:"imageUrls"`
	DisplayOrder *int      `json:"displayOrder"`
	IsActive     *bool     `json:"isActive"`
	IsDraft      *bool     `json:"isDraft"`
}

// DocumentPage is one page of a topic's document listing. Items carry
// summaries only; Content is omitted.
type DocumentPage struct {
	Items []*data.Document `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Size  int              `json:"size"`
}

// DocumentServicer defines the interface for interacting with documents.
type DocumentServicer interface {
	ListByTopic(ctx context.Context, topicID string, page, size int, includeHidden bool) (*DocumentPage, error)
	GetByID(ctx context.Context, id string, includeHidden bool) (*data.Document, error)
	GetByTopicAndSlug(ctx context.Context, topicID, slug string, includeHidden bool) (*data.Document, error)
	Create(ctx context.Context, input DocumentInput, actor string) (*data.Document, error)
	Update(ctx context.Context, id string, input DocumentInput, actor string) (*data.Document, error)
	Delete(ctx context.Context, id string) error
}

// DocumentService provides business logic for managing documents,
// including media reconciliation against the external store.
type DocumentService struct {
	docs         DocumentRepository
	topics       TopicRepository
	media        MediaCleaner
	counts       TopicCounter
	tracker      media.Tracker
	cache        *cache.Cache
	maxBytes     int64
	trackingMode string
	sanitizer    *bluemonday.Policy
	log          logger.Logger
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(docs DocumentRepository, topics TopicRepository, cleaner MediaCleaner, counts TopicCounter, tracker media.Tracker, c *cache.Cache, maxBytes int64, trackingMode string, log logger.Logger) *DocumentService {
	return &DocumentService{
		docs:         docs,
		topics:       topics,
		media:        cleaner,
		counts:       counts,
		tracker:      tracker,
		cache:        c,
		maxBytes:     maxBytes,
		trackingMode: trackingMode,
		sanitizer:    bluemonday.StrictPolicy(),
		log:          log,
	}
}

// ListByTopic returns one page of a topic's documents ordered by display
// order. Public listings (includeHidden=false) cover active documents
// only and are served from the read cache; admin listings bypass it.
func (s *DocumentService) ListByTopic(ctx context.Context, topicID string, page, size int, includeHidden bool) (*DocumentPage, error) {
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = 1
	}

	key := fmt.Sprintf("%s|%d|%d", topicID, page, size)
	if !includeHidden {
		if cached, err := s.cache.Get(nsDocs, key); err == nil && cached != nil {
			var result DocumentPage
			if err := json.Unmarshal(cached, &result); err == nil {
				return &result, nil
			}
		}
	}

	topic, err := s.topics.GetByID(ctx, topicID)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, fmt.Errorf("%w: %s", ErrTopicNotFound, topicID)
	}

	activeOnly := !includeHidden
	docs, err := s.docs.GetByTopic(ctx, topicID, activeOnly, size, page*size)
	if err != nil {
		return nil, err
	}
	total, err := s.docs.CountByTopic(ctx, topicID, activeOnly)
	if err != nil {
		return nil, err
	}

	result := &DocumentPage{Items: docs, Total: total, Page: page, Size: size}
	if !includeHidden {
		if encoded, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(nsDocs, key, encoded); err != nil {
				s.log.Error(err, "Failed to cache document listing")
			}
		}
	}
	return result, nil
}

// GetByID retrieves a single document with its full content. Documents
// that are neither active nor drafts are hidden from public reads.
func (s *DocumentService) GetByID(ctx context.Context, id string, includeHidden bool) (*data.Document, error) {
	if !includeHidden {
		if cached, err := s.cache.Get(nsDoc, id); err == nil && cached != nil {
			var doc data.Document
			if err := json.Unmarshal(cached, &doc); err == nil {
				return &doc, nil
			}
		}
	}

	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	if !includeHidden {
		if !doc.IsActive && !doc.IsDraft {
			return nil, fmt.Errorf("%w: %s", ErrDocumentHidden, id)
		}
		if encoded, err := json.Marshal(doc); err == nil {
			if err := s.cache.Set(nsDoc, id, encoded); err != nil {
				s.log.Error(err, "Failed to cache document")
			}
		}
	}
	return doc, nil
}

// GetByTopicAndSlug retrieves a document by its slug within a topic.
func (s *DocumentService) GetByTopicAndSlug(ctx context.Context, topicID, slug string, includeHidden bool) (*data.Document, error) {
	doc, err := s.docs.GetByTopicAndSlug(ctx, topicID, slug)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrDocumentNotFound, topicID, slug)
	}
	if !includeHidden && !doc.IsActive && !doc.IsDraft {
		return nil, fmt.Errorf("%w: %s", ErrDocumentHidden, doc.ID)
	}
	return doc, nil
}

// Create creates a new document under an existing topic. The title must
// be unique within the topic ignoring case; the payload size is checked
// before anything is persisted.
func (s *DocumentService) Create(ctx context.Context, input DocumentInput, actor string) (*data.Document, error) {
	title := s.sanitizer.Sanitize(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: document title is required", ErrValidation)
	}
	content := ""
	if input.Content != nil {
		content = *input.Content
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: document content is required", ErrValidation)
	}

	topic, err := s.topics.GetByID(ctx, input.TopicID)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, fmt.Errorf("%w: %s", ErrTopicNotFound, input.TopicID)
	}

	exists, err := s.docs.ExistsByTitle(ctx, input.TopicID, title)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrTitleTaken, title)
	}

	var imageURLs []string
	if input.ImageURLs != nil {
		imageURLs = *input.ImageURLs
	}
	urls := s.tracker.URLs(content, imageURLs)
	totalSize, err := validateSize(s.maxBytes, s.trackingMode, content, title, urls)
	if err != nil {
		return nil, err
	}

	description := ""
	if input.Description != nil {
		description = s.sanitizer.Sanitize(*input.Description)
	}

	now := time.Now()
	doc := &data.Document{
		ID:                uuid.NewString(),
		TopicID:           input.TopicID,
		Title:             title,
		Slug:              slugify(title),
		Description:       description,
		Content:           content,
		ImageURLs:         urls,
		TotalSize:         totalSize,
		IsActive:          true,
		EstimatedReadTime: estimateReadTime(content),
		CreatedBy:         actor,
		UpdatedBy:         actor,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if input.DisplayOrder != nil {
		doc.DisplayOrder = *input.DisplayOrder
	}
	if input.IsActive != nil {
		doc.IsActive = *input.IsActive
	}
	if input.IsDraft != nil {
		doc.IsDraft = *input.IsDraft
	}
	if !doc.IsDraft {
		doc.Publish()
	}

	if err := s.docs.Create(ctx, doc); err != nil {
		if err == data.ErrDuplicate {
			return nil, fmt.Errorf("%w: %s", ErrTitleTaken, title)
		}
		return nil, err
	}

	s.refreshCount(ctx, doc.TopicID)
	s.evictDocumentCaches()
	return doc, nil
}

// Update updates an existing document. Fields left out of the input
// keep their stored values. Image references present before the update
// but absent afterwards are deleted from the media store best-effort;
// the size check runs before any mutation or deletion.
func (s *DocumentService) Update(ctx context.Context, id string, input DocumentInput, actor string) (*data.Document, error) {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}

	title := s.sanitizer.Sanitize(input.Title)
	if title != "" && !strings.EqualFold(doc.Title, title) {
		exists, err := s.docs.ExistsByTitle(ctx, doc.TopicID, title)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%w: %s", ErrTitleTaken, title)
		}
	}
	if title == "" {
		title = doc.Title
	}

	content := doc.Content
	if input.Content != nil {
		if strings.TrimSpace(*input.Content) == "" {
			return nil, fmt.Errorf("%w: document content is required", ErrValidation)
		}
		content = *input.Content
	}
	imageURLs := []string(doc.ImageURLs)
	if input.ImageURLs != nil {
		imageURLs = *input.ImageURLs
	}

	newURLs := s.tracker.URLs(content, imageURLs)
	totalSize, err := validateSize(s.maxBytes, s.trackingMode, content, title, newURLs)
	if err != nil {
		return nil, err
	}

	oldURLs := s.tracker.URLs(doc.Content, doc.ImageURLs)
	for _, url := range removedURLs(oldURLs, newURLs) {
		s.media.DeleteByURL(ctx, url)
	}

	doc.Title = title
	doc.Slug = slugify(title)
	if input.Description != nil {
		doc.Description = s.sanitizer.Sanitize(*input.Description)
	}
	doc.Content = content
	doc.ImageURLs = newURLs
	doc.TotalSize = totalSize
	doc.EstimatedReadTime = estimateReadTime(content)
	if input.DisplayOrder != nil {
		doc.DisplayOrder = *input.DisplayOrder
	}
	if input.IsActive != nil {
		doc.IsActive = *input.IsActive
	}
	if input.IsDraft != nil {
		doc.IsDraft = *input.IsDraft
		if !doc.IsDraft && doc.PublishedAt == nil {
			doc.Publish()
		}
	}
	doc.UpdatedBy = actor
	doc.UpdatedAt = time.Now()

	if err := s.docs.Update(ctx, doc); err != nil {
		if err == data.ErrDuplicate {
			return nil, fmt.Errorf("%w: %s", ErrTitleTaken, title)
		}
		return nil, err
	}

	s.refreshCount(ctx, doc.TopicID)
	s.evictDocumentCaches()
	return doc, nil
}

// Delete deletes a document and, best-effort, every image it references.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	doc, err := s.docs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}

	for _, url := range s.tracker.URLs(doc.Content, doc.ImageURLs) {
		s.media.DeleteByURL(ctx, url)
	}

	if err := s.docs.Delete(ctx, id); err != nil {
		return err
	}

	s.refreshCount(ctx, doc.TopicID)
	s.evictDocumentCaches()
	return nil
}

func (s *DocumentService) refreshCount(ctx context.Context, topicID string) {
	if err := s.counts.UpdateDocumentCount(ctx, topicID); err != nil {
		s.log.Error(err, fmt.Sprintf("Failed to refresh document count for topic %s", topicID))
	}
}

// Document writes also evict the topic namespaces: listings embed the
// per-topic document counts.
func (s *DocumentService) evictDocumentCaches() {
	if err := s.cache.EvictNamespaces(nsDocs, nsDoc, nsTopics, nsTopic); err != nil {
		s.log.Error(err, "Failed to evict document caches")
	}
}

// estimateReadTime estimates reading minutes from content length,
// never less than one.
func estimateReadTime(content string) int {
	minutes := utf8.RuneCountInString(content) / readTimeCharsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// removedURLs returns the URLs present in old but not in updated.
func removedURLs(old, updated []string) []string {
	current := make(map[string]struct{}, len(updated))
	for _, url := range updated {
		current[url] = struct{}{}
	}
	var removed []string
	for _, url := range old {
		if _, ok := current[url]; !ok {
			removed = append(removed, url)
		}
	}
	return removed
}
