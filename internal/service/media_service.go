package service

import (
	"context"
	"fmt"

	"algoarena/internal/logger"
	"algoarena/internal/media"
)

// MediaUploader is the media store client used by MediaService.
type MediaUploader interface {
	Upload(ctx context.Context, data []byte, folder string) (*media.UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}

// MediaCleaner deletes remote media objects addressed by stored URLs.
// Deletion is best-effort: failures are logged, never propagated, so a
// failing media store can never abort a document or topic write.
type MediaCleaner interface {
	DeleteByURL(ctx context.Context, url string)
}

// MediaServicer defines the interface for managing media objects.
type MediaServicer interface {
	MediaCleaner
	Upload(ctx context.Context, data []byte, folder, contentType string) (*media.UploadResult, error)
}

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// MediaService validates uploads and performs best-effort deletions
// against the external media store.
type MediaService struct {
	client   MediaUploader
	maxBytes int64
	log      logger.Logger
}

// NewMediaService creates a new MediaService. maxBytes is the per-image
// size ceiling.
func NewMediaService(client MediaUploader, maxBytes int64, log logger.Logger) *MediaService {
	return &MediaService{client: client, maxBytes: maxBytes, log: log}
}

// Upload validates size and content type, then stores the image remotely.
func (s *MediaService) Upload(ctx context.Context, data []byte, folder, contentType string) (*media.UploadResult, error) {
	if int64(len(data)) > s.maxBytes {
		return nil, &SizeError{Actual: int64(len(data)), Limit: s.maxBytes}
	}
	if _, ok := allowedImageTypes[contentType]; !ok {
		return nil, &MediaTypeError{ContentType: contentType}
	}
	return s.client.Upload(ctx, data, folder)
}

// DeleteByURL derives the public ID from a delivery URL and deletes the
// object. URLs that do not belong to the media store are a silent no-op.
func (s *MediaService) DeleteByURL(ctx context.Context, url string) {
	publicID := media.PublicIDFromURL(url)
	if publicID == "" {
		return
	}
	if err := s.client.Delete(ctx, publicID); err != nil {
		s.log.Error(err, fmt.Sprintf("Failed to delete media object %q", url))
	}
}
