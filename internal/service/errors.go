package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for the content services. Handlers map these onto HTTP
// status codes; services wrap them with context via fmt.Errorf("%w").
var (
	ErrTopicNotFound    = errors.New("topic not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrNameTaken        = errors.New("a topic with this name already exists")
	ErrTitleTaken       = errors.New("a document with this title already exists in this topic")
	ErrTopicNotEmpty    = errors.New("topic still has documents; delete them first")
	ErrDocumentHidden   = errors.New("document is not accessible")
	ErrValidation       = errors.New("invalid input")
)

// SizeError reports a payload that exceeds a configured byte ceiling.
// Nothing is persisted when a SizeError is returned.
type SizeError struct {
	Actual int64
	Limit  int64
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("size %d bytes exceeds the maximum of %d bytes", e.Actual, e.Limit)
}

// MediaTypeError reports an upload with a content type outside the
// raster-image allow-list.
type MediaTypeError struct {
	ContentType string
}

func (e *MediaTypeError) Error() string {
	return fmt.Sprintf("unsupported media type %q; allowed types: JPEG, JPG, PNG, GIF, WEBP", e.ContentType)
}
