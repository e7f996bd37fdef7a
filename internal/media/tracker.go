package media

import (
	"fmt"
	"sort"
)

// Tracking modes for ContentConfig.MediaTracking.
const (
	TrackingContent  = "content"
	TrackingExplicit = "explicit"
)

// Tracker reports which media URLs a document references. The two
// implementations reflect the two consistency strategies in the domain:
// deriving references from the content tree versus trusting an explicit
// list supplied by the client.
type Tracker interface {
	URLs(content string, imageURLs []string) []string
}

// NewTracker returns the Tracker for a configured tracking mode.
func NewTracker(mode string) (Tracker, error) {
	switch mode {
	case TrackingContent:
		return ContentTracker{}, nil
	case TrackingExplicit:
		return ExplicitTracker{}, nil
	default:
		return nil, fmt.Errorf("unknown media tracking mode %q", mode)
	}
}

// ContentTracker derives media references from the content tree.
type ContentTracker struct{}

// URLs returns the deduplicated image URLs found in content. The explicit
// list is ignored.
func (ContentTracker) URLs(content string, _ []string) []string {
	set := ExtractURLs(content)
	urls := make([]string, 0, len(set))
	for url := range set {
		urls = append(urls, url)
	}
	sort.Strings(urls)
	return urls
}

// ExplicitTracker trusts the image-URL list supplied by the client.
type ExplicitTracker struct{}

// URLs returns the deduplicated explicit list. Content is ignored.
func (ExplicitTracker) URLs(_ string, imageURLs []string) []string {
	seen := make(map[string]struct{}, len(imageURLs))
	urls := make([]string, 0, len(imageURLs))
	for _, url := range imageURLs {
		if _, dup := seen[url]; dup || url == "" {
			continue
		}
		seen[url] = struct{}{}
		urls = append(urls, url)
	}
	return urls
}
