package service

import "algoarena/internal/media"

// documentSize computes the byte size of a document payload under the
// given tracking mode. With explicit tracking the total covers content,
// title, and every tracked image URL; with content tracking the content
// alone is measured.
func documentSize(mode, content, title string, imageURLs []string) int64 {
	total := int64(len(content))
	if mode != media.TrackingExplicit {
		return total
	}
	total += int64(len(title))
	for _, url := range imageURLs {
		total += int64(len(url))
	}
	return total
}

// validateSize returns the computed size, or a SizeError when it exceeds
// the limit. A payload of exactly the limit is accepted.
func validateSize(limit int64, mode, content, title string, imageURLs []string) (int64, error) {
	total := documentSize(mode, content, title, imageURLs)
	if total > limit {
		return 0, &SizeError{Actual: total, Limit: limit}
	}
	return total, nil
}
