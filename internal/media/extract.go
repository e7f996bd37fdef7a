// Package media integrates with the external media store: it uploads and
// deletes image objects, derives store object IDs from delivery URLs, and
// locates image references inside document content.
package media

import "encoding/json"

// ExtractURLs collects the set of image URLs referenced by a content
// payload. Content is an opaque JSON tree; any object node whose "type"
// field is "image" contributes its "url" field, or a nested
// "imageMeta.url" field when "url" is absent.
//
// Extraction is advisory: malformed or unexpected node shapes are skipped
// and a payload that does not parse as JSON yields an empty set.
func ExtractURLs(content string) map[string]struct{} {
	urls := make(map[string]struct{})
	if content == "" {
		return urls
	}
	var root interface{}
	if err := json.Unmarshal([]byte(content), &root); err != nil {
		return urls
	}
	collectURLs(root, urls)
	return urls
}

// collectURLs walks the decoded tree depth-first. Arrays visit each
// element, objects visit every field value.
func collectURLs(node interface{}, urls map[string]struct{}) {
	switch n := node.(type) {
	case []interface{}:
		for _, item := range n {
			collectURLs(item, urls)
		}
	case map[string]interface{}:
		if t, _ := n["type"].(string); t == "image" {
			val, ok := n["url"]
			if !ok {
				if meta, isObj := n["imageMeta"].(map[string]interface{}); isObj {
					val = meta["url"]
				}
			}
			if url, isString := val.(string); isString {
				urls[url] = struct{}{}
			}
		}
		for _, v := range n {
			collectURLs(v, urls)
		}
	}
}
