// Package normalizer reconciles the historical image-storage formats of a
// product record into one canonical ordered image list. Over the years the
// images field has been written as a string array, a JSON-encoded array
// string, and a comma-separated string; some oldest records only carry the
// single legacy image field. Every product read path goes through Normalize
// so the rest of the application only ever sees the canonical shape.
package normalizer

import (
	"encoding/json"
	"strings"

	"github.com/fatihhtaskesenn/arora-backend/internal/models"
)

// Normalized is the canonical image shape: a deduplicated ordered list with
// the primary image at index 0.
type Normalized struct {
	Images       []string `json:"images"`
	PrimaryImage string   `json:"primaryImage"`
}

// Normalize converts a raw images field plus the legacy single-image field
// into the canonical shape. It never fails: any unparseable input degrades
// through the fallback chain, worst case yielding an empty list and an empty
// primary image.
//
// Accepted raw shapes, in order of preference:
//  1. an ordered list of strings (including bson's []interface{} decoding)
//  2. a string that parses as a JSON array of strings
//  3. a comma-separated string
//  4. absent, falling back to the legacy scalar field
func Normalize(raw interface{}, legacy string) Normalized {
	list := coerceList(raw)
	images := clean(list)

	primary := legacy
	if len(images) > 0 {
		primary = images[0]
	}

	return Normalized{
		Images:       images,
		PrimaryImage: strings.TrimSpace(primary),
	}
}

// NormalizeProduct is the convenience form used by handlers.
func NormalizeProduct(p models.Product) Normalized {
	return Normalize(p.ImagesRaw, p.Image)
}

func coerceList(raw interface{}) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case []string:
		return v
	case []interface{}:
		// bson decodes arrays into []interface{}; non-string elements are
		// dropped rather than failing the whole record.
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		return coerceString(v)
	default:
		return nil
	}
}

func coerceString(s string) []string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}

	// Try the JSON-array shape first; on any parse failure fall through to
	// the comma-split strategy.
	if strings.HasPrefix(trimmed, "[") {
		var parsed []string
		if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil {
			return parsed
		}
	}

	return strings.Split(trimmed, ",")
}

// clean trims every entry, drops empties and removes duplicates while
// preserving first-seen order.
func clean(list []string) []string {
	out := make([]string, 0, len(list))
	seen := make(map[string]bool, len(list))
	for _, item := range list {
		item = strings.TrimSpace(item)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
