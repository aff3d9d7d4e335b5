package repos

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Mutable-field allow-lists per entity. UpdateFields calls accept a loose
// map from handlers; anything outside the allow-list is rejected so callers
// cannot flip status columns or counters through the generic update path.
var (
	bookUpdatableFields = map[string]bool{
		"title":       true,
		"author":      true,
		"isbn":        true,
		"category_id": true,
		"cover_url":   true,
		"file_url":    true,
	}
	contentUpdatableFields = map[string]bool{
		"chapter_title":              true,
		"summary":                    true,
		"key_points":                 true,
		"estimated_duration_seconds": true,
	}
	videoUpdatableFields = map[string]bool{
		"title":            true,
		"english_title":    true,
		"category_id":      true,
		"cover_url":        true,
		"video_url":        true,
		"duration_seconds": true,
		"file_size_bytes":  true,
	}
	userUpdatableFields = map[string]bool{
		"username":    true,
		"can_publish": true,
		"can_comment": true,
	}
)

// relation fields carry foreign keys and must parse as uuids.
var relationFields = map[string]bool{
	"category_id": true,
}

// columnName maps a camelCase wire key onto its storage column; snake_case
// keys pass through unchanged.
func columnName(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)
	for _, r := range key {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func filterUpdates(allowed map[string]bool, updates map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(updates))
	for key, val := range updates {
		col := columnName(key)
		if !allowed[col] {
			return nil, fmt.Errorf("field %q is not updatable", key)
		}
		if relationFields[col] {
			resolved, err := resolveRelation(col, val)
			if err != nil {
				return nil, err
			}
			out[col] = resolved
			continue
		}
		out[col] = val
	}
	return out, nil
}

func resolveRelation(key string, val interface{}) (interface{}, error) {
	switch v := val.(type) {
	case uuid.UUID:
		return v, nil
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: invalid reference id %q", key, v)
		}
		return id, nil
	default:
		return nil, fmt.Errorf("field %q: unsupported reference value", key)
	}
}
