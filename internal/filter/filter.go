// Package filter narrows record collections by a free-text query.
//
// A record matches when any of its searchable fields contains the query,
// compared case-insensitively. An empty query matches everything and the
// source collection is returned as-is.
package filter

import "strings"

// Field names a searchable record attribute.
type Field string

const (
	Filename Field = "filename"
	Content  Field = "content"
	Username Field = "username"
)

// Fields is the fixed set of attributes consulted when matching.
var Fields = []Field{Filename, Content, Username}

// Record is anything the engine can search. Field reports false when the
// record has no value for f; absent fields never match.
type Record interface {
	Field(f Field) (string, bool)
}

// Filter returns the records matching query, in source order. The input
// slice is never modified. An empty query returns records unchanged.
func Filter[R Record](records []R, query string) []R {
	if query == "" {
		return records
	}
	q := strings.ToLower(query)
	out := make([]R, 0, len(records))
	for _, r := range records {
		if Match(r, q) {
			out = append(out, r)
		}
	}
	return out
}

// Match reports whether r matches an already lower-cased query.
func Match(r Record, lowered string) bool {
	for _, f := range Fields {
		v, ok := r.Field(f)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(v), lowered) {
			return true
		}
	}
	return false
}

// Map adapts a decoded JSON object into a Record. Non-string values are
// treated as absent.
type Map map[string]any

// Field implements Record.
func (m Map) Field(f Field) (string, bool) {
	v, ok := m[string(f)]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
