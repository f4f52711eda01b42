// Package record parses flat-text livestock record files into ID-keyed sets
// and reconciles two such sets into one.
package record

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a record ID is not present in a Set.
var ErrNotFound = errors.New("record not found")

// Set maps a record ID to the verbatim record text. The text always starts
// with the ID line that introduced the record.
type Set map[string]string

// Get returns the text stored under id
func (s Set) Get(id string) (string, error) {
	text, ok := s[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return text, nil
}

// Has reports whether id is present
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Clone returns a shallow copy of the set. A nil set clones to an empty one.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for id, text := range s {
		out[id] = text
	}
	return out
}
