// Package store defines the document store capability set the admin tooling
// consumes. Backends live in the firestore, mongo and memstore subpackages.
package store

import (
	"context"
	"errors"
)

// Record is a schemaless document body.
type Record map[string]any

// DocumentRef identifies a stored document. Data is populated by List when
// the backend returns it with the snapshot and may be nil otherwise.
type DocumentRef struct {
	Collection string
	ID         string
	Data       Record
}

// Filter is an equality predicate on a top-level field.
type Filter struct {
	Field string
	Value any
}

func Where(field string, value any) Filter {
	return Filter{Field: field, Value: value}
}

type SetOptions struct {
	// Merge overwrites only the fields present in the payload and leaves
	// every other stored field untouched.
	Merge bool
}

type Client interface {
	Add(ctx context.Context, collection string, data Record) (DocumentRef, error)
	List(ctx context.Context, collection string, filters ...Filter) ([]DocumentRef, error)
	Delete(ctx context.Context, ref DocumentRef) error
	Get(ctx context.Context, collection, key string) (Record, bool, error)
	Set(ctx context.Context, collection, key string, data Record, opts SetOptions) error
	Close() error
}

// Batcher is implemented by backends that can insert a group of documents
// all-or-nothing.
type Batcher interface {
	AddAll(ctx context.Context, collection string, data []Record) ([]DocumentRef, error)
}

var (
	ErrInvalidKey = errors.New("document key must not be empty")
	// ErrNotFound is returned by backends that can tell a delete matched
	// nothing.
	ErrNotFound = errors.New("document not found")
)

// Clone returns a shallow copy of r with nested maps and slices copied so
// that the copy can be stored without aliasing the caller's values.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return map[string]any(Record(t).Clone())
	case Record:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}
