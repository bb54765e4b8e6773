// Package memstore is an in-process store.Client used for local demos and
// tests. It supports fault injection so callers can exercise store failures.
package memstore

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/store"
)

type Op string

const (
	OpAdd    Op = "add"
	OpList   Op = "list"
	OpDelete Op = "delete"
	OpGet    Op = "get"
	OpSet    Op = "set"
)

// FaultFunc is consulted before every operation; a non-nil return fails the
// operation with that error and leaves the store unchanged.
type FaultFunc func(op Op, collection string, data store.Record) error

type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]store.Record
	fault       FaultFunc
	writes      int
}

func New() *Store {
	return &Store{collections: make(map[string]map[string]store.Record)}
}

func (s *Store) InjectFault(f FaultFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = f
}

// Writes counts successful add, set and delete operations.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

func (s *Store) Count(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

func (s *Store) Add(ctx context.Context, collection string, data store.Record) (store.DocumentRef, error) {
	if err := ctx.Err(); err != nil {
		return store.DocumentRef{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(OpAdd, collection, data); err != nil {
		return store.DocumentRef{}, err
	}
	id := uuid.NewString()
	s.collection(collection)[id] = data.Clone()
	s.writes++
	return store.DocumentRef{Collection: collection, ID: id}, nil
}

// AddAll inserts every record or none of them.
func (s *Store) AddAll(ctx context.Context, collection string, data []store.Record) ([]store.DocumentRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range data {
		if err := s.check(OpAdd, collection, rec); err != nil {
			return nil, err
		}
	}

	docs := s.collection(collection)
	refs := make([]store.DocumentRef, 0, len(data))
	for _, rec := range data {
		id := uuid.NewString()
		docs[id] = rec.Clone()
		refs = append(refs, store.DocumentRef{Collection: collection, ID: id})
	}
	s.writes += len(data)
	return refs, nil
}

func (s *Store) List(ctx context.Context, collection string, filters ...store.Filter) ([]store.DocumentRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.check(OpList, collection, nil); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(s.collections[collection]))
	for id := range s.collections[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	refs := make([]store.DocumentRef, 0, len(ids))
	for _, id := range ids {
		rec := s.collections[collection][id]
		if !matches(rec, filters) {
			continue
		}
		refs = append(refs, store.DocumentRef{Collection: collection, ID: id, Data: rec.Clone()})
	}
	return refs, nil
}

func (s *Store) Delete(ctx context.Context, ref store.DocumentRef) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(OpDelete, ref.Collection, nil); err != nil {
		return err
	}
	// Deleting a missing document succeeds, as it does in Firestore.
	delete(s.collections[ref.Collection], ref.ID)
	s.writes++
	return nil
}

func (s *Store) Get(ctx context.Context, collection, key string) (store.Record, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if key == "" {
		return nil, false, store.ErrInvalidKey
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.check(OpGet, collection, nil); err != nil {
		return nil, false, err
	}
	rec, ok := s.collections[collection][key]
	if !ok {
		return nil, false, nil
	}
	return rec.Clone(), true, nil
}

func (s *Store) Set(ctx context.Context, collection, key string, data store.Record, opts store.SetOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return store.ErrInvalidKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(OpSet, collection, data); err != nil {
		return err
	}

	docs := s.collection(collection)
	existing, ok := docs[key]
	if !opts.Merge || !ok {
		docs[key] = data.Clone()
	} else {
		for k, v := range data.Clone() {
			existing[k] = v
		}
	}
	s.writes++
	return nil
}

func (s *Store) Close() error { return nil }

// Put seeds a document with a caller-chosen id, bypassing fault injection.
func (s *Store) Put(collection, id string, data store.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collection(collection)[id] = data.Clone()
}

func (s *Store) collection(name string) map[string]store.Record {
	docs, ok := s.collections[name]
	if !ok {
		docs = make(map[string]store.Record)
		s.collections[name] = docs
	}
	return docs
}

func (s *Store) check(op Op, collection string, data store.Record) error {
	if s.fault == nil {
		return nil
	}
	if err := s.fault(op, collection, data); err != nil {
		return fmt.Errorf("memstore %s %s: %w", op, collection, err)
	}
	return nil
}

func matches(rec store.Record, filters []store.Filter) bool {
	for _, f := range filters {
		v, ok := rec[f.Field]
		if !ok || !reflect.DeepEqual(v, f.Value) {
			return false
		}
	}
	return true
}
