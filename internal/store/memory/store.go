// Package memory is an in-process crud.Store used by tests and by
// STORE_DRIVER=memory.
package memory

import (
	"context"
	"fmt"
	"sync"

	"bookseller/internal/crud"
	"bookseller/internal/entity"
	"bookseller/internal/paging"
	"bookseller/internal/query"
)

// Store keeps records in id order. Ids start at 1 and are never reused.
type Store[T any, PT entity.Record[T]] struct {
	mu       sync.RWMutex
	rows     map[int64]T
	ids      []int64
	nextID   int64
	expand   func(context.Context, *T) error
	onRemove []func(id int64)
}

type Option[T any, PT entity.Record[T]] func(*Store[T, PT])

// WithExpand attaches related records to every selected row before the
// list query filters and sorts it.
func WithExpand[T any, PT entity.Record[T]](fn func(context.Context, *T) error) Option[T, PT] {
	return func(s *Store[T, PT]) {
		s.expand = fn
	}
}

// OnRemove registers fn to run after a row is removed, outside the store
// lock. It is how foreign key cascades are expressed between stores.
func OnRemove[T any, PT entity.Record[T]](fn func(id int64)) Option[T, PT] {
	return func(s *Store[T, PT]) {
		s.onRemove = append(s.onRemove, fn)
	}
}

func New[T any, PT entity.Record[T]](opts ...Option[T, PT]) *Store[T, PT] {
	s := &Store[T, PT]{rows: make(map[int64]T), nextID: 1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store[T, PT]) Find(_ context.Context, id int64) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.rows[id]
	if !ok {
		var zero T
		return zero, crud.ErrNotFound
	}
	return item, nil
}

func (s *Store[T, PT]) Exists(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rows[id]
	return ok, nil
}

// Add assigns the next id to item and stores a copy.
func (s *Store[T, PT]) Add(_ context.Context, item *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	*PT(item).Identity() = id
	s.rows[id] = *item
	s.ids = append(s.ids, id)
	return nil
}

// Replace returns crud.ErrConflict when the row is gone.
func (s *Store[T, PT]) Replace(_ context.Context, item T) error {
	id := *PT(&item).Identity()
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return crud.ErrConflict
	}
	s.rows[id] = item
	return nil
}

func (s *Store[T, PT]) Remove(_ context.Context, id int64) error {
	s.mu.Lock()
	if _, ok := s.rows[id]; !ok {
		s.mu.Unlock()
		return crud.ErrNotFound
	}
	delete(s.rows, id)
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.removed(id)
	return nil
}

func (s *Store[T, PT]) removed(ids ...int64) {
	for _, id := range ids {
		for _, fn := range s.onRemove {
			fn(id)
		}
	}
}

// RemoveWhere deletes every row matching match and returns how many
// were removed. It backs cascading deletes between stores.
func (s *Store[T, PT]) RemoveWhere(match func(T) bool) int {
	s.mu.Lock()
	kept := s.ids[:0]
	var removed []int64
	for _, id := range s.ids {
		if match(s.rows[id]) {
			delete(s.rows, id)
			removed = append(removed, id)
			continue
		}
		kept = append(kept, id)
	}
	s.ids = kept
	s.mu.Unlock()

	s.removed(removed...)
	return len(removed)
}

func (s *Store[T, PT]) Select(spec query.Spec[T]) paging.Source[T] {
	return source[T, PT]{store: s, spec: spec}
}

func (s *Store[T, PT]) snapshot() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.rows[id])
	}
	return out
}

type source[T any, PT entity.Record[T]] struct {
	store *Store[T, PT]
	spec  query.Spec[T]
}

func (src source[T, PT]) load(ctx context.Context) (paging.SliceSource[T], error) {
	items := src.store.snapshot()
	if src.store.expand != nil {
		for i := range items {
			if err := src.store.expand(ctx, &items[i]); err != nil {
				return nil, fmt.Errorf("expand %d: %w", *PT(&items[i]).Identity(), err)
			}
		}
	}
	return src.spec.Apply(items), nil
}

func (src source[T, PT]) Fetch(ctx context.Context, offset, limit int) ([]T, error) {
	items, err := src.load(ctx)
	if err != nil {
		return nil, err
	}
	return items.Fetch(ctx, offset, limit)
}

func (src source[T, PT]) Count(ctx context.Context) (int, error) {
	items, err := src.load(ctx)
	if err != nil {
		return 0, err
	}
	return items.Count(ctx)
}
