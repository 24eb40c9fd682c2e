// Package crud is the generic list/get/create/update/delete pipeline shared by
// the catalog resources.
package crud

import (
	"context"
	"errors"

	"bookseller/internal/merge"
	"bookseller/internal/paging"
	"bookseller/internal/query"
)

var (
	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned by Store.Replace when no stored row was
	// replaced, which usually means the row was deleted concurrently.
	ErrConflict = errors.New("concurrent modification")
	// ErrIDMismatch is returned when the body id disagrees with the path id.
	ErrIDMismatch = errors.New("id in body does not match id in path")
)

// Reader is the read side of a Store. Resources use it to check and load
// related records.
type Reader[T any] interface {
	Find(ctx context.Context, id int64) (T, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

// Store persists one entity type. Select returns a lazily evaluated source
// so the paging engine can window and count it.
type Store[T any] interface {
	Reader[T]
	Select(spec query.Spec[T]) paging.Source[T]
	Add(ctx context.Context, item *T) error
	Replace(ctx context.Context, item T) error
	Remove(ctx context.Context, id int64) error
}

// Resource describes what differs between entity types: the writable field
// table, foreign key checks, relation expansion and the list query.
type Resource[T, In any, F paging.Filter] interface {
	Fields() []merge.Field[T, In]
	InputID(in In) *int64
	Validate(ctx context.Context, candidate *T) error
	Expand(ctx context.Context, item *T) error
	Query(filter F) (query.Spec[T], error)
}

// Preparer assigns server-side values to a candidate before it is validated
// and created.
type Preparer[T any] interface {
	Prepare(ctx context.Context, candidate *T)
}

// AfterWriter runs after a create, update or delete has been stored. Its
// error is logged and never fails the request.
type AfterWriter[T any] interface {
	AfterWrite(ctx context.Context, item T) error
}

// NoRelations can be embedded by resources without foreign keys or
// expandable relations.
type NoRelations[T any] struct{}

func (NoRelations[T]) Validate(context.Context, *T) error { return nil }

func (NoRelations[T]) Expand(context.Context, *T) error { return nil }
