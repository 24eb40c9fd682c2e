package crud

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"bookseller/internal/entity"
	"bookseller/internal/merge"
	"bookseller/internal/paging"
)

// Service runs the generic pipeline for one resource.
type Service[T, In any, F paging.Filter, PT entity.Record[T]] struct {
	name     string
	store    Store[T]
	resource Resource[T, In, F]
	logger   *slog.Logger
}

func NewService[T, In any, F paging.Filter, PT entity.Record[T]](name string, store Store[T], resource Resource[T, In, F], logger *slog.Logger) *Service[T, In, F, PT] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service[T, In, F, PT]{
		name:     name,
		store:    store,
		resource: resource,
		logger:   logger.With("resource", name),
	}
}

// List returns one page of the records matching filter.
func (s *Service[T, In, F, PT]) List(ctx context.Context, filter F) (paging.Page[T], error) {
	spec, err := s.resource.Query(filter)
	if err != nil {
		return paging.Page[T]{}, err
	}
	page, err := paging.Paginate(ctx, s.store.Select(spec), filter.Paging(), spec.OrderedBy())
	if err != nil {
		return paging.Page[T]{}, fmt.Errorf("list %s: %w", s.name, err)
	}
	return page, nil
}

// Get loads one record with its relations.
func (s *Service[T, In, F, PT]) Get(ctx context.Context, id int64) (T, error) {
	item, err := s.store.Find(ctx, id)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := s.resource.Expand(ctx, &item); err != nil {
		var zero T
		return zero, fmt.Errorf("expand %s %d: %w", s.name, id, err)
	}
	return item, nil
}

// Create validates and stores a new record built from in.
func (s *Service[T, In, F, PT]) Create(ctx context.Context, in In) (T, error) {
	var zero T
	if id := s.resource.InputID(in); id != nil && *id != 0 {
		return zero, entity.Invalid("id", "id is assigned by the server")
	}

	candidate, err := merge.Create(s.resource.Fields(), in)
	if err != nil {
		return zero, err
	}
	if p, ok := s.resource.(Preparer[T]); ok {
		p.Prepare(ctx, &candidate)
	}
	if err := s.validate(ctx, &candidate); err != nil {
		return zero, err
	}

	if err := s.store.Add(ctx, &candidate); err != nil {
		return zero, fmt.Errorf("add %s: %w", s.name, err)
	}
	s.afterWrite(ctx, candidate)

	if err := s.resource.Expand(ctx, &candidate); err != nil {
		return zero, fmt.Errorf("expand %s %d: %w", s.name, *PT(&candidate).Identity(), err)
	}
	return candidate, nil
}

// Update merges in onto the stored record with the given id and replaces it.
// Fields missing from in keep their stored values.
func (s *Service[T, In, F, PT]) Update(ctx context.Context, id int64, in In) error {
	if inID := s.resource.InputID(in); inID != nil && *inID != 0 && *inID != id {
		return ErrIDMismatch
	}

	current, err := s.store.Find(ctx, id)
	if err != nil {
		return err
	}
	merged, err := merge.Update(s.resource.Fields(), current, in)
	if err != nil {
		return err
	}
	*PT(&merged).Identity() = id

	if err := s.validate(ctx, &merged); err != nil {
		return err
	}

	if err := s.store.Replace(ctx, merged); err != nil {
		if !errors.Is(err, ErrConflict) {
			return fmt.Errorf("replace %s %d: %w", s.name, id, err)
		}
		exists, existsErr := s.store.Exists(ctx, id)
		if existsErr != nil {
			return fmt.Errorf("replace %s %d: %w", s.name, id, existsErr)
		}
		if !exists {
			return ErrNotFound
		}
		return fmt.Errorf("replace %s %d: %w", s.name, id, err)
	}

	s.afterWrite(ctx, merged)
	return nil
}

// Delete removes the record and returns its last known state.
func (s *Service[T, In, F, PT]) Delete(ctx context.Context, id int64) (T, error) {
	var zero T
	current, err := s.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	if err := s.store.Remove(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return zero, err
		}
		return zero, fmt.Errorf("remove %s %d: %w", s.name, id, err)
	}
	s.afterWrite(ctx, current)
	return current, nil
}

func (s *Service[T, In, F, PT]) validate(ctx context.Context, candidate *T) error {
	if err := entity.Validate(candidate); err != nil {
		return err
	}
	return s.resource.Validate(ctx, candidate)
}

func (s *Service[T, In, F, PT]) afterWrite(ctx context.Context, item T) {
	hook, ok := s.resource.(AfterWriter[T])
	if !ok {
		return
	}
	if err := hook.AfterWrite(ctx, item); err != nil {
		s.logger.WarnContext(ctx, "post-write side effect failed",
			"id", *PT(&item).Identity(),
			"error", err,
		)
	}
}
