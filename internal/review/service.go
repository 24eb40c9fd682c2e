package review

import (
	"context"
	"log/slog"
	"time"

	"bookseller/internal/crud"
	"bookseller/internal/entity"
	"bookseller/internal/paging"
)

// Service adds the book-scoped list and create to the generic pipeline.
type Service struct {
	*crud.Service[entity.Review, Input, Filter, *entity.Review]
	books crud.Reader[entity.Book]
}

type Option func(*Resource)

// WithClock replaces the creation time source.
func WithClock(now func() time.Time) Option {
	return func(r *Resource) { r.Now = now }
}

func NewService(store crud.Store[entity.Review], books crud.Reader[entity.Book], ratings *Ratings, logger *slog.Logger, opts ...Option) *Service {
	res := Resource{Books: books, Ratings: ratings, Now: time.Now}
	for _, opt := range opts {
		opt(&res)
	}
	return &Service{
		Service: crud.NewService[entity.Review, Input, Filter, *entity.Review]("review", store, res, logger),
		books:   books,
	}
}

// ListForBook lists the reviews of bookID, or crud.ErrNotFound when the book
// does not exist.
func (s *Service) ListForBook(ctx context.Context, bookID int64, f Filter) (paging.Page[entity.Review], error) {
	if err := s.requireBook(ctx, bookID); err != nil {
		return paging.Page[entity.Review]{}, err
	}
	f.BookID = bookID
	return s.List(ctx, f)
}

// CreateForBook creates a review of bookID. Any bookId in the body is
// replaced by bookID.
func (s *Service) CreateForBook(ctx context.Context, bookID int64, in Input) (entity.Review, error) {
	if err := s.requireBook(ctx, bookID); err != nil {
		return entity.Review{}, err
	}
	in.BookID = &bookID
	return s.Create(ctx, in)
}

func (s *Service) requireBook(ctx context.Context, bookID int64) error {
	ok, err := s.books.Exists(ctx, bookID)
	if err != nil {
		return err
	}
	if !ok {
		return crud.ErrNotFound
	}
	return nil
}
