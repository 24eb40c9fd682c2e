// Package review serves reviews, which are always addressed through their
// book, and keeps each book's average rating in step with them.
package review

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"bookseller/internal/crud"
	"bookseller/internal/entity"
	"bookseller/internal/httpx"
	"bookseller/internal/merge"
	"bookseller/internal/paging"
	"bookseller/internal/query"
)

type Order int

const (
	OrderMostRecent Order = iota
	OrderBestRating
	OrderWorstRating
)

var orderNames = []string{"MostRecent", "BestRating", "WorstRating"}

func (o Order) String() string {
	return query.EnumName(orderNames, int(o))
}

func (o Order) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

func (o *Order) UnmarshalText(b []byte) error {
	i, err := query.ParseEnum(orderNames, string(b))
	if err != nil {
		return err
	}
	*o = Order(i)
	return nil
}

const (
	DefaultMinRating = 0
	DefaultMaxRating = 5
)

// Filter selects the reviews of one book within a rating range.
type Filter struct {
	paging.Request
	BookID    int64 `json:"-"`
	MinRating int   `json:"minRating"`
	MaxRating int   `json:"maxRating"`
	OrderBy   Order `json:"orderBy"`
}

func NewFilter() Filter {
	return Filter{
		Request:   paging.NewRequest(),
		MinRating: DefaultMinRating,
		MaxRating: DefaultMaxRating,
	}
}

// ParseFilter reads the query string. The book id comes from the path.
func ParseFilter(v url.Values) (Filter, error) {
	p := httpx.NewQueryParser(v)
	f := NewFilter()
	f.Request = p.Paging()
	p.Int("minRating", &f.MinRating)
	p.Int("maxRating", &f.MaxRating)
	p.Text("orderBy", &f.OrderBy)
	return f, p.Err()
}

type Input struct {
	ID       *int64     `json:"id"`
	BookID   *int64     `json:"bookId"`
	Rating   *int       `json:"rating"`
	Comment  *string    `json:"comment"`
	Creation *time.Time `json:"creation"`
}

var fields = []merge.Field[entity.Review, Input]{
	merge.Value("bookId", merge.Immutable,
		func(in Input) *int64 { return in.BookID },
		func(r *entity.Review) *int64 { return &r.BookID }),
	merge.Value("rating", merge.Mutable,
		func(in Input) *int { return in.Rating },
		func(r *entity.Review) *int { return &r.Rating }),
	merge.Value("comment", merge.Mutable,
		func(in Input) *string { return in.Comment },
		func(r *entity.Review) *string { return &r.Comment }),
	merge.Func("creation", merge.Computed,
		func(in Input) *time.Time { return in.Creation },
		func(r *entity.Review) *time.Time { return &r.Creation },
		time.Time.Equal),
}

func bookID(r entity.Review) int64       { return r.BookID }
func rating(r entity.Review) int         { return r.Rating }
func creation(r entity.Review) time.Time { return r.Creation }

// creationKey orders reviews by time; time.Time is not cmp.Ordered.
func creationKey(r entity.Review) int64 { return creation(r).UnixNano() }

var sorts = map[Order]query.Sort[entity.Review]{
	OrderMostRecent:  query.Desc("MostRecent", "r.creation", creationKey),
	OrderBestRating:  query.Desc("BestRating", "r.rating", rating),
	OrderWorstRating: query.Asc("WorstRating", "r.rating", rating),
}

// Resource plugs reviews into the crud pipeline. Every write recomputes the
// rating of the review's book.
type Resource struct {
	Books   crud.Reader[entity.Book]
	Ratings *Ratings
	Now     func() time.Time
}

func (Resource) Fields() []merge.Field[entity.Review, Input] { return fields }

func (Resource) InputID(in Input) *int64 { return in.ID }

// Prepare stamps the creation time at the microsecond precision the
// database keeps.
func (r Resource) Prepare(_ context.Context, review *entity.Review) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	review.Creation = now().UTC().Truncate(time.Microsecond)
}

func (r Resource) Validate(ctx context.Context, review *entity.Review) error {
	ok, err := r.Books.Exists(ctx, review.BookID)
	if err != nil {
		return fmt.Errorf("check book %d: %w", review.BookID, err)
	}
	if !ok {
		return entity.Invalid("bookId", "bookId - `%d` does not exist", review.BookID)
	}
	return nil
}

func (r Resource) Expand(ctx context.Context, review *entity.Review) error {
	b, err := r.Books.Find(ctx, review.BookID)
	if err != nil {
		return err
	}
	review.Book = &b
	return nil
}

func (r Resource) AfterWrite(ctx context.Context, review entity.Review) error {
	return r.Ratings.Recompute(ctx, review.BookID)
}

func (Resource) Query(f Filter) (query.Spec[entity.Review], error) {
	sort, ok := sorts[f.OrderBy]
	if !ok {
		return query.Spec[entity.Review]{}, query.ErrInvalidSortKey
	}
	minRating, maxRating := f.MinRating, f.MaxRating
	return query.Spec[entity.Review]{}.
		Where(
			query.Equal("r.book_id", f.BookID, bookID),
			query.AtLeast("r.rating", &minRating, rating),
			query.AtMost("r.rating", &maxRating, rating),
		).
		Sorted(sort), nil
}
