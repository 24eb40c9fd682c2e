// Package book serves the books resource. Every book is read together with
// its author.
package book

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"bookseller/internal/crud"
	"bookseller/internal/entity"
	"bookseller/internal/httpx"
	"bookseller/internal/merge"
	"bookseller/internal/paging"
	"bookseller/internal/query"
)

type Order int

const (
	OrderTitle Order = iota
	OrderAuthorName
	OrderBestAverageRating
	OrderWorstAverageRating
	OrderLowestPrice
	OrderHighestPrice
)

var orderNames = []string{
	"Title",
	"AuthorName",
	"BestAverageRating",
	"WorstAverageRating",
	"LowestPrice",
	"HighestPrice",
}

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

// Filter narrows books by title, author name, rating and price. Nil bounds
// are open.
type Filter struct {
	paging.Request
	Title            string   `json:"title"`
	AuthorName       string   `json:"authorName"`
	MinAverageRating *float64 `json:"minAverageRating"`
	MaxAverageRating *float64 `json:"maxAverageRating"`
	MinPrice         *float64 `json:"minPrice"`
	MaxPrice         *float64 `json:"maxPrice"`
	OrderBy          Order    `json:"orderBy"`
}

func NewFilter() Filter {
	return Filter{Request: paging.NewRequest()}
}

func ParseFilter(v url.Values) (Filter, error) {
	p := httpx.NewQueryParser(v)
	f := NewFilter()
	f.Request = p.Paging()
	f.Title = p.String("title")
	f.AuthorName = p.String("authorName")
	f.MinAverageRating = p.OptionalFloat("minAverageRating")
	f.MaxAverageRating = p.OptionalFloat("maxAverageRating")
	f.MinPrice = p.OptionalFloat("minPrice")
	f.MaxPrice = p.OptionalFloat("maxPrice")
	p.Text("orderBy", &f.OrderBy)
	return f, p.Err()
}

// Input is the create/update body. An embedded author object supplies the
// author id when authorId is absent.
type Input struct {
	ID            *int64         `json:"id"`
	Title         *string        `json:"title"`
	AuthorID      *int64         `json:"authorId"`
	Author        *entity.Author `json:"author"`
	AverageRating *float64       `json:"averageRating"`
	Price         *float64       `json:"price"`
}

func (in Input) authorID() *int64 {
	if in.AuthorID != nil {
		return in.AuthorID
	}
	if in.Author != nil && in.Author.ID != 0 {
		return &in.Author.ID
	}
	return nil
}

var fields = []merge.Field[entity.Book, Input]{
	merge.Value("title", merge.Mutable,
		func(in Input) *string { return in.Title },
		func(b *entity.Book) *string { return &b.Title }),
	merge.Value("authorId", merge.Mutable,
		Input.authorID,
		func(b *entity.Book) *int64 { return &b.AuthorID }),
	merge.Value("averageRating", merge.Computed,
		func(in Input) *float64 { return in.AverageRating },
		func(b *entity.Book) *float64 { return &b.AverageRating }),
	merge.Value("price", merge.Mutable,
		func(in Input) *float64 { return in.Price },
		func(b *entity.Book) *float64 { return &b.Price }),
}

const authorNameExpr = "(a.first_name || ' ' || a.last_name)"

func title(b entity.Book) string          { return b.Title }
func averageRating(b entity.Book) float64 { return b.AverageRating }
func price(b entity.Book) float64         { return b.Price }
func authorName(b entity.Book) string     { return b.AuthorName() }

var sorts = map[Order]query.Sort[entity.Book]{
	OrderTitle:              query.Asc("Title", "b.title", title),
	OrderAuthorName:         query.Asc("AuthorName", authorNameExpr, authorName),
	OrderBestAverageRating:  query.Desc("BestAverageRating", "b.average_rating", averageRating),
	OrderWorstAverageRating: query.Asc("WorstAverageRating", "b.average_rating", averageRating),
	OrderLowestPrice:        query.Asc("LowestPrice", "b.price", price),
	OrderHighestPrice:       query.Desc("HighestPrice", "b.price", price),
}

// Resource plugs books into the crud pipeline.
type Resource struct {
	Authors crud.Reader[entity.Author]
}

func (Resource) Fields() []merge.Field[entity.Book, Input] { return fields }

func (Resource) InputID(in Input) *int64 { return in.ID }

// Validate checks that the author exists.
func (r Resource) Validate(ctx context.Context, b *entity.Book) error {
	ok, err := r.Authors.Exists(ctx, b.AuthorID)
	if err != nil {
		return fmt.Errorf("check author %d: %w", b.AuthorID, err)
	}
	if !ok {
		return entity.Invalid("authorId", "authorId - `%d` does not exist", b.AuthorID)
	}
	return nil
}

// Expand attaches the author unless the store already joined it.
func (r Resource) Expand(ctx context.Context, b *entity.Book) error {
	if b.Author != nil && b.Author.ID == b.AuthorID {
		return nil
	}
	a, err := r.Authors.Find(ctx, b.AuthorID)
	if err != nil {
		if errors.Is(err, crud.ErrNotFound) {
			return fmt.Errorf("author %d of book %d vanished: %w", b.AuthorID, b.ID, err)
		}
		return err
	}
	b.Author = &a
	return nil
}

func (Resource) Query(f Filter) (query.Spec[entity.Book], error) {
	sort, ok := sorts[f.OrderBy]
	if !ok {
		return query.Spec[entity.Book]{}, query.ErrInvalidSortKey
	}
	return query.Spec[entity.Book]{}.
		Where(
			query.ContainsFold("b.title", f.Title, title),
			query.ContainsFold(authorNameExpr, f.AuthorName, authorName),
			query.AtLeast("b.average_rating", f.MinAverageRating, averageRating),
			query.AtMost("b.average_rating", f.MaxAverageRating, averageRating),
			query.AtLeast("b.price", f.MinPrice, price),
			query.AtMost("b.price", f.MaxPrice, price),
		).
		Sorted(sort), nil
}

type (
	Service     = crud.Service[entity.Book, Input, Filter, *entity.Book]
	HTTPHandler = crud.HTTPHandler[entity.Book, Input, Filter, *entity.Book]
)

func NewService(store crud.Store[entity.Book], authors crud.Reader[entity.Author], logger *slog.Logger) *Service {
	return crud.NewService[entity.Book, Input, Filter, *entity.Book]("book", store, Resource{Authors: authors}, logger)
}

func NewHTTPHandler(svc *Service, logger *slog.Logger) *HTTPHandler {
	return crud.NewHTTPHandler(svc, ParseFilter, "/api/books", logger)
}
