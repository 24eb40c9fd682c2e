// Package author serves the authors resource.
package author

import (
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
	OrderFirstName Order = iota
	OrderLastName
)

var orderNames = []string{"FirstName", "LastName"}

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

// Filter selects authors whose names contain the given fragments.
type Filter struct {
	paging.Request
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	OrderBy   Order  `json:"orderBy"`
}

func NewFilter() Filter {
	return Filter{Request: paging.NewRequest()}
}

// ParseFilter reads page, limit, orderBy, firstName and lastName.
func ParseFilter(v url.Values) (Filter, error) {
	p := httpx.NewQueryParser(v)
	f := NewFilter()
	f.Request = p.Paging()
	f.FirstName = p.String("firstName")
	f.LastName = p.String("lastName")
	p.Text("orderBy", &f.OrderBy)
	return f, p.Err()
}

// Input is the create/update body. Nil fields were not sent.
type Input struct {
	ID        *int64  `json:"id"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Biography *string `json:"biography"`
}

var fields = []merge.Field[entity.Author, Input]{
	merge.Value("firstName", merge.Mutable,
		func(in Input) *string { return in.FirstName },
		func(a *entity.Author) *string { return &a.FirstName }),
	merge.Value("lastName", merge.Mutable,
		func(in Input) *string { return in.LastName },
		func(a *entity.Author) *string { return &a.LastName }),
	merge.Value("biography", merge.Mutable,
		func(in Input) *string { return in.Biography },
		func(a *entity.Author) *string { return &a.Biography }),
}

func firstName(a entity.Author) string { return a.FirstName }
func lastName(a entity.Author) string  { return a.LastName }

var sorts = map[Order]query.Sort[entity.Author]{
	OrderFirstName: query.Asc("FirstName", "a.first_name", firstName),
	OrderLastName:  query.Asc("LastName", "a.last_name", lastName),
}

// Resource plugs authors into the crud pipeline. Authors have no relations.
type Resource struct {
	crud.NoRelations[entity.Author]
}

func (Resource) Fields() []merge.Field[entity.Author, Input] { return fields }

func (Resource) InputID(in Input) *int64 { return in.ID }

func (Resource) Query(f Filter) (query.Spec[entity.Author], error) {
	sort, ok := sorts[f.OrderBy]
	if !ok {
		return query.Spec[entity.Author]{}, query.ErrInvalidSortKey
	}
	return query.Spec[entity.Author]{}.
		Where(
			query.ContainsFold("a.first_name", f.FirstName, firstName),
			query.ContainsFold("a.last_name", f.LastName, lastName),
		).
		Sorted(sort), nil
}

type (
	Service     = crud.Service[entity.Author, Input, Filter, *entity.Author]
	HTTPHandler = crud.HTTPHandler[entity.Author, Input, Filter, *entity.Author]
)

func NewService(store crud.Store[entity.Author], logger *slog.Logger) *Service {
	return crud.NewService[entity.Author, Input, Filter, *entity.Author]("author", store, Resource{}, logger)
}

func NewHTTPHandler(svc *Service, logger *slog.Logger) *HTTPHandler {
	return crud.NewHTTPHandler(svc, ParseFilter, "/api/authors", logger)
}
