package postgres

import (
	"time"

	"github.com/jackc/pgx/v5"

	"bookseller/internal/entity"
)

// Column expressions used by the resource list queries are qualified with
// these aliases: a for authors, b for books, r for reviews.
var AuthorTable = Table[entity.Author]{
	Name:   "authors",
	Alias:  "a",
	From:   "authors a",
	Select: "a.id, a.first_name, a.last_name, a.biography",
	Scan: func(row pgx.Row, a *entity.Author) error {
		return row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Biography)
	},
	Columns: []string{"first_name", "last_name", "biography"},
	Values: func(a entity.Author) []any {
		return []any{a.FirstName, a.LastName, a.Biography}
	},
}

// BookTable reads every book together with its author.
var BookTable = Table[entity.Book]{
	Name:   "books",
	Alias:  "b",
	From:   "books b JOIN authors a ON a.id = b.author_id",
	Select: "b.id, b.title, b.author_id, b.average_rating, b.price, a.id, a.first_name, a.last_name, a.biography",
	Scan: func(row pgx.Row, b *entity.Book) error {
		var a entity.Author
		if err := row.Scan(&b.ID, &b.Title, &b.AuthorID, &b.AverageRating, &b.Price,
			&a.ID, &a.FirstName, &a.LastName, &a.Biography); err != nil {
			return err
		}
		b.Author = &a
		return nil
	},
	Columns: []string{"title", "author_id", "average_rating", "price"},
	Values: func(b entity.Book) []any {
		return []any{b.Title, b.AuthorID, b.AverageRating, b.Price}
	},
}

var ReviewTable = Table[entity.Review]{
	Name:   "reviews",
	Alias:  "r",
	From:   "reviews r",
	Select: "r.id, r.book_id, r.rating, r.comment, r.creation",
	Scan: func(row pgx.Row, r *entity.Review) error {
		var creation time.Time
		if err := row.Scan(&r.ID, &r.BookID, &r.Rating, &r.Comment, &creation); err != nil {
			return err
		}
		r.Creation = creation.UTC()
		return nil
	},
	Columns: []string{"book_id", "rating", "comment", "creation"},
	Values: func(r entity.Review) []any {
		return []any{r.BookID, r.Rating, r.Comment, r.Creation}
	},
}

type (
	AuthorStore = Store[entity.Author, *entity.Author]
	BookStore   = Store[entity.Book, *entity.Book]
	ReviewStore = Store[entity.Review, *entity.Review]
)

// Catalog holds the three catalog stores over one pool.
type Catalog struct {
	Authors *AuthorStore
	Books   *BookStore
	Reviews *ReviewStore
}

func NewCatalog(db DB, timeout time.Duration) *Catalog {
	return &Catalog{
		Authors: New[entity.Author](db, AuthorTable, timeout),
		Books:   New[entity.Book](db, BookTable, timeout),
		Reviews: New[entity.Review](db, ReviewTable, timeout),
	}
}
