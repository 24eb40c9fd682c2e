package memory

import (
	"context"

	"bookseller/internal/entity"
)

type (
	AuthorStore = Store[entity.Author, *entity.Author]
	BookStore   = Store[entity.Book, *entity.Book]
	ReviewStore = Store[entity.Review, *entity.Review]
)

// Catalog wires the three catalog stores together: books are listed with
// their author attached, and removing an author or book cascades to its
// books or reviews.
type Catalog struct {
	Authors *AuthorStore
	Books   *BookStore
	Reviews *ReviewStore
}

func NewCatalog() *Catalog {
	c := &Catalog{}
	c.Reviews = New[entity.Review]()
	c.Books = New(
		WithExpand[entity.Book, *entity.Book](c.attachAuthor),
		OnRemove[entity.Book, *entity.Book](func(id int64) {
			c.Reviews.RemoveWhere(func(r entity.Review) bool { return r.BookID == id })
		}),
	)
	c.Authors = New(
		OnRemove[entity.Author, *entity.Author](func(id int64) {
			c.Books.RemoveWhere(func(b entity.Book) bool { return b.AuthorID == id })
		}),
	)
	return c
}

func (c *Catalog) attachAuthor(ctx context.Context, b *entity.Book) error {
	a, err := c.Authors.Find(ctx, b.AuthorID)
	if err != nil {
		return err
	}
	b.Author = &a
	return nil
}
