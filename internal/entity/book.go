package entity

// Book is sold in the catalog. AverageRating is derived from the book's reviews.
type Book struct {
	Base
	Title         string  `json:"title" validate:"notblank"`
	AuthorID      int64   `json:"authorId" validate:"required"`
	Author        *Author `json:"author,omitempty" validate:"-"`
	AverageRating float64 `json:"averageRating"`
	Price         float64 `json:"price" validate:"gte=0.01"`
}

// AuthorName returns the expanded author's full name, or "" when the author
// was not loaded.
func (b Book) AuthorName() string {
	if b.Author == nil {
		return ""
	}
	return b.Author.FullName()
}
