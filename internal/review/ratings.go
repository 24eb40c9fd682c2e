package review

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/prometheus/client_golang/prometheus"

	"bookseller/internal/crud"
	"bookseller/internal/entity"
	"bookseller/internal/query"
)

// Average is the mean rounded to one decimal, or 0 for no ratings.
func Average(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	mean := float64(sum) / float64(len(ratings))
	return math.Round(mean*10) / 10
}

// NewRecomputeFailures registers the counter of failed rating recomputes.
func NewRecomputeFailures(reg prometheus.Registerer) prometheus.Counter {
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "bookseller",
		Subsystem: "reviews",
		Name:      "rating_recompute_failures_total",
		Help:      "Book average rating recomputes that failed after a review write.",
	})
	if reg != nil {
		reg.MustRegister(c)
	}
	return c
}

// Ratings rewrites a book's average rating from its stored reviews.
type Ratings struct {
	books    crud.Store[entity.Book]
	reviews  crud.Store[entity.Review]
	failures prometheus.Counter
}

func NewRatings(books crud.Store[entity.Book], reviews crud.Store[entity.Review], failures prometheus.Counter) *Ratings {
	return &Ratings{books: books, reviews: reviews, failures: failures}
}

// Recompute is a separate write from the review change that triggered it; a
// failure leaves the review change in place.
func (r *Ratings) Recompute(ctx context.Context, bookID int64) error {
	if err := r.recompute(ctx, bookID); err != nil {
		if r.failures != nil {
			r.failures.Inc()
		}
		return fmt.Errorf("recompute rating of book %d: %w", bookID, err)
	}
	return nil
}

func (r *Ratings) recompute(ctx context.Context, id int64) error {
	spec := query.Spec[entity.Review]{}.Where(query.Equal("r.book_id", id, bookID))
	src := r.reviews.Select(spec)
	total, err := src.Count(ctx)
	if err != nil {
		return err
	}
	reviews, err := src.Fetch(ctx, 0, total)
	if err != nil {
		return err
	}
	ratings := make([]int, 0, len(reviews))
	for _, rv := range reviews {
		ratings = append(ratings, rv.Rating)
	}

	book, err := r.books.Find(ctx, id)
	if errors.Is(err, crud.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	book.AverageRating = Average(ratings)
	book.Author = nil
	return r.books.Replace(ctx, book)
}
