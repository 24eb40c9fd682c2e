package main

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookseller/internal/author"
	"bookseller/internal/book"
	"bookseller/internal/review"
	"bookseller/internal/store/memory"
)

func TestSeed(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := memory.NewCatalog()
	svcs := services{
		authors: author.NewService(c.Authors, logger),
		books:   book.NewService(c.Books, c.Authors, logger),
		reviews: review.NewService(c.Reviews, c.Books, review.NewRatings(c.Books, c.Reviews, nil), logger),
	}
	ctx := context.Background()

	require.NoError(t, seed(ctx, svcs, 4, rand.New(rand.NewSource(1))))

	authors, err := svcs.authors.List(ctx, author.NewFilter())
	require.NoError(t, err)
	assert.Len(t, authors.Items, 4)

	books, err := svcs.books.List(ctx, book.NewFilter())
	require.NoError(t, err)
	require.Len(t, books.Items, 4)
	for _, b := range books.Items {
		assert.Equal(t, int64(1), b.AuthorID)
		assert.GreaterOrEqual(t, b.Price, 1.0)
	}

	reviews, err := svcs.reviews.ListForBook(ctx, 1, review.NewFilter())
	require.NoError(t, err)
	require.Len(t, reviews.Items, 4)
	ratings := make([]int, 0, 4)
	for _, r := range reviews.Items {
		ratings = append(ratings, r.Rating)
	}

	first, err := svcs.books.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, review.Average(ratings), first.AverageRating)
}

func TestSeed_Nothing(t *testing.T) {
	assert.NoError(t, seed(context.Background(), services{}, 0, rand.New(rand.NewSource(1))))
}
