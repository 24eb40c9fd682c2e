package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"

	"bookseller/internal/author"
	"bookseller/internal/book"
	"bookseller/internal/config"
	"bookseller/internal/platform/database"
	"bookseller/internal/review"
	"bookseller/internal/store/postgres"
)

type services struct {
	authors *author.Service
	books   *book.Service
	reviews *review.Service
}

func main() {
	app := &cli.App{
		Name:  "seed",
		Usage: "fill the catalog with sample authors, books and reviews",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Value:   10,
				Usage:   "number of authors, books and reviews to create",
			},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load(".env", ".env.local")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := cfg.NewLogger(os.Stderr)

	ctx := c.Context
	pool, err := database.Open(ctx, cfg.DatabaseDSN, 5*time.Second)
	if err != nil {
		return fmt.Errorf("connect to database (%s): %w", cfg.RedactedDSN(), err)
	}
	defer pool.Close()

	cat := postgres.NewCatalog(pool, cfg.DBTimeout)
	ratings := review.NewRatings(cat.Books, cat.Reviews, review.NewRecomputeFailures(prometheus.NewRegistry()))
	svcs := services{
		authors: author.NewService(cat.Authors, logger),
		books:   book.NewService(cat.Books, cat.Authors, logger),
		reviews: review.NewService(cat.Reviews, cat.Books, ratings, logger),
	}

	count := c.Int("count")
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	if err := seed(ctx, svcs, count, rng); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	logger.InfoContext(ctx, "catalog seeded", "authors", count, "books", count, "reviews", count)
	return nil
}

// seed creates n authors, n books by the first author and n reviews of the
// first book. Reviews go through the review service so the book rating is
// recomputed.
func seed(ctx context.Context, svcs services, n int, rng *rand.Rand) error {
	if n <= 0 {
		return nil
	}

	var firstAuthor int64
	for i := 1; i <= n; i++ {
		a, err := svcs.authors.Create(ctx, author.Input{
			FirstName: ptr(fmt.Sprintf("First%d", i)),
			LastName:  ptr(fmt.Sprintf("Last%d", i)),
			Biography: ptr(fmt.Sprintf("A %s writer.", randomWord(rng))),
		})
		if err != nil {
			return fmt.Errorf("author %d: %w", i, err)
		}
		if i == 1 {
			firstAuthor = a.ID
		}
	}

	var firstBook int64
	for i := 1; i <= n; i++ {
		price := float64(100+rng.Intn(4900)) / 100
		b, err := svcs.books.Create(ctx, book.Input{
			Title:    ptr(fmt.Sprintf("%s %d", randomWord(rng), i)),
			AuthorID: ptr(firstAuthor),
			Price:    ptr(price),
		})
		if err != nil {
			return fmt.Errorf("book %d: %w", i, err)
		}
		if i == 1 {
			firstBook = b.ID
		}
	}

	for i := 1; i <= n; i++ {
		_, err := svcs.reviews.CreateForBook(ctx, firstBook, review.Input{
			Rating:  ptr(1 + rng.Intn(5)),
			Comment: ptr(fmt.Sprintf("Review %d: %s", i, randomWord(rng))),
		})
		if err != nil {
			return fmt.Errorf("review %d: %w", i, err)
		}
	}
	return nil
}

func ptr[V any](v V) *V { return &v }

func randomWord(rng *rand.Rand) string {
	words := []string{
		"Adventure", "Mystery", "Journey", "Discovery", "Secrets", "Dreams", "Hope",
		"Love", "War", "Peace", "Science", "Nature", "Technology", "History", "Future",
		"Past", "Present", "Reality", "Imagination", "Wisdom", "Life", "Death",
		"Light", "Darkness", "World", "Universe", "Time", "Space", "Mind", "Soul",
	}
	return words[rng.Intn(len(words))]
}
