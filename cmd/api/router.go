package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"bookseller/internal/author"
	"bookseller/internal/book"
	"bookseller/internal/config"
	"bookseller/internal/crud"
	"bookseller/internal/entity"
	"bookseller/internal/httpx"
	"bookseller/internal/review"
	"bookseller/internal/user"
)

type backend struct {
	authors crud.Store[entity.Author]
	books   crud.Store[entity.Book]
	reviews crud.Store[entity.Review]
	users   user.Repository
	ready   func(context.Context) error
}

type server struct {
	handler http.Handler
	limiter *httpx.RateLimitMiddleware
}

func newServer(cfg *config.Config, logger *slog.Logger, b backend) *server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := httpx.NewMetrics(reg)

	authorService := author.NewService(b.authors, logger)
	bookService := book.NewService(b.books, b.authors, logger)
	ratings := review.NewRatings(b.books, b.reviews, review.NewRecomputeFailures(reg))
	reviewService := review.NewService(b.reviews, b.books, ratings, logger)
	userService := user.NewService(b.users, cfg.JWTSecret, cfg.JWTTTL)

	mux := http.NewServeMux()
	routes := metrics.Routes(mux)
	requireAuth := httpx.AuthMiddleware(cfg.JWTSecret)

	author.NewHTTPHandler(authorService, logger).Mount(routes, requireAuth)
	book.NewHTTPHandler(bookService, logger).Mount(routes, requireAuth)
	review.NewHTTPHandler(reviewService, logger).Mount(routes, requireAuth)
	user.NewHTTPHandler(userService, logger).Mount(routes)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := b.ready(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	mux.Handle("GET /metrics", metrics.Handler())

	limiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
	handler := httpx.Chain(mux,
		httpx.RequestIDMiddleware,
		httpx.RecoveryMiddleware(logger),
		httpx.AccessLogMiddleware(logger),
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.CORSMiddleware(cfg.CORSAllowedOrigins),
		limiter.Middleware,
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
	)

	return &server{handler: handler, limiter: limiter}
}
