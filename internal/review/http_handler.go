package review

import (
	"fmt"
	"log/slog"
	"net/http"

	"bookseller/internal/crud"
	"bookseller/internal/entity"
	"bookseller/internal/httpx"
)

type HTTPHandler struct {
	service *Service
	records *crud.HTTPHandler[entity.Review, Input, Filter, *entity.Review]
	logger  *slog.Logger
}

func NewHTTPHandler(service *Service, logger *slog.Logger) *HTTPHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPHandler{
		service: service,
		records: crud.NewHTTPHandler(service.Service, ParseFilter, "/api/reviews", logger),
		logger:  logger,
	}
}

// ListForBook godoc
// @Summary List the reviews of a book
// @Param id path int true "Book ID"
// @Param minRating query int false "Lowest rating (default 0)"
// @Param maxRating query int false "Highest rating (default 5)"
// @Param orderBy query string false "MostRecent, BestRating or WorstRating"
// @Success 200 {object} paging.Page
// @Failure 404 {object} httpx.ErrorResponse
func (h *HTTPHandler) ListForBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := httpx.PathID(r, "id")
	if err != nil {
		crud.WriteError(w, r, h.logger, err)
		return
	}
	filter, err := ParseFilter(r.URL.Query())
	if err != nil {
		crud.WriteError(w, r, h.logger, err)
		return
	}
	page, err := h.service.ListForBook(r.Context(), bookID, filter)
	if err != nil {
		crud.WriteError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, page)
}

// CreateForBook godoc
// @Summary Review a book
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 201 {object} entity.Review
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
func (h *HTTPHandler) CreateForBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := httpx.PathID(r, "id")
	if err != nil {
		crud.WriteError(w, r, h.logger, err)
		return
	}
	var in Input
	if err := httpx.DecodeJSON(r, &in); err != nil {
		crud.WriteError(w, r, h.logger, err)
		return
	}
	created, err := h.service.CreateForBook(r.Context(), bookID, in)
	if err != nil {
		crud.WriteError(w, r, h.logger, err)
		return
	}
	httpx.Created(w, fmt.Sprintf("/api/reviews/%d", created.ID), created)
}

// Mount adds the nested book routes and the single-review routes.
// Reviews are only ever created through their book.
func (h *HTTPHandler) Mount(mux httpx.Router, guard func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /api/books/{id}/reviews", h.ListForBook)
	mux.Handle("POST /api/books/{id}/reviews", guard(http.HandlerFunc(h.CreateForBook)))
	mux.HandleFunc("GET /api/reviews/{id}", h.records.Get)
	mux.Handle("PUT /api/reviews/{id}", guard(http.HandlerFunc(h.records.Update)))
	mux.Handle("DELETE /api/reviews/{id}", guard(http.HandlerFunc(h.records.Delete)))
}
