package crud

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"bookseller/internal/entity"
	"bookseller/internal/httpx"
	"bookseller/internal/paging"
	"bookseller/internal/query"
)

// ParseFilter turns a query string into a resource filter.
type ParseFilter[F any] func(url.Values) (F, error)

// HTTPHandler serves the five REST routes of one resource.
type HTTPHandler[T, In any, F paging.Filter, PT entity.Record[T]] struct {
	service *Service[T, In, F, PT]
	parse   ParseFilter[F]
	base    string
	logger  *slog.Logger
}

// NewHTTPHandler serves service under base, e.g. "/api/authors".
func NewHTTPHandler[T, In any, F paging.Filter, PT entity.Record[T]](service *Service[T, In, F, PT], parse ParseFilter[F], base string, logger *slog.Logger) *HTTPHandler[T, In, F, PT] {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPHandler[T, In, F, PT]{service: service, parse: parse, base: base, logger: logger}
}

// List godoc
// @Summary List records
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Items per page (default 100)"
// @Param orderBy query string false "Sort order"
// @Success 200 {object} paging.Page
// @Failure 400 {object} httpx.ErrorResponse
func (h *HTTPHandler[T, In, F, PT]) List(w http.ResponseWriter, r *http.Request) {
	filter, err := h.parse(r.URL.Query())
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}
	page, err := h.service.List(r.Context(), filter)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, page)
}

// Get godoc
// @Summary Get a record with its relations
// @Param id path int true "Record ID"
// @Success 200
// @Failure 404 {object} httpx.ErrorResponse
func (h *HTTPHandler[T, In, F, PT]) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}
	item, err := h.service.Get(r.Context(), id)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, item)
}

// Create godoc
// @Summary Create a record
// @Security BearerAuth
// @Success 201
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
func (h *HTTPHandler[T, In, F, PT]) Create(w http.ResponseWriter, r *http.Request) {
	var in In
	if err := httpx.DecodeJSON(r, &in); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}
	item, err := h.service.Create(r.Context(), in)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}
	id := *PT(&item).Identity()
	h.audit(r, "created", id)
	httpx.Created(w, fmt.Sprintf("%s/%d", h.base, id), item)
}

// Update godoc
// @Summary Merge the sent fields onto a record
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Success 204
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
func (h *HTTPHandler[T, In, F, PT]) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}
	var in In
	if err := httpx.DecodeJSON(r, &in); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}
	if err := h.service.Update(r.Context(), id, in); err != nil {
		WriteError(w, r, h.logger, err)
		return
	}
	h.audit(r, "updated", id)
	httpx.NoContent(w)
}

// Delete godoc
// @Summary Delete a record and return its last state
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Success 200
// @Failure 404 {object} httpx.ErrorResponse
func (h *HTTPHandler[T, In, F, PT]) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}
	item, err := h.service.Delete(r.Context(), id)
	if err != nil {
		WriteError(w, r, h.logger, err)
		return
	}
	h.audit(r, "deleted", id)
	httpx.JSON(w, http.StatusOK, item)
}

func (h *HTTPHandler[T, In, F, PT]) audit(r *http.Request, action string, id int64) {
	h.logger.InfoContext(r.Context(), "record "+action,
		"path", h.base,
		"id", id,
		"user", httpx.UserNameFrom(r),
		"request_id", httpx.RequestIDFrom(r),
	)
}

// Mount adds the read routes to mux and the write routes behind guard.
func (h *HTTPHandler[T, In, F, PT]) Mount(mux httpx.Router, guard func(http.Handler) http.Handler) {
	mux.HandleFunc("GET "+h.base, h.List)
	mux.HandleFunc("GET "+h.base+"/{id}", h.Get)
	mux.Handle("POST "+h.base, guard(http.HandlerFunc(h.Create)))
	mux.Handle("PUT "+h.base+"/{id}", guard(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE "+h.base+"/{id}", guard(http.HandlerFunc(h.Delete)))
}

// WriteError maps service errors onto HTTP responses.
func WriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	if verrs, ok := entity.AsValidation(err); ok {
		details := make([]httpx.ErrorDetail, 0, len(verrs))
		for _, v := range verrs {
			details = append(details, httpx.ErrorDetail{Field: v.Field, Message: v.Message})
		}
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", details)
		return
	}

	switch {
	case errors.Is(err, ErrIDMismatch):
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
	case errors.Is(err, query.ErrInvalidSortKey):
		logger.ErrorContext(r.Context(), "sort key outside enum", "path", r.URL.Path, "error", err)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
