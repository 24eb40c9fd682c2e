package crud_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookseller/internal/author"
	"bookseller/internal/crud"
	"bookseller/internal/entity"
	"bookseller/internal/httpx"
	"bookseller/internal/query"
	"bookseller/internal/store/memory"
	"bookseller/internal/testutil"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantLogged bool
	}{
		{"validation", entity.Invalid("title", "title is required"), http.StatusBadRequest, "VALIDATION_ERROR", false},
		{"wrapped validation", fmt.Errorf("create: %w", entity.Invalid("x", "bad")), http.StatusBadRequest, "VALIDATION_ERROR", false},
		{"id mismatch", crud.ErrIDMismatch, http.StatusBadRequest, "BAD_REQUEST", false},
		{"not found", fmt.Errorf("find: %w", crud.ErrNotFound), http.StatusNotFound, "NOT_FOUND", false},
		{"invalid sort key", query.ErrInvalidSortKey, http.StatusInternalServerError, "INTERNAL_ERROR", true},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&logs, nil))
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/books", nil)

			crud.WriteError(w, r, logger, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp httpx.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantLogged, logs.Len() > 0)
		})
	}
}

func TestWriteError_ValidationDetails(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/books", nil)

	crud.WriteError(w, r, slog.Default(), entity.ValidationErrors{
		{Field: "title", Message: "title is required"},
		{Field: "price", Message: "price must be at least 0.01"},
	})

	var resp httpx.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []httpx.ErrorDetail{
		{Field: "title", Message: "title is required"},
		{Field: "price", Message: "price must be at least 0.01"},
	}, resp.Error.Details)
}

func TestHTTPHandler_AuditsWritesWithUser(t *testing.T) {
	const secret = "test-secret"
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	mux := http.NewServeMux()
	author.NewHTTPHandler(author.NewService(memory.New[entity.Author](), logger), logger).
		Mount(mux, httpx.AuthMiddleware(secret))
	token := testutil.GenerateTestToken(t, secret, "alice")

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.NewRequestWithAuth(http.MethodPost, "/api/authors", `{"firstName":"Ann","lastName":"Leckie"}`, token))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.NewRequestWithAuth(http.MethodDelete, "/api/authors/1", "", token))
	require.Equal(t, http.StatusOK, w.Code)

	var entries []map[string]any
	dec := json.NewDecoder(&logs)
	for dec.More() {
		var e map[string]any
		require.NoError(t, dec.Decode(&e))
		entries = append(entries, e)
	}
	require.Len(t, entries, 2)
	assert.Equal(t, "record created", entries[0]["msg"])
	assert.Equal(t, "record deleted", entries[1]["msg"])
	for _, e := range entries {
		assert.Equal(t, "alice", e["user"])
		assert.Equal(t, float64(1), e["id"])
		assert.Equal(t, "/api/authors", e["path"])
	}
}
