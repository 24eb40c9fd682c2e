package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookseller/internal/platform/crypto"
)

func TestAuthMiddleware(t *testing.T) {
	const secret = "test-secret"
	valid, err := crypto.GenerateToken(secret, "alice", time.Hour)
	require.NoError(t, err)
	expired, err := crypto.GenerateToken(secret, "alice", -time.Hour)
	require.NoError(t, err)
	foreign, err := crypto.GenerateToken("other-secret", "alice", time.Hour)
	require.NoError(t, err)

	var seenUser string
	handler := AuthMiddleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUser = UserNameFrom(r)
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer " + valid.Token, http.StatusNoContent},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid.Token, http.StatusUnauthorized},
		{"expired", "Bearer " + expired.Token, http.StatusUnauthorized},
		{"foreign signature", "Bearer " + foreign.Token, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenUser = ""
			req := httptest.NewRequest(http.MethodPost, "/api/books", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusNoContent {
				assert.Equal(t, "alice", seenUser)
			} else {
				assert.Empty(t, seenUser)
				assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
			}
		})
	}
}
