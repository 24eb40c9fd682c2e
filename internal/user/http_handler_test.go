package user

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookseller/internal/entity"
)

func TestHTTPHandler_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	mux := http.NewServeMux()
	NewHTTPHandler(NewService(mockRepo, testSecret, time.Hour), nil).Mount(mux)

	tests := []struct {
		name           string
		body           string
		setupMock      func()
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "success",
			body: `{"userName":"  alice ","password":"Password1!"}`,
			setupMock: func() {
				mockRepo.EXPECT().GetByUserName(gomock.Any(), "alice").Return(entity.User{}, ErrNotFound)
				mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "invalid JSON",
			body:           `{"userName":`,
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "weak password",
			body:           `{"userName":"alice","password":"123"}`,
			setupMock:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name: "taken",
			body: `{"userName":"alice","password":"Password1!"}`,
			setupMock: func() {
				mockRepo.EXPECT().GetByUserName(gomock.Any(), "alice").Return(entity.User{UserName: "alice"}, nil)
			},
			expectedStatus: http.StatusConflict,
			expectedCode:   "ALREADY_EXISTS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(tt.body))
			r.Header.Set("Content-Type", "application/json")
			mux.ServeHTTP(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				var resp struct {
					Error struct {
						Code string `json:"code"`
					} `json:"error"`
				}
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedCode, resp.Error.Code)
			}
		})
	}
}

func TestHTTPHandler_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	mux := http.NewServeMux()
	NewHTTPHandler(NewService(mockRepo, testSecret, time.Hour), nil).Mount(mux)

	hash, err := HashPassword("Password1!")
	require.NoError(t, err)
	mockRepo.EXPECT().GetByUserName(gomock.Any(), "alice").Return(entity.User{ID: 1, UserName: "alice", PasswordHash: hash}, nil).Times(2)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader(`{"userName":"alice","password":"Password1!"}`))
	mux.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	var tok struct {
		Token      string    `json:"token"`
		Expiration time.Time `json:"expiration"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tok))
	assert.NotEmpty(t, tok.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.Expiration, time.Minute)

	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader(`{"userName":"alice","password":"nope"}`))
	mux.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
