package user

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"bookseller/internal/crud"
	"bookseller/internal/httpx"
)

type HTTPHandler struct {
	service *Service
	logger  *slog.Logger
}

func NewHTTPHandler(service *Service, logger *slog.Logger) *HTTPHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPHandler{service: service, logger: logger}
}

// Register handles POST /api/users
// @Summary Register a new user
// @Description Create a user and return a bearer token
// @Tags users
// @Accept json
// @Produce json
// @Param request body Credentials true "Registration request"
// @Success 201 {object} crypto.Token
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /api/users [post]
func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var c Credentials
	if err := httpx.DecodeJSON(r, &c); err != nil {
		crud.WriteError(w, r, h.logger, err)
		return
	}
	c.UserName = strings.TrimSpace(c.UserName)

	token, err := h.service.Register(r.Context(), c)
	if err != nil {
		if errors.Is(err, ErrUserNameTaken) {
			httpx.JSONError(w, r, http.StatusConflict, "ALREADY_EXISTS", "User name already taken", nil)
			return
		}
		crud.WriteError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, token)
}

// Login handles POST /api/users/login
// @Summary Log in
// @Tags users
// @Accept json
// @Produce json
// @Param request body Credentials true "Login request"
// @Success 200 {object} crypto.Token
// @Failure 401 {object} httpx.ErrorResponse
// @Router /api/users/login [post]
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var c Credentials
	if err := httpx.DecodeJSON(r, &c); err != nil {
		crud.WriteError(w, r, h.logger, err)
		return
	}
	c.UserName = strings.TrimSpace(c.UserName)

	token, err := h.service.Login(r.Context(), c)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httpx.JSONError(w, r, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid user name or password", nil)
			return
		}
		crud.WriteError(w, r, h.logger, err)
		return
	}
	httpx.JSON(w, http.StatusOK, token)
}

// Mount adds the user routes to mux. They are open to anonymous callers.
func (h *HTTPHandler) Mount(mux httpx.Router) {
	mux.HandleFunc("POST /api/users", h.Register)
	mux.HandleFunc("POST /api/users/login", h.Login)
}
