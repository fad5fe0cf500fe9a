package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"comic-auth/internal/middleware"
	"comic-auth/internal/model"
	"comic-auth/internal/service"
	"comic-auth/pkg/apierror"
)

type AuthHandler struct {
	service  *service.AuthService
	validate *validator.Validate
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service, validate: validator.New()}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		writeError(w, validationError(err))
		return
	}

	user, err := h.service.Authenticate(r.Context(), payload.Identifier, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeError(w, model.ErrInvalidCredentials)
		return
	}

	token, err := h.service.IssueToken(r.Context(), *user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.AuthResponse{
		Token: token,
		User:  h.service.Principal(r.Context(), *user).Public(),
	}, nil)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		writeError(w, validationError(err))
		return
	}

	user, err := h.service.Register(r.Context(), payload.Username, payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	// Registration logs the account straight in, same as the login flow.
	token, err := h.service.IssueToken(r.Context(), *user)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, model.AuthResponse{
		Token: token,
		User:  h.service.Principal(r.Context(), *user).Public(),
	}, nil)
}

// Logout is idempotent: it succeeds whether or not the presented token is
// still live, and even when no token is presented at all.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.ExtractToken(r); token != "" {
		h.service.InvalidateToken(r.Context(), token)
	}
	writeSuccess(w, http.StatusOK, map[string]any{"logged_out": true}, nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	writeSuccess(w, http.StatusOK, principal.Public(), nil)
}
