package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"comic-auth/internal/middleware"
	"comic-auth/internal/model"
	"comic-auth/internal/service"
	"comic-auth/pkg/apierror"
)

type UserHandler struct {
	service  *service.AuthService
	validate *validator.Validate
}

func NewUserHandler(service *service.AuthService) *UserHandler {
	return &UserHandler{service: service, validate: validator.New()}
}

// List returns every account's public profile. Admin only (enforced in the
// router).
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.Users(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	profiles := make([]model.PublicUser, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, h.service.Principal(r.Context(), user).Public())
	}

	writeSuccess(w, http.StatusOK, profiles, nil)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.UserByID(r.Context(), chi.URLParam(r, "user_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, h.service.Principal(r.Context(), user).Public(), nil)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	defer r.Body.Close()

	var payload model.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), principal.User.ID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, h.service.Principal(r.Context(), user).Public(), nil)
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthorized)
		return
	}

	defer r.Body.Close()

	var payload model.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}
	if err := h.validate.Struct(payload); err != nil {
		writeError(w, validationError(err))
		return
	}

	if err := h.service.ChangePassword(r.Context(), principal.User.ID, payload.CurrentPassword, payload.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"password_changed": true}, nil)
}
