package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"comic-auth/internal/service"
)

type RoleHandler struct {
	service *service.AuthService
}

func NewRoleHandler(service *service.AuthService) *RoleHandler {
	return &RoleHandler{service: service}
}

func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	roles, err := h.service.Roles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, roles, nil)
}

func (h *RoleHandler) Get(w http.ResponseWriter, r *http.Request) {
	role, err := h.service.RoleByName(r.Context(), chi.URLParam(r, "role_name"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, role, nil)
}
