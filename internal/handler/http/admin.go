package http

import (
	"encoding/json"
	"net/http"

	"github.com/authsphere/authsphere-backend-go/internal/domain/user"
	"github.com/authsphere/authsphere-backend-go/internal/handler/http/response"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
)

// AdminHandler exposes the user lifecycle operations. Every route behind it
// is wrapped in the AdminOnly middleware; the services re-check the caller
// role anyway.
type AdminHandler interface {
	UpdateUser(w http.ResponseWriter, r *http.Request)
	SoftDeleteUser(w http.ResponseWriter, r *http.Request)
	ListRemoved(w http.ResponseWriter, r *http.Request)
	RestoreUser(w http.ResponseWriter, r *http.Request)
	PermanentDeleteUser(w http.ResponseWriter, r *http.Request)
	LoginHistory(w http.ResponseWriter, r *http.Request)
}

type adminHandlerImpl struct {
	userService user.Service
}

func NewAdminHandler(userService user.Service) AdminHandler {
	return &adminHandlerImpl{
		userService: userService,
	}
}

// UpdateUser implements AdminHandler.
func (h *adminHandlerImpl) UpdateUser(w http.ResponseWriter, r *http.Request) {
	caller, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req user.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	updated, err := h.userService.Update(r.Context(), caller, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "user updated", user.ToResponse(updated))
}

// SoftDeleteUser implements AdminHandler.
func (h *adminHandlerImpl) SoftDeleteUser(w http.ResponseWriter, r *http.Request) {
	caller, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req user.SoftDeleteRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	archived, err := h.userService.SoftDelete(r.Context(), caller, chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "user removed", user.ToRemovedResponse(archived))
}

// ListRemoved implements AdminHandler.
func (h *adminHandlerImpl) ListRemoved(w http.ResponseWriter, r *http.Request) {
	caller, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	removed, err := h.userService.ListRemoved(r.Context(), caller)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, user.ToRemovedResponseList(removed))
}

// RestoreUser implements AdminHandler.
func (h *adminHandlerImpl) RestoreUser(w http.ResponseWriter, r *http.Request) {
	caller, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	restored, err := h.userService.Restore(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "user restored", user.ToResponse(restored))
}

// PermanentDeleteUser implements AdminHandler.
func (h *adminHandlerImpl) PermanentDeleteUser(w http.ResponseWriter, r *http.Request) {
	caller, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	if err := h.userService.PermanentDelete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "user permanently deleted", nil)
}

// LoginHistory implements AdminHandler.
func (h *adminHandlerImpl) LoginHistory(w http.ResponseWriter, r *http.Request) {
	caller, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	history, err := h.userService.LoginHistoryFor(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, user.ToLoginHistoryResponseList(history))
}
