package http

import (
	"net/http"

	"github.com/authsphere/authsphere-backend-go/internal/domain/user"
	"github.com/authsphere/authsphere-backend-go/internal/handler/http/response"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/jwt"
)

type UserHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Team(w http.ResponseWriter, r *http.Request)
}

type userHandlerImpl struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) UserHandler {
	return &userHandlerImpl{
		userService: userService,
	}
}

// List implements UserHandler.
func (h *userHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	caller, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	users, err := h.userService.List(r.Context(), caller)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, user.ToResponseList(users))
}

// Team implements UserHandler. Managers get their own reports; admins may
// select a manager with ?manager_id=.
func (h *userHandlerImpl) Team(w http.ResponseWriter, r *http.Request) {
	caller, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	team, err := h.userService.Team(r.Context(), caller, r.URL.Query().Get("manager_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, user.ToResponseList(team))
}
