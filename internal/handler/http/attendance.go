package http

import (
	"encoding/json"
	"net/http"

	"github.com/authsphere/authsphere-backend-go/internal/domain/attendance"
	"github.com/authsphere/authsphere-backend-go/internal/handler/http/response"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	ResetToday(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	MyHistory(w http.ResponseWriter, r *http.Request)
	TeamHistory(w http.ResponseWriter, r *http.Request)
	OverrideStatus(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.Service
}

func NewAttendanceHandler(attendanceService attendance.Service) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	caller, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	att, err := h.attendanceService.CheckIn(r.Context(), caller)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "checked in", attendance.ToResponse(att))
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	caller, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	att, err := h.attendanceService.CheckOut(r.Context(), caller)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "checked out", attendance.ToResponse(att))
}

// ResetToday implements AttendanceHandler.
func (h *attendanceHandlerImpl) ResetToday(w http.ResponseWriter, r *http.Request) {
	caller, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	att, err := h.attendanceService.ResetToday(r.Context(), caller)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "attendance reset", attendance.ToResponse(att))
}

// Today implements AttendanceHandler. Returns data null when the caller has
// not checked in yet.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	caller, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	att, err := h.attendanceService.Today(r.Context(), caller)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if att == nil {
		response.Success(w, nil)
		return
	}

	response.Success(w, attendance.ToResponse(*att))
}

// MyHistory implements AttendanceHandler.
func (h *attendanceHandlerImpl) MyHistory(w http.ResponseWriter, r *http.Request) {
	caller, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	records, err := h.attendanceService.MyHistory(r.Context(), caller)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.ToResponseList(records))
}

// TeamHistory implements AttendanceHandler.
func (h *attendanceHandlerImpl) TeamHistory(w http.ResponseWriter, r *http.Request) {
	caller, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	records, err := h.attendanceService.TeamHistory(r.Context(), caller)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, attendance.ToResponseList(records))
}

// OverrideStatus implements AttendanceHandler.
func (h *attendanceHandlerImpl) OverrideStatus(w http.ResponseWriter, r *http.Request) {
	caller, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req attendance.OverrideStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.AttendanceID = chi.URLParam(r, "id")

	att, err := h.attendanceService.OverrideStatus(r.Context(), caller, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "status updated", attendance.ToResponse(att))
}
