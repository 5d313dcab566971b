package http

import (
	"encoding/json"
	"net/http"

	"github.com/authsphere/authsphere-backend-go/internal/domain/task"
	"github.com/authsphere/authsphere-backend-go/internal/handler/http/response"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/jwt"
	"github.com/authsphere/authsphere-backend-go/internal/service/file"
	"github.com/go-chi/chi/v5"
)

const maxAttachmentSize = 10 << 20

type TaskHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Assign(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListAssigned(w http.ResponseWriter, r *http.Request)
	SetStatus(w http.ResponseWriter, r *http.Request)
	Complete(w http.ResponseWriter, r *http.Request)
	SubmitReply(w http.ResponseWriter, r *http.Request)
	UploadReplyAttachment(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type taskHandlerImpl struct {
	taskService task.Service
	fileService file.FileService
}

func NewTaskHandler(taskService task.Service, fileService file.FileService) TaskHandler {
	return &taskHandlerImpl{
		taskService: taskService,
		fileService: fileService,
	}
}

// Create implements TaskHandler.
func (h *taskHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req task.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.taskService.Create(r.Context(), caller, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "task created", task.ToResponse(created))
}

// Assign implements TaskHandler.
func (h *taskHandlerImpl) Assign(w http.ResponseWriter, r *http.Request) {
	caller, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req task.AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.taskService.Assign(r.Context(), caller, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "task assigned", task.ToResponse(created))
}

// Get implements TaskHandler.
func (h *taskHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	caller, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	t, err := h.taskService.Get(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, task.ToResponse(t))
}

// ListMine implements TaskHandler.
func (h *taskHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	caller, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	tasks, err := h.taskService.ListForUser(r.Context(), caller)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, task.ToResponseList(tasks))
}

// ListAssigned implements TaskHandler.
func (h *taskHandlerImpl) ListAssigned(w http.ResponseWriter, r *http.Request) {
	caller, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	tasks, err := h.taskService.ListAssignedByManager(r.Context(), caller)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, task.ToResponseList(tasks))
}

// SetStatus implements TaskHandler.
func (h *taskHandlerImpl) SetStatus(w http.ResponseWriter, r *http.Request) {
	caller, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req task.SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	updated, err := h.taskService.SetStatus(r.Context(), caller, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "status updated", task.ToResponse(updated))
}

// Complete implements TaskHandler.
func (h *taskHandlerImpl) Complete(w http.ResponseWriter, r *http.Request) {
	caller, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	updated, err := h.taskService.Complete(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "task completed", task.ToResponse(updated))
}

// SubmitReply implements TaskHandler.
func (h *taskHandlerImpl) SubmitReply(w http.ResponseWriter, r *http.Request) {
	caller, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req task.ReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	updated, err := h.taskService.SubmitReply(r.Context(), caller, chi.URLParam(r, "id"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "reply submitted", task.ToResponse(updated))
}

// UploadReplyAttachment implements TaskHandler. Accepts one file in the
// 'file' field; the returned URL goes into the subsequent reply submission.
func (h *taskHandlerImpl) UploadReplyAttachment(w http.ResponseWriter, r *http.Request) {
	caller, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	if err := r.ParseMultipartForm(maxAttachmentSize); err != nil {
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Field 'file' is required", nil)
		return
	}
	defer f.Close()

	var url string
	switch r.URL.Query().Get("kind") {
	case "pdf":
		url, err = h.fileService.UploadReplyPDF(r.Context(), caller.ID, f, header.Filename)
	default:
		url, err = h.fileService.UploadReplyImage(r.Context(), caller.ID, f, header.Filename)
	}
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	response.Created(w, "attachment uploaded", map[string]string{"url": url})
}

// Delete implements TaskHandler.
func (h *taskHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	if err := h.taskService.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "task deleted", nil)
}
