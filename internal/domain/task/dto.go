package task

import (
	"time"

	"github.com/authsphere/authsphere-backend-go/internal/pkg/validator"
)

// CreateRequest is a user creating a task for themselves.
type CreateRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"due_date"`
	NeedsReply  bool    `json:"needs_reply"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title is required",
		})
	}

	if r.Priority != "" && !Priority(r.Priority).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "priority",
			Message: "priority must be low, medium, or high",
		})
	}

	if r.DueDate != nil {
		if _, ok := validator.ParseDateTime(*r.DueDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "due_date",
				Message: "due_date must be an RFC3339 timestamp",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// AssignRequest is a manager/admin creating a task for a team member.
type AssignRequest struct {
	CreateRequest
	AssignedTo string `json:"assigned_to"`
}

func (r *AssignRequest) Validate() error {
	if err := r.CreateRequest.Validate(); err != nil {
		return err
	}
	if validator.IsEmpty(r.AssignedTo) {
		return ErrAssigneeRequired
	}
	return nil
}

// SetStatusRequest moves a task through its lifecycle.
type SetStatusRequest struct {
	Status     string `json:"status"`
	HoldReason string `json:"hold_reason"`
}

// ReplyRequest is the assignee's answer on a reply-gated task. Attachment
// URLs are produced by the upload endpoint and passed through verbatim.
type ReplyRequest struct {
	Text     string  `json:"text"`
	ImageURL *string `json:"image_url"`
	PDFURL   *string `json:"pdf_url"`
}

// ReplyResponse is the wire shape of a submitted reply.
type ReplyResponse struct {
	Text        string  `json:"text"`
	ImageURL    *string `json:"image_url"`
	PDFURL      *string `json:"pdf_url"`
	SubmittedAt string  `json:"submitted_at"`
	SubmittedBy string  `json:"submitted_by"`
}

// Response is the wire shape of a task.
type Response struct {
	ID                string         `json:"id"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	CreatedBy         string         `json:"created_by"`
	CreatedByName     *string        `json:"created_by_name,omitempty"`
	AssignedTo        *string        `json:"assigned_to"`
	AssignedToName    *string        `json:"assigned_to_name,omitempty"`
	AssignedByManager *string        `json:"assigned_by_manager"`
	DueDate           *string        `json:"due_date"`
	Priority          Priority       `json:"priority"`
	Status            Status         `json:"status"`
	HoldReason        string         `json:"hold_reason"`
	NeedsReply        bool           `json:"needs_reply"`
	Replied           bool           `json:"replied"`
	Reply             *ReplyResponse `json:"reply,omitempty"`
	Done              bool           `json:"done"`
	CreatedAt         string         `json:"created_at"`
	UpdatedAt         string         `json:"updated_at"`
}

// ToResponse converts an entity to its wire shape.
func ToResponse(t Task) Response {
	resp := Response{
		ID:                t.ID,
		Title:             t.Title,
		Description:       t.Description,
		CreatedBy:         t.CreatedBy,
		CreatedByName:     t.CreatedByName,
		AssignedTo:        t.AssignedTo,
		AssignedToName:    t.AssignedToName,
		AssignedByManager: t.AssignedByManager,
		Priority:          t.Priority,
		Status:            t.Status,
		HoldReason:        t.HoldReason,
		NeedsReply:        t.NeedsReply,
		Replied:           t.Replied,
		Done:              t.Done,
		CreatedAt:         t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         t.UpdatedAt.UTC().Format(time.RFC3339),
	}

	if t.DueDate != nil {
		due := t.DueDate.UTC().Format(time.RFC3339)
		resp.DueDate = &due
	}

	if t.Reply != nil {
		resp.Reply = &ReplyResponse{
			Text:        t.Reply.Text,
			ImageURL:    t.Reply.ImageURL,
			PDFURL:      t.Reply.PDFURL,
			SubmittedAt: t.Reply.SubmittedAt.UTC().Format(time.RFC3339),
			SubmittedBy: t.Reply.SubmittedBy,
		}
	}

	return resp
}

// ToResponseList converts a slice of entities.
func ToResponseList(tasks []Task) []Response {
	out := make([]Response, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ToResponse(t))
	}
	return out
}
