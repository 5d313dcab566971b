package attendance

import (
	"time"

	"github.com/authsphere/authsphere-backend-go/internal/pkg/validator"
)

// OverrideStatusRequest is a manager/admin writing a status directly.
type OverrideStatusRequest struct {
	AttendanceID string `json:"attendance_id"`
	Status       string `json:"status"`
}

func (r *OverrideStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.AttendanceID) {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_id",
			Message: "attendance_id is required",
		})
	}

	if validator.IsEmpty(r.Status) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Response is the wire shape of an attendance record.
type Response struct {
	ID                   string  `json:"id"`
	UserID               string  `json:"user_id"`
	UserName             *string `json:"user_name,omitempty"`
	UserEmail            *string `json:"user_email,omitempty"`
	ManagerID            *string `json:"manager_id"`
	Date                 string  `json:"date"`
	CheckIn              *string `json:"check_in"`
	CheckOut             *string `json:"check_out"`
	HoursWorkedSeconds   int64   `json:"hours_worked_seconds"`
	HoursWorkedFormatted string  `json:"hours_worked_formatted"`
	Status               Status  `json:"status"`
	Notes                string  `json:"notes,omitempty"`
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// ToResponse converts an entity to its wire shape.
func ToResponse(att Attendance) Response {
	return Response{
		ID:                   att.ID,
		UserID:               att.UserID,
		UserName:             att.UserName,
		UserEmail:            att.UserEmail,
		ManagerID:            att.ManagerID,
		Date:                 att.Date.Format("2006-01-02"),
		CheckIn:              formatTimePtr(att.CheckIn),
		CheckOut:             formatTimePtr(att.CheckOut),
		HoursWorkedSeconds:   att.HoursWorkedSeconds,
		HoursWorkedFormatted: att.HoursWorkedFormatted,
		Status:               att.Status,
		Notes:                att.Notes,
	}
}

// ToResponseList converts a slice of entities.
func ToResponseList(atts []Attendance) []Response {
	out := make([]Response, 0, len(atts))
	for _, att := range atts {
		out = append(out, ToResponse(att))
	}
	return out
}
