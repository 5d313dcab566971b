package attendance

import (
	"time"
)

// Status is the derived or overridden state of a day's attendance record.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half-day"
)

// AllStatuses returns every valid attendance status.
func AllStatuses() []Status {
	return []Status{StatusPresent, StatusAbsent, StatusLate, StatusHalfDay}
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusHalfDay:
		return true
	}
	return false
}

// Attendance is one user's record for one calendar day. Date is always
// truncated to start of day in the configured attendance timezone; together
// with UserID it is unique. ManagerID is a denormalized snapshot of the
// user's manager at record time, kept in sync when the user is reassigned.
type Attendance struct {
	ID                   string
	UserID               string
	ManagerID            *string
	Date                 time.Time
	CheckIn              *time.Time
	CheckOut             *time.Time
	HoursWorkedSeconds   int64
	HoursWorkedFormatted string
	Status               Status
	Notes                string
	CreatedAt            time.Time
	UpdatedAt            time.Time

	// DTO / join
	UserName  *string
	UserEmail *string
}
