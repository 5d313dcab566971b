package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in / check-out / reset errors
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrNoCheckInFound    = errors.New("no check-in found for today")
	ErrAlreadyCheckedOut = errors.New("you have already checked out today")
	ErrNoRecordFound     = errors.New("no attendance record for today")

	// General errors
	ErrRecordNotFound = errors.New("attendance record not found")
	ErrInvalidStatus  = errors.New("invalid attendance status")
	ErrNotAuthorized  = errors.New("not authorized to access this attendance record")
)
