package timeutil

import (
	"fmt"
	"time"

	"github.com/authsphere/authsphere-backend-go/internal/domain/attendance"
)

// FullDaySeconds is the threshold for a full working day.
const FullDaySeconds = 8 * 3600

// ElapsedSeconds returns the whole seconds between checkIn and checkOut.
// A checkOut earlier than checkIn clamps to 0 instead of erroring, matching
// how records with clock skew have historically been handled.
func ElapsedSeconds(checkIn, checkOut time.Time) int64 {
	diff := checkOut.Sub(checkIn)
	if diff < 0 {
		return 0
	}
	return int64(diff / time.Second)
}

// FormatDuration renders seconds as zero-padded "HH:MM:SS". Hours are not
// capped at 24.
func FormatDuration(totalSeconds int64) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// DeriveStatus maps worked seconds to an attendance status: zero is absent,
// anything under a full day is half-day, a full day or more is present.
// Only meaningful once both check-in and check-out exist.
func DeriveStatus(workedSeconds int64) attendance.Status {
	switch {
	case workedSeconds == 0:
		return attendance.StatusAbsent
	case workedSeconds < FullDaySeconds:
		return attendance.StatusHalfDay
	default:
		return attendance.StatusPresent
	}
}

// StartOfDay truncates t to midnight in loc. This is the partition key for
// the one-record-per-user-per-day invariant, so every caller must use the
// same location (config.AttendanceLocation).
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// EndOfDay returns the last second of the day containing t in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return StartOfDay(t, loc).Add(24*time.Hour - time.Second)
}
