package timeutil

import (
	"testing"
	"time"

	"github.com/authsphere/authsphere-backend-go/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
)

func TestElapsedSeconds(t *testing.T) {
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		checkOut time.Time
		want     int64
	}{
		{"zero elapsed", base, 0},
		{"one second", base.Add(time.Second), 1},
		{"exactly eight hours", base.Add(8 * time.Hour), 8 * 3600},
		{"sub-second floors down", base.Add(1500 * time.Millisecond), 1},
		{"checkout before checkin clamps to zero", base.Add(-time.Hour), 0},
		{"over 24 hours", base.Add(30 * time.Hour), 30 * 3600},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, ElapsedSeconds(base, c.checkOut))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		seconds int64
		want    string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{60, "00:01:00"},
		{3600, "01:00:00"},
		{8 * 3600, "08:00:00"},
		{8*3600 + 61, "08:01:01"},
		{25 * 3600, "25:00:00"}, // hours are not capped at 24
		{-5, "00:00:00"},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, FormatDuration(c.seconds), "seconds=%d", c.seconds)
	}
}

func TestDeriveStatus(t *testing.T) {
	assert.Equal(t, attendance.StatusAbsent, DeriveStatus(0))
	assert.Equal(t, attendance.StatusHalfDay, DeriveStatus(1))
	assert.Equal(t, attendance.StatusHalfDay, DeriveStatus(8*3600-1))
	assert.Equal(t, attendance.StatusPresent, DeriveStatus(8*3600))
	assert.Equal(t, attendance.StatusPresent, DeriveStatus(12*3600))
}

// A standard nine-to-five works out to present with an exact formatted
// duration.
func TestDerivationConsistency(t *testing.T) {
	checkIn := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	checkOut := time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)

	seconds := ElapsedSeconds(checkIn, checkOut)
	assert.Equal(t, int64(8*3600), seconds)
	assert.Equal(t, "08:00:00", FormatDuration(seconds))
	assert.Equal(t, attendance.StatusPresent, DeriveStatus(seconds))
}

func TestStartOfDay(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	assert.NoError(t, err)

	// 01:30 UTC on March 10 is already March 10 in Jakarta (UTC+7).
	instant := time.Date(2025, 3, 10, 1, 30, 0, 0, time.UTC)

	utcDay := StartOfDay(instant, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), utcDay)

	jktDay := StartOfDay(instant, jakarta)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, jakarta), jktDay)

	// 20:00 UTC is already the next day in Jakarta; the partition key moves
	// with the configured location, not the instant's zone.
	evening := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, jakarta), StartOfDay(evening, jakarta))
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), StartOfDay(evening, time.UTC))
}

func TestEndOfDay(t *testing.T) {
	instant := time.Date(2025, 3, 10, 11, 15, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 10, 23, 59, 59, 0, time.UTC), EndOfDay(instant, time.UTC))
}
