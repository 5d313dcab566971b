package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/authsphere/authsphere-backend-go/internal/domain/attendance"
	"github.com/authsphere/authsphere-backend-go/internal/domain/user"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/timeutil"
)

// MaintenanceJobs holds the recurring housekeeping work: closing attendance
// sessions left open overnight and purging stale verification tokens.
type MaintenanceJobs struct {
	attendanceRepo attendance.Repository
	userRepo       user.Repository
	loc            *time.Location
}

func NewMaintenanceJobs(
	attendanceRepo attendance.Repository,
	userRepo user.Repository,
	loc *time.Location,
) *MaintenanceJobs {
	return &MaintenanceJobs{
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		loc:            loc,
	}
}

func (j *MaintenanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_close_stale_attendances", 1*time.Hour, j.AutoCloseStaleAttendances)
	scheduler.AddJob("purge_expired_verification_tokens", 1*time.Hour, j.PurgeExpiredVerificationTokens)
}

// AutoCloseStaleAttendances checks out sessions still open after their day
// ended, stamping the check-out at the last second of the recorded day and
// running the usual derivation.
func (j *MaintenanceJobs) AutoCloseStaleAttendances(ctx context.Context) error {
	// Only run during the first hour of the day in the attendance timezone.
	if time.Now().In(j.loc).Hour() != 0 {
		return nil
	}

	todayStart := timeutil.StartOfDay(time.Now(), j.loc)
	stale, err := j.attendanceRepo.ListOpenBefore(ctx, todayStart)
	if err != nil {
		return fmt.Errorf("failed to list stale open sessions: %w", err)
	}

	if len(stale) == 0 {
		return nil
	}

	closed := 0
	for _, att := range stale {
		if att.CheckIn == nil {
			continue
		}

		checkOut := timeutil.EndOfDay(att.Date, j.loc)
		att.CheckOut = &checkOut
		att.HoursWorkedSeconds = timeutil.ElapsedSeconds(*att.CheckIn, checkOut)
		att.HoursWorkedFormatted = timeutil.FormatDuration(att.HoursWorkedSeconds)
		att.Status = timeutil.DeriveStatus(att.HoursWorkedSeconds)

		if _, err := j.attendanceRepo.Update(ctx, att); err != nil {
			slog.Error("Failed to auto-close attendance", "attendance_id", att.ID, "error", err)
			continue
		}
		closed++
	}

	slog.Info("Auto-closed stale attendance sessions", "found", len(stale), "closed", closed)
	return nil
}

// PurgeExpiredVerificationTokens drops verification tokens past their expiry
// so dead registrations cannot be verified later.
func (j *MaintenanceJobs) PurgeExpiredVerificationTokens(ctx context.Context) error {
	purged, err := j.userRepo.PurgeExpiredVerificationTokens(ctx)
	if err != nil {
		return fmt.Errorf("failed to purge expired verification tokens: %w", err)
	}

	if purged > 0 {
		slog.Info("Purged expired verification tokens", "count", purged)
	}
	return nil
}
