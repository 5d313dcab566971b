package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/authsphere/authsphere-backend-go/internal/domain/attendance"
	"github.com/authsphere/authsphere-backend-go/internal/domain/user"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/timeutil"
)

type AttendanceServiceImpl struct {
	repo         attendance.Repository
	userRepo     user.Repository
	loc          *time.Location
	historyLimit int

	// now is swappable in tests.
	now func() time.Time
}

func NewAttendanceService(repo attendance.Repository, userRepo user.Repository, loc *time.Location, historyLimit int) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		repo:         repo,
		userRepo:     userRepo,
		loc:          loc,
		historyLimit: historyLimit,
		now:          time.Now,
	}
}

// CheckIn implements attendance.Service. The repository's unique constraint
// on (user_id, date) backs up the existence check, so two concurrent
// check-ins still produce exactly one record.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, caller user.Identity) (attendance.Attendance, error) {
	now := a.now().In(a.loc)
	day := timeutil.StartOfDay(now, a.loc)

	existing, err := a.repo.GetByUserAndDate(ctx, caller.ID, day)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to look up today's attendance: %w", err)
	}
	if existing != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	}

	// The token's manager_id claim can lag behind an admin reassignment, so
	// the snapshot is read from the account, not the claims.
	account, err := a.userRepo.GetByID(ctx, caller.ID)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to look up account: %w", err)
	}

	att := attendance.Attendance{
		UserID:               caller.ID,
		ManagerID:            account.ManagerID,
		Date:                 day,
		CheckIn:              &now,
		HoursWorkedSeconds:   0,
		HoursWorkedFormatted: timeutil.FormatDuration(0),
		Status:               attendance.StatusPresent,
	}

	return a.repo.Create(ctx, att)
}

// CheckOut implements attendance.Service.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, caller user.Identity) (attendance.Attendance, error) {
	now := a.now().In(a.loc)
	day := timeutil.StartOfDay(now, a.loc)

	att, err := a.repo.GetByUserAndDate(ctx, caller.ID, day)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to look up today's attendance: %w", err)
	}
	if att == nil || att.CheckIn == nil {
		return attendance.Attendance{}, attendance.ErrNoCheckInFound
	}
	if att.CheckOut != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}

	worked := timeutil.ElapsedSeconds(*att.CheckIn, now)

	att.CheckOut = &now
	att.HoursWorkedSeconds = worked
	att.HoursWorkedFormatted = timeutil.FormatDuration(worked)
	att.Status = timeutil.DeriveStatus(worked)

	return a.repo.Update(ctx, *att)
}

// ResetToday implements attendance.Service. Reopens the day after a
// premature check-out. Running it on an already-open record is a no-op
// rewrite of the same values.
func (a *AttendanceServiceImpl) ResetToday(ctx context.Context, caller user.Identity) (attendance.Attendance, error) {
	day := timeutil.StartOfDay(a.now().In(a.loc), a.loc)

	att, err := a.repo.GetByUserAndDate(ctx, caller.ID, day)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to look up today's attendance: %w", err)
	}
	if att == nil {
		return attendance.Attendance{}, attendance.ErrNoRecordFound
	}

	att.CheckOut = nil
	att.HoursWorkedSeconds = 0
	att.HoursWorkedFormatted = timeutil.FormatDuration(0)
	att.Status = attendance.StatusPresent

	return a.repo.Update(ctx, *att)
}

// Today implements attendance.Service.
func (a *AttendanceServiceImpl) Today(ctx context.Context, caller user.Identity) (*attendance.Attendance, error) {
	day := timeutil.StartOfDay(a.now().In(a.loc), a.loc)
	return a.repo.GetByUserAndDate(ctx, caller.ID, day)
}

// MyHistory implements attendance.Service.
func (a *AttendanceServiceImpl) MyHistory(ctx context.Context, caller user.Identity) ([]attendance.Attendance, error) {
	return a.repo.ListByUser(ctx, caller.ID, a.historyLimit)
}

// TeamHistory implements attendance.Service. Admins see every record;
// managers see only records snapshotted to them.
func (a *AttendanceServiceImpl) TeamHistory(ctx context.Context, caller user.Identity) ([]attendance.Attendance, error) {
	if caller.IsAdmin() {
		return a.repo.ListAll(ctx)
	}
	if caller.Role == user.RoleManager {
		return a.repo.ListByManager(ctx, caller.ID)
	}
	return nil, attendance.ErrNotAuthorized
}

// OverrideStatus implements attendance.Service. The written status sticks
// until the next check-out recomputes it.
func (a *AttendanceServiceImpl) OverrideStatus(ctx context.Context, caller user.Identity, req attendance.OverrideStatusRequest) (attendance.Attendance, error) {
	if err := req.Validate(); err != nil {
		return attendance.Attendance{}, err
	}

	status := attendance.Status(req.Status)
	if !status.Valid() {
		return attendance.Attendance{}, attendance.ErrInvalidStatus
	}

	att, err := a.repo.GetByID(ctx, req.AttendanceID)
	if err != nil {
		return attendance.Attendance{}, err
	}

	if !caller.CanOverrideAttendance(att.ManagerID) {
		return attendance.Attendance{}, attendance.ErrNotAuthorized
	}

	att.Status = status

	return a.repo.Update(ctx, att)
}
