package attendance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/authsphere/authsphere-backend-go/internal/domain/attendance"
	"github.com/authsphere/authsphere-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAttendanceRepo struct {
	records map[string]attendance.Attendance
	nextID  int
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: make(map[string]attendance.Attendance)}
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	for _, existing := range f.records {
		if existing.UserID == att.UserID && existing.Date.Equal(att.Date) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
	}
	f.nextID++
	att.ID = fmt.Sprintf("att-%d", f.nextID)
	f.records[att.ID] = att
	return att, nil
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	att, ok := f.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrRecordNotFound
	}
	return att, nil
}

func (f *fakeAttendanceRepo) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	for _, att := range f.records {
		if att.UserID == userID && att.Date.Equal(date) {
			copied := att
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeAttendanceRepo) Update(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	if _, ok := f.records[att.ID]; !ok {
		return attendance.Attendance{}, attendance.ErrRecordNotFound
	}
	f.records[att.ID] = att
	return att, nil
}

func (f *fakeAttendanceRepo) ListByUser(ctx context.Context, userID string, limit int) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, att := range f.records {
		if att.UserID == userID {
			out = append(out, att)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeAttendanceRepo) ListByManager(ctx context.Context, managerID string) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, att := range f.records {
		if att.ManagerID != nil && *att.ManagerID == managerID {
			out = append(out, att)
		}
	}
	return out, nil
}

func (f *fakeAttendanceRepo) ListAll(ctx context.Context) ([]attendance.Attendance, error) {
	out := make([]attendance.Attendance, 0, len(f.records))
	for _, att := range f.records {
		out = append(out, att)
	}
	return out, nil
}

func (f *fakeAttendanceRepo) UpdateManagerForUser(ctx context.Context, userID string, managerID *string) error {
	for id, att := range f.records {
		if att.UserID == userID {
			att.ManagerID = managerID
			f.records[id] = att
		}
	}
	return nil
}

func (f *fakeAttendanceRepo) ListOpenBefore(ctx context.Context, cutoff time.Time) ([]attendance.Attendance, error) {
	var out []attendance.Attendance
	for _, att := range f.records {
		if att.CheckIn != nil && att.CheckOut == nil && att.Date.Before(cutoff) {
			out = append(out, att)
		}
	}
	return out, nil
}

// fakeUserRepo holds the current manager assignment per user, the
// authoritative source for the check-in snapshot.
type fakeUserRepo struct {
	managers map[string]*string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{managers: make(map[string]*string)}
}

func (f *fakeUserRepo) setManager(userID string, managerID *string) {
	f.managers[userID] = managerID
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	return user.User{ID: id, Role: user.RoleUser, ManagerID: f.managers[id]}, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) { return u, nil }
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) GetByVerificationToken(ctx context.Context, token string) (*user.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) List(ctx context.Context) ([]user.User, error) { return nil, nil }
func (f *fakeUserRepo) ListByManager(ctx context.Context, managerID string) ([]user.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Update(ctx context.Context, u user.User) (user.User, error) { return u, nil }
func (f *fakeUserRepo) Delete(ctx context.Context, id string) error                { return nil }
func (f *fakeUserRepo) PurgeExpiredVerificationTokens(ctx context.Context) (int64, error) {
	return 0, nil
}

func newTestService(repo attendance.Repository, at time.Time) (*AttendanceServiceImpl, *fakeUserRepo) {
	users := newFakeUserRepo()
	svc := NewAttendanceService(repo, users, time.UTC, 14)
	svc.now = func() time.Time { return at }
	return svc, users
}

func strPtr(s string) *string { return &s }

func TestCheckIn_CreatesOpenRecord(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	nineAM := time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)
	svc, users := newTestService(repo, nineAM)
	users.setManager("u1", strPtr("m1"))

	caller := user.Identity{ID: "u1", Role: user.RoleUser, ManagerID: strPtr("m1")}
	att, err := svc.CheckIn(ctx, caller)
	require.NoError(t, err)

	assert.Equal(t, "u1", att.UserID)
	assert.Equal(t, "m1", *att.ManagerID)
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), att.Date)
	require.NotNil(t, att.CheckIn)
	assert.Nil(t, att.CheckOut)
	assert.Equal(t, attendance.StatusPresent, att.Status)
	assert.Equal(t, "00:00:00", att.HoursWorkedFormatted)
}

func TestCheckIn_SnapshotsCurrentManager(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc, users := newTestService(repo, time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC))
	users.setManager("u1", strPtr("m2"))

	// The access token still carries the pre-reassignment manager; the
	// record must snapshot the current one.
	caller := user.Identity{ID: "u1", Role: user.RoleUser, ManagerID: strPtr("m1")}
	att, err := svc.CheckIn(ctx, caller)
	require.NoError(t, err)

	require.NotNil(t, att.ManagerID)
	assert.Equal(t, "m2", *att.ManagerID)

	// The new manager sees the fresh record, the old one does not.
	team, err := svc.TeamHistory(ctx, user.Identity{ID: "m2", Role: user.RoleManager})
	require.NoError(t, err)
	assert.Len(t, team, 1)

	team, err = svc.TeamHistory(ctx, user.Identity{ID: "m1", Role: user.RoleManager})
	require.NoError(t, err)
	assert.Empty(t, team)
}

func TestCheckIn_SecondSameDayRejected(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc, _ := newTestService(repo, time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC))
	caller := user.Identity{ID: "u1", Role: user.RoleUser}

	_, err := svc.CheckIn(ctx, caller)
	require.NoError(t, err)

	_, err = svc.CheckIn(ctx, caller)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckIn_NextDayAllowed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc, _ := newTestService(repo, time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC))
	caller := user.Identity{ID: "u1", Role: user.RoleUser}

	_, err := svc.CheckIn(ctx, caller)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	att, err := svc.CheckIn(ctx, caller)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), att.Date)
}

func TestCheckOut_DerivesHoursAndStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	caller := user.Identity{ID: "u1", Role: user.RoleUser}

	cases := []struct {
		name       string
		checkOutAt time.Time
		wantStatus attendance.Status
		wantHours  string
	}{
		{"full day", time.Date(2026, 3, 9, 17, 0, 0, 0, time.UTC), attendance.StatusPresent, "08:00:00"},
		{"half day", time.Date(2026, 3, 9, 13, 0, 0, 0, time.UTC), attendance.StatusHalfDay, "04:00:00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeAttendanceRepo()
			svc, _ := newTestService(repo, time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC))

			_, err := svc.CheckIn(ctx, caller)
			require.NoError(t, err)

			svc.now = func() time.Time { return tc.checkOutAt }
			att, err := svc.CheckOut(ctx, caller)
			require.NoError(t, err)

			assert.Equal(t, tc.wantStatus, att.Status)
			assert.Equal(t, tc.wantHours, att.HoursWorkedFormatted)
			require.NotNil(t, att.CheckOut)
		})
	}
}

func TestCheckOut_WithoutCheckIn(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newTestService(newFakeAttendanceRepo(), time.Date(2026, 3, 9, 17, 0, 0, 0, time.UTC))

	_, err := svc.CheckOut(ctx, user.Identity{ID: "u1", Role: user.RoleUser})
	assert.ErrorIs(t, err, attendance.ErrNoCheckInFound)
}

func TestCheckOut_Twice(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc, _ := newTestService(repo, time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC))
	caller := user.Identity{ID: "u1", Role: user.RoleUser}

	_, err := svc.CheckIn(ctx, caller)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2026, 3, 9, 17, 0, 0, 0, time.UTC) }
	_, err = svc.CheckOut(ctx, caller)
	require.NoError(t, err)

	_, err = svc.CheckOut(ctx, caller)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestResetToday_Idempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc, _ := newTestService(repo, time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC))
	caller := user.Identity{ID: "u1", Role: user.RoleUser}

	_, err := svc.CheckIn(ctx, caller)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2026, 3, 9, 17, 0, 0, 0, time.UTC) }
	_, err = svc.CheckOut(ctx, caller)
	require.NoError(t, err)

	first, err := svc.ResetToday(ctx, caller)
	require.NoError(t, err)
	second, err := svc.ResetToday(ctx, caller)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Nil(t, second.CheckOut)
	assert.Equal(t, int64(0), second.HoursWorkedSeconds)
	assert.Equal(t, attendance.StatusPresent, second.Status)

	// Check-out works again after the reset.
	att, err := svc.CheckOut(ctx, caller)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, att.Status)
}

func TestResetToday_NoRecord(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(newFakeAttendanceRepo(), time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC))

	_, err := svc.ResetToday(context.Background(), user.Identity{ID: "u1", Role: user.RoleUser})
	assert.ErrorIs(t, err, attendance.ErrNoRecordFound)
}

func TestToday_NilWhenAbsent(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(newFakeAttendanceRepo(), time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC))

	att, err := svc.Today(context.Background(), user.Identity{ID: "u1", Role: user.RoleUser})
	require.NoError(t, err)
	assert.Nil(t, att)
}

func TestTeamHistory_RoleScoping(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc, users := newTestService(repo, time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC))
	users.setManager("u1", strPtr("m1"))
	users.setManager("u2", strPtr("m2"))

	_, err := svc.CheckIn(ctx, user.Identity{ID: "u1", Role: user.RoleUser, ManagerID: strPtr("m1")})
	require.NoError(t, err)
	_, err = svc.CheckIn(ctx, user.Identity{ID: "u2", Role: user.RoleUser, ManagerID: strPtr("m2")})
	require.NoError(t, err)

	manager, err := svc.TeamHistory(ctx, user.Identity{ID: "m1", Role: user.RoleManager})
	require.NoError(t, err)
	assert.Len(t, manager, 1)
	assert.Equal(t, "u1", manager[0].UserID)

	admin, err := svc.TeamHistory(ctx, user.Identity{ID: "a1", Role: user.RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, admin, 2)

	_, err = svc.TeamHistory(ctx, user.Identity{ID: "u1", Role: user.RoleUser})
	assert.ErrorIs(t, err, attendance.ErrNotAuthorized)
}

func TestOverrideStatus_ManagerScope(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc, users := newTestService(repo, time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC))
	users.setManager("u1", strPtr("m1"))

	created, err := svc.CheckIn(ctx, user.Identity{ID: "u1", Role: user.RoleUser, ManagerID: strPtr("m1")})
	require.NoError(t, err)

	// Own-team manager succeeds.
	att, err := svc.OverrideStatus(ctx, user.Identity{ID: "m1", Role: user.RoleManager},
		attendance.OverrideStatusRequest{AttendanceID: created.ID, Status: "late"})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, att.Status)

	// Foreign manager is rejected.
	_, err = svc.OverrideStatus(ctx, user.Identity{ID: "m2", Role: user.RoleManager},
		attendance.OverrideStatusRequest{AttendanceID: created.ID, Status: "absent"})
	assert.ErrorIs(t, err, attendance.ErrNotAuthorized)

	// Admin may touch any record.
	att, err = svc.OverrideStatus(ctx, user.Identity{ID: "a1", Role: user.RoleAdmin},
		attendance.OverrideStatusRequest{AttendanceID: created.ID, Status: "absent"})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusAbsent, att.Status)
}

func TestOverrideStatus_InvalidStatus(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService(newFakeAttendanceRepo(), time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC))

	_, err := svc.OverrideStatus(context.Background(), user.Identity{ID: "a1", Role: user.RoleAdmin},
		attendance.OverrideStatusRequest{AttendanceID: "att-1", Status: "vacationing"})
	assert.ErrorIs(t, err, attendance.ErrInvalidStatus)
}

func TestOverrideStatus_SurvivesUntilNextCheckOut(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newFakeAttendanceRepo()
	svc, users := newTestService(repo, time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC))
	users.setManager("u1", strPtr("m1"))
	caller := user.Identity{ID: "u1", Role: user.RoleUser, ManagerID: strPtr("m1")}

	created, err := svc.CheckIn(ctx, caller)
	require.NoError(t, err)

	_, err = svc.OverrideStatus(ctx, user.Identity{ID: "a1", Role: user.RoleAdmin},
		attendance.OverrideStatusRequest{AttendanceID: created.ID, Status: "late"})
	require.NoError(t, err)

	// The next check-out rederives the status from worked time.
	svc.now = func() time.Time { return time.Date(2026, 3, 9, 18, 0, 0, 0, time.UTC) }
	att, err := svc.CheckOut(ctx, caller)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, att.Status)
}
