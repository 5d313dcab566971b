package user

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/authsphere/authsphere-backend-go/internal/domain/attendance"
	"github.com/authsphere/authsphere-backend-go/internal/domain/task"
	"github.com/authsphere/authsphere-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users  map[string]user.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]user.User)}
}

func (f *fakeUserRepo) add(u user.User) user.User {
	f.nextID++
	if u.ID == "" {
		u.ID = fmt.Sprintf("user-%d", f.nextID)
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return user.User{}, user.ErrEmailExists
		}
	}
	return f.add(u), nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByVerificationToken(ctx context.Context, token string) (*user.User, error) {
	for _, u := range f.users {
		if u.EmailVerificationToken != nil && *u.EmailVerificationToken == token {
			copied := u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) List(ctx context.Context) ([]user.User, error) {
	out := make([]user.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) ListByManager(ctx context.Context, managerID string) ([]user.User, error) {
	var out []user.User
	for _, u := range f.users {
		if u.ManagerID != nil && *u.ManagerID == managerID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u user.User) (user.User, error) {
	if _, ok := f.users[u.ID]; !ok {
		return user.User{}, user.ErrUserNotFound
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) PurgeExpiredVerificationTokens(ctx context.Context) (int64, error) {
	return 0, nil
}

type fakeRemovedRepo struct {
	removed map[string]user.RemovedUser
	nextID  int
}

func newFakeRemovedRepo() *fakeRemovedRepo {
	return &fakeRemovedRepo{removed: make(map[string]user.RemovedUser)}
}

func (f *fakeRemovedRepo) Create(ctx context.Context, ru user.RemovedUser) (user.RemovedUser, error) {
	f.nextID++
	ru.ID = fmt.Sprintf("removed-%d", f.nextID)
	ru.DeletedAt = time.Now().UTC()
	f.removed[ru.ID] = ru
	return ru, nil
}

func (f *fakeRemovedRepo) GetByID(ctx context.Context, id string) (user.RemovedUser, error) {
	ru, ok := f.removed[id]
	if !ok {
		return user.RemovedUser{}, user.ErrRemovedUserNotFound
	}
	return ru, nil
}

func (f *fakeRemovedRepo) List(ctx context.Context) ([]user.RemovedUser, error) {
	out := make([]user.RemovedUser, 0, len(f.removed))
	for _, ru := range f.removed {
		out = append(out, ru)
	}
	return out, nil
}

func (f *fakeRemovedRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.removed[id]; !ok {
		return user.ErrRemovedUserNotFound
	}
	delete(f.removed, id)
	return nil
}

type fakeLoginRepo struct {
	entries []user.LoginHistory
}

func (f *fakeLoginRepo) Create(ctx context.Context, h user.LoginHistory) error {
	f.entries = append(f.entries, h)
	return nil
}

func (f *fakeLoginRepo) ListByUser(ctx context.Context, userID string, limit int) ([]user.LoginHistory, error) {
	var out []user.LoginHistory
	for _, h := range f.entries {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// fakeAttendanceRepo only tracks the manager backfill; the remaining methods
// exist to satisfy the interface.
type fakeAttendanceRepo struct {
	managerByUser map[string]*string
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{managerByUser: make(map[string]*string)}
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	return att, nil
}
func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	return attendance.Attendance{}, attendance.ErrRecordNotFound
}
func (f *fakeAttendanceRepo) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	return nil, nil
}
func (f *fakeAttendanceRepo) Update(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	return att, nil
}
func (f *fakeAttendanceRepo) ListByUser(ctx context.Context, userID string, limit int) ([]attendance.Attendance, error) {
	return nil, nil
}
func (f *fakeAttendanceRepo) ListByManager(ctx context.Context, managerID string) ([]attendance.Attendance, error) {
	return nil, nil
}
func (f *fakeAttendanceRepo) ListAll(ctx context.Context) ([]attendance.Attendance, error) {
	return nil, nil
}
func (f *fakeAttendanceRepo) UpdateManagerForUser(ctx context.Context, userID string, managerID *string) error {
	f.managerByUser[userID] = managerID
	return nil
}
func (f *fakeAttendanceRepo) ListOpenBefore(ctx context.Context, cutoff time.Time) ([]attendance.Attendance, error) {
	return nil, nil
}

type reassignment struct {
	userID     string
	prev, next *string
}

// notificationSpy implements notification.Publisher; only manager
// reassignments matter to these tests.
type notificationSpy struct {
	reassignments []reassignment
}

func (f *notificationSpy) TaskCreated(task.Task) {}
func (f *notificationSpy) TaskUpdated(task.Task) {}
func (f *notificationSpy) TaskDeleted(task.Task) {}
func (f *notificationSpy) ManagerAssignmentsUpdated(userID string, prev, next *string) {
	f.reassignments = append(f.reassignments, reassignment{userID: userID, prev: prev, next: next})
}

type fakeEmail struct {
	restored []string
}

func (f *fakeEmail) SendVerification(to, name, link, expiresAt string) error { return nil }
func (f *fakeEmail) SendRestoredNotice(to, name string) error {
	f.restored = append(f.restored, to)
	return nil
}

func strPtr(s string) *string { return &s }

type testEnv struct {
	svc     *UserServiceImpl
	users   *fakeUserRepo
	removed *fakeRemovedRepo
	att     *fakeAttendanceRepo
	pub     *notificationSpy
	email   *fakeEmail
}

func newTestEnv() *testEnv {
	users := newFakeUserRepo()
	removed := newFakeRemovedRepo()
	att := newFakeAttendanceRepo()
	pub := &notificationSpy{}
	mail := &fakeEmail{}

	svc := &UserServiceImpl{
		repo:           users,
		removedRepo:    removed,
		loginRepo:      &fakeLoginRepo{},
		attendanceRepo: att,
		publisher:      pub,
		emailService:   mail,
		logger:         slog.Default(),
		tx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
	}

	return &testEnv{svc: svc, users: users, removed: removed, att: att, pub: pub, email: mail}
}

var adminCaller = user.Identity{ID: "admin-1", Role: user.RoleAdmin}

func seedUsers(env *testEnv) (mgr, emp user.User) {
	env.users.add(user.User{ID: "admin-1", Name: "Root", Email: "root@corp.test", Role: user.RoleAdmin, EmailVerified: true})
	mgr = env.users.add(user.User{ID: "mgr-1", Name: "Morgan", Email: "morgan@corp.test", Role: user.RoleManager, EmailVerified: true})
	emp = env.users.add(user.User{ID: "emp-1", Name: "Evan", Email: "evan@corp.test", Role: user.RoleUser, EmailVerified: true})
	return mgr, emp
}

func TestUpdate_ManagerChangeBackfillsAttendance(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	mgr, emp := seedUsers(env)

	updated, err := env.svc.Update(context.Background(), adminCaller, emp.ID, user.UpdateUserRequest{
		ManagerID: strPtr(mgr.ID),
	})
	require.NoError(t, err)

	assert.Equal(t, mgr.ID, *updated.ManagerID)
	require.Contains(t, env.att.managerByUser, emp.ID)
	assert.Equal(t, mgr.ID, *env.att.managerByUser[emp.ID])

	require.Len(t, env.pub.reassignments, 1)
	got := env.pub.reassignments[0]
	assert.Equal(t, emp.ID, got.userID)
	assert.Nil(t, got.prev)
	assert.Equal(t, mgr.ID, *got.next)
}

func TestUpdate_UnassignManager(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	mgr, emp := seedUsers(env)

	_, err := env.svc.Update(context.Background(), adminCaller, emp.ID, user.UpdateUserRequest{ManagerID: strPtr(mgr.ID)})
	require.NoError(t, err)

	updated, err := env.svc.Update(context.Background(), adminCaller, emp.ID, user.UpdateUserRequest{ManagerID: strPtr("")})
	require.NoError(t, err)

	assert.Nil(t, updated.ManagerID)
	assert.Nil(t, env.att.managerByUser[emp.ID])
	require.Len(t, env.pub.reassignments, 2)
}

func TestUpdate_ManagerMustHoldManagerRole(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	_, emp := seedUsers(env)
	other := env.users.add(user.User{ID: "emp-2", Name: "Ola", Email: "ola@corp.test", Role: user.RoleUser})

	_, err := env.svc.Update(context.Background(), adminCaller, emp.ID, user.UpdateUserRequest{
		ManagerID: strPtr(other.ID),
	})
	assert.ErrorIs(t, err, user.ErrInvalidManager)
}

func TestUpdate_GuardRails(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	mgr, emp := seedUsers(env)

	// Non-admin caller.
	_, err := env.svc.Update(context.Background(), user.Identity{ID: mgr.ID, Role: user.RoleManager}, emp.ID, user.UpdateUserRequest{
		Role: strPtr("manager"),
	})
	assert.ErrorIs(t, err, user.ErrAdminOnly)

	// Own role.
	_, err = env.svc.Update(context.Background(), adminCaller, "admin-1", user.UpdateUserRequest{
		Role: strPtr("manager"),
	})
	assert.ErrorIs(t, err, user.ErrCannotModifyAdmin)

	// Role promotion works for others.
	updated, err := env.svc.Update(context.Background(), adminCaller, emp.ID, user.UpdateUserRequest{
		Role: strPtr("manager"),
	})
	require.NoError(t, err)
	assert.Equal(t, user.RoleManager, updated.Role)
}

func TestUpdate_NoManagerChangeSkipsBackfill(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	_, emp := seedUsers(env)

	_, err := env.svc.Update(context.Background(), adminCaller, emp.ID, user.UpdateUserRequest{
		Role: strPtr("manager"),
	})
	require.NoError(t, err)

	assert.NotContains(t, env.att.managerByUser, emp.ID)
	assert.Empty(t, env.pub.reassignments)
}

func TestSoftDelete_ArchivesAndRemoves(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	_, emp := seedUsers(env)

	archived, err := env.svc.SoftDelete(context.Background(), adminCaller, emp.ID, "left the company")
	require.NoError(t, err)

	assert.Equal(t, emp.ID, archived.OriginalUserID)
	assert.Equal(t, emp.Email, archived.Email)
	assert.Equal(t, "left the company", archived.DeletionReason)
	assert.Equal(t, adminCaller.ID, archived.DeletedBy)

	_, err = env.users.GetByID(context.Background(), emp.ID)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestSoftDelete_Guards(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	mgr, emp := seedUsers(env)

	_, err := env.svc.SoftDelete(context.Background(), adminCaller, "admin-1", "oops")
	assert.ErrorIs(t, err, user.ErrSelfDelete)

	otherAdmin := env.users.add(user.User{ID: "admin-2", Name: "Rae", Email: "rae@corp.test", Role: user.RoleAdmin})
	_, err = env.svc.SoftDelete(context.Background(), adminCaller, otherAdmin.ID, "power struggle")
	assert.ErrorIs(t, err, user.ErrCannotDeleteAdmin)

	_, err = env.svc.SoftDelete(context.Background(), user.Identity{ID: mgr.ID, Role: user.RoleManager}, emp.ID, "")
	assert.ErrorIs(t, err, user.ErrAdminOnly)
}

func TestRestore_RoundTrip(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	_, emp := seedUsers(env)

	archived, err := env.svc.SoftDelete(context.Background(), adminCaller, emp.ID, "cleanup")
	require.NoError(t, err)

	restored, err := env.svc.Restore(context.Background(), adminCaller, archived.ID)
	require.NoError(t, err)

	assert.Equal(t, emp.Email, restored.Email)
	assert.Equal(t, emp.Role, restored.Role)
	assert.True(t, restored.EmailVerified)
	assert.Nil(t, restored.ManagerID)
	assert.Contains(t, env.email.restored, emp.Email)

	// The archive entry is gone.
	_, err = env.removed.GetByID(context.Background(), archived.ID)
	assert.ErrorIs(t, err, user.ErrRemovedUserNotFound)
}

func TestRestore_BlockedByActiveEmail(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	_, emp := seedUsers(env)

	archived, err := env.svc.SoftDelete(context.Background(), adminCaller, emp.ID, "cleanup")
	require.NoError(t, err)

	// Someone else registered the email in the meantime.
	env.users.add(user.User{Name: "New Evan", Email: emp.Email, Role: user.RoleUser})

	_, err = env.svc.Restore(context.Background(), adminCaller, archived.ID)
	assert.ErrorIs(t, err, user.ErrEmailAlreadyActive)
}

func TestPermanentDelete(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	_, emp := seedUsers(env)

	archived, err := env.svc.SoftDelete(context.Background(), adminCaller, emp.ID, "cleanup")
	require.NoError(t, err)

	require.NoError(t, env.svc.PermanentDelete(context.Background(), adminCaller, archived.ID))
	assert.ErrorIs(t, env.svc.PermanentDelete(context.Background(), adminCaller, archived.ID), user.ErrRemovedUserNotFound)
}

func TestPermanentDelete_Guards(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	seedUsers(env)

	// An archived admin account stays archived.
	adminRow, err := env.removed.Create(context.Background(), user.RemovedUser{
		OriginalUserID: "old-admin",
		Email:          "old-admin@corp.test",
		Role:           user.RoleAdmin,
	})
	require.NoError(t, err)

	err = env.svc.PermanentDelete(context.Background(), adminCaller, adminRow.ID)
	assert.ErrorIs(t, err, user.ErrCannotDeleteAdmin)

	// The caller cannot purge their own archived account.
	selfRow, err := env.removed.Create(context.Background(), user.RemovedUser{
		OriginalUserID: adminCaller.ID,
		Email:          "root@corp.test",
		Role:           user.RoleUser,
	})
	require.NoError(t, err)

	err = env.svc.PermanentDelete(context.Background(), adminCaller, selfRow.ID)
	assert.ErrorIs(t, err, user.ErrSelfDelete)

	// Both rows survive the rejected calls.
	remaining, err := env.removed.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestTeam_Scoping(t *testing.T) {
	t.Parallel()
	env := newTestEnv()
	mgr, emp := seedUsers(env)

	_, err := env.svc.Update(context.Background(), adminCaller, emp.ID, user.UpdateUserRequest{ManagerID: strPtr(mgr.ID)})
	require.NoError(t, err)

	team, err := env.svc.Team(context.Background(), user.Identity{ID: mgr.ID, Role: user.RoleManager}, "ignored")
	require.NoError(t, err)
	require.Len(t, team, 1)
	assert.Equal(t, emp.ID, team[0].ID)

	_, err = env.svc.Team(context.Background(), user.Identity{ID: emp.ID, Role: user.RoleUser}, "")
	assert.ErrorIs(t, err, user.ErrNotAuthorized)
}
