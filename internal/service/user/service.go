package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/authsphere/authsphere-backend-go/internal/domain/attendance"
	"github.com/authsphere/authsphere-backend-go/internal/domain/notification"
	"github.com/authsphere/authsphere-backend-go/internal/domain/user"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/database"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/email"
	"github.com/authsphere/authsphere-backend-go/internal/repository/postgresql"
)

const defaultLoginHistoryLimit = 20

type UserServiceImpl struct {
	repo           user.Repository
	removedRepo    user.RemovedRepository
	loginRepo      user.LoginHistoryRepository
	attendanceRepo attendance.Repository
	publisher      notification.Publisher
	emailService   email.Service
	logger         *slog.Logger

	// tx runs fn atomically. Tests swap in a pass-through.
	tx func(ctx context.Context, fn func(ctx context.Context) error) error
}

func NewUserService(
	db *database.DB,
	repo user.Repository,
	removedRepo user.RemovedRepository,
	loginRepo user.LoginHistoryRepository,
	attendanceRepo attendance.Repository,
	publisher notification.Publisher,
	emailService email.Service,
	logger *slog.Logger,
) *UserServiceImpl {
	return &UserServiceImpl{
		repo:           repo,
		removedRepo:    removedRepo,
		loginRepo:      loginRepo,
		attendanceRepo: attendanceRepo,
		publisher:      publisher,
		emailService:   emailService,
		logger:         logger,
		tx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return postgresql.WithTransaction(ctx, db, fn)
		},
	}
}

// List implements user.Service.
func (s *UserServiceImpl) List(ctx context.Context, caller user.Identity) ([]user.User, error) {
	return s.repo.List(ctx)
}

// Team implements user.Service. Managers always get their own reports;
// admins may ask for any manager's team and fall back to the full directory
// when no manager id is given.
func (s *UserServiceImpl) Team(ctx context.Context, caller user.Identity, managerID string) ([]user.User, error) {
	if !caller.CanViewTeam() {
		return nil, user.ErrNotAuthorized
	}

	if caller.Role == user.RoleManager {
		return s.repo.ListByManager(ctx, caller.ID)
	}

	if managerID == "" {
		return s.repo.List(ctx)
	}

	return s.repo.ListByManager(ctx, managerID)
}

// LoginHistoryFor implements user.Service.
func (s *UserServiceImpl) LoginHistoryFor(ctx context.Context, caller user.Identity, userID string) ([]user.LoginHistory, error) {
	if !caller.CanManageUsers() {
		return nil, user.ErrAdminOnly
	}

	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	return s.loginRepo.ListByUser(ctx, userID, defaultLoginHistoryLimit)
}

// resolveManager maps the request field to a manager id: nil leaves the
// assignment untouched, the empty string unassigns, anything else must name
// an active account holding the manager role.
func (s *UserServiceImpl) resolveManager(ctx context.Context, req user.UpdateUserRequest, current *string) (*string, error) {
	if req.ManagerID == nil {
		return current, nil
	}
	if *req.ManagerID == "" {
		return nil, nil
	}

	mgr, err := s.repo.GetByID(ctx, *req.ManagerID)
	if err != nil {
		return nil, user.ErrManagerNotFound
	}
	if mgr.Role != user.RoleManager {
		return nil, user.ErrInvalidManager
	}

	return &mgr.ID, nil
}

// Update implements user.Service. A manager change rewrites the denormalized
// manager id on every attendance record of the user inside the same
// transaction, so team-scoped views never see a half-applied reassignment.
func (s *UserServiceImpl) Update(ctx context.Context, caller user.Identity, targetID string, req user.UpdateUserRequest) (user.User, error) {
	if !caller.CanManageUsers() {
		return user.User{}, user.ErrAdminOnly
	}
	if err := req.Validate(); err != nil {
		return user.User{}, err
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return user.User{}, err
	}
	if target.Role == user.RoleAdmin {
		return user.User{}, user.ErrCannotModifyAdmin
	}

	if req.Role != nil {
		if caller.IsSelf(targetID) {
			return user.User{}, user.ErrSelfRoleChange
		}
		target.Role = user.Role(*req.Role)
	}

	previousManagerID := target.ManagerID
	newManagerID, err := s.resolveManager(ctx, req, target.ManagerID)
	if err != nil {
		return user.User{}, err
	}
	target.ManagerID = newManagerID

	managerChanged := !managerIDEqual(previousManagerID, newManagerID)

	var updated user.User
	err = s.tx(ctx, func(ctx context.Context) error {
		updated, err = s.repo.Update(ctx, target)
		if err != nil {
			return err
		}
		if managerChanged {
			if err := s.attendanceRepo.UpdateManagerForUser(ctx, targetID, newManagerID); err != nil {
				return fmt.Errorf("failed to backfill attendance manager: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return user.User{}, err
	}

	if managerChanged {
		s.publisher.ManagerAssignmentsUpdated(targetID, previousManagerID, newManagerID)
	}

	return updated, nil
}

func managerIDEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// SoftDelete implements user.Service. The account row moves into the archive
// atomically; attendance and task history stay in place under the original
// user id.
func (s *UserServiceImpl) SoftDelete(ctx context.Context, caller user.Identity, targetID string, reason string) (user.RemovedUser, error) {
	if !caller.CanManageUsers() {
		return user.RemovedUser{}, user.ErrAdminOnly
	}
	if caller.IsSelf(targetID) {
		return user.RemovedUser{}, user.ErrSelfDelete
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return user.RemovedUser{}, err
	}
	if target.Role == user.RoleAdmin {
		return user.RemovedUser{}, user.ErrCannotDeleteAdmin
	}

	snapshot := user.RemovedUser{
		OriginalUserID:   target.ID,
		Name:             target.Name,
		Email:            target.Email,
		PasswordHash:     target.PasswordHash,
		Role:             target.Role,
		ManagerID:        target.ManagerID,
		DeletedBy:        caller.ID,
		DeletionReason:   reason,
		OriginalJoinedAt: target.CreatedAt,
		WasEmailVerified: target.EmailVerified,
	}

	var archived user.RemovedUser
	err = s.tx(ctx, func(ctx context.Context) error {
		archived, err = s.removedRepo.Create(ctx, snapshot)
		if err != nil {
			return err
		}
		return s.repo.Delete(ctx, targetID)
	})
	if err != nil {
		return user.RemovedUser{}, err
	}

	s.logger.Info("user soft-deleted",
		slog.String("user_id", targetID),
		slog.String("deleted_by", caller.ID),
	)

	return archived, nil
}

// Restore implements user.Service. The restored account keeps its original
// credentials and verification state but comes back unassigned: its old
// manager may themselves be gone.
func (s *UserServiceImpl) Restore(ctx context.Context, caller user.Identity, removedID string) (user.User, error) {
	if !caller.CanManageUsers() {
		return user.User{}, user.ErrAdminOnly
	}

	ru, err := s.removedRepo.GetByID(ctx, removedID)
	if err != nil {
		return user.User{}, err
	}

	active, err := s.repo.GetByEmail(ctx, ru.Email)
	if err != nil {
		return user.User{}, err
	}
	if active != nil {
		return user.User{}, user.ErrEmailAlreadyActive
	}

	restored := user.User{
		Name:          ru.Name,
		Email:         ru.Email,
		PasswordHash:  ru.PasswordHash,
		Role:          ru.Role,
		EmailVerified: ru.WasEmailVerified,
	}

	err = s.tx(ctx, func(ctx context.Context) error {
		restored, err = s.repo.Create(ctx, restored)
		if err != nil {
			return err
		}
		return s.removedRepo.Delete(ctx, removedID)
	})
	if err != nil {
		return user.User{}, err
	}

	if err := s.emailService.SendRestoredNotice(restored.Email, restored.Name); err != nil {
		s.logger.Warn("failed to send restore notice",
			slog.String("user_id", restored.ID),
			slog.Any("error", err),
		)
	}

	return restored, nil
}

// PermanentDelete implements user.Service.
func (s *UserServiceImpl) PermanentDelete(ctx context.Context, caller user.Identity, removedID string) error {
	if !caller.CanManageUsers() {
		return user.ErrAdminOnly
	}

	ru, err := s.removedRepo.GetByID(ctx, removedID)
	if err != nil {
		return err
	}
	if ru.OriginalUserID == caller.ID {
		return user.ErrSelfDelete
	}
	if ru.Role == user.RoleAdmin {
		return user.ErrCannotDeleteAdmin
	}

	if err := s.removedRepo.Delete(ctx, removedID); err != nil {
		return err
	}

	s.logger.Info("removed user purged",
		slog.String("removed_id", removedID),
		slog.String("deleted_by", caller.ID),
	)

	return nil
}

// ListRemoved implements user.Service.
func (s *UserServiceImpl) ListRemoved(ctx context.Context, caller user.Identity) ([]user.RemovedUser, error) {
	if !caller.CanManageUsers() {
		return nil, user.ErrAdminOnly
	}
	return s.removedRepo.List(ctx)
}
