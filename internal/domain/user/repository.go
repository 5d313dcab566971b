package user

import (
	"context"
)

// Repository defines data access for active accounts.
type Repository interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByVerificationToken(ctx context.Context, token string) (*User, error)
	List(ctx context.Context) ([]User, error)
	ListByManager(ctx context.Context, managerID string) ([]User, error)
	Update(ctx context.Context, u User) (User, error)
	Delete(ctx context.Context, id string) error
	PurgeExpiredVerificationTokens(ctx context.Context) (int64, error)
}

// RemovedRepository defines data access for the soft-delete archive.
type RemovedRepository interface {
	Create(ctx context.Context, ru RemovedUser) (RemovedUser, error)
	GetByID(ctx context.Context, id string) (RemovedUser, error)
	List(ctx context.Context) ([]RemovedUser, error)
	Delete(ctx context.Context, id string) error
}

// LoginHistoryRepository records and reads sign-in events.
type LoginHistoryRepository interface {
	Create(ctx context.Context, h LoginHistory) error
	ListByUser(ctx context.Context, userID string, limit int) ([]LoginHistory, error)
}
