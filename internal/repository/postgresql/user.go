package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/authsphere/authsphere-backend-go/internal/domain/user"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type userRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.Repository {
	return &userRepository{db: db}
}

const userColumns = `
	u.id, u.name, u.email, u.password_hash, u.role, u.manager_id,
	u.email_verified, u.email_verification_token, u.email_verification_expires_at,
	u.created_at, u.updated_at
`

const userJoinedColumns = userColumns + `,
	m.name AS manager_name, m.email AS manager_email
`

const userJoins = `
	LEFT JOIN users m ON m.id = u.manager_id
`

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.ManagerID,
		&u.EmailVerified, &u.EmailVerificationToken, &u.EmailVerificationExpiresAt,
		&u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func scanJoinedUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.ManagerID,
		&u.EmailVerified, &u.EmailVerificationToken, &u.EmailVerificationExpiresAt,
		&u.CreatedAt, &u.UpdatedAt,
		&u.ManagerName, &u.ManagerEmail,
	)
	return u, err
}

// Create implements user.Repository.
func (r *userRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (
			name, email, password_hash, role, manager_id,
			email_verified, email_verification_token, email_verification_expires_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.Role,
		u.ManagerID,
		u.EmailVerified,
		u.EmailVerificationToken,
		u.EmailVerificationExpiresAt,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return u, nil
}

// GetByID implements user.Repository.
func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userJoinedColumns + ` FROM users u ` + userJoins + ` WHERE u.id = $1`

	u, err := scanJoinedUser(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return u, nil
}

// GetByEmail implements user.Repository. Returns nil without error when no
// account carries the email, so callers can distinguish "absent" from a
// query failure.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users u WHERE u.email = $1`

	u, err := scanUser(q.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &u, nil
}

// GetByVerificationToken implements user.Repository.
func (r *userRepository) GetByVerificationToken(ctx context.Context, token string) (*user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users u WHERE u.email_verification_token = $1`

	u, err := scanUser(q.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by verification token: %w", err)
	}

	return &u, nil
}

// List implements user.Repository.
func (r *userRepository) List(ctx context.Context) ([]user.User, error) {
	query := `SELECT ` + userJoinedColumns + ` FROM users u ` + userJoins + ` ORDER BY u.created_at DESC`
	return r.queryList(ctx, query)
}

// ListByManager implements user.Repository.
func (r *userRepository) ListByManager(ctx context.Context, managerID string) ([]user.User, error) {
	query := `SELECT ` + userJoinedColumns + ` FROM users u ` + userJoins + ` WHERE u.manager_id = $1 ORDER BY u.name ASC`
	return r.queryList(ctx, query, managerID)
}

func (r *userRepository) queryList(ctx context.Context, query string, args ...any) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		u, err := scanJoinedUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// Update implements user.Repository. Writes absolute values; callers load
// the row first and mutate the fields they mean to change.
func (r *userRepository) Update(ctx context.Context, u user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users SET
			name = $2,
			email = $3,
			password_hash = $4,
			role = $5,
			manager_id = $6,
			email_verified = $7,
			email_verification_token = $8,
			email_verification_expires_at = $9,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		u.ID,
		u.Name,
		u.Email,
		u.PasswordHash,
		u.Role,
		u.ManagerID,
		u.EmailVerified,
		u.EmailVerificationToken,
		u.EmailVerificationExpiresAt,
	).Scan(&u.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	return u, nil
}

// Delete implements user.Repository.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

// PurgeExpiredVerificationTokens implements user.Repository. Clears tokens
// past their expiry on accounts that never verified; the accounts themselves
// are kept.
func (r *userRepository) PurgeExpiredVerificationTokens(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users SET
			email_verification_token = NULL,
			email_verification_expires_at = NULL,
			updated_at = NOW()
		WHERE email_verification_token IS NOT NULL
		  AND email_verification_expires_at < NOW()
	`

	tag, err := q.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired verification tokens: %w", err)
	}

	return tag.RowsAffected(), nil
}
