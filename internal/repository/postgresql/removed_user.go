package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/authsphere/authsphere-backend-go/internal/domain/user"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type removedUserRepository struct {
	db *database.DB
}

func NewRemovedUserRepository(db *database.DB) user.RemovedRepository {
	return &removedUserRepository{db: db}
}

const removedUserColumns = `
	r.id, r.original_user_id, r.name, r.email, r.password_hash, r.role, r.manager_id,
	r.deleted_at, r.deleted_by, r.deletion_reason,
	r.original_joined_at, r.was_email_verified
`

func scanRemovedUser(row pgx.Row) (user.RemovedUser, error) {
	var ru user.RemovedUser
	err := row.Scan(
		&ru.ID, &ru.OriginalUserID, &ru.Name, &ru.Email, &ru.PasswordHash, &ru.Role, &ru.ManagerID,
		&ru.DeletedAt, &ru.DeletedBy, &ru.DeletionReason,
		&ru.OriginalJoinedAt, &ru.WasEmailVerified,
		&ru.DeletedByName,
	)
	return ru, err
}

// Create implements user.RemovedRepository.
func (r *removedUserRepository) Create(ctx context.Context, ru user.RemovedUser) (user.RemovedUser, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO removed_users (
			original_user_id, name, email, password_hash, role, manager_id,
			deleted_by, deletion_reason, original_joined_at, was_email_verified
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		) RETURNING id, deleted_at
	`

	err := q.QueryRow(ctx, query,
		ru.OriginalUserID,
		ru.Name,
		ru.Email,
		ru.PasswordHash,
		ru.Role,
		ru.ManagerID,
		ru.DeletedBy,
		ru.DeletionReason,
		ru.OriginalJoinedAt,
		ru.WasEmailVerified,
	).Scan(&ru.ID, &ru.DeletedAt)

	if err != nil {
		return user.RemovedUser{}, fmt.Errorf("failed to archive removed user: %w", err)
	}

	return ru, nil
}

// GetByID implements user.RemovedRepository.
func (r *removedUserRepository) GetByID(ctx context.Context, id string) (user.RemovedUser, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + removedUserColumns + `, d.name AS deleted_by_name
		FROM removed_users r
		LEFT JOIN users d ON d.id = r.deleted_by
		WHERE r.id = $1
	`

	ru, err := scanRemovedUser(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.RemovedUser{}, user.ErrRemovedUserNotFound
		}
		return user.RemovedUser{}, fmt.Errorf("failed to get removed user: %w", err)
	}

	return ru, nil
}

// List implements user.RemovedRepository.
func (r *removedUserRepository) List(ctx context.Context) ([]user.RemovedUser, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + removedUserColumns + `, d.name AS deleted_by_name
		FROM removed_users r
		LEFT JOIN users d ON d.id = r.deleted_by
		ORDER BY r.deleted_at DESC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list removed users: %w", err)
	}
	defer rows.Close()

	removed := make([]user.RemovedUser, 0)
	for rows.Next() {
		ru, err := scanRemovedUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan removed user: %w", err)
		}
		removed = append(removed, ru)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate removed users: %w", err)
	}

	return removed, nil
}

// Delete implements user.RemovedRepository.
func (r *removedUserRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM removed_users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete removed user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrRemovedUserNotFound
	}

	return nil
}
