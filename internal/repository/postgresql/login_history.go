package postgresql

import (
	"context"
	"fmt"

	"github.com/authsphere/authsphere-backend-go/internal/domain/user"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/database"
)

type loginHistoryRepository struct {
	db *database.DB
}

func NewLoginHistoryRepository(db *database.DB) user.LoginHistoryRepository {
	return &loginHistoryRepository{db: db}
}

// Create implements user.LoginHistoryRepository.
func (r *loginHistoryRepository) Create(ctx context.Context, h user.LoginHistory) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO login_histories (user_id, logged_at, ip_address, user_agent)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := q.Exec(ctx, query, h.UserID, h.LoggedAt, h.IPAddress, h.UserAgent); err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}

	return nil
}

// ListByUser implements user.LoginHistoryRepository.
func (r *loginHistoryRepository) ListByUser(ctx context.Context, userID string, limit int) ([]user.LoginHistory, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, logged_at, ip_address, user_agent
		FROM login_histories
		WHERE user_id = $1
		ORDER BY logged_at DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list login history: %w", err)
	}
	defer rows.Close()

	histories := make([]user.LoginHistory, 0)
	for rows.Next() {
		var h user.LoginHistory
		if err := rows.Scan(&h.ID, &h.UserID, &h.LoggedAt, &h.IPAddress, &h.UserAgent); err != nil {
			return nil, fmt.Errorf("failed to scan login history: %w", err)
		}
		histories = append(histories, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate login history: %w", err)
	}

	return histories, nil
}
