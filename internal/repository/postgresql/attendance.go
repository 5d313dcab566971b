package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/authsphere/authsphere-backend-go/internal/domain/attendance"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, user_id, manager_id, date, check_in, check_out,
	hours_worked_seconds, hours_worked_formatted, status, notes,
	created_at, updated_at
`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.UserID, &att.ManagerID, &att.Date, &att.CheckIn, &att.CheckOut,
		&att.HoursWorkedSeconds, &att.HoursWorkedFormatted, &att.Status, &att.Notes,
		&att.CreatedAt, &att.UpdatedAt,
	)
	return att, err
}

// Create implements attendance.Repository. The unique index on
// (user_id, date) is what enforces one record per user per day: a concurrent
// duplicate insert loses with ErrAlreadyCheckedIn instead of creating a
// second record.
func (a *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			user_id, manager_id, date, check_in, check_out,
			hours_worked_seconds, hours_worked_formatted, status, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		att.UserID,
		att.ManagerID,
		att.Date,
		att.CheckIn,
		att.CheckOut,
		att.HoursWorkedSeconds,
		att.HoursWorkedFormatted,
		att.Status,
		att.Notes,
	).Scan(&att.ID, &att.CreatedAt, &att.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return att, nil
}

// GetByID implements attendance.Repository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE id = $1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrRecordNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by id: %w", err)
	}

	return att, nil
}

// GetByUserAndDate implements attendance.Repository.
func (a *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE user_id = $1
		  AND date = $2
		LIMIT 1
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // no record for that day
		}
		return nil, fmt.Errorf("failed to get attendance by user and date: %w", err)
	}

	return &att, nil
}

// Update implements attendance.Repository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET check_in = $1,
			check_out = $2,
			hours_worked_seconds = $3,
			hours_worked_formatted = $4,
			status = $5,
			notes = $6,
			manager_id = $7,
			updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		att.CheckIn,
		att.CheckOut,
		att.HoursWorkedSeconds,
		att.HoursWorkedFormatted,
		att.Status,
		att.Notes,
		att.ManagerID,
		att.ID,
	).Scan(&att.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrRecordNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	return att, nil
}

func (a *attendanceRepository) queryList(ctx context.Context, query string, args ...interface{}) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	var result []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		err := rows.Scan(
			&att.ID, &att.UserID, &att.ManagerID, &att.Date, &att.CheckIn, &att.CheckOut,
			&att.HoursWorkedSeconds, &att.HoursWorkedFormatted, &att.Status, &att.Notes,
			&att.CreatedAt, &att.UpdatedAt,
			&att.UserName, &att.UserEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance row: %w", err)
		}
		result = append(result, att)
	}

	return result, rows.Err()
}

const attendanceJoinedColumns = `
	a.id, a.user_id, a.manager_id, a.date, a.check_in, a.check_out,
	a.hours_worked_seconds, a.hours_worked_formatted, a.status, a.notes,
	a.created_at, a.updated_at,
	u.name, u.email
`

// ListByUser implements attendance.Repository.
func (a *attendanceRepository) ListByUser(ctx context.Context, userID string, limit int) ([]attendance.Attendance, error) {
	query := `
		SELECT ` + attendanceJoinedColumns + `
		FROM attendances a
		JOIN users u ON u.id = a.user_id
		WHERE a.user_id = $1
		ORDER BY a.date DESC
		LIMIT $2
	`
	return a.queryList(ctx, query, userID, limit)
}

// ListByManager implements attendance.Repository.
func (a *attendanceRepository) ListByManager(ctx context.Context, managerID string) ([]attendance.Attendance, error) {
	query := `
		SELECT ` + attendanceJoinedColumns + `
		FROM attendances a
		JOIN users u ON u.id = a.user_id
		WHERE a.manager_id = $1
		ORDER BY a.date DESC
	`
	return a.queryList(ctx, query, managerID)
}

// ListAll implements attendance.Repository.
func (a *attendanceRepository) ListAll(ctx context.Context) ([]attendance.Attendance, error) {
	query := `
		SELECT ` + attendanceJoinedColumns + `
		FROM attendances a
		JOIN users u ON u.id = a.user_id
		ORDER BY a.date DESC
	`
	return a.queryList(ctx, query)
}

// UpdateManagerForUser implements attendance.Repository.
func (a *attendanceRepository) UpdateManagerForUser(ctx context.Context, userID string, managerID *string) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances
		SET manager_id = $1, updated_at = NOW()
		WHERE user_id = $2
	`

	if _, err := q.Exec(ctx, query, managerID, userID); err != nil {
		return fmt.Errorf("failed to backfill manager on attendances: %w", err)
	}
	return nil
}

// ListOpenBefore implements attendance.Repository.
func (a *attendanceRepository) ListOpenBefore(ctx context.Context, cutoff time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE check_in IS NOT NULL
		  AND check_out IS NULL
		  AND date < $1
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query open attendances: %w", err)
	}
	defer rows.Close()

	var result []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		err := rows.Scan(
			&att.ID, &att.UserID, &att.ManagerID, &att.Date, &att.CheckIn, &att.CheckOut,
			&att.HoursWorkedSeconds, &att.HoursWorkedFormatted, &att.Status, &att.Notes,
			&att.CreatedAt, &att.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance row: %w", err)
		}
		result = append(result, att)
	}

	return result, rows.Err()
}
