package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/authsphere/authsphere-backend-go/internal/domain/task"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type taskRepository struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) task.Repository {
	return &taskRepository{db: db}
}

const taskColumns = `
	t.id, t.title, t.description, t.created_by, t.assigned_to, t.assigned_by_manager,
	t.due_date, t.priority, t.status, t.hold_reason,
	t.needs_reply, t.replied,
	t.reply_text, t.reply_image_url, t.reply_pdf_url, t.reply_submitted_at, t.reply_submitted_by,
	t.done, t.created_at, t.updated_at,
	c.name, a.name
`

const taskJoins = `
	FROM tasks t
	JOIN users c ON c.id = t.created_by
	LEFT JOIN users a ON a.id = t.assigned_to
`

func scanTask(row pgx.Row) (task.Task, error) {
	var t task.Task
	var replyText *string
	var replyImageURL, replyPDFURL *string
	var replySubmittedAt *time.Time
	var replySubmittedBy *string

	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.CreatedBy, &t.AssignedTo, &t.AssignedByManager,
		&t.DueDate, &t.Priority, &t.Status, &t.HoldReason,
		&t.NeedsReply, &t.Replied,
		&replyText, &replyImageURL, &replyPDFURL, &replySubmittedAt, &replySubmittedBy,
		&t.Done, &t.CreatedAt, &t.UpdatedAt,
		&t.CreatedByName, &t.AssignedToName,
	)
	if err != nil {
		return task.Task{}, err
	}

	if replyText != nil && replySubmittedAt != nil && replySubmittedBy != nil {
		t.Reply = &task.Reply{
			Text:        *replyText,
			ImageURL:    replyImageURL,
			PDFURL:      replyPDFURL,
			SubmittedAt: *replySubmittedAt,
			SubmittedBy: *replySubmittedBy,
		}
	}

	return t, nil
}

// Create implements task.Repository.
func (r *taskRepository) Create(ctx context.Context, t task.Task) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO tasks (
			title, description, created_by, assigned_to, assigned_by_manager,
			due_date, priority, status, hold_reason, needs_reply, replied, done
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		t.Title,
		t.Description,
		t.CreatedBy,
		t.AssignedTo,
		t.AssignedByManager,
		t.DueDate,
		t.Priority,
		t.Status,
		t.HoldReason,
		t.NeedsReply,
		t.Replied,
		t.Done,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)

	if err != nil {
		return task.Task{}, fmt.Errorf("failed to create task: %w", err)
	}

	return t, nil
}

// GetByID implements task.Repository.
func (r *taskRepository) GetByID(ctx context.Context, id string) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + taskColumns + taskJoins + ` WHERE t.id = $1`

	t, err := scanTask(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrTaskNotFound
		}
		return task.Task{}, fmt.Errorf("failed to get task by id: %w", err)
	}

	return t, nil
}

// Update implements task.Repository. Every column of the mutable state is
// written as an absolute value, so concurrent writers serialize at the row
// with last-write-wins.
func (r *taskRepository) Update(ctx context.Context, t task.Task) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	var replyText, replyImageURL, replyPDFURL, replySubmittedBy *string
	var replySubmittedAt interface{}
	if t.Reply != nil {
		replyText = &t.Reply.Text
		replyImageURL = t.Reply.ImageURL
		replyPDFURL = t.Reply.PDFURL
		replySubmittedAt = t.Reply.SubmittedAt
		replySubmittedBy = &t.Reply.SubmittedBy
	}

	query := `
		UPDATE tasks
		SET status = $1,
			hold_reason = $2,
			done = $3,
			replied = $4,
			reply_text = $5,
			reply_image_url = $6,
			reply_pdf_url = $7,
			reply_submitted_at = $8,
			reply_submitted_by = $9,
			updated_at = NOW()
		WHERE id = $10
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		t.Status,
		t.HoldReason,
		t.Done,
		t.Replied,
		replyText,
		replyImageURL,
		replyPDFURL,
		replySubmittedAt,
		replySubmittedBy,
		t.ID,
	).Scan(&t.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.Task{}, task.ErrTaskNotFound
		}
		return task.Task{}, fmt.Errorf("failed to update task: %w", err)
	}

	return t, nil
}

// Delete implements task.Repository.
func (r *taskRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) queryList(ctx context.Context, query string, args ...interface{}) ([]task.Task, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var result []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		result = append(result, t)
	}

	return result, rows.Err()
}

// ListForUser implements task.Repository.
func (r *taskRepository) ListForUser(ctx context.Context, userID string) ([]task.Task, error) {
	query := `
		SELECT ` + taskColumns + taskJoins + `
		WHERE t.created_by = $1 OR t.assigned_to = $1
		ORDER BY t.created_at DESC
	`
	return r.queryList(ctx, query, userID)
}

// ListAssignedByManager implements task.Repository.
func (r *taskRepository) ListAssignedByManager(ctx context.Context, managerID string) ([]task.Task, error) {
	query := `
		SELECT ` + taskColumns + taskJoins + `
		WHERE t.assigned_by_manager = $1
		ORDER BY t.created_at DESC
	`
	return r.queryList(ctx, query, managerID)
}
