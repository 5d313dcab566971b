package task

import (
	"time"
)

// Status is a task's place in its lifecycle:
// pending -> in-progress <-> on-hold -> completed, with pending -> completed
// also allowed. completed is terminal in practice but transitions are not
// forcibly one-way; the assignee drives them.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusOnHold     Status = "on-hold"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusOnHold, StatusCompleted:
		return true
	}
	return false
}

// Priority orders tasks in the dashboard.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Reply is the assignee's submitted answer on a task that requires one.
type Reply struct {
	Text        string
	ImageURL    *string
	PDFURL      *string
	SubmittedAt time.Time
	SubmittedBy string
}

// Task is a unit of work. Self-tasks have no assignee; assigned tasks carry
// both AssignedTo and AssignedByManager. Done mirrors Status == completed on
// every write. HoldReason is non-empty exactly while Status == on-hold.
type Task struct {
	ID                string
	Title             string
	Description       string
	CreatedBy         string
	AssignedTo        *string
	AssignedByManager *string
	DueDate           *time.Time
	Priority          Priority
	Status            Status
	HoldReason        string
	NeedsReply        bool
	Replied           bool
	Reply             *Reply
	Done              bool
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// DTO / join
	CreatedByName  *string
	AssignedToName *string
}

// IsCreator reports whether id created the task.
func (t *Task) IsCreator(id string) bool {
	return t.CreatedBy == id
}

// IsAssignee reports whether id is the task's assignee.
func (t *Task) IsAssignee(id string) bool {
	return t.AssignedTo != nil && *t.AssignedTo == id
}

// CanBeViewedBy reports whether id may read the task: creator or assignee.
func (t *Task) CanBeViewedBy(id string) bool {
	return t.IsCreator(id) || t.IsAssignee(id)
}
