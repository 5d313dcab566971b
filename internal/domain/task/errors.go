package task

import "errors"

// Task domain errors. Each operation surfaces the specific kind; the
// transport layer maps them to status codes.
var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrNotAssignee        = errors.New("only the assigned user can perform this action")
	ErrNotCreator         = errors.New("only the task creator can delete it")
	ErrNotAuthorized      = errors.New("not authorized to view this task")
	ErrInvalidStatus      = errors.New("invalid task status")
	ErrHoldReasonRequired = errors.New("hold reason is required when putting a task on hold")
	ErrReplyRequired      = errors.New("a reply must be submitted before completing this task")
	ErrReplyTextRequired  = errors.New("reply text is required")
	ErrAssigneeRequired   = errors.New("an assignee is required")
	ErrNotInYourTeam      = errors.New("user is not in your team")
	ErrAssignmentDenied   = errors.New("only managers can assign tasks")
)
