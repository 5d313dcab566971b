package task

import (
	"context"
	"fmt"
	"time"

	"github.com/authsphere/authsphere-backend-go/internal/domain/notification"
	"github.com/authsphere/authsphere-backend-go/internal/domain/task"
	"github.com/authsphere/authsphere-backend-go/internal/domain/user"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/validator"
)

type TaskServiceImpl struct {
	repo      task.Repository
	userRepo  user.Repository
	publisher notification.Publisher

	now func() time.Time
}

func NewTaskService(repo task.Repository, userRepo user.Repository, publisher notification.Publisher) *TaskServiceImpl {
	return &TaskServiceImpl{
		repo:      repo,
		userRepo:  userRepo,
		publisher: publisher,
		now:       time.Now,
	}
}

func buildTask(creatorID string, req task.CreateRequest) task.Task {
	t := task.Task{
		Title:       req.Title,
		Description: req.Description,
		CreatedBy:   creatorID,
		Priority:    task.PriorityMedium,
		Status:      task.StatusPending,
		NeedsReply:  req.NeedsReply,
	}

	if req.Priority != "" {
		t.Priority = task.Priority(req.Priority)
	}
	if req.DueDate != nil {
		if due, ok := validator.ParseDateTime(*req.DueDate); ok {
			t.DueDate = &due
		}
	}

	return t
}

// Create implements task.Service. Self-tasks carry no assignee and no
// assigning manager; the creator drives their lifecycle.
func (s *TaskServiceImpl) Create(ctx context.Context, caller user.Identity, req task.CreateRequest) (task.Task, error) {
	if err := req.Validate(); err != nil {
		return task.Task{}, err
	}

	created, err := s.repo.Create(ctx, buildTask(caller.ID, req))
	if err != nil {
		return task.Task{}, err
	}

	s.publisher.TaskCreated(created)

	return created, nil
}

// Assign implements task.Service. Managers may only hand tasks to their own
// reports; admins may assign to anyone.
func (s *TaskServiceImpl) Assign(ctx context.Context, caller user.Identity, req task.AssignRequest) (task.Task, error) {
	if err := req.Validate(); err != nil {
		return task.Task{}, err
	}

	if !caller.CanAssignTasks() {
		return task.Task{}, task.ErrAssignmentDenied
	}

	target, err := s.userRepo.GetByID(ctx, req.AssignedTo)
	if err != nil {
		return task.Task{}, err
	}

	if !caller.IsAdmin() && !caller.IsManagerOf(target.ManagerID) {
		return task.Task{}, task.ErrNotInYourTeam
	}

	t := buildTask(caller.ID, req.CreateRequest)
	t.AssignedTo = &target.ID
	t.AssignedByManager = &caller.ID

	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return task.Task{}, err
	}

	s.publisher.TaskCreated(created)

	return created, nil
}

// canAct reports whether the caller drives the task's lifecycle: the
// assignee on assigned tasks, the creator on self-tasks.
func canAct(t task.Task, caller user.Identity) bool {
	if t.AssignedTo == nil {
		return t.IsCreator(caller.ID)
	}
	return t.IsAssignee(caller.ID)
}

// SetStatus implements task.Service.
func (s *TaskServiceImpl) SetStatus(ctx context.Context, caller user.Identity, taskID string, req task.SetStatusRequest) (task.Task, error) {
	status := task.Status(req.Status)
	if !status.Valid() {
		return task.Task{}, task.ErrInvalidStatus
	}

	t, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return task.Task{}, err
	}

	if !canAct(t, caller) {
		return task.Task{}, task.ErrNotAssignee
	}

	switch status {
	case task.StatusOnHold:
		if validator.IsEmpty(req.HoldReason) {
			return task.Task{}, task.ErrHoldReasonRequired
		}
		t.HoldReason = req.HoldReason
	case task.StatusCompleted:
		if t.NeedsReply && !t.Replied {
			return task.Task{}, task.ErrReplyRequired
		}
		t.HoldReason = ""
	default:
		t.HoldReason = ""
	}

	t.Status = status
	t.Done = status == task.StatusCompleted

	updated, err := s.repo.Update(ctx, t)
	if err != nil {
		return task.Task{}, err
	}

	s.publisher.TaskUpdated(updated)

	return updated, nil
}

// Complete implements task.Service.
func (s *TaskServiceImpl) Complete(ctx context.Context, caller user.Identity, taskID string) (task.Task, error) {
	return s.SetStatus(ctx, caller, taskID, task.SetStatusRequest{Status: string(task.StatusCompleted)})
}

// SubmitReply implements task.Service. Storing a reply never moves the
// status; the assignee completes the task separately.
func (s *TaskServiceImpl) SubmitReply(ctx context.Context, caller user.Identity, taskID string, req task.ReplyRequest) (task.Task, error) {
	if validator.IsEmpty(req.Text) {
		return task.Task{}, task.ErrReplyTextRequired
	}

	t, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return task.Task{}, err
	}

	if !canAct(t, caller) {
		return task.Task{}, task.ErrNotAssignee
	}

	t.Reply = &task.Reply{
		Text:        req.Text,
		ImageURL:    req.ImageURL,
		PDFURL:      req.PDFURL,
		SubmittedAt: s.now().UTC(),
		SubmittedBy: caller.ID,
	}
	t.Replied = true

	updated, err := s.repo.Update(ctx, t)
	if err != nil {
		return task.Task{}, err
	}

	s.publisher.TaskUpdated(updated)

	return updated, nil
}

// Delete implements task.Service. Ownership is strict: even an admin cannot
// delete a task someone else created.
func (s *TaskServiceImpl) Delete(ctx context.Context, caller user.Identity, taskID string) error {
	t, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return err
	}

	if !t.IsCreator(caller.ID) {
		return task.ErrNotCreator
	}

	if err := s.repo.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.publisher.TaskDeleted(t)

	return nil
}

// Get implements task.Service.
func (s *TaskServiceImpl) Get(ctx context.Context, caller user.Identity, taskID string) (task.Task, error) {
	t, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return task.Task{}, err
	}

	if !t.CanBeViewedBy(caller.ID) {
		return task.Task{}, task.ErrNotAuthorized
	}

	return t, nil
}

// ListForUser implements task.Service.
func (s *TaskServiceImpl) ListForUser(ctx context.Context, caller user.Identity) ([]task.Task, error) {
	return s.repo.ListForUser(ctx, caller.ID)
}

// ListAssignedByManager implements task.Service.
func (s *TaskServiceImpl) ListAssignedByManager(ctx context.Context, caller user.Identity) ([]task.Task, error) {
	if !caller.CanViewTeam() {
		return nil, task.ErrNotAuthorized
	}
	return s.repo.ListAssignedByManager(ctx, caller.ID)
}
