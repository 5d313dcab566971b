package notification

import (
	"log/slog"

	"github.com/authsphere/authsphere-backend-go/internal/domain/notification"
	"github.com/authsphere/authsphere-backend-go/internal/domain/task"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/sse"
)

// SSEPublisher fans domain events out over the SSE hub. Delivery is best
// effort: the hub drops events for slow subscribers and this layer never
// returns an error to the mutating service.
type SSEPublisher struct {
	hub    *sse.Hub
	logger *slog.Logger
}

func NewSSEPublisher(hub *sse.Hub, logger *slog.Logger) *SSEPublisher {
	return &SSEPublisher{hub: hub, logger: logger}
}

// taskRecipients is the distinct, non-empty set of users with a stake in the
// task: its creator, its assignee, and the manager who assigned it.
func taskRecipients(t task.Task) []string {
	seen := make(map[string]struct{}, 3)
	recipients := make([]string, 0, 3)

	add := func(id string) {
		if id == "" {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		recipients = append(recipients, id)
	}

	add(t.CreatedBy)
	if t.AssignedTo != nil {
		add(*t.AssignedTo)
	}
	if t.AssignedByManager != nil {
		add(*t.AssignedByManager)
	}

	return recipients
}

func (p *SSEPublisher) publishTask(name string, t task.Task, payload interface{}) {
	event := sse.Event{Name: name, Payload: payload}

	recipients := taskRecipients(t)
	if len(recipients) == 0 {
		p.hub.Broadcast(event)
		return
	}

	p.hub.PublishToMany(recipients, event)
	p.logger.Debug("published task event",
		slog.String("event", name),
		slog.String("task_id", t.ID),
		slog.Int("recipients", len(recipients)),
	)
}

// TaskCreated implements notification.Publisher.
func (p *SSEPublisher) TaskCreated(t task.Task) {
	p.publishTask(notification.EventTaskCreated, t, task.ToResponse(t))
}

// TaskUpdated implements notification.Publisher.
func (p *SSEPublisher) TaskUpdated(t task.Task) {
	p.publishTask(notification.EventTaskUpdated, t, task.ToResponse(t))
}

// TaskDeleted implements notification.Publisher. Only the identifier goes
// out; the task row is already gone.
func (p *SSEPublisher) TaskDeleted(t task.Task) {
	p.publishTask(notification.EventTaskDeleted, t, notification.TaskDeletedPayload{ID: t.ID})
}

// ManagerAssignmentsUpdated implements notification.Publisher.
func (p *SSEPublisher) ManagerAssignmentsUpdated(userID string, previousManagerID, newManagerID *string) {
	event := sse.Event{
		Name: notification.EventManagerAssignmentsUpdated,
		Payload: notification.ManagerAssignmentPayload{
			UserID:    userID,
			ManagerID: newManagerID,
		},
	}

	recipients := make([]string, 0, 2)
	if previousManagerID != nil {
		recipients = append(recipients, *previousManagerID)
	}
	if newManagerID != nil && (previousManagerID == nil || *newManagerID != *previousManagerID) {
		recipients = append(recipients, *newManagerID)
	}

	if len(recipients) == 0 {
		p.hub.Broadcast(event)
		return
	}

	p.hub.PublishToMany(recipients, event)
}

// NoOpPublisher discards every event. Used in tests and in tools that run
// the services without a connected hub.
type NoOpPublisher struct{}

func (NoOpPublisher) TaskCreated(task.Task)                              {}
func (NoOpPublisher) TaskUpdated(task.Task)                              {}
func (NoOpPublisher) TaskDeleted(task.Task)                              {}
func (NoOpPublisher) ManagerAssignmentsUpdated(string, *string, *string) {}
