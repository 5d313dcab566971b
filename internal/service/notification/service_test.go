package notification

import (
	"log/slog"
	"testing"
	"time"

	"github.com/authsphere/authsphere-backend-go/internal/domain/notification"
	"github.com/authsphere/authsphere-backend-go/internal/domain/task"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func drain(t *testing.T, ch chan sse.Event) []sse.Event {
	t.Helper()
	var events []sse.Event
	for {
		select {
		case ev := <-ch:
			events = append(events, ev)
		case <-time.After(50 * time.Millisecond):
			return events
		}
	}
}

func TestTaskCreated_FansOutToDistinctStakeholders(t *testing.T) {
	t.Parallel()
	hub := sse.NewHub()
	pub := NewSSEPublisher(hub, slog.Default())

	creatorCh, cleanupCreator := hub.Subscribe("mgr1")
	defer cleanupCreator()
	assigneeCh, cleanupAssignee := hub.Subscribe("emp1")
	defer cleanupAssignee()
	bystanderCh, cleanupBystander := hub.Subscribe("emp2")
	defer cleanupBystander()

	pub.TaskCreated(task.Task{
		ID:                "task-1",
		CreatedBy:         "mgr1",
		AssignedTo:        strPtr("emp1"),
		AssignedByManager: strPtr("mgr1"),
	})

	creatorEvents := drain(t, creatorCh)
	require.Len(t, creatorEvents, 1)
	assert.Equal(t, notification.EventTaskCreated, creatorEvents[0].Name)

	assert.Len(t, drain(t, assigneeCh), 1)
	assert.Empty(t, drain(t, bystanderCh))
}

func TestTaskCreated_DeduplicatesRecipients(t *testing.T) {
	t.Parallel()
	hub := sse.NewHub()
	pub := NewSSEPublisher(hub, slog.Default())

	ch, cleanup := hub.Subscribe("mgr1")
	defer cleanup()

	// Creator and assigning manager are the same person; they get one event,
	// not two.
	pub.TaskCreated(task.Task{
		ID:                "task-1",
		CreatedBy:         "mgr1",
		AssignedTo:        strPtr("emp1"),
		AssignedByManager: strPtr("mgr1"),
	})

	assert.Len(t, drain(t, ch), 1)
}

func TestTaskDeleted_CarriesOnlyID(t *testing.T) {
	t.Parallel()
	hub := sse.NewHub()
	pub := NewSSEPublisher(hub, slog.Default())

	ch, cleanup := hub.Subscribe("u1")
	defer cleanup()

	pub.TaskDeleted(task.Task{ID: "task-9", CreatedBy: "u1"})

	events := drain(t, ch)
	require.Len(t, events, 1)
	assert.Equal(t, notification.EventTaskDeleted, events[0].Name)
	assert.Equal(t, notification.TaskDeletedPayload{ID: "task-9"}, events[0].Payload)
}

func TestManagerAssignmentsUpdated_NotifiesBothManagers(t *testing.T) {
	t.Parallel()
	hub := sse.NewHub()
	pub := NewSSEPublisher(hub, slog.Default())

	oldCh, cleanupOld := hub.Subscribe("mgr-old")
	defer cleanupOld()
	newCh, cleanupNew := hub.Subscribe("mgr-new")
	defer cleanupNew()

	pub.ManagerAssignmentsUpdated("emp1", strPtr("mgr-old"), strPtr("mgr-new"))

	oldEvents := drain(t, oldCh)
	require.Len(t, oldEvents, 1)
	assert.Equal(t, notification.EventManagerAssignmentsUpdated, oldEvents[0].Name)
	assert.Len(t, drain(t, newCh), 1)
}

func TestManagerAssignmentsUpdated_UnassignOnlyNotifiesPrevious(t *testing.T) {
	t.Parallel()
	hub := sse.NewHub()
	pub := NewSSEPublisher(hub, slog.Default())

	oldCh, cleanupOld := hub.Subscribe("mgr-old")
	defer cleanupOld()
	otherCh, cleanupOther := hub.Subscribe("mgr-other")
	defer cleanupOther()

	pub.ManagerAssignmentsUpdated("emp1", strPtr("mgr-old"), nil)

	assert.Len(t, drain(t, oldCh), 1)
	assert.Empty(t, drain(t, otherCh))
}
