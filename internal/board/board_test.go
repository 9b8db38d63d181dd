package board

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harube/kanban-board-api/internal/models"
)

type recordedCall struct {
	taskID uint64
	status models.TaskStatus
}

type fakeUpdater struct {
	calls []recordedCall
	err   error
}

func (f *fakeUpdater) UpdateTaskStatus(taskID uint64, status models.TaskStatus) (*models.Task, error) {
	f.calls = append(f.calls, recordedCall{taskID: taskID, status: status})
	if f.err != nil {
		return nil, f.err
	}
	return &models.Task{ID: taskID, Status: status}, nil
}

func testTasks() []models.Task {
	now := time.Now()
	return []models.Task{
		{ID: 1, Title: "Write docs", Status: models.TaskStatusTodo, CreatedAt: now},
		{ID: 2, Title: "Fix login", Status: models.TaskStatusInProgress, CreatedAt: now.Add(-time.Hour)},
		{ID: 3, Title: "Ship release", Status: models.TaskStatusDone, CreatedAt: now.Add(-2 * time.Hour)},
	}
}

func TestDragEnd_MovesTaskAndCallsOnce(t *testing.T) {
	updater := &fakeUpdater{}
	b := New(updater)
	b.Replace(testTasks())

	called, err := b.DragEnd(1, models.TaskStatusInProgress)
	require.NoError(t, err)
	assert.True(t, called)

	require.Len(t, updater.calls, 1)
	assert.Equal(t, uint64(1), updater.calls[0].taskID)
	assert.Equal(t, models.TaskStatusInProgress, updater.calls[0].status)

	tasks := b.Tasks()
	require.Len(t, tasks, 3)
	assert.Equal(t, models.TaskStatusInProgress, tasks[0].Status)
	// The other tasks are untouched
	assert.Equal(t, models.TaskStatusInProgress, tasks[1].Status)
	assert.Equal(t, models.TaskStatusDone, tasks[2].Status)

	assert.Equal(t, Synced, b.Cards()[0].Sync)
}

func TestDragEnd_SameColumnIsNoOp(t *testing.T) {
	updater := &fakeUpdater{}
	b := New(updater)
	b.Replace(testTasks())

	called, err := b.DragEnd(1, models.TaskStatusTodo)
	require.NoError(t, err)
	assert.False(t, called)
	assert.Empty(t, updater.calls)
	assert.Equal(t, testTasks()[0].Status, b.Tasks()[0].Status)
}

func TestDragEnd_UnknownTaskIsNoOp(t *testing.T) {
	updater := &fakeUpdater{}
	b := New(updater)
	b.Replace(testTasks())

	called, err := b.DragEnd(999, models.TaskStatusDone)
	require.NoError(t, err)
	assert.False(t, called)
	assert.Empty(t, updater.calls)
}

func TestDragEnd_FailureRevertsAndMarksFailed(t *testing.T) {
	updater := &fakeUpdater{err: errors.New("connection reset")}
	b := New(updater)
	b.Replace(testTasks())

	called, err := b.DragEnd(1, models.TaskStatusDone)
	assert.True(t, called)
	require.Error(t, err)

	require.Len(t, updater.calls, 1)

	card := b.Cards()[0]
	assert.Equal(t, models.TaskStatusTodo, card.Task.Status)
	assert.Equal(t, Failed, card.Sync)
}

func TestReplace_OverwritesLocalState(t *testing.T) {
	updater := &fakeUpdater{err: errors.New("down")}
	b := New(updater)
	b.Replace(testTasks())

	_, err := b.DragEnd(1, models.TaskStatusDone)
	require.Error(t, err)
	assert.Equal(t, Failed, b.Cards()[0].Sync)

	// A refetch replaces everything, including failed cards
	server := []models.Task{
		{ID: 1, Title: "Write docs", Status: models.TaskStatusDone},
	}
	b.Replace(server)

	cards := b.Cards()
	require.Len(t, cards, 1)
	assert.Equal(t, models.TaskStatusDone, cards[0].Task.Status)
	assert.Equal(t, Synced, cards[0].Sync)
}

func TestColumn_FiltersByStatusPreservingOrder(t *testing.T) {
	b := New(&fakeUpdater{})
	b.Replace([]models.Task{
		{ID: 1, Status: models.TaskStatusTodo},
		{ID: 2, Status: models.TaskStatusDone},
		{ID: 3, Status: models.TaskStatusTodo},
	})

	todo := b.Column(models.TaskStatusTodo)
	require.Len(t, todo, 2)
	assert.Equal(t, uint64(1), todo[0].ID)
	assert.Equal(t, uint64(3), todo[1].ID)

	assert.Empty(t, b.Column(models.TaskStatusInProgress))
}

func TestDragEnd_PendingStateVisibleToUpdater(t *testing.T) {
	b := New(nil)
	b.Replace(testTasks())

	// The optimistic change is applied before the remote call is made.
	inspect := &inspectingUpdater{board: b, t: t}
	b.updater = inspect

	_, err := b.DragEnd(2, models.TaskStatusDone)
	require.NoError(t, err)
	assert.True(t, inspect.sawPending)
}

type inspectingUpdater struct {
	board      *Board
	t          *testing.T
	sawPending bool
}

func (u *inspectingUpdater) UpdateTaskStatus(taskID uint64, status models.TaskStatus) (*models.Task, error) {
	for _, card := range u.board.Cards() {
		if card.Task.ID == taskID {
			u.sawPending = card.Sync == PendingUpdate && card.Task.Status == status && card.Target == status
		}
	}
	return &models.Task{ID: taskID, Status: status}, nil
}
