// Package board mirrors a server task list into a locally mutable copy so a
// drag on the Kanban board takes effect immediately, before the server
// confirms. Each card carries an explicit sync state; a failed update is
// reverted instead of leaving the copy silently diverged.
package board

import (
	"github.com/harube/kanban-board-api/internal/models"
)

// StatusUpdater is the remote half of a drag: exactly one call per accepted
// drop. *services.TaskService satisfies it.
type StatusUpdater interface {
	UpdateTaskStatus(taskID uint64, status models.TaskStatus) (*models.Task, error)
}

// SyncState tracks a card's relation to server truth.
type SyncState int

const (
	// Synced means the card matches the last server list.
	Synced SyncState = iota
	// PendingUpdate means an optimistic change has been applied locally and
	// the remote call is in flight.
	PendingUpdate
	// Failed means the remote call was rejected and the card was reverted.
	Failed
)

// Card is one task plus its sync state.
type Card struct {
	Task models.Task
	Sync SyncState
	// Target holds the in-flight status while Sync is PendingUpdate.
	Target models.TaskStatus
}

// Board holds the local copy of one project's task list. It is a
// single-writer structure: one event loop (one browser tab in the original
// design) owns it. Not safe for concurrent use.
type Board struct {
	updater StatusUpdater
	cards   []Card
}

// New creates an empty board that reports drags through updater.
func New(updater StatusUpdater) *Board {
	return &Board{updater: updater}
}

// Replace overwrites the local copy wholesale with server truth. No diffing;
// any optimistic or failed state is discarded.
func (b *Board) Replace(tasks []models.Task) {
	cards := make([]Card, len(tasks))
	for i, task := range tasks {
		cards[i] = Card{Task: task, Sync: Synced}
	}
	b.cards = cards
}

// Tasks returns a snapshot of the local task list in order.
func (b *Board) Tasks() []models.Task {
	tasks := make([]models.Task, len(b.cards))
	for i, card := range b.cards {
		tasks[i] = card.Task
	}
	return tasks
}

// Cards returns a snapshot of the cards with their sync states.
func (b *Board) Cards() []Card {
	cards := make([]Card, len(b.cards))
	copy(cards, b.cards)
	return cards
}

// Column returns the tasks of one status column, preserving list order.
func (b *Board) Column(status models.TaskStatus) []models.Task {
	var tasks []models.Task
	for _, card := range b.cards {
		if card.Task.Status == status {
			tasks = append(tasks, card.Task)
		}
	}
	return tasks
}

// DragEnd applies a completed drag of taskID onto the target column.
//
// An unknown id, or a drop on the card's current column, is an idempotent
// no-op: no local change, no remote call. Otherwise the status change is
// applied locally first, then reported with exactly one remote call. On
// success the card stays at the new status as Synced until the next Replace.
// On failure the card reverts to its previous status and is marked Failed.
//
// The returned bool reports whether a remote call was made.
func (b *Board) DragEnd(taskID uint64, target models.TaskStatus) (bool, error) {
	idx := -1
	for i, card := range b.cards {
		if card.Task.ID == taskID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false, nil
	}

	previous := b.cards[idx].Task.Status
	if previous == target {
		return false, nil
	}

	// Optimistic update: new slice with the one matching element replaced.
	cards := make([]Card, len(b.cards))
	copy(cards, b.cards)
	cards[idx].Task.Status = target
	cards[idx].Sync = PendingUpdate
	cards[idx].Target = target
	b.cards = cards

	if _, err := b.updater.UpdateTaskStatus(taskID, target); err != nil {
		b.cards[idx].Task.Status = previous
		b.cards[idx].Sync = Failed
		b.cards[idx].Target = ""
		return true, err
	}

	b.cards[idx].Sync = Synced
	b.cards[idx].Target = ""
	return true, nil
}
