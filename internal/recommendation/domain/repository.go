package domain

import (
	"context"
	"errors"
)

// ErrNotFound is returned by DocumentStore.Get when no document exists
// for the given collection and user.
var ErrNotFound = errors.New("document not found")

// Collections persisted by the recommendation core. Each maps a user id
// to one JSON document.
const (
	CollectionPreferences = "preferences"
	CollectionPerformance = "performance"
	CollectionWorkload    = "workload"
)

// DocumentStore persists per-user JSON documents. The original design is
// last-writer-wins with no locking; implementations may improve on this
// (atomic rename, transactional upsert) but must not require callers to
// coordinate.
type DocumentStore interface {
	// Get returns the document for a user, or ErrNotFound.
	Get(ctx context.Context, collection, userID string) ([]byte, error)
	// Put stores or replaces the document for a user.
	Put(ctx context.Context, collection, userID string, doc []byte) error
	// Delete removes the document for a user. Deleting a missing
	// document is not an error.
	Delete(ctx context.Context, collection, userID string) error
	// List returns all documents in a collection keyed by user id.
	List(ctx context.Context, collection string) (map[string][]byte, error)
}

// TaskProvider is the external collaborator that owns task storage. The
// recommendation core never persists tasks itself.
type TaskProvider interface {
	// PendingTasks returns the tasks eligible for scoring.
	PendingTasks(ctx context.Context) ([]TaskRecord, error)
	// TaskByID resolves a single task, used for dependency lookups.
	// Returns nil when the task is unknown.
	TaskByID(ctx context.Context, id string) (*TaskRecord, error)
}

// TimeTracker is the optional time-tracking collaborator used to backfill
// completion time when a completion is recorded without one.
type TimeTracker interface {
	// TaskSeconds returns the total seconds spent on a task by a user.
	TaskSeconds(ctx context.Context, taskID, userID string) (int64, error)
}
