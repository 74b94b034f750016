// Package storage defines the CRUD contract the application core depends
// on. Implementations own record layout and id assignment; callers run the
// lifecycle rules before persisting and never reach around the interfaces.
package storage

import (
	"context"
	"errors"
	"fmt"

	"taskflow/internal/models"
)

// ErrNotFound reports that no record matches the requested id.
var ErrNotFound = errors.New("record not found")

// StorageError wraps a transport or backend failure. The message is safe to
// surface to the user; the wrapped error carries the cause.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// TaskStore persists tasks. Create assigns the id and returns the stored
// record; Update replaces the record identified by task.ID.
type TaskStore interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id string) (models.Task, error)
	CreateTask(ctx context.Context, task models.Task) (models.Task, error)
	UpdateTask(ctx context.Context, task models.Task) (models.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// CategoryStore persists categories.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id string) (models.Category, error)
	CreateCategory(ctx context.Context, category models.Category) (models.Category, error)
	UpdateCategory(ctx context.Context, category models.Category) (models.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// Store is the full persistence surface the HTTP layer consumes.
type Store interface {
	TaskStore
	CategoryStore
}
