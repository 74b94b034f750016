// Package memory provides an in-process storage.Store used by tests and by
// demo runs that do not want a database file on disk.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"taskflow/internal/models"
	"taskflow/internal/storage"
)

// Store keeps tasks and categories in ordered slices behind a mutex.
// Returned records are copies; callers never observe internal state.
type Store struct {
	mu         sync.Mutex
	tasks      []models.Task
	categories []models.Category
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{}
}

// ListTasks returns all tasks in insertion order.
func (s *Store) ListTasks(_ context.Context) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

// GetTask fetches a single task by id.
func (s *Store) GetTask(_ context.Context, id string) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Task{}, storage.ErrNotFound
}

// CreateTask appends a task, assigning its id.
func (s *Store) CreateTask(_ context.Context, task models.Task) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task.ID = uuid.New().String()
	s.tasks = append(s.tasks, task)
	return task, nil
}

// UpdateTask replaces the record identified by task.ID.
func (s *Store) UpdateTask(_ context.Context, task models.Task) (models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == task.ID {
			s.tasks[i] = task
			return task, nil
		}
	}
	return models.Task{}, storage.ErrNotFound
}

// DeleteTask removes a task by id.
func (s *Store) DeleteTask(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

// ListCategories returns all categories in insertion order.
func (s *Store) ListCategories(_ context.Context) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Category, len(s.categories))
	copy(out, s.categories)
	return out, nil
}

// GetCategory fetches a single category by id.
func (s *Store) GetCategory(_ context.Context, id string) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Category{}, storage.ErrNotFound
}

// CreateCategory appends a category, assigning its id.
func (s *Store) CreateCategory(_ context.Context, category models.Category) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	category.ID = uuid.New().String()
	s.categories = append(s.categories, category)
	return category, nil
}

// UpdateCategory replaces the record identified by category.ID.
func (s *Store) UpdateCategory(_ context.Context, category models.Category) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID == category.ID {
			s.categories[i] = category
			return category, nil
		}
	}
	return models.Category{}, storage.ErrNotFound
}

// DeleteCategory removes a category by id.
func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}
