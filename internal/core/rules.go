// Package core holds the task query engine and the entity lifecycle rules.
//
// Everything here is a pure function over caller-supplied snapshots plus an
// explicit "now": no I/O, no retained state, no clock reads. The HTTP layer
// loads collections from storage, calls in, and persists the result.
package core

import (
	"strings"
	"time"

	"taskflow/internal/models"
)

// CreateTaskInput carries the caller-supplied fields for a new task.
// Zero values for Priority and Status mean "use the default".
type CreateTaskInput struct {
	Title       string
	Description string
	CategoryID  *string
	Priority    models.Priority
	Status      models.Status
	DueDate     *time.Time
}

// DeriveOnCreate applies creation defaults and derives the computed fields.
// existingCount is the size of the task collection before the insert and
// becomes the new task's manual-order hint. The returned task has no ID;
// storage assigns one on insert.
func DeriveOnCreate(input CreateTaskInput, existingCount int, now time.Time) (models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return models.Task{}, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if !ValidateDueDate(input.DueDate, now) {
		return models.Task{}, &ValidationError{Field: "dueDate", Reason: "must not be in the past"}
	}

	task := models.Task{
		Title:       title,
		Description: input.Description,
		CategoryID:  input.CategoryID,
		Priority:    input.Priority,
		Status:      input.Status,
		DueDate:     input.DueDate,
		CreatedAt:   now,
		Order:       existingCount,
	}
	if !task.Priority.Valid() {
		task.Priority = models.PriorityMedium
	}
	if !task.Status.Valid() {
		task.Status = models.StatusPending
	}
	if task.Status == models.StatusCompleted {
		completed := now
		task.CompletedAt = &completed
	}
	return task, nil
}

// DeriveOnUpdate merges patch onto existing and recomputes CompletedAt from
// the resulting status. Only a transition into completed stamps a new time;
// a task that was already completed keeps its original stamp, and leaving
// completed clears it. Validation applies to fields present in the patch.
func DeriveOnUpdate(existing models.Task, patch models.TaskPatch, now time.Time) (models.Task, error) {
	task := existing

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return models.Task{}, &ValidationError{Field: "title", Reason: "must not be empty"}
		}
		task.Title = title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	switch {
	case patch.ClearCategory:
		task.CategoryID = nil
	case patch.CategoryID != nil:
		id := *patch.CategoryID
		task.CategoryID = &id
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
		if !task.Priority.Valid() {
			task.Priority = models.PriorityMedium
		}
	}
	if patch.Status != nil {
		task.Status = *patch.Status
		if !task.Status.Valid() {
			task.Status = models.StatusPending
		}
	}
	switch {
	case patch.ClearDueDate:
		task.DueDate = nil
	case patch.DueDate != nil:
		if !ValidateDueDate(patch.DueDate, now) {
			return models.Task{}, &ValidationError{Field: "dueDate", Reason: "must not be in the past"}
		}
		due := *patch.DueDate
		task.DueDate = &due
	}
	if patch.Order != nil {
		task.Order = *patch.Order
	}

	switch {
	case task.Status != models.StatusCompleted:
		task.CompletedAt = nil
	case existing.Status != models.StatusCompleted:
		completed := now
		task.CompletedAt = &completed
	}
	return task, nil
}

// CanDeleteCategory reports whether no task currently references the
// category. It is a pure predicate; the caller is responsible for refusing
// the delete when it returns false.
func CanDeleteCategory(categoryID string, tasks []models.Task) bool {
	for _, t := range tasks {
		if t.CategoryID != nil && *t.CategoryID == categoryID {
			return false
		}
	}
	return true
}

// ValidateDueDate accepts an absent due date, or one whose calendar day is
// not strictly before now's calendar day. Time of day is ignored.
func ValidateDueDate(due *time.Time, now time.Time) bool {
	if due == nil {
		return true
	}
	return !startOfDay(due.In(now.Location())).Before(startOfDay(now))
}

// startOfDay truncates t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// sameDay reports whether a and b fall on the same calendar day, evaluated
// in b's location.
func sameDay(a, b time.Time) bool {
	return startOfDay(a.In(b.Location())).Equal(startOfDay(b))
}
