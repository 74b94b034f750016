package core

import (
	"sort"
	"time"

	"taskflow/internal/models"
)

// View selects the coarse task subset before category filtering and sorting.
type View string

const (
	ViewAll       View = "all"
	ViewToday     View = "today"
	ViewUpcoming  View = "upcoming"
	ViewCompleted View = "completed"
)

// SortKey orders the filtered task sequence.
type SortKey string

const (
	SortDueDate  SortKey = "dueDate"
	SortPriority SortKey = "priority"
	SortCreated  SortKey = "created"
)

// CategoryAll is the category-filter sentinel meaning "no restriction".
const CategoryAll = "all"

// FilterState is the caller's current filter and sort selection. Unknown
// values are not errors: an unrecognized view behaves like ViewAll and an
// unrecognized sort key leaves the order untouched.
type FilterState struct {
	View           View
	CategoryFilter string
	SortBy         SortKey
}

// QueryTasks filters tasks by view and category, then stable-sorts the
// result. It never fails: empty input yields an empty slice, and records
// with missing fields sort using the documented defaults. The input slice
// is not modified.
func QueryTasks(tasks []models.Task, f FilterState, now time.Time) []models.Task {
	out := make([]models.Task, 0, len(tasks))

	for _, t := range tasks {
		if !matchesView(t, f.View, now) {
			continue
		}
		if f.CategoryFilter != "" && f.CategoryFilter != CategoryAll {
			if t.CategoryID == nil || *t.CategoryID != f.CategoryFilter {
				continue
			}
		}
		out = append(out, t)
	}

	sortTasks(out, f.SortBy)
	return out
}

func matchesView(t models.Task, view View, now time.Time) bool {
	switch view {
	case ViewToday:
		return t.DueDate != nil && sameDay(*t.DueDate, now)
	case ViewUpcoming:
		// Due on a later calendar day; tasks due today are not upcoming.
		return t.DueDate != nil && startOfDay(t.DueDate.In(now.Location())).After(startOfDay(now))
	case ViewCompleted:
		return t.Status == models.StatusCompleted
	default:
		return true
	}
}

// sortTasks stable-sorts in place so equal keys keep their prior order.
// Date keys compare full timestamps; only the view filters work at
// calendar-day granularity.
func sortTasks(tasks []models.Task, key SortKey) {
	switch key {
	case SortDueDate:
		sort.SliceStable(tasks, func(i, j int) bool {
			a, b := tasks[i].DueDate, tasks[j].DueDate
			switch {
			case a == nil:
				return false
			case b == nil:
				return true
			default:
				return a.Before(*b)
			}
		})
	case SortPriority:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].Priority.Rank() > tasks[j].Priority.Rank()
		})
	case SortCreated:
		sort.SliceStable(tasks, func(i, j int) bool {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		})
	}
}

// ResolveCategory looks up a task's category for display. A nil or
// unmatched id resolves to nil, never an error.
func ResolveCategory(categories []models.Category, id *string) *models.Category {
	if id == nil {
		return nil
	}
	for i := range categories {
		if categories[i].ID == *id {
			return &categories[i]
		}
	}
	return nil
}
