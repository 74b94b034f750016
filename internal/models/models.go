package models

import "time"

// Priority orders tasks by severity. Stored as its lowercase string form.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// priorityRank maps priorities to severity for descending sorts.
var priorityRank = map[Priority]int{
	PriorityUrgent: 4,
	PriorityHigh:   3,
	PriorityMedium: 2,
	PriorityLow:    1,
}

// Rank returns the severity rank, substituting medium for unknown or
// missing values so partially-populated records stay sortable.
func (p Priority) Rank() int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return priorityRank[PriorityMedium]
}

// Valid reports whether p is one of the defined priorities.
func (p Priority) Valid() bool {
	_, ok := priorityRank[p]
	return ok
}

// Status tracks a task through its lifecycle.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task represents one unit of work.
//
// CategoryID is a soft reference: nil means uncategorized, and deleting a
// referenced category is blocked rather than cascaded. CompletedAt is derived
// from status transitions and is non-nil exactly when Status is completed.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CategoryID  *string    `json:"categoryId"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
	Order       int        `json:"order"`
}

// TaskPatch is a partial update: nil fields are left untouched. The nullable
// fields (category, due date) carry explicit clear flags so "absent", "set"
// and "set to null" stay distinct.
type TaskPatch struct {
	Title         *string
	Description   *string
	CategoryID    *string
	ClearCategory bool
	Priority      *Priority
	Status        *Status
	DueDate       *time.Time
	ClearDueDate  bool
	Order         *int
}

// Category is a user-defined grouping for tasks. Color and Icon are opaque
// display tokens; the core validates nothing about them beyond presence.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// CategoryWithCount decorates a category with the number of tasks that
// currently reference it, for list views.
type CategoryWithCount struct {
	Category
	TaskCount int `json:"taskCount"`
}

// DefaultIcon is applied when a category is created without one.
const DefaultIcon = "Folder"

// Palette holds the category colors offered by the frontend picker; the
// server assigns one when a category is created without a color.
var Palette = []string{
	"#5B47E0", "#FF6B6B", "#4ECDC4", "#FFE66D", "#4FC3F7",
	"#9C27B0", "#FF9800", "#4CAF50", "#F44336", "#2196F3",
}
