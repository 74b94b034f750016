package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/models"
)

var testNow = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestDeriveOnCreate_Defaults(t *testing.T) {
	task, err := DeriveOnCreate(CreateTaskInput{Title: "Buy milk"}, 3, testNow)
	require.NoError(t, err)

	assert.Equal(t, "Buy milk", task.Title)
	assert.Equal(t, models.StatusPending, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Nil(t, task.CompletedAt)
	assert.Equal(t, testNow, task.CreatedAt)
	assert.Equal(t, 3, task.Order)
	assert.Empty(t, task.ID, "id assignment belongs to storage")
}

func TestDeriveOnCreate_TrimsTitle(t *testing.T) {
	task, err := DeriveOnCreate(CreateTaskInput{Title: "  write report  "}, 0, testNow)
	require.NoError(t, err)
	assert.Equal(t, "write report", task.Title)
}

func TestDeriveOnCreate_EmptyTitle(t *testing.T) {
	for _, title := range []string{"", "  ", "\t\n"} {
		_, err := DeriveOnCreate(CreateTaskInput{Title: title}, 0, testNow)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "title", verr.Field)
	}
}

func TestDeriveOnCreate_PastDueDate(t *testing.T) {
	yesterday := testNow.AddDate(0, 0, -1)
	_, err := DeriveOnCreate(CreateTaskInput{Title: "x", DueDate: &yesterday}, 0, testNow)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "dueDate", verr.Field)
}

func TestDeriveOnCreate_DueEarlierTodayAccepted(t *testing.T) {
	// Same calendar day but earlier clock time: still valid, the due date
	// comparison ignores time of day.
	earlier := time.Date(2024, time.March, 15, 0, 5, 0, 0, time.UTC)
	task, err := DeriveOnCreate(CreateTaskInput{Title: "x", DueDate: &earlier}, 0, testNow)
	require.NoError(t, err)
	require.NotNil(t, task.DueDate)
}

func TestDeriveOnCreate_CompletedInputStampsTimestamp(t *testing.T) {
	task, err := DeriveOnCreate(CreateTaskInput{Title: "done already", Status: models.StatusCompleted}, 0, testNow)
	require.NoError(t, err)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, testNow, *task.CompletedAt)
}

func TestDeriveOnCreate_UnknownEnumsFallBack(t *testing.T) {
	task, err := DeriveOnCreate(CreateTaskInput{
		Title:    "x",
		Priority: models.Priority("severe"),
		Status:   models.Status("paused"),
	}, 0, testNow)
	require.NoError(t, err)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Equal(t, models.StatusPending, task.Status)
}

func TestDeriveOnUpdate_TransitionToCompletedStampsNow(t *testing.T) {
	existing := models.Task{ID: "t1", Title: "x", Status: models.StatusPending, CreatedAt: testNow.Add(-time.Hour)}
	status := models.StatusCompleted

	task, err := DeriveOnUpdate(existing, models.TaskPatch{Status: &status}, testNow)
	require.NoError(t, err)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, testNow, *task.CompletedAt)
}

func TestDeriveOnUpdate_CompletedIdempotent(t *testing.T) {
	original := testNow.Add(-48 * time.Hour)
	existing := models.Task{
		ID:          "t1",
		Title:       "x",
		Status:      models.StatusCompleted,
		CompletedAt: &original,
	}
	status := models.StatusCompleted

	task, err := DeriveOnUpdate(existing, models.TaskPatch{Status: &status}, testNow)
	require.NoError(t, err)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, original, *task.CompletedAt, "re-completing must not refresh the stamp")
}

func TestDeriveOnUpdate_LeavingCompletedClearsTimestamp(t *testing.T) {
	stamp := testNow.Add(-time.Hour)
	existing := models.Task{ID: "t1", Title: "x", Status: models.StatusCompleted, CompletedAt: &stamp}
	status := models.StatusPending

	task, err := DeriveOnUpdate(existing, models.TaskPatch{Status: &status}, testNow)
	require.NoError(t, err)
	assert.Nil(t, task.CompletedAt)
}

func TestDeriveOnUpdate_UnrelatedPatchKeepsCompletion(t *testing.T) {
	stamp := testNow.Add(-time.Hour)
	existing := models.Task{ID: "t1", Title: "x", Status: models.StatusCompleted, CompletedAt: &stamp}

	task, err := DeriveOnUpdate(existing, models.TaskPatch{Title: strPtr("renamed")}, testNow)
	require.NoError(t, err)
	assert.Equal(t, "renamed", task.Title)
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, stamp, *task.CompletedAt)
}

func TestDeriveOnUpdate_StatusTimestampCoInvariant(t *testing.T) {
	// (status == completed) == (completedAt != nil) after every update.
	statuses := []models.Status{models.StatusPending, models.StatusInProgress, models.StatusCompleted}
	existing := models.Task{ID: "t1", Title: "x", Status: models.StatusPending}

	for _, from := range statuses {
		for _, to := range statuses {
			existing.Status = from
			if from == models.StatusCompleted {
				existing.CompletedAt = timePtr(testNow.Add(-time.Hour))
			} else {
				existing.CompletedAt = nil
			}
			to := to
			task, err := DeriveOnUpdate(existing, models.TaskPatch{Status: &to}, testNow)
			require.NoError(t, err)
			assert.Equal(t, to == models.StatusCompleted, task.CompletedAt != nil,
				"transition %s -> %s", from, to)
		}
	}
}

func TestDeriveOnUpdate_EmptyTitleRejected(t *testing.T) {
	existing := models.Task{ID: "t1", Title: "keep me", Status: models.StatusPending}
	_, err := DeriveOnUpdate(existing, models.TaskPatch{Title: strPtr("   ")}, testNow)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "title", verr.Field)
}

func TestDeriveOnUpdate_PastDueDateRejected(t *testing.T) {
	existing := models.Task{ID: "t1", Title: "x", Status: models.StatusPending}
	yesterday := testNow.AddDate(0, 0, -1)
	_, err := DeriveOnUpdate(existing, models.TaskPatch{DueDate: &yesterday}, testNow)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestDeriveOnUpdate_PersistedPastDueDateSurvivesUnrelatedPatch(t *testing.T) {
	// An already-persisted past due date is not revalidated unless the
	// patch touches it.
	stale := testNow.AddDate(0, 0, -30)
	existing := models.Task{ID: "t1", Title: "x", Status: models.StatusPending, DueDate: &stale}

	task, err := DeriveOnUpdate(existing, models.TaskPatch{Description: strPtr("notes")}, testNow)
	require.NoError(t, err)
	require.NotNil(t, task.DueDate)
	assert.Equal(t, stale, *task.DueDate)
}

func TestDeriveOnUpdate_ClearFields(t *testing.T) {
	catID := "cat1"
	due := testNow.AddDate(0, 0, 2)
	existing := models.Task{ID: "t1", Title: "x", Status: models.StatusPending, CategoryID: &catID, DueDate: &due}

	task, err := DeriveOnUpdate(existing, models.TaskPatch{ClearCategory: true, ClearDueDate: true}, testNow)
	require.NoError(t, err)
	assert.Nil(t, task.CategoryID)
	assert.Nil(t, task.DueDate)
}

func TestCanDeleteCategory(t *testing.T) {
	cat1 := "cat1"
	tasks := []models.Task{
		{ID: "a", Title: "a", CategoryID: &cat1},
		{ID: "b", Title: "b"},
	}

	assert.False(t, CanDeleteCategory("cat1", tasks))
	assert.True(t, CanDeleteCategory("cat2", tasks))

	// After the referencing task is recategorized the delete is allowed.
	cat2 := "cat2"
	tasks[0].CategoryID = &cat2
	assert.True(t, CanDeleteCategory("cat1", tasks))

	assert.True(t, CanDeleteCategory("cat1", nil))
}

func TestValidateDueDate(t *testing.T) {
	cases := []struct {
		name string
		due  *time.Time
		want bool
	}{
		{"absent", nil, true},
		{"today", timePtr(testNow), true},
		{"earlier today", timePtr(testNow.Add(-2 * time.Hour)), true},
		{"tomorrow", timePtr(testNow.AddDate(0, 0, 1)), true},
		{"yesterday", timePtr(testNow.AddDate(0, 0, -1)), false},
		{"late yesterday", timePtr(time.Date(2024, time.March, 14, 23, 59, 0, 0, time.UTC)), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidateDueDate(tc.due, testNow))
		})
	}
}
