package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskflow/internal/core"
	"taskflow/internal/models"
)

type taskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	CategoryID  *string `json:"categoryId"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	DueDate     *string `json:"dueDate"`
	Order       *int    `json:"order"`
}

// taskView is a task denormalized for display: the soft category reference
// resolved to the full record, or null when uncategorized.
type taskView struct {
	models.Task
	Category *models.Category `json:"category"`
}

// handleListTasks runs the query engine over the full collection and
// returns the filtered, sorted, denormalized sequence.
func (s *Server) handleListTasks(c *gin.Context) {
	ctx := c.Request.Context()

	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		s.respondFromError(c, err)
		return
	}
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		s.respondFromError(c, err)
		return
	}

	// Unknown view or sort values fall back to the engine's no-op behavior
	// rather than being rejected here.
	filter := core.FilterState{
		View:           core.View(c.DefaultQuery("view", string(core.ViewAll))),
		CategoryFilter: c.DefaultQuery("category", core.CategoryAll),
		SortBy:         core.SortKey(c.DefaultQuery("sort", string(core.SortDueDate))),
	}

	result := core.QueryTasks(tasks, filter, s.now())
	views := make([]taskView, 0, len(result))
	for _, t := range result {
		views = append(views, taskView{
			Task:     t,
			Category: core.ResolveCategory(categories, t.CategoryID),
		})
	}
	respondSuccess(c, http.StatusOK, gin.H{"tasks": views})
}

// handleGetTask fetches a single task.
func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.store.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondFromError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleCreateTask derives a new task from the request and persists it.
func (s *Server) handleCreateTask(c *gin.Context) {
	ctx := c.Request.Context()

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	input := core.CreateTaskInput{
		Title:       getString(req.Title),
		Description: getString(req.Description),
		CategoryID:  req.CategoryID,
	}
	if req.Priority != nil {
		input.Priority = models.Priority(*req.Priority)
	}
	if req.Status != nil {
		input.Status = models.Status(*req.Status)
	}
	if req.DueDate != nil && *req.DueDate != "" {
		due, err := parseDueDate(*req.DueDate)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, err)
			return
		}
		input.DueDate = &due
	}

	// Order defaults to the collection size before the insert.
	existing, err := s.store.ListTasks(ctx)
	if err != nil {
		s.respondFromError(c, err)
		return
	}

	task, err := core.DeriveOnCreate(input, len(existing), s.now())
	if err != nil {
		s.respondFromError(c, err)
		return
	}

	task, err = s.store.CreateTask(ctx, task)
	if err != nil {
		s.respondFromError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"task": task})
}

// handleUpdateTask merges the request onto the stored task through the
// lifecycle rules, then persists the derived result.
func (s *Server) handleUpdateTask(c *gin.Context) {
	ctx := c.Request.Context()

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	existing, err := s.store.GetTask(ctx, c.Param("id"))
	if err != nil {
		s.respondFromError(c, err)
		return
	}

	patch, err := patchFromRequest(req)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	task, err := core.DeriveOnUpdate(existing, patch, s.now())
	if err != nil {
		s.respondFromError(c, err)
		return
	}

	task, err = s.store.UpdateTask(ctx, task)
	if err != nil {
		s.respondFromError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleDeleteTask removes a task completely.
func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.store.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		s.respondFromError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}

// patchFromRequest translates the wire shape into an explicit patch. An
// empty categoryId or dueDate string clears the field; absence leaves it
// untouched.
func patchFromRequest(req taskRequest) (models.TaskPatch, error) {
	patch := models.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
	}
	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			patch.ClearCategory = true
		} else {
			patch.CategoryID = req.CategoryID
		}
	}
	if req.Priority != nil {
		p := models.Priority(*req.Priority)
		patch.Priority = &p
	}
	if req.Status != nil {
		st := models.Status(*req.Status)
		patch.Status = &st
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			patch.ClearDueDate = true
		} else {
			due, err := parseDueDate(*req.DueDate)
			if err != nil {
				return models.TaskPatch{}, err
			}
			patch.DueDate = &due
		}
	}
	return patch, nil
}

// parseDueDate accepts RFC 3339 timestamps or bare dates.
func parseDueDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid due date %q", raw)
}

func getString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
