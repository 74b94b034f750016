package server

import (
	"math/rand"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskflow/internal/core"
	"taskflow/internal/models"
)

type categoryRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
	Icon  *string `json:"icon"`
}

// handleListCategories returns all categories with their task counts.
func (s *Server) handleListCategories(c *gin.Context) {
	ctx := c.Request.Context()

	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		s.respondFromError(c, err)
		return
	}
	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		s.respondFromError(c, err)
		return
	}

	counts := make(map[string]int)
	for _, t := range tasks {
		if t.CategoryID != nil {
			counts[*t.CategoryID]++
		}
	}

	out := make([]models.CategoryWithCount, 0, len(categories))
	for _, cat := range categories {
		out = append(out, models.CategoryWithCount{Category: cat, TaskCount: counts[cat.ID]})
	}
	respondSuccess(c, http.StatusOK, gin.H{"categories": out})
}

// handleCreateCategory creates a new category, filling display defaults.
func (s *Server) handleCreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	name := strings.TrimSpace(getString(req.Name))
	if name == "" {
		s.respondFromError(c, &core.ValidationError{Field: "name", Reason: "must not be empty"})
		return
	}

	category := models.Category{
		Name:  name,
		Color: getString(req.Color),
		Icon:  getString(req.Icon),
	}
	if category.Color == "" {
		category.Color = randomPaletteColor()
	}
	if category.Icon == "" {
		category.Icon = models.DefaultIcon
	}

	category, err := s.store.CreateCategory(c.Request.Context(), category)
	if err != nil {
		s.respondFromError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"category": category})
}

// handleUpdateCategory renames, recolors or re-icons an existing category.
func (s *Server) handleUpdateCategory(c *gin.Context) {
	ctx := c.Request.Context()

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	category, err := s.store.GetCategory(ctx, c.Param("id"))
	if err != nil {
		s.respondFromError(c, err)
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			s.respondFromError(c, &core.ValidationError{Field: "name", Reason: "must not be empty"})
			return
		}
		category.Name = name
	}
	if req.Color != nil && *req.Color != "" {
		category.Color = *req.Color
	}
	if req.Icon != nil && *req.Icon != "" {
		category.Icon = *req.Icon
	}

	category, err = s.store.UpdateCategory(ctx, category)
	if err != nil {
		s.respondFromError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"category": category})
}

// handleDeleteCategory refuses to delete a category still referenced by
// tasks; the check runs before any storage delete is attempted.
func (s *Server) handleDeleteCategory(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	tasks, err := s.store.ListTasks(ctx)
	if err != nil {
		s.respondFromError(c, err)
		return
	}
	if !core.CanDeleteCategory(id, tasks) {
		s.respondFromError(c, &core.ConstraintViolation{
			Reason: "category is referenced by existing tasks",
		})
		return
	}

	if err := s.store.DeleteCategory(ctx, id); err != nil {
		s.respondFromError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}

func randomPaletteColor() string {
	return models.Palette[rand.Intn(len(models.Palette))]
}
