package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"taskdeck/internal/server/helper"
	"taskdeck/internal/server/middleware"
	"taskdeck/internal/service"
	"taskdeck/internal/shared"
	"taskdeck/internal/store"
	"taskdeck/todo"

	"github.com/gin-gonic/gin"
)

type CreateTodoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	Category    string `json:"category"`
}

type ReorderRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

type TodoHandler struct {
	svc     *service.TodoService
	cache   *middleware.ResponseCache
	metrics *shared.AppMetrics
}

func NewTodoHandler(svc *service.TodoService, cache *middleware.ResponseCache, metrics *shared.AppMetrics) *TodoHandler {
	return &TodoHandler{
		svc:     svc,
		cache:   cache,
		metrics: metrics,
	}
}

func (t *TodoHandler) List(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)

	if !ok {
		helper.SendUnauthorizedError(c, "Unauthorized request")
		return
	}

	todos, err := t.svc.List(c.Request.Context(), userID)

	if err != nil {
		slog.Error("List", "error", err)
		helper.SendInternalError(c, "Failed to load todos")
		return
	}

	t.recordOperation("list")
	helper.SendSuccess(c, http.StatusOK, todos)
}

func (t *TodoHandler) Create(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)

	if !ok {
		helper.SendUnauthorizedError(c, "Unauthorized request")
		return
	}

	var params CreateTodoRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		helper.SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	candidate := todo.Todo{
		Title:       params.Title,
		Description: params.Description,
		DueDate:     params.DueDate,
		Priority:    todo.Priority(params.Priority),
		Status:      todo.Status(params.Status),
		Category:    params.Category,
	}

	created, err := t.svc.Create(c.Request.Context(), userID, candidate)

	if err != nil {
		var validationErr *service.ValidationError

		if errors.As(err, &validationErr) {
			helper.SendValidationError(c, validationErr.Messages)
			return
		}

		slog.Error("Create", "error", err)
		helper.SendInternalError(c, "Failed to create todo")
		return
	}

	t.recordOperation("create")
	t.invalidate(c, userID)
	helper.SendSuccess(c, http.StatusCreated, created)
}

func (t *TodoHandler) Update(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)

	if !ok {
		helper.SendUnauthorizedError(c, "Unauthorized request")
		return
	}

	var patch service.TodoPatch

	if err := c.ShouldBindJSON(&patch); err != nil {
		helper.SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	updated, err := t.svc.Update(c.Request.Context(), userID, c.Param("id"), patch)

	if err != nil {
		var validationErr *service.ValidationError

		switch {
		case errors.As(err, &validationErr):
			helper.SendValidationError(c, validationErr.Messages)
		case errors.Is(err, store.ErrNotFound):
			helper.SendNotFoundError(c, "Todo not found")
		default:
			slog.Error("Update", "error", err)
			helper.SendInternalError(c, "Failed to update todo")
		}

		return
	}

	t.recordOperation("update")
	t.invalidate(c, userID)
	helper.SendSuccess(c, http.StatusOK, updated)
}

func (t *TodoHandler) Delete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)

	if !ok {
		helper.SendUnauthorizedError(c, "Unauthorized request")
		return
	}

	err := t.svc.Delete(c.Request.Context(), userID, c.Param("id"))

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			helper.SendNotFoundError(c, "Todo not found")
			return
		}

		slog.Error("Delete", "error", err)
		helper.SendInternalError(c, "Failed to delete todo")
		return
	}

	t.recordOperation("delete")
	t.invalidate(c, userID)
	c.Status(http.StatusNoContent)
}

// Reorder reassigns order indexes from the id sequence position. Last
// write wins; there is no conflict resolution between sessions.
func (t *TodoHandler) Reorder(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)

	if !ok {
		helper.SendUnauthorizedError(c, "Unauthorized request")
		return
	}

	var params ReorderRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		helper.SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := t.svc.Reorder(c.Request.Context(), userID, params.IDs); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			helper.SendNotFoundError(c, "Todo not found")
			return
		}

		slog.Error("Reorder", "error", err)
		helper.SendInternalError(c, "Failed to reorder todos")
		return
	}

	t.recordOperation("reorder")
	t.invalidate(c, userID)
	helper.SendSuccess(c, http.StatusOK, gin.H{"message": "Reordered"})
}

func (t *TodoHandler) Stats(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)

	if !ok {
		helper.SendUnauthorizedError(c, "Unauthorized request")
		return
	}

	stats, err := t.svc.Stats(c.Request.Context(), userID)

	if err != nil {
		slog.Error("Stats", "error", err)
		helper.SendInternalError(c, "Failed to compute stats")
		return
	}

	t.recordOperation("stats")
	helper.SendSuccess(c, http.StatusOK, stats)
}

func (t *TodoHandler) recordOperation(operation string) {
	if t.metrics != nil {
		t.metrics.RecordTodoOperation(operation)
	}
}

func (t *TodoHandler) invalidate(c *gin.Context, userID int) {
	if t.cache != nil {
		t.cache.Invalidate(c, userID)
	}
}
