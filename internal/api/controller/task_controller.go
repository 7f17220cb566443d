package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskdeck/internal/api/models"
	"taskdeck/internal/api/repository"
	"taskdeck/internal/api/response"
	"taskdeck/internal/api/service"
	"taskdeck/internal/middleware"
	"taskdeck/internal/validator"
)

// TaskController handles the ownership-scoped task routes. The owner is
// always taken from the authenticated identity, never from the request.
type TaskController struct {
	taskService service.TaskService
}

// NewTaskController creates a new TaskController.
func NewTaskController(taskService service.TaskService) *TaskController {
	return &TaskController{taskService: taskService}
}

// Add handles POST /add-task.
func (tc *TaskController) Add(c *gin.Context) {
	var req models.AddTaskRequest
	_ = c.ShouldBindJSON(&req)

	if err := validator.Description(req.Description); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	task, err := tc.taskService.Add(c.Request.Context(), middleware.Username(c), req.Description)
	if err != nil {
		slog.Error("add-task failed", "err", err)
		response.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	response.OK(c, task)
}

// View handles GET /view-task.
func (tc *TaskController) View(c *gin.Context) {
	tasks, err := tc.taskService.List(c.Request.Context(), middleware.Username(c))
	if err != nil {
		slog.Error("view-task failed", "err", err)
		response.Error(c, http.StatusInternalServerError, "internal error")
		return
	}

	response.OK(c, tasks)
}

// Complete handles PATCH /complete-task/:id.
func (tc *TaskController) Complete(c *gin.Context) {
	task, err := tc.taskService.Complete(c.Request.Context(), c.Param("id"), middleware.Username(c))
	if err != nil {
		tc.writeMutationError(c, err)
		return
	}

	response.OK(c, task)
}

// Edit handles PATCH /edit-task/:id.
func (tc *TaskController) Edit(c *gin.Context) {
	var req models.EditTaskRequest
	_ = c.ShouldBindJSON(&req)

	if err := validator.Description(req.Description); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	task, err := tc.taskService.Edit(c.Request.Context(), c.Param("id"), middleware.Username(c), req.Description)
	if err != nil {
		tc.writeMutationError(c, err)
		return
	}

	response.OK(c, task)
}

// Delete handles DELETE /delete-task/:id.
func (tc *TaskController) Delete(c *gin.Context) {
	task, err := tc.taskService.Delete(c.Request.Context(), c.Param("id"), middleware.Username(c))
	if err != nil {
		tc.writeMutationError(c, err)
		return
	}

	response.OK(c, models.DeleteTaskResponse{Message: "deleted", Task: *task})
}

func (tc *TaskController) writeMutationError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		response.Error(c, http.StatusNotFound, "not found")
		return
	}
	slog.Error("task mutation failed", "err", err)
	response.Error(c, http.StatusInternalServerError, "internal error")
}
