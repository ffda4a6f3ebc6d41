package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-dashboard-api/internal/dto"
	apierrors "github.com/yukikurage/task-dashboard-api/internal/errors"
	"github.com/yukikurage/task-dashboard-api/internal/services"
)

type TaskHandler struct {
	tasks *services.TaskService
}

func NewTaskHandler(tasks *services.TaskService) *TaskHandler {
	return &TaskHandler{
		tasks: tasks,
	}
}

// ListDashboardTasks returns the tasks of a dashboard; workers only get their own
func (h *TaskHandler) ListDashboardTasks(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}
	dashboardID, ok := idParam(c, "id")
	if !ok {
		return
	}

	tasks, err := h.tasks.ListTasksForDashboard(dashboardID, user)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.tasks.CreateTask(services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline.Value,
		DashboardID: req.DashboardID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update; "deadline": null clears the deadline
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	}
	if req.Deadline.Set {
		input.Deadline = req.Deadline.Value
		input.ClearDeadline = req.Deadline.Value == nil
	}

	task, err := h.tasks.UpdateTask(id, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) AssignWorker(c *gin.Context) {
	taskID, ok := idParam(c, "id")
	if !ok {
		return
	}
	userID, ok := idParam(c, "user_id")
	if !ok {
		return
	}

	task, err := h.tasks.AssignWorker(taskID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// GenerateTasks suggests task drafts for a dashboard from free text. Nothing is saved.
func (h *TaskHandler) GenerateTasks(c *gin.Context) {
	var req dto.GenerateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	drafts, err := h.tasks.GenerateTasks(c.Request.Context(), services.GenerateTasksInput{
		DashboardID: req.DashboardID,
		Text:        req.Text,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dashboard_id": req.DashboardID,
		"tasks":        drafts,
	})
}
