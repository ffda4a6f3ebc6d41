package dto

import (
	"time"

	"github.com/yukikurage/task-dashboard-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	Status      string     `json:"status"`
	DashboardID uint64     `json:"dashboard_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Workers     []UserDTO  `json:"workers"`
}

// ToTaskDTO converts a Task model to TaskDTO. Workers are included when preloaded.
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Deadline:    task.Deadline,
		Status:      task.Status,
		DashboardID: task.DashboardID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		Workers:     make([]UserDTO, 0, len(task.Workers)),
	}

	for _, w := range task.Workers {
		if w.User.ID == 0 {
			dto.Workers = append(dto.Workers, UserDTO{ID: w.UserID})
			continue
		}
		dto.Workers = append(dto.Workers, ToUserDTO(w.User))
	}

	return dto
}

func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	out := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		out[i] = ToTaskDTO(t)
	}
	return out
}
