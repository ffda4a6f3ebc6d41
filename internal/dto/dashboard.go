package dto

import (
	"time"

	"github.com/yukikurage/task-dashboard-api/internal/models"
)

// DashboardDTO represents a dashboard with its owner and tasks
type DashboardDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     uint64    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	Owner       *UserDTO  `json:"owner,omitempty"`
	Tasks       []TaskDTO `json:"tasks"`
}

// ToDashboardDTO converts a Dashboard model to DashboardDTO
func ToDashboardDTO(dashboard models.Dashboard) DashboardDTO {
	dto := DashboardDTO{
		ID:          dashboard.ID,
		Name:        dashboard.Name,
		Description: dashboard.Description,
		OwnerID:     dashboard.OwnerID,
		CreatedAt:   dashboard.CreatedAt,
		Tasks:       ToTaskDTOs(dashboard.Tasks),
	}

	// Include owner if preloaded
	if dashboard.Owner.ID != 0 {
		owner := ToUserDTO(dashboard.Owner)
		dto.Owner = &owner
	}

	return dto
}

func ToDashboardDTOs(dashboards []models.Dashboard) []DashboardDTO {
	out := make([]DashboardDTO, len(dashboards))
	for i, d := range dashboards {
		out[i] = ToDashboardDTO(d)
	}
	return out
}
