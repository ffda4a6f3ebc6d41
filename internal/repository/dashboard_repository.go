package repository

import (
	"github.com/yukikurage/task-dashboard-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDashboardRepository is a GORM implementation of DashboardRepository
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository creates a new DashboardRepository
func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &GormDashboardRepository{db: db}
}

// withGraph batch-loads owner, tasks (creation order) and task workers so callers
// get the whole object graph from one call.
func (r *GormDashboardRepository) withGraph() *gorm.DB {
	return r.db.
		Preload("Owner").
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("tasks.created_at ASC, tasks.id ASC")
		}).
		Preload("Tasks.Workers.User").
		Order("dashboards.created_at ASC, dashboards.id ASC")
}

// Create creates a new dashboard
func (r *GormDashboardRepository) Create(dashboard *models.Dashboard) error {
	return r.db.Omit(clause.Associations).Create(dashboard).Error
}

// FindByID finds a dashboard by ID with its owner and tasks
func (r *GormDashboardRepository) FindByID(id uint64) (*models.Dashboard, error) {
	var dashboard models.Dashboard
	if err := r.withGraph().First(&dashboard, id).Error; err != nil {
		return nil, err
	}
	return &dashboard, nil
}

// Exists reports whether a dashboard with the ID is stored
func (r *GormDashboardRepository) Exists(id uint64) (bool, error) {
	var n int64
	if err := r.db.Model(&models.Dashboard{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListAll lists every dashboard
func (r *GormDashboardRepository) ListAll() ([]models.Dashboard, error) {
	var dashboards []models.Dashboard
	if err := r.withGraph().Find(&dashboards).Error; err != nil {
		return nil, err
	}
	return dashboards, nil
}

// ListByOwner lists the dashboards owned by ownerID
func (r *GormDashboardRepository) ListByOwner(ownerID uint64) ([]models.Dashboard, error) {
	var dashboards []models.Dashboard
	if err := r.withGraph().Where("dashboards.owner_id = ?", ownerID).Find(&dashboards).Error; err != nil {
		return nil, err
	}
	return dashboards, nil
}

// ListByIDs lists the dashboards with the given IDs
func (r *GormDashboardRepository) ListByIDs(ids []uint64) ([]models.Dashboard, error) {
	if len(ids) == 0 {
		return []models.Dashboard{}, nil
	}

	var dashboards []models.Dashboard
	if err := r.withGraph().Where("dashboards.id IN ?", ids).Find(&dashboards).Error; err != nil {
		return nil, err
	}
	return dashboards, nil
}

// Delete removes a dashboard and everything under it in a transaction
func (r *GormDashboardRepository) Delete(id uint64) ([]string, error) {
	var paths []string
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var taskIDs []uint64
		if err := tx.Model(&models.Task{}).Where("dashboard_id = ?", id).Pluck("id", &taskIDs).Error; err != nil {
			return err
		}

		removed, err := deleteTasks(tx, taskIDs)
		if err != nil {
			return err
		}
		paths = removed

		return tx.Delete(&models.Dashboard{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
