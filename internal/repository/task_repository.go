package repository

import (
	"github.com/yukikurage/task-dashboard-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Omit(clause.Associations).Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// ListByDashboard lists the tasks of a dashboard with their workers
func (r *GormTaskRepository) ListByDashboard(dashboardID uint64) ([]models.Task, error) {
	var tasks []models.Task
	if err := r.db.
		Preload("Workers.User").
		Where("tasks.dashboard_id = ?", dashboardID).
		Order("tasks.created_at ASC, tasks.id ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListByDashboardForWorker lists the tasks of a dashboard assigned to userID.
// The full worker list of each task is still loaded.
func (r *GormTaskRepository) ListByDashboardForWorker(dashboardID, userID uint64) ([]models.Task, error) {
	assigned := r.db.Model(&models.TaskWorker{}).
		Select("1").
		Where("task_workers.task_id = tasks.id").
		Where("task_workers.user_id = ?", userID)

	var tasks []models.Task
	if err := r.db.
		Preload("Workers.User").
		Where("tasks.dashboard_id = ?", dashboardID).
		Where("EXISTS (?)", assigned).
		Order("tasks.created_at ASC, tasks.id ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// AssignedTaskIDs returns the IDs of every task assigned to userID
func (r *GormTaskRepository) AssignedTaskIDs(userID uint64) ([]uint64, error) {
	var ids []uint64
	if err := r.db.Model(&models.TaskWorker{}).
		Where("user_id = ?", userID).
		Pluck("task_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// DashboardIDsForTasks returns the distinct dashboards owning the given tasks
func (r *GormTaskRepository) DashboardIDsForTasks(taskIDs []uint64) ([]uint64, error) {
	if len(taskIDs) == 0 {
		return []uint64{}, nil
	}

	var ids []uint64
	if err := r.db.Model(&models.Task{}).
		Where("id IN ?", taskIDs).
		Distinct().
		Pluck("dashboard_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Update writes only the given columns of a task
func (r *GormTaskRepository) Update(id uint64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.Model(&models.Task{}).Where("id = ?", id).Updates(fields).Error
}

// Delete removes a task with its assignments and comment trees
func (r *GormTaskRepository) Delete(id uint64) ([]string, error) {
	var paths []string
	err := r.db.Transaction(func(tx *gorm.DB) error {
		removed, err := deleteTasks(tx, []uint64{id})
		paths = removed
		return err
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// AssignWorker assigns a user to a task; an existing pair is left untouched
func (r *GormTaskRepository) AssignWorker(taskID, userID uint64) error {
	return r.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.TaskWorker{TaskID: taskID, UserID: userID}).Error
}
