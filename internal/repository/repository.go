package repository

import (
	"github.com/yukikurage/task-dashboard-api/internal/models"
	"github.com/yukikurage/task-dashboard-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List returns a page of users ordered by ID, and the total count
	List(params utils.PaginationParams) ([]models.User, int64, error)
}

// DashboardRepository defines the interface for dashboard data access.
// Every list method returns dashboards with Owner, Tasks and Tasks.Workers loaded.
type DashboardRepository interface {
	// Create creates a new dashboard
	Create(dashboard *models.Dashboard) error

	// FindByID finds a dashboard by ID with its owner and tasks
	FindByID(id uint64) (*models.Dashboard, error)

	// Exists reports whether a dashboard with the ID is stored
	Exists(id uint64) (bool, error)

	// ListAll lists every dashboard
	ListAll() ([]models.Dashboard, error)

	// ListByOwner lists the dashboards owned by ownerID
	ListByOwner(ownerID uint64) ([]models.Dashboard, error)

	// ListByIDs lists the dashboards with the given IDs
	ListByIDs(ids []uint64) ([]models.Dashboard, error)

	// Delete removes a dashboard with its tasks, assignments, comments and files.
	// It returns the storage names of the removed files.
	Delete(id uint64) ([]string, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// ListByDashboard lists the tasks of a dashboard with their workers
	ListByDashboard(dashboardID uint64) ([]models.Task, error)

	// ListByDashboardForWorker lists the tasks of a dashboard assigned to userID
	ListByDashboardForWorker(dashboardID, userID uint64) ([]models.Task, error)

	// AssignedTaskIDs returns the IDs of every task assigned to userID
	AssignedTaskIDs(userID uint64) ([]uint64, error)

	// DashboardIDsForTasks returns the distinct dashboards owning the given tasks
	DashboardIDsForTasks(taskIDs []uint64) ([]uint64, error)

	// Update writes only the given columns; other columns keep their stored values
	Update(id uint64, fields map[string]interface{}) error

	// Delete removes a task with its assignments, comments and files
	Delete(id uint64) ([]string, error)

	// AssignWorker assigns a user to a task; an existing pair is left as is
	AssignWorker(taskID, userID uint64) error
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.Comment) error

	// CreateFile records an attachment for a comment
	CreateFile(file *models.File) error

	// FindByID finds a comment by ID with its author and files
	FindByID(id uint64) (*models.Comment, error)

	// ListByTask lists every comment of a task (all depths) with author and files,
	// ordered by creation
	ListByTask(taskID uint64) ([]models.Comment, error)

	// UpdateStatus sets the review status of a comment
	UpdateStatus(id uint64, status models.CommentStatus) error

	// Delete removes a comment, its reply subtree and their files
	Delete(id uint64) ([]string, error)
}
