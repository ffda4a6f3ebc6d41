package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-dashboard-api/internal/constants"
	"github.com/yukikurage/task-dashboard-api/internal/models"
	"github.com/yukikurage/task-dashboard-api/internal/repository"
	"github.com/yukikurage/task-dashboard-api/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrTitleRequired          = errors.New("title is required")
	ErrTitleEmpty             = errors.New("title cannot be empty")
	ErrStatusEmpty            = errors.New("status cannot be empty")
	ErrTextRequired           = errors.New("text is required")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoTasksGenerated     = errors.New("AI did not generate any tasks")
	ErrAINoValidTasks         = errors.New("no valid tasks could be created from AI output")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo      repository.TaskRepository
	dashboardRepo repository.DashboardRepository
	userRepo      repository.UserRepository
	suggester     TaskSuggester
	store         storage.FileStore
	log           logrus.FieldLogger
}

// TaskServiceDeps groups the collaborators of TaskService. Suggester may be nil.
type TaskServiceDeps struct {
	Tasks      repository.TaskRepository
	Dashboards repository.DashboardRepository
	Users      repository.UserRepository
	Suggester  TaskSuggester
	Store      storage.FileStore
	Log        logrus.FieldLogger
}

// NewTaskService creates a new TaskService
func NewTaskService(deps TaskServiceDeps) *TaskService {
	return &TaskService{
		taskRepo:      deps.Tasks,
		dashboardRepo: deps.Dashboards,
		userRepo:      deps.Users,
		suggester:     deps.Suggester,
		store:         deps.Store,
		log:           deps.Log,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Deadline    *time.Time
	DashboardID uint64
}

// UpdateTaskInput represents a partial update. Nil fields are left unchanged;
// ClearDeadline removes the deadline.
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *string
	Deadline      *time.Time
	ClearDeadline bool
}

// GenerateTasksInput represents input for AI task suggestions
type GenerateTasksInput struct {
	DashboardID uint64
	Text        string
}

// ListTasksForDashboard returns the tasks of a dashboard in creation order.
// Workers only see tasks assigned to them.
func (s *TaskService) ListTasksForDashboard(dashboardID uint64, caller *models.User) ([]models.Task, error) {
	if err := s.ensureDashboard(dashboardID); err != nil {
		return nil, err
	}

	var (
		tasks []models.Task
		err   error
	)
	if caller.Role == models.RoleWorker {
		tasks, err = s.taskRepo.ListByDashboardForWorker(dashboardID, caller.ID)
	} else {
		tasks, err = s.taskRepo.ListByDashboard(dashboardID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// GetTask returns a task with its workers
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Workers.User")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask creates a new task in an existing dashboard
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	if err := s.ensureDashboard(input.DashboardID); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:       title,
		Description: input.Description,
		Deadline:    input.Deadline,
		Status:      constants.DefaultTaskStatus,
		DashboardID: input.DashboardID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.GetTask(task.ID)
}

// UpdateTask applies the present fields of input. Only those columns are
// written, so concurrent updates of different fields do not overwrite each
// other. The dashboard never changes.
func (s *TaskService) UpdateTask(taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	fields := make(map[string]interface{})
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleEmpty
		}
		fields["title"] = title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Status != nil {
		status := strings.TrimSpace(*input.Status)
		if status == "" {
			return nil, ErrStatusEmpty
		}
		fields["status"] = status
	}
	if input.ClearDeadline {
		fields["deadline"] = nil
	} else if input.Deadline != nil {
		fields["deadline"] = *input.Deadline
	}

	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Update(taskID, fields); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.GetTask(taskID)
}

// DeleteTask removes a task with its assignments, comments and files
func (s *TaskService) DeleteTask(taskID uint64) error {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	removed, err := s.taskRepo.Delete(taskID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	purgeStoredFiles(s.store, s.log, removed)
	return nil
}

// AssignWorker adds userID to the workers of a task. Assigning twice is a no-op.
func (s *TaskService) AssignWorker(taskID, userID uint64) (*models.Task, error) {
	if _, err := s.taskRepo.FindByID(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.taskRepo.AssignWorker(taskID, userID); err != nil {
		return nil, fmt.Errorf("failed to assign worker: %w", err)
	}

	return s.GetTask(taskID)
}

// GenerateTasks asks the suggester for task drafts. Nothing is saved; drafts
// with an empty title are dropped and stale deadlines cleared.
func (s *TaskService) GenerateTasks(ctx context.Context, input GenerateTasksInput) ([]TaskDraft, error) {
	if s.suggester == nil {
		return nil, ErrAIServiceNotConfigured
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, ErrTextRequired
	}

	dashboard, err := s.dashboardRepo.FindByID(input.DashboardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDashboardNotFound
		}
		return nil, fmt.Errorf("failed to find dashboard: %w", err)
	}

	drafts, err := s.suggester.SuggestTasks(ctx, dashboard.Name, input.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tasks: %w", err)
	}

	if len(drafts) == 0 {
		return nil, ErrAINoTasksGenerated
	}
	if len(drafts) > constants.MaxAIGeneratedTasks {
		drafts = drafts[:constants.MaxAIGeneratedTasks]
	}

	valid := make([]TaskDraft, 0, len(drafts))
	cutoff := time.Now().Add(-24 * time.Hour)
	for _, draft := range drafts {
		draft.Title = strings.TrimSpace(draft.Title)
		if draft.Title == "" {
			continue
		}
		if draft.Deadline != nil && draft.Deadline.Before(cutoff) {
			draft.Deadline = nil
		}
		valid = append(valid, draft)
	}

	if len(valid) == 0 {
		return nil, ErrAINoValidTasks
	}

	return valid, nil
}

func (s *TaskService) ensureDashboard(dashboardID uint64) error {
	exists, err := s.dashboardRepo.Exists(dashboardID)
	if err != nil {
		return fmt.Errorf("failed to find dashboard: %w", err)
	}
	if !exists {
		return ErrDashboardNotFound
	}
	return nil
}
