package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-dashboard-api/internal/models"
	"github.com/yukikurage/task-dashboard-api/internal/repository"
	"github.com/yukikurage/task-dashboard-api/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrDashboardNotFound = errors.New("dashboard not found")
	ErrNameRequired      = errors.New("name is required")
)

// DashboardService handles dashboard business logic
type DashboardService struct {
	dashboardRepo repository.DashboardRepository
	taskRepo      repository.TaskRepository
	store         storage.FileStore
	log           logrus.FieldLogger
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	dashboardRepo repository.DashboardRepository,
	taskRepo repository.TaskRepository,
	store storage.FileStore,
	log logrus.FieldLogger,
) *DashboardService {
	return &DashboardService{
		dashboardRepo: dashboardRepo,
		taskRepo:      taskRepo,
		store:         store,
		log:           log,
	}
}

// CreateDashboardInput represents input for creating a dashboard
type CreateDashboardInput struct {
	Name        string
	Description string
	OwnerID     uint64
}

// ListDashboards returns the dashboards visible to caller. CEOs see every
// dashboard, managers the ones they own and workers the ones holding at least
// one task assigned to them.
func (s *DashboardService) ListDashboards(caller *models.User) ([]models.Dashboard, error) {
	var (
		dashboards []models.Dashboard
		err        error
	)

	switch caller.Role {
	case models.RoleCEO:
		dashboards, err = s.dashboardRepo.ListAll()
	case models.RoleManager:
		dashboards, err = s.dashboardRepo.ListByOwner(caller.ID)
	case models.RoleWorker:
		dashboards, err = s.listForWorker(caller.ID)
	default:
		return []models.Dashboard{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list dashboards: %w", err)
	}

	return dashboards, nil
}

func (s *DashboardService) listForWorker(userID uint64) ([]models.Dashboard, error) {
	taskIDs, err := s.taskRepo.AssignedTaskIDs(userID)
	if err != nil {
		return nil, err
	}
	if len(taskIDs) == 0 {
		return []models.Dashboard{}, nil
	}

	dashboardIDs, err := s.taskRepo.DashboardIDsForTasks(taskIDs)
	if err != nil {
		return nil, err
	}

	return s.dashboardRepo.ListByIDs(uniqueUint64(dashboardIDs))
}

// CreateDashboard creates a dashboard owned by the caller
func (s *DashboardService) CreateDashboard(input CreateDashboardInput) (*models.Dashboard, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	dashboard := &models.Dashboard{
		Name:        name,
		Description: input.Description,
		OwnerID:     input.OwnerID,
	}
	if err := s.dashboardRepo.Create(dashboard); err != nil {
		return nil, fmt.Errorf("failed to create dashboard: %w", err)
	}

	return s.GetDashboard(dashboard.ID)
}

// GetDashboard returns a dashboard with its owner and tasks
func (s *DashboardService) GetDashboard(id uint64) (*models.Dashboard, error) {
	dashboard, err := s.dashboardRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDashboardNotFound
		}
		return nil, fmt.Errorf("failed to find dashboard: %w", err)
	}
	return dashboard, nil
}

// DeleteDashboard removes a dashboard together with everything below it
func (s *DashboardService) DeleteDashboard(id uint64) error {
	if _, err := s.GetDashboard(id); err != nil {
		return err
	}

	removed, err := s.dashboardRepo.Delete(id)
	if err != nil {
		return fmt.Errorf("failed to delete dashboard: %w", err)
	}

	purgeStoredFiles(s.store, s.log, removed)
	return nil
}

func uniqueUint64(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	unique := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
