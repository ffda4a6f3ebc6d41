package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-dashboard-api/internal/auth"
	"github.com/yukikurage/task-dashboard-api/internal/database"
	"github.com/yukikurage/task-dashboard-api/internal/models"
	"github.com/yukikurage/task-dashboard-api/internal/realtime"
	"github.com/yukikurage/task-dashboard-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type sentEvent struct {
	userID uint64
	event  realtime.Event
}

// recordingNotifier captures every event instead of writing to sockets.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentEvent
}

func (n *recordingNotifier) SendTo(userID uint64, event realtime.Event) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentEvent{userID: userID, event: event})
	return true
}

func (n *recordingNotifier) Broadcast(userIDs []uint64, event realtime.Event) int {
	for _, id := range userIDs {
		n.SendTo(id, event)
	}
	return len(userIDs)
}

func (n *recordingNotifier) recipients() []uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	ids := make([]uint64, 0, len(n.sent))
	for _, s := range n.sent {
		ids = append(ids, s.userID)
	}
	return ids
}

// memoryStore is an in-memory FileStore whose writes can be made to fail.
type memoryStore struct {
	mu      sync.Mutex
	files   map[string][]byte
	saveErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{files: make(map[string][]byte)}
}

func (m *memoryStore) Save(_ context.Context, name string, r io.Reader) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = data
	return nil
}

func (m *memoryStore) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, name)
	return nil
}

func (m *memoryStore) has(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[name]
	return ok
}

type stubSuggester struct {
	drafts []TaskDraft
	err    error
}

func (s *stubSuggester) SuggestTasks(context.Context, string, string) ([]TaskDraft, error) {
	return s.drafts, s.err
}

// ServiceTestSuite runs the services against an in-memory SQLite database.
type ServiceTestSuite struct {
	suite.Suite
	db *gorm.DB

	userRepo      repository.UserRepository
	dashboardRepo repository.DashboardRepository
	taskRepo      repository.TaskRepository
	commentRepo   repository.CommentRepository

	store    *memoryStore
	notifier *recordingNotifier

	authService      *AuthService
	dashboardService *DashboardService
	taskService      *TaskService
	commentService   *CommentService

	ceo     *models.User
	manager *models.User
	worker  *models.User
	outside *models.User
}

func (suite *ServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)

	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	suite.Require().NoError(database.Migrate(suite.db))

	log := logrus.New()
	log.SetOutput(io.Discard)

	suite.userRepo = repository.NewUserRepository(suite.db)
	suite.dashboardRepo = repository.NewDashboardRepository(suite.db)
	suite.taskRepo = repository.NewTaskRepository(suite.db)
	suite.commentRepo = repository.NewCommentRepository(suite.db)

	suite.store = newMemoryStore()
	suite.notifier = &recordingNotifier{}

	suite.authService = NewAuthService(suite.userRepo, auth.NewTokenManager("test-secret", time.Hour))
	suite.dashboardService = NewDashboardService(suite.dashboardRepo, suite.taskRepo, suite.store, log)
	suite.taskService = NewTaskService(TaskServiceDeps{
		Tasks:      suite.taskRepo,
		Dashboards: suite.dashboardRepo,
		Users:      suite.userRepo,
		Store:      suite.store,
		Log:        log,
	})
	suite.commentService = NewCommentService(CommentServiceDeps{
		Comments:      suite.commentRepo,
		Tasks:         suite.taskRepo,
		Store:         suite.store,
		Notifications: NewNotificationService(suite.notifier, log),
		Log:           log,
	})

	suite.ceo = suite.createUser("ceo@example.com", models.RoleCEO)
	suite.manager = suite.createUser("manager@example.com", models.RoleManager)
	suite.worker = suite.createUser("worker@example.com", models.RoleWorker)
	suite.outside = suite.createUser("outside@example.com", models.RoleWorker)
}

func (suite *ServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *ServiceTestSuite) createUser(email string, role models.Role) *models.User {
	user := &models.User{
		Email:        email,
		PasswordHash: "hashedpassword",
		FullName:     string(role) + " " + email,
		Role:         role,
		IsActive:     true,
	}
	suite.Require().NoError(suite.db.Create(user).Error)
	return user
}

func (suite *ServiceTestSuite) createDashboard(name string, owner *models.User) *models.Dashboard {
	dashboard := &models.Dashboard{Name: name, OwnerID: owner.ID}
	suite.Require().NoError(suite.db.Create(dashboard).Error)
	return dashboard
}

func (suite *ServiceTestSuite) createTask(title string, dashboard *models.Dashboard, workers ...*models.User) *models.Task {
	task := &models.Task{Title: title, Status: "Pending", DashboardID: dashboard.ID}
	suite.Require().NoError(suite.db.Create(task).Error)
	for _, w := range workers {
		suite.Require().NoError(suite.db.Create(&models.TaskWorker{TaskID: task.ID, UserID: w.ID}).Error)
	}
	return task
}

func (suite *ServiceTestSuite) postComment(task *models.Task, author *models.User, content string, parentID *uint64) *models.Comment {
	comment, err := suite.commentService.CreateComment(context.Background(), CreateCommentInput{
		Content:  content,
		TaskID:   task.ID,
		Author:   author,
		ParentID: parentID,
	})
	suite.Require().NoError(err)
	return comment
}

func (suite *ServiceTestSuite) count(model interface{}) int64 {
	var n int64
	suite.Require().NoError(suite.db.Model(model).Count(&n).Error)
	return n
}

func attachment(name, body string) *Attachment {
	return &Attachment{FileName: name, Content: bytes.NewBufferString(body)}
}

var errDiskFull = errors.New("disk full")

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
