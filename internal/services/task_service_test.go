package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yukikurage/task-dashboard-api/internal/models"
	"github.com/yukikurage/task-dashboard-api/internal/repository"
)

func (suite *ServiceTestSuite) TestCreateTask_DefaultsStatusToPending() {
	dashboard := suite.createDashboard("Board", suite.manager)
	deadline := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)

	task, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:       "Write report",
		Description: "Quarterly",
		Deadline:    &deadline,
		DashboardID: dashboard.ID,
	})
	suite.Require().NoError(err)
	suite.Equal("Pending", task.Status)
	suite.Equal(dashboard.ID, task.DashboardID)
	suite.Require().NotNil(task.Deadline)
	suite.True(deadline.Equal(*task.Deadline))
}

func (suite *ServiceTestSuite) TestCreateTask_Validation() {
	dashboard := suite.createDashboard("Board", suite.manager)

	_, err := suite.taskService.CreateTask(CreateTaskInput{Title: "  ", DashboardID: dashboard.ID})
	suite.ErrorIs(err, ErrTitleRequired)

	_, err = suite.taskService.CreateTask(CreateTaskInput{Title: "Orphan", DashboardID: 9999})
	suite.ErrorIs(err, ErrDashboardNotFound)
}

func (suite *ServiceTestSuite) TestListTasksForDashboard_WorkerSeesAssignedTasks() {
	dashboard := suite.createDashboard("Board", suite.manager)
	suite.createTask("First", dashboard, suite.worker)
	suite.createTask("Second", dashboard, suite.outside)
	suite.createTask("Third", dashboard, suite.worker, suite.outside)

	tasks, err := suite.taskService.ListTasksForDashboard(dashboard.ID, suite.worker)
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 2)
	suite.Equal("First", tasks[0].Title)
	suite.Equal("Third", tasks[1].Title)
	suite.Len(tasks[1].Workers, 2)

	tasks, err = suite.taskService.ListTasksForDashboard(dashboard.ID, suite.manager)
	suite.Require().NoError(err)
	suite.Len(tasks, 3)

	_, err = suite.taskService.ListTasksForDashboard(9999, suite.ceo)
	suite.ErrorIs(err, ErrDashboardNotFound)
}

func (suite *ServiceTestSuite) TestUpdateTask_AppliesOnlyPresentFields() {
	dashboard := suite.createDashboard("Board", suite.manager)
	deadline := time.Now().Add(time.Hour)
	created, err := suite.taskService.CreateTask(CreateTaskInput{
		Title:       "Original",
		Description: "Keep me",
		Deadline:    &deadline,
		DashboardID: dashboard.ID,
	})
	suite.Require().NoError(err)

	status := "In Progress"
	updated, err := suite.taskService.UpdateTask(created.ID, UpdateTaskInput{Status: &status})
	suite.Require().NoError(err)
	suite.Equal("Original", updated.Title)
	suite.Equal("Keep me", updated.Description)
	suite.Equal("In Progress", updated.Status)
	suite.NotNil(updated.Deadline)

	updated, err = suite.taskService.UpdateTask(created.ID, UpdateTaskInput{ClearDeadline: true})
	suite.Require().NoError(err)
	suite.Nil(updated.Deadline)
	suite.Equal(dashboard.ID, updated.DashboardID)

	empty := ""
	_, err = suite.taskService.UpdateTask(created.ID, UpdateTaskInput{Title: &empty})
	suite.ErrorIs(err, ErrTitleEmpty)

	blank := "  "
	_, err = suite.taskService.UpdateTask(created.ID, UpdateTaskInput{Status: &blank})
	suite.ErrorIs(err, ErrStatusEmpty)

	_, err = suite.taskService.UpdateTask(9999, UpdateTaskInput{Status: &status})
	suite.ErrorIs(err, ErrTaskNotFound)
}

// pausingTaskRepo holds Update calls until release is closed.
type pausingTaskRepo struct {
	repository.TaskRepository
	entered chan struct{}
	release chan struct{}
}

func (r *pausingTaskRepo) Update(id uint64, fields map[string]interface{}) error {
	close(r.entered)
	<-r.release
	return r.TaskRepository.Update(id, fields)
}

func (suite *ServiceTestSuite) TestUpdateTask_ConcurrentUpdatesKeepEachOthersFields() {
	dashboard := suite.createDashboard("Board", suite.manager)
	task := suite.createTask("Design", dashboard)

	paused := &pausingTaskRepo{
		TaskRepository: suite.taskRepo,
		entered:        make(chan struct{}),
		release:        make(chan struct{}),
	}
	slow := NewTaskService(TaskServiceDeps{
		Tasks:      paused,
		Dashboards: suite.dashboardRepo,
		Users:      suite.userRepo,
		Store:      suite.store,
		Log:        logrus.New(),
	})

	done := make(chan error, 1)
	go func() {
		status := "Done"
		_, err := slow.UpdateTask(task.ID, UpdateTaskInput{Status: &status})
		done <- err
	}()

	<-paused.entered
	title := "Design v2"
	_, err := suite.taskService.UpdateTask(task.ID, UpdateTaskInput{Title: &title})
	suite.Require().NoError(err)

	close(paused.release)
	suite.Require().NoError(<-done)

	final, err := suite.taskService.GetTask(task.ID)
	suite.Require().NoError(err)
	suite.Equal("Design v2", final.Title)
	suite.Equal("Done", final.Status)
}

func (suite *ServiceTestSuite) TestAssignWorker_IsIdempotent() {
	dashboard := suite.createDashboard("Board", suite.manager)
	task := suite.createTask("Task", dashboard)

	for i := 0; i < 2; i++ {
		assigned, err := suite.taskService.AssignWorker(task.ID, suite.worker.ID)
		suite.Require().NoError(err)
		suite.Require().Len(assigned.Workers, 1)
		suite.Equal(suite.worker.ID, assigned.Workers[0].User.ID)
	}
	suite.EqualValues(1, suite.count(&models.TaskWorker{}))

	_, err := suite.taskService.AssignWorker(task.ID, 9999)
	suite.ErrorIs(err, ErrUserNotFound)

	_, err = suite.taskService.AssignWorker(9999, suite.worker.ID)
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *ServiceTestSuite) TestDeleteTask_RemovesAssignmentsAndComments() {
	dashboard := suite.createDashboard("Board", suite.manager)
	task := suite.createTask("Task", dashboard, suite.worker)
	root := suite.postComment(task, suite.worker, "root", nil)
	suite.postComment(task, suite.manager, "reply", &root.ID)

	suite.Require().NoError(suite.taskService.DeleteTask(task.ID))

	suite.EqualValues(0, suite.count(&models.Task{}))
	suite.EqualValues(0, suite.count(&models.TaskWorker{}))
	suite.EqualValues(0, suite.count(&models.Comment{}))
	suite.EqualValues(1, suite.count(&models.Dashboard{}))

	suite.ErrorIs(suite.taskService.DeleteTask(task.ID), ErrTaskNotFound)
}

func (suite *ServiceTestSuite) TestGenerateTasks_NotConfigured() {
	dashboard := suite.createDashboard("Board", suite.manager)

	_, err := suite.taskService.GenerateTasks(context.Background(), GenerateTasksInput{
		DashboardID: dashboard.ID,
		Text:        "ship the release tomorrow",
	})
	suite.ErrorIs(err, ErrAIServiceNotConfigured)
}

func (suite *ServiceTestSuite) TestGenerateTasks_FiltersDrafts() {
	dashboard := suite.createDashboard("Board", suite.manager)
	stale := time.Now().Add(-72 * time.Hour)
	soon := time.Now().Add(24 * time.Hour)

	suite.taskService.suggester = &stubSuggester{drafts: []TaskDraft{
		{Title: "  "},
		{Title: "Old deadline", Deadline: &stale},
		{Title: "Ship release", Deadline: &soon},
	}}

	drafts, err := suite.taskService.GenerateTasks(context.Background(), GenerateTasksInput{
		DashboardID: dashboard.ID,
		Text:        "some meeting notes",
	})
	suite.Require().NoError(err)
	suite.Require().Len(drafts, 2)
	suite.Nil(drafts[0].Deadline)
	suite.Equal("Ship release", drafts[1].Title)
	suite.NotNil(drafts[1].Deadline)
	suite.EqualValues(0, suite.count(&models.Task{}))
}

func (suite *ServiceTestSuite) TestGenerateTasks_Errors() {
	dashboard := suite.createDashboard("Board", suite.manager)
	suite.taskService.suggester = &stubSuggester{}

	_, err := suite.taskService.GenerateTasks(context.Background(), GenerateTasksInput{DashboardID: dashboard.ID, Text: " "})
	suite.ErrorIs(err, ErrTextRequired)

	_, err = suite.taskService.GenerateTasks(context.Background(), GenerateTasksInput{DashboardID: 9999, Text: "notes"})
	suite.ErrorIs(err, ErrDashboardNotFound)

	_, err = suite.taskService.GenerateTasks(context.Background(), GenerateTasksInput{DashboardID: dashboard.ID, Text: "notes"})
	suite.ErrorIs(err, ErrAINoTasksGenerated)

	upstream := errors.New("rate limited")
	suite.taskService.suggester = &stubSuggester{err: upstream}
	_, err = suite.taskService.GenerateTasks(context.Background(), GenerateTasksInput{DashboardID: dashboard.ID, Text: "notes"})
	suite.ErrorIs(err, upstream)
}
