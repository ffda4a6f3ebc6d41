package services

import (
	"context"

	"github.com/yukikurage/task-dashboard-api/internal/models"
)

func dashboardNames(dashboards []models.Dashboard) []string {
	names := make([]string, 0, len(dashboards))
	for _, d := range dashboards {
		names = append(names, d.Name)
	}
	return names
}

func (suite *ServiceTestSuite) TestListDashboards_CEOSeesEveryDashboard() {
	suite.createDashboard("Alpha", suite.manager)
	suite.createDashboard("Beta", suite.ceo)

	dashboards, err := suite.dashboardService.ListDashboards(suite.ceo)
	suite.Require().NoError(err)
	suite.Equal([]string{"Alpha", "Beta"}, dashboardNames(dashboards))
}

func (suite *ServiceTestSuite) TestListDashboards_ManagerSeesOwnedOnly() {
	other := suite.createUser("other-manager@example.com", models.RoleManager)
	suite.createDashboard("Mine", suite.manager)
	suite.createDashboard("Theirs", other)

	dashboards, err := suite.dashboardService.ListDashboards(suite.manager)
	suite.Require().NoError(err)
	suite.Equal([]string{"Mine"}, dashboardNames(dashboards))
	suite.Equal(suite.manager.ID, dashboards[0].Owner.ID)
}

func (suite *ServiceTestSuite) TestListDashboards_WorkerSeesDashboardsWithAssignedTasks() {
	alpha := suite.createDashboard("Alpha", suite.manager)
	beta := suite.createDashboard("Beta", suite.manager)
	suite.createTask("Assigned one", alpha, suite.worker)
	suite.createTask("Assigned two", alpha, suite.worker, suite.outside)
	suite.createTask("Not mine", beta, suite.outside)

	dashboards, err := suite.dashboardService.ListDashboards(suite.worker)
	suite.Require().NoError(err)
	suite.Require().Equal([]string{"Alpha"}, dashboardNames(dashboards))

	tasks := dashboards[0].Tasks
	suite.Require().Len(tasks, 2)
	suite.Equal("Assigned one", tasks[0].Title)
	suite.Len(tasks[1].Workers, 2)
	suite.Equal(suite.manager.ID, dashboards[0].Owner.ID)
}

func (suite *ServiceTestSuite) TestListDashboards_WorkerWithoutAssignmentsSeesNothing() {
	suite.createDashboard("Alpha", suite.manager)

	dashboards, err := suite.dashboardService.ListDashboards(suite.worker)
	suite.Require().NoError(err)
	suite.Empty(dashboards)
}

func (suite *ServiceTestSuite) TestListDashboards_UnknownRoleSeesNothing() {
	suite.createDashboard("Alpha", suite.manager)

	dashboards, err := suite.dashboardService.ListDashboards(&models.User{ID: 99, Role: "intern"})
	suite.Require().NoError(err)
	suite.NotNil(dashboards)
	suite.Empty(dashboards)
}

func (suite *ServiceTestSuite) TestCreateDashboard() {
	dashboard, err := suite.dashboardService.CreateDashboard(CreateDashboardInput{
		Name:        "  Roadmap ",
		Description: "Q3 work",
		OwnerID:     suite.manager.ID,
	})
	suite.Require().NoError(err)
	suite.Equal("Roadmap", dashboard.Name)
	suite.Equal(suite.manager.ID, dashboard.Owner.ID)

	_, err = suite.dashboardService.CreateDashboard(CreateDashboardInput{Name: " ", OwnerID: suite.manager.ID})
	suite.ErrorIs(err, ErrNameRequired)
}

func (suite *ServiceTestSuite) TestDeleteDashboard_RemovesEverythingBelowIt() {
	dashboard := suite.createDashboard("Doomed", suite.manager)
	keep := suite.createDashboard("Kept", suite.manager)
	task := suite.createTask("Task", dashboard, suite.worker)
	kept := suite.createTask("Kept task", keep, suite.worker)

	root, err := suite.commentService.CreateComment(context.Background(), CreateCommentInput{
		Content:    "with file",
		TaskID:     task.ID,
		Author:     suite.worker,
		Attachment: attachment("notes.txt", "hello"),
	})
	suite.Require().NoError(err)
	suite.Require().Len(root.Files, 1)
	stored := root.Files[0].FilePath
	suite.postComment(task, suite.manager, "reply", &root.ID)
	suite.postComment(kept, suite.manager, "survivor", nil)

	suite.Require().NoError(suite.dashboardService.DeleteDashboard(dashboard.ID))

	suite.EqualValues(1, suite.count(&models.Dashboard{}))
	suite.EqualValues(1, suite.count(&models.Task{}))
	suite.EqualValues(1, suite.count(&models.TaskWorker{}))
	suite.EqualValues(1, suite.count(&models.Comment{}))
	suite.EqualValues(0, suite.count(&models.File{}))
	suite.False(suite.store.has(stored))

	suite.ErrorIs(suite.dashboardService.DeleteDashboard(dashboard.ID), ErrDashboardNotFound)
}
