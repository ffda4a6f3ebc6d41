package services

import (
	"github.com/yukikurage/task-dashboard-api/internal/auth"
	"github.com/yukikurage/task-dashboard-api/internal/models"
	"github.com/yukikurage/task-dashboard-api/internal/utils"
)

func (suite *ServiceTestSuite) TestRegisterAndLogin() {
	user, err := suite.authService.Register(RegisterInput{
		Email:    " New.Person@Example.com ",
		Password: "correct-horse",
		FullName: "New Person",
		Role:     "Manager",
	})
	suite.Require().NoError(err)
	suite.Equal("new.person@example.com", user.Email)
	suite.Equal(models.RoleManager, user.Role)
	suite.True(user.IsActive)
	suite.NotEqual("correct-horse", user.PasswordHash)

	result, err := suite.authService.Login(LoginInput{Email: "new.person@example.com", Password: "correct-horse"})
	suite.Require().NoError(err)
	suite.Equal(user.ID, result.User.ID)

	resolved, err := suite.authService.Authenticate(result.AccessToken)
	suite.Require().NoError(err)
	suite.Equal(user.ID, resolved.ID)

	_, err = suite.authService.Login(LoginInput{Email: "new.person@example.com", Password: "wrong-password"})
	suite.ErrorIs(err, ErrInvalidCredentials)

	_, err = suite.authService.Login(LoginInput{Email: "nobody@example.com", Password: "correct-horse"})
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *ServiceTestSuite) TestRegister_Validation() {
	_, err := suite.authService.Register(RegisterInput{Email: "a@example.com", Password: "short"})
	suite.ErrorIs(err, ErrPasswordTooShort)

	_, err = suite.authService.Register(RegisterInput{Email: "a@example.com", Password: "long-enough", Role: "intern"})
	suite.ErrorIs(err, ErrInvalidRole)

	_, err = suite.authService.Register(RegisterInput{Email: "", Password: "long-enough"})
	suite.ErrorIs(err, ErrEmailRequired)

	_, err = suite.authService.Register(RegisterInput{Email: "worker@example.com", Password: "long-enough"})
	suite.ErrorIs(err, ErrEmailTaken)

	user, err := suite.authService.Register(RegisterInput{Email: "b@example.com", Password: "long-enough"})
	suite.Require().NoError(err)
	suite.Equal(models.RoleWorker, user.Role)
}

func (suite *ServiceTestSuite) TestLogin_InactiveUser() {
	hash, err := auth.HashPassword("long-enough")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.db.Model(suite.outside).Updates(map[string]interface{}{
		"password_hash": hash,
		"is_active":     false,
	}).Error)

	_, err = suite.authService.Login(LoginInput{Email: suite.outside.Email, Password: "long-enough"})
	suite.ErrorIs(err, ErrUserInactive)
}

func (suite *ServiceTestSuite) TestAuthenticate_RejectsBadTokens() {
	_, err := suite.authService.Authenticate("not-a-token")
	suite.ErrorIs(err, auth.ErrInvalidToken)

	other := auth.NewTokenManager("other-secret", 0)
	forged, err := other.Issue(suite.worker.ID, "worker")
	suite.Require().NoError(err)
	_, err = suite.authService.Authenticate(forged)
	suite.ErrorIs(err, auth.ErrInvalidToken)
}

func (suite *ServiceTestSuite) TestListUsers_Paginates() {
	users, total, err := suite.authService.ListUsers(utils.NewPaginationParams(2, 3))
	suite.Require().NoError(err)
	suite.EqualValues(4, total)
	suite.Require().Len(users, 1)
	suite.Equal(suite.outside.ID, users[0].ID)
}
