package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/task-dashboard-api/internal/errors"
	"github.com/yukikurage/task-dashboard-api/internal/middleware"
	"github.com/yukikurage/task-dashboard-api/internal/models"
)

// idParam parses a positive numeric path parameter, answering 400 otherwise.
func idParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// caller returns the authenticated user or answers 401.
func caller(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return nil, false
	}
	return user, true
}
