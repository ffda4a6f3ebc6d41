package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-dashboard-api/internal/auth"
	"github.com/yukikurage/task-dashboard-api/internal/constants"
	apierrors "github.com/yukikurage/task-dashboard-api/internal/errors"
	"github.com/yukikurage/task-dashboard-api/internal/services"
)

// respondServiceError maps service sentinel errors onto API error responses.
// Anything unrecognised becomes a 500 and is recorded on the context.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrDashboardNotFound),
		errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrParentNotFound),
		errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())

	case errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrStatusEmpty),
		errors.Is(err, services.ErrContentRequired),
		errors.Is(err, services.ErrInvalidParent),
		errors.Is(err, services.ErrInvalidCommentStatus),
		errors.Is(err, services.ErrTextRequired),
		errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrAINoTasksGenerated),
		errors.Is(err, services.ErrAINoValidTasks):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))

	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		apierrors.RespondWithError(c, http.StatusUnauthorized, apierrors.NewAPIError(apierrors.ErrCodeInvalidCredentials, err.Error()))

	case errors.Is(err, services.ErrUserInactive),
		errors.Is(err, services.ErrCommentForbidden):
		apierrors.Forbidden(c, err.Error())

	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, err.Error())

	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "AI service is not configured. Set OPENAI_API_KEY to enable task suggestions.")

	default:
		_ = c.Error(err)
		apierrors.InternalError(c, "")
	}
}
