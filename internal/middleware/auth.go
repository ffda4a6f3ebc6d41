package middleware

import (
	"errors"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-dashboard-api/internal/authz"
	"github.com/yukikurage/task-dashboard-api/internal/constants"
	apierrors "github.com/yukikurage/task-dashboard-api/internal/errors"
	"github.com/yukikurage/task-dashboard-api/internal/models"
)

var errNoCredentials = errors.New("no credentials presented")

// Authenticator resolves credentials to users. *services.AuthService satisfies it.
type Authenticator interface {
	Authenticate(token string) (*models.User, error)
	GetUser(id uint64) (*models.User, error)
}

// RequireAuth identifies the caller from an "Authorization: Bearer" header or,
// when no header is sent, from the login session cookie. WebSocket handshakes
// from browsers can only use the cookie.
func RequireAuth(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolveUser(c, authn)
		if err != nil {
			apierrors.Unauthorized(c, "")
			return
		}

		if !user.IsActive {
			apierrors.Forbidden(c, "User account is inactive")
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

// RequireRoles rejects callers whose role is not listed. It must run after RequireAuth.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			return
		}

		if !authz.UserHasRole(user, roles...) {
			apierrors.Forbidden(c, "Insufficient role for this operation")
			return
		}
		c.Next()
	}
}

func resolveUser(c *gin.Context, authn Authenticator) (*models.User, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !ok || !strings.EqualFold(scheme, constants.BearerTokenType) || token == "" {
			return nil, errNoCredentials
		}
		return authn.Authenticate(token)
	}

	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil, errNoCredentials
	}
	userID, ok := toUint64(sessions.Default(c).Get(constants.ContextKeyUserID))
	if !ok {
		return nil, errNoCredentials
	}
	return authn.GetUser(userID)
}

// CurrentUser returns the user stored by RequireAuth
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

func toUint64(v interface{}) (uint64, bool) {
	switch v := v.(type) {
	case uint64:
		return v, v != 0
	case uint:
		return uint64(v), v != 0
	case int:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v <= 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
