package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-dashboard-api/internal/constants"
	"github.com/yukikurage/task-dashboard-api/internal/dto"
	apierrors "github.com/yukikurage/task-dashboard-api/internal/errors"
	"github.com/yukikurage/task-dashboard-api/internal/models"
	"github.com/yukikurage/task-dashboard-api/internal/services"
	"github.com/yukikurage/task-dashboard-api/internal/utils"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a new user account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(services.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// Login checks credentials, returns a bearer token and starts a cookie session.
// Credentials come as JSON or as an OAuth2 password form (username=email).
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginForm struct {
		Username string `form:"username" binding:"required"`
		Password string `form:"password" binding:"required"`
	}

	var input services.LoginInput
	if c.ContentType() == gin.MIMEPOSTForm || c.ContentType() == gin.MIMEMultipartPOSTForm {
		var form LoginForm
		if err := c.ShouldBind(&form); err != nil {
			apierrors.BadRequest(c, "Invalid login form")
			return
		}
		input = services.LoginInput{Email: form.Username, Password: form.Password}
	} else {
		var req dto.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			apierrors.BadRequest(c, "Invalid request body")
			return
		}
		input = services.LoginInput{Email: req.Email, Password: req.Password}
	}

	result, err := h.authService.Login(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, result.User.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken: result.AccessToken,
		TokenType:   constants.BearerTokenType,
		User:        dto.ToUserDTO(*result.User),
	})
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, ok := caller(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDetailDTO(*user))
}

// ListUsers returns one page of the user directory, used when assigning workers.
func (h *AuthHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, total, err := h.authService.ListUsers(params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserListResponse(users, params, total))
}
