package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/task-dashboard-api/internal/auth"
	"github.com/yukikurage/task-dashboard-api/internal/constants"
	"github.com/yukikurage/task-dashboard-api/internal/models"
	"github.com/yukikurage/task-dashboard-api/internal/repository"
	"github.com/yukikurage/task-dashboard-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrEmailRequired        = errors.New("email is required")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrInvalidRole          = errors.New("role must be one of ceo, manager, worker")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserInactive         = errors.New("user account is inactive")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToIssueToken   = errors.New("failed to issue access token")
)

// AuthService handles registration, credential checks and token issuance.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     models.Role
}

// Register creates an active user with a hashed password.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	role := models.Role(strings.ToLower(string(input.Role)))
	if role == "" {
		role = models.RoleWorker
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(input.FullName),
		Role:         role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is an authenticated user with a freshly signed bearer token.
type LoginResult struct {
	User        *models.User
	AccessToken string
}

// Login verifies credentials and issues a bearer token.
func (s *AuthService) Login(input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !auth.VerifyPassword(user.PasswordHash, input.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	token, err := s.tokens.Issue(user.ID, string(user.Role))
	if err != nil {
		return nil, ErrFailedToIssueToken
	}

	return &LoginResult{User: user, AccessToken: token}, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// ListUsers returns one page of the user directory.
func (s *AuthService) ListUsers(params utils.PaginationParams) ([]models.User, int64, error) {
	users, total, err := s.userRepo.List(params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// Authenticate resolves a bearer token to its user. An unknown subject is
// reported as ErrUserNotFound.
func (s *AuthService) Authenticate(tokenStr string) (*models.User, error) {
	claims, err := s.tokens.Parse(tokenStr)
	if err != nil {
		return nil, err
	}
	return s.GetUser(claims.UserID)
}
