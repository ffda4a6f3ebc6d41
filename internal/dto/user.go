package dto

import (
	"time"

	"github.com/yukikurage/task-dashboard-api/internal/models"
	"github.com/yukikurage/task-dashboard-api/internal/utils"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64      `json:"id"`
	Email    string      `json:"email"`
	FullName string      `json:"full_name"`
	Role     models.Role `json:"role"`
	IsActive bool        `json:"is_active"`
}

// UserDetailDTO adds account timestamps for /auth/me
type UserDetailDTO struct {
	UserDTO
	CreatedAt time.Time `json:"created_at"`
}

// TokenResponse is returned by a successful login
type TokenResponse struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	User        UserDTO `json:"user"`
}

// UserListResponse represents a paginated user directory
type UserListResponse struct {
	Users      []UserDTO                `json:"users"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
		IsActive: user.IsActive,
	}
}

func ToUserDetailDTO(user models.User) UserDetailDTO {
	return UserDetailDTO{
		UserDTO:   ToUserDTO(user),
		CreatedAt: user.CreatedAt,
	}
}

// ToUserListResponse converts a page of users
func ToUserListResponse(users []models.User, params utils.PaginationParams, total int64) UserListResponse {
	items := make([]UserDTO, len(users))
	for i, u := range users {
		items[i] = ToUserDTO(u)
	}
	return UserListResponse{
		Users:      items,
		Pagination: utils.NewPaginationResponse(params, total),
	}
}
