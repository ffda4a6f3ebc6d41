package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"max=255"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateDashboardRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}

type CreateTaskRequest struct {
	Title       string       `json:"title" binding:"required,max=255"`
	Description string       `json:"description"`
	Deadline    NullableTime `json:"deadline"`
	DashboardID uint64       `json:"dashboard_id" binding:"required"`
}

// UpdateTaskRequest is a partial update; absent fields are nil
type UpdateTaskRequest struct {
	Title       *string      `json:"title" binding:"omitempty,max=255"`
	Description *string      `json:"description"`
	Status      *string      `json:"status" binding:"omitempty,min=1,max=50"`
	Deadline    NullableTime `json:"deadline"`
}

type UpdateCommentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type GenerateTasksRequest struct {
	DashboardID uint64 `json:"dashboard_id" binding:"required"`
	Text        string `json:"text" binding:"required,max=10000"`
}

// NullableTime tells an absent JSON field apart from an explicit null.
// Set is true whenever the field was present; Value is nil for null.
type NullableTime struct {
	Set   bool
	Value *time.Time
}

const dateLayout = "2006-01-02"

func (n *NullableTime) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.Value = nil
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("deadline must be a string or null: %w", err)
	}

	for _, layout := range []string{time.RFC3339Nano, dateLayout} {
		if t, err := time.Parse(layout, raw); err == nil {
			n.Value = &t
			return nil
		}
	}
	return fmt.Errorf("deadline %q is not an RFC 3339 timestamp or a date", raw)
}
