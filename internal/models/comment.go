package models

import "time"

type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "pending"
	CommentStatusApproved CommentStatus = "approved"
	CommentStatusRejected CommentStatus = "rejected"
)

// Valid reports whether s is one of the known comment statuses.
func (s CommentStatus) Valid() bool {
	switch s {
	case CommentStatusPending, CommentStatusApproved, CommentStatusRejected:
		return true
	}
	return false
}

type Comment struct {
	ID        uint64        `gorm:"primarykey" json:"id"`
	Content   string        `gorm:"type:text;not null" json:"content"`
	TaskID    uint64        `gorm:"not null;index" json:"task_id"`
	AuthorID  uint64        `gorm:"not null;index" json:"author_id"`
	ParentID  *uint64       `gorm:"index" json:"parent_id"`
	Status    CommentStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt time.Time     `json:"created_at"`

	// Relations
	Task   Task   `gorm:"foreignKey:TaskID" json:"-"`
	Author User   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Files  []File `gorm:"foreignKey:CommentID" json:"files,omitempty"`

	// Replies is assembled from the comment arena, not loaded by GORM.
	Replies []*Comment `gorm:"-" json:"replies,omitempty"`
}
