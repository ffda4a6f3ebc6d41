package models

import "time"

// TaskWorker is the assignment of a user to a task. The composite key keeps pairs unique.
type TaskWorker struct {
	TaskID    uint64    `gorm:"primarykey" json:"task_id"`
	UserID    uint64    `gorm:"primarykey;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (TaskWorker) TableName() string {
	return "task_workers"
}
