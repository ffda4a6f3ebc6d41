package models

import "time"

type Task struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Title       string     `gorm:"type:varchar(255);not null;index" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Deadline    *time.Time `json:"deadline"`
	Status      string     `gorm:"type:varchar(50);not null" json:"status"`
	DashboardID uint64     `gorm:"not null;index" json:"dashboard_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Dashboard Dashboard    `gorm:"foreignKey:DashboardID" json:"dashboard,omitempty"`
	Workers   []TaskWorker `gorm:"foreignKey:TaskID" json:"workers,omitempty"`
	Comments  []Comment    `gorm:"foreignKey:TaskID" json:"-"`
}
