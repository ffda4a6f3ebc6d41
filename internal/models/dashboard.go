package models

import "time"

type Dashboard struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	OwnerID     uint64    `gorm:"not null;index" json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`

	// Relations
	Owner User   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Tasks []Task `gorm:"foreignKey:DashboardID" json:"tasks,omitempty"`
}
