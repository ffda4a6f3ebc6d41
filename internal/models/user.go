package models

import "time"

type Role string

const (
	RoleCEO     Role = "ceo"
	RoleManager Role = "manager"
	RoleWorker  Role = "worker"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCEO, RoleManager, RoleWorker:
		return true
	}
	return false
}

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	FullName     string    `gorm:"type:varchar(255);index" json:"full_name"`
	Role         Role      `gorm:"type:varchar(20);not null" json:"role"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Dashboards  []Dashboard  `gorm:"foreignKey:OwnerID" json:"-"`
	Assignments []TaskWorker `gorm:"foreignKey:UserID" json:"-"`
	Comments    []Comment    `gorm:"foreignKey:AuthorID" json:"-"`
}
