package entity

import "time"

// User is a platform user: consultant, manager or admin.
type User struct {
	ID           string     `json:"id" gorm:"primaryKey;size:32"`
	Username     string     `json:"username" gorm:"size:64;not null;uniqueIndex"`
	Name         string     `json:"name" gorm:"size:128;not null"`
	Email        string     `json:"email" gorm:"size:200;uniqueIndex"`
	Phone        string     `json:"phone" gorm:"size:30"`
	PasswordHash string     `json:"-" gorm:"size:100;not null"`
	Role         string     `json:"role" gorm:"size:20;not null;default:CONSULTANT"`
	Status       string     `json:"status" gorm:"size:16;not null;default:active"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// User roles
const (
	RoleConsultant = "CONSULTANT"
	RoleManager    = "MANAGER"
	RoleAdmin      = "ADMIN"
)

// User statuses
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)
