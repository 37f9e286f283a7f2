package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the authorization level of an account
type Role string

const (
	RoleUser  Role = "user"
	RoleChef  Role = "chef"
	RoleAdmin Role = "admin"
)

// Roles lists every assignable role
var Roles = []Role{RoleUser, RoleChef, RoleAdmin}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// User is an account that can rate, favorite and (as chef or admin) author recipes
type User struct {
	ID           uuid.UUID  `gorm:"type:varchar(36);primaryKey" json:"id"`
	Username     string     `gorm:"size:80;not null;uniqueIndex" json:"username"`
	Email        string     `gorm:"size:120;not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	FullName     string     `gorm:"size:100" json:"full_name"`
	Bio          string     `gorm:"type:text" json:"bio"`
	ProfileImage string     `gorm:"size:500" json:"profile_image"`
	Role         Role       `gorm:"size:20;not null;index" json:"role"`
	IsActive     bool       `gorm:"not null" json:"is_active"`
	IsVerified   bool       `gorm:"not null" json:"is_verified"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// BeforeCreate assigns an id and the default role
func (u *User) BeforeCreate(tx *gorm.DB) error {
	assignID(&u.ID)
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// CanAuthor reports whether the user may publish recipes
func (u *User) CanAuthor() bool {
	return u.Role == RoleChef || u.Role == RoleAdmin
}

func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
