package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles a user can hold. Moderators may edit or delete any review or comment,
// admins additionally manage the catalog and the user collection.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type User struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"-"`
	Username  string    `gorm:"uniqueIndex;not null;size:150" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null;size:250" json:"email"`
	FirstName string    `gorm:"size:150" json:"first_name"`
	LastName  string    `gorm:"size:150" json:"last_name"`
	Bio       string    `gorm:"size:1000" json:"bio"`
	Role      string    `gorm:"default:'user';not null" json:"role"`
	Superuser bool      `gorm:"column:is_superuser;default:false;not null" json:"-"`
	Staff     bool      `gorm:"column:is_staff;default:false;not null" json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = RoleUser
	}
	return
}

// EffectiveRole collapses the legacy superuser/staff flags into the role
// string so permission checks only ever look at one value.
func (user *User) EffectiveRole() string {
	if user.Superuser {
		return RoleAdmin
	}
	if user.Role == RoleAdmin {
		return RoleAdmin
	}
	if user.Staff || user.Role == RoleModerator {
		return RoleModerator
	}
	return RoleUser
}

func (User) TableName() string {
	return "users"
}
