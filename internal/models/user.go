package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the principal kind carried in the session token.
type Role string

const (
	RoleCitizen            Role = "citizen"
	RoleDepartmentOfficial Role = "DepartmentOfficial"
	RoleAdmin              Role = "Admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleCitizen, RoleDepartmentOfficial, RoleAdmin:
		return true
	}
	return false
}

// User is a principal that can log in: a citizen, a department official or
// an administrator.
type User struct {
	ID           string `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string `gorm:"type:text" json:"name"`
	Email        string `gorm:"type:text;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:text;not null" json:"-"`
	Role         Role   `gorm:"type:text;not null" json:"role"`
	// Department is only meaningful for department officials.
	Department string `gorm:"type:text" json:"department,omitempty"`
}

// BeforeCreate is a GORM hook that generates a UUID for the user if the ID
// is not set yet.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
