package users

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleClient Role = "CLIENT"
	RoleNurse  Role = "NURSE"
	RoleAdmin  Role = "ADMIN"
)

type Status string

const (
	StatusActive              Status = "ACTIVE"
	StatusInactive            Status = "INACTIVE"
	StatusSuspended           Status = "SUSPENDED"
	StatusPendingVerification Status = "PENDING_VERIFICATION"
)

type User struct {
	ID                uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	FirstName         string    `json:"first_name" gorm:"not null"`
	LastName          string    `json:"last_name" gorm:"not null"`
	Password          string    `json:"-" gorm:"not null"` // hide in json
	Role              Role      `json:"role" gorm:"not null;default:'CLIENT'"`
	Status            Status    `json:"status" gorm:"not null;default:'PENDING_VERIFICATION'"`
	Email             string    `json:"email" gorm:"uniqueIndex;not null"`
	Phone             string    `json:"phone"`
	PreferredLanguage string    `json:"preferred_language" gorm:"default:'en'"`
	EmailVerified     bool      `json:"email_verified" gorm:"default:false"`
	PhoneVerified     bool      `json:"phone_verified" gorm:"default:false"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func IsValidRole(role string) bool {
	switch role {
	case string(RoleClient), string(RoleNurse), string(RoleAdmin):
		return true
	default:
		return false
	}
}

// CanSignIn reports whether the account status permits a new session.
// Suspended and inactive accounts surface as locked at the API layer.
func (u *User) CanSignIn() bool {
	return u.Status == StatusActive || u.Status == StatusPendingVerification
}
