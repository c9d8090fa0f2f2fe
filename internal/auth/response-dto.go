package auth

import (
	"strings"
	"time"

	"carebook/internal/users"
)

// AuthResponse is the success payload for login, register and refresh.
// The shape is deliberately narrow: clients validate it field by field,
// so no alternative key names are emitted.
type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int64        `json:"expiresIn"`
}

// UserResponse represents user data in responses (without sensitive info)
type UserResponse struct {
	ID                string    `json:"id"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone,omitempty"`
	Role              string    `json:"role"`
	Status            string    `json:"status"`
	PreferredLanguage string    `json:"preferredLanguage,omitempty"`
	EmailVerified     bool      `json:"emailVerified"`
	PhoneVerified     bool      `json:"phoneVerified"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// NewUserResponse maps the stored user onto the API shape. Role and
// status enums are stored uppercase and exposed lowercase.
func NewUserResponse(user *users.User) UserResponse {
	return UserResponse{
		ID:                user.ID.String(),
		FirstName:         user.FirstName,
		LastName:          user.LastName,
		Email:             user.Email,
		Phone:             user.Phone,
		Role:              strings.ToLower(string(user.Role)),
		Status:            strings.ToLower(string(user.Status)),
		PreferredLanguage: user.PreferredLanguage,
		EmailVerified:     user.EmailVerified,
		PhoneVerified:     user.PhoneVerified,
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
	}
}
