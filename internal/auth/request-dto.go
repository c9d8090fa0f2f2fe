package auth

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	FirstName         string `json:"firstName" validate:"required,min=2,max=100"`
	LastName          string `json:"lastName" validate:"required,min=2,max=100"`
	Email             string `json:"email" validate:"required,email"`
	Phone             string `json:"phone" validate:"omitempty,min=7,max=20"`
	Password          string `json:"password" validate:"required,min=8"`
	ConfirmPassword   string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Role              string `json:"role,omitempty"` // Optional, defaults to "client"
	PreferredLanguage string `json:"preferredLanguage,omitempty"`
}

// UpdateProfileRequest updates mutable profile fields. Empty fields
// are left unchanged.
type UpdateProfileRequest struct {
	FirstName         string `json:"firstName" validate:"omitempty,min=2,max=100"`
	LastName          string `json:"lastName" validate:"omitempty,min=2,max=100"`
	Phone             string `json:"phone" validate:"omitempty,min=7,max=20"`
	PreferredLanguage string `json:"preferredLanguage" validate:"omitempty,min=2,max=8"`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// LogoutRequest represents logout request
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}
