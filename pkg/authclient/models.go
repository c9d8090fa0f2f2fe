package authclient

// Role is the client-side role vocabulary. The backend stores uppercase
// enums and exposes lowercase at the API boundary.
type Role string

const (
	RoleClient Role = "client"
	RoleNurse  Role = "nurse"
	RoleAdmin  Role = "admin"
)

// Session is the in-memory identity of the signed-in user. It is
// derived from, but distinct from, the stored credential record.
type Session struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Phone             string `json:"phone,omitempty"`
	Role              Role   `json:"role"`
	Status            string `json:"status"`
	PreferredLanguage string `json:"preferredLanguage,omitempty"`
	EmailVerified     bool   `json:"emailVerified"`
	PhoneVerified     bool   `json:"phoneVerified"`
}

// valid is the minimal shape check applied to a session loaded from the
// untrusted local mirror or a backend payload.
func (s *Session) valid() bool {
	return s != nil && s.ID != "" && s.Email != ""
}

// SessionPatch is a shallow partial update of Session fields. Nil
// fields are left untouched.
type SessionPatch struct {
	FirstName         *string
	LastName          *string
	Phone             *string
	PreferredLanguage *string
	EmailVerified     *bool
	PhoneVerified     *bool
}

// RegisterInput is the registration form content.
type RegisterInput struct {
	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Email             string `json:"email"`
	Phone             string `json:"phone,omitempty"`
	Password          string `json:"password"`
	ConfirmPassword   string `json:"confirmPassword"`
	Role              string `json:"role,omitempty"`
	PreferredLanguage string `json:"preferredLanguage,omitempty"`
}

// authPayload is the exact success shape of login, register and
// refresh. No alternative key names are accepted: a response that does
// not match is rejected at this boundary rather than guessed at.
type authPayload struct {
	User         Session `json:"user"`
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
	ExpiresIn    int64   `json:"expiresIn"`
}

// authEnvelope is the backend's standard response wrapper around
// authPayload.
type authEnvelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    authPayload `json:"data"`
}
