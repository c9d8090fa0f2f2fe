package authclient

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"carebook/pkg/logger"
)

// Manager owns the client's belief about who is logged in. It is the
// only writer of the session and the token store; everything else reads
// through its read model (Current, IsAuthenticated, Loading).
//
// Construct one per application root and pass it by reference; it is
// deliberately not a package-level singleton so tests can build
// isolated instances.
type Manager struct {
	mu      sync.Mutex
	gw      *Gateway
	tokens  *TokenStore
	storage Storage
	log     *logger.Logger

	session *Session
	loading bool

	// handling401 collapses concurrent forced-logout triggers from
	// multiple in-flight 401 responses into a single transition.
	handling401 atomic.Bool
}

// NewManager hydrates session state from local storage and registers
// itself as the gateway's forced-logout handler.
//
// Hydration trusts only client-side expiry: the token is not
// re-verified against the backend, so server-side revocation is caught
// on the first authenticated call (via 401) rather than at startup.
func NewManager(gw *Gateway, tokens *TokenStore, storage Storage) *Manager {
	m := &Manager{
		gw:      gw,
		tokens:  tokens,
		storage: storage,
		log:     logger.GetDefault(),
		loading: true,
	}
	gw.SetUnauthorizedHandler(m.handleUnauthorized)
	m.hydrate()
	return m
}

// hydrate restores the session from the persisted user mirror if a
// valid credential record exists. The mirror is an untrusted cache:
// anything that fails the minimal shape check is discarded silently.
func (m *Manager) hydrate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.loading = false }()

	if !m.tokens.IsTokenValid() {
		m.tokens.Clear()
		m.storage.Delete(keyUser)
		return
	}

	raw, ok := m.storage.Get(keyUser)
	if !ok {
		return
	}

	var session Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil || !session.valid() {
		m.storage.Delete(keyUser)
		return
	}

	m.session = &session
}

// Loading reports whether hydration is still in progress.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// IsAuthenticated is derived from session presence and nothing else.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != nil
}

// Current returns a copy of the session, or nil when anonymous.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	copied := *m.session
	return &copied
}

// GuardState snapshots the read model for the access guard.
func (m *Manager) GuardState() GuardState {
	m.mu.Lock()
	defer m.mu.Unlock()
	state := GuardState{Loading: m.loading, Authenticated: m.session != nil}
	if m.session != nil {
		state.Role = m.session.Role
	}
	return state
}

// Login authenticates with email and password. It never panics and
// every failure is an *AuthError with a user-facing message.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return validationError("Email and password are required.")
	}

	var envelope authEnvelope
	err := m.gw.Post(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &envelope)
	if err != nil {
		return mapRequestError(err, map[int]string{
			401: "Invalid email or password.",
			423: "Account is locked. Try again later.",
		})
	}

	return m.establishSession(&envelope.Data)
}

// Register creates an account and signs in. Field presence and the
// password confirmation are checked locally before any network call.
func (m *Manager) Register(ctx context.Context, input RegisterInput) error {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.FirstName == "" || input.LastName == "" || input.Email == "" || input.Password == "" {
		return validationError("All required fields must be filled in.")
	}
	if input.Password != input.ConfirmPassword {
		return validationError("Passwords do not match.")
	}

	var envelope authEnvelope
	err := m.gw.Post(ctx, "/auth/register", input, &envelope)
	if err != nil {
		return mapRequestError(err, map[int]string{
			409: "An account with this email already exists.",
			422: "Validation failed. Check your details.",
		})
	}

	return m.establishSession(&envelope.Data)
}

// establishSession commits a successful auth response: credential write
// first, session visibility second, so there is no window where
// IsAuthenticated is true while the token store is empty.
func (m *Manager) establishSession(payload *authPayload) error {
	if payload.AccessToken == "" || !payload.User.valid() {
		m.log.Error("auth response failed schema validation",
			"has_token", payload.AccessToken != "",
			"user_id", payload.User.ID,
		)
		return &AuthError{Kind: KindServer, Message: "Unexpected server response. Please try again."}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	expiresAt := time.Now().Add(time.Duration(payload.ExpiresIn) * time.Second)
	if err := m.tokens.SetTokens(payload.AccessToken, payload.RefreshToken, expiresAt); err != nil {
		return &AuthError{Kind: KindServer, Message: "Unable to save your session. Please try again."}
	}

	session := payload.User
	m.persistMirror(&session)
	m.session = &session
	return nil
}

// Logout clears local state immediately and notifies the backend on a
// best-effort basis. The local transition is authoritative: a failed or
// slow backend call never blocks or reverses it. Idempotent.
func (m *Manager) Logout() {
	m.mu.Lock()
	hadSession := m.session != nil
	m.session = nil
	m.storage.Delete(keyUser)
	m.tokens.Clear()
	m.mu.Unlock()

	if !hadSession {
		return
	}

	// Fire and forget. The token is already gone locally, so this call
	// goes out unauthenticated; the backend treats logout as advisory.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = m.gw.Do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	}()
}

// UpdateSession shallow-merges the patch into the current session and
// re-persists the mirror. No-op when anonymous.
func (m *Manager) UpdateSession(patch SessionPatch) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return
	}

	if patch.FirstName != nil {
		m.session.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		m.session.LastName = *patch.LastName
	}
	if patch.Phone != nil {
		m.session.Phone = *patch.Phone
	}
	if patch.PreferredLanguage != nil {
		m.session.PreferredLanguage = *patch.PreferredLanguage
	}
	if patch.EmailVerified != nil {
		m.session.EmailVerified = *patch.EmailVerified
	}
	if patch.PhoneVerified != nil {
		m.session.PhoneVerified = *patch.PhoneVerified
	}

	m.persistMirror(m.session)
}

// handleUnauthorized is the forced-logout path for 401 responses.
// Idempotent under concurrent invocation: the first caller performs the
// transition, the rest return immediately. No backend notification, the
// backend already said no.
func (m *Manager) handleUnauthorized() {
	if !m.handling401.CompareAndSwap(false, true) {
		return
	}
	defer m.handling401.Store(false)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	m.storage.Delete(keyUser)
	m.tokens.Clear()
}

// persistMirror writes the user mirror. Callers hold m.mu. A failed
// write only costs instant rehydration on the next reload.
func (m *Manager) persistMirror(session *Session) {
	data, err := json.Marshal(session)
	if err != nil {
		return
	}
	if err := m.storage.Set(keyUser, string(data)); err != nil {
		m.log.Warn("failed to persist user mirror", "error", err)
	}
}
