package authclient

import (
	"encoding/base64"
	"strconv"
	"sync"
	"time"
)

// Storage keys for the credential record. expiresAt is stored as a plain
// epoch-millisecond integer; the tokens are stored obfuscated.
const (
	keyAccessToken  = "accessToken"
	keyRefreshToken = "refreshToken"
	keyExpiresAt    = "expiresAt"
	keyUser         = "user"
)

// fallbackTTL caps credential lifetime when the write lands in the
// fallback medium, which persists beyond the session.
const fallbackTTL = time.Hour

// TokenStore persists the credential record (access token, optional
// refresh token, expiry instant) across reloads of the client process.
//
// Tokens are stored obfuscated (byte reversal + base64). This is NOT
// encryption and provides no confidentiality against anything that can
// execute code in the client's context; it only keeps an obviously
// plaintext secret out of the storage medium.
//
// Expiry is enforced lazily at read time; there is no background timer.
// Every read degrades to the zero value on decode or storage errors, so
// callers never need error handling on the "do I have a token" path.
type TokenStore struct {
	mu       sync.Mutex
	primary  Storage
	fallback Storage
	now      func() time.Time
}

// NewTokenStore builds a store over a primary medium and an optional
// fallback used when primary writes fail. fallback may be nil.
func NewTokenStore(primary, fallback Storage) *TokenStore {
	return &TokenStore{
		primary:  primary,
		fallback: fallback,
		now:      time.Now,
	}
}

// SetClock overrides the time source. Tests only.
func (t *TokenStore) SetClock(now func() time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.now = now
}

// SetTokens writes the full credential record. From the caller's view
// the write is atomic: either all fields land or the record is unusable
// and reads return nothing. If the primary medium rejects the write, the
// record goes to the fallback with expiry clamped to one hour, narrowing
// the validity window in the longer-lived medium.
func (t *TokenStore) SetTokens(accessToken, refreshToken string, expiresAt time.Time) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	err := t.writeRecord(t.primary, accessToken, refreshToken, expiresAt)
	if err == nil {
		return nil
	}

	if t.fallback == nil {
		return err
	}

	ceiling := t.now().Add(fallbackTTL)
	if expiresAt.After(ceiling) {
		expiresAt = ceiling
	}
	return t.writeRecord(t.fallback, accessToken, refreshToken, expiresAt)
}

func (t *TokenStore) writeRecord(medium Storage, accessToken, refreshToken string, expiresAt time.Time) error {
	if medium == nil {
		return errNoStorage
	}
	if err := medium.Set(keyAccessToken, obfuscate(accessToken)); err != nil {
		return err
	}
	if refreshToken != "" {
		if err := medium.Set(keyRefreshToken, obfuscate(refreshToken)); err != nil {
			return err
		}
	} else {
		medium.Delete(keyRefreshToken)
	}
	return medium.Set(keyExpiresAt, strconv.FormatInt(expiresAt.UnixMilli(), 10))
}

// AccessToken returns the stored access token, or "" if no record
// exists, the record has expired, or it cannot be decoded. An expired
// record is cleared as a side effect.
func (t *TokenStore) AccessToken() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	expiresAt, ok := t.readExpiry()
	if !ok {
		return ""
	}
	if !t.now().Before(expiresAt) {
		t.clearLocked()
		return ""
	}

	raw, ok := t.get(keyAccessToken)
	if !ok {
		return ""
	}
	return deobfuscate(raw)
}

// RefreshToken returns the stored refresh token or "". Refresh tokens
// are not expiry-gated client side.
func (t *TokenStore) RefreshToken() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	raw, ok := t.get(keyRefreshToken)
	if !ok {
		return ""
	}
	return deobfuscate(raw)
}

// IsTokenValid checks only the expiry field. Cheaper than AccessToken
// for UI gating; performs no decode and no cleanup.
func (t *TokenStore) IsTokenValid() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	expiresAt, ok := t.readExpiry()
	return ok && t.now().Before(expiresAt)
}

// Clear wipes the credential record from every medium. Idempotent and
// never fails.
func (t *TokenStore) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clearLocked()
}

func (t *TokenStore) clearLocked() {
	for _, medium := range []Storage{t.primary, t.fallback} {
		if medium == nil {
			continue
		}
		medium.Delete(keyAccessToken)
		medium.Delete(keyRefreshToken)
		medium.Delete(keyExpiresAt)
	}
}

func (t *TokenStore) readExpiry() (time.Time, bool) {
	raw, ok := t.get(keyExpiresAt)
	if !ok {
		return time.Time{}, false
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(millis), true
}

// get reads from the primary medium first, then the fallback.
func (t *TokenStore) get(key string) (string, bool) {
	if t.primary != nil {
		if v, ok := t.primary.Get(key); ok {
			return v, true
		}
	}
	if t.fallback != nil {
		if v, ok := t.fallback.Get(key); ok {
			return v, true
		}
	}
	return "", false
}

// obfuscate reverses the bytes and base64-encodes them. See the
// TokenStore doc comment for what this does not protect.
func obfuscate(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return base64.StdEncoding.EncodeToString(b)
}

// deobfuscate inverts obfuscate, returning "" on any decode failure.
func deobfuscate(s string) string {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return ""
	}
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
