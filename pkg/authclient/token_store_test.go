package authclient

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStorage rejects every write.
type failingStorage struct{}

func (failingStorage) Get(string) (string, bool) { return "", false }
func (failingStorage) Set(string, string) error  { return errors.New("quota exceeded") }
func (failingStorage) Delete(string)             {}

func newTestStore(primary, fallback Storage, at time.Time) *TokenStore {
	store := NewTokenStore(primary, fallback)
	store.SetClock(func() time.Time { return at })
	return store
}

func TestTokenStore_SetAndGet(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newTestStore(NewMemoryStorage(), nil, now)

	require.NoError(t, store.SetTokens("access-abc", "refresh-xyz", now.Add(time.Hour)))

	assert.Equal(t, "access-abc", store.AccessToken())
	assert.Equal(t, "refresh-xyz", store.RefreshToken())
	assert.True(t, store.IsTokenValid())
}

func TestTokenStore_TokensAreObfuscatedAtRest(t *testing.T) {
	now := time.Now()
	primary := NewMemoryStorage()
	store := newTestStore(primary, nil, now)

	require.NoError(t, store.SetTokens("access-abc", "", now.Add(time.Hour)))

	raw, ok := primary.Get("accessToken")
	require.True(t, ok)
	assert.NotEqual(t, "access-abc", raw)
	assert.NotContains(t, raw, "access")
	assert.Equal(t, "access-abc", deobfuscate(raw))
}

func TestTokenStore_ExpiredTokenReadsAsAbsent(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	primary := NewMemoryStorage()
	store := NewTokenStore(primary, nil)
	current := now
	store.SetClock(func() time.Time { return current })

	require.NoError(t, store.SetTokens("access-abc", "refresh-xyz", now.Add(time.Minute)))
	assert.Equal(t, "access-abc", store.AccessToken())

	current = now.Add(2 * time.Minute)
	assert.Empty(t, store.AccessToken())
	assert.False(t, store.IsTokenValid())

	// Expired reads clear the record from the medium entirely.
	_, ok := primary.Get("accessToken")
	assert.False(t, ok)
	_, ok = primary.Get("expiresAt")
	assert.False(t, ok)
}

func TestTokenStore_ExpiryBoundaryIsExclusive(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newTestStore(NewMemoryStorage(), nil, now)

	// expiresAt == now means expired, not valid.
	require.NoError(t, store.SetTokens("access-abc", "", now))
	assert.Empty(t, store.AccessToken())
	assert.False(t, store.IsTokenValid())
}

func TestTokenStore_FallbackWriteClampsExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fallback := NewMemoryStorage()
	store := NewTokenStore(failingStorage{}, fallback)
	current := now
	store.SetClock(func() time.Time { return current })

	// Backend grants 24h, but a fallback-medium record is capped at 1h.
	require.NoError(t, store.SetTokens("access-abc", "refresh-xyz", now.Add(24*time.Hour)))
	assert.Equal(t, "access-abc", store.AccessToken())

	current = now.Add(59 * time.Minute)
	assert.True(t, store.IsTokenValid())

	current = now.Add(61 * time.Minute)
	assert.False(t, store.IsTokenValid())
	assert.Empty(t, store.AccessToken())
}

func TestTokenStore_FallbackKeepsShorterExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := newTestStore(failingStorage{}, NewMemoryStorage(), now)

	// A grant shorter than the fallback cap is kept as-is.
	require.NoError(t, store.SetTokens("access-abc", "", now.Add(10*time.Minute)))

	expiry, ok := store.readExpiry()
	require.True(t, ok)
	assert.Equal(t, now.Add(10*time.Minute).UnixMilli(), expiry.UnixMilli())
}

func TestTokenStore_NoFallbackPropagatesWriteError(t *testing.T) {
	store := NewTokenStore(failingStorage{}, nil)
	err := store.SetTokens("access-abc", "", time.Now().Add(time.Hour))
	require.Error(t, err)
	assert.Empty(t, store.AccessToken())
}

func TestTokenStore_CorruptRecordReadsAsAbsent(t *testing.T) {
	now := time.Now()
	primary := NewMemoryStorage()
	store := newTestStore(primary, nil, now)

	tests := []struct {
		name  string
		setup func()
	}{
		{
			name: "garbage token value",
			setup: func() {
				require.NoError(t, primary.Set("accessToken", "%%not-base64%%"))
				require.NoError(t, primary.Set("expiresAt", "4102444800000"))
			},
		},
		{
			name: "garbage expiry value",
			setup: func() {
				require.NoError(t, primary.Set("accessToken", obfuscate("access-abc")))
				require.NoError(t, primary.Set("expiresAt", "not-a-number"))
			},
		},
		{
			name: "missing expiry",
			setup: func() {
				require.NoError(t, primary.Set("accessToken", obfuscate("access-abc")))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store.Clear()
			tt.setup()
			assert.Empty(t, store.AccessToken())
			assert.False(t, store.IsTokenValid())
		})
	}
}

func TestTokenStore_ClearIsIdempotent(t *testing.T) {
	now := time.Now()
	store := newTestStore(NewMemoryStorage(), NewMemoryStorage(), now)

	require.NoError(t, store.SetTokens("access-abc", "refresh-xyz", now.Add(time.Hour)))
	store.Clear()
	store.Clear()

	assert.Empty(t, store.AccessToken())
	assert.Empty(t, store.RefreshToken())
	assert.False(t, store.IsTokenValid())
}

func TestTokenStore_EmptyRefreshTokenRemovesStoredOne(t *testing.T) {
	now := time.Now()
	store := newTestStore(NewMemoryStorage(), nil, now)

	require.NoError(t, store.SetTokens("a1", "r1", now.Add(time.Hour)))
	require.NoError(t, store.SetTokens("a2", "", now.Add(time.Hour)))

	assert.Equal(t, "a2", store.AccessToken())
	assert.Empty(t, store.RefreshToken())
}

func TestObfuscateRoundTrip(t *testing.T) {
	for _, s := range []string{"", "a", "eyJhbGciOiJIUzI1NiJ9.payload.sig", "ünïcode-ţoken"} {
		assert.Equal(t, s, deobfuscate(obfuscate(s)))
	}
}
