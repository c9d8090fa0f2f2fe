package auth

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"carebook/internal/shared/config"
	"carebook/internal/users"
)

// fakeRepository is an in-memory Repository keyed by email.
type fakeRepository struct {
	byEmail   map[string]*users.User
	createErr error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{byEmail: make(map[string]*users.User)}
}

func (r *fakeRepository) CreateUser(_ context.Context, user *users.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	r.byEmail[user.Email] = user
	return nil
}

func (r *fakeRepository) GetUserByEmail(_ context.Context, email string) (*users.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (r *fakeRepository) GetUserByID(_ context.Context, id string) (*users.User, error) {
	for _, user := range r.byEmail {
		if user.ID.String() == id {
			return user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeRepository) UpdateUser(_ context.Context, user *users.User) error {
	r.byEmail[user.Email] = user
	return nil
}

func (r *fakeRepository) EmailExists(_ context.Context, email string) (bool, error) {
	_, ok := r.byEmail[email]
	return ok, nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-secret-key-at-least-32-bytes-long",
			JWTExpiresIn:     15 * time.Minute,
			RefreshExpiresIn: 24 * time.Hour,
		},
	}
}

func seedUser(t *testing.T, repo *fakeRepository, email, password string, role users.Role, status users.Status) *users.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &users.User{
		ID:        uuid.New(),
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     email,
		Password:  string(hash),
		Role:      role,
		Status:    status,
	}
	repo.byEmail[email] = user
	return user
}

func TestService_Login(t *testing.T) {
	repo := newFakeRepository()
	seedUser(t, repo, "jane@example.com", "Password123!", users.RoleClient, users.StatusActive)
	seedUser(t, repo, "frozen@example.com", "Password123!", users.RoleClient, users.StatusSuspended)
	svc := NewService(repo, testConfig(), nil, nil)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"success", "jane@example.com", "Password123!", nil},
		{"email is normalized", "  JANE@Example.COM ", "Password123!", nil},
		{"wrong password", "jane@example.com", "nope-nope", ErrInvalidCredentials},
		{"unknown email", "ghost@example.com", "Password123!", ErrInvalidCredentials},
		{"suspended account", "frozen@example.com", "Password123!", ErrAccountLocked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Login(context.Background(), &LoginRequest{Email: tt.email, Password: tt.password}, "10.0.0.1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resp)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "jane@example.com", resp.User.Email)
			assert.Equal(t, "client", resp.User.Role)
			assert.NotEmpty(t, resp.AccessToken)
			assert.NotEmpty(t, resp.RefreshToken)
			assert.Equal(t, int64(900), resp.ExpiresIn)
		})
	}
}

func TestService_LoginTokenClaims(t *testing.T) {
	repo := newFakeRepository()
	user := seedUser(t, repo, "jane@example.com", "Password123!", users.RoleNurse, users.StatusActive)
	svc := NewService(repo, testConfig(), nil, nil)

	resp, err := svc.Login(context.Background(), &LoginRequest{Email: "jane@example.com", Password: "Password123!"}, "")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "NURSE", claims.Role)
	assert.Equal(t, "access", claims.Type)
	assert.Equal(t, "carebook", claims.Issuer)
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name       string
		req        RegisterRequest
		wantErr    error
		wantRole   users.Role
		wantStatus users.Status
	}{
		{
			name: "client by default",
			req: RegisterRequest{
				FirstName: "Jane", LastName: "Doe",
				Email: "Jane@Example.com", Password: "Password123!", ConfirmPassword: "Password123!",
			},
			wantRole:   users.RoleClient,
			wantStatus: users.StatusPendingVerification,
		},
		{
			name: "nurse self-registration allowed",
			req: RegisterRequest{
				FirstName: "Nia", LastName: "Okafor",
				Email: "nia@example.com", Password: "Password123!", ConfirmPassword: "Password123!",
				Role: "nurse",
			},
			wantRole:   users.RoleNurse,
			wantStatus: users.StatusPendingVerification,
		},
		{
			name: "admin self-registration downgraded to client",
			req: RegisterRequest{
				FirstName: "Eve", LastName: "Liu",
				Email: "eve@example.com", Password: "Password123!", ConfirmPassword: "Password123!",
				Role: "admin",
			},
			wantRole:   users.RoleClient,
			wantStatus: users.StatusPendingVerification,
		},
		{
			name: "unknown role downgraded to client",
			req: RegisterRequest{
				FirstName: "Sam", LastName: "Khan",
				Email: "sam@example.com", Password: "Password123!", ConfirmPassword: "Password123!",
				Role: "superuser",
			},
			wantRole:   users.RoleClient,
			wantStatus: users.StatusPendingVerification,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepository()
			svc := NewService(repo, testConfig(), nil, nil)

			resp, err := svc.Register(context.Background(), &tt.req)
			require.NoError(t, err)

			stored := repo.byEmail[resp.User.Email]
			require.NotNil(t, stored)
			assert.Equal(t, tt.wantRole, stored.Role)
			assert.Equal(t, tt.wantStatus, stored.Status)
			// The stored password is a hash of the submitted one.
			assert.NotEqual(t, tt.req.Password, stored.Password)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte(tt.req.Password)))
			assert.NotEmpty(t, resp.AccessToken)
		})
	}
}

func TestService_RegisterDuplicateEmail(t *testing.T) {
	repo := newFakeRepository()
	seedUser(t, repo, "jane@example.com", "Password123!", users.RoleClient, users.StatusActive)
	svc := NewService(repo, testConfig(), nil, nil)

	_, err := svc.Register(context.Background(), &RegisterRequest{
		FirstName: "Jane", LastName: "Doe",
		Email: "JANE@example.com", Password: "Password123!", ConfirmPassword: "Password123!",
	})
	require.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestService_RefreshToken(t *testing.T) {
	repo := newFakeRepository()
	seedUser(t, repo, "jane@example.com", "Password123!", users.RoleClient, users.StatusActive)
	svc := NewService(repo, testConfig(), nil, nil)

	resp, err := svc.Login(context.Background(), &LoginRequest{Email: "jane@example.com", Password: "Password123!"}, "")
	require.NoError(t, err)

	t.Run("valid refresh token yields a new pair", func(t *testing.T) {
		pair, err := svc.RefreshToken(context.Background(), resp.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)

		claims, err := svc.ValidateToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "access", claims.Type)

		// The refresh payload uses the same camelCase keys as login and
		// register, so one client-side decoder covers all three.
		wire, err := json.Marshal(pair)
		require.NoError(t, err)
		var keys map[string]interface{}
		require.NoError(t, json.Unmarshal(wire, &keys))
		assert.Contains(t, keys, "accessToken")
		assert.Contains(t, keys, "refreshToken")
		assert.Contains(t, keys, "expiresIn")
	})

	t.Run("access token is rejected as refresh token", func(t *testing.T) {
		_, err := svc.RefreshToken(context.Background(), resp.AccessToken)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		_, err := svc.RefreshToken(context.Background(), "not.a.jwt")
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("token signed with another key is rejected", func(t *testing.T) {
		otherCfg := testConfig()
		otherCfg.JWT.Secret = "a-completely-different-signing-key!!"
		otherSvc := NewService(repo, otherCfg, nil, nil)

		otherResp, err := otherSvc.Login(context.Background(), &LoginRequest{Email: "jane@example.com", Password: "Password123!"}, "")
		require.NoError(t, err)

		_, err = svc.RefreshToken(context.Background(), otherResp.RefreshToken)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("refresh denied once account can no longer sign in", func(t *testing.T) {
		user := repo.byEmail["jane@example.com"]
		user.Status = users.StatusSuspended
		defer func() { user.Status = users.StatusActive }()

		_, err := svc.RefreshToken(context.Background(), resp.RefreshToken)
		require.ErrorIs(t, err, ErrAccountLocked)
	})
}

func TestService_UpdateProfile(t *testing.T) {
	repo := newFakeRepository()
	user := seedUser(t, repo, "jane@example.com", "Password123!", users.RoleClient, users.StatusActive)
	user.Phone = "+15145550100"
	user.PhoneVerified = true
	svc := NewService(repo, testConfig(), nil, nil)

	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		resp, err := svc.UpdateProfile(context.Background(), user.ID.String(), &UpdateProfileRequest{
			FirstName: "Janet",
		})
		require.NoError(t, err)
		assert.Equal(t, "Janet", resp.FirstName)
		assert.Equal(t, "Doe", resp.LastName)
		assert.Equal(t, "+15145550100", resp.Phone)
		assert.True(t, resp.PhoneVerified)

		stored := repo.byEmail["jane@example.com"]
		assert.Equal(t, "Janet", stored.FirstName)
	})

	t.Run("changing phone drops verification", func(t *testing.T) {
		resp, err := svc.UpdateProfile(context.Background(), user.ID.String(), &UpdateProfileRequest{
			Phone: "+15145550199",
		})
		require.NoError(t, err)
		assert.Equal(t, "+15145550199", resp.Phone)
		assert.False(t, resp.PhoneVerified)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.UpdateProfile(context.Background(), uuid.NewString(), &UpdateProfileRequest{FirstName: "Nobody"})
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestService_ValidateTokenExpired(t *testing.T) {
	repo := newFakeRepository()
	seedUser(t, repo, "jane@example.com", "Password123!", users.RoleClient, users.StatusActive)

	cfg := testConfig()
	cfg.JWT.JWTExpiresIn = -time.Minute
	svc := NewService(repo, cfg, nil, nil)

	resp, err := svc.Login(context.Background(), &LoginRequest{Email: "jane@example.com", Password: "Password123!"}, "")
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}
