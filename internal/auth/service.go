package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"carebook/internal/notifications"
	"carebook/internal/shared/config"
	"carebook/internal/users"
	"carebook/pkg/logger"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrAccountLocked      = errors.New("account locked")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
)

type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest, clientIP string) (*AuthResponse, error)
	Logout(ctx context.Context, userID, email string)
	UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*UserResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	ValidateToken(tokenString string) (*JWTClaims, error)
}

type service struct {
	repo     Repository
	config   *config.Config
	lockout  *Lockout
	producer notifications.SecurityEventProducer
	log      *logger.Logger
}

// NewService wires the auth service. lockout and producer may be nil;
// both degrade to no-ops.
func NewService(repo Repository, cfg *config.Config, lockout *Lockout, producer notifications.SecurityEventProducer) Service {
	return &service{
		repo:     repo,
		config:   cfg,
		lockout:  lockout,
		producer: producer,
		log:      logger.GetDefault(),
	}
}

func (s *service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// Self-registration is limited to client and nurse accounts.
	role := strings.ToUpper(req.Role)
	if role == "" || role == string(users.RoleAdmin) || !users.IsValidRole(role) {
		role = string(users.RoleClient)
	}

	lang := req.PreferredLanguage
	if lang == "" {
		lang = "en"
	}

	user := &users.User{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             email,
		Phone:             req.Phone,
		Password:          string(hashedPassword),
		Role:              users.Role(role),
		Status:            users.StatusPendingVerification,
		PreferredLanguage: lang,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, notifications.NewSecurityEvent(notifications.SecurityEventRegistered, user.ID.String(), email, ""))

	tokenPair, err := s.generateTokenPair(user.ID.String(), user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         NewUserResponse(user),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

func (s *service) Login(ctx context.Context, req *LoginRequest, clientIP string) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	locked, err := s.lockout.IsLocked(ctx, email)
	if err != nil {
		s.log.ErrorWithContext(ctx, "lockout check failed", err, map[string]interface{}{"email": email})
	}
	if locked {
		return nil, ErrAccountLocked
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if err == ErrUserNotFound {
			s.recordFailure(ctx, email, clientIP)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		s.recordFailure(ctx, email, clientIP)
		return nil, ErrInvalidCredentials
	}

	if !user.CanSignIn() {
		return nil, ErrAccountLocked
	}

	s.lockout.Reset(ctx, email)
	s.log.LogAuthSuccess(ctx, user.ID.String(), "password")
	s.publishEvent(ctx, notifications.NewSecurityEvent(notifications.SecurityEventLoginSuccess, user.ID.String(), email, clientIP))

	tokenPair, err := s.generateTokenPair(user.ID.String(), user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         NewUserResponse(user),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// Logout is best effort bookkeeping. The client's forgetting of its
// credentials is the authoritative transition.
func (s *service) Logout(ctx context.Context, userID, email string) {
	s.publishEvent(ctx, notifications.NewSecurityEvent(notifications.SecurityEventLogout, userID, email, ""))
}

// UpdateProfile applies the non-empty fields of req to the stored user.
// Changing the phone number drops its verified flag.
func (s *service) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*UserResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Phone != "" && req.Phone != user.Phone {
		user.Phone = req.Phone
		user.PhoneVerified = false
	}
	if req.PreferredLanguage != "" {
		user.PreferredLanguage = req.PreferredLanguage
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	resp := NewUserResponse(user)
	return &resp, nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.validateToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if claims.Type != "refresh" {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if !user.CanSignIn() {
		return nil, ErrAccountLocked
	}

	return s.generateTokenPair(user.ID.String(), user.Email, string(user.Role))
}

func (s *service) ValidateToken(tokenString string) (*JWTClaims, error) {
	return s.validateToken(tokenString)
}

func (s *service) recordFailure(ctx context.Context, email, clientIP string) {
	s.log.LogAuthFailure(ctx, "invalid credentials", email)

	lockedNow, attempts, err := s.lockout.RecordFailure(ctx, email)
	if err != nil {
		s.log.ErrorWithContext(ctx, "failed to record login failure", err, map[string]interface{}{"email": email})
		return
	}

	event := notifications.NewSecurityEvent(notifications.SecurityEventLoginFailure, "", email, clientIP)
	event.Attempts = attempts
	s.publishEvent(ctx, event)

	if lockedNow {
		s.log.LogAccountLocked(ctx, email, int(attempts))
		s.publishEvent(ctx, notifications.NewSecurityEvent(notifications.SecurityEventAccountLocked, "", email, clientIP))
	}
}

func (s *service) publishEvent(ctx context.Context, event *notifications.SecurityEvent) {
	if s.producer == nil {
		return
	}
	if err := s.producer.PublishSecurityEvent(ctx, event); err != nil {
		s.log.ErrorWithContext(ctx, "failed to publish security event", err, map[string]interface{}{
			"event_type": string(event.Type),
		})
	}
}

func (s *service) generateTokenPair(userID, email, role string) (*TokenPair, error) {
	now := time.Now()

	accessClaims := JWTClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		Type:   "access",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.JWT.JWTExpiresIn)),
			Issuer:    "carebook",
			Subject:   userID,
		},
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessTokenString, err := accessToken.SignedString([]byte(s.config.JWT.Secret))
	if err != nil {
		return nil, err
	}

	refreshClaims := JWTClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		Type:   "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.JWT.RefreshExpiresIn)),
			Issuer:    "carebook",
			Subject:   userID,
		},
	}

	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	refreshTokenString, err := refreshToken.SignedString([]byte(s.config.JWT.Secret))
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessTokenString,
		RefreshToken: refreshTokenString,
		ExpiresIn:    int64(s.config.JWT.JWTExpiresIn.Seconds()),
	}, nil
}

func (s *service) validateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.config.JWT.Secret), nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
