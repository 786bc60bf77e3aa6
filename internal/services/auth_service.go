package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"warung-pos/config"
	"warung-pos/internal/domain/profile"
	"warung-pos/internal/domain/user"
	"warung-pos/internal/repository"
	warung_errors "warung-pos/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	jwtSecret   []byte
	accessTTL   time.Duration
}

func NewAuthService(userRepo repository.UserRepository, profileRepo repository.ProfileRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		jwtSecret:   []byte(cfg.JWTSecret),
		accessTTL:   time.Duration(cfg.JWTExpiryMin) * time.Minute,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
	Role     string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResponse struct {
	AccessToken string   `json:"access_token"`
	ExpiresIn   int64    `json:"expires_in"`
	SessionID   string   `json:"session_id"`
	User        UserInfo `json:"user"`
}

type UserInfo struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type AccessClaims struct {
	UserID    string `json:"sub"`
	SessionID string `json:"sid"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResponse, error) {
	if err := validateRegister(in); err != nil {
		return AuthResponse{}, err
	}

	if _, err := s.userRepo.GetByEmail(ctx, strings.ToLower(in.Email)); err == nil {
		return AuthResponse{}, warung_errors.ErrAlreadyExists
	} else if !errors.Is(err, warung_errors.ErrNotFound) {
		return AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	now := time.Now()
	newUser := &user.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(in.Email),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return AuthResponse{}, err
	}

	role := in.Role
	if role == "" {
		role = profile.RoleCashier
	}
	newProfile := &profile.Profile{
		ID:        uuid.New(),
		UserID:    newUser.ID,
		FullName:  in.FullName,
		Phone:     toNullString(in.Phone),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.profileRepo.Create(ctx, newProfile); err != nil {
		return AuthResponse{}, err
	}

	return s.issueSession(ctx, *newUser, *newProfile)
}

func (s *AuthService) Login(ctx context.Context, in LoginInput) (AuthResponse, error) {
	if in.Email == "" || in.Password == "" {
		return AuthResponse{}, warung_errors.ErrInvalidInput
	}

	u, err := s.userRepo.GetByEmail(ctx, strings.ToLower(in.Email))
	if err != nil {
		if errors.Is(err, warung_errors.ErrNotFound) {
			return AuthResponse{}, warung_errors.ErrUnauthorized
		}
		return AuthResponse{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		return AuthResponse{}, warung_errors.ErrUnauthorized
	}

	p, err := s.profileRepo.GetByUserID(ctx, u.ID)
	if err != nil {
		return AuthResponse{}, err
	}

	return s.issueSession(ctx, u, p)
}

func (s *AuthService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	return s.userRepo.RevokeSession(ctx, sessionID)
}

// LogoutAll revokes every session the user holds.
func (s *AuthService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return s.userRepo.RevokeUserSessions(ctx, userID)
}

// ValidateToken parses and verifies an access token, then checks that its
// session is still live.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (AccessClaims, error) {
	claims := AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, warung_errors.ErrUnauthorized
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return AccessClaims{}, warung_errors.ErrUnauthorized
	}

	sessionID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return AccessClaims{}, warung_errors.ErrUnauthorized
	}
	session, err := s.userRepo.GetSession(ctx, sessionID)
	if err != nil {
		return AccessClaims{}, warung_errors.ErrUnauthorized
	}
	if session.RevokedAt.Valid || time.Now().After(session.ExpiresAt) {
		return AccessClaims{}, warung_errors.ErrUnauthorized
	}
	return claims, nil
}

func (s *AuthService) issueSession(ctx context.Context, u user.User, p profile.Profile) (AuthResponse, error) {
	now := time.Now()
	session := &user.UserSession{
		ID:        uuid.New(),
		UserID:    u.ID,
		ExpiresAt: now.Add(s.accessTTL),
		CreatedAt: now,
	}
	if err := s.userRepo.CreateSession(ctx, session); err != nil {
		return AuthResponse{}, err
	}

	claims := AccessClaims{
		UserID:    u.ID.String(),
		SessionID: session.ID.String(),
		Role:      p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return AuthResponse{}, err
	}

	return AuthResponse{
		AccessToken: signed,
		ExpiresIn:   int64(s.accessTTL.Seconds()),
		SessionID:   session.ID.String(),
		User: UserInfo{
			ID:       u.ID.String(),
			Email:    u.Email,
			FullName: p.FullName,
			Role:     p.Role,
		},
	}, nil
}

func validateRegister(in RegisterInput) error {
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return warung_errors.ErrInvalidInput
	}
	if len(in.Password) < 8 {
		return warung_errors.ErrInvalidInput
	}
	if strings.TrimSpace(in.FullName) == "" {
		return warung_errors.ErrInvalidInput
	}
	switch in.Role {
	case "", profile.RoleAdmin, profile.RoleCashier, profile.RoleDeliverer:
		return nil
	}
	return warung_errors.ErrInvalidInput
}

func toNullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}
