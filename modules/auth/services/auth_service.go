package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/cmdvault/cmdvault/modules/auth/domain/entities/user"
	"github.com/cmdvault/cmdvault/pkg/configuration"
	"github.com/cmdvault/cmdvault/pkg/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

type TokenPair struct {
	Access  string
	Refresh string
}

type AuthService struct {
	repo user.Repository
}

func NewAuthService(repo user.Repository) *AuthService {
	return &AuthService{repo: repo}
}

func (s *AuthService) Register(ctx context.Context, username, password string) (user.User, error) {
	if len(password) < 8 {
		return user.User{}, ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return user.User{}, err
	}
	return s.repo.Create(ctx, user.New(username, string(hash)))
}

func (s *AuthService) Login(ctx context.Context, username, password string) (TokenPair, error) {
	u, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, user.ErrNotFound) {
		return TokenPair{}, ErrInvalidCredentials
	}
	if err != nil {
		return TokenPair{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash()), []byte(password)) != nil {
		return TokenPair{}, ErrInvalidCredentials
	}

	conf := configuration.Use()
	access, err := s.issueToken(u, middleware.TokenKindAccess, conf.JWT.AccessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.issueToken(u, middleware.TokenKindRefresh, conf.JWT.RefreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh mints a new access token from a valid refresh token. The refresh
// token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	conf := configuration.Use()
	claims, err := middleware.ParseToken(refreshToken, conf.JWT.Secret)
	if err != nil || claims.Kind != middleware.TokenKindRefresh {
		return "", ErrInvalidToken
	}

	u, err := s.repo.GetByID(ctx, claims.UserID)
	if errors.Is(err, user.ErrNotFound) {
		return "", ErrInvalidToken
	}
	if err != nil {
		return "", err
	}
	return s.issueToken(u, middleware.TokenKindAccess, conf.JWT.AccessTTL)
}

func (s *AuthService) issueToken(u user.User, kind string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := middleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:   u.ID(),
		Username: u.Username(),
		Kind:     kind,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(configuration.Use().JWT.Secret))
}
