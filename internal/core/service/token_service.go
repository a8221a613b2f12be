package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/theagilemonkeys/crm-api/internal/core/domain"
)

// TokenService mints HS256 bearer tokens for the configured bootstrap
// admin account. Tokens carry the same claim shape as identity-provider
// tokens (sub, preferred_username, groups) so they flow through the shared
// verification and resolution path.
type TokenService struct {
	adminLogin string
	adminHash  string
	jwtSecret  string
	tokenTTL   time.Duration
}

func NewTokenService(adminLogin, adminHash, jwtSecret string, tokenTTL time.Duration) *TokenService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &TokenService{
		adminLogin: strings.ToLower(adminLogin),
		adminHash:  adminHash,
		jwtSecret:  jwtSecret,
		tokenTTL:   tokenTTL,
	}
}

func (s *TokenService) Authenticate(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" || s.adminHash == "" {
		return "", domain.ErrInvalidCredentials
	}
	if strings.ToLower(username) != s.adminLogin {
		return "", domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(s.adminHash), []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"sub":                s.adminLogin,
		"preferred_username": s.adminLogin,
		"groups":             []string{string(domain.RoleAdmin)},
		"exp":                time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
