package service

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService gates the admin dashboard behind the single configured
// email/password pair and issues JWTs for it. There is no user store: the
// credential comparison against two configured secrets mirrors the original
// dashboard and is not a production-grade auth system.
type AuthService struct {
	adminEmail    string
	adminPassword string
	jwtSecret     []byte
	jwtExpiry     time.Duration
}

func NewAuthService(adminEmail, adminPassword, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		adminEmail:    adminEmail,
		adminPassword: adminPassword,
		jwtSecret:     []byte(jwtSecret),
		jwtExpiry:     jwtExpiry,
	}
}

// Login checks the pair and returns a signed admin token. Email matches
// case-insensitively; the configured password may be plaintext (compared in
// constant time) or a bcrypt hash.
func (s *AuthService) Login(email, password string) (string, error) {
	if !strings.EqualFold(strings.TrimSpace(email), s.adminEmail) {
		return "", ErrInvalidCredentials
	}
	if !s.passwordMatches(password) {
		return "", ErrInvalidCredentials
	}
	return s.generateToken()
}

func (s *AuthService) passwordMatches(password string) bool {
	if strings.HasPrefix(s.adminPassword, "$2a$") || strings.HasPrefix(s.adminPassword, "$2b$") {
		return bcrypt.CompareHashAndPassword([]byte(s.adminPassword), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(s.adminPassword), []byte(password)) == 1
}

func (s *AuthService) generateToken() (string, error) {
	claims := jwt.MapClaims{
		"sub":  s.adminEmail,
		"role": "admin",
		"exp":  time.Now().Add(s.jwtExpiry).Unix(),
		"iat":  time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}
