package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(password string) *AuthService {
	return NewAuthService("admin@chiiloo.com", password, "test-secret", time.Hour)
}

func TestAuthService_Login(t *testing.T) {
	svc := newAuthService("s3cret")

	token, err := svc.Login("admin@chiiloo.com", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, "admin@chiiloo.com", claims["sub"])
}

func TestAuthService_Login_EmailCaseInsensitive(t *testing.T) {
	svc := newAuthService("s3cret")
	_, err := svc.Login("  Admin@Chiiloo.COM ", "s3cret")
	assert.NoError(t, err)
}

func TestAuthService_Login_WrongCredentials(t *testing.T) {
	svc := newAuthService("s3cret")

	_, err := svc.Login("admin@chiiloo.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("other@chiiloo.com", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// password comparison is case-sensitive, unlike the email
	_, err = svc.Login("admin@chiiloo.com", "S3CRET")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_BcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	svc := newAuthService(string(hash))

	_, err = svc.Login("admin@chiiloo.com", "s3cret")
	assert.NoError(t, err)

	_, err = svc.Login("admin@chiiloo.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
