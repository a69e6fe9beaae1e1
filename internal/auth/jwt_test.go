package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-0123456789"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestNewValidator_ValidToken(t *testing.T) {
	validate := NewValidator(testSecret)
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":   "user-42",
		"email": "shopper@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	claims, err := validate(token)

	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.UserID)
	assert.Equal(t, "shopper@example.com", claims.Email)
}

func TestNewValidator_WrongSecret(t *testing.T) {
	validate := NewValidator(testSecret)
	token := signToken(t, "other-secret", jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := validate(token)

	assert.Error(t, err)
}

func TestNewValidator_ExpiredToken(t *testing.T) {
	validate := NewValidator(testSecret)
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := validate(token)

	assert.Error(t, err)
}

func TestNewValidator_MissingSubject(t *testing.T) {
	validate := NewValidator(testSecret)
	token := signToken(t, testSecret, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := validate(token)

	assert.Error(t, err)
}

func TestNewValidator_GarbageToken(t *testing.T) {
	validate := NewValidator(testSecret)

	_, err := validate("not.a.token")

	assert.Error(t, err)
}
