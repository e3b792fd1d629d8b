package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/WB2302103/backend/internal/models"
)

var testSecret = []byte("test-secret")

func TestSignAndParse(t *testing.T) {
	user := &models.User{ID: 42, Email: "user@example.com", Role: models.RoleAdmin}

	token, err := Sign(testSecret, user)
	require.NoError(t, err)

	claims, err := Parse(testSecret, token)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, "user@example.com", claims.Email)
	require.Equal(t, models.RoleAdmin, claims.Role)
}

func TestParseWrongSecret(t *testing.T) {
	token, err := Sign(testSecret, &models.User{ID: 1, Email: "a@b.co", Role: models.RoleUser})
	require.NoError(t, err)

	_, err = Parse([]byte("another-secret"), token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseExpiredToken(t *testing.T) {
	claims := &Claims{
		UserID: 1,
		Email:  "a@b.co",
		Role:   models.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = Parse(testSecret, token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseGarbage(t *testing.T) {
	_, err := Parse(testSecret, "not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}
