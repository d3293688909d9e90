package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meeras/brigadier/internal/app/models"
	"github.com/meeras/brigadier/internal/pkg/auth"
)

func newJWTService(exp time.Duration) *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    exp,
		TokenIssuer: "brigadier.test",
	})
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newJWTService(time.Hour)
	user := &models.User{ID: "user-1", Role: models.RoleBrigadeLead}

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleBrigadeLead, claims.Role)
	assert.Equal(t, "brigadier.test", claims.Issuer)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := newJWTService(-time.Minute)

	token, err := svc.GenerateToken(&models.User{ID: "user-1", Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, err := newJWTService(time.Hour).GenerateToken(&models.User{ID: "user-1", Role: models.RoleAdmin})
	require.NoError(t, err)

	other := auth.NewJWTService(auth.JWTConfig{SecretKey: "different", TokenExp: time.Hour})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTService_GarbageToken(t *testing.T) {
	svc := newJWTService(time.Hour)

	_, err := svc.ValidateToken("")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = svc.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := auth.ExtractBearerToken("Bearer abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	// a header without the scheme is treated as the raw token
	token, err = auth.ExtractBearerToken("abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	_, err = auth.ExtractBearerToken("")
	assert.ErrorIs(t, err, auth.ErrMissingBearer)
}
