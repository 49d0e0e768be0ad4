package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// Claims must satisfy the jwt/v5 claims interface: the router hands
// echo-jwt a NewClaimsFunc returning *Claims, so a drift here breaks
// every secured route.
var _ jwt.Claims = (*Claims)(nil)

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTService("test-secret")
	userID := uuid.New()
	sessionID := NewSessionID()

	token, err := svc.GenerateSessionToken(userID, "dana@example.com", "user", sessionID)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "dana@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, sessionID, claims.ID)

	exp, err := claims.GetExpirationTime()
	assert.NoError(t, err)
	assert.True(t, exp.After(time.Now()))
}

func TestJWTService_ValidateToken_WrongSecret(t *testing.T) {
	svc := NewJWTService("test-secret")
	token, err := svc.GenerateSessionToken(uuid.New(), "dana@example.com", "user", NewSessionID())
	assert.NoError(t, err)

	other := NewJWTService("another-secret")
	claims, err := other.ValidateToken(token)

	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_ValidateToken_Garbage(t *testing.T) {
	svc := NewJWTService("test-secret")

	claims, err := svc.ValidateToken("not.a.token")

	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestNewSessionID_Unique(t *testing.T) {
	assert.NotEqual(t, NewSessionID(), NewSessionID())
}
