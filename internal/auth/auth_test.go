package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)

	assert.NotEqual(t, "secret1", hash)
	assert.True(t, CheckPasswordHash("secret1", hash))
	assert.False(t, CheckPasswordHash("secret2", hash))
}

func TestIsStrongEnough(t *testing.T) {
	assert.False(t, IsStrongEnough("12345"))
	assert.True(t, IsStrongEnough("123456"))
	assert.True(t, IsStrongEnough("пароль"))

	// предел bcrypt считается в байтах
	assert.True(t, IsStrongEnough(strings.Repeat("a", MaxPasswordBytes)))
	assert.False(t, IsStrongEnough(strings.Repeat("a", MaxPasswordBytes+1)))
	assert.False(t, IsStrongEnough(strings.Repeat("я", 37)))
}

func TestTokenManager_GenerateAndParse(t *testing.T) {
	m := NewTokenManager("test-secret")

	token, err := m.Generate("user-1", "admin@example.com", "admin", SessionTTL)
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.True(t, IsAdmin(claims))
	assert.WithinDuration(t, time.Now().Add(SessionTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager("test-secret")
	issued := time.Now().Add(-48 * time.Hour)
	m.now = func() time.Time { return issued }

	token, err := m.Generate("user-1", "a@b.c", "admin", SessionTTL)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_WrongSecretAndAlg(t *testing.T) {
	token, err := NewTokenManager("one").Generate("user-1", "a@b.c", "admin", SessionTTL)
	require.NoError(t, err)

	_, err = NewTokenManager("two").Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "x"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewTokenManager("one").Parse(none)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTTL(t *testing.T) {
	assert.Equal(t, 24*time.Hour, TTL(false))
	assert.Equal(t, 7*24*time.Hour, TTL(true))
}

func TestNewResetToken(t *testing.T) {
	raw, hash, err := NewResetToken()
	require.NoError(t, err)

	assert.Len(t, raw, 64)
	assert.Equal(t, HashResetToken(raw), hash)
	assert.NotEqual(t, raw, hash)

	raw2, _, err := NewResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, raw, raw2)
}
