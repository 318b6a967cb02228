package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/14kear/online_voting/polls-service/internal/entity"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestVerifier_RoundTrip(t *testing.T) {
	user := entity.User{ID: "user-1", Email: "user@example.com"}

	token, err := NewToken(user, secret, time.Hour)
	require.NoError(t, err)

	id, err := NewVerifier(secret).Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestVerifier_Rejects(t *testing.T) {
	user := entity.User{ID: "user-1", Email: "user@example.com"}

	expired, err := NewToken(user, secret, -time.Minute)
	require.NoError(t, err)

	foreign, err := NewToken(user, "other-secret", time.Hour)
	require.NoError(t, err)

	noID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"id":  "user-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"expired":      expired,
		"wrong secret": foreign,
		"missing id":   noID,
		"alg none":     unsigned,
		"not a jwt":    "garbage",
		"empty":        "",
	}

	v := NewVerifier(secret)
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
