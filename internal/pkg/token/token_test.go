package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("round trip preserves claims", func(t *testing.T) {
		signed, err := Sign(Claims{
			UserID:      7,
			Email:       "ada@example.com",
			Role:        RoleAdmin,
			IsAdmin:     true,
			Permissions: []string{"user:read", "user:update"},
		}, DefaultTTL)
		require.NoError(t, err)

		claims, err := Verify(signed)
		require.NoError(t, err)
		assert.Equal(t, uint(7), claims.UserID)
		assert.Equal(t, "ada@example.com", claims.Email)
		assert.True(t, claims.IsAdmin)
		assert.Equal(t, []string{"user:read", "user:update"}, claims.Permissions)
	})

	t.Run("expired token reads as expired", func(t *testing.T) {
		signed, err := Sign(Claims{UserID: 7, Role: RoleUser}, -time.Minute)
		require.NoError(t, err)

		_, err = Verify(signed)
		assert.ErrorIs(t, err, ErrExpired)
	})

	t.Run("tampered token is invalid", func(t *testing.T) {
		signed, err := Sign(Claims{UserID: 7, Role: RoleUser}, DefaultTTL)
		require.NoError(t, err)

		_, err = Verify(signed + "x")
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("token signed with another secret is invalid", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "other-secret")
		signed, err := Sign(Claims{UserID: 7, Role: RoleUser}, DefaultTTL)
		require.NoError(t, err)

		t.Setenv("JWT_SECRET", "test-secret")
		_, err = Verify(signed)
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("zero user id is rejected", func(t *testing.T) {
		signed, err := Sign(Claims{Role: RoleUser}, DefaultTTL)
		require.NoError(t, err)

		_, err = Verify(signed)
		assert.ErrorIs(t, err, ErrInvalid)
	})
}
