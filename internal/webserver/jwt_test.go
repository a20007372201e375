package webserver

import (
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rindelabs/rindestore/internal/domain"
)

func TestCreateTokenRoundTrip(t *testing.T) {
	user := &domain.SysUser{
		ID:    10001,
		Name:  "Ana",
		Email: "ana@example.com",
		Level: "user",
	}

	signed, err := CreateToken("test-secret", user)
	require.NoError(t, err)

	var claims UserClaims
	token, err := jwt.ParseWithClaims(signed, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	assert.Equal(t, int64(10001), claims.UserID)
	assert.Equal(t, "Ana", claims.Name)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "user", claims.Level)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestCreateTokenRejectsWrongSecret(t *testing.T) {
	user := &domain.SysUser{ID: 1, Email: "x@example.com", Level: "admin"}

	signed, err := CreateToken("right-secret", user)
	require.NoError(t, err)

	var claims UserClaims
	_, err = jwt.ParseWithClaims(signed, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	})
	assert.Error(t, err)
}
