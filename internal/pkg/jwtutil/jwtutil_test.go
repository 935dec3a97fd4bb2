package jwtutil

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	token, err := GenerateToken("secret", time.Minute, 42, "rose")
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "rose", claims.Username)
}

func TestParseRejectsWrongSecretAndExpiry(t *testing.T) {
	token, err := GenerateToken("secret", time.Minute, 1, "a")
	require.NoError(t, err)
	_, err = ParseToken("other", token)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	expired, err := GenerateToken("secret", -time.Minute, 1, "a")
	require.NoError(t, err)
	_, err = ParseToken("secret", expired)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}
