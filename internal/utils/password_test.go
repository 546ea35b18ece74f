package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("s3cret", 4) // minimum cost keeps the test fast
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hash)

	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "wrong"))
	assert.False(t, VerifyPassword("not-a-hash", "s3cret"))
}
