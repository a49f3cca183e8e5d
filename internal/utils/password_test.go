package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPIN_RoundTrip(t *testing.T) {
	hash, err := HashPIN("1234")
	require.NoError(t, err)
	assert.NotEqual(t, "1234", hash)

	assert.True(t, CheckPINHash("1234", hash))
	assert.False(t, CheckPINHash("4321", hash))
	assert.False(t, CheckPINHash("1234", "not-a-bcrypt-hash"))
}

func TestHashPIN_SaltedHashesDiffer(t *testing.T) {
	first, err := HashPIN("1234")
	require.NoError(t, err)
	second, err := HashPIN("1234")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
