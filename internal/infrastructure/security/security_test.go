package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("segredo123", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "segredo123", hash)

	assert.True(t, CheckPassword(hash, "segredo123"))
	assert.False(t, CheckPassword(hash, "errada"))
	assert.False(t, CheckPassword("not-a-hash", "segredo123"))
}

func TestHashPasswordZeroCostUsesDefault(t *testing.T) {
	hash, err := HashPassword("segredo123", 0)
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "segredo123"))
}

func TestAdminTokenRoundTrip(t *testing.T) {
	token, err := GenerateAdminToken("rafael", 7, "test-secret", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateJWT(token, "test-secret")
	require.NoError(t, err)

	username, err := UsernameFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, "rafael", username)
	assert.EqualValues(t, 7, claims["id"])
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	token, err := GenerateAdminToken("rafael", 7, "test-secret", time.Hour)
	require.NoError(t, err)

	_, err = ValidateJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestValidateJWTRejectsExpiredToken(t *testing.T) {
	token, err := GenerateAdminToken("rafael", 7, "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateJWT(token, "test-secret")
	assert.Error(t, err)
}

func TestUsernameFromClaimsMissing(t *testing.T) {
	_, err := UsernameFromClaims(map[string]any{"id": 7})
	assert.Error(t, err)
}

func TestGenerateULIDIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateULID()
		require.Len(t, id, 26)
		require.False(t, seen[id], "duplicate ULID %s", id)
		seen[id] = true
	}
}

func TestGenerateSecureKeyLength(t *testing.T) {
	key, err := GenerateSecureKey(16)
	require.NoError(t, err)
	assert.Len(t, key, 16)

	other, err := GenerateSecureKey(16)
	require.NoError(t, err)
	assert.NotEqual(t, key, other)
}
