package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenPairRoundTrip(t *testing.T) {
	pair, err := GeneratePair(42)
	require.NoError(t, err)

	claims, err := ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)

	// refresh token 不是合法的 access token
	_, err = ParseAccess(pair.RefreshToken)
	assert.Error(t, err)

	fresh, err := Refresh(pair.RefreshToken)
	require.NoError(t, err)
	claims, err = ParseAccess(fresh.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
}

func TestParseAccessRejectsGarbage(t *testing.T) {
	_, err := ParseAccess("not-a-token")
	assert.Error(t, err)
}
