package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashVerify(t *testing.T) {
	c := &Credentials{Cost: bcrypt.MinCost}
	digest, err := c.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", digest)
	assert.True(t, c.Verify("secret1", digest))
	assert.False(t, c.Verify("secret2", digest))
}

func TestIssueToken(t *testing.T) {
	c := &Credentials{}
	a, err := c.IssueToken()
	require.NoError(t, err)
	b, err := c.IssueToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 43) // 32 bytes, unpadded base64
	assert.NotContains(t, a, "=")
}

func TestExpiresAt(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Nil(t, (&Credentials{}).ExpiresAt(now))

	exp := (&Credentials{TTL: time.Hour}).ExpiresAt(now)
	require.NotNil(t, exp)
	assert.Equal(t, now.Add(time.Hour), *exp)
}
