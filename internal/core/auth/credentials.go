package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"task-tracker/pkg/utils"
)

const DefaultTokenBytes = 32

// Credentials hashes passwords and mints opaque bearer tokens.
type Credentials struct {
	Cost       int           // bcrypt cost; 0 means bcrypt.DefaultCost
	TokenBytes int           // entropy per token; 0 means DefaultTokenBytes
	TTL        time.Duration // token lifetime; 0 disables expiry
}

func (c *Credentials) Hash(password string) (string, error) {
	return utils.HashPassword(password, c.Cost)
}

func (c *Credentials) Verify(password, digest string) bool {
	return utils.CheckPassword(password, digest)
}

// IssueToken returns random bytes encoded as unpadded URL-safe base64.
func (c *Credentials) IssueToken() (string, error) {
	n := c.TokenBytes
	if n <= 0 {
		n = DefaultTokenBytes
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// ExpiresAt is nil when tokens never expire.
func (c *Credentials) ExpiresAt(now time.Time) *time.Time {
	if c.TTL <= 0 {
		return nil
	}
	t := now.Add(c.TTL)
	return &t
}
