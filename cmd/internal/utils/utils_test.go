package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name     string
	Nick     *string
	Tags     []string
	Password string `sanitize:"-"`
	Count    int
}

func TestSanitize(t *testing.T) {
	nick := "  bob  "
	s := &sample{Name: "  alice ", Nick: &nick, Tags: []string{" a", "b "}, Password: " pw ", Count: 3}

	Sanitize(s)

	assert.Equal(t, "alice", s.Name)
	assert.Equal(t, "bob", *s.Nick)
	assert.Equal(t, []string{"a", "b"}, s.Tags)
	assert.Equal(t, " pw ", s.Password)
	assert.Equal(t, 3, s.Count)
}

func TestSanitize_PanicsOnNonPointer(t *testing.T) {
	assert.Panics(t, func() { Sanitize(sample{}) })
}

func TestFormatEpoch(t *testing.T) {
	assert.Equal(t, "2024-03-05T10:00:00Z", FormatEpoch(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC).UnixMilli()))
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("S3cret!pass")
	require.NoError(t, err)
	assert.NotEqual(t, "S3cret!pass", hash)
	assert.True(t, CheckPassword(hash, "S3cret!pass"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestTokenIssuer(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	now := time.Now()

	token, err := issuer.Issue("alice", "token-1", now)
	require.NoError(t, err)

	data, err := issuer.Validate("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "alice", data.Sub)
	assert.Equal(t, "token-1", data.ID)
	assert.Equal(t, now.Add(time.Hour).Unix(), data.Exp)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	other, err := NewTokenIssuer("other-secret", time.Hour).Issue("alice", "t", time.Now())
	require.NoError(t, err)
	_, err = issuer.Validate(other)
	assert.Error(t, err, "wrong signing key")

	expired, err := issuer.Issue("alice", "t", time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = issuer.Validate(expired)
	assert.Error(t, err, "expired")

	_, err = issuer.Validate("not-a-token")
	assert.Error(t, err)
}
