package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/apperr"
)

var (
	accessSecret  = []byte("access-secret-for-tests-0123456789")
	refreshSecret = []byte("refresh-secret-for-tests-987654321")
)

func newTestCodec(accessTTL, refreshTTL time.Duration) *Codec {
	return NewCodec(accessSecret, refreshSecret, accessTTL, refreshTTL)
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	c := newTestCodec(time.Minute, time.Hour)

	access, err := c.IssueAccess(42)
	require.NoError(t, err)
	require.NotEmpty(t, access)

	claims, err := c.VerifyAccess(access)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.WithinDuration(t, time.Now().Add(time.Minute), claims.ExpiresAt.Time, 5*time.Second)

	refresh, err := c.IssueRefresh(42)
	require.NoError(t, err)

	refreshClaims, err := c.VerifyRefresh(refresh)
	require.NoError(t, err)
	assert.Equal(t, uint(42), refreshClaims.UserID)
}

func TestCrossKindRejection(t *testing.T) {
	c := newTestCodec(time.Minute, time.Hour)

	access, err := c.IssueAccess(1)
	require.NoError(t, err)
	refresh, err := c.IssueRefresh(1)
	require.NoError(t, err)

	// A refresh token must never pass access verification and vice versa.
	_, err = c.VerifyAccess(refresh)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeUnauthenticated, apperr.CodeOf(err))

	_, err = c.VerifyRefresh(access)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeUnauthenticated, apperr.CodeOf(err))
}

func TestVerifyExpiredToken(t *testing.T) {
	c := newTestCodec(-time.Second, -time.Second)

	access, err := c.IssueAccess(7)
	require.NoError(t, err)

	_, err = c.VerifyAccess(access)
	require.Error(t, err)
	assert.True(t, IsExpired(err))
	assert.Equal(t, apperr.CodeUnauthenticated, apperr.CodeOf(err))
}

func TestVerifyEmptyToken(t *testing.T) {
	c := newTestCodec(time.Minute, time.Hour)

	_, err := c.VerifyAccess("")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeUnauthenticated, apperr.CodeOf(err))
	assert.False(t, IsExpired(err))
}

func TestVerifyTamperedToken(t *testing.T) {
	c := newTestCodec(time.Minute, time.Hour)

	access, err := c.IssueAccess(9)
	require.NoError(t, err)

	tampered := access[:len(access)-2] + "xx"
	_, err = c.VerifyAccess(tampered)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeUnauthenticated, apperr.CodeOf(err))
}

func TestDecodeAccessIgnoresExpiry(t *testing.T) {
	c := newTestCodec(-time.Minute, time.Hour)

	access, err := c.IssueAccess(3)
	require.NoError(t, err)

	// Decode still verifies the signature but yields claims for expired
	// tokens so the caller can read exp.
	claims, err := c.DecodeAccess(access)
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.UserID)
	assert.True(t, claims.ExpiresAt.Time.Before(time.Now()))

	_, err = c.DecodeAccess("not-a-token")
	require.Error(t, err)
}
