package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist_AddToBlacklist(t *testing.T) {
	ctx := context.Background()
	b := NewInMemoryTokenBlacklist()

	blacklisted, err := b.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, blacklisted)

	require.NoError(t, b.AddToBlacklist(ctx, "jti-1", time.Minute))
	blacklisted, err = b.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, blacklisted)

	other, err := b.IsBlacklisted(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, other)
}

func TestInMemoryTokenBlacklist_ExpirationCleanup(t *testing.T) {
	ctx := context.Background()
	b := NewInMemoryTokenBlacklist()

	require.NoError(t, b.AddToBlacklist(ctx, "short", 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	blacklisted, err := b.IsBlacklisted(ctx, "short")
	require.NoError(t, err)
	assert.False(t, blacklisted)
	assert.Empty(t, b.jtis)
}

func TestInMemoryTokenBlacklist_IgnoresExpiredTokens(t *testing.T) {
	ctx := context.Background()
	b := NewInMemoryTokenBlacklist()
	require.NoError(t, b.AddToBlacklist(ctx, "gone", 0))
	assert.Empty(t, b.jtis)
}

func TestInMemoryTokenBlacklist_UserInvalidation(t *testing.T) {
	ctx := context.Background()
	b := NewInMemoryTokenBlacklist()
	userID := "7d4c0e1a-9b0a-4c39-8a54-2f1f6a0b5e11"

	invalidated, err := b.IsUserTokenInvalidated(ctx, userID, time.Now())
	require.NoError(t, err)
	assert.False(t, invalidated)

	require.NoError(t, b.InvalidateUser(ctx, userID, time.Hour))

	invalidated, err = b.IsUserTokenInvalidated(ctx, userID, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, invalidated, "token issued before invalidation is rejected")

	invalidated, err = b.IsUserTokenInvalidated(ctx, userID, time.Now().Add(2*time.Second))
	require.NoError(t, err)
	assert.False(t, invalidated, "token issued after invalidation is accepted")
}

func TestIssuedBefore_SubSecond(t *testing.T) {
	invalidatedAt := time.Date(2026, 10, 18, 9, 30, 15, 700_000_000, time.UTC)

	assert.True(t, issuedBefore(invalidatedAt.Add(-500*time.Millisecond), invalidatedAt), "same second, earlier")
	assert.True(t, issuedBefore(invalidatedAt, invalidatedAt), "same tick")
	assert.False(t, issuedBefore(invalidatedAt.Add(2*time.Millisecond), invalidatedAt), "later in the same second")
}

func TestInMemoryTokenBlacklist_RevokesTokensOfTheSameSecond(t *testing.T) {
	ctx := context.Background()
	svc := newTestJWTService()
	subject := newTestSubject()
	b := NewInMemoryTokenBlacklist()

	pair, err := svc.GenerateTokenPair(subject)
	require.NoError(t, err)
	require.NoError(t, b.InvalidateUser(ctx, subject.UserID.String(), time.Hour))

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	revoked, err := b.IsUserTokenInvalidated(ctx, claims.UserID, claims.IssuedAtTime())
	require.NoError(t, err)
	assert.True(t, revoked, "token issued just before the invalidation")

	time.Sleep(5 * time.Millisecond)
	pair, err = svc.GenerateTokenPair(subject)
	require.NoError(t, err)
	claims, err = svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	revoked, err = b.IsUserTokenInvalidated(ctx, claims.UserID, claims.IssuedAtTime())
	require.NoError(t, err)
	assert.False(t, revoked, "token issued after the invalidation")
}
