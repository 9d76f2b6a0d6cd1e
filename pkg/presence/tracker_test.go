package presence

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTracker(client)
}

func TestJoinAndLeave(t *testing.T) {
	tracker := newTestTracker(t)
	ctx := context.Background()
	sessionID := uuid.New()
	alice, bob := uuid.New(), uuid.New()

	n, err := tracker.Join(ctx, sessionID, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = tracker.Join(ctx, sessionID, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// Rejoining the same viewer does not inflate the count
	n, err = tracker.Join(ctx, sessionID, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = tracker.Leave(ctx, sessionID, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestLeaveUnknownViewerIsNoop(t *testing.T) {
	tracker := newTestTracker(t)
	ctx := context.Background()
	sessionID := uuid.New()

	n, err := tracker.Leave(ctx, sessionID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestSessionsAreIsolated(t *testing.T) {
	tracker := newTestTracker(t)
	ctx := context.Background()
	first, second := uuid.New(), uuid.New()

	_, err := tracker.Join(ctx, first, uuid.New())
	require.NoError(t, err)

	n, err := tracker.Count(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestClear(t *testing.T) {
	tracker := newTestTracker(t)
	ctx := context.Background()
	sessionID := uuid.New()

	_, err := tracker.Join(ctx, sessionID, uuid.New())
	require.NoError(t, err)
	_, err = tracker.Join(ctx, sessionID, uuid.New())
	require.NoError(t, err)

	require.NoError(t, tracker.Clear(ctx, sessionID))

	n, err := tracker.Count(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}
