// Package presence tracks how many viewers are attached to a live session,
// backed by Redis so counts survive across server instances.
package presence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyTTL = 24 * time.Hour

// Tracker counts per-session viewers in Redis.
type Tracker struct {
	client *redis.Client
}

func NewTracker(client *redis.Client) *Tracker {
	return &Tracker{client: client}
}

func sessionKey(sessionID uuid.UUID) string {
	return fmt.Sprintf("presence:session:%s", sessionID)
}

// Join registers a viewer and returns the new count.
func (t *Tracker) Join(ctx context.Context, sessionID uuid.UUID, viewerID uuid.UUID) (int64, error) {
	key := sessionKey(sessionID)
	pipe := t.client.TxPipeline()
	pipe.SAdd(ctx, key, viewerID.String())
	pipe.Expire(ctx, key, keyTTL)
	card := pipe.SCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("presence join: %w", err)
	}
	return card.Val(), nil
}

// Leave removes a viewer and returns the remaining count. Removing a viewer
// that never joined is a no-op.
func (t *Tracker) Leave(ctx context.Context, sessionID uuid.UUID, viewerID uuid.UUID) (int64, error) {
	key := sessionKey(sessionID)
	pipe := t.client.TxPipeline()
	pipe.SRem(ctx, key, viewerID.String())
	card := pipe.SCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("presence leave: %w", err)
	}
	return card.Val(), nil
}

// Count returns the current viewer count for the session.
func (t *Tracker) Count(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	n, err := t.client.SCard(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return 0, fmt.Errorf("presence count: %w", err)
	}
	return n, nil
}

// Clear drops all presence data for the session, used when it ends.
func (t *Tracker) Clear(ctx context.Context, sessionID uuid.UUID) error {
	if err := t.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("presence clear: %w", err)
	}
	return nil
}
