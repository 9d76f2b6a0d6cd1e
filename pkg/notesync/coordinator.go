package notesync

import (
	"context"
	"sync"

	"lecturelens-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// Coordinator hands out one Manager per session. Switching sessions goes
// through Release, which closes the old manager; the next ForSession builds
// a fresh one, resetting the per-session auto-generate guard with it.
type Coordinator struct {
	store     Store
	generator Generator
	warmup    Awaiter
	opts      Options
	logger    logger.ILogger

	mu       sync.Mutex
	managers map[uuid.UUID]*Manager
}

func NewCoordinator(store Store, generator Generator, warmup Awaiter, opts Options, log logger.ILogger) *Coordinator {
	return &Coordinator{
		store:     store,
		generator: generator,
		warmup:    warmup,
		opts:      opts,
		logger:    log,
		managers:  make(map[uuid.UUID]*Manager),
	}
}

// ForSession returns the live manager for the session, opening a new one on
// first use.
func (c *Coordinator) ForSession(ctx context.Context, sessionID uuid.UUID) (*Manager, error) {
	c.mu.Lock()
	if m, ok := c.managers[sessionID]; ok {
		c.mu.Unlock()
		return m, nil
	}
	m := NewManager(sessionID, c.store, c.generator, c.warmup, c.opts, c.logger)
	c.managers[sessionID] = m
	c.mu.Unlock()

	if err := m.Open(ctx); err != nil {
		c.mu.Lock()
		delete(c.managers, sessionID)
		c.mu.Unlock()
		m.Close()
		return nil, err
	}
	return m, nil
}

// Release closes and forgets the session's manager, flushing unsaved edits
// first.
func (c *Coordinator) Release(ctx context.Context, sessionID uuid.UUID) {
	c.mu.Lock()
	m, ok := c.managers[sessionID]
	if ok {
		delete(c.managers, sessionID)
	}
	c.mu.Unlock()

	if !ok {
		return
	}
	if err := m.SaveNow(ctx); err != nil {
		c.logger.Warn("NoteSync", "Flush on release failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
	m.Close()
}

// Shutdown releases every live manager.
func (c *Coordinator) Shutdown(ctx context.Context) {
	c.mu.Lock()
	ids := make([]uuid.UUID, 0, len(c.managers))
	for id := range c.managers {
		ids = append(ids, id)
	}
	c.mu.Unlock()

	for _, id := range ids {
		c.Release(ctx, id)
	}
}
