// Package notesync coordinates the lifecycle of a session's note between
// editor clients, the persistence layer and the external AI backend:
// generation with progress polling, a confirmation gate for regeneration,
// and debounced auto-save. One Manager per session identity; all of its
// timers die with it, so a stale debounce or poll can never write into a
// different session's record.
package notesync

import (
	"context"
	"sync"
	"time"

	"lecturelens-be/internal/pkg/apperrors"
	"lecturelens-be/internal/pkg/logger"

	"github.com/google/uuid"
)

type State string

const (
	StateNoNote     State = "no-note"
	StateLoading    State = "loading"
	StateGenerating State = "generating"
	StateReady      State = "ready"
	StateSaving     State = "saving"
)

// Snapshot is the manager's view of the stored note.
type Snapshot struct {
	Content    string
	Translated *string
	Version    int
}

// Store persists note content. Implemented by the note service; upsert
// semantics (create at version 1, else version+1, omitted language field
// preserved) live there.
type Store interface {
	Load(ctx context.Context, sessionID uuid.UUID) (*Snapshot, error)
	Save(ctx context.Context, sessionID uuid.UUID, content string, translated *string) (*Snapshot, error)
	SaveGenerated(ctx context.Context, sessionID uuid.UUID, content string, translated *string) (*Snapshot, error)
}

type GenState string

const (
	GenPending GenState = "pending"
	GenReady   GenState = "ready"
	GenError   GenState = "error"
)

type Progress struct {
	State      GenState
	Fraction   float64
	Content    string
	Translated string
	Message    string
}

// Generator starts generation jobs and reports their progress. Implemented
// over the AI backend client.
type Generator interface {
	Start(ctx context.Context, sessionID uuid.UUID, force bool) (jobID string, err error)
	Status(ctx context.Context, jobID string) (Progress, error)
}

// Awaiter blocks until the AI backend has had its warmup chance (fail-open).
type Awaiter interface {
	Await(ctx context.Context)
}

type Options struct {
	AutoGenerate  bool
	AutoSaveDelay time.Duration
	PollInterval  time.Duration
}

// Status is the externally visible state of a manager.
type Status struct {
	State          State      `json:"state"`
	Dirty          bool       `json:"dirty"`
	Version        int        `json:"version"`
	Progress       float64    `json:"progress"`
	PendingConfirm bool       `json:"pending_confirm"`
	LastSavedAt    *time.Time `json:"last_saved_at,omitempty"`
	LastError      string     `json:"last_error,omitempty"`
}

type Manager struct {
	sessionID uuid.UUID
	store     Store
	generator Generator
	warmup    Awaiter
	opts      Options
	logger    logger.ILogger

	mu             sync.Mutex
	state          State
	snapshot       Snapshot
	hasNote        bool
	dirty          bool
	pendingContent string
	pendingTrans   *string
	progress       float64
	pendingConfirm bool
	autoFired      bool
	lastSavedAt    *time.Time
	lastErr        string

	gen        uint64 // epoch; bumped on Close so stale timers no-op
	editSeq    uint64 // bumped on Edit; a flush for an older edit is stale
	starting   bool   // generation claimed but not yet in StateGenerating
	debounce   *time.Timer
	pollCancel context.CancelFunc
	closed     bool
}

func NewManager(sessionID uuid.UUID, store Store, generator Generator, warmup Awaiter, opts Options, log logger.ILogger) *Manager {
	return &Manager{
		sessionID: sessionID,
		store:     store,
		generator: generator,
		warmup:    warmup,
		opts:      opts,
		logger:    log,
		state:     StateLoading,
	}
}

// Open resolves the stored note. If none exists and auto-generate is on, it
// triggers generation exactly once for this manager instance; a fresh
// instance (new session identity) gets a fresh trigger.
func (m *Manager) Open(ctx context.Context) error {
	snap, err := m.store.Load(ctx, m.sessionID)
	if err != nil {
		m.mu.Lock()
		m.state = StateNoNote
		m.mu.Unlock()
		return err
	}

	m.mu.Lock()
	if snap == nil {
		m.state = StateNoNote
		auto := m.opts.AutoGenerate && !m.autoFired
		if auto {
			m.autoFired = true
		}
		m.mu.Unlock()
		if auto {
			return m.startGeneration(ctx, false)
		}
		return nil
	}

	m.snapshot = *snap
	m.hasNote = true
	m.state = StateReady
	m.mu.Unlock()
	return nil
}

func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{
		State:          m.state,
		Dirty:          m.dirty,
		Version:        m.snapshot.Version,
		Progress:       m.progress,
		PendingConfirm: m.pendingConfirm,
		LastSavedAt:    m.lastSavedAt,
		LastError:      m.lastErr,
	}
}

func (m *Manager) Content() (string, *string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dirty {
		return m.pendingContent, m.pendingTrans
	}
	return m.snapshot.Content, m.snapshot.Translated
}

// Generate starts first-time generation. When content already exists the
// caller must go through the RequestRegenerate/ConfirmRegenerate gate,
// because regeneration discards manual edits.
func (m *Manager) Generate(ctx context.Context) error {
	m.mu.Lock()
	if m.starting || m.state == StateGenerating {
		m.mu.Unlock()
		return apperrors.ErrGenerationInProgress
	}
	if m.hasNote && m.snapshot.Content != "" {
		m.mu.Unlock()
		return apperrors.ErrConfirmationRequired
	}
	m.mu.Unlock()

	return m.startGeneration(ctx, false)
}

// RequestRegenerate opens the confirmation gate. No state is mutated until
// ConfirmRegenerate.
func (m *Manager) RequestRegenerate() {
	m.mu.Lock()
	m.pendingConfirm = true
	m.mu.Unlock()
}

func (m *Manager) ConfirmRegenerate(ctx context.Context) error {
	m.mu.Lock()
	if !m.pendingConfirm {
		m.mu.Unlock()
		return apperrors.ErrConfirmationRequired
	}
	if m.starting || m.state == StateGenerating {
		m.mu.Unlock()
		return apperrors.ErrGenerationInProgress
	}
	m.pendingConfirm = false
	m.mu.Unlock()

	return m.startGeneration(ctx, true)
}

func (m *Manager) DeclineRegenerate() {
	m.mu.Lock()
	m.pendingConfirm = false
	m.mu.Unlock()
}

func (m *Manager) startGeneration(ctx context.Context, force bool) error {
	// Claim the start in one critical section; the warmup wait and the
	// backend call below run unlocked, so without the claim two concurrent
	// callers could both pass the state check and start two jobs.
	m.mu.Lock()
	if m.starting || m.state == StateGenerating {
		m.mu.Unlock()
		return apperrors.ErrGenerationInProgress
	}
	m.starting = true
	m.mu.Unlock()

	// Best-effort warmup before the dependent request (fail-open)
	m.warmup.Await(ctx)

	jobID, err := m.generator.Start(ctx, m.sessionID, force)
	if err != nil {
		m.mu.Lock()
		m.starting = false
		m.lastErr = err.Error()
		m.mu.Unlock()
		return err
	}

	m.mu.Lock()
	m.starting = false
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.state = StateGenerating
	m.progress = 0
	m.lastErr = ""
	gen := m.gen
	pollCtx, cancel := context.WithCancel(context.Background())
	m.pollCancel = cancel
	m.mu.Unlock()

	go m.poll(pollCtx, gen, jobID)
	return nil
}

func (m *Manager) poll(ctx context.Context, gen uint64, jobID string) {
	ticker := time.NewTicker(m.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		progress, err := m.generator.Status(ctx, jobID)
		if err != nil {
			// Transient poll failure; keep polling until teardown
			continue
		}

		switch progress.State {
		case GenPending:
			m.mu.Lock()
			if m.gen == gen {
				m.progress = progress.Fraction
			}
			m.mu.Unlock()

		case GenReady:
			var trans *string
			if progress.Translated != "" {
				t := progress.Translated
				trans = &t
			}
			snap, saveErr := m.store.SaveGenerated(ctx, m.sessionID, progress.Content, trans)

			m.mu.Lock()
			if m.gen == gen {
				if saveErr != nil {
					m.lastErr = saveErr.Error()
				} else {
					m.snapshot = *snap
					m.hasNote = true
					m.dirty = false
				}
				m.state = StateReady
				m.progress = 1
			}
			m.mu.Unlock()
			return

		case GenError:
			m.mu.Lock()
			if m.gen == gen {
				// Ready with no generated content; the failure is surfaced,
				// never retried automatically
				m.state = StateReady
				m.lastErr = apperrors.ErrGenerationFailed.Error() + ": " + progress.Message
			}
			m.mu.Unlock()
			m.logger.Error("NoteSync", "Generation failed", map[string]interface{}{
				"session_id": m.sessionID,
				"job_id":     jobID,
				"error":      progress.Message,
			})
			return
		}
	}
}

// Edit buffers new content, marks the note dirty and (re)schedules the
// auto-save debounce. A later edit supersedes the pending timer: classic
// debounce, not throttle.
func (m *Manager) Edit(content string, translated *string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || (m.state != StateReady && m.state != StateSaving) {
		return
	}

	m.pendingContent = content
	if translated != nil {
		m.pendingTrans = translated
	}
	m.dirty = true

	if m.debounce != nil {
		m.debounce.Stop()
	}
	// Stop() can lose the race against a timer that already fired; the
	// sequence number makes that stale flush a no-op so this edit still gets
	// its full debounce window.
	m.editSeq++
	gen, seq := m.gen, m.editSeq
	m.debounce = time.AfterFunc(m.opts.AutoSaveDelay, func() {
		m.flush(context.Background(), gen, seq)
	})
}

// SaveNow bypasses the debounce and commits immediately.
func (m *Manager) SaveNow(ctx context.Context) error {
	m.mu.Lock()
	if m.debounce != nil {
		m.debounce.Stop()
		m.debounce = nil
	}
	gen, seq := m.gen, m.editSeq
	m.mu.Unlock()

	return m.flush(ctx, gen, seq)
}

func (m *Manager) flush(ctx context.Context, gen uint64, seq uint64) error {
	m.mu.Lock()
	if m.gen != gen || m.editSeq != seq || m.closed || !m.dirty {
		m.mu.Unlock()
		return nil
	}
	content := m.pendingContent
	trans := m.pendingTrans
	m.state = StateSaving
	m.mu.Unlock()

	snap, err := m.store.Save(ctx, m.sessionID, content, trans)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen {
		// Session identity changed mid-save; drop the result
		return nil
	}
	m.state = StateReady
	if err != nil {
		// Dirty stays set so the next debounce or manual save retries
		m.lastErr = err.Error()
		m.logger.Error("NoteSync", "Auto-save failed", map[string]interface{}{
			"session_id": m.sessionID,
			"error":      err.Error(),
		})
		return err
	}
	m.snapshot = *snap
	m.hasNote = true
	if m.editSeq == seq {
		// An edit that landed while the save was in flight keeps dirty set;
		// its own debounce timer flushes the newer content.
		m.dirty = false
	}
	now := time.Now()
	m.lastSavedAt = &now
	m.lastErr = ""
	return nil
}

// Close tears the manager down: cancels the debounce timer and any poll
// goroutine, and bumps the epoch so in-flight work cannot write back.
// Called when the session identity changes or the session ends.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.gen++
	if m.debounce != nil {
		m.debounce.Stop()
		m.debounce = nil
	}
	if m.pollCancel != nil {
		m.pollCancel()
		m.pollCancel = nil
	}
}
