package aibackend

import (
	"context"
	"sync"
	"time"

	"lecturelens-be/internal/pkg/logger"
)

type WarmupState string

const (
	WarmupUnknown WarmupState = "unknown"
	WarmupWarming WarmupState = "warming"
	WarmupReady   WarmupState = "ready"
)

// Prober is satisfied by Client; tests inject fakes.
type Prober interface {
	Probe(ctx context.Context) error
}

// WarmupMonitor tracks the cold-start readiness of the AI backend.
// Await blocks dependent operations while the backend warms up, but a probe
// failure or timeout lets the operation proceed anyway: warmup is best
// effort, never a hard gate.
type WarmupMonitor struct {
	prober   Prober
	timeout  time.Duration
	interval time.Duration
	logger   logger.ILogger

	mu    sync.Mutex
	state WarmupState
	done  chan struct{} // closed when the active warmup attempt finishes
}

func NewWarmupMonitor(prober Prober, timeout, interval time.Duration, log logger.ILogger) *WarmupMonitor {
	return &WarmupMonitor{
		prober:   prober,
		timeout:  timeout,
		interval: interval,
		logger:   log,
		state:    WarmupUnknown,
	}
}

func (m *WarmupMonitor) State() WarmupState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Await ensures a warmup attempt has run before a dependent request is
// issued. First caller moves unknown -> warming and probes; concurrent
// callers wait on the same attempt. Returns once the backend is ready or the
// attempt gave up (fail-open).
func (m *WarmupMonitor) Await(ctx context.Context) {
	m.mu.Lock()
	switch m.state {
	case WarmupReady:
		m.mu.Unlock()
		return
	case WarmupWarming:
		done := m.done
		m.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
		}
		return
	}

	// unknown -> warming
	m.state = WarmupWarming
	m.done = make(chan struct{})
	done := m.done
	m.mu.Unlock()

	go m.warm(done)

	select {
	case <-done:
	case <-ctx.Done():
	}
}

func (m *WarmupMonitor) warm(done chan struct{}) {
	defer close(done)

	deadline := time.Now().Add(m.timeout)
	for {
		ctx, cancel := context.WithTimeout(context.Background(), m.interval)
		err := m.prober.Probe(ctx)
		cancel()

		if err == nil {
			m.mu.Lock()
			m.state = WarmupReady
			m.mu.Unlock()
			m.logger.Info("Warmup", "AI backend ready", nil)
			return
		}

		if time.Now().After(deadline) {
			// Give up but let dependent requests through; the next Await
			// starts a fresh attempt.
			m.mu.Lock()
			m.state = WarmupUnknown
			m.mu.Unlock()
			m.logger.Warn("Warmup", "AI backend warmup timed out, proceeding anyway", map[string]interface{}{"error": err.Error()})
			return
		}

		time.Sleep(m.interval)
	}
}
