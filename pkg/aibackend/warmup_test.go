package aibackend

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeProber struct {
	failures int32 // probes to fail before succeeding; -1 = always fail
	calls    int32
}

func (p *fakeProber) Probe(ctx context.Context) error {
	n := atomic.AddInt32(&p.calls, 1)
	if p.failures < 0 || n <= p.failures {
		return errors.New("cold start")
	}
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

func TestWarmupReachesReady(t *testing.T) {
	prober := &fakeProber{failures: 0}
	m := NewWarmupMonitor(prober, time.Second, 5*time.Millisecond, nopLogger{})

	assert.Equal(t, WarmupUnknown, m.State())

	m.Await(context.Background())

	assert.Equal(t, WarmupReady, m.State())
}

func TestWarmupRetriesUntilReady(t *testing.T) {
	prober := &fakeProber{failures: 2}
	m := NewWarmupMonitor(prober, time.Second, 5*time.Millisecond, nopLogger{})

	m.Await(context.Background())

	assert.Equal(t, WarmupReady, m.State())
	assert.GreaterOrEqual(t, atomic.LoadInt32(&prober.calls), int32(3))
}

func TestWarmupFailOpen(t *testing.T) {
	prober := &fakeProber{failures: -1}
	m := NewWarmupMonitor(prober, 20*time.Millisecond, 5*time.Millisecond, nopLogger{})

	// Must return even though the backend never becomes ready
	done := make(chan struct{})
	go func() {
		m.Await(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Await did not fail open")
	}

	// Not ready; the next dependent call starts a fresh attempt
	assert.Equal(t, WarmupUnknown, m.State())
}

func TestWarmupReadyIsSticky(t *testing.T) {
	prober := &fakeProber{failures: 0}
	m := NewWarmupMonitor(prober, time.Second, 5*time.Millisecond, nopLogger{})

	m.Await(context.Background())
	callsAfterFirst := atomic.LoadInt32(&prober.calls)

	m.Await(context.Background())
	m.Await(context.Background())

	assert.Equal(t, callsAfterFirst, atomic.LoadInt32(&prober.calls))
}
