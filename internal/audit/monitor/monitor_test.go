package monitor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTable returns scripted samples: the sets in phases are served in
// order, with the last phase repeated once the script runs out.
type fakeTable struct {
	mu     sync.Mutex
	phases [][]string
	calls  int
	err    error
}

func (f *fakeTable) Executables(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	idx := f.calls
	if idx >= len(f.phases) {
		idx = len(f.phases) - 1
	}
	f.calls++
	return f.phases[idx], nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestObserveUnionAcrossSamples(t *testing.T) {
	// A runs only at the start of the window, B only later; the returned
	// set must contain both.
	table := &fakeTable{phases: [][]string{
		{"/usr/bin/a"},
		{"/usr/bin/a"},
		{"/usr/bin/b"},
	}}

	m := New(Options{Table: table, Interval: 10 * time.Millisecond, Logger: testLogger()})
	observed, err := m.Observe(context.Background(), 100*time.Millisecond)
	require.NoError(t, err)

	assert.True(t, observed.Contains("/usr/bin/a"))
	assert.True(t, observed.Contains("/usr/bin/b"))
	assert.Equal(t, 2, observed.Len())
}

func TestObserveDeduplicates(t *testing.T) {
	table := &fakeTable{phases: [][]string{{"/usr/bin/a", "/usr/bin/a"}}}

	m := New(Options{Table: table, Interval: 10 * time.Millisecond, Logger: testLogger()})
	observed, err := m.Observe(context.Background(), 50*time.Millisecond)
	require.NoError(t, err)

	assert.Equal(t, 1, observed.Len())
	assert.Equal(t, []string{"/usr/bin/a"}, observed.Paths())
}

func TestObserveBound(t *testing.T) {
	table := &fakeTable{phases: [][]string{{"/usr/bin/a"}}}
	interval := 20 * time.Millisecond
	window := 100 * time.Millisecond

	m := New(Options{Table: table, Interval: interval, Logger: testLogger()})

	start := time.Now()
	_, err := m.Observe(context.Background(), window)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, elapsed, window, "must not return materially before the window elapses")
	// Generous upper bound: window + one tick + one bounded sample, with
	// scheduler slack.
	assert.Less(t, elapsed, window+10*interval, "must not block far past the window")
}

func TestObserveNonPositiveWindow(t *testing.T) {
	m := New(Options{Table: &fakeTable{phases: [][]string{{}}}, Logger: testLogger()})

	_, err := m.Observe(context.Background(), 0)
	assert.ErrorIs(t, err, ErrNonPositiveWindow)
}

func TestObserveCancellation(t *testing.T) {
	table := &fakeTable{phases: [][]string{{"/usr/bin/a"}}}
	m := New(Options{Table: table, Interval: 10 * time.Millisecond, Logger: testLogger()})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	observed, err := m.Observe(ctx, 10*time.Second)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second, "cancellation must stop the window early")
	assert.True(t, observed.Contains("/usr/bin/a"), "partial observations are still returned")
}

func TestObserveSampleErrorsAreSkipped(t *testing.T) {
	table := &fakeTable{err: errors.New("process table unavailable")}
	m := New(Options{Table: table, Interval: 10 * time.Millisecond, Logger: testLogger()})

	observed, err := m.Observe(context.Background(), 50*time.Millisecond)
	require.NoError(t, err, "sampling errors are skip-and-log, not fatal")
	assert.Equal(t, 0, observed.Len())
}

func TestObserveSampleHook(t *testing.T) {
	table := &fakeTable{phases: [][]string{{"/usr/bin/a"}}}

	var mu sync.Mutex
	var counts []int
	m := New(Options{
		Table:    table,
		Interval: 10 * time.Millisecond,
		Logger:   testLogger(),
		OnSample: func(observed int) {
			mu.Lock()
			counts = append(counts, observed)
			mu.Unlock()
		},
	})

	_, err := m.Observe(context.Background(), 50*time.Millisecond)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, counts)
	assert.Equal(t, 1, counts[len(counts)-1])
}

func TestNewDefaults(t *testing.T) {
	m := New(Options{Logger: testLogger()})
	assert.Equal(t, DefaultInterval, m.Interval())
}
