package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPurger struct {
	calls atomic.Int32
	n     int64
	err   error
}

func (p *countingPurger) PurgeExpired(context.Context) (int64, error) {
	p.calls.Add(1)
	return p.n, p.err
}

func TestNewSessionReaper_RequiresPurger(t *testing.T) {
	_, err := NewSessionReaper(SessionReaperOptions{})
	require.Error(t, err)
}

func TestSessionReaper_PurgeOnce(t *testing.T) {
	p := &countingPurger{n: 3}
	r, err := NewSessionReaper(SessionReaperOptions{Purger: p})
	require.NoError(t, err)

	assert.Equal(t, int64(3), r.PurgeOnce(context.Background()))

	p.err = errors.New("db down")
	assert.Equal(t, int64(3), r.PurgeOnce(context.Background()))
	assert.Equal(t, int32(2), p.calls.Load())
}

func TestSessionReaper_PurgeOnceSkipsCancelledContext(t *testing.T) {
	p := &countingPurger{}
	r, err := NewSessionReaper(SessionReaperOptions{Purger: p})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r.PurgeOnce(ctx)
	assert.Zero(t, p.calls.Load())
}

func TestSessionReaper_RunStopsOnCancel(t *testing.T) {
	p := &countingPurger{}
	r, err := NewSessionReaper(SessionReaperOptions{Purger: p, Interval: 10 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool { return p.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("reaper did not stop")
	}
}
