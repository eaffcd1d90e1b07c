package connectivity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitor_Transitions(t *testing.T) {
	m := New(true)
	ch := m.Subscribe()

	m.MarkOffline()
	select {
	case online := <-ch:
		assert.False(t, online)
	default:
		t.Fatal("expected an offline transition")
	}

	// Repeating the same state emits nothing.
	m.MarkOffline()
	select {
	case <-ch:
		t.Fatal("repeated state must not emit")
	default:
	}

	m.MarkOnline()
	select {
	case online := <-ch:
		assert.True(t, online)
	default:
		t.Fatal("expected an online transition")
	}
	assert.True(t, m.Online())
}

func TestMonitor_SlowSubscriberDoesNotBlock(t *testing.T) {
	m := New(false)
	_ = m.Subscribe() // never drained

	// Flapping repeatedly must not deadlock the reporter.
	for i := 0; i < 10; i++ {
		m.MarkOnline()
		m.MarkOffline()
	}
	assert.False(t, m.Online())
}

type scriptedProber struct {
	errs chan error
}

func (p *scriptedProber) Ping(context.Context) error {
	return <-p.errs
}

func TestMonitor_Probe(t *testing.T) {
	m := New(true)
	prober := &scriptedProber{errs: make(chan error, 2)}
	prober.errs <- errors.New("unreachable")
	prober.errs <- nil
	close(prober.errs) // later probes read nil and stay online

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Probe(ctx, prober, 5*time.Millisecond)

	// First probe fails, flag drops; second succeeds, flag recovers.
	require.Eventually(t, func() bool { return !m.Online() }, time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return m.Online() }, time.Second, time.Millisecond)
}
