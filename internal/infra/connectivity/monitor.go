// Package connectivity tracks network reachability transitions.
package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/totodo-app/totodo/internal/domain"
)

// Prober checks actual reachability of the remote store.
type Prober interface {
	Ping(ctx context.Context) error
}

// Monitor implements domain.Connectivity. It caches the last observed
// reachability flag and fans transition events out to subscribers. Observers
// that fall behind miss events rather than block the reporter.
type Monitor struct {
	mu          sync.Mutex
	subscribers []chan bool
	online      bool
}

// New creates a Monitor with the given initial state.
func New(initiallyOnline bool) *Monitor {
	return &Monitor{online: initiallyOnline}
}

// Online returns the current cached reachability flag.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// MarkOnline records an online observation.
func (m *Monitor) MarkOnline() {
	m.set(true)
}

// MarkOffline records an offline observation.
func (m *Monitor) MarkOffline() {
	m.set(false)
}

// Subscribe returns a channel receiving reachability transitions
// (true = online). Repeated observations of the same state are suppressed.
func (m *Monitor) Subscribe() <-chan bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan bool, 1)
	m.subscribers = append(m.subscribers, ch)
	return ch
}

func (m *Monitor) set(online bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.online == online {
		return
	}
	m.online = online
	for _, ch := range m.subscribers {
		select {
		case ch <- online:
		default: // subscriber is behind; drop rather than block
		}
	}
}

// Probe re-checks reachability empirically every interval until ctx is done.
// This covers hosts without native online/offline events; the reconciliation
// engine additionally overrides the flag from real call outcomes.
func (m *Monitor) Probe(ctx context.Context, prober Prober, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := prober.Ping(ctx); err != nil {
				m.MarkOffline()
			} else {
				m.MarkOnline()
			}
		}
	}
}

// Ensure Monitor implements Connectivity.
var _ domain.Connectivity = (*Monitor)(nil)
