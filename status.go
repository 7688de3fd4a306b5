package config

import "time"

// LoadingStatus enumerates the lifecycle of the merged snapshot.
type LoadingStatus int

const (
	// StatusUnset means no load has started since construction.
	StatusUnset LoadingStatus = iota
	// StatusLoading means a load cycle is in flight.
	StatusLoading
	// StatusLoaded means a load cycle committed a merged snapshot.
	StatusLoaded
)

// String returns the lowercase status name.
func (s LoadingStatus) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	default:
		return "unset"
	}
}

// StatusEvent is broadcast on each loading-state transition. SnapshotID is
// only populated on StatusLoaded.
type StatusEvent struct {
	Status     LoadingStatus
	SnapshotID string
	Providers  int
	OccurredAt time.Time
}

// StatusHook receives loading-state transitions.
type StatusHook interface {
	Notify(StatusEvent)
}

// StatusHookFunc allows plain functions to satisfy StatusHook.
type StatusHookFunc func(StatusEvent)

// Notify dispatches to the underlying function.
func (fn StatusHookFunc) Notify(event StatusEvent) {
	if fn != nil {
		fn(event)
	}
}

// statusHooks fans events out to zero or more hooks.
type statusHooks []StatusHook

func (h statusHooks) notify(event StatusEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}
	for _, hook := range h {
		if hook == nil {
			continue
		}
		hook.Notify(event)
	}
}

// Subscribe registers a buffered channel that receives every subsequent
// status transition. The returned function removes the subscription and
// closes the channel. Slow consumers drop events rather than stall a load
// cycle.
func (m *Manager) Subscribe() (<-chan StatusEvent, func()) {
	ch := make(chan StatusEvent, 8)

	m.subsMu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subs[id] = ch
	m.subsMu.Unlock()

	return ch, func() {
		m.subsMu.Lock()
		defer m.subsMu.Unlock()
		if existing, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(existing)
		}
	}
}

func (m *Manager) emitStatus(event StatusEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	m.hooks.notify(event)

	m.subsMu.RLock()
	for _, ch := range m.subs {
		select {
		case ch <- event:
		default:
		}
	}
	m.subsMu.RUnlock()
}
