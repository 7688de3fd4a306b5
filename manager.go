package config

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager aggregates configuration from an ordered list of providers into a
// single merged snapshot and answers path lookups and typed option binding
// against it.
//
// Providers are applied in the reverse of their registration order: given
// registration [P1, P2, P3] the sections are merged as [P3, P2, P1], so the
// first-registered provider wins key collisions. Order providers
// deliberately with that rule in mind.
type Manager struct {
	providers []Provider
	cfg       managerConfig

	mu         sync.Mutex
	snapshot   Section
	snapshotID string
	completed  bool
	active     int
	inflight   map[string]*fetch
	bound      map[string]any

	subsMu    sync.RWMutex
	subs      map[int]chan StatusEvent
	nextSubID int

	hooks statusHooks
}

// Option configures a Manager at construction time.
type Option func(*managerConfig)

type managerConfig struct {
	trace  bool
	logger TraceLogger
	hooks  statusHooks
}

// WithTrace toggles diagnostic trace events. Tracing never changes load
// behaviour.
func WithTrace(trace bool) Option {
	return func(cfg *managerConfig) {
		cfg.trace = trace
	}
}

// WithTraceLogger attaches a trace logger to the manager.
func WithTraceLogger(logger TraceLogger) Option {
	return func(cfg *managerConfig) {
		if logger == nil {
			cfg.logger = noopTraceLogger{}
			return
		}
		cfg.logger = logger
	}
}

// WithStatusHook registers a hook notified on every loading-state
// transition.
func WithStatusHook(hook StatusHook) Option {
	return func(cfg *managerConfig) {
		if hook == nil {
			return
		}
		cfg.hooks = append(cfg.hooks, hook)
	}
}

// New constructs a Manager over the supplied providers. The slice is copied;
// registration order is fixed for the manager's lifetime.
func New(providers []Provider, opts ...Option) (*Manager, error) {
	if len(providers) == 0 {
		return nil, ErrNoProviders
	}

	cfg := managerConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &Manager{
		providers: append([]Provider(nil), providers...),
		cfg:       cfg,
		snapshot:  Section{},
		inflight:  map[string]*fetch{},
		bound:     map[string]any{},
		subs:      map[int]chan StatusEvent{},
		hooks:     cfg.hooks,
	}, nil
}

// fetch is the shared result of one provider load. Concurrent Load calls
// wait on the same done channel, so each provider sees at most one in-flight
// fetch regardless of caller count.
type fetch struct {
	done    chan struct{}
	section Section
	err     error
}

// Load resolves the merged snapshot.
//
// When a previous load completed and force is false the cached snapshot is
// returned without touching any provider. Otherwise every provider is
// fetched (reusing in-flight or cached fetches unless force replaces them),
// the results are merged in application order, and the snapshot is replaced
// atomically. If any provider fails the whole load fails, the previous
// snapshot stays observable, and the completed flag resets so a forced
// reload can retry.
//
// A cycle cannot be aborted once its fetches start; cancelling ctx only
// abandons the wait. Concurrent forced reloads race last-write-wins and are
// deliberately not serialized.
func (m *Manager) Load(ctx context.Context, force bool) (Section, error) {
	m.mu.Lock()
	if m.completed && !force {
		snapshot := m.snapshot
		m.mu.Unlock()
		return snapshot, nil
	}
	announce := m.active == 0
	m.active++
	m.mu.Unlock()

	if announce {
		m.trace(TraceEvent{Message: "load cycle started"})
		m.emitStatus(StatusEvent{Status: StatusLoading, Providers: len(m.providers)})
	}

	order := m.applicationOrder()

	m.mu.Lock()
	fetches := make([]*fetch, len(order))
	for i, provider := range order {
		entry, ok := m.inflight[provider.Name()]
		if !ok || force {
			entry = &fetch{done: make(chan struct{})}
			m.inflight[provider.Name()] = entry
			go m.runFetch(ctx, provider, entry)
		}
		fetches[i] = entry
	}
	m.mu.Unlock()

	sections := make([]Section, len(fetches))
	for i, entry := range fetches {
		select {
		case <-ctx.Done():
			m.abort()
			return nil, ctx.Err()
		case <-entry.done:
		}
		if entry.err != nil {
			m.abort()
			return nil, entry.err
		}
		sections[i] = entry.section
	}

	merged := mergeSections(sections)
	snapshotID := uuid.NewString()

	// Overlapping cycles each commit; the one that settles last holds the
	// winning snapshot and emits the single StatusLoaded for the batch.
	m.mu.Lock()
	m.snapshot = merged
	m.snapshotID = snapshotID
	m.completed = true
	m.bound = map[string]any{}
	m.active--
	settled := m.active == 0
	m.mu.Unlock()

	m.trace(TraceEvent{Message: "load cycle committed", SnapshotID: snapshotID})
	if settled {
		m.emitStatus(StatusEvent{Status: StatusLoaded, SnapshotID: snapshotID, Providers: len(order)})
	}
	return merged, nil
}

// runFetch executes one provider load and publishes the shared result. The
// fetch is detached from the starting caller's cancellation: once a cycle
// begins it runs to completion.
func (m *Manager) runFetch(ctx context.Context, provider Provider, entry *fetch) {
	start := time.Now()
	section, err := provider.Load(context.WithoutCancel(ctx))
	entry.section = section
	entry.err = wrapProviderError(provider.Name(), err)
	m.trace(TraceEvent{
		Message:  "provider fetch settled",
		Provider: provider.Name(),
		Duration: time.Since(start),
		Err:      entry.err,
	})
	close(entry.done)
}

func (m *Manager) abort() {
	m.mu.Lock()
	m.active--
	m.completed = false
	m.mu.Unlock()
	m.trace(TraceEvent{Message: "load cycle failed"})
}

// GetValue resolves a dotted or colon-delimited path against the current
// snapshot. A missing segment or a non-traversable intermediate value
// resolves to nil, never an error. The terminal value is returned raw and
// may itself be a nested Section.
func (m *Manager) GetValue(path string) any {
	m.mu.Lock()
	snapshot := m.snapshot
	m.mu.Unlock()
	return lookupPath(snapshot, path)
}

// Snapshot returns a deep copy of the current merged section.
func (m *Manager) Snapshot() Section {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot.Clone()
}

// SnapshotID returns the identifier stamped on the most recent committed
// merge, or the empty string before the first successful load.
func (m *Manager) SnapshotID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotID
}

// Loaded reports whether a load cycle has committed a snapshot.
func (m *Manager) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.completed
}

// Providers returns the registration-ordered provider list. The slice is a
// copy; mutating it does not affect the manager.
func (m *Manager) Providers() []Provider {
	return append([]Provider(nil), m.providers...)
}

// applicationOrder reverses registration order: the last-registered provider
// is applied first, so the first-registered provider overwrites it on
// collisions.
func (m *Manager) applicationOrder() []Provider {
	out := make([]Provider, len(m.providers))
	for i, provider := range m.providers {
		out[len(m.providers)-1-i] = provider
	}
	return out
}

func (m *Manager) trace(event TraceEvent) {
	if !m.cfg.trace {
		return
	}
	logger := m.cfg.logger
	if logger == nil {
		logger = noopTraceLogger{}
	}
	logger.LogTrace(event)
}
