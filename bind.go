package config

import (
	"reflect"
	"strings"

	"github.com/goliatone/go-config/internal/coerce"
)

const optionsSuffix = "Options"

// BindOption configures a single Bind call.
type BindOption func(*bindConfig)

type bindConfig struct {
	section string
}

// BindSection overrides the section name derived from the options type.
func BindSection(name string) BindOption {
	return func(cfg *bindConfig) {
		cfg.section = name
	}
}

// Bind returns a typed options object whose fields are coerced from the
// section matching the normalized type name (or the BindSection override).
// The defaults factory supplies the object that coercion mutates; when the
// snapshot has no matching section the defaults come back unmodified.
//
// Results are cached per section name until the next successful merge. A
// factory that returns the same instance on every call therefore binds
// once: while the cached object and the freshly supplied defaults are the
// same pointer, Bind is a no-op.
func Bind[T any](m *Manager, defaults func() *T, opts ...BindOption) *T {
	cfg := bindConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	name := cfg.section
	if name == "" {
		name = normalizeSectionName(reflect.TypeOf((*T)(nil)).Elem().Name())
	}

	fresh := defaults()

	m.mu.Lock()
	cached, ok := m.bound[name]
	if ok {
		if prior, match := cached.(*T); match && prior == fresh {
			m.mu.Unlock()
			return prior
		}
		delete(m.bound, name)
	}
	snapshot := m.snapshot
	snapshotID := m.snapshotID
	m.mu.Unlock()

	section, ok := AsSection(lookupPath(snapshot, name))
	if !ok {
		return fresh
	}

	coerce.Fields(fresh, section)

	// A reload that committed while coercion ran has already cleared
	// m.bound; caching an object coerced from the old snapshot would undo
	// that invalidation.
	m.mu.Lock()
	if m.snapshotID == snapshotID {
		m.bound[name] = fresh
	}
	m.mu.Unlock()
	return fresh
}

// normalizeSectionName strips a trailing "Options" suffix (only when the
// name is strictly longer than the suffix) and lowers the first rune, so
// ServerOptions binds against the "server" section.
func normalizeSectionName(name string) string {
	if len(name) > len(optionsSuffix) && strings.HasSuffix(name, optionsSuffix) {
		name = name[:len(name)-len(optionsSuffix)]
	}
	return coerce.LowerFirst(name)
}
