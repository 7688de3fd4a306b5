package config

import "context"

// Provider is a named source of configuration. Load produces a fresh Section
// and may fail with a provider-specific error; implementations must be safe
// to call concurrently because the manager deduplicates fetches by name, not
// by instance.
type Provider interface {
	Name() string
	Load(ctx context.Context) (Section, error)
}

// LoadFunc adapts a plain function to the Provider fetch operation.
type LoadFunc func(ctx context.Context) (Section, error)

type funcProvider struct {
	name string
	load LoadFunc
}

// NamedProvider wraps fn as a Provider identified by name.
func NamedProvider(name string, fn LoadFunc) Provider {
	return &funcProvider{name: name, load: fn}
}

func (p *funcProvider) Name() string { return p.name }

func (p *funcProvider) Load(ctx context.Context) (Section, error) {
	if p.load == nil {
		return Section{}, nil
	}
	return p.load(ctx)
}
