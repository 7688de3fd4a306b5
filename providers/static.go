package providers

import (
	"context"

	config "github.com/goliatone/go-config"
)

type staticProvider struct {
	name    string
	section config.Section
}

// Static returns a provider that serves a fixed section. Useful as a
// defaults layer and in tests. The section is cloned on construction and on
// every fetch so callers cannot mutate what the provider serves.
func Static(name string, section config.Section) config.Provider {
	return &staticProvider{name: name, section: section.Clone()}
}

func (p *staticProvider) Name() string { return p.name }

func (p *staticProvider) Load(_ context.Context) (config.Section, error) {
	return p.section.Clone(), nil
}
