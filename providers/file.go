package providers

import (
	"context"
	"fmt"

	config "github.com/goliatone/go-config"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type fileProvider struct {
	name string
	path string
}

// File returns a provider that reads a YAML document from path on every
// fetch. The file is read eagerly per load; there is no change watching.
func File(name, path string) config.Provider {
	return &fileProvider{name: name, path: path}
}

func (p *fileProvider) Name() string { return p.name }

func (p *fileProvider) Load(_ context.Context) (config.Section, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(p.path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("read %q: %w", p.path, err)
	}
	return config.Section(k.Raw()), nil
}
