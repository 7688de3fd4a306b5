package providers

import (
	"context"
	"fmt"
	"strings"

	config "github.com/goliatone/go-config"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

type envProvider struct {
	name   string
	prefix string
}

// Env returns a provider backed by environment variables carrying prefix.
// Variable names map onto nested section paths: with prefix "APP_",
// APP_SERVER_PORT becomes server.port.
func Env(name, prefix string) config.Provider {
	return &envProvider{name: name, prefix: prefix}
}

func (p *envProvider) Name() string { return p.name }

func (p *envProvider) Load(_ context.Context) (config.Section, error) {
	transform := func(s string) string {
		s = strings.TrimPrefix(s, p.prefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "_", ".")
	}

	k := koanf.New(".")
	if err := k.Load(env.Provider(p.prefix, ".", transform), nil); err != nil {
		return nil, fmt.Errorf("read environment %q: %w", p.prefix, err)
	}
	return config.Section(k.Raw()), nil
}
