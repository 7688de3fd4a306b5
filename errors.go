package config

import (
	"errors"
	"fmt"
)

// ErrNoProviders indicates a manager was constructed without any providers.
var ErrNoProviders = errors.New("config: at least one provider is required")

// ProviderError captures the provider whose fetch failed alongside the
// originating error. A single failing provider fails the whole load cycle.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("config: provider %q: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func wrapProviderError(provider string, err error) error {
	if err == nil {
		return nil
	}

	var provErr *ProviderError
	if errors.As(err, &provErr) {
		if provErr.Provider == "" {
			provErr.Provider = provider
		}
		return err
	}

	return &ProviderError{Provider: provider, Err: err}
}
