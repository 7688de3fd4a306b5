package providers

import (
	"context"
	"fmt"
	"strings"

	config "github.com/goliatone/go-config"
)

// Evaluator executes a computed entry's expression against an environment
// of named values.
type Evaluator interface {
	Evaluate(env map[string]any, expression string) (any, error)
}

// ComputedOption configures a computed provider.
type ComputedOption func(*computedProvider)

// ComputedWithEvaluator selects the expression engine. Defaults to the
// expr-lang engine.
func ComputedWithEvaluator(engine Evaluator) ComputedOption {
	return func(p *computedProvider) {
		p.engine = engine
	}
}

// ComputedWithEnvironment supplies named values visible to every entry's
// expression.
func ComputedWithEnvironment(env map[string]any) ComputedOption {
	return func(p *computedProvider) {
		if len(env) == 0 {
			return
		}
		p.env = make(map[string]any, len(env))
		for key, value := range env {
			p.env[key] = value
		}
	}
}

type computedProvider struct {
	name    string
	entries map[string]string
	env     map[string]any
	engine  Evaluator
}

// Computed returns a provider whose section entries are expressions
// evaluated on every fetch. Entry keys may be dotted paths; "server.port"
// produces a nested section. Any entry that fails to evaluate fails the
// fetch, and therefore the whole load cycle.
func Computed(name string, entries map[string]string, opts ...ComputedOption) config.Provider {
	p := &computedProvider{
		name:    name,
		entries: make(map[string]string, len(entries)),
	}
	for key, expression := range entries {
		p.entries[key] = expression
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

func (p *computedProvider) Name() string { return p.name }

func (p *computedProvider) Load(_ context.Context) (config.Section, error) {
	engine := p.engine
	if engine == nil {
		engine = NewExprEvaluator()
	}

	section := config.Section{}
	for key, expression := range p.entries {
		value, err := engine.Evaluate(p.env, expression)
		if err != nil {
			return nil, wrapEvaluationError(engineName(engine), key, expression, err)
		}
		setPath(section, key, value)
	}
	return section, nil
}

// setPath writes value at a dotted path, materialising nested sections on
// the way down. A scalar in the middle of the path is overwritten.
func setPath(section config.Section, path string, value any) {
	segments := strings.Split(path, ".")
	current := section
	for _, segment := range segments[:len(segments)-1] {
		nested, ok := config.AsSection(current[segment])
		if !ok {
			nested = config.Section{}
			current[segment] = nested
		}
		current = nested
	}
	current[segments[len(segments)-1]] = value
}

func engineName(engine Evaluator) string {
	if engine == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", engine) {
	case "*providers.exprEvaluator":
		return "expr"
	case "*providers.celEvaluator":
		return "cel"
	case "*providers.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}
