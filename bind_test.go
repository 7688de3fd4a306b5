package config

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

type ServerOptions struct {
	Host    string
	Port    int
	Enabled bool
	Labels  map[string]any
	Limits  LimitOptions
}

type LimitOptions struct {
	MaxConns int
	Rate     float64
}

func loadedManager(t *testing.T, section Section) (*Manager, *countingProvider) {
	t.Helper()
	p := &countingProvider{name: "main", section: section}
	m := mustManager(t, []Provider{p})
	if _, err := m.Load(context.Background(), false); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return m, p
}

func TestBindNormalizesTypeNameToSectionKey(t *testing.T) {
	m, _ := loadedManager(t, Section{
		"server": Section{"host": "example.test", "port": "9090"},
	})

	bound := Bind(m, func() *ServerOptions {
		return &ServerOptions{Host: "localhost", Port: 8080}
	})
	if bound.Host != "example.test" {
		t.Fatalf("expected host from section, got %q", bound.Host)
	}
	if bound.Port != 9090 {
		t.Fatalf("expected numeric coercion of %q, got %d", "9090", bound.Port)
	}
}

func TestBindSectionOverride(t *testing.T) {
	m, _ := loadedManager(t, Section{
		"backend": Section{"host": "backend.test"},
	})

	bound := Bind(m, func() *ServerOptions {
		return &ServerOptions{Host: "localhost"}
	}, BindSection("backend"))
	if bound.Host != "backend.test" {
		t.Fatalf("override section not used, got %q", bound.Host)
	}
}

func TestBindMissingSectionReturnsDefaultsUnmodified(t *testing.T) {
	m, _ := loadedManager(t, Section{"other": Section{"x": 1}})

	defaults := &ServerOptions{Host: "localhost", Port: 8080}
	bound := Bind(m, func() *ServerOptions { return defaults })
	if bound != defaults {
		t.Fatalf("expected the defaults instance back")
	}
	if bound.Host != "localhost" || bound.Port != 8080 {
		t.Fatalf("defaults were modified: %+v", bound)
	}
}

func TestBindCoercionTable(t *testing.T) {
	type MixedOptions struct {
		S string
		B bool
		N int
	}

	cases := []struct {
		name    string
		section Section
		want    MixedOptions
	}{
		{
			name:    "bool into string field",
			section: Section{"s": true},
			want:    MixedOptions{S: "true"},
		},
		{
			name:    "on string into bool field",
			section: Section{"b": "on"},
			want:    MixedOptions{B: true},
		},
		{
			name:    "unparseable string into numeric field",
			section: Section{"n": "abc"},
			want:    MixedOptions{N: 0},
		},
		{
			name:    "numeric one into bool field",
			section: Section{"b": 1},
			want:    MixedOptions{B: true},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, _ := loadedManager(t, Section{"mixed": tc.section})
			bound := Bind(m, func() *MixedOptions {
				return &MixedOptions{S: "1", N: 0}
			})
			if tc.section["s"] != nil && bound.S != tc.want.S {
				t.Fatalf("string coercion: got %q, want %q", bound.S, tc.want.S)
			}
			if tc.section["b"] != nil && bound.B != tc.want.B {
				t.Fatalf("bool coercion: got %v, want %v", bound.B, tc.want.B)
			}
			if tc.section["n"] != nil && bound.N != tc.want.N {
				t.Fatalf("numeric coercion: got %d, want %d", bound.N, tc.want.N)
			}
		})
	}
}

func TestBindNestedSections(t *testing.T) {
	m, _ := loadedManager(t, Section{
		"server": Section{
			"limits": Section{"maxConns": "250", "rate": 1.5},
		},
	})

	bound := Bind(m, func() *ServerOptions {
		return &ServerOptions{Limits: LimitOptions{MaxConns: 100, Rate: 1}}
	})
	if bound.Limits.MaxConns != 250 {
		t.Fatalf("nested numeric coercion failed: %d", bound.Limits.MaxConns)
	}
	if bound.Limits.Rate != 1.5 {
		t.Fatalf("nested float coercion failed: %v", bound.Limits.Rate)
	}
}

func TestBindMemoizesSingletonDefaults(t *testing.T) {
	m, _ := loadedManager(t, Section{
		"server": Section{"port": 9090},
	})

	singleton := &ServerOptions{Port: 8080}
	factory := func() *ServerOptions { return singleton }

	first := Bind(m, factory)
	if first != singleton || first.Port != 9090 {
		t.Fatalf("first bind should coerce the singleton in place")
	}

	// Same instance supplied again: memoization no-op.
	second := Bind(m, factory)
	if second != singleton {
		t.Fatalf("expected the cached instance back")
	}
}

func TestBindCacheInvalidatedByReload(t *testing.T) {
	m, p := loadedManager(t, Section{
		"server": Section{"port": 9090},
	})

	first := Bind(m, func() *ServerOptions { return &ServerOptions{Port: 8080} })
	if first.Port != 9090 {
		t.Fatalf("unexpected initial bind: %d", first.Port)
	}

	p.section = Section{"server": Section{"port": 7070}}
	if _, err := m.Load(context.Background(), true); err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	second := Bind(m, func() *ServerOptions { return &ServerOptions{Port: 8080} })
	if second == first {
		t.Fatalf("reload must evict the bound cache")
	}
	if second.Port != 7070 {
		t.Fatalf("expected freshly coerced values after reload, got %d", second.Port)
	}
}

func TestBindRacingReloadNeverCachesStaleSnapshot(t *testing.T) {
	p := &countingProvider{name: "main", section: Section{
		"server": Section{"host": "host-start"},
	}}
	m := mustManager(t, []Provider{p})
	if _, err := m.Load(context.Background(), false); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	singleton := &ServerOptions{}
	factory := func() *ServerOptions { return singleton }

	for i := 0; i < 100; i++ {
		want := fmt.Sprintf("host-%d", i)
		p.section = Section{"server": Section{"host": want}}

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			Bind(m, factory)
		}()
		go func() {
			defer wg.Done()
			if _, err := m.Load(context.Background(), true); err != nil {
				t.Errorf("reload failed: %v", err)
			}
		}()
		wg.Wait()

		// Whatever the interleaving, a bind after the commit must observe
		// the reloaded snapshot, not a cache entry coerced from the old one.
		bound := Bind(m, factory)
		if bound.Host != want {
			t.Fatalf("iteration %d: bound options stale, host %q want %q", i, bound.Host, want)
		}
	}
}

func TestBindEvictsStaleEntryWhenDefaultsChange(t *testing.T) {
	m, _ := loadedManager(t, Section{
		"server": Section{"port": 9090},
	})

	first := Bind(m, func() *ServerOptions { return &ServerOptions{Port: 8080} })
	second := Bind(m, func() *ServerOptions { return &ServerOptions{Port: 8081} })
	if first == second {
		t.Fatalf("fresh defaults instance must replace the stale cache entry")
	}
	if second.Port != 9090 {
		t.Fatalf("stale eviction should rebind, got %d", second.Port)
	}
}
