package config

import "encoding/json"

// Trace captures provenance for a path lookup across the provider sections
// that produced the current snapshot. Layers are ordered strongest first,
// matching merge precedence, so the first Found layer is the one whose
// value the snapshot holds.
type Trace struct {
	Path       string       `json:"path"`
	SnapshotID string       `json:"snapshot_id,omitempty"`
	Layers     []Provenance `json:"layers"`
}

// Provenance details how a single provider contributed to a traced path.
type Provenance struct {
	Provider string `json:"provider"`
	Path     string `json:"path"`
	Value    any    `json:"value,omitempty"`
	Found    bool   `json:"found"`
}

// Explain reports, per provider, the value each most recently fetched
// section holds at path. Providers whose fetch has not settled (or failed)
// appear with Found: false.
func (m *Manager) Explain(path string) Trace {
	trace := Trace{
		Path:       path,
		SnapshotID: m.SnapshotID(),
		Layers:     make([]Provenance, 0, len(m.providers)),
	}
	for _, provider := range m.providers {
		layer := Provenance{Provider: provider.Name(), Path: path}
		if section, ok := m.providerSection(provider.Name()); ok {
			value := lookupPath(section, path)
			if value != nil {
				layer.Value = value
				layer.Found = true
			}
		}
		trace.Layers = append(trace.Layers, layer)
	}
	return trace
}

// providerSection returns the provider's most recent settled, successful
// fetch result without blocking on in-flight fetches.
func (m *Manager) providerSection(name string) (Section, bool) {
	m.mu.Lock()
	entry, ok := m.inflight[name]
	m.mu.Unlock()
	if !ok {
		return nil, false
	}
	select {
	case <-entry.done:
	default:
		return nil, false
	}
	if entry.err != nil {
		return nil, false
	}
	return entry.section, true
}

// ToJSON serialises the trace for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a payload previously produced via ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
