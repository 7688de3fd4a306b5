package config

// Section is a recursive configuration mapping. Values are strings, numbers,
// booleans, nil, or nested sections (either Section or plain map[string]any,
// depending on which parser produced them). Sections are treated as
// immutable: providers and merges always build fresh maps, and a completed
// load replaces the cached snapshot wholesale.
type Section map[string]any

// AsSection reports whether value is traversable as a section and returns it
// normalised when it is.
func AsSection(value any) (Section, bool) {
	switch section := value.(type) {
	case Section:
		return section, true
	case map[string]any:
		return Section(section), true
	default:
		return nil, false
	}
}

// Clone returns a deep copy of the section so callers can hold onto results
// without observing later mutations.
func (s Section) Clone() Section {
	if s == nil {
		return nil
	}
	out := make(Section, len(s))
	for key, value := range s {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	if nested, ok := AsSection(value); ok {
		return nested.Clone()
	}
	if items, ok := value.([]any); ok {
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = cloneValue(item)
		}
		return out
	}
	return value
}

// mergeSections combines sections in application order with a shallow,
// last-applied-wins overwrite per top-level key. The inputs are never
// mutated; the result is always a fresh map.
func mergeSections(sections []Section) Section {
	merged := Section{}
	for _, section := range sections {
		for key, value := range section {
			merged[key] = cloneValue(value)
		}
	}
	return merged
}
