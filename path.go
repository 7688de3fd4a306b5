package config

import "strings"

// lookupPath traverses section segment by segment. Paths split on either '.'
// or ':' so both "a.b.c" and "a:b:c" address the same value. An empty
// segment, as in "a..b" or a leading or trailing delimiter, is a missing
// segment and resolves to nil.
func lookupPath(section Section, path string) any {
	current := any(section)
	for _, segment := range splitPath(path) {
		if segment == "" {
			return nil
		}
		nested, ok := AsSection(current)
		if !ok {
			return nil
		}
		value, ok := nested[segment]
		if !ok {
			return nil
		}
		current = value
	}
	return current
}

func splitPath(path string) []string {
	return strings.Split(strings.ReplaceAll(path, ":", "."), ".")
}
