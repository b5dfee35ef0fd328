// Package locations holds the ordered list of place names a run fetches.
package locations

import "strings"

var defaultNames = []string{
	"London", "New York", "Tokyo", "Sydney", "Paris",
	"Mumbai", "Lagos", "Cairo", "Moscow", "Toronto",
}

// Registry is an ordered, immutable sequence of location names.
// Order determines fetch order and output row order. Duplicates are kept.
type Registry struct {
	names []string
}

// New returns a Registry holding names in the given order.
func New(names ...string) Registry {
	return Registry{names: append([]string(nil), names...)}
}

// Default returns the built-in registry used when no locations are configured.
func Default() Registry {
	return New(defaultNames...)
}

// Parse builds a Registry from a comma-separated list. Blank entries are dropped.
func Parse(s string) Registry {
	var names []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			names = append(names, part)
		}
	}
	return New(names...)
}

// Names returns a copy of the registry's names. The result is never nil, so
// an empty registry stays distinguishable from an unset location list.
func (r Registry) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Len returns the number of names.
func (r Registry) Len() int {
	return len(r.names)
}
