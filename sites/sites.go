package sites

import (
	"fmt"
	"slices"
	"strings"

	"khobor"
)

// registry maps the CLI-facing source key to its adapter constructor.
// Keys are lowercase.
var registry = map[string]func() khobor.Source{
	"prothom_alo": ProthomAlo,
	"daily_star":  DailyStar,
}

// ByName returns the adapter registered under name, case-insensitively.
// An unknown name is the one unrecoverable configuration error in the
// module; callers exit on it rather than continuing with nothing.
func ByName(name string) (khobor.Source, error) {
	build, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown source %q (available: %s)",
			name, strings.Join(Names(), ", "))
	}
	return build(), nil
}

// Names lists the registered source keys in stable order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// All returns one adapter per registered source, in Names order.
func All() []khobor.Source {
	sources := make([]khobor.Source, 0, len(registry))
	for _, name := range Names() {
		sources = append(sources, registry[name]())
	}
	return sources
}

// Register adds an adapter under name, replacing any existing entry.
// Feed sources declared in the config file register themselves through
// this at startup. Not safe for concurrent use; registration happens
// before any scraping starts.
func Register(name string, build func() khobor.Source) {
	registry[strings.ToLower(name)] = build
}
