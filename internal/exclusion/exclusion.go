// Package exclusion decides whether the current process must be left
// untouched by the agent.
package exclusion

import (
	"strings"
	"sync"
)

// Processes that render their own titlebar chrome and misbehave when the
// dark attribute is forced from outside.
var defaultDenylist = []string{
	"systemsettings.exe",
	"applicationframehost.exe", // UWP application frame host
}

// Filter answers whether the current process is excluded. The decision is
// computed once from the executable filename and memoized for the process
// lifetime; it is never invalidated.
type Filter struct {
	once     sync.Once
	excluded bool

	names  map[string]struct{}
	lookup func() (string, error)
}

// New creates a filter over the default denylist plus extra names. lookup
// resolves the current executable path; a lookup failure means "included".
func New(extra []string, lookup func() (string, error)) *Filter {
	names := make(map[string]struct{}, len(defaultDenylist)+len(extra))
	for _, n := range defaultDenylist {
		names[n] = struct{}{}
	}
	for _, n := range extra {
		n = strings.ToLower(strings.TrimSpace(n))
		if n != "" {
			names[n] = struct{}{}
		}
	}
	return &Filter{names: names, lookup: lookup}
}

// Excluded reports whether the current process matches the denylist.
// Memoized: the first call computes, every later call returns the cached
// decision.
func (f *Filter) Excluded() bool {
	f.once.Do(func() {
		f.excluded = f.compute()
	})
	return f.excluded
}

func (f *Filter) compute() bool {
	if f.lookup == nil {
		return false
	}
	path, err := f.lookup()
	if err != nil || path == "" {
		return false
	}
	_, hit := f.names[strings.ToLower(baseName(path))]
	return hit
}

// baseName extracts the filename component. Both separators are accepted so
// that the filter works on native and host-supplied paths alike.
func baseName(path string) string {
	if i := strings.LastIndexAny(path, `\/`); i >= 0 {
		return path[i+1:]
	}
	return path
}

// Denylist returns the effective denylist, for diagnostics.
func (f *Filter) Denylist() []string {
	names := make([]string, 0, len(f.names))
	for n := range f.names {
		names = append(names, n)
	}
	return names
}
