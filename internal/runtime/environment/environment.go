package environment

import (
	"sort"
	"strings"
	"time"

	"github.com/tiger/datefallback/internal/runtime/shim"
)

const (
	// DefaultLocale is used when no locale is configured.
	DefaultLocale = "en-US"
	// LocalZone selects the process-local zone.
	LocalZone = "Local"
)

// Environment is the injected description of what the host provides.
type Environment struct {
	Namespace    *shim.Namespace
	Locale       string
	TimeZone     string
	Disabled     map[string]bool
	Now          func() time.Time
	LoadLocation func(string) (*time.Location, error)
	// Resolver serves the expected surface of namespace globals. When nil,
	// Resolve uses an unlogged resolver over Namespace.
	Resolver *shim.Resolver
}

// New returns an environment with defaults filled in.
func New(ns *shim.Namespace) Environment {
	return Environment{
		Namespace:    ns,
		Locale:       DefaultLocale,
		TimeZone:     LocalZone,
		Disabled:     map[string]bool{},
		Now:          time.Now,
		LoadLocation: time.LoadLocation,
	}.Normalize()
}

// Normalize fills unset fields without overriding configured ones.
func (e Environment) Normalize() Environment {
	if e.Namespace == nil {
		e.Namespace = shim.NewNamespace()
	}
	if strings.TrimSpace(e.Locale) == "" {
		e.Locale = DefaultLocale
	}
	e.TimeZone = strings.TrimSpace(e.TimeZone)
	if e.Disabled == nil {
		e.Disabled = map[string]bool{}
	}
	if e.Now == nil {
		e.Now = time.Now
	}
	if e.LoadLocation == nil {
		e.LoadLocation = time.LoadLocation
	}
	return e
}

// WithDisabled returns a copy with the named strategies disabled.
func (e Environment) WithDisabled(names ...string) Environment {
	disabled := make(map[string]bool, len(e.Disabled)+len(names))
	for k, v := range e.Disabled {
		disabled[k] = v
	}
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			disabled[name] = true
		}
	}
	e.Disabled = disabled
	return e
}

// IsDisabled reports whether a strategy was switched off by configuration.
func (e Environment) IsDisabled(name string) bool {
	return e.Disabled[name]
}

// DisabledNames returns disabled strategy names, sorted.
func (e Environment) DisabledNames() []string {
	out := make([]string, 0, len(e.Disabled))
	for name, off := range e.Disabled {
		if off {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// HasGlobal reports whether the namespace defines name with every op callable.
func (e Environment) HasGlobal(name string, ops ...string) bool {
	obj, ok := e.Namespace.Lookup(name)
	if !ok {
		return false
	}
	return obj.Satisfies(ops...)
}

// Resolve returns the effective surface of the named global, with inert
// shims standing in for missing operations.
func (e Environment) Resolve(name string, ops ...string) *shim.Resolution {
	r := e.Resolver
	if r == nil {
		r = shim.NewResolver(e.Namespace, nil)
	}
	return r.Ensure(name, ops...)
}

// Location resolves the configured zone. An empty zone yields UTC.
func (e Environment) Location() (*time.Location, error) {
	switch e.TimeZone {
	case "":
		return time.UTC, nil
	case LocalZone:
		return time.Local, nil
	}
	load := e.LoadLocation
	if load == nil {
		load = time.LoadLocation
	}
	return load(e.TimeZone)
}
