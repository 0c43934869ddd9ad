// Package localedata is an in-memory CLDR-style data store exposed to the
// strategies through the "Cldr" global.
package localedata

import (
	"fmt"
	"strings"
	"sync"

	"github.com/tiger/datefallback/internal/runtime/shim"
)

// GlobalName is the name the store is published under.
const GlobalName = "Cldr"

// Store holds merged locale data documents.
type Store struct {
	mu   sync.RWMutex
	data map[string]any
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{data: make(map[string]any)}
}

// Load deep-merges a document into the store and returns it unchanged.
// Non-mapping documents are ignored.
func (s *Store) Load(doc any) any {
	m, ok := doc.(map[string]any)
	if !ok {
		return doc
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	merge(s.data, m)
	return doc
}

// Get resolves a slash-separated path (or a slice of segments). Missing
// paths resolve to nil.
func (s *Store) Get(path any) any {
	segments := splitPath(path)
	s.mu.RLock()
	defer s.mu.RUnlock()

	var cur any = s.data
	for _, segment := range segments {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur, ok = m[segment]
		if !ok {
			return nil
		}
	}
	return copyValue(cur)
}

// Object exposes the store as a global object.
func (s *Store) Object() shim.Object {
	return shim.Object{
		"load": s.Load,
		"get":  s.Get,
		"main": func(path any) any {
			return s.Get(append([]string{"main"}, splitPath(path)...))
		},
		"supplemental": func(path any) any {
			return s.Get(append([]string{"supplemental"}, splitPath(path)...))
		},
	}
}

func merge(dst, src map[string]any) {
	for k, v := range src {
		if sub, ok := v.(map[string]any); ok {
			existing, ok := dst[k].(map[string]any)
			if !ok {
				existing = make(map[string]any, len(sub))
				dst[k] = existing
			}
			merge(existing, sub)
			continue
		}
		dst[k] = copyValue(v)
	}
}

func copyValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, inner := range typed {
			out[k] = copyValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, inner := range typed {
			out[i] = copyValue(inner)
		}
		return out
	case []string:
		return append([]string(nil), typed...)
	default:
		return v
	}
}

func splitPath(path any) []string {
	var raw []string
	switch typed := path.(type) {
	case nil:
		return nil
	case string:
		raw = strings.Split(typed, "/")
	case []string:
		raw = typed
	case []any:
		for _, p := range typed {
			raw = append(raw, fmt.Sprint(p))
		}
	default:
		raw = []string{fmt.Sprint(typed)}
	}
	out := make([]string, 0, len(raw))
	for _, part := range raw {
		for _, segment := range strings.Split(part, "/") {
			if segment = strings.TrimSpace(segment); segment != "" {
				out = append(out, segment)
			}
		}
	}
	return out
}
