// Package shim resolves the operations of an expected global dependency,
// substituting inert stand-ins for any that are missing or not callable.
package shim

import (
	"sort"
	"sync"
)

// Operation is one callable member of a global object.
type Operation func(arg any) any

// Object maps operation names to implementations. A present key with a nil
// Operation models a member that exists but is not callable.
type Object map[string]Operation

// Callable reports whether op is present and callable.
func (o Object) Callable(op string) bool {
	fn, ok := o[op]
	return ok && fn != nil
}

// Satisfies reports whether every required operation is callable.
func (o Object) Satisfies(required ...string) bool {
	if o == nil {
		return false
	}
	for _, op := range required {
		if !o.Callable(op) {
			return false
		}
	}
	return true
}

func (o Object) clone() Object {
	if o == nil {
		return nil
	}
	out := make(Object, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Namespace is the injected set of named global objects.
type Namespace struct {
	mu      sync.RWMutex
	objects map[string]Object
}

// NewNamespace returns an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{objects: make(map[string]Object)}
}

// Define registers or replaces a global object.
func (n *Namespace) Define(name string, obj Object) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.objects[name] = obj.clone()
}

// Remove deletes a global object.
func (n *Namespace) Remove(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.objects, name)
}

// Lookup returns a copy of the named global object.
func (n *Namespace) Lookup(name string) (Object, bool) {
	if n == nil {
		return nil, false
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	obj, ok := n.objects[name]
	if !ok {
		return nil, false
	}
	return obj.clone(), true
}

// Names returns the defined global names in sorted order.
func (n *Namespace) Names() []string {
	if n == nil {
		return nil
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]string, 0, len(n.objects))
	for name := range n.objects {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
