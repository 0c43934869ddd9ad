package shim

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tiger/datefallback/internal/observability/eventlog"
)

// Resolver builds resolutions of expected globals against a namespace.
// The namespace itself is never written.
type Resolver struct {
	ns  *Namespace
	log *eventlog.Log

	mu       sync.Mutex
	reported map[string]string
}

// NewResolver creates a resolver over ns.
func NewResolver(ns *Namespace, log *eventlog.Log) *Resolver {
	if ns == nil {
		ns = NewNamespace()
	}
	return &Resolver{ns: ns, log: log, reported: make(map[string]string)}
}

// Namespace returns the namespace being resolved against.
func (r *Resolver) Namespace() *Namespace {
	return r.ns
}

// Ensure resolves required operations on the named global. Real callable
// operations are returned untouched; every other required operation is
// replaced by an inert shim.
func (r *Resolver) Ensure(name string, required ...string) *Resolution {
	obj, present := r.ns.Lookup(name)
	res := &Resolution{
		Global:  name,
		Present: present,
		ops:     make(Object, len(required)),
	}

	for _, op := range normalize(required) {
		if obj.Callable(op) {
			res.ops[op] = obj[op]
			continue
		}
		res.ops[op] = r.shimOperation(name, op)
		res.shimmed = append(res.shimmed, op)
	}
	// Extra callable members are passed through so downstream code sees the
	// full real surface where one exists.
	for op, fn := range obj {
		if _, ok := res.ops[op]; !ok && fn != nil {
			res.ops[op] = fn
		}
	}

	r.reportInstall(res)
	return res
}

func (r *Resolver) reportInstall(res *Resolution) {
	key := strings.Join(res.shimmed, ",")
	r.mu.Lock()
	last, seen := r.reported[res.Global]
	r.reported[res.Global] = key
	r.mu.Unlock()
	if len(res.shimmed) == 0 || (seen && last == key) {
		return
	}
	r.log.Info(eventlog.KindShimInstalled, map[string]any{
		"global":     res.Global,
		"present":    res.Present,
		"operations": append([]string(nil), res.shimmed...),
	})
}

func (r *Resolver) shimOperation(global, op string) Operation {
	base := defaultOperation(op)
	return func(arg any) any {
		r.log.Info(eventlog.KindShimUsed, map[string]any{
			"global":    global,
			"operation": op,
			"data_keys": dataKeys(arg),
		})
		return base(arg)
	}
}

// defaultOperation returns the inert behavior for an operation name:
// read-style operations return an empty mapping, everything else echoes.
func defaultOperation(op string) Operation {
	switch op {
	case "get", "main", "supplemental":
		return func(any) any { return map[string]any{} }
	default:
		return func(arg any) any { return arg }
	}
}

// Resolution is the effective surface of an expected global.
type Resolution struct {
	Global  string
	Present bool

	ops     Object
	shimmed []string
}

// Operation returns the effective implementation of op.
func (r *Resolution) Operation(op string) (Operation, bool) {
	fn, ok := r.ops[op]
	return fn, ok && fn != nil
}

// Call invokes op and converts a faulting implementation into an error.
func (r *Resolution) Call(op string, arg any) (out any, err error) {
	fn, ok := r.Operation(op)
	if !ok {
		return nil, fmt.Errorf("%s.%s is not resolved", r.Global, op)
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%s.%s panic: %v", r.Global, op, rec)
		}
	}()
	return fn(arg), nil
}

// Shimmed returns the operations served by shims, sorted.
func (r *Resolution) Shimmed() []string {
	return append([]string(nil), r.shimmed...)
}

// Complete reports whether every required operation is real.
func (r *Resolution) Complete() bool {
	return len(r.shimmed) == 0
}

// Object returns a copy of the effective object.
func (r *Resolution) Object() Object {
	return r.ops.clone()
}

func normalize(ops []string) []string {
	seen := make(map[string]struct{}, len(ops))
	out := make([]string, 0, len(ops))
	for _, op := range ops {
		op = strings.TrimSpace(op)
		if op == "" {
			continue
		}
		if _, ok := seen[op]; ok {
			continue
		}
		seen[op] = struct{}{}
		out = append(out, op)
	}
	sort.Strings(out)
	return out
}

func dataKeys(arg any) []string {
	m, ok := arg.(map[string]any)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
