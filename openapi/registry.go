package openapi

import (
	"context"
	"reflect"
	"sync"
)

// SupportMode declares which transports may carry an operation. It is a
// closed set; the factory switches over it exhaustively so that adding a
// transport forces a review of every dispatch path.
type SupportMode int

const (
	// ModeFramework restricts the operation to the service-discovery transport.
	ModeFramework SupportMode = iota
	// ModeCloud restricts the operation to the signed cloud SDK transport.
	ModeCloud
	// ModeBoth allows either transport; the configured deploy mode decides.
	ModeBoth
)

func (m SupportMode) String() string {
	switch m {
	case ModeFramework:
		return "framework_only"
	case ModeCloud:
		return "cloud_only"
	case ModeBoth:
		return "both"
	default:
		return "unknown"
	}
}

// FrameworkBinding carries what the framework transport needs to invoke an
// operation: the logical service that hosts it, the URL path, and the HTTP
// method (GET or POST).
type FrameworkBinding struct {
	Service string
	Path    string
	Method  string
}

// RawResponse is the transport-level answer of a cloud invocation before
// any interpretation: the HTTP status code and the decoded body.
type RawResponse struct {
	StatusCode int
	Body       any
}

// InvokeFunc performs one signed call for a specific operation over a live
// cloud connection. The request has already been validated against the
// binding's declared request type.
type InvokeFunc func(ctx context.Context, conn *Conn, req any) (*RawResponse, error)

// CloudBinding carries what the cloud transport needs to invoke an
// operation: the concrete request and response types it accepts and
// produces, and the bound invocation function.
type CloudBinding struct {
	RequestType  reflect.Type
	ResponseType reflect.Type
	Invoke       InvokeFunc
}

// Route is the invocation metadata of one named operation.
type Route struct {
	Name      string
	Mode      SupportMode
	Framework *FrameworkBinding
	Cloud     *CloudBinding
}

// Registry maps operation names to routes. Entries are created lazily by
// whichever caller first needs them and are never removed. Registration
// is idempotent per binding kind: re-registering a kind replaces that
// binding in place, and registering the missing kind widens the support
// mode to ModeBoth without ever narrowing it.
//
// A single mutex guards mutation; registration is rare (once per
// operation name) relative to lookup.
type Registry struct {
	mu     sync.RWMutex
	routes map[string]*Route
}

// NewRegistry creates an empty route registry. The registry is
// constructor-injected into the factory and orchestrator rather than held
// as process-global state, so tests can isolate their own tables.
func NewRegistry() *Registry {
	return &Registry{routes: make(map[string]*Route)}
}

// RegisterFramework adds or replaces the framework binding of an operation.
func (r *Registry) RegisterFramework(name string, b FrameworkBinding) {
	r.mu.Lock()
	defer r.mu.Unlock()

	route, ok := r.routes[name]
	if !ok {
		r.routes[name] = &Route{Name: name, Mode: ModeFramework, Framework: &b}
		return
	}
	route.Framework = &b
	if route.Mode == ModeCloud {
		route.Mode = ModeBoth
	}
}

// RegisterCloud adds or replaces the cloud binding of an operation.
func (r *Registry) RegisterCloud(name string, b CloudBinding) {
	r.mu.Lock()
	defer r.mu.Unlock()

	route, ok := r.routes[name]
	if !ok {
		r.routes[name] = &Route{Name: name, Mode: ModeCloud, Cloud: &b}
		return
	}
	route.Cloud = &b
	if route.Mode == ModeFramework {
		route.Mode = ModeBoth
	}
}

// RegisterOnce installs an operation's bindings under one lock, only when
// the operation is not yet registered. Lazy route providers use it so
// that repeated registration never touches a live route, and so that two
// providers racing to install the same operation cannot interleave their
// per-kind registrations. It reports whether it installed anything.
func (r *Registry) RegisterOnce(name string, fb *FrameworkBinding, cb *CloudBinding) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.routes[name]; ok {
		return false
	}

	route := &Route{Name: name, Framework: fb, Cloud: cb}
	switch {
	case fb != nil && cb != nil:
		route.Mode = ModeBoth
	case cb != nil:
		route.Mode = ModeCloud
	default:
		route.Mode = ModeFramework
	}
	r.routes[name] = route
	return true
}

// Resolve looks up a route by operation name and returns a snapshot of
// it: later registrations never mutate the returned value, so callers may
// read its fields without holding any lock. It never fails; absence is
// reported through the boolean, and callers turn it into a dispatch
// error.
func (r *Registry) Resolve(name string) (*Route, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	route, ok := r.routes[name]
	if !ok {
		return nil, false
	}
	snapshot := *route
	return &snapshot, true
}

// Framework returns the framework binding of an operation, if present.
func (r *Registry) Framework(name string) (*FrameworkBinding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	route, ok := r.routes[name]
	if !ok || route.Framework == nil {
		return nil, false
	}
	return route.Framework, true
}

// Cloud returns the cloud binding of an operation, if present.
func (r *Registry) Cloud(name string) (*CloudBinding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	route, ok := r.routes[name]
	if !ok || route.Cloud == nil {
		return nil, false
	}
	return route.Cloud, true
}

// Names returns all registered operation names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.routes))
	for name := range r.routes {
		names = append(names, name)
	}
	return names
}

// Len returns the number of registered operations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.routes)
}
