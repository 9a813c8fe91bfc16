package tool

import (
	"context"
	"encoding/json"
	"sync"
)

// Registry manages registered tools and their handlers.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Registration
	order []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Registration),
	}
}

// Register adds a tool with its handler to the registry.
// Returns an error if a tool with the same name is already registered.
func (r *Registry) Register(reg Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[reg.Tool.Name]; exists {
		return &ErrToolAlreadyRegistered{Name: reg.Tool.Name}
	}
	r.tools[reg.Tool.Name] = reg
	r.order = append(r.order, reg.Tool.Name)
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(reg Registration) {
	if err := r.Register(reg); err != nil {
		panic(err)
	}
}

// Add registers one or more tools and returns the registry for fluent
// chaining. Panics if any tool is already registered.
//
// Example:
//
//	registry := tool.NewRegistry().Add(
//	    tool.Func("memgraph", "Analyze kernel memory usage", memgraphFn),
//	    tool.Func("iofsstat", "Trace filesystem IO", iofsstatFn),
//	)
func (r *Registry) Add(regs ...Registration) *Registry {
	for _, reg := range regs {
		r.MustRegister(reg)
	}
	return r
}

// Get retrieves a handler by tool name.
func (r *Registry) Get(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.tools[name]
	if !ok {
		return nil, false
	}
	return reg.Handler, true
}

// GetTool retrieves a tool definition by name.
func (r *Registry) GetTool(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.tools[name]
	if !ok {
		return Tool{}, false
	}
	return reg.Tool, true
}

// Tools returns all registered tool definitions in registration order.
func (r *Registry) Tools() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name].Tool)
	}
	return tools
}

// Names returns the names of all registered tools in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Execute runs the handler for a named tool. If the tool is unknown,
// ErrToolNotFound is returned.
func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) (string, error) {
	r.mu.RLock()
	reg, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return "", &ErrToolNotFound{Name: name}
	}
	return reg.Handler(ctx, args)
}
