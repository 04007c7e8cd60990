package toolbus

import (
	"encoding/json"
	"fmt"
	"iter"
	"sync"

	"github.com/toolbus-dev/toolbus/internal/schema"
)

// Registration is one registry entry: the tool plus its schema, compiled once
// at registration time.
type Registration struct {
	Tool     Tool
	compiled *schema.Compiled
}

// ValidateArgs checks raw arguments against the tool's compiled schema.
func (r *Registration) ValidateArgs(raw json.RawMessage) error {
	err := r.compiled.Validate(raw)
	if err == nil {
		return nil
	}
	ve := &ValidationError{ToolName: r.Tool.Name, Cause: err}
	if fe, ok := err.(*schema.FieldError); ok {
		ve.Field = fe.Field
		ve.Reason = fe.Reason
	} else {
		ve.Reason = ReasonInvalid
	}
	return ve
}

// Registry is the catalog of available tools, keyed by name. Registration
// order is preserved for advertisement. All methods are safe for concurrent
// use, though mutation is expected to happen during setup/teardown, disjoint
// from dispatch traffic.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Registration
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Registration)}
}

// Register adds a tool. The name must be unique: registering a duplicate
// fails with *DuplicateToolError rather than overwriting. The input schema is
// compiled here so a malformed schema is caught at setup time, not on the
// first invocation.
func (r *Registry) Register(t Tool) error {
	if t.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if t.Handler == nil {
		return fmt.Errorf("tool %q missing handler", t.Name)
	}
	compiled, err := schema.Compile(t.InputSchema.JSON)
	if err != nil {
		return fmt.Errorf("tool %q: %w", t.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[t.Name]; ok {
		return &DuplicateToolError{ToolName: t.Name}
	}
	r.byName[t.Name] = &Registration{Tool: t, compiled: compiled}
	r.order = append(r.order, t.Name)
	return nil
}

// Unregister removes a tool, failing with *NotFoundError if absent.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[name]; !ok {
		return &NotFoundError{ToolName: name}
	}
	delete(r.byName, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns the registration for name or *NotFoundError.
func (r *Registry) Get(name string) (*Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.byName[name]
	if !ok {
		return nil, &NotFoundError{ToolName: name}
	}
	return reg, nil
}

// List yields the descriptors of all registered tools in registration order.
// The sequence is restartable; each restart snapshots the catalog anew, so
// repeated iteration over an unmutated registry yields identical sequences.
func (r *Registry) List() iter.Seq[Descriptor] {
	return func(yield func(Descriptor) bool) {
		for _, d := range r.Descriptors() {
			if !yield(d) {
				return
			}
		}
	}
}

// Descriptors returns the catalog as a slice, in registration order.
func (r *Registry) Descriptors() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name].Tool.Descriptor())
	}
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}
