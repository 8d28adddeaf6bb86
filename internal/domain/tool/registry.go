package tool

import (
	"context"
	"fmt"

	"github.com/coursemind/coursemind/internal/infra/llm"
)

// Registry holds the tools available to one in-flight query and dispatches
// invocations by name.
//
// A Registry is owned by a single query at a time: source state accumulates
// across Execute calls within the query and is read and reset by the caller
// afterwards.
type Registry struct {
	order []string
	tools map[string]Tool
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool under its definition name. Registering a second tool
// with the same name replaces the first but keeps its position in the
// registration order.
func (r *Registry) Register(t Tool) {
	name := t.Definition().Name
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = t
}

// Definitions returns the tool definitions in registration order.
func (r *Registry) Definitions() []llm.ToolDefinition {
	defs := make([]llm.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Execute dispatches an invocation to the named tool.
// An unknown name is a normal string result, not an error: the model sees
// the message and can recover. Errors from a registered tool propagate.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) (string, error) {
	t, ok := r.tools[name]
	if !ok {
		return fmt.Sprintf("Tool '%s' not found", name), nil
	}
	return t.Execute(ctx, args)
}

// LastSources concatenates the current source lists of all registered tools
// in registration order.
func (r *Registry) LastSources() []Source {
	var sources []Source
	for _, name := range r.order {
		sources = append(sources, r.tools[name].LastSources()...)
	}
	return sources
}

// ResetSources clears the source list of every registered tool.
func (r *Registry) ResetSources() {
	for _, t := range r.tools {
		t.ResetSources()
	}
}
