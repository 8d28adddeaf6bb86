// Package tool defines the callable tools offered to the generation backend
// and the registry that dispatches tool invocations by name.
package tool

import (
	"context"

	"github.com/coursemind/coursemind/internal/infra/llm"
)

// Source is a citation for content a tool surfaced during execution.
// URL is empty when no link is stored for the cited material.
type Source struct {
	Label string `json:"label"`
	URL   string `json:"url,omitempty"`
}

// Tool is a single capability the model can invoke.
//
// Execute returns a user-facing string for recoverable conditions (empty
// results, unknown course) and a Go error only for infrastructure failures.
// LastSources reflects the most recent Execute call; ResetSources clears it.
type Tool interface {
	Definition() llm.ToolDefinition
	Execute(ctx context.Context, args map[string]any) (string, error)
	LastSources() []Source
	ResetSources()
}
