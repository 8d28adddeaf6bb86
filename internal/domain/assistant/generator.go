package assistant

import (
	"context"
	"fmt"

	"github.com/coursemind/coursemind/internal/infra/llm"
)

// maxToolRounds bounds how many tool rounds one query may use.
const maxToolRounds = 2

// fallbackResponse is returned when the final backend response carries no
// text block.
const fallbackResponse = "I'm sorry, I wasn't able to generate a response. Please try again."

// Dispatcher executes tool invocations on behalf of the generator.
// A nil Dispatcher disables tool execution even when the backend asks.
type Dispatcher interface {
	Execute(ctx context.Context, name string, args map[string]any) (string, error)
}

// ResponseGenerator drives the bounded backend/tool exchange for one query.
type ResponseGenerator struct {
	backend llm.GenerationProvider
}

// NewResponseGenerator creates a generator over the given backend.
func NewResponseGenerator(backend llm.GenerationProvider) *ResponseGenerator {
	return &ResponseGenerator{backend: backend}
}

// Generate answers query, running at most maxToolRounds tool rounds.
//
// Each round executes the response's tool_use blocks sequentially and sends
// the results back. A follow-up call offers tools only when more rounds
// remain and the current round had no tool failure; the call after a failed
// round is the last one. Backend errors propagate unchanged; tool errors are
// folded into the conversation as error tool results.
func (g *ResponseGenerator) Generate(ctx context.Context, query, history string, tools []llm.ToolDefinition, dispatcher Dispatcher) (string, error) {
	system := systemPrompt
	if history != "" {
		system = systemPrompt + "\n\nPrevious conversation:\n" + history
	}

	messages := []llm.Message{llm.UserText(query)}

	initial := llm.GenerateRequest{System: system, Messages: messages}
	if len(tools) > 0 {
		initial.Tools = tools
	}
	resp, err := g.backend.Generate(ctx, initial)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	for round := 0; round < maxToolRounds; round++ {
		if resp.StopReason != llm.StopToolUse || dispatcher == nil {
			break
		}

		roundFailed := !g.executeToolRound(ctx, resp, &messages, dispatcher)

		followUp := llm.GenerateRequest{System: system, Messages: messages}
		if len(tools) > 0 && !roundFailed && round < maxToolRounds-1 {
			followUp.Tools = tools
		}
		resp, err = g.backend.Generate(ctx, followUp)
		if err != nil {
			return "", fmt.Errorf("generate: %w", err)
		}

		if roundFailed {
			break
		}
	}

	for _, cb := range resp.Content {
		if cb.Type == llm.BlockText {
			return cb.Text, nil
		}
	}
	return fallbackResponse, nil
}

// executeToolRound appends the assistant's tool-use message, executes its
// tool_use blocks in order, and appends one user message with the results.
// A tool error stops the block loop; the error result is still sent back.
// Returns false when the round failed.
func (g *ResponseGenerator) executeToolRound(ctx context.Context, resp *llm.GenerateResponse, messages *[]llm.Message, dispatcher Dispatcher) bool {
	*messages = append(*messages, llm.Message{Role: "assistant", Content: resp.Content})

	var results []llm.ContentBlock
	for _, cb := range resp.Content {
		if cb.Type != llm.BlockToolUse {
			continue
		}
		out, err := dispatcher.Execute(ctx, cb.Name, cb.Input)
		if err != nil {
			results = append(results, llm.ToolResultBlock(cb.ID, fmt.Sprintf("Error executing tool: %v", err), true))
			*messages = append(*messages, llm.Message{Role: "user", Content: results})
			return false
		}
		results = append(results, llm.ToolResultBlock(cb.ID, out, false))
	}

	if len(results) > 0 {
		*messages = append(*messages, llm.Message{Role: "user", Content: results})
	}
	return true
}
