// Package llm defines the model-agnostic LLM provider abstraction.
// All types here are shared between the provider interfaces and adapters.
package llm

import "strings"

// StopReason reports why the model stopped generating.
type StopReason string

const (
	StopEndTurn   StopReason = "end_turn"
	StopToolUse   StopReason = "tool_use"
	StopMaxTokens StopReason = "max_tokens"
)

// Block content types.
const (
	BlockText       = "text"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
)

// ContentBlock is one block of a message: plain text, a tool invocation
// requested by the model, or a tool result sent back to it.
// Type selects which fields are meaningful.
type ContentBlock struct {
	Type string

	// Type == "text"
	Text string

	// Type == "tool_use"
	ID    string
	Name  string
	Input map[string]any

	// Type == "tool_result"
	ToolUseID string
	Content   string
	IsError   bool
}

// TextBlock builds a text content block.
func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: BlockText, Text: text}
}

// ToolUseBlock builds a tool invocation block.
func ToolUseBlock(id, name string, input map[string]any) ContentBlock {
	return ContentBlock{Type: BlockToolUse, ID: id, Name: name, Input: input}
}

// ToolResultBlock builds a tool result block answering a tool_use block.
func ToolResultBlock(toolUseID, content string, isError bool) ContentBlock {
	return ContentBlock{Type: BlockToolResult, ToolUseID: toolUseID, Content: content, IsError: isError}
}

// Message is a single conversation turn.
type Message struct {
	Role    string // "user" | "assistant"
	Content []ContentBlock
}

// UserText builds a user message with a single text block.
func UserText(text string) Message {
	return Message{Role: "user", Content: []ContentBlock{TextBlock(text)}}
}

// AssistantText builds an assistant message with a single text block.
func AssistantText(text string) Message {
	return Message{Role: "assistant", Content: []ContentBlock{TextBlock(text)}}
}

// Property describes one parameter in a tool input schema.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

// InputSchema is the JSON Schema object describing a tool's parameters.
type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required"`
}

// ToolDefinition declares a callable tool to the model.
type ToolDefinition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"input_schema"`
}

// GenerateRequest is the input for a non-streaming generation call.
type GenerateRequest struct {
	System      string
	Messages    []Message
	Tools       []ToolDefinition // nil = no tools offered this call
	Temperature float32
	MaxTokens   int
}

// GenerateResponse is the output of a generation call.
type GenerateResponse struct {
	StopReason StopReason
	Content    []ContentBlock
}

// Text concatenates the text blocks of the response.
func (r *GenerateResponse) Text() string {
	var b strings.Builder
	for _, cb := range r.Content {
		if cb.Type == BlockText {
			b.WriteString(cb.Text)
		}
	}
	return b.String()
}

// ToolUses returns the tool_use blocks of the response in order.
func (r *GenerateResponse) ToolUses() []ContentBlock {
	var uses []ContentBlock
	for _, cb := range r.Content {
		if cb.Type == BlockToolUse {
			uses = append(uses, cb)
		}
	}
	return uses
}

// EmbedRequest is the input for a batch embedding call.
type EmbedRequest struct {
	// Model overrides the provider default when non-empty.
	Model string
	Texts []string
}

// EmbedResponse is the output from a batch embedding call.
// Embeddings[i] corresponds to Texts[i] in the request.
type EmbedResponse struct {
	Embeddings [][]float32
}
