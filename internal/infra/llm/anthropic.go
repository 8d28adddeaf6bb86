// Anthropic Messages API adapter.
// Implements GenerationProvider with native tool-use support: tool
// definitions go out as JSON Schema, tool_use blocks come back in the
// response content, and tool_result blocks are accepted in user messages.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	// defaultMaxTokens caps answer length for course Q&A responses.
	defaultMaxTokens = 800
)

// AnthropicProvider implements GenerationProvider against the Anthropic API.
type AnthropicProvider struct {
	client *anthropic.Client
	model  string
}

// NewAnthropicProvider creates a provider for the given model.
// Reads ANTHROPIC_API_KEY from the environment.
func NewAnthropicProvider(model string) *AnthropicProvider {
	cl := anthropic.NewClient(
		option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
	)
	return &AnthropicProvider{client: &cl, model: model}
}

// Generate performs a non-streaming Messages API call.
func (p *AnthropicProvider) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(float64(req.Temperature)),
		Messages:    toAnthropicMessages(req.Messages),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if len(req.Tools) > 0 {
		params.Tools = toAnthropicTools(req.Tools)
		params.ToolChoice = anthropic.ToolChoiceUnionParam{
			OfAuto: &anthropic.ToolChoiceAutoParam{},
		}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic generate: %w", err)
	}

	return &GenerateResponse{
		StopReason: StopReason(msg.StopReason),
		Content:    fromAnthropicContent(msg.Content),
	}, nil
}

// toAnthropicMessages converts conversation messages into SDK params.
func toAnthropicMessages(messages []Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, m := range messages {
		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(m.Content))
		for _, cb := range m.Content {
			switch cb.Type {
			case BlockText:
				blocks = append(blocks, anthropic.NewTextBlock(cb.Text))
			case BlockToolUse:
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfToolUse: &anthropic.ToolUseBlockParam{
						ID:    cb.ID,
						Name:  cb.Name,
						Input: cb.Input,
					},
				})
			case BlockToolResult:
				blocks = append(blocks, anthropic.ContentBlockParamUnion{
					OfToolResult: &anthropic.ToolResultBlockParam{
						ToolUseID: cb.ToolUseID,
						IsError:   anthropic.Bool(cb.IsError),
						Content: []anthropic.ToolResultBlockParamContentUnion{
							{OfText: &anthropic.TextBlockParam{Text: cb.Content}},
						},
					},
				})
			}
		}

		role := anthropic.MessageParamRoleUser
		if m.Role == "assistant" {
			role = anthropic.MessageParamRoleAssistant
		}
		out = append(out, anthropic.MessageParam{Role: role, Content: blocks})
	}
	return out
}

// toAnthropicTools converts tool definitions into SDK tool params.
func toAnthropicTools(tools []ToolDefinition) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, len(tools))
	for i, t := range tools {
		props := make(map[string]any, len(t.InputSchema.Properties))
		for name, prop := range t.InputSchema.Properties {
			p := map[string]any{"type": prop.Type}
			if prop.Description != "" {
				p["description"] = prop.Description
			}
			props[name] = p
		}
		out[i] = anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        t.Name,
				Description: anthropic.String(t.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: props,
					Required:   t.InputSchema.Required,
				},
			},
		}
	}
	return out
}

// fromAnthropicContent converts response content blocks into wire blocks.
// Unknown block variants are skipped.
func fromAnthropicContent(content []anthropic.ContentBlockUnion) []ContentBlock {
	out := make([]ContentBlock, 0, len(content))
	for _, cb := range content {
		switch b := cb.AsAny().(type) {
		case anthropic.TextBlock:
			out = append(out, TextBlock(b.Text))
		case anthropic.ToolUseBlock:
			input := map[string]any{}
			if len(b.Input) > 0 {
				if err := json.Unmarshal(b.Input, &input); err != nil {
					input = map[string]any{}
				}
			}
			out = append(out, ToolUseBlock(b.ID, b.Name, input))
		}
	}
	return out
}
