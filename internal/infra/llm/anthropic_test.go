package llm

import "testing"

func TestToAnthropicMessages(t *testing.T) {
	msgs := toAnthropicMessages([]Message{
		UserText("What is RAG?"),
		{Role: "assistant", Content: []ContentBlock{
			ToolUseBlock("tu_1", "search_course_content", map[string]any{"query": "RAG"}),
		}},
		{Role: "user", Content: []ContentBlock{
			ToolResultBlock("tu_1", "some results", false),
		}},
	})

	if len(msgs) != 3 {
		t.Fatalf("len = %d, want 3", len(msgs))
	}
	if msgs[0].Content[0].OfText == nil {
		t.Error("message 0 should carry a text block")
	}
	if msgs[1].Content[0].OfToolUse == nil {
		t.Error("message 1 should carry a tool_use block")
	}
	tr := msgs[2].Content[0].OfToolResult
	if tr == nil {
		t.Fatal("message 2 should carry a tool_result block")
	}
	if tr.ToolUseID != "tu_1" {
		t.Errorf("ToolUseID = %q", tr.ToolUseID)
	}
}

func TestToAnthropicTools(t *testing.T) {
	tools := toAnthropicTools([]ToolDefinition{{
		Name:        "search_course_content",
		Description: "Search course materials",
		InputSchema: InputSchema{
			Type: "object",
			Properties: map[string]Property{
				"query": {Type: "string", Description: "What to search for"},
			},
			Required: []string{"query"},
		},
	}})

	if len(tools) != 1 {
		t.Fatalf("len = %d, want 1", len(tools))
	}
	tp := tools[0].OfTool
	if tp == nil {
		t.Fatal("expected OfTool variant")
	}
	if tp.Name != "search_course_content" {
		t.Errorf("Name = %q", tp.Name)
	}
	if len(tp.InputSchema.Required) != 1 || tp.InputSchema.Required[0] != "query" {
		t.Errorf("Required = %v", tp.InputSchema.Required)
	}
}
