package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/coursemind/coursemind/internal/domain/tool"
	"github.com/coursemind/coursemind/internal/infra/llm"
)

// memSessions is an in-memory SessionStore.
type memSessions struct {
	nextID    int
	histories map[string]string
	exchanges map[string][][2]string
	createErr error
}

func newMemSessions() *memSessions {
	return &memSessions{
		histories: map[string]string{},
		exchanges: map[string][][2]string{},
	}
}

func (m *memSessions) Create(context.Context) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	m.nextID++
	id := "s" + string(rune('0'+m.nextID))
	m.histories[id] = ""
	return id, nil
}

func (m *memSessions) AddExchange(_ context.Context, sessionID, userMessage, assistantMessage string) error {
	m.exchanges[sessionID] = append(m.exchanges[sessionID], [2]string{userMessage, assistantMessage})
	return nil
}

func (m *memSessions) History(_ context.Context, sessionID string) (string, error) {
	return m.histories[sessionID], nil
}

// sourcingTool returns a fixed result and records a source on every execute.
type sourcingTool struct {
	name    string
	sources []tool.Source
}

func (s *sourcingTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{Name: s.name, InputSchema: llm.InputSchema{Type: "object"}}
}

func (s *sourcingTool) Execute(context.Context, map[string]any) (string, error) {
	s.sources = []tool.Source{{Label: "Building RAG Systems - Lesson 1", URL: "https://example.com/1"}}
	return "chunk text", nil
}

func (s *sourcingTool) LastSources() []tool.Source { return s.sources }
func (s *sourcingTool) ResetSources()              { s.sources = nil }

func newService(backend *fakeBackend) (*AssistantService, *memSessions, *tool.Registry) {
	registry := tool.NewRegistry()
	registry.Register(&sourcingTool{name: "search_course_content"})
	sessions := newMemSessions()
	svc := NewAssistantService(NewResponseGenerator(backend), registry, sessions)
	return svc, sessions, registry
}

func TestAnswer_NewSession(t *testing.T) {
	backend := &fakeBackend{responses: []*llm.GenerateResponse{textResponse("An answer.")}}
	svc, sessions, _ := newService(backend)

	answer, sources, sid, err := svc.Answer(context.Background(), "What is RAG?", "")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if answer != "An answer." {
		t.Errorf("answer = %q", answer)
	}
	if sid == "" {
		t.Error("expected a new session id")
	}
	if len(sources) != 0 {
		t.Errorf("sources = %+v, want none without tool use", sources)
	}

	got := sessions.exchanges[sid]
	if len(got) != 1 || got[0][0] != "What is RAG?" || got[0][1] != "An answer." {
		t.Errorf("recorded exchanges = %+v", got)
	}
}

func TestAnswer_CollectsAndResetsSources(t *testing.T) {
	backend := &fakeBackend{responses: []*llm.GenerateResponse{
		toolUseResponse(searchUse("tu_1", "rag")),
		textResponse("Answer with citations."),
	}}
	svc, _, registry := newService(backend)

	_, sources, _, err := svc.Answer(context.Background(), "q", "")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if len(sources) != 1 || sources[0].Label != "Building RAG Systems - Lesson 1" {
		t.Errorf("sources = %+v", sources)
	}
	if len(registry.LastSources()) != 0 {
		t.Error("registry sources must be reset after the query")
	}
}

func TestAnswer_UsesHistory(t *testing.T) {
	backend := &fakeBackend{responses: []*llm.GenerateResponse{textResponse("ok")}}
	svc, sessions, _ := newService(backend)
	sessions.histories["s9"] = "User: earlier\nAssistant: reply"

	_, _, sid, err := svc.Answer(context.Background(), "q", "s9")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if sid != "s9" {
		t.Errorf("sid = %q, want existing session", sid)
	}
	if got := backend.requests[0].System; !strings.Contains(got, "User: earlier") {
		t.Error("history not passed to generator")
	}
}

func TestAnswer_GeneratorErrorPropagates(t *testing.T) {
	backend := &fakeBackend{
		responses: []*llm.GenerateResponse{textResponse("x")},
		errOnCall: 1,
	}
	svc, sessions, _ := newService(backend)

	_, _, _, err := svc.Answer(context.Background(), "q", "")
	if err == nil {
		t.Fatal("expected backend error")
	}
	for sid, ex := range sessions.exchanges {
		if len(ex) != 0 {
			t.Errorf("no exchange should be recorded on error, got %v for %s", ex, sid)
		}
	}
}

func TestAnswer_CreateSessionError(t *testing.T) {
	backend := &fakeBackend{responses: []*llm.GenerateResponse{textResponse("x")}}
	svc, sessions, _ := newService(backend)
	sessions.createErr = errors.New("db down")

	if _, _, _, err := svc.Answer(context.Background(), "q", ""); err == nil {
		t.Fatal("expected error")
	}
}
