package assistant

import (
	"context"
	"fmt"
	"sync"

	"github.com/coursemind/coursemind/internal/domain/tool"
)

// SessionStore is the conversation memory the service needs.
type SessionStore interface {
	Create(ctx context.Context) (string, error)
	AddExchange(ctx context.Context, sessionID, userMessage, assistantMessage string) error
	History(ctx context.Context, sessionID string) (string, error)
}

// AssistantService answers queries: it looks up session history, runs the
// generator with the shared tool registry, collects the sources the tools
// recorded, and persists the exchange.
type AssistantService struct {
	generator *ResponseGenerator
	registry  *tool.Registry
	sessions  SessionStore

	// The registry's source state is owned by one query at a time.
	mu sync.Mutex
}

// NewAssistantService wires the service.
func NewAssistantService(generator *ResponseGenerator, registry *tool.Registry, sessions SessionStore) *AssistantService {
	return &AssistantService{generator: generator, registry: registry, sessions: sessions}
}

// Answer responds to query within a session. An empty sessionID starts a new
// session; the (possibly new) session id is returned alongside the answer
// and the sources cited by tool executions during this query.
func (s *AssistantService) Answer(ctx context.Context, query, sessionID string) (answer string, sources []tool.Source, sid string, err error) {
	if sessionID == "" {
		sessionID, err = s.sessions.Create(ctx)
		if err != nil {
			return "", nil, "", fmt.Errorf("answer: create session: %w", err)
		}
	}

	history, err := s.sessions.History(ctx, sessionID)
	if err != nil {
		return "", nil, "", fmt.Errorf("answer: load history: %w", err)
	}

	s.mu.Lock()
	answer, genErr := s.generator.Generate(ctx, query, history, s.registry.Definitions(), s.registry)
	if genErr != nil {
		s.registry.ResetSources()
		s.mu.Unlock()
		return "", nil, "", genErr
	}
	sources = append(sources, s.registry.LastSources()...)
	s.registry.ResetSources()
	s.mu.Unlock()

	if err := s.sessions.AddExchange(ctx, sessionID, query, answer); err != nil {
		return "", nil, "", fmt.Errorf("answer: record exchange: %w", err)
	}
	return answer, sources, sessionID, nil
}
