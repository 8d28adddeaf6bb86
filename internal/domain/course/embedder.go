// EmbedWorker consumes course.ingested events, batch-embeds the course's
// pending chunks via the embedding provider, stores the vectors, and marks
// chunks 'ready' or 'failed'.
package course

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/coursemind/coursemind/internal/infra/eventbus"
	"github.com/coursemind/coursemind/internal/infra/llm"
)

const (
	embedMaxRetries = 3
	embedBaseDelay  = 100 * time.Millisecond
)

// EmbedWorker processes pending chunk rows.
type EmbedWorker struct {
	db  *sql.DB
	llm llm.EmbeddingProvider
}

// NewEmbedWorker creates an EmbedWorker backed by the given DB and provider.
func NewEmbedWorker(db *sql.DB, provider llm.EmbeddingProvider) *EmbedWorker {
	return &EmbedWorker{db: db, llm: provider}
}

// Start sweeps chunks left pending by an earlier run, then subscribes to
// TopicCourseIngested and embeds each newly ingested course.
// Runs in the calling goroutine; launch with: go worker.Start(ctx, bus)
// Stops when ctx is cancelled.
func (w *EmbedWorker) Start(ctx context.Context, bus eventbus.EventBus) {
	_ = w.EmbedAllPending(ctx)

	ch := bus.Subscribe(TopicCourseIngested)
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-ch:
			payload, ok := evt.Payload.(IngestedEventPayload)
			if !ok {
				continue
			}
			// Best-effort: failed chunks are marked in the DB and retried
			// on next startup sweep.
			_ = w.EmbedCourseChunks(ctx, payload.CourseID)
		}
	}
}

// EmbedAllPending embeds pending chunks for every course that has any.
func (w *EmbedWorker) EmbedAllPending(ctx context.Context) error {
	rows, err := w.db.QueryContext(ctx,
		"SELECT DISTINCT course_id FROM chunks WHERE embedding_status = ?", EmbeddingStatusPending,
	)
	if err != nil {
		return fmt.Errorf("embed worker: list pending courses: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("embed worker: scan course id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range ids {
		if err := w.EmbedCourseChunks(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// EmbedCourseChunks fetches all pending chunks for a course, calls Embed in
// a single batch, stores vectors, and marks status 'ready'. If the provider
// fails after all retries, marks the chunks 'failed' and returns an error.
func (w *EmbedWorker) EmbedCourseChunks(ctx context.Context, courseID string) error {
	chunks, err := w.fetchPending(ctx, courseID)
	if err != nil {
		return fmt.Errorf("embed worker: fetch chunks: %w", err)
	}
	if len(chunks) == 0 {
		return nil // nothing to embed
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.content
	}

	vecs, err := w.callEmbedWithRetry(ctx, texts)
	if err != nil {
		w.markAllFailed(ctx, chunks)
		return fmt.Errorf("embed worker: embed: %w", err)
	}
	if len(vecs) != len(chunks) {
		w.markAllFailed(ctx, chunks)
		return fmt.Errorf("embed worker: got %d vectors for %d chunks", len(vecs), len(chunks))
	}

	if storeErr := w.storeVectors(ctx, chunks, vecs); storeErr != nil {
		w.markAllFailed(ctx, chunks)
		return fmt.Errorf("embed worker: store vectors: %w", storeErr)
	}
	return nil
}

// pendingChunk is a chunk row awaiting an embedding.
type pendingChunk struct {
	id      string
	content string
}

func (w *EmbedWorker) fetchPending(ctx context.Context, courseID string) ([]pendingChunk, error) {
	rows, err := w.db.QueryContext(ctx,
		"SELECT id, content FROM chunks WHERE course_id = ? AND embedding_status = ? ORDER BY chunk_index",
		courseID, EmbeddingStatusPending,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pendingChunk
	for rows.Next() {
		var c pendingChunk
		if err := rows.Scan(&c.id, &c.content); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// callEmbedWithRetry calls Embed with exponential backoff.
// Attempts: embedMaxRetries (100ms, 200ms, 400ms delays).
func (w *EmbedWorker) callEmbedWithRetry(ctx context.Context, texts []string) ([][]float32, error) {
	var lastErr error
	delay := embedBaseDelay
	for attempt := 0; attempt < embedMaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
		resp, err := w.llm.Embed(ctx, llm.EmbedRequest{Texts: texts})
		if err == nil {
			return resp.Embeddings, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("all %d retries failed: %w", embedMaxRetries, lastErr)
}

// storeVectors writes the vectors and marks each chunk 'ready' in a single
// transaction.
func (w *EmbedWorker) storeVectors(ctx context.Context, chunks []pendingChunk, vecs [][]float32) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	for i, c := range chunks {
		embJSON, encErr := encodeEmbedding(vecs[i])
		if encErr != nil {
			return fmt.Errorf("encode embedding[%d]: %w", i, encErr)
		}
		if _, execErr := tx.ExecContext(ctx,
			"UPDATE chunks SET embedding = ?, embedding_status = ? WHERE id = ?",
			embJSON, EmbeddingStatusReady, c.id,
		); execErr != nil {
			return fmt.Errorf("update chunk[%d]: %w", i, execErr)
		}
	}
	return tx.Commit()
}

// markAllFailed sets embedding_status='failed' on all given chunks.
// Errors are ignored to avoid masking the original embed error.
func (w *EmbedWorker) markAllFailed(ctx context.Context, chunks []pendingChunk) {
	for _, c := range chunks {
		_, _ = w.db.ExecContext(ctx,
			"UPDATE chunks SET embedding_status = ? WHERE id = ?",
			EmbeddingStatusFailed, c.id,
		)
	}
}
