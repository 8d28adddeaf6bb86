// CourseStore: SQLite-backed course catalog with vector search.
// Chunk vectors are stored as JSON TEXT and compared in-memory with cosine
// similarity; the catalog is small enough that a vector index is not worth
// the dependency.
package course

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/coursemind/coursemind/internal/infra/llm"
	"github.com/coursemind/coursemind/pkg/uuid"
)

// ErrCourseNotFound is returned when a canonical course title has no row.
var ErrCourseNotFound = errors.New("course not found")

const defaultMaxResults = 5

// CourseStore persists courses, lessons and chunks, and answers
// similarity queries over embedded chunks.
type CourseStore struct {
	db         *sql.DB
	embedder   llm.EmbeddingProvider
	maxResults int
}

// NewCourseStore creates a store backed by db, using embedder for query
// vectors. maxResults <= 0 falls back to the default of 5.
func NewCourseStore(db *sql.DB, embedder llm.EmbeddingProvider, maxResults int) *CourseStore {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &CourseStore{db: db, embedder: embedder, maxResults: maxResults}
}

// AddCourse stores a course, its lessons, and its chunks (embedding_status
// 'pending') in one transaction. Returns the generated course ID.
func (s *CourseStore) AddCourse(ctx context.Context, c *Course, chunks []CourseChunk) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("add course: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	courseID := uuid.NewV7().String()
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO courses (id, title, link, instructor) VALUES (?, ?, ?, ?)",
		courseID, c.Title, c.Link, c.Instructor,
	); err != nil {
		return "", fmt.Errorf("add course %q: %w", c.Title, err)
	}

	for _, l := range c.Lessons {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO lessons (course_id, number, title, link) VALUES (?, ?, ?, ?)",
			courseID, l.Number, l.Title, l.Link,
		); err != nil {
			return "", fmt.Errorf("add course %q: lesson %d: %w", c.Title, l.Number, err)
		}
	}

	for _, ch := range chunks {
		var lessonNumber sql.NullInt64
		if ch.LessonNumber != nil {
			lessonNumber = sql.NullInt64{Int64: int64(*ch.LessonNumber), Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO chunks (id, course_id, course_title, lesson_number, chunk_index, content, embedding_status)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewV7().String(), courseID, c.Title, lessonNumber, ch.ChunkIndex, ch.Content, EmbeddingStatusPending,
		); err != nil {
			return "", fmt.Errorf("add course %q: chunk %d: %w", c.Title, ch.ChunkIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("add course %q: commit: %w", c.Title, err)
	}
	return courseID, nil
}

// ResolveCourseName maps a fuzzy course name to a stored canonical title.
// Matching: case-insensitive exact first, then case-insensitive substring
// (first by title order). Returns false when nothing matches.
func (s *CourseStore) ResolveCourseName(ctx context.Context, name string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return "", false
	}

	var title string
	err := s.db.QueryRowContext(ctx,
		"SELECT title FROM courses WHERE LOWER(title) = ? LIMIT 1", needle,
	).Scan(&title)
	if err == nil {
		return title, true
	}

	err = s.db.QueryRowContext(ctx,
		"SELECT title FROM courses WHERE LOWER(title) LIKE '%' || ? || '%' ORDER BY title LIMIT 1", needle,
	).Scan(&title)
	if err == nil {
		return title, true
	}
	return "", false
}

// Search embeds query and returns the most similar ready chunks, optionally
// filtered to a course (fuzzy name) and lesson number.
//
// An unresolvable course name is a user-facing condition: the returned
// SearchResults carries Err and a nil Go error. Embedding or database
// failures return a Go error.
func (s *CourseStore) Search(ctx context.Context, query, courseName string, lessonNumber *int) (*SearchResults, error) {
	canonical := ""
	if courseName != "" {
		title, ok := s.ResolveCourseName(ctx, courseName)
		if !ok {
			return ErrorResults(fmt.Sprintf("No course found matching '%s'", courseName)), nil
		}
		canonical = title
	}

	resp, err := s.embedder.Embed(ctx, llm.EmbedRequest{Texts: []string{query}})
	if err != nil {
		return nil, fmt.Errorf("search: embed query: %w", err)
	}
	if len(resp.Embeddings) == 0 {
		return nil, errors.New("search: embedder returned no vector")
	}
	queryVec := resp.Embeddings[0]

	rows, err := s.queryReadyChunks(ctx, canonical, lessonNumber)
	if err != nil {
		return nil, err
	}

	type scored struct {
		row        chunkRow
		similarity float64
	}
	all := make([]scored, 0, len(rows))
	for _, r := range rows {
		vec, decodeErr := decodeEmbedding(r.embedding)
		if decodeErr != nil {
			continue // skip malformed vectors
		}
		all = append(all, scored{row: r, similarity: cosineSimilarity(queryVec, vec)})
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].similarity > all[j].similarity
	})

	results := &SearchResults{
		Documents: []string{},
		Metadata:  []ChunkMetadata{},
		Distances: []float64{},
	}
	for i := 0; i < len(all) && i < s.maxResults; i++ {
		r := all[i].row
		results.Documents = append(results.Documents, r.content)
		results.Metadata = append(results.Metadata, ChunkMetadata{
			CourseTitle:  r.courseTitle,
			LessonNumber: r.lessonNumber,
			ChunkIndex:   r.chunkIndex,
		})
		results.Distances = append(results.Distances, 1-all[i].similarity)
	}
	return results, nil
}

// chunkRow is one ready chunk loaded for similarity scoring.
type chunkRow struct {
	content      string
	courseTitle  string
	lessonNumber *int
	chunkIndex   int
	embedding    string
}

func (s *CourseStore) queryReadyChunks(ctx context.Context, courseTitle string, lessonNumber *int) ([]chunkRow, error) {
	q := "SELECT content, course_title, lesson_number, chunk_index, embedding FROM chunks WHERE embedding_status = ?"
	args := []any{EmbeddingStatusReady}
	if courseTitle != "" {
		q += " AND course_title = ?"
		args = append(args, courseTitle)
	}
	if lessonNumber != nil {
		q += " AND lesson_number = ?"
		args = append(args, *lessonNumber)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("search: query chunks: %w", err)
	}
	defer rows.Close()

	var out []chunkRow
	for rows.Next() {
		var (
			r      chunkRow
			lesson sql.NullInt64
		)
		if err := rows.Scan(&r.content, &r.courseTitle, &lesson, &r.chunkIndex, &r.embedding); err != nil {
			return nil, fmt.Errorf("search: scan chunk: %w", err)
		}
		if lesson.Valid {
			n := int(lesson.Int64)
			r.lessonNumber = &n
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Outline returns the course (with lessons ordered by number) for a
// canonical title. Returns ErrCourseNotFound when the title has no row.
func (s *CourseStore) Outline(ctx context.Context, title string) (*Course, error) {
	c := &Course{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, link, instructor FROM courses WHERE title = ?", title,
	).Scan(&c.ID, &c.Title, &c.Link, &c.Instructor)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("outline %q: %w", title, err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT number, title, link FROM lessons WHERE course_id = ? ORDER BY number", c.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("outline %q: lessons: %w", title, err)
	}
	defer rows.Close()

	for rows.Next() {
		var l Lesson
		if err := rows.Scan(&l.Number, &l.Title, &l.Link); err != nil {
			return nil, fmt.Errorf("outline %q: scan lesson: %w", title, err)
		}
		c.Lessons = append(c.Lessons, l)
	}
	return c, rows.Err()
}

// LessonLink returns the stored link for a lesson of a course (by canonical
// title). Returns false when the lesson is unknown or has no link.
func (s *CourseStore) LessonLink(ctx context.Context, courseTitle string, lessonNumber int) (string, bool) {
	var link string
	err := s.db.QueryRowContext(ctx,
		`SELECT l.link FROM lessons l JOIN courses c ON c.id = l.course_id
		 WHERE c.title = ? AND l.number = ?`,
		courseTitle, lessonNumber,
	).Scan(&link)
	if err != nil || link == "" {
		return "", false
	}
	return link, true
}

// CourseLink returns the stored link for a course by canonical title.
func (s *CourseStore) CourseLink(ctx context.Context, title string) (string, bool) {
	var link string
	err := s.db.QueryRowContext(ctx,
		"SELECT link FROM courses WHERE title = ?", title,
	).Scan(&link)
	if err != nil || link == "" {
		return "", false
	}
	return link, true
}

// ListCourseTitles returns all stored course titles in insertion order.
func (s *CourseStore) ListCourseTitles(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT title FROM courses ORDER BY created_at, title")
	if err != nil {
		return nil, fmt.Errorf("list course titles: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("list course titles: scan: %w", err)
		}
		titles = append(titles, t)
	}
	return titles, rows.Err()
}

// CourseCount returns the number of stored courses.
func (s *CourseStore) CourseCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM courses").Scan(&n); err != nil {
		return 0, fmt.Errorf("course count: %w", err)
	}
	return n, nil
}

// HasCourse reports whether a course with the exact title is stored.
func (s *CourseStore) HasCourse(ctx context.Context, title string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM courses WHERE title = ?", title).Scan(&n); err != nil {
		return false, fmt.Errorf("has course: %w", err)
	}
	return n > 0, nil
}

// cosineSimilarity computes cosine similarity between two float32 vectors.
// Returns 0 if either vector has zero magnitude or lengths differ.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return dot / denom
}

// decodeEmbedding deserialises a JSON TEXT vector back to []float32.
func decodeEmbedding(jsonStr string) ([]float32, error) {
	var vec []float32
	if err := json.Unmarshal([]byte(jsonStr), &vec); err != nil {
		return nil, fmt.Errorf("decode embedding: %w", err)
	}
	return vec, nil
}

// encodeEmbedding serialises a float32 slice to JSON TEXT for storage.
func encodeEmbedding(vec []float32) (string, error) {
	b, err := json.Marshal(vec)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
