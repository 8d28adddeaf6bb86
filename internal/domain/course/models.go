// Package course implements the course catalog: parsed course documents,
// chunked lesson content, and vector search over stored chunks.
package course

// Lesson is one numbered lesson within a course.
type Lesson struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Link   string `json:"link,omitempty"`
}

// Course is a parsed course document.
type Course struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Link       string   `json:"link,omitempty"`
	Instructor string   `json:"instructor,omitempty"`
	Lessons    []Lesson `json:"lessons"`
}

// CourseChunk is one embeddable window of lesson text.
// LessonNumber is nil for content that precedes the first lesson marker.
type CourseChunk struct {
	Content      string
	CourseTitle  string
	LessonNumber *int
	ChunkIndex   int
}

// ChunkMetadata identifies where a search hit came from.
type ChunkMetadata struct {
	CourseTitle  string `json:"course_title"`
	LessonNumber *int   `json:"lesson_number,omitempty"`
	ChunkIndex   int    `json:"chunk_index"`
}

// SearchResults is the outcome of a chunk search.
// Documents, Metadata and Distances are index-aligned: entry i of each
// describes the same hit. Err carries a user-facing recoverable problem
// (for example an unresolvable course filter); infrastructure failures are
// returned as Go errors instead.
type SearchResults struct {
	Documents []string
	Metadata  []ChunkMetadata
	Distances []float64
	Err       string
}

// ErrorResults builds a SearchResults carrying only a user-facing error.
func ErrorResults(msg string) *SearchResults {
	return &SearchResults{
		Documents: []string{},
		Metadata:  []ChunkMetadata{},
		Distances: []float64{},
		Err:       msg,
	}
}

// IsEmpty reports whether the search produced no hits.
func (r *SearchResults) IsEmpty() bool {
	return len(r.Documents) == 0
}

// Embedding lifecycle states for stored chunks.
const (
	EmbeddingStatusPending = "pending"
	EmbeddingStatusReady   = "ready"
	EmbeddingStatusFailed  = "failed"
)

// TopicCourseIngested is published on the event bus after a course and its
// pending chunks are stored.
const TopicCourseIngested = "course.ingested"

// IngestedEventPayload is the payload for TopicCourseIngested events.
type IngestedEventPayload struct {
	CourseID    string
	CourseTitle string
}
