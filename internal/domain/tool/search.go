package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/coursemind/coursemind/internal/domain/course"
	"github.com/coursemind/coursemind/internal/infra/llm"
)

// SearchStore is the retrieval surface CourseSearchTool needs.
type SearchStore interface {
	Search(ctx context.Context, query, courseName string, lessonNumber *int) (*course.SearchResults, error)
	LessonLink(ctx context.Context, courseTitle string, lessonNumber int) (string, bool)
}

// CourseSearchTool searches course content with optional course and lesson
// filters and records one source per returned chunk.
type CourseSearchTool struct {
	store   SearchStore
	sources []Source
}

// NewCourseSearchTool creates the search tool backed by store.
func NewCourseSearchTool(store SearchStore) *CourseSearchTool {
	return &CourseSearchTool{store: store}
}

// Definition declares the search_course_content tool.
func (t *CourseSearchTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Name:        "search_course_content",
		Description: "Search course materials with smart course name matching and lesson filtering",
		InputSchema: llm.InputSchema{
			Type: "object",
			Properties: map[string]llm.Property{
				"query": {
					Type:        "string",
					Description: "What to search for in the course content",
				},
				"course_name": {
					Type:        "string",
					Description: "Course title (partial matches work, e.g. 'MCP', 'Introduction')",
				},
				"lesson_number": {
					Type:        "integer",
					Description: "Specific lesson number to search within (e.g. 1, 2, 3)",
				},
			},
			Required: []string{"query"},
		},
	}
}

// Execute runs the search and formats the hits for the model.
// Store error strings (unresolvable course) are returned verbatim; empty
// results produce a message naming the active filters.
func (t *CourseSearchTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	query, _ := args["query"].(string)
	courseName, _ := args["course_name"].(string)
	lessonNumber := intArg(args, "lesson_number")

	results, err := t.store.Search(ctx, query, courseName, lessonNumber)
	if err != nil {
		return "", err
	}
	if results.Err != "" {
		return results.Err, nil
	}
	if results.IsEmpty() {
		msg := "No relevant content found"
		if courseName != "" {
			msg += fmt.Sprintf(" in course '%s'", courseName)
		}
		if lessonNumber != nil {
			msg += fmt.Sprintf(" in lesson %d", *lessonNumber)
		}
		return msg, nil
	}

	return t.format(ctx, results), nil
}

// format renders one "[course - Lesson n]" header plus chunk text per hit,
// entries separated by blank lines, and replaces the tool's source list.
func (t *CourseSearchTool) format(ctx context.Context, results *course.SearchResults) string {
	var (
		entries []string
		sources []Source
	)
	for i, doc := range results.Documents {
		meta := results.Metadata[i]

		title := meta.CourseTitle
		if title == "" {
			title = "unknown"
		}
		label := title
		if meta.LessonNumber != nil {
			label += fmt.Sprintf(" - Lesson %d", *meta.LessonNumber)
		}

		url := ""
		if meta.LessonNumber != nil {
			url, _ = t.store.LessonLink(ctx, meta.CourseTitle, *meta.LessonNumber)
		}
		sources = append(sources, Source{Label: label, URL: url})

		entries = append(entries, "["+label+"]\n"+doc)
	}

	t.sources = sources
	return strings.Join(entries, "\n\n")
}

// LastSources returns the sources from the most recent Execute.
func (t *CourseSearchTool) LastSources() []Source { return t.sources }

// ResetSources clears the recorded sources.
func (t *CourseSearchTool) ResetSources() { t.sources = nil }

// intArg extracts an integer argument that may arrive as a JSON float64,
// an int, or be absent.
func intArg(args map[string]any, key string) *int {
	switch v := args[key].(type) {
	case float64:
		n := int(v)
		return &n
	case int:
		n := v
		return &n
	default:
		return nil
	}
}
