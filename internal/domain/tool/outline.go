package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coursemind/coursemind/internal/domain/course"
	"github.com/coursemind/coursemind/internal/infra/llm"
)

// OutlineStore is the catalog surface CourseOutlineTool needs.
type OutlineStore interface {
	ResolveCourseName(ctx context.Context, name string) (string, bool)
	Outline(ctx context.Context, title string) (*course.Course, error)
}

// CourseOutlineTool returns a course's title, link, instructor and complete
// lesson list, and records one source for the course.
type CourseOutlineTool struct {
	store   OutlineStore
	sources []Source
}

// NewCourseOutlineTool creates the outline tool backed by store.
func NewCourseOutlineTool(store OutlineStore) *CourseOutlineTool {
	return &CourseOutlineTool{store: store}
}

// Definition declares the get_course_outline tool.
func (t *CourseOutlineTool) Definition() llm.ToolDefinition {
	return llm.ToolDefinition{
		Name:        "get_course_outline",
		Description: "Get the complete outline of a course including title, link, and all lessons",
		InputSchema: llm.InputSchema{
			Type: "object",
			Properties: map[string]llm.Property{
				"course_name": {
					Type:        "string",
					Description: "Course title (partial matches work, e.g. 'MCP', 'Introduction')",
				},
			},
			Required: []string{"course_name"},
		},
	}
}

// Execute resolves the course name and renders the outline.
func (t *CourseOutlineTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	courseName, _ := args["course_name"].(string)

	title, ok := t.store.ResolveCourseName(ctx, courseName)
	if !ok {
		return fmt.Sprintf("No course found matching '%s'", courseName), nil
	}

	c, err := t.store.Outline(ctx, title)
	if errors.Is(err, course.ErrCourseNotFound) {
		return fmt.Sprintf("No course found matching '%s'", courseName), nil
	}
	if err != nil {
		return "", err
	}

	t.sources = []Source{{Label: c.Title, URL: c.Link}}
	return formatOutline(c), nil
}

func formatOutline(c *course.Course) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Course: %s\n", c.Title)
	if c.Link != "" {
		fmt.Fprintf(&b, "Course Link: %s\n", c.Link)
	}
	if c.Instructor != "" {
		fmt.Fprintf(&b, "Instructor: %s\n", c.Instructor)
	}
	b.WriteString("\n")
	for _, l := range c.Lessons {
		fmt.Fprintf(&b, "Lesson %d: %s\n", l.Number, l.Title)
	}
	fmt.Fprintf(&b, "\n%d total", len(c.Lessons))
	return b.String()
}

// LastSources returns the sources from the most recent Execute.
func (t *CourseOutlineTool) LastSources() []Source { return t.sources }

// ResetSources clears the recorded sources.
func (t *CourseOutlineTool) ResetSources() { t.sources = nil }
