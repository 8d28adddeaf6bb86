// Course script parser for the ingestion pipeline.
//
// Expected document layout:
//
//	Course Title: <title>
//	Course Link: <url>
//	Course Instructor: <name>
//
//	Lesson 0: Introduction
//	Lesson Link: <url>
//	<lesson transcript...>
//
//	Lesson 1: ...
//
// Link and instructor header lines are optional. Text before the first
// lesson marker is chunked without a lesson number.
package course

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var lessonMarkerRe = regexp.MustCompile(`^Lesson\s+(\d+):\s*(.*)$`)

const (
	headerTitle      = "Course Title:"
	headerLink       = "Course Link:"
	headerInstructor = "Course Instructor:"
	headerLessonLink = "Lesson Link:"
)

// ProcessDocument parses the course script at path and returns the course
// plus its chunked content. Each chunk is prefixed with course and lesson
// context so a chunk embeds (and reads) well in isolation.
func ProcessDocument(path string, chunkSize, overlap int) (*Course, []CourseChunk, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("process document: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	c := &Course{}
	var chunks []CourseChunk

	var (
		currentLesson *int // nil until the first "Lesson N:" marker
		lessonTitle   string
		lessonLink    string
		content       strings.Builder
		sawTitle      bool
	)

	flushLesson := func() {
		if currentLesson != nil {
			c.Lessons = append(c.Lessons, Lesson{
				Number: *currentLesson,
				Title:  lessonTitle,
				Link:   lessonLink,
			})
		}
		chunks = append(chunks, chunkLesson(c.Title, currentLesson, content.String(), chunkSize, overlap, len(chunks))...)
		content.Reset()
		lessonLink = ""
	}

	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case !sawTitle && strings.HasPrefix(trimmed, headerTitle):
			c.Title = strings.TrimSpace(strings.TrimPrefix(trimmed, headerTitle))
			sawTitle = true
		case c.Link == "" && currentLesson == nil && strings.HasPrefix(trimmed, headerLink):
			c.Link = strings.TrimSpace(strings.TrimPrefix(trimmed, headerLink))
		case c.Instructor == "" && currentLesson == nil && strings.HasPrefix(trimmed, headerInstructor):
			c.Instructor = strings.TrimSpace(strings.TrimPrefix(trimmed, headerInstructor))
		case lessonMarkerRe.MatchString(trimmed):
			flushLesson()
			m := lessonMarkerRe.FindStringSubmatch(trimmed)
			n, _ := strconv.Atoi(m[1])
			currentLesson = &n
			lessonTitle = strings.TrimSpace(m[2])
		case currentLesson != nil && lessonLink == "" && content.Len() == 0 && strings.HasPrefix(trimmed, headerLessonLink):
			lessonLink = strings.TrimSpace(strings.TrimPrefix(trimmed, headerLessonLink))
		default:
			content.WriteString(line)
			content.WriteString("\n")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("process document: read %s: %w", path, err)
	}

	if !sawTitle {
		return nil, nil, fmt.Errorf("process document: %s: missing %q header", path, headerTitle)
	}

	flushLesson()

	// Re-number chunk indexes per course, not per flush batch.
	for i := range chunks {
		chunks[i].ChunkIndex = i
	}

	return c, chunks, nil
}

// chunkLesson splits one lesson's text into context-prefixed chunks.
func chunkLesson(courseTitle string, lessonNumber *int, text string, chunkSize, overlap, baseIndex int) []CourseChunk {
	pieces := Chunk(text, chunkSize, overlap)
	if len(pieces) == 0 {
		return nil
	}

	prefix := fmt.Sprintf("Course %s content: ", courseTitle)
	if lessonNumber != nil {
		prefix = fmt.Sprintf("Course %s Lesson %d content: ", courseTitle, *lessonNumber)
	}

	out := make([]CourseChunk, 0, len(pieces))
	for i, p := range pieces {
		var num *int
		if lessonNumber != nil {
			n := *lessonNumber
			num = &n
		}
		out = append(out, CourseChunk{
			Content:      prefix + p,
			CourseTitle:  courseTitle,
			LessonNumber: num,
			ChunkIndex:   baseIndex + i,
		})
	}
	return out
}
