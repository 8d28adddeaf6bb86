// IngestService loads course scripts into the store and notifies the embed
// worker through the event bus.
package course

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/coursemind/coursemind/internal/infra/eventbus"
)

// IngestService processes course script files.
type IngestService struct {
	store        *CourseStore
	bus          eventbus.EventBus
	chunkSize    int
	chunkOverlap int
}

// NewIngestService creates an IngestService. bus may be nil when no embed
// worker is running (the startup sweep picks pending chunks up later).
func NewIngestService(store *CourseStore, bus eventbus.EventBus, chunkSize, chunkOverlap int) *IngestService {
	return &IngestService{
		store:        store,
		bus:          bus,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// IngestFile parses and stores a single course script. Returns false when
// the course title is already stored (the file is skipped, not an error).
func (s *IngestService) IngestFile(ctx context.Context, path string) (bool, error) {
	c, chunks, err := ProcessDocument(path, s.chunkSize, s.chunkOverlap)
	if err != nil {
		return false, err
	}

	exists, err := s.store.HasCourse(ctx, c.Title)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	courseID, err := s.store.AddCourse(ctx, c, chunks)
	if err != nil {
		return false, err
	}

	if s.bus != nil {
		s.bus.Publish(TopicCourseIngested, IngestedEventPayload{
			CourseID:    courseID,
			CourseTitle: c.Title,
		})
	}
	return true, nil
}

// IngestDirectory ingests every .txt and .md file in dir (non-recursive).
// Returns how many courses were added and how many files were considered.
func (s *IngestService) IngestDirectory(ctx context.Context, dir string) (added, seen int, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, 0, fmt.Errorf("ingest: read dir %s: %w", dir, err)
	}

	for _, e := range entries {
		if e.IsDir() || !isCourseScript(e.Name()) {
			continue
		}
		seen++
		ok, ingestErr := s.IngestFile(ctx, filepath.Join(dir, e.Name()))
		if ingestErr != nil {
			return added, seen, fmt.Errorf("ingest %s: %w", e.Name(), ingestErr)
		}
		if ok {
			added++
		}
	}
	return added, seen, nil
}

func isCourseScript(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".txt" || ext == ".md"
}
