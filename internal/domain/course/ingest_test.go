package course

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/coursemind/coursemind/internal/infra/eventbus"
)

func TestIngestFile(t *testing.T) {
	db := newTestDB(t)
	store := NewCourseStore(db, &fakeEmbedder{}, 5)
	bus := eventbus.New()
	events := bus.Subscribe(TopicCourseIngested)

	svc := NewIngestService(store, bus, 50, 10)
	path := writeScript(t, sampleScript)

	added, err := svc.IngestFile(context.Background(), path)
	if err != nil {
		t.Fatalf("IngestFile: %v", err)
	}
	if !added {
		t.Fatal("expected course to be added")
	}

	select {
	case evt := <-events:
		payload, ok := evt.Payload.(IngestedEventPayload)
		if !ok {
			t.Fatalf("payload type %T", evt.Payload)
		}
		if payload.CourseTitle != "Building RAG Systems" {
			t.Errorf("title = %q", payload.CourseTitle)
		}
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}
}

func TestIngestFile_SkipsExisting(t *testing.T) {
	db := newTestDB(t)
	store := NewCourseStore(db, &fakeEmbedder{}, 5)
	svc := NewIngestService(store, nil, 50, 10)
	path := writeScript(t, sampleScript)
	ctx := context.Background()

	if added, err := svc.IngestFile(ctx, path); err != nil || !added {
		t.Fatalf("first ingest: %v, %v", added, err)
	}
	if added, err := svc.IngestFile(ctx, path); err != nil || added {
		t.Fatalf("second ingest: added=%v err=%v, want skip", added, err)
	}

	n, err := store.CourseCount(ctx)
	if err != nil || n != 1 {
		t.Errorf("count = %d, %v", n, err)
	}
}

func TestIngestDirectory(t *testing.T) {
	db := newTestDB(t)
	store := NewCourseStore(db, &fakeEmbedder{}, 5)
	svc := NewIngestService(store, nil, 50, 10)

	dir := t.TempDir()
	write := func(name, body string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("a.txt", "Course Title: Course A\n\nLesson 0: Start\nHello there.\n")
	write("b.md", "Course Title: Course B\n\nLesson 0: Start\nHello again.\n")
	write("notes.json", `{"ignored": true}`)

	added, seen, err := svc.IngestDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("IngestDirectory: %v", err)
	}
	if seen != 2 || added != 2 {
		t.Errorf("added=%d seen=%d, want 2/2", added, seen)
	}
}

func TestIngestDirectory_Missing(t *testing.T) {
	db := newTestDB(t)
	store := NewCourseStore(db, &fakeEmbedder{}, 5)
	svc := NewIngestService(store, nil, 50, 10)

	if _, _, err := svc.IngestDirectory(context.Background(), "/nonexistent-dir"); err == nil {
		t.Fatal("expected error")
	}
}
