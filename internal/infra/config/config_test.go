package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.DBPath != "coursemind.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.HTTPPort != 8000 {
		t.Errorf("HTTPPort = %d", cfg.HTTPPort)
	}
	if cfg.MaxResults != 5 {
		t.Errorf("MaxResults = %d", cfg.MaxResults)
	}
	if cfg.ChunkSize != 160 || cfg.ChunkOverlap != 20 {
		t.Errorf("chunking = %d/%d", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.MaxHistory != 2 {
		t.Errorf("MaxHistory = %d", cfg.MaxHistory)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("COURSEMIND_DB", "/tmp/x.db")
	t.Setenv("COURSEMIND_HTTP_PORT", "9090")
	t.Setenv("COURSEMIND_MAX_RESULTS", "7")
	t.Setenv("OLLAMA_BASE_URL", "http://ollama:11434")

	cfg := Load()
	if cfg.DBPath != "/tmp/x.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.HTTPPort != 9090 {
		t.Errorf("HTTPPort = %d", cfg.HTTPPort)
	}
	if cfg.MaxResults != 7 {
		t.Errorf("MaxResults = %d", cfg.MaxResults)
	}
	if cfg.OllamaBaseURL != "http://ollama:11434" {
		t.Errorf("OllamaBaseURL = %q", cfg.OllamaBaseURL)
	}
}

func TestLoad_BadIntFallsBack(t *testing.T) {
	t.Setenv("COURSEMIND_HTTP_PORT", "not-a-port")
	t.Setenv("COURSEMIND_MAX_HISTORY", "-3")

	cfg := Load()
	if cfg.HTTPPort != 8000 {
		t.Errorf("HTTPPort = %d, want default 8000", cfg.HTTPPort)
	}
	if cfg.MaxHistory != 2 {
		t.Errorf("MaxHistory = %d, want default 2", cfg.MaxHistory)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coursemind.yaml")
	body := "db_path: /data/courses.db\nhttp_port: 8080\nanthropic_model: claude-sonnet-4-20250514\nchunk_size: 200\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.DBPath != "/data/courses.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.HTTPPort != 8080 {
		t.Errorf("HTTPPort = %d", cfg.HTTPPort)
	}
	if cfg.ChunkSize != 200 {
		t.Errorf("ChunkSize = %d", cfg.ChunkSize)
	}
	// Unset fields keep defaults.
	if cfg.MaxResults != 5 {
		t.Errorf("MaxResults = %d", cfg.MaxResults)
	}
}

func TestLoadFile_EnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coursemind.yaml")
	if err := os.WriteFile(path, []byte("http_port: 8080\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("COURSEMIND_HTTP_PORT", "9999")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.HTTPPort != 9999 {
		t.Errorf("HTTPPort = %d, want env override 9999", cfg.HTTPPort)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
