// CourseMind - course materials assistant
// Entry point: serve, migrate and ingest commands.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coursemind/coursemind/internal/api"
	"github.com/coursemind/coursemind/internal/domain/assistant"
	"github.com/coursemind/coursemind/internal/domain/auth"
	"github.com/coursemind/coursemind/internal/domain/course"
	"github.com/coursemind/coursemind/internal/domain/session"
	"github.com/coursemind/coursemind/internal/domain/tool"
	"github.com/coursemind/coursemind/internal/infra/config"
	"github.com/coursemind/coursemind/internal/infra/eventbus"
	"github.com/coursemind/coursemind/internal/infra/llm"
	"github.com/coursemind/coursemind/internal/infra/sqlite"
	"github.com/coursemind/coursemind/internal/server"
	"github.com/coursemind/coursemind/internal/version"
)

const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("coursemind", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	showVersion := fs.Bool("version", false, "Show version information")
	showHelp := fs.Bool("help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	}

	if *showHelp {
		printHelp(out)
		return 0
	}

	switch fs.Arg(0) {
	case "", "serve":
		return runServe(out)
	case "migrate":
		return runMigrate(out)
	case "ingest":
		return runIngest(out, fs.Arg(1))
	default:
		fmt.Fprintf(out, "unknown command %q\n\n", fs.Arg(0)) //nolint:errcheck
		printHelp(out)
		return 2
	}
}

func printHelp(out io.Writer) {
	helpText := `CourseMind - course materials assistant

Usage:
  coursemind [options] [command]

Options:
  --version    Show version information
  --help       Show this help message

Commands:
  serve        Start the HTTP server (default)
  migrate      Run database migrations
  ingest <dir> Load course scripts from a directory

Examples:
  coursemind --version
  coursemind serve
  coursemind ingest ./docs`
	fmt.Fprintln(out, helpText) //nolint:errcheck
}

func runMigrate(out io.Writer) int {
	cfg := config.Load()

	db, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(out, "open database: %v\n", err) //nolint:errcheck
		return 1
	}
	defer db.Close() //nolint:errcheck

	if err := sqlite.MigrateUp(db); err != nil {
		fmt.Fprintf(out, "migrate: %v\n", err) //nolint:errcheck
		return 1
	}

	v, err := sqlite.MigrationVersion(db)
	if err != nil {
		fmt.Fprintf(out, "migration version: %v\n", err) //nolint:errcheck
		return 1
	}
	fmt.Fprintf(out, "migrations applied, schema version %d\n", v) //nolint:errcheck
	return 0
}

func runIngest(out io.Writer, dir string) int {
	cfg := config.Load()
	if dir == "" {
		dir = cfg.DocsDir
	}

	db, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(out, "open database: %v\n", err) //nolint:errcheck
		return 1
	}
	defer db.Close() //nolint:errcheck

	if err := sqlite.MigrateUp(db); err != nil {
		fmt.Fprintf(out, "migrate: %v\n", err) //nolint:errcheck
		return 1
	}

	ctx := context.Background()
	embedder := llm.NewOllamaProvider(cfg.OllamaBaseURL, cfg.OllamaEmbedModel)
	store := course.NewCourseStore(db, embedder, cfg.MaxResults)
	ingest := course.NewIngestService(store, nil, cfg.ChunkSize, cfg.ChunkOverlap)

	added, seen, err := ingest.IngestDirectory(ctx, dir)
	if err != nil {
		fmt.Fprintf(out, "ingest %s: %v\n", dir, err) //nolint:errcheck
		return 1
	}
	fmt.Fprintf(out, "ingested %d new courses (%d scripts found)\n", added, seen) //nolint:errcheck

	worker := course.NewEmbedWorker(db, embedder)
	if err := worker.EmbedAllPending(ctx); err != nil {
		fmt.Fprintf(out, "embed pending chunks: %v\n", err) //nolint:errcheck
		return 1
	}
	return 0
}

func runServe(out io.Writer) int {
	cfg := config.Load()

	db, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(out, "open database: %v\n", err) //nolint:errcheck
		return 1
	}

	if err := sqlite.MigrateUp(db); err != nil {
		fmt.Fprintf(out, "migrate: %v\n", err) //nolint:errcheck
		_ = db.Close()
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := eventbus.New()
	embedder := llm.NewOllamaProvider(cfg.OllamaBaseURL, cfg.OllamaEmbedModel)
	store := course.NewCourseStore(db, embedder, cfg.MaxResults)

	worker := course.NewEmbedWorker(db, embedder)
	go worker.Start(ctx, bus)

	ingest := course.NewIngestService(store, bus, cfg.ChunkSize, cfg.ChunkOverlap)
	if added, seen, ingestErr := ingest.IngestDirectory(ctx, cfg.DocsDir); ingestErr != nil {
		fmt.Fprintf(out, "warning: ingest %s: %v\n", cfg.DocsDir, ingestErr) //nolint:errcheck
	} else if seen > 0 {
		fmt.Fprintf(out, "ingested %d new courses (%d scripts found)\n", added, seen) //nolint:errcheck
	}

	generator := assistant.NewResponseGenerator(llm.NewAnthropicProvider(cfg.AnthropicModel))

	registry := tool.NewRegistry()
	registry.Register(tool.NewCourseSearchTool(store))
	registry.Register(tool.NewCourseOutlineTool(store))

	sessions := session.NewStore(db, cfg.MaxHistory)

	deps := api.Deps{
		Auth:      auth.NewService(db),
		Assistant: assistant.NewAssistantService(generator, registry, sessions),
		Catalog:   store,
		Sessions:  sessions,
	}

	serverCfg := server.DefaultConfig()
	serverCfg.Host = cfg.HTTPHost
	serverCfg.Port = cfg.HTTPPort
	srv := server.NewServer(db, deps, serverCfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(out, "shutdown: %v\n", err) //nolint:errcheck
			return 1
		}
		return 0
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(out, "server: %v\n", err) //nolint:errcheck
			return 1
		}
		return 0
	}
}
