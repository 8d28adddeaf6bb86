// CourseMind MCP server: exposes course search and outline tools
// over stdio for MCP-capable clients.

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/coursemind/coursemind/internal/domain/course"
	"github.com/coursemind/coursemind/internal/domain/tool"
	"github.com/coursemind/coursemind/internal/infra/config"
	"github.com/coursemind/coursemind/internal/infra/llm"
	"github.com/coursemind/coursemind/internal/infra/sqlite"
	"github.com/coursemind/coursemind/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, out io.Writer) int {
	fs := flag.NewFlagSet("coursemind-mcp", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	showVersion := fs.Bool("version", false, "Show version information")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(out, version.String()) //nolint:errcheck
		return 0
	}

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

	embedder := llm.NewOllamaProvider(cfg.OllamaBaseURL, cfg.OllamaEmbedModel)
	store := course.NewCourseStore(db, embedder, cfg.MaxResults)

	registry := tool.NewRegistry()
	registry.Register(tool.NewCourseSearchTool(store))
	registry.Register(tool.NewCourseOutlineTool(store))

	server := newMCPServer(registry)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, &mcpsdk.StdioTransport{}); err != nil && ctx.Err() == nil {
		fmt.Fprintf(out, "mcp server: %v\n", err) //nolint:errcheck
		return 1
	}
	return 0
}

// newMCPServer builds an MCP server whose tools dispatch through the
// shared registry, so stdio clients see the same behavior as the
// assistant's own tool calls.
func newMCPServer(registry *tool.Registry) *mcpsdk.Server {
	server := mcpsdk.NewServer(&mcpsdk.Implementation{Name: "coursemind", Version: version.Version}, nil)

	for _, def := range registry.Definitions() {
		properties := make(map[string]any, len(def.InputSchema.Properties))
		for name, prop := range def.InputSchema.Properties {
			properties[name] = map[string]any{
				"type":        prop.Type,
				"description": prop.Description,
			}
		}
		required := make([]any, 0, len(def.InputSchema.Required))
		for _, name := range def.InputSchema.Required {
			required = append(required, name)
		}

		name := def.Name
		server.AddTool(&mcpsdk.Tool{
			Name:        name,
			Description: def.Description,
			InputSchema: map[string]any{
				"type":       def.InputSchema.Type,
				"properties": properties,
				"required":   required,
			},
		}, func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
			args := make(map[string]any)
			if len(req.Params.Arguments) > 0 {
				if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
					return nil, fmt.Errorf("decode arguments: %w", err)
				}
			}
			result, err := registry.Execute(ctx, name, args)
			if err != nil {
				return &mcpsdk.CallToolResult{
					Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: err.Error()}},
					IsError: true,
				}, nil
			}
			return &mcpsdk.CallToolResult{
				Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: result}},
			}, nil
		})
	}

	return server
}
