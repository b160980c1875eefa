package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/algorist"
	"github.com/aretw0/algorist/internal/logging"
	"github.com/aretw0/algorist/pkg/domain"
	"github.com/aretw0/algorist/pkg/grammar"
	"github.com/aretw0/algorist/pkg/ports"
	"github.com/aretw0/algorist/pkg/primitives"
	"github.com/aretw0/algorist/pkg/rnd"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// PrimitivesURI is the resource holding the shape catalog.
const PrimitivesURI = "algorist://primitives"

// GrammarArgs selects a grammar: a bundled example or inline source.
type GrammarArgs struct {
	Example string `json:"example,omitempty" jsonschema_description:"Name of a bundled example grammar"`
	Source  string `json:"source,omitempty" jsonschema_description:"Grammar document text"`
	Format  string `json:"format,omitempty" jsonschema_description:"Format of source: yaml (default) or json"`
}

// GenerateArgs are the arguments of the generate tool.
type GenerateArgs struct {
	GrammarArgs
	Seed            *uint64 `json:"seed,omitempty" jsonschema_description:"Seed for a repeatable run"`
	IncludeSnapshot bool    `json:"include_snapshot,omitempty" jsonschema_description:"Return every object and mesh, not just the summary"`
}

// GenerateResult summarises a run.
type GenerateResult struct {
	Objects    int              `json:"objects" jsonschema_description:"Number of placed objects"`
	Geometries int              `json:"geometries" jsonschema_description:"Number of distinct meshes"`
	Shapes     map[string]int   `json:"shapes" jsonschema_description:"Objects per shape"`
	Min        []float64        `json:"min,omitempty" jsonschema_description:"Lower corner of the world bounding box"`
	Max        []float64        `json:"max,omitempty" jsonschema_description:"Upper corner of the world bounding box"`
	Snapshot   *domain.Snapshot `json:"snapshot,omitempty" jsonschema_description:"Full scene, when requested"`
}

// ValidateResult reports whether a grammar would load.
type ValidateResult struct {
	Valid  bool            `json:"valid"`
	Issues []grammar.Issue `json:"issues,omitempty"`
}

// Server exposes grammar runs as MCP tools.
type Server struct {
	cache     ports.GeometryCache
	logger    *slog.Logger
	timeout   time.Duration
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithGeometryCache shares cache between tool calls.
func WithGeometryCache(cache ports.GeometryCache) Option {
	return func(s *Server) {
		s.cache = cache
	}
}

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithRunTimeout bounds every generate call.
func WithRunTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.timeout = d
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(opts ...Option) *Server {
	s := &Server{
		logger:    logging.NewNop(),
		timeout:   30 * time.Second,
		mcpServer: server.NewMCPServer("algorist-mcp", algorist.Version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server, for transports not covered here.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and shuts it down
// when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	grammarParams := []mcp.ToolOption{
		mcp.WithString("example", mcp.Description("Name of a bundled example grammar")),
		mcp.WithString("source", mcp.Description("Grammar document text (YAML or JSON)")),
		mcp.WithString("format", mcp.Description("Format of source"), mcp.Enum("yaml", "json")),
	}

	// TOOL: generate
	generateTool := mcp.NewTool("generate", append([]mcp.ToolOption{
		mcp.WithDescription("Run a generative grammar and summarise the geometry it places."),
		mcp.WithNumber("seed", mcp.Description("Seed for a repeatable run")),
		mcp.WithBoolean("include_snapshot", mcp.Description("Return every object and mesh, not just the summary")),
		mcp.WithOutputSchema[GenerateResult](),
	}, grammarParams...)...)
	s.mcpServer.AddTool(generateTool, mcp.NewStructuredToolHandler(s.handleGenerate))

	// TOOL: validate
	validateTool := mcp.NewTool("validate", append([]mcp.ToolOption{
		mcp.WithDescription("Check a grammar without running it."),
		mcp.WithOutputSchema[ValidateResult](),
	}, grammarParams...)...)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	// TOOL: list_primitives
	s.mcpServer.AddTool(mcp.NewTool("list_primitives",
		mcp.WithDescription("List the supported shapes with their parameter types and defaults."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		data, err := catalogJSON()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("catalog failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}

func (s *Server) handleGenerate(ctx context.Context, request mcp.CallToolRequest, args GenerateArgs) (GenerateResult, error) {
	doc, err := args.document()
	if err != nil {
		return GenerateResult{}, err
	}

	opts := []algorist.Option{algorist.WithLogger(s.logger)}
	if s.cache != nil {
		opts = append(opts, algorist.WithGeometryCache(s.cache))
	}
	if args.Seed != nil {
		opts = append(opts, algorist.WithRandSource(rnd.NewSeeded(*args.Seed)))
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	snap, err := algorist.Generate(ctx, doc, opts...)
	if err != nil {
		s.logger.Warn("MCP Generate: run failed", "error", err)
		return GenerateResult{}, fmt.Errorf("generate failed: %w", err)
	}

	res := GenerateResult{
		Objects:    len(snap.Objects),
		Geometries: len(snap.Geometries),
		Shapes:     snap.ShapeCounts(),
	}
	if min, max, ok := snap.Bounds(); ok {
		res.Min, res.Max = min[:], max[:]
	}
	if args.IncludeSnapshot {
		res.Snapshot = &snap
	}
	return res, nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args GrammarArgs) (ValidateResult, error) {
	doc, err := args.document()
	if err != nil && !errors.Is(err, domain.ErrInvalidGrammar) {
		return ValidateResult{}, err
	}
	if err == nil {
		err = grammar.Validate(doc)
	}
	if err == nil {
		return ValidateResult{Valid: true}, nil
	}
	issues := grammar.Issues(err)
	if len(issues) == 0 {
		issues = []grammar.Issue{{Message: err.Error()}}
	}
	return ValidateResult{Issues: issues}, nil
}

func (g GrammarArgs) document() (*grammar.Document, error) {
	switch {
	case g.Example != "" && g.Source != "":
		return nil, errors.New("set either example or source, not both")
	case g.Example != "":
		return grammar.Example(g.Example)
	case g.Source != "":
		return grammar.Parse([]byte(g.Source), grammar.Format(g.Format))
	}
	return nil, errors.New("one of example or source is required")
}

func catalogJSON() ([]byte, error) {
	catalog, err := primitives.Catalog()
	if err != nil {
		return nil, err
	}
	return json.Marshal(catalog)
}

func (s *Server) registerResources() {
	// EXPOSE: algorist://primitives
	s.mcpServer.AddResource(mcp.NewResource(PrimitivesURI, "Shape Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := catalogJSON()
		if err != nil {
			return nil, fmt.Errorf("failed to build catalog: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      PrimitivesURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
