package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/algorist"
	"github.com/aretw0/algorist/internal/logging"
	"github.com/aretw0/algorist/internal/presentation/graph"
	"github.com/aretw0/algorist/pkg/adapters/memory"
	"github.com/aretw0/algorist/pkg/domain"
	"github.com/aretw0/algorist/pkg/grammar"
	"github.com/aretw0/algorist/pkg/observability"
	"github.com/aretw0/algorist/pkg/ports"
	"github.com/aretw0/algorist/pkg/primitives"
	"github.com/aretw0/algorist/pkg/rnd"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed openapi.yaml
var rawSpec []byte

// DefaultRunTimeout bounds a single /generate run.
const DefaultRunTimeout = 30 * time.Second

// Server serves grammar runs over HTTP. Every request gets its own Session;
// the geometry cache is shared.
type Server struct {
	cache    ports.GeometryCache
	metrics  *observability.Metrics
	gatherer prometheus.Gatherer
	watcher  ports.Watchable
	logger   *slog.Logger
	timeout  time.Duration
	validate bool

	spec   *openapi3.T
	router routers.Router
}

// Option configures a Server.
type Option func(*Server)

// WithGeometryCache shares cache between requests. Defaults to an in-memory cache.
func WithGeometryCache(cache ports.GeometryCache) Option {
	return func(s *Server) {
		s.cache = cache
	}
}

// WithMetrics records every run into m and serves g on /metrics.
func WithMetrics(m *observability.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

// WithWatcher enables /events, which fires whenever w signals a change.
func WithWatcher(w ports.Watchable) Option {
	return func(s *Server) {
		s.watcher = w
	}
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithRunTimeout bounds every grammar run.
func WithRunTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.timeout = d
	}
}

// WithRequestValidation checks request bodies against the OpenAPI document
// before they reach a handler.
func WithRequestValidation(enabled bool) Option {
	return func(s *Server) {
		s.validate = enabled
	}
}

// NewHandler loads and validates the embedded OpenAPI document and returns
// the routed handler.
func NewHandler(opts ...Option) (http.Handler, error) {
	s := &Server{
		cache:   memory.NewGeometryCache(),
		logger:  logging.NewNop(),
		timeout: DefaultRunTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	loader := openapi3.NewLoader()
	spec, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := spec.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	s.spec = spec
	if s.validate {
		s.router, err = legacy.NewRouter(spec)
		if err != nil {
			return nil, fmt.Errorf("openapi router: %w", err)
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		if s.router != nil {
			r.Use(s.validateRequest)
		}
		r.Get("/health", s.GetHealth)
		r.Get("/info", s.GetInfo)
		r.Get("/examples", s.ListExamples)
		r.Get("/primitives", s.ListPrimitives)
		r.Get("/events", s.SubscribeEvents)
		r.Post("/generate", s.Generate)
		r.Post("/validate", s.Validate)
		r.Post("/graph", s.Graph)
	})
	return r, nil
}

func (s *Server) validateRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, params, err := s.router.FindRoute(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		input := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: params,
			Route:      route,
		}
		if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
			s.logger.Warn("request rejected", "path", r.URL.Path, "error", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Algorist API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GrammarRequest names a bundled example, or carries a grammar inline either
// as a JSON object or as source text.
type GrammarRequest struct {
	Example string            `json:"example,omitempty"`
	Grammar *grammar.Document `json:"grammar,omitempty"`
	Source  string            `json:"source,omitempty"`
	Format  grammar.Format    `json:"format,omitempty"`
}

// GenerateRequest is a GrammarRequest with an optional seed.
type GenerateRequest struct {
	GrammarRequest
	Seed *uint64 `json:"seed,omitempty"`
}

// ValidationResult is the body of a /validate response.
type ValidationResult struct {
	Valid  bool            `json:"valid"`
	Issues []grammar.Issue `json:"issues,omitempty"`
}

var (
	errNoGrammar     = errors.New("one of example, grammar or source is required")
	errManyGrammars  = errors.New("only one of example, grammar or source may be set")
	errUnknownSample = errors.New("unknown example")
)

// Document resolves the request to a grammar document.
func (g GrammarRequest) Document() (*grammar.Document, error) {
	n := 0
	for _, set := range []bool{g.Example != "", g.Grammar != nil, g.Source != ""} {
		if set {
			n++
		}
	}
	switch {
	case n == 0:
		return nil, errNoGrammar
	case n > 1:
		return nil, errManyGrammars
	case g.Grammar != nil:
		return g.Grammar, nil
	case g.Source != "":
		return grammar.Parse([]byte(g.Source), g.Format)
	}
	doc, err := grammar.Example(g.Example)
	if err != nil {
		return nil, fmt.Errorf("%w %q", errUnknownSample, g.Example)
	}
	return doc, nil
}

// Generate handles the POST /generate request.
func (s *Server) Generate(w http.ResponseWriter, r *http.Request) {
	var body GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Generate: Invalid request body", "error", err)
		return
	}
	doc, err := body.Document()
	if err != nil {
		s.requestError(w, "Generate", err)
		return
	}

	opts := []algorist.Option{
		algorist.WithGeometryCache(s.cache),
		algorist.WithLogger(s.logger),
	}
	if body.Seed != nil {
		opts = append(opts, algorist.WithRandSource(rnd.NewSeeded(*body.Seed)))
	}
	if s.metrics != nil {
		opts = append(opts, algorist.WithLifecycleHooks(s.metrics.Hooks()))
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	start := time.Now()
	snap, err := algorist.Generate(ctx, doc, opts...)
	if s.metrics != nil {
		s.metrics.ObserveRun(time.Since(start), err)
	}
	if err != nil {
		s.requestError(w, "Generate", err)
		return
	}
	s.logger.Info("Generate: done", "start", doc.Start, "objects", len(snap.Objects), "elapsed", time.Since(start))
	writeJSON(w, s.logger, snap)
}

// Validate handles the POST /validate request. An invalid grammar is a
// successful response with valid=false.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	var body GrammarRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Validate: Invalid request body", "error", err)
		return
	}
	doc, err := body.Document()
	if err != nil && !errors.Is(err, domain.ErrInvalidGrammar) {
		s.requestError(w, "Validate", err)
		return
	}
	if err == nil {
		err = grammar.Validate(doc)
	}

	res := ValidationResult{Valid: err == nil}
	if err != nil {
		res.Issues = grammar.Issues(err)
		if len(res.Issues) == 0 {
			res.Issues = []grammar.Issue{{Message: err.Error()}}
		}
	}
	writeJSON(w, s.logger, res)
}

// Graph handles the POST /graph request.
func (s *Server) Graph(w http.ResponseWriter, r *http.Request) {
	var body GrammarRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Graph: Invalid request body", "error", err)
		return
	}
	doc, err := body.Document()
	if err != nil {
		s.requestError(w, "Graph", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(doc, nil))
}

// ListExamples handles the GET /examples request.
func (s *Server) ListExamples(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, grammar.ExampleNames())
}

// ListPrimitives handles the GET /primitives request.
func (s *Server) ListPrimitives(w http.ResponseWriter, r *http.Request) {
	catalog, err := primitives.Catalog()
	if err != nil {
		http.Error(w, fmt.Sprintf("Catalog error: %v", err), http.StatusInternalServerError)
		s.logger.Error("Catalog failed", "error", err)
		return
	}
	writeJSON(w, s.logger, catalog)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.spec.Info != nil {
		apiVersion = s.spec.Info.Version
	}
	writeJSON(w, s.logger, map[string]string{
		"app":         "algorist-http",
		"version":     algorist.Version,
		"api_version": apiVersion,
	})
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	if s.watcher == nil {
		http.Error(w, "No grammar is being watched", http.StatusNotFound)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	events, err := s.watcher.Watch(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Watch error: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: reload\ndata: grammar changed\n\n")
			flusher.Flush()
		}
	}
}

func (s *Server) requestError(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errNoGrammar), errors.Is(err, errManyGrammars):
		status = http.StatusBadRequest
	case errors.Is(err, errUnknownSample):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidGrammar):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "error", err)
	} else {
		s.logger.Warn(op+" rejected", "error", err, "status", status)
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}
