package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/algorist/pkg/domain"
	"github.com/aretw0/algorist/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const towerSource = `
start: tower
limits: {max_depth: 3}
rules:
  tower:
    - steps:
        - transform: [{translate: [0, 0, 1]}]
          shape: {name: cube}
          call: [tower]
`

func newHandler(t *testing.T, opts ...Option) http.Handler {
	t.Helper()
	h, err := NewHandler(opts...)
	require.NoError(t, err)
	return h
}

func post(h http.Handler, path string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, strings.NewReader(string(data)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestGenerate_Source(t *testing.T) {
	h := newHandler(t)

	w := post(h, "/generate", map[string]any{"source": towerSource})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.Len(t, snap.Objects, 2)
	assert.Len(t, snap.Geometries, 1)
	assert.Equal(t, "cube", snap.Objects[0].Shape)
}

func TestGenerate_ExampleWithSeedIsRepeatable(t *testing.T) {
	h := newHandler(t)

	a := post(h, "/generate", map[string]any{"example": "tree", "seed": 7})
	b := post(h, "/generate", map[string]any{"example": "tree", "seed": 7})
	require.Equal(t, http.StatusOK, a.Code, a.Body.String())
	require.Equal(t, http.StatusOK, b.Code)

	var sa, sb domain.Snapshot
	require.NoError(t, json.Unmarshal(a.Body.Bytes(), &sa))
	require.NoError(t, json.Unmarshal(b.Body.Bytes(), &sb))
	require.Equal(t, len(sa.Objects), len(sb.Objects))
	for i := range sa.Objects {
		assert.True(t, sa.Objects[i].Pose.ApproxEqual(sb.Objects[i].Pose, 1e-9))
	}
}

func TestGenerate_Errors(t *testing.T) {
	h := newHandler(t)

	tests := []struct {
		name string
		body any
		want int
	}{
		{"empty", map[string]any{}, http.StatusBadRequest},
		{"ambiguous", map[string]any{"example": "tree", "source": towerSource}, http.StatusBadRequest},
		{"unknown example", map[string]any{"example": "teapot"}, http.StatusNotFound},
		{"invalid grammar", map[string]any{"source": "start: nowhere\nrules: {}\n"}, http.StatusUnprocessableEntity},
		{"unparseable source", map[string]any{"source": "start: [", "format": "yaml"}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(h, "/generate", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestGenerate_Timeout(t *testing.T) {
	h := newHandler(t, WithRunTimeout(time.Nanosecond))

	w := post(h, "/generate", map[string]any{"example": "tree"})
	assert.Equal(t, http.StatusGatewayTimeout, w.Code, w.Body.String())
}

func TestValidate(t *testing.T) {
	h := newHandler(t)

	w := post(h, "/validate", map[string]any{"source": towerSource})
	require.Equal(t, http.StatusOK, w.Code)
	var ok ValidationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ok))
	assert.True(t, ok.Valid)
	assert.Empty(t, ok.Issues)

	w = post(h, "/validate", map[string]any{"source": `
start: a
rules:
  a:
    - steps:
        - shape: {name: teapot}
          call: [ghost]
`})
	require.Equal(t, http.StatusOK, w.Code)
	var bad ValidationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bad))
	assert.False(t, bad.Valid)
	assert.Len(t, bad.Issues, 2)
	for _, issue := range bad.Issues {
		assert.Equal(t, "a", issue.Rule)
	}
}

func TestGraph(t *testing.T) {
	h := newHandler(t)

	w := post(h, "/graph", map[string]any{"source": towerSource})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "graph TD")
	assert.Contains(t, w.Body.String(), "tower --> tower")
}

func TestListPrimitives(t *testing.T) {
	h := newHandler(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/primitives", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var catalog []struct {
		Name     string            `json:"name"`
		Schema   map[string]string `json:"schema"`
		Defaults map[string]any    `json:"defaults"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &catalog))
	names := make([]string, 0, len(catalog))
	for _, info := range catalog {
		names = append(names, info.Name)
	}
	assert.Contains(t, names, "cube")
	assert.Contains(t, names, "torus")
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := newHandler(t, WithMetrics(observability.NewMetrics(reg), reg))

	require.Equal(t, http.StatusOK, post(h, "/generate", map[string]any{"source": towerSource}).Code)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `algorist_shapes_placed_total{shape="cube"} 2`)
	assert.Contains(t, body, `algorist_guard_aborts_total{reason="max_depth"} 1`)
	assert.Contains(t, body, "algorist_run_duration_seconds_count")
}

func TestOpenAPIAndInfo(t *testing.T) {
	h := newHandler(t)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/openapi.yaml", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("GET", "/info", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var info map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "algorist-http", info["app"])
	assert.Equal(t, "0.1.0", info["api_version"])
	assert.NotEmpty(t, info["version"])
}

func TestRequestValidation(t *testing.T) {
	h := newHandler(t, WithRequestValidation(true))

	w := post(h, "/generate", map[string]any{"example": "ring", "seed": "not a number"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(h, "/generate", map[string]any{"example": "ring", "format": "toml"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(h, "/generate", map[string]any{"example": "ring", "seed": 3})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestSubscribeEvents(t *testing.T) {
	t.Run("without watcher", func(t *testing.T) {
		h := newHandler(t)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/events", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("reload", func(t *testing.T) {
		h := newHandler(t, WithWatcher(watchFunc(func(ctx context.Context) (<-chan struct{}, error) {
			ch := make(chan struct{}, 1)
			ch <- struct{}{}
			close(ch)
			return ch, nil
		})))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/events", nil))

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "event: ping")
		assert.Contains(t, body, "event: reload")
	})
}

type watchFunc func(ctx context.Context) (<-chan struct{}, error)

func (f watchFunc) Watch(ctx context.Context) (<-chan struct{}, error) { return f(ctx) }
