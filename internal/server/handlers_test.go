package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshp123/dyson-mcp/internal/tools"
)

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		healthy    bool
		message    string
		wantCode   int
		wantStatus string
	}{
		{name: "healthy", healthy: true, message: "session active", wantCode: http.StatusOK, wantStatus: "ok"},
		{name: "unhealthy", healthy: false, message: "invalid dyson credentials", wantCode: http.StatusServiceUnavailable, wantStatus: "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := HealthHandler(func() (bool, string) { return tt.healthy, tt.message })
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body healthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, tt.message, body.Message)
		})
	}
}

func TestToolsHandler(t *testing.T) {
	registry, err := tools.NewRegistry(nil, []tools.Tool{{
		Name:        "demo_ping",
		Description: "Ping",
		Params:      []tools.Param{{Name: "target", Kind: tools.KindString, Required: true}},
		Handler:     func(context.Context, tools.Args) (any, error) { return "pong", nil },
	}})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	ToolsHandler(registry).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tools", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.JSONEq(t, `[{
		"name": "demo_ping",
		"description": "Ping",
		"params": [{"name": "target", "type": "string", "required": true}]
	}]`, rec.Body.String())
}

func TestDashboardsHandler(t *testing.T) {
	path := DashboardPath("dyson", "dyson-overview")
	assert.Equal(t, "/dashboards/dyson/dyson-overview.json", path)

	handler := DashboardsHandler(map[string][]byte{path: []byte(`{"title":"Dyson"}`)})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"title":"Dyson"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboards/dyson/missing.json", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsHandler(t *testing.T) {
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "demo_total", Help: "demo"})
	counter.Add(3)

	srv := httptest.NewServer(MetricsHandler(MetricsRegistry(counter)))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "demo_total 3")
	assert.Contains(t, string(body), "go_goroutines")
}

func TestRequestLogger(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	handler := RequestLogger(logger, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/tools", strings.NewReader("")))

	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, http.StatusTeapot, entry.Data["status"])
	assert.Equal(t, "/tools", entry.Data["path"])
	assert.Equal(t, http.MethodPost, entry.Data["method"])
}
