package server

import (
	"encoding/json"
	"net/http"

	"github.com/joshp123/dyson-mcp/internal/tools"
)

// HealthFunc reports whether the process can serve requests, with a reason.
type HealthFunc func() (bool, string)

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthHandler answers 200 when probe is healthy and 503 otherwise.
func HealthHandler(probe HealthFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		healthy, message := probe()
		resp := healthResponse{Status: "ok", Message: message}
		code := http.StatusOK
		if !healthy {
			resp.Status = "error"
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, resp)
	})
}

// ToolsHandler lists the registry's tools as JSON.
func ToolsHandler(registry *tools.Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, registry.Tools())
	})
}

func writeJSON(w http.ResponseWriter, code int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(value)
}
