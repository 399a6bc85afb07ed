package tools

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const (
	resultOK      = "ok"
	resultError   = "error"
	resultUnknown = "unknown"
)

// Result is what a tool call hands back to the agent host.
type Result struct {
	Text    string
	IsError bool
}

type requestIDKey struct{}

// RequestID returns the id assigned to the tool call running in ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Registry is a static set of tools and their dispatcher.
type Registry struct {
	tools   []Tool
	byName  map[string]Tool
	logger  logrus.FieldLogger
	metrics *callMetrics
}

func NewRegistry(logger logrus.FieldLogger, tools []Tool) (*Registry, error) {
	if err := ValidateTools(tools); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	byName := make(map[string]Tool, len(tools))
	for _, tool := range tools {
		byName[tool.Name] = tool
	}
	return &Registry{
		tools:   append([]Tool(nil), tools...),
		byName:  byName,
		logger:  logger,
		metrics: newCallMetrics(),
	}, nil
}

// Tools lists registered tools in registration order.
func (r *Registry) Tools() []Tool {
	return append([]Tool(nil), r.tools...)
}

func (r *Registry) Lookup(name string) (Tool, bool) {
	tool, ok := r.byName[name]
	return tool, ok
}

// Collectors exposes the registry's call metrics.
func (r *Registry) Collectors() []prometheus.Collector {
	return r.metrics.collectors()
}

// Call dispatches a tool by name. It never returns a Go error: failures,
// including unknown tool names, come back as error results.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) Result {
	requestID := uuid.NewString()
	ctx = context.WithValue(ctx, requestIDKey{}, requestID)
	logger := r.logger.WithFields(logrus.Fields{"tool": name, "request_id": requestID})

	start := time.Now()
	tool, ok := r.byName[name]
	if !ok {
		err := UnknownToolError{Name: name}
		r.metrics.observe(resultUnknown, resultError, time.Since(start).Seconds())
		logger.WithError(err).Warn("tool call rejected")
		return errorResult(err)
	}

	value, err := tool.Handler(ctx, Args(args))
	if err == nil {
		var text []byte
		text, err = json.MarshalIndent(value, "", "  ")
		if err == nil {
			r.metrics.observe(name, resultOK, time.Since(start).Seconds())
			logger.WithField("duration", time.Since(start)).Info("tool call")
			return Result{Text: string(text)}
		}
	}

	r.metrics.observe(name, resultError, time.Since(start).Seconds())
	entry := logger.WithField("duration", time.Since(start)).WithError(err)
	var argErr InvalidArgumentError
	if errors.As(err, &argErr) {
		entry.Info("tool call rejected")
	} else {
		entry.Warn("tool call failed")
	}
	return errorResult(err)
}

func errorResult(err error) Result {
	return Result{Text: "Error: " + err.Error(), IsError: true}
}
