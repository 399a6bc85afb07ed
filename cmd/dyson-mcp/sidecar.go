package main

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/joshp123/dyson-mcp/internal/config"
	"github.com/joshp123/dyson-mcp/internal/server"
	"github.com/joshp123/dyson-mcp/internal/tools"
	"github.com/joshp123/dyson-mcp/plugins/dyson"
)

const shutdownTimeout = 5 * time.Second

// sidecar is the optional operations surface: HTTP health/metrics and gRPC
// health. It never serves tool calls.
type sidecar struct {
	logger logrus.FieldLogger
	http   *server.HTTPServer
	grpc   *server.GRPCServer
}

func startSidecar(cfg *config.Config, logger logrus.FieldLogger, plugin dyson.Plugin, registry *tools.Registry) (*sidecar, error) {
	s := &sidecar{logger: logger}

	if cfg.GRPCAddr != "" {
		grpcServer, err := server.NewGRPCServer(cfg.GRPCAddr, logger, map[string]server.HealthFunc{
			plugin.ID(): plugin.Health,
		})
		if err != nil {
			return nil, err
		}
		s.grpc = grpcServer
		go func() {
			if err := grpcServer.Serve(); err != nil {
				logger.WithError(err).Error("grpc sidecar stopped")
			}
		}()
		logger.WithField("addr", cfg.GRPCAddr).Info("grpc sidecar listening")
	}

	if cfg.HTTPAddr != "" {
		collectors := append(plugin.Collectors(), registry.Collectors()...)
		metricsRegistry := server.MetricsRegistry(collectors...)

		dashboards := make(map[string][]byte)
		for _, dash := range plugin.Dashboards() {
			dashboards[server.DashboardPath(plugin.ID(), dash.Name)] = dash.JSON
		}

		mux := http.NewServeMux()
		mux.Handle("/health", server.HealthHandler(plugin.Health))
		mux.Handle("/metrics", server.MetricsHandler(metricsRegistry))
		mux.Handle("/dashboards/", server.DashboardsHandler(dashboards))
		mux.Handle("/tools", server.ToolsHandler(registry))

		s.http = server.NewHTTPServer(cfg.HTTPAddr, mux, logger)
		go func() {
			if err := s.http.ListenAndServe(); err != nil {
				logger.WithError(err).Error("http sidecar stopped")
			}
		}()
		logger.WithField("addr", cfg.HTTPAddr).Info("http sidecar listening")
	}

	return s, nil
}

func (s *sidecar) stop() {
	if s.http != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.WithError(err).Warn("http sidecar shutdown")
		}
	}
	if s.grpc != nil {
		s.grpc.Stop()
	}
}
