// Command dyson-mcp serves Dyson purifier tools to an AI agent host over
// MCP on stdio.
//
// Usage:
//
//	dyson-mcp [-env-file path]
//
// Configuration comes from DYSON_* environment variables (see
// internal/config). Logs go to stderr; stdout carries the MCP stream.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/joshp123/dyson-mcp/internal/config"
	"github.com/joshp123/dyson-mcp/internal/router"
	"github.com/joshp123/dyson-mcp/internal/tools"
	"github.com/joshp123/dyson-mcp/plugins/dyson"
)

var version = "0.1.0"

func main() {
	envFile := flag.String("env-file", "", "optional .env file to load before reading the environment")
	flag.Parse()

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}

	cfg, err := config.Load(envFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg, os.Stderr)

	client, err := dyson.NewClient(cfg.Dyson(), logger)
	if err != nil {
		logger.WithError(err).Fatal("create dyson client")
	}
	plugin := dyson.NewPlugin(client)

	registry, err := tools.NewRegistry(logger, plugin.Tools())
	if err != nil {
		logger.WithError(err).Fatal("register tools")
	}

	logger.WithFields(logrus.Fields{
		"version":  version,
		"region":   cfg.Region,
		"base_url": client.BaseURL(),
		"tools":    len(registry.Tools()),
	}).Info("starting dyson-mcp")

	var side *sidecar
	if cfg.SidecarEnabled() {
		side, err = startSidecar(cfg, logger, plugin, registry)
		if err != nil {
			logger.WithError(err).Fatal("start sidecar")
		}
	}

	mcp := router.NewMCPServer("dyson-mcp", version, plugin.AgentsMD(), registry)
	errLogger := log.New(logger.WriterLevel(logrus.ErrorLevel), "", 0)
	serveErr := mcpserver.ServeStdio(mcp, mcpserver.WithErrorLogger(errLogger))

	if side != nil {
		side.stop()
	}
	if serveErr != nil {
		logger.WithError(serveErr).Fatal("mcp serve")
	}
	logger.Info("dyson-mcp stopped")
}
