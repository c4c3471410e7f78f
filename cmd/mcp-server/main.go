// Command mcp-server exposes the symcore tools over HTTP for agent frameworks.
//
// Usage:
//
//	mcp-server -config symcore.yaml
//
// Tool call endpoint: POST /tool
// Schema endpoint:    GET  /schema
// Health endpoint:    GET  /health
// Metrics endpoint:   GET  /metrics
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/njchilds90/symcore"
	"github.com/njchilds90/symcore/internal/config"
	"github.com/njchilds90/symcore/internal/logging"
	"github.com/njchilds90/symcore/internal/metrics"
	"github.com/njchilds90/symcore/internal/server"
)

func main() {
	configPath := flag.String("config", "", "config file (yaml, json or toml)")
	port := flag.Int("port", 0, "port to listen on (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	symcore.SetLogger(logger)
	symcore.SetDefaultCache(symcore.NewCache(cfg.Engine.CacheCapacity))

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace, symcore.DefaultCache)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.Server, cfg.Limits(), logger, m)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
