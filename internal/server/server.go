// Package server exposes the symcore tools over HTTP.
//
//	POST /tool    execute a tool call
//	GET  /schema  tool schema for agent registration
//	GET  /health  liveness check
//	GET  /metrics Prometheus metrics (when enabled)
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/njchilds90/symcore"
	"github.com/njchilds90/symcore/internal/config"
	"github.com/njchilds90/symcore/internal/logging"
	"github.com/njchilds90/symcore/internal/metrics"
)

type Server struct {
	cfg     config.ServerConfig
	limits  symcore.Limits
	logger  *zap.Logger
	metrics *metrics.Metrics
	engine  *gin.Engine
}

// New builds the router. m may be nil to serve without /metrics.
func New(cfg config.ServerConfig, limits symcore.Limits, logger *zap.Logger, m *metrics.Metrics) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	s := &Server{cfg: cfg, limits: limits, logger: logger.Named("server"), metrics: m}

	r := gin.New()
	r.Use(requestID(), s.recovery(), s.accessLog())
	r.POST("/tool", s.handleTool)
	r.GET("/schema", s.handleSchema)
	r.GET("/health", s.handleHealth)
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}
	s.engine = r
	return s
}

func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", srv.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) handleTool(c *gin.Context) {
	if s.cfg.MaxBodyBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxBodyBytes)
	}
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()

	var req symcore.ToolRequest
	if err := dec.Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if dec.More() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: trailing data"})
		return
	}

	start := time.Now()
	resp := symcore.HandleToolCallLimited(req, s.limits)
	elapsed := time.Since(start)

	status := "ok"
	if resp.Error != "" {
		status = string(resp.Code)
	}
	tool := req.Tool
	if resp.Code == symcore.CodeUnknownTool {
		tool = "unknown"
	}
	s.metrics.ObserveToolCall(tool, status, elapsed)
	fields := logging.RequestFields(c.GetString(requestIDKey), req.Tool)
	s.logger.Info("tool call", append(fields, zap.String("status", status), zap.Duration("duration", elapsed))...)
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSchema(c *gin.Context) {
	c.Data(http.StatusOK, "application/json", []byte(symcore.ToolSpec()))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
