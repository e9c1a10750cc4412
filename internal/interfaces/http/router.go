// Package http serves the reference diagnosis engine used to smoke-test the
// harness end to end.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/DiagBench/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DiagBench/internal/interfaces/http/handlers"
	"github.com/turtacn/DiagBench/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware dependencies of the
// route tree. Nil members are skipped.
type RouterConfig struct {
	Mode            string
	DiagnosePath    string
	ChatPath        string
	DiagnoseHandler *handlers.DiagnoseHandler
	HealthHandler   *handlers.HealthHandler

	Logger   logging.Logger
	Recorder middleware.HTTPRecorder
	// MetricsHandler is mounted at /metrics.
	MetricsHandler http.Handler
}

// NewRouter builds the gin engine.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	if cfg.DiagnosePath == "" {
		cfg.DiagnosePath = "/api/diagnose"
	}
	if cfg.ChatPath == "" {
		cfg.ChatPath = "/api/chat"
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID())
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, middleware.DefaultLoggingConfig()))
	}
	if cfg.Recorder != nil {
		r.Use(middleware.Metrics(cfg.Recorder))
	}

	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.Liveness)
		r.GET("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}
	if h := cfg.DiagnoseHandler; h != nil {
		r.POST(cfg.DiagnosePath, h.Diagnose)
		r.POST(cfg.ChatPath, h.Chat)
	}
	return r
}

//Personal.AI order the ending
