package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coinwire/internal/config"
	"coinwire/internal/logging"
	"coinwire/internal/mcpserver"
	"coinwire/internal/provider"
	"coinwire/internal/service"
	"coinwire/pkg/tracing"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var (
	loadEnvFunc     = godotenv.Load
	loadConfigFunc  = config.Load
	newLoggerFunc   = logging.New
	initTracerFunc  = tracing.InitTracer
	newProviderFunc = func(tracer trace.Tracer, cfg *config.Config) service.QuoteFetcher {
		return provider.NewCoinMarketCapProvider(tracer, cfg.CMCAPIKey, cfg.CMCBaseURL, cfg.CMCTimeout())
	}
	newBriefingServiceFunc = service.NewBriefingService
	runStdioFunc           = func(ctx context.Context, server *mcp.Server) error {
		return server.Run(ctx, &mcp.StdioTransport{})
	}
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

func main() {
	loadEnvFunc()
	cfg := loadConfigFunc()

	logger, err := newLoggerFunc(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := initTracerFunc(ctx, tracing.Options{Enabled: cfg.TracingEnabled, Endpoint: cfg.OTLPEndpoint})
	if err != nil {
		logger.Fatal("failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("error shutting down tracer provider", zap.Error(err))
		}
	}()

	briefings := newBriefingServiceFunc(tracer, newProviderFunc(tracer, cfg), logger)
	server := mcpserver.NewServer(briefings, logger)

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)

	switch cfg.MCPTransport {
	case "http":
		serveHTTP(cfg, server, quit, logger)
	default:
		go func() {
			waitForSignalFunc(quit)
			cancel()
		}()
		logger.Info("MCP server running on stdio")
		if err := runStdioFunc(ctx, server); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("MCP stdio server stopped", zap.Error(err))
		}
	}

	logger.Info("MCP server exited")
}

func serveHTTP(cfg *config.Config, server *mcp.Server, quit <-chan os.Signal, logger *zap.Logger) {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.MCPHTTPBind, cfg.MCPHTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("MCP server listening", zap.String("addr", srv.Addr))
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			logger.Fatal("MCP listen failed", zap.Error(err))
		}
	}()

	waitForSignalFunc(quit)
	logger.Info("Shutting down MCP server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		logger.Warn("MCP server forced to shutdown", zap.Error(err))
	}
}
