package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coinwire/internal/bot"
	"coinwire/internal/config"
	"coinwire/internal/handler"
	"coinwire/internal/logging"
	"coinwire/internal/provider"
	"coinwire/internal/render"
	"coinwire/internal/service"
	"coinwire/internal/stream"
	"coinwire/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	_ "coinwire/docs"
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
	newRendererFunc        = render.New
	startTelegramBotFunc   = bot.StartTelegramBot
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           coinwire API
// @version         1.0
// @description     Live crypto quotes turned into short market news.

// @host      localhost:8080
// @BasePath  /
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

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx, tracing.Options{Enabled: cfg.TracingEnabled, Endpoint: cfg.OTLPEndpoint})
	if err != nil {
		logger.Fatal("failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Create provider, briefing service and renderer
	quotes := newProviderFunc(tracer, cfg)
	briefings := newBriefingServiceFunc(tracer, quotes, logger)
	renderer := newRendererFunc(cfg.CMCSiteURL, nil)

	// Start Telegram bot (stopped by ctx cancel)
	startTelegramBotFunc(ctx, cfg.TelegramBotToken, briefings, logger)

	// Create handlers and routes
	h := newHandlerFunc(tracer, briefings, renderer, logger)
	h.SetStreamer(stream.NewStreamer(tracer, briefings, renderer, cfg.StreamInterval(), logger))
	h.SetStaticDir(cfg.StaticDir)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("coinwire"))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	logger.Info("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
