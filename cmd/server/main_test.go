package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"coinwire/internal/bot"
	"coinwire/internal/config"
	"coinwire/internal/domain"
	"coinwire/internal/service"
	"coinwire/pkg/tracing"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func TestMainBootstrap(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := stubServerDeps()
	defer restore()

	served := make(chan http.Handler, 1)
	startHTTPServerFunc = func(srv *http.Server) error {
		served <- srv.Handler
		return http.ErrServerClosed
	}

	var botToken string
	startTelegramBotFunc = func(ctx context.Context, token string, briefings bot.BriefingService, logger *zap.Logger) {
		botToken = token
	}

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}
	if botToken != "test-token" {
		t.Fatalf("expected bot to receive configured token, got %q", botToken)
	}

	select {
	case h := <-served:
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/news?symbol=btc", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 from wired router, got %d: %s", w.Code, w.Body.String())
		}

		w = httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 from /health, got %d", w.Code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("http server was not started")
	}
}

func stubServerDeps() func() {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origNewLogger := newLoggerFunc
	origInitTracer := initTracerFunc
	origNewProvider := newProviderFunc
	origStartTelegram := startTelegramBotFunc
	origNewRouter := newRouterFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc
	origStartHTTP := startHTTPServerFunc
	origShutdownHTTP := shutdownHTTPServerFunc

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		return &config.Config{
			HTTPAddr:           "127.0.0.1:0",
			CMCSiteURL:         "https://coinmarketcap.com",
			StreamIntervalSecs: 1,
			TelegramBotToken:   "test-token",
			LogLevel:           "info",
		}
	}
	newLoggerFunc = func(string) (*zap.Logger, error) { return zap.NewNop(), nil }
	initTracerFunc = func(ctx context.Context, opts tracing.Options) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	newProviderFunc = func(trace.Tracer, *config.Config) service.QuoteFetcher { return stubFetcher{} }
	newRouterFunc = func(...gin.OptionFunc) *gin.Engine { return gin.New() }
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}
	startHTTPServerFunc = func(*http.Server) error { return http.ErrServerClosed }
	shutdownHTTPServerFunc = func(*http.Server, context.Context) error { return nil }

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		newLoggerFunc = origNewLogger
		initTracerFunc = origInitTracer
		newProviderFunc = origNewProvider
		startTelegramBotFunc = origStartTelegram
		newRouterFunc = origNewRouter
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
		startHTTPServerFunc = origStartHTTP
		shutdownHTTPServerFunc = origShutdownHTTP
	}
}

type stubFetcher struct{}

func (stubFetcher) FetchQuote(ctx context.Context, symbol string) (*domain.QuoteRecord, error) {
	return &domain.QuoteRecord{
		Name:             "Bitcoin",
		Symbol:           symbol,
		Slug:             "bitcoin",
		Price:            1,
		LastUpdated:      domain.UnknownLastUpdated,
		PercentChange24h: 1,
	}, nil
}
