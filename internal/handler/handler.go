package handler

//go:generate mockgen -source=handler.go -destination=mock_briefing_service_test.go -package=handler

import (
	"context"
	"path/filepath"
	"strings"

	"coinwire/internal/domain"
	"coinwire/internal/render"
	"coinwire/internal/stream"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const fetchFailedMessage = "Failed to fetch market data"

// BriefingService returns (nil, nil) when the provider has no data for symbol.
type BriefingService interface {
	Briefing(ctx context.Context, symbol string) (*domain.Briefing, error)
}

type Handler struct {
	tracer    trace.Tracer
	briefings BriefingService
	renderer  *render.Renderer
	streamer  *stream.Streamer
	logger    *zap.Logger
	staticDir string
}

func New(tracer trace.Tracer, briefings BriefingService, renderer *render.Renderer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		tracer:    tracer,
		briefings: briefings,
		renderer:  renderer,
		logger:    logger.Named("handler"),
	}
}

// SetStreamer enables GET /ws/news.
func (h *Handler) SetStreamer(s *stream.Streamer) {
	h.streamer = s
}

// SetStaticDir enables the landing page and /static assets.
func (h *Handler) SetStaticDir(dir string) {
	h.staticDir = dir
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.Use(RequestLogger(h.logger))

	r.GET("/health", h.Health)
	r.GET("/news", h.GetNews)
	r.GET("/api/briefings/:symbol", h.GetBriefing)

	if h.streamer != nil {
		r.GET("/ws/news", h.StreamNews)
	}
	if h.staticDir != "" {
		r.StaticFile("/", filepath.Join(h.staticDir, "index.html"))
		r.Static("/static", h.staticDir)
	}
}

func normalizeSymbol(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
