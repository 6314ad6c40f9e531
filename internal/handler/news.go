package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// GetNews godoc
// @Summary      Market news for a crypto asset
// @Description  Fetches a live quote and returns three generated articles plus a market summary as an HTML fragment
// @Tags         news
// @Produce      html
// @Param        symbol  query  string  true  "Asset symbol (e.g., BTC, ETH)"
// @Success      200  {string}  string
// @Failure      400  {string}  string
// @Failure      404  {string}  string
// @Failure      500  {string}  string
// @Router       /news [get]
func (h *Handler) GetNews(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-news")
	defer span.End()

	symbol := normalizeSymbol(c.Query("symbol"))
	if symbol == "" {
		c.String(http.StatusBadRequest, "Missing required query parameter: symbol")
		return
	}
	span.SetAttributes(attribute.String("symbol", symbol))

	b, err := h.briefings.Briefing(ctx, symbol)
	if err != nil {
		span.SetStatus(codes.Error, "fetch failed")
		h.logger.Error("fetch briefing failed", zap.String("symbol", symbol), zap.Error(err))
		c.String(http.StatusInternalServerError, fetchFailedMessage)
		return
	}
	if b == nil {
		c.String(http.StatusNotFound, "No data found for symbol: "+symbol)
		return
	}

	html, err := h.renderer.RenderBriefing(b)
	if err != nil {
		span.SetStatus(codes.Error, "render failed")
		h.logger.Error("render briefing failed", zap.String("symbol", symbol), zap.Error(err))
		c.String(http.StatusInternalServerError, fetchFailedMessage)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// StreamNews godoc
// @Summary      Live market news stream
// @Description  Upgrades to a WebSocket and pushes a freshly rendered news fragment on a fixed interval
// @Tags         news
// @Param        symbol  query  string  true  "Asset symbol (e.g., BTC, ETH)"
// @Success      101  {string}  string
// @Failure      400  {string}  string
// @Router       /ws/news [get]
func (h *Handler) StreamNews(c *gin.Context) {
	symbol := normalizeSymbol(c.Query("symbol"))
	if symbol == "" {
		c.String(http.StatusBadRequest, "Missing required query parameter: symbol")
		return
	}

	if err := h.streamer.Serve(c.Writer, c.Request, symbol); err != nil {
		h.logger.Warn("news stream ended with error", zap.String("symbol", symbol), zap.Error(err))
	}
}
