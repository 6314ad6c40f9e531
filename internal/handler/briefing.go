package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// GetBriefing godoc
// @Summary      Market briefing for a crypto asset
// @Description  Returns the normalized quote and the three generated articles as JSON
// @Tags         briefings
// @Produce      json
// @Param        symbol  path  string  true  "Asset symbol (e.g., BTC, ETH)"
// @Success      200  {object}  domain.Briefing
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/briefings/{symbol} [get]
func (h *Handler) GetBriefing(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-briefing")
	defer span.End()

	symbol := normalizeSymbol(c.Param("symbol"))
	span.SetAttributes(attribute.String("symbol", symbol))

	b, err := h.briefings.Briefing(ctx, symbol)
	if err != nil {
		span.SetStatus(codes.Error, "fetch failed")
		h.logger.Error("fetch briefing failed", zap.String("symbol", symbol), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fetchFailedMessage})
		return
	}
	if b == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No data found for symbol: " + symbol})
		return
	}

	c.JSON(http.StatusOK, b)
}
