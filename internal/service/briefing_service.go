package service

import (
	"context"
	"fmt"

	"coinwire/internal/domain"
	"coinwire/internal/narrative"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// QuoteFetcher returns (nil, nil) when the provider has no data for symbol.
type QuoteFetcher interface {
	FetchQuote(ctx context.Context, symbol string) (*domain.QuoteRecord, error)
}

// BriefingService fetches a quote and derives its narrative. It holds no
// per-request state; every call hits the provider.
type BriefingService struct {
	tracer  trace.Tracer
	fetcher QuoteFetcher
	logger  *zap.Logger
}

func NewBriefingService(tracer trace.Tracer, fetcher QuoteFetcher, logger *zap.Logger) *BriefingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BriefingService{
		tracer:  tracer,
		fetcher: fetcher,
		logger:  logger.Named("briefing"),
	}
}

// Briefing returns the briefing for an upper-cased symbol, (nil, nil) when
// the provider has no data for it, or the fetch error.
func (s *BriefingService) Briefing(ctx context.Context, symbol string) (*domain.Briefing, error) {
	ctx, span := s.tracer.Start(ctx, "briefing-service.briefing")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", symbol))

	q, err := s.fetcher.FetchQuote(ctx, symbol)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("fetch quote for %s: %w", symbol, err)
	}
	if q == nil {
		s.logger.Debug("no quote data", zap.String("symbol", symbol))
		return nil, nil
	}

	return &domain.Briefing{
		Symbol: symbol,
		Quote:  *q,
		Items:  narrative.Generate(*q),
	}, nil
}
