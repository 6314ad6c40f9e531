package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"coinwire/internal/domain"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	coinMarketCapBaseURL = "https://pro-api.coinmarketcap.com"
	quotesLatestPath     = "/v1/cryptocurrency/quotes/latest"
	apiKeyHeader         = "X-CMC_PRO_API_KEY"
)

// FetchError is a transport, status or decode failure while talking to the
// provider. A provider-reported "no such symbol" is not a FetchError.
type FetchError struct {
	Op     string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("coinmarketcap %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("coinmarketcap %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// CoinMarketCapProvider fetches latest quotes from the CoinMarketCap pro API.
// Each call makes a single attempt; there is no retry.
type CoinMarketCapProvider struct {
	client  *resty.Client
	baseURL string
	apiKey  string
	tracer  trace.Tracer
}

// NewCoinMarketCapProvider creates a provider. An empty baseURL selects the public API.
func NewCoinMarketCapProvider(tracer trace.Tracer, apiKey, baseURL string, timeout time.Duration) *CoinMarketCapProvider {
	if baseURL == "" {
		baseURL = coinMarketCapBaseURL
	}
	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	client.SetRetryCount(0)

	return &CoinMarketCapProvider{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		tracer:  tracer,
	}
}

// FetchQuote returns the normalized quote for an upper-cased symbol.
// It returns (nil, nil) when the provider has no data for the symbol.
func (p *CoinMarketCapProvider) FetchQuote(ctx context.Context, symbol string) (*domain.QuoteRecord, error) {
	ctx, span := p.tracer.Start(ctx, "coinmarketcap.fetch-quote")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", symbol))

	resp, err := p.client.R().
		SetContext(ctx).
		SetHeader(apiKeyHeader, p.apiKey).
		SetHeader("Accept", "application/json").
		SetQueryParam("symbol", symbol).
		Get(p.baseURL + quotesLatestPath)
	if err != nil {
		return nil, p.fail(span, &FetchError{Op: "request", Err: err})
	}

	body := resp.Body()
	if !resp.IsSuccess() {
		// Unknown symbols come back as 400 with status.error_message set.
		// Auth, quota and server failures stay errors even when they carry a message.
		if msg, failed := envelopeError(body); failed && resp.StatusCode() == http.StatusBadRequest {
			span.SetAttributes(attribute.String("provider.error_message", msg))
			return nil, nil
		}
		return nil, p.fail(span, &FetchError{
			Op:     "request",
			Status: resp.StatusCode(),
			Err:    fmt.Errorf("unexpected response: %s", truncate(string(body), 256)),
		})
	}

	q, err := ParseQuote(body, symbol)
	if err != nil {
		return nil, p.fail(span, &FetchError{Op: "decode", Status: resp.StatusCode(), Err: err})
	}
	span.SetAttributes(attribute.Bool("found", q != nil))
	return q, nil
}

func (p *CoinMarketCapProvider) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
