// Package mcpserver exposes market briefings as a Model Context Protocol tool.
package mcpserver

import (
	"context"
	"strings"

	"coinwire/internal/domain"
	"coinwire/internal/render"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

const (
	serverName    = "coinwire"
	serverVersion = "1.0.0"

	// ToolName is the name clients call.
	ToolName = "market_briefing"
)

// BriefingService returns (nil, nil) when the provider has no data for symbol.
type BriefingService interface {
	Briefing(ctx context.Context, symbol string) (*domain.Briefing, error)
}

type BriefingInput struct {
	Symbol string `json:"symbol" jsonschema:"ticker symbol of the crypto asset, e.g. BTC"`
}

type BriefingOutput struct {
	Symbol string                 `json:"symbol"`
	Quote  domain.QuoteRecord     `json:"quote"`
	Items  []domain.NarrativeItem `json:"items"`
}

type tools struct {
	briefings BriefingService
	logger    *zap.Logger
}

// NewServer builds an MCP server with the market_briefing tool registered.
func NewServer(briefings BriefingService, logger *zap.Logger) *mcp.Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &tools{briefings: briefings, logger: logger.Named("mcp")}

	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolName,
		Description: "Fetch a live quote for a crypto asset and return three short market articles with a market summary.",
	}, t.marketBriefing)
	return server
}

func (t *tools) marketBriefing(ctx context.Context, _ *mcp.CallToolRequest, in BriefingInput) (*mcp.CallToolResult, BriefingOutput, error) {
	symbol := strings.ToUpper(strings.TrimSpace(in.Symbol))
	if symbol == "" {
		return toolError("symbol is required"), emptyOutput(symbol), nil
	}

	b, err := t.briefings.Briefing(ctx, symbol)
	if err != nil {
		t.logger.Error("fetch briefing failed", zap.String("symbol", symbol), zap.Error(err))
		return toolError("Failed to fetch market data"), emptyOutput(symbol), nil
	}
	if b == nil {
		return toolError("No data found for symbol: " + symbol), emptyOutput(symbol), nil
	}

	out := BriefingOutput{Symbol: b.Symbol, Quote: b.Quote, Items: b.Items[:]}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: render.NewsText(b) + "\n\n" + render.SummaryText(b)},
		},
	}, out, nil
}

func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
	}
}

// emptyOutput keeps error results valid against the output schema.
func emptyOutput(symbol string) BriefingOutput {
	return BriefingOutput{Symbol: symbol, Items: []domain.NarrativeItem{}}
}
