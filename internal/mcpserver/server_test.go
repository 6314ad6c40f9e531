package mcpserver

import (
	"context"
	"errors"
	"testing"

	"coinwire/internal/domain"
	"coinwire/internal/narrative"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubBriefings struct {
	briefing *domain.Briefing
	err      error
}

func (s stubBriefings) Briefing(ctx context.Context, symbol string) (*domain.Briefing, error) {
	return s.briefing, s.err
}

func adaBriefing() *domain.Briefing {
	q := domain.QuoteRecord{Name: "Cardano", Symbol: "ADA", Slug: "cardano", Price: 0.45, MarketCap: 1.6e10, Volume24h: 4e8, PercentChange24h: -0.5, PercentChange7d: 1.4, LastUpdated: "Unknown"}
	return &domain.Briefing{Symbol: "ADA", Quote: q, Items: narrative.Generate(q)}
}

func connect(t *testing.T, svc BriefingService) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := NewServer(svc, zap.NewNop()).Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

func callBriefing(t *testing.T, session *mcp.ClientSession, symbol string) *mcp.CallToolResult {
	t.Helper()
	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      ToolName,
		Arguments: map[string]any{"symbol": symbol},
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func TestToolListed(t *testing.T) {
	session := connect(t, stubBriefings{})
	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, res.Tools, 1)
	require.Equal(t, ToolName, res.Tools[0].Name)
}

func TestMarketBriefingFound(t *testing.T) {
	b := adaBriefing()
	session := connect(t, stubBriefings{briefing: b})

	res := callBriefing(t, session, "ada")
	require.False(t, res.IsError)

	body := text(t, res)
	require.Contains(t, body, "Latest News for ADA")
	require.Contains(t, body, b.Items[1].Title)
	require.Contains(t, body, "Cardano (ADA)")

	structured, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok, "expected structured content, got %T", res.StructuredContent)
	require.Equal(t, "ADA", structured["symbol"])
	items, ok := structured["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, domain.NarrativeSlots)
}

func TestMarketBriefingNotFound(t *testing.T) {
	session := connect(t, stubBriefings{})

	res := callBriefing(t, session, "zzz")
	require.True(t, res.IsError)
	require.Equal(t, "No data found for symbol: ZZZ", text(t, res))
}

func TestMarketBriefingFetchErrorIsGeneric(t *testing.T) {
	session := connect(t, stubBriefings{err: errors.New("status 429: quota for key xyz")})

	res := callBriefing(t, session, "BTC")
	require.True(t, res.IsError)
	require.Equal(t, "Failed to fetch market data", text(t, res))
}

func TestMarketBriefingBlankSymbol(t *testing.T) {
	session := connect(t, stubBriefings{briefing: adaBriefing()})

	res := callBriefing(t, session, "   ")
	require.True(t, res.IsError)
	require.Equal(t, "symbol is required", text(t, res))
}
