package render

import (
	"fmt"
	"strings"

	"coinwire/internal/domain"
)

// NewsText is the plain-text form of the three articles, for chat and tool
// clients.
func NewsText(b *domain.Briefing) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Latest News for %s\n", b.Symbol)
	for _, item := range b.Items {
		fmt.Fprintf(&sb, "\n%s\nSource: %s\n%s\n", item.Title, item.Source, item.Body)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// SummaryText is the plain-text form of the market summary panel.
func SummaryText(b *domain.Briefing) string {
	s := Summarize(b.Quote)
	return fmt.Sprintf(
		"%s (%s)\nPrice: $%s %s %s%%\nMarket Cap: $%s billion\n24h Volume: $%s million\nLast updated: %s",
		b.Quote.Name, b.Symbol, s.Price, s.Direction.Arrow, s.Change, s.MarketCap, s.Volume, s.Updated,
	)
}
