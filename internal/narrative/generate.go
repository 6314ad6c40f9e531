// Package narrative turns a normalized quote into three short synthetic
// articles. Output depends only on the quote.
package narrative

import (
	"fmt"
	"math"
	"strings"

	"coinwire/internal/domain"
)

// Fixed source labels per slot.
const (
	SourcePriceTrend     = "CryptoMarket Analysis"
	SourceWeeklyTrend    = "Weekly Crypto Report"
	SourceMarketPosition = "Market Position Insights"
)

// Generate builds the 24h trend, 7 day trend and market position articles, in that order.
func Generate(q domain.QuoteRecord) [domain.NarrativeSlots]domain.NarrativeItem {
	c := Classify(q)

	var items [domain.NarrativeSlots]domain.NarrativeItem
	items[domain.SlotPriceTrend] = priceTrend(q, c)
	items[domain.SlotWeeklyTrend] = weeklyTrend(q, c)
	items[domain.SlotMarketPosition] = marketPosition(q, c)
	return items
}

func priceTrend(q domain.QuoteRecord, c Classification) domain.NarrativeItem {
	sentiment, movement, mood := "Bearish", "decrease", "bearish"
	if c.Bullish {
		sentiment, movement, mood = "Bullish", "increase", "bullish"
	}
	activity := pick(c.HighActivity, "high", "moderate")

	return domain.NarrativeItem{
		Title:  fmt.Sprintf("%s Shows %s Momentum in the Last 24 Hours", q.Name, sentiment),
		Source: SourcePriceTrend,
		Body: fmt.Sprintf(
			"%s has seen a %s of %.2f%% over the past 24 hours, signaling %s sentiment among traders. "+
				"Trading volume reached $%.2f million, reflecting %s trader activity.",
			q.Name, movement, math.Abs(q.PercentChange24h), mood, Millions(q.Volume24h), activity,
		),
	}
}

func weeklyTrend(q domain.QuoteRecord, c Classification) domain.NarrativeItem {
	direction, verb := "Downward", "declined"
	if c.WeeklyUpward {
		direction, verb = "Upward", "gained"
	}
	volatility := pick(c.VolatilityIncreased, "increased", "stable")
	volume := pick(c.SignificantVolume, "significant", "average")
	outlook := "Daily performance is lagging the weekly pace, which may point to a reduction in selling pressure."
	if c.MomentumGrowth {
		outlook = "Daily performance is outpacing the weekly average, which suggests continued growth."
	}

	return domain.NarrativeItem{
		Title:  fmt.Sprintf("%s Weekly Report: %s Trend Over the Past 7 Days", q.Name, direction),
		Source: SourceWeeklyTrend,
		Body: fmt.Sprintf(
			"%s has %s %.2f%% over the past week, marking a %s trend. "+
				"Compared with its daily average the market shows %s volatility, with %s trading volume relative to its market capitalization. %s",
			q.Name, verb, math.Abs(q.PercentChange7d), strings.ToLower(direction), volatility, volume, outlook,
		),
	}
}

func marketPosition(q domain.QuoteRecord, c Classification) domain.NarrativeItem {
	liquidity := pick(c.HighLiquidity, "high", "moderate")

	return domain.NarrativeItem{
		Title:  fmt.Sprintf("Why %s Matters in the Crypto Market Rankings", q.Name),
		Source: SourceMarketPosition,
		Body: fmt.Sprintf(
			"With a market capitalization of $%.2f billion, %s remains a notable player in the cryptocurrency market. "+
				"At a current price of $%.2f and $%.2f million in daily volume, it offers %s liquidity to investors.",
			Billions(q.MarketCap), q.Name, q.Price, Millions(q.Volume24h), liquidity,
		),
	}
}

// Millions scales a dollar amount for "million" labels.
func Millions(v float64) float64 { return v / 1e6 }

// Billions scales a dollar amount for "billion" labels.
func Billions(v float64) float64 { return v / 1e9 }

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
