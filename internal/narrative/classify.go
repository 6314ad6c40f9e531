package narrative

import (
	"math"

	"coinwire/internal/domain"
)

// Thresholds used to bucket a quote into qualitative wording.
const (
	activityVolumeRatio = 0.05
	weeklyVolumeRatio   = 0.1
	liquidityRatio      = 0.1
	volatilityGapPct    = 1.0
	daysPerWeek         = 7.0
)

// Classification holds the qualitative outcome of every threshold rule.
type Classification struct {
	Bullish             bool // 24h change > 0
	HighActivity        bool // volume > 5% of market cap
	WeeklyUpward        bool // 7d change > 0
	VolatilityIncreased bool // |24h - 7d/7| > 1
	SignificantVolume   bool // volume > 10% of market cap
	MomentumGrowth      bool // 24h > 7d/7
	HighLiquidity       bool // volume / market cap > 0.1
}

// Classify evaluates all threshold rules against q.
func Classify(q domain.QuoteRecord) Classification {
	dailyAverage := q.PercentChange7d / daysPerWeek
	return Classification{
		Bullish:             q.PercentChange24h > 0,
		HighActivity:        q.Volume24h > q.MarketCap*activityVolumeRatio,
		WeeklyUpward:        q.PercentChange7d > 0,
		VolatilityIncreased: math.Abs(q.PercentChange24h-dailyAverage) > volatilityGapPct,
		SignificantVolume:   q.Volume24h > q.MarketCap*weeklyVolumeRatio,
		MomentumGrowth:      q.PercentChange24h > dailyAverage,
		HighLiquidity:       LiquidityRatio(q) > liquidityRatio,
	}
}

// LiquidityRatio is 24h volume over market cap, or 0 when market cap is not positive.
func LiquidityRatio(q domain.QuoteRecord) float64 {
	if q.MarketCap <= 0 {
		return 0
	}
	ratio := q.Volume24h / q.MarketCap
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return 0
	}
	return ratio
}
