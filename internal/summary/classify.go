package summary

import (
	"github.com/stockrit/stockrit/internal/model"
)

// Badge labels. These are fixed enumerations the UI matches on.
const (
	RSIOverbought = "Overbought"
	RSIOversold   = "Oversold"
	RSINeutral    = "Neutral"

	MACDBullish = "Bullish"
	MACDBearish = "Bearish"

	BandsAbove  = "Above Upper Band"
	BandsBelow  = "Below Lower Band"
	BandsWithin = "Within Bands"

	TrendStrongUp     = "Strong Uptrend"
	TrendStrongDown   = "Strong Downtrend"
	TrendBullishCross = "Potential Bullish Crossover"
	TrendMixed        = "Mixed Signals"
)

// ClassifyRSI buckets an RSI reading at the 70/30 thresholds. A nil
// reading compares like NaN: both threshold checks fail and the label
// falls through to Neutral.
func ClassifyRSI(rsi *float64) string {
	switch {
	case rsi != nil && *rsi > 70:
		return RSIOverbought
	case rsi != nil && *rsi < 30:
		return RSIOversold
	default:
		return RSINeutral
	}
}

// ClassifyMACD compares the MACD line to its signal line.
func ClassifyMACD(line, signal *float64) string {
	if line != nil && signal != nil && *line > *signal {
		return MACDBullish
	}
	return MACDBearish
}

// ClassifyBands places the closing price against the Bollinger envelope.
func ClassifyBands(close float64, upper, lower *float64) string {
	switch {
	case upper != nil && close > *upper:
		return BandsAbove
	case lower != nil && close < *lower:
		return BandsBelow
	default:
		return BandsWithin
	}
}

// ClassifyTrend orders the three moving averages. The chain keeps its
// precedence: both strong trends are checked before the crossover case.
func ClassifyTrend(ma20, ma50, ma200 *float64) string {
	if ma20 == nil || ma50 == nil || ma200 == nil {
		return TrendMixed
	}
	switch {
	case *ma20 > *ma50 && *ma50 > *ma200:
		return TrendStrongUp
	case *ma20 < *ma50 && *ma50 < *ma200:
		return TrendStrongDown
	case *ma20 > *ma50 && *ma50 < *ma200:
		return TrendBullishCross
	default:
		return TrendMixed
	}
}

// Latest derives the badge set from the last row of a computed series.
func Latest(rows []model.IndicatorRow) model.Signals {
	var last model.IndicatorRow
	if len(rows) > 0 {
		last = rows[len(rows)-1]
	}
	return model.Signals{
		RSI:            ClassifyRSI(last.RSI),
		MACD:           ClassifyMACD(last.MACD, last.SignalLine),
		BollingerBands: ClassifyBands(last.Close, last.UpperBand, last.LowerBand),
		MovingAverages: ClassifyTrend(last.MA20, last.MA50, last.MA200),
	}
}
