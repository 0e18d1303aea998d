// Package summary turns raw fundamentals into the display records the
// dashboard renders, and classifies indicator readings into badge
// labels. Everything here is pure string formatting; absent inputs
// render as the NA marker instead of failing.
package summary

import (
	"fmt"

	"github.com/stockrit/stockrit/internal/model"
)

// NA is rendered for any absent field.
const NA = "N/A"

// Build formats a fundamentals record for display.
func Build(f *model.Fundamentals) model.Summary {
	if f == nil {
		f = &model.Fundamentals{}
	}
	return model.Summary{
		Name:                text(f.Name),
		Sector:              text(f.Sector),
		Industry:            text(f.Industry),
		MarketCap:           Money(f.MarketCap),
		CurrentPrice:        Money(f.CurrentPrice),
		Open:                Money(f.Open),
		High:                Money(f.DayHigh),
		Low:                 Money(f.DayLow),
		PreviousClose:       Money(f.PreviousClose),
		Volume:              Count(f.Volume),
		AvgVolume:           Count(f.AverageVolume),
		FiftyTwoWeekHigh:    Money(f.FiftyTwoWeekHigh),
		FiftyTwoWeekLow:     Money(f.FiftyTwoWeekLow),
		PERatio:             Ratio(f.TrailingPE),
		ForwardPE:           Ratio(f.ForwardPE),
		PEGRatio:            Ratio(f.PEGRatio),
		PriceToBook:         Ratio(f.PriceToBook),
		EnterpriseValue:     Money(f.EnterpriseValue),
		EnterpriseToRevenue: Ratio(f.EnterpriseToRevenue),
		EnterpriseToEBITDA:  Ratio(f.EnterpriseToEBITDA),
		Beta:                Ratio(f.Beta),
		DividendRate:        Money(f.DividendRate),
		DividendYield:       yieldPercent(f.DividendYield),
		TargetMeanPrice:     Money(f.TargetMeanPrice),
		Recommendation:      text(f.Recommendation),
		ESGScore:            Count(f.ESGScore),
	}
}

// BuildQuote formats one row of the popular stocks board.
func BuildQuote(symbol string, f *model.Fundamentals) model.Quote {
	q := model.Quote{
		Symbol:        symbol,
		Name:          text(f.Name),
		Price:         NA,
		Change:        NA,
		ChangePercent: NA,
		MarketCap:     Money(f.MarketCap),
		PERatio:       Ratio(f.TrailingPE),
	}
	if f.CurrentPrice != nil {
		q.Price = fmt.Sprintf("$%.2f", *f.CurrentPrice)
	}
	if f.Change != nil {
		q.Change = fmt.Sprintf("%+.2f", *f.Change)
	}
	if f.ChangePercent != nil {
		q.ChangePercent = fmt.Sprintf("%+.2f%%", *f.ChangePercent)
	}
	return q
}

// Money renders a monetary value scaled to K/M/B with a dollar prefix.
// The thresholds are strictly greater-than: exactly 1e6 stays in the K
// range and exactly 1e3 stays unscaled.
func Money(v *float64) string {
	if v == nil {
		return NA
	}
	return scale(*v, "$")
}

// Count renders a non-monetary magnitude (share volume, scores) with
// the same scaling but no currency prefix.
func Count(v *float64) string {
	if v == nil {
		return NA
	}
	return scale(*v, "")
}

// Ratio renders a plain two-decimal number, never scaled.
func Ratio(v *float64) string {
	if v == nil {
		return NA
	}
	return fmt.Sprintf("%.2f", *v)
}

func scale(v float64, prefix string) string {
	switch {
	case v > 1e9:
		return fmt.Sprintf("%s%.2fB", prefix, v/1e9)
	case v > 1e6:
		return fmt.Sprintf("%s%.2fM", prefix, v/1e6)
	case v > 1e3:
		return fmt.Sprintf("%s%.2fK", prefix, v/1e3)
	default:
		return fmt.Sprintf("%s%.2f", prefix, v)
	}
}

// yieldPercent converts the provider's fractional dividend yield to a
// percentage with two decimals. A zero yield is treated as absent, the
// same way the upstream feed reports non-payers.
func yieldPercent(v *float64) string {
	if v == nil || *v == 0 {
		return NA
	}
	return fmt.Sprintf("%.2f", *v*100)
}

func text(s *string) string {
	if s == nil || *s == "" {
		return NA
	}
	return *s
}
