// Package indicator derives technical indicator columns from daily price
// series. Every function is pure: inputs are never modified and outputs
// have the same length as the input, with math.NaN marking positions
// where a window has not filled. Compute converts the NaN padding to nil
// pointers at the API boundary.
package indicator

import (
	"math"

	"github.com/stockrit/stockrit/internal/model"
)

// Window sizes and EMA spans for the dashboard's fixed indicator set.
const (
	ShortWindow   = 20
	MidWindow     = 50
	LongWindow    = 200
	RSIPeriod     = 14
	FastSpan      = 12
	SlowSpan      = 26
	SignalSpan    = 9
	VolumeSpan    = 20
	BandWidth     = 2.0
	BollingerSpan = 20
)

// RollingMean returns the arithmetic mean over a trailing window. The
// first window-1 positions are NaN.
func RollingMean(values []float64, window int) []float64 {
	out := nanSlice(len(values))
	if window <= 0 || len(values) < window {
		return out
	}
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// RollingStd returns the population standard deviation (divide by n, not
// n-1) over a trailing window. The first window-1 positions are NaN.
func RollingStd(values []float64, window int) []float64 {
	out := nanSlice(len(values))
	if window <= 0 || len(values) < window {
		return out
	}
	mean := RollingMean(values, window)
	for i := window - 1; i < len(values); i++ {
		sumSq := 0.0
		for j := i - window + 1; j <= i; j++ {
			d := values[j] - mean[i]
			sumSq += d * d
		}
		out[i] = math.Sqrt(sumSq / float64(window))
	}
	return out
}

// EMA returns the exponential moving average with smoothing factor
// 2/(span+1), seeded at the first value. Every position is defined, so
// the span controls weighting only, not a warm-up length.
func EMA(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1.0)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RSI returns the 14-period style relative strength index. The averages
// are plain rolling means of gains and losses, not Wilder's recursive
// smoothing. The first session has no prior close and contributes zero
// gain and zero loss, so the index is first defined at position period-1.
// A window of pure gains reads 100; a completely flat window has no
// signal and stays NaN.
func RSI(closes []float64, period int) []float64 {
	out := nanSlice(len(closes))
	if period <= 0 || len(closes) < period {
		return out
	}
	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gains[i] = d
		} else {
			losses[i] = -d
		}
	}
	avgGain := RollingMean(gains, period)
	avgLoss := RollingMean(losses, period)
	for i := period - 1; i < len(closes); i++ {
		switch {
		case avgLoss[i] > 0:
			rs := avgGain[i] / avgLoss[i]
			out[i] = 100 - 100/(1+rs)
		case avgGain[i] > 0:
			out[i] = 100
		}
	}
	return out
}

// MACD returns the convergence-divergence line (12-EMA minus 26-EMA),
// its 9-EMA signal line, and the histogram. The histogram is exactly
// line minus signal at every position; chart bars key off its sign, so
// the subtraction order must not change.
func MACD(closes []float64) (line, signal, histogram []float64) {
	fast := EMA(closes, FastSpan)
	slow := EMA(closes, SlowSpan)
	line = make([]float64, len(closes))
	for i := range line {
		line[i] = fast[i] - slow[i]
	}
	signal = EMA(line, SignalSpan)
	histogram = make([]float64, len(closes))
	for i := range histogram {
		histogram[i] = line[i] - signal[i]
	}
	return line, signal, histogram
}

// Bands returns the Bollinger envelope: rolling mean ± width standard
// deviations over the same window.
func Bands(closes []float64, window int, width float64) (upper, lower []float64) {
	mean := RollingMean(closes, window)
	std := RollingStd(closes, window)
	upper = make([]float64, len(closes))
	lower = make([]float64, len(closes))
	for i := range closes {
		upper[i] = mean[i] + width*std[i]
		lower[i] = mean[i] - width*std[i]
	}
	return upper, lower
}

// Compute derives the full indicator set for a series. The result has
// one row per input bar; an empty or nil series yields nil, which
// callers must check before charting.
func Compute(series model.PriceSeries) []model.IndicatorRow {
	if len(series) == 0 {
		return nil
	}

	closes := make([]float64, len(series))
	volumes := make([]float64, len(series))
	for i, p := range series {
		closes[i] = p.Close
		volumes[i] = float64(p.Volume)
	}

	ma20 := RollingMean(closes, ShortWindow)
	ma50 := RollingMean(closes, MidWindow)
	ma200 := RollingMean(closes, LongWindow)
	upper, lower := Bands(closes, BollingerSpan, BandWidth)
	rsi := RSI(closes, RSIPeriod)
	line, signal, histogram := MACD(closes)
	volumeEMA := EMA(volumes, VolumeSpan)

	rows := make([]model.IndicatorRow, len(series))
	for i := range series {
		rows[i] = model.IndicatorRow{
			PricePoint:    series[i],
			MA20:          defined(ma20[i]),
			MA50:          defined(ma50[i]),
			MA200:         defined(ma200[i]),
			UpperBand:     defined(upper[i]),
			LowerBand:     defined(lower[i]),
			RSI:           defined(rsi[i]),
			MACD:          defined(line[i]),
			SignalLine:    defined(signal[i]),
			MACDHistogram: defined(histogram[i]),
			VolumeEMA:     defined(volumeEMA[i]),
		}
	}
	return rows
}

// defined converts a computed value to its row form, mapping NaN to nil.
func defined(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
