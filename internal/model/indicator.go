package model

// IndicatorRow is a price bar plus the indicator values derived at that
// position. A nil field means the indicator is undefined there: its
// window has not filled yet, or the reading carries no signal.
type IndicatorRow struct {
	PricePoint
	MA20          *float64 `json:"ma20,omitempty"`
	MA50          *float64 `json:"ma50,omitempty"`
	MA200         *float64 `json:"ma200,omitempty"`
	UpperBand     *float64 `json:"upper_band,omitempty"`
	LowerBand     *float64 `json:"lower_band,omitempty"`
	RSI           *float64 `json:"rsi,omitempty"`
	MACD          *float64 `json:"macd,omitempty"`
	SignalLine    *float64 `json:"signal_line,omitempty"`
	MACDHistogram *float64 `json:"macd_histogram,omitempty"`
	VolumeEMA     *float64 `json:"volume_ema,omitempty"`
}

// Signals holds the classification badges for the latest bar of a series.
type Signals struct {
	RSI            string `json:"rsi"`
	MACD           string `json:"macd"`
	BollingerBands string `json:"bollinger_bands"`
	MovingAverages string `json:"moving_averages"`
}

// Analysis is the technical-analysis response for one ticker and period.
type Analysis struct {
	Symbol  string         `json:"symbol"`
	Period  string         `json:"period"`
	Bars    []IndicatorRow `json:"bars"`
	Signals Signals        `json:"signals"`
}
