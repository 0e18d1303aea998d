package model

// Fundamentals is the raw per-company record from the market data
// provider. Any field may be absent.
type Fundamentals struct {
	Name                *string  `json:"name,omitempty"`
	Sector              *string  `json:"sector,omitempty"`
	Industry            *string  `json:"industry,omitempty"`
	MarketCap           *float64 `json:"market_cap,omitempty"`
	CurrentPrice        *float64 `json:"current_price,omitempty"`
	Open                *float64 `json:"open,omitempty"`
	DayHigh             *float64 `json:"day_high,omitempty"`
	DayLow              *float64 `json:"day_low,omitempty"`
	PreviousClose       *float64 `json:"previous_close,omitempty"`
	Volume              *float64 `json:"volume,omitempty"`
	AverageVolume       *float64 `json:"average_volume,omitempty"`
	FiftyTwoWeekHigh    *float64 `json:"fifty_two_week_high,omitempty"`
	FiftyTwoWeekLow     *float64 `json:"fifty_two_week_low,omitempty"`
	TrailingPE          *float64 `json:"trailing_pe,omitempty"`
	ForwardPE           *float64 `json:"forward_pe,omitempty"`
	PEGRatio            *float64 `json:"peg_ratio,omitempty"`
	PriceToBook         *float64 `json:"price_to_book,omitempty"`
	EnterpriseValue     *float64 `json:"enterprise_value,omitempty"`
	EnterpriseToRevenue *float64 `json:"enterprise_to_revenue,omitempty"`
	EnterpriseToEBITDA  *float64 `json:"enterprise_to_ebitda,omitempty"`
	Beta                *float64 `json:"beta,omitempty"`
	DividendRate        *float64 `json:"dividend_rate,omitempty"`
	DividendYield       *float64 `json:"dividend_yield,omitempty"`
	TargetMeanPrice     *float64 `json:"target_mean_price,omitempty"`
	Change              *float64 `json:"change,omitempty"`
	ChangePercent       *float64 `json:"change_percent,omitempty"`
	Recommendation      *string  `json:"recommendation,omitempty"`
	ESGScore            *float64 `json:"esg_score,omitempty"`
}

// Summary is the display-ready fundamentals record. Every value is a
// formatted string; absent source fields render as "N/A". The JSON keys
// are the dashboard's column names and must not change.
type Summary struct {
	Name                string `json:"name"`
	Sector              string `json:"sector"`
	Industry            string `json:"industry"`
	MarketCap           string `json:"market_cap"`
	CurrentPrice        string `json:"current_price"`
	Open                string `json:"open"`
	High                string `json:"high"`
	Low                 string `json:"low"`
	PreviousClose       string `json:"previous_close"`
	Volume              string `json:"volume"`
	AvgVolume           string `json:"avg_volume"`
	FiftyTwoWeekHigh    string `json:"52w_high"`
	FiftyTwoWeekLow     string `json:"52w_low"`
	PERatio             string `json:"pe_ratio"`
	ForwardPE           string `json:"forward_pe"`
	PEGRatio            string `json:"peg_ratio"`
	PriceToBook         string `json:"price_to_book"`
	EnterpriseValue     string `json:"enterprise_value"`
	EnterpriseToRevenue string `json:"enterprise_to_revenue"`
	EnterpriseToEBITDA  string `json:"enterprise_to_ebitda"`
	Beta                string `json:"beta"`
	DividendRate        string `json:"dividend_rate"`
	DividendYield       string `json:"dividend_yield"`
	TargetMeanPrice     string `json:"target_mean_price"`
	Recommendation      string `json:"recommendation"`
	ESGScore            string `json:"esg_score"`
}
