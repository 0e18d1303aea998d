package model

import (
	"time"
)

// PricePoint is one daily OHLCV bar.
type PricePoint struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries is a price history in strictly increasing time order.
type PriceSeries []PricePoint

// Quote is one row of the popular stocks board, display-formatted.
type Quote struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Price         string `json:"price"`
	Change        string `json:"change"`
	ChangePercent string `json:"change_percent"`
	MarketCap     string `json:"market_cap"`
	PERatio       string `json:"pe_ratio"`
}
