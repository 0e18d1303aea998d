// Package provider fetches market data from the upstream quote service.
package provider

import (
	"context"

	"github.com/stockrit/stockrit/internal/model"
)

// Provider supplies price history and company fundamentals. Both calls
// report any upstream failure, unknown symbol included, as an error
// matching model.ErrDataUnavailable.
type Provider interface {
	History(ctx context.Context, symbol, period string) (model.PriceSeries, error)
	Fundamentals(ctx context.Context, symbol string) (*model.Fundamentals, error)
}
