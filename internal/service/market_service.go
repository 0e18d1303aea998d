// internal/service/market_service.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/stockrit/stockrit/internal/config"
	"github.com/stockrit/stockrit/internal/indicator"
	"github.com/stockrit/stockrit/internal/metrics"
	"github.com/stockrit/stockrit/internal/model"
	"github.com/stockrit/stockrit/internal/provider"
	"github.com/stockrit/stockrit/internal/summary"
)

// validPeriods are the chart ranges the dashboard offers.
var validPeriods = map[string]struct{}{
	"1mo": {},
	"3mo": {},
	"6mo": {},
	"1y":  {},
	"2y":  {},
	"5y":  {},
}

// MarketService serves analysis, summaries and the quote board.
type MarketService struct {
	provider provider.Provider
	metrics  *metrics.Metrics
	cfg      *config.Config
	logger   *zap.Logger
}

// NewMarketService creates a new market service.
func NewMarketService(p provider.Provider, m *metrics.Metrics, cfg *config.Config, logger *zap.Logger) *MarketService {
	return &MarketService{
		provider: p,
		metrics:  m,
		cfg:      cfg,
		logger:   logger,
	}
}

// history and fundamentals wrap the provider calls with instrumentation.
func (s *MarketService) history(ctx context.Context, symbol, period string) (model.PriceSeries, error) {
	start := time.Now()
	series, err := s.provider.History(ctx, symbol, period)
	s.metrics.ObserveProvider("chart", err, time.Since(start))
	return series, err
}

func (s *MarketService) fundamentals(ctx context.Context, symbol string) (*model.Fundamentals, error) {
	start := time.Now()
	f, err := s.provider.Fundamentals(ctx, symbol)
	s.metrics.ObserveProvider("summary", err, time.Since(start))
	return f, err
}

// Analyze fetches price history and derives the indicator table plus
// the latest signal badges. An empty period selects the default.
func (s *MarketService) Analyze(ctx context.Context, symbol, period string) (*model.Analysis, error) {
	symbol = model.NormalizeSymbol(symbol)
	if period == "" {
		period = s.cfg.Market.DefaultPeriod
	}
	if _, ok := validPeriods[period]; !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidPeriod, period)
	}

	series, err := s.history(ctx, symbol, period)
	if err != nil {
		return nil, err
	}

	bars := indicator.Compute(series)
	return &model.Analysis{
		Symbol:  symbol,
		Period:  period,
		Bars:    bars,
		Signals: summary.Latest(bars),
	}, nil
}

// Summary fetches fundamentals and renders the display record.
func (s *MarketService) Summary(ctx context.Context, symbol string) (*model.Summary, error) {
	symbol = model.NormalizeSymbol(symbol)

	f, err := s.fundamentals(ctx, symbol)
	if err != nil {
		return nil, err
	}

	rec := summary.Build(f)
	return &rec, nil
}

// Popular builds the quote board for the configured symbols. Each
// symbol is fetched concurrently; ones the provider cannot serve are
// skipped and the board keeps its configured order.
func (s *MarketService) Popular(ctx context.Context) ([]model.Quote, error) {
	symbols := s.cfg.Market.PopularSymbols
	results := make([]*model.Quote, len(symbols))

	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			f, err := s.fundamentals(ctx, symbol)
			if err != nil {
				s.logger.Warn("skipping popular symbol", zap.String("symbol", symbol), zap.Error(err))
				return
			}
			q := summary.BuildQuote(symbol, f)
			results[i] = &q
		}(i, symbol)
	}
	wg.Wait()

	quotes := make([]model.Quote, 0, len(symbols))
	for _, q := range results {
		if q != nil {
			quotes = append(quotes, *q)
		}
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("%w: no quotes for popular board", model.ErrDataUnavailable)
	}
	return quotes, nil
}
