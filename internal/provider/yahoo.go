package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/stockrit/stockrit/internal/model"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// summaryModules selects the quoteSummary sections the dashboard reads.
const summaryModules = "price,summaryDetail,defaultKeyStatistics,financialData,assetProfile,esgScores"

// Yahoo implements Provider against the Yahoo Finance public API.
type Yahoo struct {
	client  *resty.Client
	baseURL string
	logger  *zap.Logger
}

// NewYahoo creates a Yahoo Finance provider. An empty baseURL selects
// the public endpoint.
func NewYahoo(baseURL string, timeout time.Duration, logger *zap.Logger) *Yahoo {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", "Mozilla/5.0")

	return &Yahoo{
		client:  client,
		baseURL: baseURL,
		logger:  logger,
	}
}

// chartResponse is the v8 chart API payload. Bar arrays carry nulls for
// non-trading days, so every slot is a pointer.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// num is the v10 API's wrapped numeric: {"raw": 1.23, "fmt": "1.23"}.
type num struct {
	Raw *float64 `json:"raw"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				ShortName                  *string `json:"shortName"`
				MarketCap                  num     `json:"marketCap"`
				RegularMarketChange        num     `json:"regularMarketChange"`
				RegularMarketChangePercent num     `json:"regularMarketChangePercent"`
			} `json:"price"`
			SummaryDetail struct {
				Open             num `json:"open"`
				DayHigh          num `json:"dayHigh"`
				DayLow           num `json:"dayLow"`
				PreviousClose    num `json:"previousClose"`
				Volume           num `json:"volume"`
				AverageVolume    num `json:"averageVolume"`
				FiftyTwoWeekHigh num `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow  num `json:"fiftyTwoWeekLow"`
				TrailingPE       num `json:"trailingPE"`
				ForwardPE        num `json:"forwardPE"`
				Beta             num `json:"beta"`
				DividendRate     num `json:"dividendRate"`
				DividendYield    num `json:"dividendYield"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics struct {
				PegRatio            num `json:"pegRatio"`
				PriceToBook         num `json:"priceToBook"`
				EnterpriseValue     num `json:"enterpriseValue"`
				EnterpriseToRevenue num `json:"enterpriseToRevenue"`
				EnterpriseToEbitda  num `json:"enterpriseToEbitda"`
			} `json:"defaultKeyStatistics"`
			FinancialData struct {
				CurrentPrice      num     `json:"currentPrice"`
				TargetMeanPrice   num     `json:"targetMeanPrice"`
				RecommendationKey *string `json:"recommendationKey"`
			} `json:"financialData"`
			AssetProfile struct {
				Sector   *string `json:"sector"`
				Industry *string `json:"industry"`
			} `json:"assetProfile"`
			ESGScores struct {
				TotalESG num `json:"totalEsg"`
			} `json:"esgScores"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// History fetches daily bars for the given period. The period value is
// passed through as the chart range, so callers validate it first.
func (y *Yahoo) History(ctx context.Context, symbol, period string) (model.PriceSeries, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		y.baseURL, url.PathEscape(symbol), url.QueryEscape(period))

	resp, err := y.client.R().SetContext(ctx).Get(u)
	if err != nil {
		return nil, fmt.Errorf("%w: chart request for %s: %v", model.ErrDataUnavailable, symbol, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: chart for %s: status %d", model.ErrDataUnavailable, symbol, resp.StatusCode())
	}

	var chart chartResponse
	if err := json.Unmarshal(resp.Body(), &chart); err != nil {
		return nil, fmt.Errorf("%w: chart decode for %s: %v", model.ErrDataUnavailable, symbol, err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("%w: chart for %s: %s", model.ErrDataUnavailable, symbol, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: chart for %s: empty result", model.ErrDataUnavailable, symbol)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	series := make(model.PriceSeries, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o := at(quote.Open, i)
		h := at(quote.High, i)
		l := at(quote.Low, i)
		c := at(quote.Close, i)
		if o == nil || h == nil || l == nil || c == nil {
			continue // null bar (holiday, halted session)
		}
		var volume int64
		if v := at(quote.Volume, i); v != nil {
			volume = int64(*v)
		}
		series = append(series, model.PricePoint{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   *o,
			High:   *h,
			Low:    *l,
			Close:  *c,
			Volume: volume,
		})
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: chart for %s: no usable bars", model.ErrDataUnavailable, symbol)
	}

	y.logger.Debug("fetched price history",
		zap.String("symbol", symbol),
		zap.String("period", period),
		zap.Int("bars", len(series)))
	return series, nil
}

// Fundamentals fetches the company profile, valuation and trading
// statistics for one symbol.
func (y *Yahoo) Fundamentals(ctx context.Context, symbol string) (*model.Fundamentals, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		y.baseURL, url.PathEscape(symbol), summaryModules)

	resp, err := y.client.R().SetContext(ctx).Get(u)
	if err != nil {
		return nil, fmt.Errorf("%w: summary request for %s: %v", model.ErrDataUnavailable, symbol, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%w: summary for %s: status %d", model.ErrDataUnavailable, symbol, resp.StatusCode())
	}

	var qs quoteSummaryResponse
	if err := json.Unmarshal(resp.Body(), &qs); err != nil {
		return nil, fmt.Errorf("%w: summary decode for %s: %v", model.ErrDataUnavailable, symbol, err)
	}
	if qs.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("%w: summary for %s: %s", model.ErrDataUnavailable, symbol, qs.QuoteSummary.Error.Description)
	}
	if len(qs.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("%w: summary for %s: empty result", model.ErrDataUnavailable, symbol)
	}

	r := qs.QuoteSummary.Result[0]
	f := &model.Fundamentals{
		Name:                r.Price.ShortName,
		Sector:              r.AssetProfile.Sector,
		Industry:            r.AssetProfile.Industry,
		MarketCap:           r.Price.MarketCap.Raw,
		CurrentPrice:        r.FinancialData.CurrentPrice.Raw,
		Open:                r.SummaryDetail.Open.Raw,
		DayHigh:             r.SummaryDetail.DayHigh.Raw,
		DayLow:              r.SummaryDetail.DayLow.Raw,
		PreviousClose:       r.SummaryDetail.PreviousClose.Raw,
		Volume:              r.SummaryDetail.Volume.Raw,
		AverageVolume:       r.SummaryDetail.AverageVolume.Raw,
		FiftyTwoWeekHigh:    r.SummaryDetail.FiftyTwoWeekHigh.Raw,
		FiftyTwoWeekLow:     r.SummaryDetail.FiftyTwoWeekLow.Raw,
		TrailingPE:          r.SummaryDetail.TrailingPE.Raw,
		ForwardPE:           r.SummaryDetail.ForwardPE.Raw,
		PEGRatio:            r.DefaultKeyStatistics.PegRatio.Raw,
		PriceToBook:         r.DefaultKeyStatistics.PriceToBook.Raw,
		EnterpriseValue:     r.DefaultKeyStatistics.EnterpriseValue.Raw,
		EnterpriseToRevenue: r.DefaultKeyStatistics.EnterpriseToRevenue.Raw,
		EnterpriseToEBITDA:  r.DefaultKeyStatistics.EnterpriseToEbitda.Raw,
		Beta:                r.SummaryDetail.Beta.Raw,
		DividendRate:        r.SummaryDetail.DividendRate.Raw,
		DividendYield:       r.SummaryDetail.DividendYield.Raw,
		TargetMeanPrice:     r.FinancialData.TargetMeanPrice.Raw,
		Change:              r.Price.RegularMarketChange.Raw,
		ChangePercent:       percentOf(r.Price.RegularMarketChangePercent.Raw),
		Recommendation:      r.FinancialData.RecommendationKey,
		ESGScore:            r.ESGScores.TotalESG.Raw,
	}

	y.logger.Debug("fetched fundamentals", zap.String("symbol", symbol))
	return f, nil
}

// at guards the bar arrays, which can run shorter than the timestamps.
func at(xs []*float64, i int) *float64 {
	if i >= len(xs) {
		return nil
	}
	return xs[i]
}

// percentOf converts the API's fractional change (0.0123) to percent
// units (1.23).
func percentOf(v *float64) *float64 {
	if v == nil {
		return nil
	}
	p := *v * 100
	return &p
}
