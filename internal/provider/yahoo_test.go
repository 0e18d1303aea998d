package provider

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/stockrit/stockrit/internal/model"
)

const chartPayload = `{
	"chart": {
		"result": [{
			"timestamp": [1700000000, 1700086400, 1700172800],
			"indicators": {
				"quote": [{
					"open":   [10,   null, 12],
					"high":   [11,   null, 13],
					"low":    [9,    null, 11],
					"close":  [10.5, null, 12.5],
					"volume": [1000, null, 2000]
				}]
			}
		}],
		"error": null
	}
}`

const summaryPayload = `{
	"quoteSummary": {
		"result": [{
			"price": {
				"shortName": "Apple Inc.",
				"marketCap": {"raw": 2500000000000, "fmt": "2.5T"},
				"regularMarketChange": {"raw": 1.5},
				"regularMarketChangePercent": {"raw": 0.0123}
			},
			"summaryDetail": {
				"previousClose": {"raw": 148.75},
				"volume": {"raw": 58432100},
				"trailingPE": {"raw": 28.923},
				"dividendYield": {"raw": 0.0055}
			},
			"defaultKeyStatistics": {
				"pegRatio": {"raw": 2.1}
			},
			"financialData": {
				"currentPrice": {"raw": 150.25},
				"recommendationKey": "buy"
			},
			"assetProfile": {
				"sector": "Technology",
				"industry": "Consumer Electronics"
			},
			"esgScores": {
				"totalEsg": {"raw": 16.24}
			}
		}],
		"error": null
	}
}`

// fakeUpstream serves canned chart and quoteSummary payloads and
// records the last chart query string.
func fakeUpstream(t *testing.T, chartBody, summaryBody string) (*Yahoo, *string) {
	t.Helper()
	var lastQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/v8/finance/chart/"):
			lastQuery = r.URL.RawQuery
			fmt.Fprint(w, chartBody)
		case strings.HasPrefix(r.URL.Path, "/v10/finance/quoteSummary/"):
			fmt.Fprint(w, summaryBody)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return NewYahoo(srv.URL, 5*time.Second, zap.NewNop()), &lastQuery
}

func TestHistory_ParsesBarsAndSkipsNulls(t *testing.T) {
	y, lastQuery := fakeUpstream(t, chartPayload, "{}")

	series, err := y.History(context.Background(), "AAPL", "6mo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *lastQuery != "interval=1d&range=6mo" {
		t.Errorf("query: got %q, want %q", *lastQuery, "interval=1d&range=6mo")
	}
	if len(series) != 2 {
		t.Fatalf("bars: got %d, want 2 (null bar dropped)", len(series))
	}

	first := series[0]
	if !first.Time.Equal(time.Unix(1700000000, 0)) {
		t.Errorf("time: got %v", first.Time)
	}
	if first.Open != 10 || first.High != 11 || first.Low != 9 || first.Close != 10.5 {
		t.Errorf("ohlc: got %+v", first)
	}
	if first.Volume != 1000 {
		t.Errorf("volume: got %d, want 1000", first.Volume)
	}
	if series[1].Close != 12.5 {
		t.Errorf("second close: got %v, want 12.5", series[1].Close)
	}
}

func TestHistory_UpstreamStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusInternalServerError)
	}))
	defer srv.Close()
	y := NewYahoo(srv.URL, 5*time.Second, zap.NewNop())

	_, err := y.History(context.Background(), "AAPL", "1y")
	if !errors.Is(err, model.ErrDataUnavailable) {
		t.Fatalf("want ErrDataUnavailable, got %v", err)
	}
}

func TestHistory_APIError(t *testing.T) {
	body := `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`
	y, _ := fakeUpstream(t, body, "{}")

	_, err := y.History(context.Background(), "NOSUCH", "1y")
	if !errors.Is(err, model.ErrDataUnavailable) {
		t.Fatalf("want ErrDataUnavailable, got %v", err)
	}
}

func TestHistory_EmptyResult(t *testing.T) {
	y, _ := fakeUpstream(t, `{"chart":{"result":[],"error":null}}`, "{}")

	_, err := y.History(context.Background(), "AAPL", "1y")
	if !errors.Is(err, model.ErrDataUnavailable) {
		t.Fatalf("want ErrDataUnavailable, got %v", err)
	}
}

func TestHistory_AllBarsNull(t *testing.T) {
	body := `{
		"chart": {
			"result": [{
				"timestamp": [1700000000],
				"indicators": {"quote": [{
					"open": [null], "high": [null], "low": [null],
					"close": [null], "volume": [null]
				}]}
			}],
			"error": null
		}
	}`
	y, _ := fakeUpstream(t, body, "{}")

	_, err := y.History(context.Background(), "AAPL", "1y")
	if !errors.Is(err, model.ErrDataUnavailable) {
		t.Fatalf("want ErrDataUnavailable, got %v", err)
	}
}

func TestFundamentals_MapsFields(t *testing.T) {
	y, _ := fakeUpstream(t, "{}", summaryPayload)

	f, err := y.Fundamentals(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.Name == nil || *f.Name != "Apple Inc." {
		t.Errorf("name: got %v", f.Name)
	}
	if f.Sector == nil || *f.Sector != "Technology" {
		t.Errorf("sector: got %v", f.Sector)
	}
	if f.MarketCap == nil || *f.MarketCap != 2.5e12 {
		t.Errorf("market cap: got %v", f.MarketCap)
	}
	if f.CurrentPrice == nil || *f.CurrentPrice != 150.25 {
		t.Errorf("current price: got %v", f.CurrentPrice)
	}
	if f.Change == nil || *f.Change != 1.5 {
		t.Errorf("change: got %v", f.Change)
	}
	// The API reports the change as a fraction; the model carries
	// percent units.
	if f.ChangePercent == nil || math.Abs(*f.ChangePercent-1.23) > 1e-9 {
		t.Errorf("change percent: got %v, want 1.23", f.ChangePercent)
	}
	// Dividend yield stays fractional; formatting scales it later.
	if f.DividendYield == nil || *f.DividendYield != 0.0055 {
		t.Errorf("dividend yield: got %v, want 0.0055", f.DividendYield)
	}
	if f.PEGRatio == nil || *f.PEGRatio != 2.1 {
		t.Errorf("peg ratio: got %v", f.PEGRatio)
	}
	if f.Recommendation == nil || *f.Recommendation != "buy" {
		t.Errorf("recommendation: got %v", f.Recommendation)
	}
	if f.ESGScore == nil || *f.ESGScore != 16.24 {
		t.Errorf("esg score: got %v", f.ESGScore)
	}
	if f.ForwardPE != nil {
		t.Errorf("forward pe should be absent, got %v", *f.ForwardPE)
	}
}

func TestFundamentals_UnknownSymbol(t *testing.T) {
	body := `{"quoteSummary":{"result":null,"error":{"code":"Not Found","description":"Quote not found for ticker symbol: NOSUCH"}}}`
	y, _ := fakeUpstream(t, "{}", body)

	_, err := y.Fundamentals(context.Background(), "NOSUCH")
	if !errors.Is(err, model.ErrDataUnavailable) {
		t.Fatalf("want ErrDataUnavailable, got %v", err)
	}
}

func TestFundamentals_SparseModules(t *testing.T) {
	body := `{"quoteSummary":{"result":[{"price":{"shortName":"Bare Co."}}],"error":null}}`
	y, _ := fakeUpstream(t, "{}", body)

	f, err := y.Fundamentals(context.Background(), "BARE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Name == nil || *f.Name != "Bare Co." {
		t.Errorf("name: got %v", f.Name)
	}
	if f.MarketCap != nil || f.TrailingPE != nil || f.DividendYield != nil {
		t.Errorf("absent modules should leave fields nil: %+v", f)
	}
}
