package model

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Stock is a ticker the favorites store has seen. Name is whatever the
// market data provider reported when the stock was first favorited.
type Stock struct {
	ID     int64   `json:"id" db:"id"`
	Symbol string  `json:"symbol" db:"symbol"`
	Name   *string `json:"name,omitempty" db:"name"`
}

// FavoriteCreate is the request body for bookmarking a ticker.
type FavoriteCreate struct {
	Symbol string `json:"symbol" binding:"required,ticker"`
	Name   string `json:"name"`
}

var tickerPattern = regexp.MustCompile(`^[A-Z0-9.^-]{1,10}$`)

// NormalizeSymbol maps user input to the canonical ticker form.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Ticker is the "ticker" binding validation: the field must look like an
// exchange symbol (AAPL, BRK-B, ^GSPC) once normalized.
func Ticker(fl validator.FieldLevel) bool {
	return tickerPattern.MatchString(NormalizeSymbol(fl.Field().String()))
}
