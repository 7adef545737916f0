package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Order represents a single order bound for the exchange.
// Quantities and prices are decimal to avoid float drift at the boundary.
type Order struct {
	ClientOrderID string
	Symbol        string // exchange form, e.g. "BTCUSDT_UMCBL"
	Side          string // "BUY", "SELL"
	Type          string // "MARKET", "LIMIT"
	Qty           decimal.Decimal
	Price         decimal.Decimal // zero for market orders
	ReduceOnly    bool
}

const (
	SideBuy  = "BUY"
	SideSell = "SELL"
	SideFlat = "FLAT"

	OrderTypeMarket = "MARKET"
	OrderTypeLimit  = "LIMIT"
)

// OrderAck is the exchange's acknowledgment of a placed order.
type OrderAck struct {
	OrderID       string `json:"orderId"`
	ClientOrderID string `json:"clientOid"`
}

// NormalizeSymbol converts a TradingView ticker into the exchange's mix
// contract form. TradingView perpetual tickers carry a ".P" suffix and no
// product code: "btcusdt.p" -> "BTCUSDT_UMCBL".
// Symbols that already carry a product suffix pass through unchanged.
func NormalizeSymbol(symbol, productType string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	s = strings.TrimSuffix(s, ".P")
	if s == "" {
		return s
	}
	if !strings.Contains(s, "_") {
		s += "_" + strings.ToUpper(productType)
	}
	return s
}
