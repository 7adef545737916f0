package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Signal is the TradingView alert payload delivered to the webhook.
//
//	{
//	  "secret":"MYSECRET",
//	  "symbol":"BTCUSDT",
//	  "side":"BUY",          // BUY | SELL | FLAT
//	  "qty": 0.001,
//	  "type": "MARKET",      // MARKET | LIMIT
//	  "price": 62000.0       // LIMIT only
//	}
type Signal struct {
	Secret string          `json:"secret"`
	Symbol string          `json:"symbol"`
	Side   string          `json:"side"`
	Qty    decimal.Decimal `json:"qty"`
	Type   string          `json:"type"`
	Price  decimal.Decimal `json:"price"`
}

// Validate checks the signal's shape. The secret is checked separately by the
// ingress layer; validation never touches the exchange.
func (s *Signal) Validate() error {
	if strings.TrimSpace(s.Symbol) == "" {
		return &ValidationError{Field: "symbol", Err: ErrMissingField}
	}

	switch strings.ToUpper(s.Side) {
	case SideBuy, SideSell:
	case SideFlat:
		// FLAT closes positions; qty/type are ignored.
		return nil
	default:
		return &ValidationError{Field: "side", Err: ErrUnsupportedSide}
	}

	if s.Qty.LessThanOrEqual(decimal.Zero) {
		return &ValidationError{Field: "qty", Err: ErrNonPositiveQty}
	}

	switch strings.ToUpper(s.Type) {
	case OrderTypeMarket:
	case OrderTypeLimit:
		if s.Price.LessThanOrEqual(decimal.Zero) {
			return &ValidationError{Field: "price", Err: ErrMissingPrice}
		}
	default:
		return &ValidationError{Field: "type", Err: ErrUnsupportedType}
	}

	return nil
}

// Order builds the exchange-bound order for a BUY/SELL signal.
// symbol must already be in exchange form (see NormalizeSymbol).
func (s *Signal) Order(symbol, clientOrderID string) Order {
	o := Order{
		ClientOrderID: clientOrderID,
		Symbol:        symbol,
		Side:          strings.ToUpper(s.Side),
		Type:          strings.ToUpper(s.Type),
		Qty:           s.Qty,
	}
	if o.Type == OrderTypeLimit {
		o.Price = s.Price
	}
	return o
}
