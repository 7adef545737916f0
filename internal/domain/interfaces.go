package domain

import (
	"context"
	"encoding/json"
)

// Execution abstracts the order venue. It hides the difference between the
// live exchange and the paper (dry-run) venue.
type Execution interface {
	// PlaceOrder submits an order and returns the venue's acknowledgment.
	PlaceOrder(ctx context.Context, order Order) (*OrderAck, error)

	// CloseAllPositions flattens every open position on the symbol with
	// reduce-only market orders, one per non-zero side.
	CloseAllPositions(ctx context.Context, symbol string) ([]OrderAck, error)

	// Close releases resources held by the venue.
	Close() error
}

// AccountReader exposes the venue's read side for the query endpoints.
// Payloads are passed through opaque; the relay does not reshape them.
type AccountReader interface {
	Positions(ctx context.Context, symbol string) (json.RawMessage, error)
	OpenOrders(ctx context.Context, symbol string) (json.RawMessage, error)
	OrderHistory(ctx context.Context, symbol string, limit int) (json.RawMessage, error)
	Fills(ctx context.Context, symbol string, limit int) (json.RawMessage, error)
}
