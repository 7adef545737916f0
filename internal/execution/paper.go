package execution

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"bitget_relay/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fill is a simulated execution record.
type Fill struct {
	OrderID       string          `json:"orderId"`
	ClientOrderID string          `json:"clientOid"`
	Symbol        string          `json:"symbol"`
	Side          string          `json:"side"`
	Type          string          `json:"type"`
	Qty           decimal.Decimal `json:"qty"`
	Price         decimal.Decimal `json:"price"`
	ReduceOnly    bool            `json:"reduceOnly"`
	FilledAt      time.Time       `json:"filledAt"`
}

// PaperExecution simulates the order venue in memory. Every order fills
// immediately; no balance or margin checks are performed. It exists so the
// relay can run end-to-end without exchange credentials.
type PaperExecution struct {
	mu    sync.Mutex
	fills []Fill
	// net position per symbol, signed: BUY adds, SELL subtracts
	positions map[string]decimal.Decimal
}

// NewPaperExecution creates an empty paper venue.
func NewPaperExecution() *PaperExecution {
	return &PaperExecution{
		positions: make(map[string]decimal.Decimal),
	}
}

// PlaceOrder records the order as an immediate fill.
func (p *PaperExecution) PlaceOrder(_ context.Context, order domain.Order) (*domain.OrderAck, error) {
	clientOID := order.ClientOrderID
	if clientOID == "" {
		clientOID = "paper-" + uuid.NewString()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fill := Fill{
		OrderID:       uuid.NewString(),
		ClientOrderID: clientOID,
		Symbol:        order.Symbol,
		Side:          order.Side,
		Type:          order.Type,
		Qty:           order.Qty,
		Price:         order.Price,
		ReduceOnly:    order.ReduceOnly,
		FilledAt:      time.Now(),
	}
	p.fills = append(p.fills, fill)

	delta := order.Qty
	if order.Side == domain.SideSell {
		delta = delta.Neg()
	}
	p.positions[order.Symbol] = p.positions[order.Symbol].Add(delta)

	return &domain.OrderAck{OrderID: fill.OrderID, ClientOrderID: clientOID}, nil
}

// CloseAllPositions flattens the simulated net position with one
// reduce-only market order, mirroring the live venue's behavior.
func (p *PaperExecution) CloseAllPositions(ctx context.Context, symbol string) ([]domain.OrderAck, error) {
	p.mu.Lock()
	net := p.positions[symbol]
	p.mu.Unlock()

	if net.IsZero() {
		return nil, nil
	}

	side := domain.SideSell
	if net.IsNegative() {
		side = domain.SideBuy
	}

	ack, err := p.PlaceOrder(ctx, domain.Order{
		Symbol:     symbol,
		Side:       side,
		Type:       domain.OrderTypeMarket,
		Qty:        net.Abs(),
		ReduceOnly: true,
	})
	if err != nil {
		return nil, err
	}
	return []domain.OrderAck{*ack}, nil
}

// Close implements domain.Execution; nothing to release.
func (p *PaperExecution) Close() error {
	return nil
}

// GetFills returns a copy of the recorded fills.
func (p *PaperExecution) GetFills() []Fill {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Fill, len(p.fills))
	copy(out, p.fills)
	return out
}

// Position returns the current simulated net position for a symbol.
func (p *PaperExecution) Position(symbol string) decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positions[symbol]
}

// ---- AccountReader: read endpoints keep working in paper mode ----

// Positions reports the simulated net position for the symbol.
func (p *PaperExecution) Positions(_ context.Context, symbol string) (json.RawMessage, error) {
	return json.Marshal(map[string]string{
		"symbol": symbol,
		"net":    p.Position(symbol).String(),
	})
}

// OpenOrders is always empty; paper orders fill immediately.
func (p *PaperExecution) OpenOrders(_ context.Context, _ string) (json.RawMessage, error) {
	return json.RawMessage("[]"), nil
}

// OrderHistory returns the recorded fills for the symbol, newest last.
func (p *PaperExecution) OrderHistory(ctx context.Context, symbol string, limit int) (json.RawMessage, error) {
	return p.Fills(ctx, symbol, limit)
}

// Fills returns up to limit recorded fills for the symbol.
func (p *PaperExecution) Fills(_ context.Context, symbol string, limit int) (json.RawMessage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	matched := make([]Fill, 0, len(p.fills))
	for _, f := range p.fills {
		if f.Symbol == symbol {
			matched = append(matched, f)
		}
	}
	if limit > 0 && len(matched) > limit {
		matched = matched[len(matched)-limit:]
	}
	return json.Marshal(matched)
}
