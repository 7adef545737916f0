package bitget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bitget_relay/internal/domain"
	"bitget_relay/internal/infra"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the Bitget production REST host.
const DefaultBaseURL = "https://api.bitget.com"

// Client is the Bitget mix v1 REST API client (boundary layer).
// It performs exactly one HTTP attempt per call; TradingView's webhook
// redelivery is the only retry layer.
type Client struct {
	baseURL     string
	marginCoin  string
	productType string
	httpClient  *http.Client
	signer      *Signer
	logger      *slog.Logger
}

// NewClient creates a new Bitget API client from the relay configuration.
func NewClient(cfg *infra.Config) *Client {
	b := cfg.API.Bitget

	baseURL := b.RestURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := time.Duration(b.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	marginCoin := b.MarginCoin
	if marginCoin == "" {
		marginCoin = "USDT"
	}

	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		marginCoin:  marginCoin,
		productType: b.ProductType,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		signer: NewSigner(b.AccessKey, b.SecretKey, b.Passphrase),
		logger: slog.Default().With("module", "bitget_client"),
	}
}

// PlaceOrder sends an order to the exchange and returns its acknowledgment.
func (c *Client) PlaceOrder(ctx context.Context, order domain.Order) (*domain.OrderAck, error) {
	clientOID := order.ClientOrderID
	if clientOID == "" {
		clientOID = NewClientOrderID()
	}

	reqBody := placeOrderRequest{
		Symbol:           order.Symbol,
		MarginCoin:       c.marginCoin,
		Size:             order.Qty.String(),
		Side:             strings.ToLower(order.Side),
		OrderType:        strings.ToLower(order.Type),
		ReduceOnly:       order.ReduceOnly,
		TimeInForceValue: "normal",
		ClientOrderID:    clientOID,
	}
	if order.Type == domain.OrderTypeLimit {
		reqBody.Price = order.Price.String()
	}

	data, err := c.doRequest(ctx, http.MethodPost, placeOrderPath, nil, reqBody)
	if err != nil {
		return nil, err
	}

	var ack orderAckData
	if err := json.Unmarshal(data, &ack); err != nil {
		return nil, &domain.UpstreamError{Op: "POST " + placeOrderPath, Err: fmt.Errorf("decoding ack: %w", err)}
	}
	if ack.ClientOrderID == "" {
		ack.ClientOrderID = clientOID
	}

	c.logger.Info("Order placed",
		slog.String("oid", ack.ClientOrderID),
		slog.String("symbol", order.Symbol),
		slog.String("side", order.Side),
		slog.String("size", order.Qty.String()),
	)

	return &domain.OrderAck{OrderID: ack.OrderID, ClientOrderID: ack.ClientOrderID}, nil
}

// CloseAllPositions flattens the symbol: it reads the current hedge sizes and
// places a reduce-only market order against each non-zero side.
func (c *Client) CloseAllPositions(ctx context.Context, symbol string) ([]domain.OrderAck, error) {
	long, short, err := c.hedgeSizes(ctx, symbol)
	if err != nil {
		return nil, err
	}

	var acks []domain.OrderAck
	flatten := func(side string, size decimal.Decimal) error {
		ack, err := c.PlaceOrder(ctx, domain.Order{
			Symbol:     symbol,
			Side:       side,
			Type:       domain.OrderTypeMarket,
			Qty:        size,
			ReduceOnly: true,
		})
		if err != nil {
			return err
		}
		acks = append(acks, *ack)
		return nil
	}

	if long.IsPositive() {
		if err := flatten(domain.SideSell, long); err != nil {
			return acks, err
		}
	}
	if short.IsPositive() {
		if err := flatten(domain.SideBuy, short); err != nil {
			return acks, err
		}
	}

	c.logger.Info("Positions flattened",
		slog.String("symbol", symbol),
		slog.Int("orders", len(acks)),
	)
	return acks, nil
}

// hedgeSizes reads long/short totals from singlePosition. One-way accounts
// still report both sides; absent sides count as zero.
func (c *Client) hedgeSizes(ctx context.Context, symbol string) (long, short decimal.Decimal, err error) {
	query := url.Values{}
	query.Set("symbol", symbol)
	query.Set("marginCoin", c.marginCoin)

	data, err := c.doRequest(ctx, http.MethodGet, singlePositionPath, query, nil)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	var pos singlePositionData
	if err := json.Unmarshal(data, &pos); err != nil {
		return decimal.Zero, decimal.Zero, &domain.UpstreamError{
			Op:  "GET " + singlePositionPath,
			Err: fmt.Errorf("decoding position: %w", err),
		}
	}

	parse := func(side *positionSide) decimal.Decimal {
		if side == nil || side.Total == "" {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(side.Total)
		if err != nil {
			return decimal.Zero
		}
		return d
	}
	return parse(pos.Long), parse(pos.Short), nil
}

// Positions returns the raw singlePosition payload for the symbol.
func (c *Client) Positions(ctx context.Context, symbol string) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("symbol", symbol)
	query.Set("marginCoin", c.marginCoin)
	return c.doRequest(ctx, http.MethodGet, singlePositionPath, query, nil)
}

// OpenOrders returns the raw list of working orders for the symbol.
func (c *Client) OpenOrders(ctx context.Context, symbol string) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("symbol", symbol)
	return c.doRequest(ctx, http.MethodGet, currentOrdersPath, query, nil)
}

// OrderHistory returns the raw order history page for the symbol.
func (c *Client) OrderHistory(ctx context.Context, symbol string, limit int) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("symbol", symbol)
	query.Set("pageSize", strconv.Itoa(limit))
	return c.doRequest(ctx, http.MethodGet, orderHistoryPath, query, nil)
}

// Fills returns the raw fill page for the symbol.
func (c *Client) Fills(ctx context.Context, symbol string, limit int) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("symbol", symbol)
	query.Set("pageSize", strconv.Itoa(limit))
	return c.doRequest(ctx, http.MethodGet, fillsPath, query, nil)
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// doRequest signs and performs one request and unwraps the Bitget envelope.
// Any failure comes back as a *domain.UpstreamError.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (json.RawMessage, error) {
	op := method + " " + path

	var bodyReader io.Reader
	var bodyStr string
	if body != nil {
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			return nil, &domain.UpstreamError{Op: op, Err: err}
		}
		bodyReader = bytes.NewReader(jsonBytes)
		bodyStr = string(jsonBytes)
	}

	// url.Values.Encode sorts keys, which Bitget requires for the signature.
	queryStr := query.Encode()
	reqURL := c.baseURL + path
	if queryStr != "" {
		reqURL += "?" + queryStr
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		return nil, &domain.UpstreamError{Op: op, Err: err}
	}

	for k, v := range c.signer.GenerateHeaders(method, path, queryStr, bodyStr) {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.UpstreamError{Op: op, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &domain.UpstreamError{
			Op:     op,
			Status: resp.StatusCode,
			Msg:    strings.TrimSpace(string(respBody)),
		}
	}

	var envelope apiResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, &domain.UpstreamError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decoding response: %w", err)}
	}

	if envelope.Code != successCode && envelope.Code != "0" {
		return nil, &domain.UpstreamError{
			Op:     op,
			Code:   envelope.Code,
			Msg:    envelope.Msg,
			Status: resp.StatusCode,
		}
	}

	return envelope.Data, nil
}

// NewClientOrderID generates a traceable client order id for outbound orders.
func NewClientOrderID() string {
	return "tv-" + uuid.NewString()
}
