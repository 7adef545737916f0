package bitget

import "encoding/json"

// Bitget mix v1 endpoints
const (
	placeOrderPath     = "/api/mix/v1/order/placeOrder"
	singlePositionPath = "/api/mix/v1/position/singlePosition"
	currentOrdersPath  = "/api/mix/v1/order/current"
	orderHistoryPath   = "/api/mix/v1/order/history"
	fillsPath          = "/api/mix/v1/order/fills"

	successCode = "00000"
)

// apiResponse is the standard Bitget response envelope.
type apiResponse struct {
	Code string          `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// placeOrderRequest is the mix v1 placeOrder body.
type placeOrderRequest struct {
	Symbol           string `json:"symbol"`
	MarginCoin       string `json:"marginCoin"`
	Size             string `json:"size"`
	Side             string `json:"side"`      // buy, sell
	OrderType        string `json:"orderType"` // market, limit
	Price            string `json:"price,omitempty"`
	ReduceOnly       bool   `json:"reduceOnly"`
	TimeInForceValue string `json:"timeInForceValue"`
	ClientOrderID    string `json:"clientOid"`
}

// orderAckData is the placeOrder response payload.
type orderAckData struct {
	OrderID       string `json:"orderId"`
	ClientOrderID string `json:"clientOid"`
}

// positionSide is one hedge side of a singlePosition response.
// "total" carries the position size even in one-way mode.
type positionSide struct {
	Total string `json:"total"`
}

// singlePositionData is the singlePosition response payload.
type singlePositionData struct {
	Long  *positionSide `json:"long"`
	Short *positionSide `json:"short"`
}
