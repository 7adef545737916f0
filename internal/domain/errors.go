package domain

import "errors"

var (
	// ErrBadSecret is returned when the webhook secret does not match.
	ErrBadSecret = errors.New("bad secret")

	// ErrMissingField is returned when a required field is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrNonPositiveQty is returned when qty is zero or negative.
	ErrNonPositiveQty = errors.New("qty must be > 0")

	// ErrMissingPrice is returned when a LIMIT order carries no price.
	ErrMissingPrice = errors.New("price is required for LIMIT orders")

	ErrUnsupportedSide = errors.New("side must be BUY, SELL or FLAT")
	ErrUnsupportedType = errors.New("type must be MARKET or LIMIT")
)

// AuthError rejects a webhook before any exchange call is made.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return "unauthorized: " + e.Err.Error()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// ValidationError rejects a malformed webhook before any exchange call is made.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return "invalid request [" + e.Field + "]: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// UpstreamError carries the exchange's failure detail back to the caller.
// Exactly one of Code/Msg (business rejection) or Err (transport failure)
// is usually set.
type UpstreamError struct {
	Op     string // e.g. "POST /api/mix/v1/order/placeOrder"
	Code   string // Bitget business code, "" for transport errors
	Msg    string
	Status int // HTTP status from the exchange, 0 if unreachable
	Err    error
}

func (e *UpstreamError) Error() string {
	msg := "upstream error [" + e.Op + "]"
	if e.Code != "" {
		msg += " code=" + e.Code
	}
	if e.Msg != "" {
		msg += " msg=" + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsAuth reports whether err is an authorization rejection.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsValidation reports whether err is a request validation rejection.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsUpstream reports whether err originated at the exchange boundary.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
