package tv

import (
	"context"
	"crypto/hmac"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bitget_relay/internal/domain"
	"bitget_relay/internal/infra"
	"bitget_relay/internal/infra/bitget"
)

// Server handles TradingView webhook ingress and the account read endpoints.
// It is stateless: every request stands alone, and two identical deliveries
// produce two exchange orders.
type Server struct {
	cfg     *infra.Config
	venue   domain.Execution
	account domain.AccountReader
	metrics *infra.Metrics
	logger  *slog.Logger
}

// NewServer wires the ingress with its collaborators. Dependencies are passed
// explicitly so tests can swap in recording fakes.
func NewServer(cfg *infra.Config, venue domain.Execution, account domain.AccountReader, metrics *infra.Metrics) *Server {
	return &Server{
		cfg:     cfg,
		venue:   venue,
		account: account,
		metrics: metrics,
		logger:  slog.Default().With("module", "tv_webhook"),
	}
}

// Routes returns the relay's HTTP routing table.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleHealth)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("POST /tv", s.handleWebhook)
	mux.HandleFunc("GET /positions", s.readHandler(s.account.Positions))
	mux.HandleFunc("GET /orders/open", s.readHandler(s.account.OpenOrders))
	mux.HandleFunc("GET /orders/history", s.pagedReadHandler(s.account.OrderHistory))
	mux.HandleFunc("GET /fills", s.pagedReadHandler(s.account.Fills))
	return mux
}

// handleHealth always succeeds, regardless of configuration state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"service": "tv→bitget",
		"env":     s.cfg.App.Env,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"env":     s.cfg.App.Env,
		"mode":    s.cfg.Execution.Mode,
		"metrics": s.metrics.Snapshot(),
	})
}

// handleWebhook is the relay hotpath: authorize, validate, translate, forward.
// Exactly one exchange attempt is made per delivery; TradingView's own
// redelivery is the only retry layer.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	defer func() {
		s.metrics.RecordWebhook(time.Since(started).Nanoseconds())
	}()

	var sig domain.Signal
	if err := json.NewDecoder(r.Body).Decode(&sig); err != nil {
		s.metrics.RecordValidationRejection()
		s.writeError(w, &domain.ValidationError{Field: "body", Err: err})
		return
	}

	if !s.secretMatches(sig.Secret) {
		s.metrics.RecordAuthRejection()
		s.writeError(w, &domain.AuthError{Err: domain.ErrBadSecret})
		return
	}

	if err := sig.Validate(); err != nil {
		s.metrics.RecordValidationRejection()
		s.writeError(w, err)
		return
	}

	symbol := domain.NormalizeSymbol(sig.Symbol, s.cfg.API.Bitget.ProductType)
	side := strings.ToUpper(sig.Side)

	if side == domain.SideFlat {
		acks, err := s.venue.CloseAllPositions(r.Context(), symbol)
		if err != nil {
			s.metrics.RecordUpstreamError()
			s.logger.Error("Flat close failed", slog.String("symbol", symbol), slog.Any("error", err))
			s.writeError(w, err)
			return
		}
		s.metrics.RecordFlatClose()
		s.logger.Info("Positions closed", slog.String("symbol", symbol), slog.Int("orders", len(acks)))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"ok":     true,
			"action": domain.SideFlat,
			"symbol": symbol,
			"result": acks,
		})
		return
	}

	order := sig.Order(symbol, bitget.NewClientOrderID())
	ack, err := s.venue.PlaceOrder(r.Context(), order)
	if err != nil {
		s.metrics.RecordUpstreamError()
		s.logger.Error("Order forwarding failed",
			slog.String("symbol", symbol),
			slog.String("side", order.Side),
			slog.Any("error", err),
		)
		s.writeError(w, err)
		return
	}

	s.metrics.RecordOrderPlaced()
	s.logger.Info("Webhook forwarded",
		slog.String("symbol", symbol),
		slog.String("side", order.Side),
		slog.String("type", order.Type),
		slog.String("oid", ack.ClientOrderID),
	)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":     true,
		"symbol": symbol,
		"side":   order.Side,
		"type":   order.Type,
		"result": ack,
	})
}

// secretMatches checks the shared secret in constant time.
// An empty configured secret disables the check (local testing only).
func (s *Server) secretMatches(got string) bool {
	want := s.cfg.Webhook.Secret
	if want == "" {
		return true
	}
	return hmac.Equal([]byte(got), []byte(want))
}

type readCall func(r *http.Request) (json.RawMessage, error)

// readHandler serves the symbol-scoped read endpoints.
func (s *Server) readHandler(call func(ctx context.Context, symbol string) (json.RawMessage, error)) http.HandlerFunc {
	return s.read(func(r *http.Request) (json.RawMessage, error) {
		return call(r.Context(), r.URL.Query().Get("symbol"))
	})
}

// pagedReadHandler serves the read endpoints that take a limit.
func (s *Server) pagedReadHandler(call func(ctx context.Context, symbol string, limit int) (json.RawMessage, error)) http.HandlerFunc {
	return s.read(func(r *http.Request) (json.RawMessage, error) {
		limit := 50
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				return nil, &domain.ValidationError{Field: "limit", Err: errors.New("must be a positive integer")}
			}
			limit = n
		}
		return call(r.Context(), r.URL.Query().Get("symbol"), limit)
	})
}

func (s *Server) read(call readCall) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("symbol") == "" {
			s.writeError(w, &domain.ValidationError{Field: "symbol", Err: domain.ErrMissingField})
			return
		}

		data, err := call(r)
		if err != nil {
			if domain.IsValidation(err) {
				s.writeError(w, err)
				return
			}
			// Upstream read failures surface in the body but keep HTTP 200,
			// matching the webhook sender's polling expectations.
			writeJSON(w, http.StatusOK, map[string]interface{}{"ok": false, "error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "data": data})
	}
}

// writeError maps the relay error taxonomy onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case domain.IsAuth(err):
		status = http.StatusUnauthorized
	case domain.IsValidation(err):
		status = http.StatusBadRequest
	case domain.IsUpstream(err):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, map[string]interface{}{"ok": false, "error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
