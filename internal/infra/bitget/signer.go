package bitget

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"
)

// Signer handles Bitget API authentication signatures.
type Signer struct {
	accessKey  string
	secretKey  string
	passphrase string
}

// NewSigner creates a new Signer instance
func NewSigner(accessKey, secretKey, passphrase string) *Signer {
	return &Signer{
		accessKey:  accessKey,
		secretKey:  secretKey,
		passphrase: passphrase,
	}
}

// Sign computes the request signature for a fixed timestamp.
// The signed string is: timestamp + method + requestPath[?query] + body.
func (s *Signer) Sign(timestamp, method, path, query, body string) string {
	fullPath := path
	if query != "" {
		fullPath = path + "?" + query
	}
	return computeHmacSha256(timestamp+method+fullPath+body, s.secretKey)
}

// GenerateHeaders creates the auth headers for a request.
// method: GET, POST, etc.
// path: /api/mix/v1/order/placeOrder (no host)
// query: symbol=BTCUSDT_UMCBL&marginCoin=USDT (empty if none)
// body: json string (empty if none)
func (s *Signer) GenerateHeaders(method, path, query, body string) map[string]string {
	// Bitget requires a Unix timestamp in milliseconds
	timestamp := fmt.Sprintf("%d", time.Now().UnixMilli())

	return map[string]string{
		"ACCESS-KEY":        s.accessKey,
		"ACCESS-SIGN":       s.Sign(timestamp, method, path, query, body),
		"ACCESS-TIMESTAMP":  timestamp,
		"ACCESS-PASSPHRASE": s.passphrase,
		"Content-Type":      "application/json",
		"locale":            "en-US",
	}
}

func computeHmacSha256(message string, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}
