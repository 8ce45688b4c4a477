package checkout

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	paymentgatewaytypes "github.com/frahmantamala/checkout-service/internal/core/datamodel/paymentgateway"
)

// CreateOrderDTO is the create-order body. Every field stays raw so that a
// value of the wrong type falls back to its default instead of failing
// decoding.
type CreateOrderDTO struct {
	Amount   json.RawMessage `json:"amount,omitempty"`
	Currency json.RawMessage `json:"currency,omitempty"`
	Receipt  json.RawMessage `json:"receipt,omitempty"`
	Notes    json.RawMessage `json:"notes,omitempty"`
}

func (d *CreateOrderDTO) ToOrderRequest() OrderRequest {
	return OrderRequest{
		Amount:   parseAmount(d.Amount),
		Currency: parseString(d.Currency),
		Receipt:  parseString(d.Receipt),
		Notes:    parseNotes(d.Notes),
	}
}

// parseString yields "" for anything that is not a JSON string.
func parseString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// parseNotes keeps the string-valued entries of a JSON object. Numbers and
// booleans are kept in their JSON text form, anything else is dropped.
func parseNotes(raw json.RawMessage) map[string]string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || len(fields) == 0 {
		return nil
	}

	notes := make(map[string]string, len(fields))
	for key, value := range fields {
		value = bytes.TrimSpace(value)
		if len(value) == 0 {
			continue
		}
		switch value[0] {
		case '"':
			notes[key] = parseString(value)
		case '{', '[', 'n':
			continue
		default:
			notes[key] = string(value)
		}
	}
	if len(notes) == 0 {
		return nil
	}
	return notes
}

// parseAmount accepts a positive integer given as a JSON number or a numeric
// string. Anything else yields nil.
func parseAmount(raw json.RawMessage) *int64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var text string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil
		}
		text = strings.TrimSpace(text)
	} else {
		text = string(raw)
	}

	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		if n <= 0 {
			return nil
		}
		return &n
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f <= 0 || f != math.Trunc(f) || f > math.MaxInt64/2 {
		return nil
	}
	n := int64(f)
	return &n
}

type CreateOrderResponse struct {
	Success bool                       `json:"success"`
	Order   *paymentgatewaytypes.Order `json:"order"`
	KeyID   string                     `json:"keyId"`
}

type VerifyPaymentDTO struct {
	PaymentID string `json:"razorpay_payment_id"`
	OrderID   string `json:"razorpay_order_id"`
	Signature string `json:"razorpay_signature"`
}

func (d *VerifyPaymentDTO) ToVerificationRequest() VerificationRequest {
	return VerificationRequest{
		PaymentID: d.PaymentID,
		OrderID:   d.OrderID,
		Signature: d.Signature,
	}
}

type VerifyPaymentResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
