package paymentgateway

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrGatewayTimeout = errors.New("payment gateway timed out")

type OrderOptions struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

func (o *OrderOptions) Validate() error {
	if o.Amount <= 0 {
		return errors.New("amount must be greater than 0")
	}
	if o.Currency == "" {
		return errors.New("currency is required")
	}
	if o.Receipt == "" {
		return errors.New("receipt is required")
	}
	return nil
}

// Order is the gateway's order entity. The payload it was decoded from is
// kept so that marshalling returns exactly what the gateway sent.
type Order struct {
	ID         string          `json:"id"`
	Entity     string          `json:"entity,omitempty"`
	Amount     int64           `json:"amount"`
	AmountPaid int64           `json:"amount_paid"`
	AmountDue  int64           `json:"amount_due"`
	Currency   string          `json:"currency"`
	Receipt    string          `json:"receipt,omitempty"`
	Status     string          `json:"status,omitempty"`
	Attempts   int             `json:"attempts"`
	Notes      json.RawMessage `json:"notes,omitempty"`
	CreatedAt  int64           `json:"created_at,omitempty"`

	raw json.RawMessage
}

type orderFields Order

func (o *Order) UnmarshalJSON(data []byte) error {
	var fields orderFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*o = Order(fields)
	o.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (o Order) MarshalJSON() ([]byte, error) {
	if len(o.raw) > 0 {
		return o.raw, nil
	}
	return json.Marshal(orderFields(o))
}

// GatewayError is a non-2xx answer from the gateway.
type GatewayError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Source      string `json:"source,omitempty"`
	Step        string `json:"step,omitempty"`
	Reason      string `json:"reason,omitempty"`
	Field       string `json:"field,omitempty"`
}

func (e *GatewayError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("gateway returned status %d (%s): %s", e.StatusCode, e.Code, e.Description)
	}
	return fmt.Sprintf("gateway returned status %d: %s", e.StatusCode, e.Description)
}

type ErrorResponse struct {
	Error GatewayError `json:"error"`
}
