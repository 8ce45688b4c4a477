package checkout

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	paymentgatewaytypes "github.com/frahmantamala/checkout-service/internal/core/datamodel/paymentgateway"
	"github.com/frahmantamala/checkout-service/pkg/logger"
)

const (
	DefaultAmount   int64 = 99900
	DefaultCurrency       = "INR"
	ReceiptPrefix         = "rcpt_"
)

// Gateway creates orders at the payment provider.
type Gateway interface {
	CreateOrder(ctx context.Context, opts *paymentgatewaytypes.OrderOptions) (*paymentgatewaytypes.Order, error)
}

// Credentials pairs the public key id with the signing secret. The zero value
// is unconfigured. The secret is unexported and never leaves this package.
type Credentials struct {
	keyID  string
	secret string
}

func NewCredentials(keyID, secret string) Credentials {
	return Credentials{
		keyID:  strings.TrimSpace(keyID),
		secret: strings.TrimSpace(secret),
	}
}

func (c Credentials) KeyID() string {
	return c.keyID
}

func (c Credentials) Configured() bool {
	return c.keyID != "" && c.secret != ""
}

func (c Credentials) HasSecret() bool {
	return c.secret != ""
}

func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("key_id", logger.Secret(c.keyID)),
		slog.Any("secret", logger.Secret(c.secret)),
	)
}

// OrderRequest is what a storefront asks for. Every field is optional; see
// ResolveOrderOptions for the defaults.
type OrderRequest struct {
	Amount   *int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// ResolveOrderOptions fills in defaults. A missing or non-positive amount
// becomes DefaultAmount, an empty currency becomes DefaultCurrency and an
// empty receipt becomes ReceiptPrefix followed by now in unix milliseconds.
// Notes are passed through to the gateway when present.
func ResolveOrderOptions(req OrderRequest, now time.Time) *paymentgatewaytypes.OrderOptions {
	amount := DefaultAmount
	if req.Amount != nil && *req.Amount > 0 {
		amount = *req.Amount
	}

	currency := strings.TrimSpace(req.Currency)
	if currency == "" {
		currency = DefaultCurrency
	}

	receipt := strings.TrimSpace(req.Receipt)
	if receipt == "" {
		receipt = ReceiptPrefix + strconv.FormatInt(now.UnixMilli(), 10)
	}

	return &paymentgatewaytypes.OrderOptions{
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Notes:    req.Notes,
	}
}

type OrderResult struct {
	Order *paymentgatewaytypes.Order
	KeyID string
}

type VerificationRequest struct {
	PaymentID string
	OrderID   string
	Signature string
}

type VerificationResult int

const (
	Rejected VerificationResult = iota
	Accepted
)

func (r VerificationResult) String() string {
	if r == Accepted {
		return "accepted"
	}
	return "rejected"
}
