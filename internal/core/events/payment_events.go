package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeOrderCreated    = "order.created"
	EventTypePaymentVerified = "payment.verified"
	EventTypePaymentRejected = "payment.rejected"
)

type OrderCreatedEvent struct {
	BaseEvent
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

func NewOrderCreatedEvent(orderID string, amount int64, currency, receipt string) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeOrderCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"order_id": orderID,
				"amount":   amount,
				"currency": currency,
				"receipt":  receipt,
			},
		},
		OrderID:  orderID,
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
	}
}

// PaymentVerificationEvent records the outcome of a signature check. The
// signature itself is not carried.
type PaymentVerificationEvent struct {
	BaseEvent
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
}

func NewPaymentVerifiedEvent(orderID, paymentID string) *PaymentVerificationEvent {
	return newPaymentVerificationEvent(EventTypePaymentVerified, orderID, paymentID)
}

func NewPaymentRejectedEvent(orderID, paymentID string) *PaymentVerificationEvent {
	return newPaymentVerificationEvent(EventTypePaymentRejected, orderID, paymentID)
}

func newPaymentVerificationEvent(eventType, orderID, paymentID string) *PaymentVerificationEvent {
	return &PaymentVerificationEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"order_id":   orderID,
				"payment_id": paymentID,
			},
		},
		OrderID:   orderID,
		PaymentID: paymentID,
	}
}
