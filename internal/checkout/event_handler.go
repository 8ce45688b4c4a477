package checkout

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/checkout-service/internal/core/events"
)

// AuditLogger writes one audit line per checkout event.
type AuditLogger struct {
	logger *slog.Logger
}

func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger.With("component", "audit")}
}

func (a *AuditLogger) HandleOrderCreated(ctx context.Context, event events.Event) error {
	orderEvent, ok := event.(*events.OrderCreatedEvent)
	if !ok {
		return fmt.Errorf("expected OrderCreatedEvent, got %T", event)
	}

	a.logger.InfoContext(ctx, "order created",
		"event_id", orderEvent.EventID(),
		"order_id", orderEvent.OrderID,
		"amount", orderEvent.Amount,
		"currency", orderEvent.Currency,
		"receipt", orderEvent.Receipt,
		"occurred_at", orderEvent.OccurredAt())
	return nil
}

func (a *AuditLogger) HandlePaymentVerification(ctx context.Context, event events.Event) error {
	verification, ok := event.(*events.PaymentVerificationEvent)
	if !ok {
		return fmt.Errorf("expected PaymentVerificationEvent, got %T", event)
	}

	level := slog.LevelInfo
	outcome := Accepted
	if verification.EventType() == events.EventTypePaymentRejected {
		level = slog.LevelWarn
		outcome = Rejected
	}

	a.logger.Log(ctx, level, "payment verification",
		"event_id", verification.EventID(),
		"outcome", outcome.String(),
		"order_id", verification.OrderID,
		"payment_id", verification.PaymentID,
		"occurred_at", verification.OccurredAt())
	return nil
}

func (a *AuditLogger) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypeOrderCreated, a.HandleOrderCreated)
	eventBus.Subscribe(events.EventTypePaymentVerified, a.HandlePaymentVerification)
	eventBus.Subscribe(events.EventTypePaymentRejected, a.HandlePaymentVerification)

	a.logger.Info("audit event handlers registered",
		"handlers", []string{events.EventTypeOrderCreated, events.EventTypePaymentVerified, events.EventTypePaymentRejected})
}
