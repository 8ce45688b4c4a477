package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/checkout-service/internal/checkout"
	"github.com/frahmantamala/checkout-service/internal/core/events"
	"github.com/frahmantamala/checkout-service/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Publish checkout events through the audit handlers for testing and debugging`,
}

var publishEventCmd = &cobra.Command{
	Use:       "publish [event-type]",
	Short:     "Publish a test event",
	Long:      `Publish a checkout event (order.created, payment.verified or payment.rejected) to the event bus`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{events.EventTypeOrderCreated, events.EventTypePaymentVerified, events.EventTypePaymentRejected},
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(cmd.Context(), args[0])
	},
}

var (
	eventOrderID   string
	eventPaymentID string
	eventAmount    int64
)

func publishTestEvent(ctx context.Context, eventType string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	lg := logger.LoggerWrapper()

	eventBus := events.NewEventBus(lg)
	checkout.NewAuditLogger(lg).RegisterEventHandlers(eventBus)

	var event events.Event
	switch eventType {
	case events.EventTypeOrderCreated:
		event = events.NewOrderCreatedEvent(eventOrderID, eventAmount, checkout.DefaultCurrency, "rcpt_cli")
	case events.EventTypePaymentVerified:
		event = events.NewPaymentVerifiedEvent(eventOrderID, eventPaymentID)
	case events.EventTypePaymentRejected:
		event = events.NewPaymentRejectedEvent(eventOrderID, eventPaymentID)
	default:
		return fmt.Errorf("unknown event type %q", eventType)
	}

	lg.Info("publishing test event", "event_type", eventType, "event_id", event.EventID())

	if err := eventBus.PublishSync(ctx, event); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	lg.Info("test event published successfully")
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventOrderID, "order-id", "order_test", "Order id carried by the event")
	publishEventCmd.Flags().StringVar(&eventPaymentID, "payment-id", "pay_test", "Payment id carried by the event")
	publishEventCmd.Flags().Int64Var(&eventAmount, "amount", checkout.DefaultAmount, "Amount carried by order.created")

	eventCmd.AddCommand(publishEventCmd)
}
