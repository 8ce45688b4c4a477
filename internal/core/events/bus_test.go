package events_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/checkout-service/internal/core/events"
)

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	It("delivers published events to every subscriber asynchronously", func() {
		var (
			mu       sync.Mutex
			received []string
		)
		record := func(name string) events.Handler {
			return func(ctx context.Context, event events.Event) error {
				mu.Lock()
				defer mu.Unlock()
				received = append(received, name+":"+event.EventType())
				return nil
			}
		}
		bus.Subscribe(events.EventTypeOrderCreated, record("a"))
		bus.Subscribe(events.EventTypeOrderCreated, record("b"))

		Expect(bus.Publish(context.Background(), events.NewOrderCreatedEvent("order_1", 100, "INR", "rcpt_1"))).To(Succeed())

		Eventually(func() []string {
			mu.Lock()
			defer mu.Unlock()
			return append([]string(nil), received...)
		}).Should(ConsistOf("a:order.created", "b:order.created"))
	})

	It("ignores events nobody subscribed to", func() {
		Expect(bus.Publish(context.Background(), events.NewPaymentVerifiedEvent("order_1", "pay_1"))).To(Succeed())
		Expect(bus.PublishSync(context.Background(), events.NewPaymentVerifiedEvent("order_1", "pay_1"))).To(Succeed())
	})

	It("returns the first handler error from PublishSync", func() {
		boom := errors.New("boom")
		bus.Subscribe(events.EventTypePaymentRejected, func(ctx context.Context, event events.Event) error {
			return boom
		})

		err := bus.PublishSync(context.Background(), events.NewPaymentRejectedEvent("order_1", "pay_1"))
		Expect(errors.Is(err, boom)).To(BeTrue())
	})

	It("builds verification events without the signature", func() {
		event := events.NewPaymentRejectedEvent("order_1", "pay_1")
		Expect(event.EventType()).To(Equal(events.EventTypePaymentRejected))
		Expect(event.EventID()).NotTo(BeEmpty())
		Expect(event.Payload()).To(Equal(map[string]interface{}{"order_id": "order_1", "payment_id": "pay_1"}))
	})

	It("waits for in-flight handlers", func() {
		release := make(chan struct{})
		var finished atomic.Bool
		bus.Subscribe(events.EventTypePaymentVerified, func(ctx context.Context, event events.Event) error {
			<-release
			finished.Store(true)
			return nil
		})
		Expect(bus.Publish(context.Background(), events.NewPaymentVerifiedEvent("order_1", "pay_1"))).To(Succeed())

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		Expect(bus.Wait(ctx)).To(MatchError(context.DeadlineExceeded))

		close(release)
		Expect(bus.Wait(context.Background())).To(Succeed())
		Expect(finished.Load()).To(BeTrue())
	})

	It("keeps handler context alive after the publisher's context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		errs := make(chan error, 1)
		bus.Subscribe(events.EventTypeOrderCreated, func(hctx context.Context, event events.Event) error {
			cancel()
			errs <- hctx.Err()
			return nil
		})

		Expect(bus.Publish(ctx, events.NewOrderCreatedEvent("order_1", 1, "INR", "r"))).To(Succeed())
		Eventually(errs).Should(Receive(BeNil()))
	})
})
