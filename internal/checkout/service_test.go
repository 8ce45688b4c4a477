package checkout_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	errs "github.com/frahmantamala/checkout-service/internal"
	"github.com/frahmantamala/checkout-service/internal/checkout"
	paymentgatewaytypes "github.com/frahmantamala/checkout-service/internal/core/datamodel/paymentgateway"
	"github.com/frahmantamala/checkout-service/internal/core/events"
)

const testSecret = "rzp_secret_0123456789"

var _ = Describe("Service", func() {
	var (
		gateway   *mockGateway
		publisher *recordingPublisher
		logs      *bytes.Buffer
		logger    *slog.Logger
		now       time.Time
		ctx       context.Context
	)

	newService := func(creds checkout.Credentials) *checkout.Service {
		return checkout.NewService(gateway, creds, logger,
			checkout.WithClock(func() time.Time { return now }),
			checkout.WithPublisher(publisher))
	}

	BeforeEach(func() {
		gateway = newMockGateway()
		publisher = &recordingPublisher{}
		logs = &bytes.Buffer{}
		logger = slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
		now = time.UnixMilli(1700000000123)
		ctx = context.Background()
	})

	Describe("ResolveOrderOptions", func() {
		It("applies every default to an empty request", func() {
			opts := checkout.ResolveOrderOptions(checkout.OrderRequest{}, now)
			Expect(opts.Amount).To(Equal(int64(99900)))
			Expect(opts.Currency).To(Equal("INR"))
			Expect(opts.Receipt).To(Equal("rcpt_1700000000123"))
		})

		It("keeps caller values", func() {
			amount := int64(50000)
			opts := checkout.ResolveOrderOptions(checkout.OrderRequest{Amount: &amount, Currency: "USD", Receipt: "r-1"}, now)
			Expect(opts.Amount).To(Equal(int64(50000)))
			Expect(opts.Currency).To(Equal("USD"))
			Expect(opts.Receipt).To(Equal("r-1"))
		})

		It("replaces a non-positive amount with the default", func() {
			for _, v := range []int64{0, -5} {
				amount := v
				opts := checkout.ResolveOrderOptions(checkout.OrderRequest{Amount: &amount}, now)
				Expect(opts.Amount).To(Equal(checkout.DefaultAmount))
			}
		})
	})

	Describe("CreateOrder", func() {
		It("creates one gateway order with defaults and returns the public key id", func() {
			svc := newService(checkout.NewCredentials("rzp_test_key", testSecret))

			result, err := svc.CreateOrder(ctx, checkout.OrderRequest{})
			Expect(err).NotTo(HaveOccurred())
			Expect(gateway.Calls()).To(Equal(1))
			Expect(gateway.lastOpts.Amount).To(Equal(int64(99900)))
			Expect(gateway.lastOpts.Currency).To(Equal("INR"))
			Expect(gateway.lastOpts.Receipt).To(Equal("rcpt_1700000000123"))
			Expect(result.KeyID).To(Equal("rzp_test_key"))
			Expect(result.Order.ID).To(Equal("order_IluGWxBm9U8zJ8"))
			Expect(publisher.Types()).To(Equal([]string{events.EventTypeOrderCreated}))
		})

		DescribeTable("fails fast without credentials",
			func(keyID, secret string) {
				svc := newService(checkout.NewCredentials(keyID, secret))

				result, err := svc.CreateOrder(ctx, checkout.OrderRequest{})
				Expect(result).To(BeNil())
				Expect(errors.Is(err, errs.ErrServiceNotConfigured)).To(BeTrue())
				Expect(gateway.Calls()).To(BeZero())
				Expect(publisher.Types()).To(BeEmpty())
			},
			Entry("no key id", "", testSecret),
			Entry("no secret", "rzp_test_key", ""),
			Entry("whitespace only", "  ", "\t"),
		)

		It("surfaces the gateway's description", func() {
			gateway.err = &paymentgatewaytypes.GatewayError{StatusCode: 400, Code: "BAD_REQUEST_ERROR", Description: "Order amount less than minimum amount allowed"}
			svc := newService(checkout.NewCredentials("rzp_test_key", testSecret))

			_, err := svc.CreateOrder(ctx, checkout.OrderRequest{})
			appErr, ok := errs.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(500))
			Expect(appErr.Message).To(Equal("Order amount less than minimum amount allowed"))
			Expect(appErr.Code).To(Equal(errs.ErrCodeGatewayFailed))
			Expect(gateway.Calls()).To(Equal(1))
			Expect(publisher.Types()).To(BeEmpty())
		})

		It("reports a timeout", func() {
			gateway.err = fmt.Errorf("post order: %w", paymentgatewaytypes.ErrGatewayTimeout)
			svc := newService(checkout.NewCredentials("rzp_test_key", testSecret))

			_, err := svc.CreateOrder(ctx, checkout.OrderRequest{})
			appErr, ok := errs.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(errs.ErrCodeGatewayTimeout))
			Expect(appErr.Message).To(Equal(paymentgatewaytypes.ErrGatewayTimeout.Error()))
		})

		It("falls back to a generic message", func() {
			gateway.err = errors.New("dial tcp: connection refused")
			svc := newService(checkout.NewCredentials("rzp_test_key", testSecret))

			_, err := svc.CreateOrder(ctx, checkout.OrderRequest{})
			appErr, ok := errs.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Message).To(Equal("failed to create order"))
			Expect(errors.Unwrap(appErr)).To(MatchError("dial tcp: connection refused"))
		})

		It("never logs the secret", func() {
			svc := newService(checkout.NewCredentials("rzp_test_key", testSecret))
			_, _ = svc.CreateOrder(ctx, checkout.OrderRequest{})

			unconfigured := newService(checkout.NewCredentials("", testSecret))
			_, _ = unconfigured.CreateOrder(ctx, checkout.OrderRequest{})

			Expect(logs.String()).NotTo(BeEmpty())
			Expect(logs.String()).NotTo(ContainSubstring(testSecret))
		})
	})

	Describe("VerifyPayment", func() {
		var (
			svc    *checkout.Service
			signer *checkout.Signer
		)

		BeforeEach(func() {
			creds := checkout.NewCredentials("rzp_test_key", testSecret)
			svc = newService(creds)
			signer = checkout.NewSigner(creds)
		})

		It("accepts a valid signature", func() {
			result, err := svc.VerifyPayment(ctx, checkout.VerificationRequest{
				OrderID:   "order_abc",
				PaymentID: "pay_123",
				Signature: signer.Sign("order_abc", "pay_123"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(checkout.Accepted))
			Expect(publisher.Types()).To(Equal([]string{events.EventTypePaymentVerified}))
		})

		It("rejects a mismatched signature without an error", func() {
			result, err := svc.VerifyPayment(ctx, checkout.VerificationRequest{
				OrderID:   "order_abc",
				PaymentID: "pay_123",
				Signature: signer.Sign("order_abc", "pay_124"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(Equal(checkout.Rejected))
			Expect(publisher.Types()).To(Equal([]string{events.EventTypePaymentRejected}))
		})

		DescribeTable("reports missing parameters before checking the signature",
			func(req checkout.VerificationRequest, field string) {
				result, err := svc.VerifyPayment(ctx, req)
				Expect(result).To(Equal(checkout.Rejected))
				Expect(errors.Is(err, errs.ErrMissingParameters)).To(BeTrue())

				appErr, ok := errs.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.StatusCode).To(Equal(400))
				details, ok := appErr.Details.(errs.ValidationErrors)
				Expect(ok).To(BeTrue())
				Expect(details.Errors).NotTo(BeEmpty())
				Expect(details.Errors[0].Field).To(Equal(field))
				Expect(publisher.Types()).To(BeEmpty())
			},
			Entry("payment id", checkout.VerificationRequest{OrderID: "order_abc", Signature: "abc"}, "razorpay_payment_id"),
			Entry("order id", checkout.VerificationRequest{PaymentID: "pay_123", Signature: "abc"}, "razorpay_order_id"),
			Entry("signature", checkout.VerificationRequest{OrderID: "order_abc", PaymentID: "pay_123"}, "razorpay_signature"),
			Entry("blank signature", checkout.VerificationRequest{OrderID: "order_abc", PaymentID: "pay_123", Signature: "   "}, "razorpay_signature"),
		)

		It("refuses to verify without a secret", func() {
			svc = newService(checkout.NewCredentials("rzp_test_key", ""))
			// HMAC with an empty key is still computable, so this signature
			// would pass if the check were allowed to run.
			forged := checkout.NewSigner(checkout.NewCredentials("", "")).Sign("order_abc", "pay_123")

			result, err := svc.VerifyPayment(ctx, checkout.VerificationRequest{
				OrderID:   "order_abc",
				PaymentID: "pay_123",
				Signature: forged,
			})
			Expect(result).To(Equal(checkout.Rejected))
			Expect(errors.Is(err, errs.ErrVerifierNotConfigured)).To(BeTrue())
		})

		It("makes no gateway calls", func() {
			_, _ = svc.VerifyPayment(ctx, checkout.VerificationRequest{OrderID: "o", PaymentID: "p", Signature: "s"})
			Expect(gateway.Calls()).To(BeZero())
		})
	})

	Describe("Credentials", func() {
		It("logs only masked previews", func() {
			creds := checkout.NewCredentials("rzp_test_1234567890", testSecret)
			logger.Info("startup", "credentials", creds)

			Expect(logs.String()).To(ContainSubstring("rzp_••••7890"))
			Expect(logs.String()).NotTo(ContainSubstring(testSecret))
			Expect(logs.String()).NotTo(ContainSubstring("rzp_test_1234567890"))
		})
	})
})
