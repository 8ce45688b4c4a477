package checkout

import (
	"context"
	"errors"
	"log/slog"
	"time"

	errs "github.com/frahmantamala/checkout-service/internal"
	"github.com/frahmantamala/checkout-service/internal/core/common/validation"
	paymentgatewaytypes "github.com/frahmantamala/checkout-service/internal/core/datamodel/paymentgateway"
	"github.com/frahmantamala/checkout-service/internal/core/events"
)

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Service struct {
	gateway   Gateway
	creds     Credentials
	signer    *Signer
	publisher EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

type Option func(*Service)

// WithClock overrides the clock used for generated receipts.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithPublisher(publisher EventPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

func NewService(gateway Gateway, creds Credentials, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		gateway: gateway,
		creds:   creds,
		signer:  NewSigner(creds),
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder asks the gateway for a new order. Credentials are checked first
// so an unconfigured service never reaches the network.
func (s *Service) CreateOrder(ctx context.Context, req OrderRequest) (*OrderResult, error) {
	if !s.creds.Configured() {
		s.logger.Error("refusing to create order: gateway credentials missing", "credentials", s.creds)
		return nil, errs.ErrServiceNotConfigured
	}

	opts := ResolveOrderOptions(req, s.now())

	order, err := s.gateway.CreateOrder(ctx, opts)
	if err != nil {
		s.logger.Error("gateway order creation failed",
			"error", err,
			"amount", opts.Amount,
			"currency", opts.Currency,
			"receipt", opts.Receipt)
		return nil, gatewayFailure(err)
	}

	s.logger.Info("order created",
		"order_id", order.ID,
		"amount", order.Amount,
		"currency", order.Currency,
		"receipt", opts.Receipt)

	s.publish(ctx, events.NewOrderCreatedEvent(order.ID, order.Amount, order.Currency, opts.Receipt))

	return &OrderResult{
		Order: order,
		KeyID: s.creds.KeyID(),
	}, nil
}

// VerifyPayment checks the signature a client presents after checkout. A
// mismatch is a normal Rejected result, not an error.
func (s *Service) VerifyPayment(ctx context.Context, req VerificationRequest) (VerificationResult, error) {
	if err := req.Validate(); err != nil {
		s.logger.Warn("payment verification missing parameters", "details", err.GetDetailedMessage())
		return Rejected, err
	}

	if !s.creds.HasSecret() {
		s.logger.Error("refusing to verify payment: gateway secret missing", "order_id", req.OrderID)
		return Rejected, errs.ErrVerifierNotConfigured
	}

	if !s.signer.Verify(req.OrderID, req.PaymentID, req.Signature) {
		s.logger.Warn("payment signature mismatch",
			"order_id", req.OrderID,
			"payment_id", req.PaymentID)
		s.publish(ctx, events.NewPaymentRejectedEvent(req.OrderID, req.PaymentID))
		return Rejected, nil
	}

	s.logger.Info("payment verified",
		"order_id", req.OrderID,
		"payment_id", req.PaymentID)
	s.publish(ctx, events.NewPaymentVerifiedEvent(req.OrderID, req.PaymentID))
	return Accepted, nil
}

func (r VerificationRequest) Validate() *errs.AppError {
	validator := validation.NewValidator(errs.ErrMissingParameters)

	validator.Field("razorpay_payment_id", r.PaymentID).Required()
	validator.Field("razorpay_order_id", r.OrderID).Required()
	validator.Field("razorpay_signature", r.Signature).Required()

	return validator.Validate()
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

// gatewayFailure keeps the gateway's own description, when it sent one, as
// the only detail that reaches the client.
func gatewayFailure(err error) *errs.AppError {
	var gatewayErr *paymentgatewaytypes.GatewayError
	switch {
	case errors.As(err, &gatewayErr) && gatewayErr.Description != "":
		return errs.NewExternalError(gatewayErr.Description, errs.ErrCodeGatewayFailed, err)
	case errors.Is(err, paymentgatewaytypes.ErrGatewayTimeout), errors.Is(err, context.DeadlineExceeded):
		return errs.NewExternalError(paymentgatewaytypes.ErrGatewayTimeout.Error(), errs.ErrCodeGatewayTimeout, err)
	default:
		return errs.NewExternalError("failed to create order", errs.ErrCodeGatewayFailed, err)
	}
}
