package checkout

import (
	"context"
	"net/http"

	errs "github.com/frahmantamala/checkout-service/internal"
	"github.com/frahmantamala/checkout-service/internal/transport"
)

type ServiceAPI interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*OrderResult, error)
	VerifyPayment(ctx context.Context, req VerificationRequest) (VerificationResult, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// CreateOrder handles POST /api/create-order
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	log := h.RequestLogger(r)

	var dto CreateOrderDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		log.Warn("CreateOrder: failed to parse request body", "error", err)
		h.HandleServiceError(w, errs.ErrInvalidRequestBody)
		return
	}

	result, err := h.Service.CreateOrder(r.Context(), dto.ToOrderRequest())
	if err != nil {
		log.Error("CreateOrder: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, CreateOrderResponse{
		Success: true,
		Order:   result.Order,
		KeyID:   result.KeyID,
	})
}

// VerifyPayment handles POST /api/verify-payment
func (h *Handler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	log := h.RequestLogger(r)

	var dto VerifyPaymentDTO
	if err := h.DecodeJSON(w, r, &dto); err != nil {
		log.Warn("VerifyPayment: failed to parse request body", "error", err)
		h.writeVerification(w, http.StatusBadRequest, errs.ErrCodeMissingParameters)
		return
	}

	result, err := h.Service.VerifyPayment(r.Context(), dto.ToVerificationRequest())
	if err != nil {
		if appErr, ok := errs.IsAppError(err); ok && appErr.StatusCode == http.StatusBadRequest {
			h.writeVerification(w, http.StatusBadRequest, appErr.Code)
			return
		}
		log.Error("VerifyPayment: service error", "error", err)
		h.writeVerification(w, http.StatusInternalServerError, errs.ErrCodeServerError)
		return
	}

	if result != Accepted {
		h.writeVerification(w, http.StatusBadRequest, errs.ErrCodeSignatureMismatch)
		return
	}

	h.WriteJSON(w, http.StatusOK, VerifyPaymentResponse{Success: true})
}

func (h *Handler) writeVerification(w http.ResponseWriter, status int, code errs.ErrorCode) {
	h.WriteJSON(w, status, VerifyPaymentResponse{
		Success: false,
		Error:   string(code),
	})
}
