package transport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	errs "github.com/frahmantamala/checkout-service/internal"
	"github.com/frahmantamala/checkout-service/pkg/logger"
)

const maxBodyBytes = 1 << 20

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg}
}

// RequestLogger prefers the request-scoped logger set by the trace middleware.
func (h *BaseHandler) RequestLogger(r *http.Request) *slog.Logger {
	if l, ok := logger.FromContext(r.Context()); ok {
		return l
	}
	return h.Logger
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes {"error": message}
func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.WriteJSON(w, status, map[string]string{"error": message})
}

// HandleServiceError writes the AppError's status and message. Anything else
// is reported as a generic 500.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, err error) {
	appErr, ok := errs.IsAppError(err)
	if !ok {
		appErr = errs.NewInternalError("internal server error", err)
	}
	h.WriteError(w, appErr.StatusCode, appErr.Message)
}

// DecodeJSON reads at most 1 MiB into dst. An empty body leaves dst untouched.
func (h *BaseHandler) DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}
