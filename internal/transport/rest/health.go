package rest

import (
	"encoding/json"
	"net/http"
	"time"
)

type HealthStatus string

const HealthOK HealthStatus = "ok"

type HealthResponse struct {
	Status HealthStatus `json:"status"`
	TS     int64        `json:"ts"`
}

type HealthHandler struct {
	now func() time.Time
}

func NewHealthHandler(now func() time.Time) *HealthHandler {
	if now == nil {
		now = time.Now
	}
	return &HealthHandler{now: now}
}

// healthCheckHandler reports liveness with the server clock in unix ms.
func (h *HealthHandler) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status: HealthOK,
		TS:     h.now().UnixMilli(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(resp)
}
