package handlers

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Version     string    `json:"version"`
	Environment string    `json:"environment"`
}

type HealthHandler struct {
	respond     *Responder
	version     string
	environment string
}

func NewHealthHandler(respond *Responder, version, environment string) *HealthHandler {
	return &HealthHandler{respond: respond, version: version, environment: environment}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.respond.JSON(w, http.StatusOK, healthResponse{
		Status:      "ok",
		Timestamp:   time.Now().UTC(),
		Version:     h.version,
		Environment: h.environment,
	})
}
