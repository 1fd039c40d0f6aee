// Package httptransport is the thin HTTP layer over the relief service. It
// parses and validates requests, resolves the caller from the bearer token,
// and translates engine errors to status codes; business rules stay in the
// engine.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"relieffund/internal/platform/middleware"
	"relieffund/internal/service"
)

// Handler handles every API endpoint.
type Handler struct {
	svc    *service.Service
	logger *slog.Logger
}

func NewHandler(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// NewRouter wires all public endpoints. Everything under /v1 requires a
// bearer token; /healthz is open for probes.
func NewRouter(h *Handler, verifier middleware.CallerVerifier) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(h.logger))

	r.Get("/healthz", h.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.RequireAuth(verifier, h.logger))

		r.Post("/categories", h.handleCreateCategory)
		r.Get("/categories", h.handleListCategories)
		r.Get("/categories/{id}", h.handleGetCategory)

		r.Post("/entities", h.handleWhitelist)
		r.Get("/entities/{address}", h.handleGetEntity)

		r.Post("/distributions", h.handleDistribute)
		r.Post("/transfers", h.handleTransfer)
		r.Post("/vouchers/redeem", h.handleRedeemVoucher)

		r.Put("/pin", h.handleSetPin)
		r.Post("/charges", h.handleCharge)

		r.Post("/credentials", h.handleIssueCredential)
		r.Get("/credentials/{address}", h.handleGetCredential)

		r.Get("/receipts/{id}", h.handleGetReceipt)
	})

	return r
}

type healthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Time: time.Now().UTC()})
}
