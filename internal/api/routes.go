package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/criteria", h.ListCriteria)
		r.Post("/applicability", h.PreviewApplicability)
		r.Post("/audits", h.StartAudit)
		r.Get("/sessions/{chatSessionId}/messages", func(w http.ResponseWriter, r *http.Request) {
			h.ChatMessages(w, r, chi.URLParam(r, "chatSessionId"))
		})
	})

	return r
}
