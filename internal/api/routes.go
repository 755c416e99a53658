package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/agencies", func(r chi.Router) {
			r.Get("/", h.ListAgencies)
			r.Post("/verify", h.VerifyAgency)
			r.Put("/document-status", h.UpdateDocumentStatus)
			r.Get("/{agencyKey}/document-requirements", func(w http.ResponseWriter, r *http.Request) {
				h.DocumentRequirements(w, r, chi.URLParam(r, "agencyKey"))
			})
		})
		r.Route("/bookings/{bookingId}", func(r chi.Router) {
			r.Post("/cargo", func(w http.ResponseWriter, r *http.Request) {
				h.RegisterCargo(w, r, chi.URLParam(r, "bookingId"))
			})
			r.Route("/cargo/{cargoId}/documents", func(r chi.Router) {
				r.Get("/", func(w http.ResponseWriter, r *http.Request) {
					h.GetCargoDocuments(w, r, chi.URLParam(r, "bookingId"), chi.URLParam(r, "cargoId"))
				})
				r.Post("/", func(w http.ResponseWriter, r *http.Request) {
					h.UploadCargoDocument(w, r, chi.URLParam(r, "bookingId"), chi.URLParam(r, "cargoId"))
				})
			})
		})
	})

	return r
}
