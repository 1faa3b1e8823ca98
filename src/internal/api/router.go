package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/captivegate/captivegate/src/internal/netinfo"
)

// NewRouter creates a new HTTP router with all API endpoints.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(Recovery)
	r.Use(Logger)
	r.Use(Metrics(deps.Metrics))
	var gated func() *netinfo.InterfaceBinding
	if deps.Gate != nil {
		gated = deps.Gate.Binding
	}
	r.Use(PrivateSubnetOnly(gated))
	r.Use(JSONContentType)

	h := NewHandler(deps)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/gating", h.GetGating)
		r.Post("/gating", h.EnableGating)
		r.Delete("/gating", h.DisableGating)

		r.Post("/destinations/{ip}", h.AllowDestination)
		r.Delete("/destinations/{ip}", h.DenyDestination)

		r.Post("/domains/{domain}", h.AllowDomain)
		r.Delete("/domains/{domain}", h.DenyDomain)

		r.Post("/terminals/{mac}", h.AdmitTerminal)
		r.Delete("/terminals/{mac}", h.EvictTerminal)
		r.Post("/terminals/{mac}/whitelist", h.WhitelistTerminal)
		r.Post("/clients/{ip}", h.AdmitClient)

		r.Get("/interfaces", h.GetInterfaces)
		r.Get("/interfaces/{name}", h.GetInterface)
		r.Get("/arp", h.GetARP)
		r.Get("/portal/login-url", h.GetLoginURL)

		r.Get("/status", h.GetStatus)
		r.Get("/health", h.CheckHealth)
	})

	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler())
	}
	registerPprof(r)

	return r
}
