package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/captivegate/captivegate/src/internal/resolver"
)

// AllowDestination grants pre-auth access to an IPv4 address.
// POST /api/v1/destinations/{ip}
func (h *Handler) AllowDestination(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Gate.AllowDestination(r.Context(), chi.URLParam(r, "ip")); err != nil {
		WriteDomainError(w, err)
		return
	}
	writeNoContent(w)
}

// DenyDestination revokes pre-auth access to an IPv4 address.
// DELETE /api/v1/destinations/{ip}
func (h *Handler) DenyDestination(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Gate.DenyDestination(r.Context(), chi.URLParam(r, "ip")); err != nil {
		WriteDomainError(w, err)
		return
	}
	writeNoContent(w)
}

// AllowDomain grants pre-auth access to every address of a domain.
// POST /api/v1/domains/{domain}
func (h *Handler) AllowDomain(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	p, err := h.deps.Gate.AllowDomain(r.Context(), domain)
	h.writeDomainRule(w, domain, resolver.IntentAllow, p, err)
}

// DenyDomain revokes pre-auth access to every address of a domain.
// DELETE /api/v1/domains/{domain}
func (h *Handler) DenyDomain(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	p, err := h.deps.Gate.DenyDomain(r.Context(), domain)
	h.writeDomainRule(w, domain, resolver.IntentDeny, p, err)
}

// writeDomainRule answers 200 for applied literal rules and 202 for rules
// still resolving.
func (h *Handler) writeDomainRule(w http.ResponseWriter, domain string, intent resolver.Intent, p *resolver.Pending, err error) {
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	resp := DomainRuleResponse{
		Domain:  domain,
		Intent:  intent.String(),
		Literal: p.Literal(),
	}
	if !p.Literal() {
		writeJSON(w, http.StatusAccepted, resp)
		return
	}
	for _, addr := range p.Addresses() {
		resp.Addresses = append(resp.Addresses, addr.String())
	}
	writeJSONData(w, resp)
}
