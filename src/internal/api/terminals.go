package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// AdmitTerminal admits a client by MAC.
// POST /api/v1/terminals/{mac}
func (h *Handler) AdmitTerminal(w http.ResponseWriter, r *http.Request) {
	var req AdmitRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteInvalidRequest(w, "Invalid JSON: "+err.Error())
		return
	}

	if err := h.deps.Gate.AdmitTerminal(r.Context(), chi.URLParam(r, "mac"), req.Token, req.Temporary); err != nil {
		WriteDomainError(w, err)
		return
	}
	writeNoContent(w)
}

// EvictTerminal revokes a client's access.
// DELETE /api/v1/terminals/{mac}
func (h *Handler) EvictTerminal(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Gate.EvictTerminal(r.Context(), chi.URLParam(r, "mac")); err != nil {
		WriteDomainError(w, err)
		return
	}
	writeNoContent(w)
}

// WhitelistTerminal exempts a client from authentication.
// POST /api/v1/terminals/{mac}/whitelist
func (h *Handler) WhitelistTerminal(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Gate.WhitelistTerminal(r.Context(), chi.URLParam(r, "mac")); err != nil {
		WriteDomainError(w, err)
		return
	}
	writeNoContent(w)
}

// AdmitClient admits the client currently using an IP on the gated interface.
// POST /api/v1/clients/{ip}
func (h *Handler) AdmitClient(w http.ResponseWriter, r *http.Request) {
	var req AdmitRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteInvalidRequest(w, "Invalid JSON: "+err.Error())
		return
	}

	ip := chi.URLParam(r, "ip")
	mac, err := h.deps.Gate.AdmitTerminalByIP(r.Context(), ip, req.Token, req.Temporary)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeJSONData(w, ClientAdmitResponse{IP: ip, MAC: mac})
}
