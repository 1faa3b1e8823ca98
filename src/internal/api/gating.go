package api

import (
	"net/http"
)

// GetGating returns the current gating state.
// GET /api/v1/gating
func (h *Handler) GetGating(w http.ResponseWriter, r *http.Request) {
	binding := h.deps.Gate.Binding()
	writeJSONData(w, GatingResponse{Enabled: binding != nil, Binding: binding})
}

// EnableGating binds the kernel module to an interface and enables it.
// POST /api/v1/gating
func (h *Handler) EnableGating(w http.ResponseWriter, r *http.Request) {
	var req GatingRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteInvalidRequest(w, "Invalid JSON: "+err.Error())
		return
	}

	iface := req.Interface
	if iface == "" {
		cfg, err := h.deps.Config.Get()
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		iface = cfg.General.Interface
	}

	if err := h.deps.Gate.EnableGating(r.Context(), iface); err != nil {
		WriteDomainError(w, err)
		return
	}
	writeJSONData(w, GatingResponse{Enabled: true, Binding: h.deps.Gate.Binding()})
}

// DisableGating disables enforcement.
// DELETE /api/v1/gating
func (h *Handler) DisableGating(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Gate.DisableGating(r.Context()); err != nil {
		WriteDomainError(w, err)
		return
	}
	writeNoContent(w)
}
