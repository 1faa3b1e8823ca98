package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/captivegate/captivegate/src/internal/portalurl"
)

// GetInterfaces returns all network interfaces on the system.
// GET /api/v1/interfaces
func (h *Handler) GetInterfaces(w http.ResponseWriter, r *http.Request) {
	interfaces, err := h.deps.Network.Interfaces()
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeJSONData(w, InterfacesResponse{Interfaces: interfaces})
}

// GetInterface returns the IPv4 binding of one interface.
// GET /api/v1/interfaces/{name}
func (h *Handler) GetInterface(w http.ResponseWriter, r *http.Request) {
	binding, err := h.deps.Network.Binding(chi.URLParam(r, "name"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeJSONData(w, binding)
}

// GetARP looks up the MAC of a neighbour.
// GET /api/v1/arp?ip=<ipv4>[&interface=<name>]
func (h *Handler) GetARP(w http.ResponseWriter, r *http.Request) {
	ip := r.URL.Query().Get("ip")
	if ip == "" {
		WriteInvalidRequest(w, "ip is required")
		return
	}

	iface := r.URL.Query().Get("interface")
	if iface == "" {
		cfg, err := h.deps.Config.Get()
		if err != nil {
			WriteDomainError(w, err)
			return
		}
		iface = cfg.General.Interface
	}

	mac, err := h.deps.Network.ARPLookup(iface, ip)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeJSONData(w, ARPResponse{Interface: iface, IP: ip, MAC: mac})
}

// GetLoginURL renders the configured login redirect for a client.
// GET /api/v1/portal/login-url?mac=&ip=&url=
func (h *Handler) GetLoginURL(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.deps.Config.Get()
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if cfg.General.LoginURL == "" {
		WriteNotFound(w, "login_url")
		return
	}

	tmpl, err := portalurl.Parse(cfg.General.LoginURL)
	if err != nil {
		WriteInternalError(w, err.Error())
		return
	}

	iface := cfg.General.Interface
	params := portalurl.Params{
		GatewayPort: int(cfg.General.Port),
		MAC:         r.URL.Query().Get("mac"),
		IP:          r.URL.Query().Get("ip"),
		URL:         r.URL.Query().Get("url"),
	}
	if binding, err := h.deps.Network.Binding(iface); err == nil {
		params.GatewayAddress = binding.IP.String()
	}
	if id, err := h.deps.Network.InterfaceMAC(iface); err == nil {
		params.GatewayID = id
	}

	rendered, err := tmpl.Render(params)
	if err != nil {
		WriteInternalError(w, err.Error())
		return
	}
	writeJSONData(w, LoginURLResponse{URL: rendered})
}
