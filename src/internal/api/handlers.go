package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/captivegate/captivegate/src/internal/config"
	"github.com/captivegate/captivegate/src/internal/metrics"
	"github.com/captivegate/captivegate/src/internal/netinfo"
	"github.com/captivegate/captivegate/src/internal/resolver"
)

// Gate is the set of access control operations served by the API.
type Gate interface {
	EnableGating(ctx context.Context, iface string) error
	DisableGating(ctx context.Context) error
	Binding() *netinfo.InterfaceBinding
	AllowDestination(ctx context.Context, ip string) error
	DenyDestination(ctx context.Context, ip string) error
	AllowDomain(ctx context.Context, domain string) (*resolver.Pending, error)
	DenyDomain(ctx context.Context, domain string) (*resolver.Pending, error)
	AdmitTerminal(ctx context.Context, mac, token string, temporary bool) error
	EvictTerminal(ctx context.Context, mac string) error
	WhitelistTerminal(ctx context.Context, mac string) error
	AdmitTerminalByIP(ctx context.Context, ip, token string, temporary bool) (string, error)
}

// NetworkInfo answers interface and neighbour queries.
type NetworkInfo interface {
	Interfaces() ([]netinfo.InterfaceInfo, error)
	Binding(name string) (*netinfo.InterfaceBinding, error)
	InterfaceMAC(name string) (string, error)
	ARPLookup(iface, ip string) (string, error)
}

// Dependencies are the collaborators of the API handlers.
type Dependencies struct {
	Gate    Gate
	Network NetworkInfo
	Config  *config.Provider
	Metrics *metrics.Metrics
	// ControlFiles are checked by the health endpoint.
	ControlFiles []string
}

// Handler manages all API endpoints and dependencies.
type Handler struct {
	deps Dependencies
}

// NewHandler creates a new API handler.
func NewHandler(deps Dependencies) *Handler {
	return &Handler{deps: deps}
}

// writeJSON writes a JSON response with the given status code and data.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(DataResponse{Data: data})
}

// writeJSONData writes a successful JSON response with data.
func writeJSONData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, data)
}

// writeNoContent writes a 204 No Content response.
func writeNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// decodeJSON decodes an optional JSON body. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
