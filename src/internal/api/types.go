package api

import (
	"github.com/captivegate/captivegate/src/internal/netinfo"
)

// DataResponse wraps successful responses with a "data" field.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// GatingRequest enables gating. An empty interface selects the configured one.
type GatingRequest struct {
	Interface string `json:"interface,omitempty"`
}

// GatingResponse describes the gating state as last set through this daemon.
type GatingResponse struct {
	Enabled bool                      `json:"enabled"`
	Binding *netinfo.InterfaceBinding `json:"binding,omitempty"`
}

// DomainRuleResponse describes a submitted domain rule. Addresses are only
// known for literal rules; other rules resolve in the background.
type DomainRuleResponse struct {
	Domain    string   `json:"domain"`
	Intent    string   `json:"intent"`
	Literal   bool     `json:"literal"`
	Addresses []string `json:"addresses,omitempty"`
}

// AdmitRequest carries the session token for a terminal admission.
type AdmitRequest struct {
	Token     string `json:"token"`
	Temporary bool   `json:"temporary"`
}

// ClientAdmitResponse reports the MAC resolved for a client IP.
type ClientAdmitResponse struct {
	IP  string `json:"ip"`
	MAC string `json:"mac"`
}

// InterfacesResponse lists the host interfaces.
type InterfacesResponse struct {
	Interfaces []netinfo.InterfaceInfo `json:"interfaces"`
}

// ARPResponse is the result of a neighbour lookup.
type ARPResponse struct {
	Interface string `json:"interface"`
	IP        string `json:"ip"`
	MAC       string `json:"mac"`
}

// LoginURLResponse is a rendered login redirect URL.
type LoginURLResponse struct {
	URL string `json:"url"`
}

// StatusResponse returns daemon status information.
type StatusResponse struct {
	Version     VersionInfo `json:"version"`
	Interface   string      `json:"interface"`
	ControlDir  string      `json:"control_dir"`
	GatingState string      `json:"gating"`
}

// VersionInfo contains build version information.
type VersionInfo struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}

// HealthCheckResponse contains the results of health checks.
type HealthCheckResponse struct {
	Healthy bool                   `json:"healthy"`
	Checks  map[string]CheckResult `json:"checks"`
}

// CheckResult represents the result of a single health check.
type CheckResult struct {
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}
