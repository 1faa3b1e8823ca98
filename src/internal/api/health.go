package api

import (
	"net/http"
	"os"
)

// CheckHealth performs health checks on the daemon.
// GET /api/v1/health
func (h *Handler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthCheckResponse{
		Healthy: true,
		Checks:  make(map[string]CheckResult),
	}

	cfg, err := h.deps.Config.Get()
	if err != nil {
		response.Healthy = false
		response.Checks["config"] = CheckResult{Passed: false, Message: err.Error()}
	} else if err := cfg.ValidateConfig(); err != nil {
		response.Healthy = false
		response.Checks["config"] = CheckResult{Passed: false, Message: "Configuration validation failed: " + err.Error()}
	} else {
		response.Checks["config"] = CheckResult{Passed: true, Message: "Configuration is valid"}
	}

	response.Checks["kernel_module"] = CheckResult{Passed: true, Message: "Control files are present"}
	for _, path := range h.deps.ControlFiles {
		if _, err := os.Stat(path); err != nil {
			response.Healthy = false
			response.Checks["kernel_module"] = CheckResult{Passed: false, Message: "Control file unavailable: " + err.Error()}
			break
		}
	}

	if cfg != nil {
		if _, err := h.deps.Network.Binding(cfg.General.Interface); err != nil {
			response.Healthy = false
			response.Checks["interface"] = CheckResult{Passed: false, Message: err.Error()}
		} else {
			response.Checks["interface"] = CheckResult{Passed: true, Message: cfg.General.Interface + " has an IPv4 address"}
		}
	}

	status := http.StatusOK
	if !response.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}
