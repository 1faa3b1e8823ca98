package api

import (
	"net/http"
)

var (
	// Version information set via ldflags at build time
	Version = "dev"
	Date    = "n/a"
	Commit  = "n/a"
)

// GetStatus returns daemon status information.
// GET /api/v1/status
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.deps.Config.Get()
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	state := "disabled"
	if h.deps.Gate.Binding() != nil {
		state = "enabled"
	}

	writeJSONData(w, StatusResponse{
		Version: VersionInfo{
			Version: Version,
			Date:    Date,
			Commit:  Commit,
		},
		Interface:   cfg.General.Interface,
		ControlDir:  cfg.Kernel.ControlDir,
		GatingState: state,
	})
}
