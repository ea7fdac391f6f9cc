package api

import "net/http"

// PresetsHandler serves the registered weight presets.
type PresetsHandler struct {
	deps Dependencies
}

// NewPresetsHandler creates a new presets handler.
func NewPresetsHandler(deps Dependencies) *PresetsHandler {
	return &PresetsHandler{deps: deps}
}

// HandleGetPresets handles GET /presets requests.
func (h *PresetsHandler) HandleGetPresets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "api.get_presets", http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Presets())
}
