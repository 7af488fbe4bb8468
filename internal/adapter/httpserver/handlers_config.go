package httpserver

import "net/http"

// ConfigStatusHandler reports whether an API key is configured. The key
// itself is never returned.
func (s *Server) ConfigStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":    true,
			"configured": s.Probe.Configured,
			"provider":   s.Probe.Provider,
		})
	}
}

// ConfigValidateHandler checks a candidate key against the model service
// without storing it.
func (s *Server) ConfigValidateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !acceptsJSON(w, r) {
			return
		}
		var req validateKeyRequest
		if details, err := decodeJSON(w, r, 4<<10, &req); err != nil {
			writeError(w, r, err, details)
			return
		}
		v, err := s.Probe.Validate(r.Context(), req.APIKey)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "validation": v})
	}
}
