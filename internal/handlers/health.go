package handlers

import "net/http"

func (h *CheckoutHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health.Ping(r.Context()); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "store unreachable",
			})
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": true})
}
