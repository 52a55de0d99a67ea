package handlers

import (
	"encoding/json"
	"net/http"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{"error": message})
}

// warningResponse acknowledges a webhook that could not be fully processed.
// Mercado Pago retries non-2xx deliveries indefinitely, so every failure
// after id resolution is answered with 200 and a warning field.
func warningResponse(warning string, extra map[string]any) map[string]any {
	resp := map[string]any{
		"ok":      true,
		"warning": warning,
	}
	for k, v := range extra {
		resp[k] = v
	}
	return resp
}
