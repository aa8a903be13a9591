package handler

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// successResponse builds the {status:"Success", ...} envelope shared by
// every successful endpoint.
func successResponse(extra map[string]any) map[string]any {
	resp := map[string]any{"status": "Success"}
	for k, v := range extra {
		resp[k] = v
	}
	return resp
}
