package server

import (
	"encoding/json"
	"net/http"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json; charset=utf-8"
)

func respondJSON(w http.ResponseWriter, payload any, statusCode int) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeJSONError renders the flat error object the polling client checks
// for, e.g. {"error":"invalid_access_key"}.
func writeJSONError(w http.ResponseWriter, errorCode string, statusCode int) {
	respondJSON(w, map[string]string{"error": errorCode}, statusCode)
}

func respondHTML(w http.ResponseWriter, html string, statusCode int) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(html))
}
