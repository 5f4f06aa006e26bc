package handlers

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ryoungl/health-information-harmonizer/logging"
)

// Minimum response size to consider compression (1KB)
const compressionThreshold = 1024

// RespondWithJSON writes a JSON response, gzip-compressed when the payload
// crosses the threshold and the client accepts gzip.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err, "payload_type", fmt.Sprintf("%T", payload))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))

	shouldCompress := len(data) >= compressionThreshold &&
		strings.Contains(strings.ToLower(r.Header.Get("Accept-Encoding")), "gzip")

	if shouldCompress {
		// Content-Encoding must be set before the status line goes out
		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(code)

		gz := gzip.NewWriter(w)
		defer gz.Close()
		gz.Write(data)

		logging.Debug("Compressed JSON response", "original_size", len(data))
		return
	}

	w.WriteHeader(code)
	w.Write(data)
}

// RespondWithError writes a JSON error response. Error bodies are small
// and never compressed.
func RespondWithError(w http.ResponseWriter, code int, message string) {
	body, err := json.Marshal(map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	})
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
	w.WriteHeader(code)
	w.Write(body)

	logging.Debug("Sent error response", "code", code, "size", len(body))
}
