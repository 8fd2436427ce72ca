package transport

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON body of every non-2xx API answer.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Details []string `json:"details,omitempty"`
}

// ReadJSON decodes at most maxBytes of the request body into v.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any, maxBytes int64) error {
	body := r.Body
	if maxBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
	return json.NewDecoder(body).Decode(v)
}

// WriteJSON writes v as JSON with a status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, message string, details ...string) {
	WriteJSON(w, status, ErrorResponse{Error: message, Details: details})
}
