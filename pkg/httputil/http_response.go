package httputil

import (
	"net/http"

	"github.com/bytedance/sonic"
)

// Envelope is the shape of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func WriteErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	writeEnvelope(w, statusCode, Envelope{
		Success: false,
		Message: message,
	})
}

func WriteJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	writeEnvelope(w, statusCode, Envelope{
		Success: true,
		Data:    data,
	})
}

func WriteMessageResponse(w http.ResponseWriter, statusCode int, message string) {
	writeEnvelope(w, statusCode, Envelope{
		Success: true,
		Message: message,
	})
}

func writeEnvelope(w http.ResponseWriter, statusCode int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	sonic.ConfigDefault.NewEncoder(w).Encode(body)
}
