package mux

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON body written by ResponseError.
type ErrorResponse struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Argument string `json:"argument,omitempty"`
	Source   string `json:"source,omitempty"`
}

// ResponseJSON encodes v as JSON and writes it to the response with the given
// status code. The Content-Type header is set to "application/json".
// If encoding fails, an HTTP 500 Internal Server Error is written instead.
func ResponseJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(buf.Bytes())
}

// ResponseError writes an ErrorResponse with the given status code. An
// empty message is replaced by the status text.
func ResponseError(w http.ResponseWriter, code int, message string) {
	if message == "" {
		message = http.StatusText(code)
	}
	ResponseJSON(w, code, ErrorResponse{Code: code, Message: message})
}

// responseArgumentError writes a 400 response describing a binding failure.
func responseArgumentError(w http.ResponseWriter, err *ArgumentError) {
	ResponseJSON(w, http.StatusBadRequest, ErrorResponse{
		Code:     http.StatusBadRequest,
		Message:  err.Reason,
		Argument: err.Name,
		Source:   err.Source.String(),
	})
}
