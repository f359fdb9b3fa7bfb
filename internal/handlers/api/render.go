package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/lopez-it-welt/worktrack/internal/services/tracker"
)

// errorResponse is the body sent for every failed request
type errorResponse struct {
	Error string `json:"error"`
}

func renderJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// renderError maps service errors onto HTTP status codes. Anything the
// service does not classify is a 500; the detail stays in the log.
func renderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tracker.ErrSessionNotFound):
		renderJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, tracker.ErrInvalidSessionState):
		renderJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, tracker.ErrInvalidDescription),
		errors.Is(err, tracker.ErrInvalidActivityType),
		errors.Is(err, tracker.ErrMissingUserID):
		renderJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		log.Printf("Error handling request: %v", err)
		renderJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// decodeBody parses a JSON request body into the given struct
func decodeBody(w http.ResponseWriter, r *http.Request, body interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(body); err != nil {
		renderJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	return true
}
