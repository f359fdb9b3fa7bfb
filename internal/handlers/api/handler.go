package api

import (
	"errors"

	"github.com/gorilla/mux"
	"github.com/lopez-it-welt/worktrack/internal/services/tracker"
)

// Handler exposes the tracker service as the admin time-tracking API
type Handler struct {
	trackerService tracker.Service
}

// Config holds the configuration for the API handler
type Config struct {
	// Tracker service
	TrackerService tracker.Service
}

// New creates a new API handler
func New(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.TrackerService == nil {
		return nil, errors.New("tracker service cannot be nil")
	}

	return &Handler{
		trackerService: cfg.TrackerService,
	}, nil
}

// RegisterRoutes attaches all time-tracking endpoints to the router
func (h *Handler) RegisterRoutes(r *mux.Router) {
	api := r.PathPrefix("/api/time-tracking").Subrouter()

	api.HandleFunc("/sessions", h.startSession).Methods("POST")
	api.HandleFunc("/sessions", h.listSessions).Methods("GET")

	// The close-all route must be registered before the {id} routes so
	// mux does not capture "close-all" as a session id
	api.HandleFunc("/sessions/close-all", h.closeAllSessions).Methods("POST")

	api.HandleFunc("/sessions/{id}", h.getSession).Methods("GET")
	api.HandleFunc("/sessions/{id}/heartbeat", h.heartbeat).Methods("POST")
	api.HandleFunc("/sessions/{id}/activity", h.recordActivity).Methods("POST")
	api.HandleFunc("/sessions/{id}/complete", h.completeSession).Methods("POST")
	api.HandleFunc("/sessions/{id}/interrupt", h.interruptSession).Methods("POST")

	api.HandleFunc("/stats", h.getStats).Methods("GET")
	api.HandleFunc("/billing/entries", h.billableEntries).Methods("GET")
}
