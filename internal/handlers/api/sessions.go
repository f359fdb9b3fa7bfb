package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/lopez-it-welt/worktrack/internal/models"
	"github.com/lopez-it-welt/worktrack/internal/services/tracker"
)

// startSessionRequest mirrors the admin panel's session creation body.
// The German field names are part of the wire contract.
type startSessionRequest struct {
	UserID      string `json:"user_id"`
	Module      string `json:"module"`
	Description string `json:"taetigkeit"`
	Trigger     string `json:"ausloeser"`
	Problem     string `json:"problem"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	ProjectID   *int64 `json:"project_id"`
	TaskID      *int64 `json:"task_id"`
}

type startSessionResponse struct {
	Message       string          `json:"message,omitempty"`
	Session       *models.Session `json:"session"`
	AlreadyActive bool            `json:"already_active"`
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	output, err := h.trackerService.StartSession(r.Context(), &tracker.StartSessionInput{
		UserID:      req.UserID,
		Description: req.Description,
		Module:      req.Module,
		Category:    req.Category,
		Priority:    req.Priority,
		Trigger:     req.Trigger,
		Problem:     req.Problem,
		ProjectID:   req.ProjectID,
		TaskID:      req.TaskID,
	})
	if err != nil {
		renderError(w, err)
		return
	}

	// An existing active session is not an error: the caller gets the
	// running session back with a 200
	if output.AlreadyActive {
		renderJSON(w, http.StatusOK, startSessionResponse{
			Message:       "Aktive Session existiert bereits",
			Session:       output.Session,
			AlreadyActive: true,
		})
		return
	}

	renderJSON(w, http.StatusCreated, startSessionResponse{
		Session: output.Session,
	})
}

func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
	input := &tracker.ListSessionsInput{
		UserID: r.URL.Query().Get("user_id"),
		Status: models.SessionStatus(r.URL.Query().Get("status")),
	}

	if raw := r.URL.Query().Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			renderJSON(w, http.StatusBadRequest, errorResponse{Error: "since must be RFC 3339"})
			return
		}
		input.Since = since
	}

	output, err := h.trackerService.ListSessions(r.Context(), input)
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, output.Sessions)
}

type sessionDetailResponse struct {
	Session     *models.Session    `json:"session"`
	Activities  []*models.Activity `json:"activities"`
	ProjectName string             `json:"project_name,omitempty"`
	TaskName    string             `json:"task_name,omitempty"`
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	output, err := h.trackerService.GetSession(r.Context(), &tracker.GetSessionInput{
		SessionID: mux.Vars(r)["id"],
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, sessionDetailResponse{
		Session:     output.Session,
		Activities:  output.Activities,
		ProjectName: output.ProjectName,
		TaskName:    output.TaskName,
	})
}

type heartbeatRequest struct {
	Timestamp time.Time `json:"timestamp"`
}

type heartbeatResponse struct {
	SessionID  string    `json:"session_id"`
	ServerTime time.Time `json:"server_time"`
	ClientTime time.Time `json:"client_time"`
}

func (h *Handler) heartbeat(w http.ResponseWriter, r *http.Request) {
	// The client timestamp is optional: without a body the server clock
	// alone drives the heartbeat
	var req heartbeatRequest
	if r.Body != nil && r.ContentLength != 0 {
		if !decodeBody(w, r, &req) {
			return
		}
	}

	output, err := h.trackerService.Heartbeat(r.Context(), &tracker.HeartbeatInput{
		SessionID:       mux.Vars(r)["id"],
		ClientTimestamp: req.Timestamp,
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, heartbeatResponse{
		SessionID:  output.SessionID,
		ServerTime: output.ServerTime,
		ClientTime: output.ClientTime,
	})
}

type recordActivityRequest struct {
	Type    string `json:"type"`
	Hash    string `json:"hash"`
	Message string `json:"message"`
}

func (h *Handler) recordActivity(w http.ResponseWriter, r *http.Request) {
	var req recordActivityRequest
	if !decodeBody(w, r, &req) {
		return
	}

	output, err := h.trackerService.RecordActivity(r.Context(), &tracker.RecordActivityInput{
		SessionID: mux.Vars(r)["id"],
		Type:      models.ActivityType(req.Type),
		Hash:      req.Hash,
		Message:   req.Message,
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusCreated, output.Activity)
}

type completeSessionRequest struct {
	Problem  string `json:"problem"`
	Category string `json:"category"`
}

func (h *Handler) completeSession(w http.ResponseWriter, r *http.Request) {
	var req completeSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	output, err := h.trackerService.CompleteSession(r.Context(), &tracker.CompleteSessionInput{
		SessionID: mux.Vars(r)["id"],
		Problem:   req.Problem,
		Category:  req.Category,
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, output.Session)
}

type interruptSessionRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) interruptSession(w http.ResponseWriter, r *http.Request) {
	var req interruptSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	output, err := h.trackerService.MarkInterrupted(r.Context(), &tracker.MarkInterruptedInput{
		SessionID: mux.Vars(r)["id"],
		Reason:    req.Reason,
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, output.Session)
}

type closeAllRequest struct {
	UserID string `json:"user_id"`
}

type closeAllResponse struct {
	ClosedCount int               `json:"closed_count"`
	Sessions    []*models.Session `json:"sessions"`
}

func (h *Handler) closeAllSessions(w http.ResponseWriter, r *http.Request) {
	// The body is optional: an empty close-all applies to every user
	var req closeAllRequest
	if r.Body != nil && r.ContentLength != 0 {
		if !decodeBody(w, r, &req) {
			return
		}
	}

	output, err := h.trackerService.CloseAllActive(r.Context(), &tracker.CloseAllActiveInput{
		UserID: req.UserID,
	})
	if err != nil {
		renderError(w, err)
		return
	}

	renderJSON(w, http.StatusOK, closeAllResponse{
		ClosedCount: output.ClosedCount,
		Sessions:    output.Sessions,
	})
}
