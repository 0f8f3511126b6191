package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/mmynk/allotment/internal/middleware"
	"github.com/mmynk/allotment/internal/models"
	"github.com/mmynk/allotment/internal/service"
)

const (
	msgNotFound     = "Participant not found"
	msgInvalidJSON  = "Invalid JSON"
	msgListFailed   = "Failed to fetch participants"
	msgGetFailed    = "Failed to fetch participant"
	msgCreateFailed = "Failed to create participant"
	msgUpdateFailed = "Failed to update participant"
	msgDeleteFailed = "Failed to delete participant"
)

// ParticipantService is the allocation service consumed by the handlers.
type ParticipantService interface {
	List(ctx context.Context) (models.Summary, error)
	Get(ctx context.Context, id int64) (models.Participant, bool, error)
	Add(ctx context.Context, in service.AddInput) (models.Participant, error)
	UpdatePercentage(ctx context.Context, id int64, percentage float64) (models.Participant, error)
	Remove(ctx context.Context, id int64) (int64, error)
}

// CreateParticipantRequest is the body of POST /participants.
type CreateParticipantRequest struct {
	FirstName  string          `json:"first_name"`
	LastName   string          `json:"last_name"`
	Percentage json.RawMessage `json:"percentage"`
}

// UpdateParticipantRequest is the body of PUT /participants/{id}.
type UpdateParticipantRequest struct {
	Percentage json.RawMessage `json:"percentage"`
}

// DeleteParticipantResponse is the store deletion result returned by DELETE.
type DeleteParticipantResponse struct {
	AffectedRows int64 `json:"affectedRows"`
}

type ParticipantHandler struct {
	svc ParticipantService
}

func NewParticipantHandler(svc ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{svc: svc}
}

// ListParticipants handles GET /participants
func (h *ParticipantHandler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.List(r.Context())
	if err != nil {
		logFailure(r, "ListParticipants failed", err)
		writeError(w, http.StatusInternalServerError, msgListFailed)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GetParticipant handles GET /participants/{id}
func (h *ParticipantHandler) GetParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}

	participant, found, err := h.svc.Get(r.Context(), id)
	if err != nil {
		logFailure(r, "GetParticipant failed", err, "participant_id", id)
		writeError(w, http.StatusInternalServerError, msgGetFailed)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}
	writeJSON(w, http.StatusOK, participant)
}

// CreateParticipant handles POST /participants
func (h *ParticipantHandler) CreateParticipant(w http.ResponseWriter, r *http.Request) {
	var req CreateParticipantRequest
	if err := parseJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	percentage, ok := parsePercentage(req.Percentage)
	if !ok {
		writeError(w, http.StatusBadRequest, service.ErrInvalidPercentage.Error())
		return
	}

	participant, err := h.svc.Add(r.Context(), service.AddInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Percentage: percentage,
	})
	if err != nil {
		if service.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		logFailure(r, "CreateParticipant failed", err)
		writeError(w, http.StatusInternalServerError, msgCreateFailed)
		return
	}
	writeJSON(w, http.StatusCreated, participant)
}

// UpdateParticipant handles PUT /participants/{id}
func (h *ParticipantHandler) UpdateParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}

	var req UpdateParticipantRequest
	if err := parseJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	percentage, ok := parsePercentage(req.Percentage)
	if !ok {
		writeError(w, http.StatusBadRequest, service.ErrInvalidPercentage.Error())
		return
	}

	participant, err := h.svc.UpdatePercentage(r.Context(), id, percentage)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, participant)
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	case service.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logFailure(r, "UpdateParticipant failed", err, "participant_id", id)
		writeError(w, http.StatusInternalServerError, msgUpdateFailed)
	}
}

// DeleteParticipant handles DELETE /participants/{id}
func (h *ParticipantHandler) DeleteParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, msgNotFound)
		return
	}

	n, err := h.svc.Remove(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, DeleteParticipantResponse{AffectedRows: n})
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	default:
		logFailure(r, "DeleteParticipant failed", err, "participant_id", id)
		writeError(w, http.StatusInternalServerError, msgDeleteFailed)
	}
}

// pathID parses the {id} segment. Anything that is not an integer names no
// participant.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// parsePercentage accepts a JSON number or a string holding one, with
// surrounding whitespace allowed. Anything else, including a missing field,
// is rejected.
func parsePercentage(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}

	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// logFailure logs an unexpected error. The cause never reaches the client.
func logFailure(r *http.Request, msg string, err error, attrs ...any) {
	attrs = append(attrs, "error", err, "request_id", middleware.GetRequestID(r.Context()))
	slog.Error(msg, attrs...)
}
