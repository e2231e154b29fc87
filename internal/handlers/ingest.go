package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Theodlz/skyportal/internal/models"
	"github.com/Theodlz/skyportal/internal/queue"
)

// IngestHandler is the producer-facing API: the web application posts
// trigger events here and they are appended to the candidate queue.
type IngestHandler struct {
	candidates *queue.Queue[models.TriggerEvent]
	logger     zerolog.Logger
}

func NewIngestHandler(candidates *queue.Queue[models.TriggerEvent], logger zerolog.Logger) *IngestHandler {
	return &IngestHandler{
		candidates: candidates,
		logger:     logger.With().Str("component", "ingest").Logger(),
	}
}

// Status reports the current candidate queue depth.
func (h *IngestHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   map[string]int{"queue_length": h.candidates.Len()},
	})
}

// Enqueue validates one trigger event and appends it to the candidate
// queue. Validation failures are the caller's problem; nothing is queued.
func (h *IngestHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		TargetClassName string `json:"target_class_name"`
		TargetID        int64  `json:"target_id"`
		AllocationID    int64  `json:"allocation_id"`
		ObjID           string `json:"obj_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status":  "error",
			"message": "Malformed JSON data",
		})
		return
	}

	kind, err := models.ParseTargetKind(payload.TargetClassName)
	if err != nil || payload.TargetID <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status":  "error",
			"message": "Malformed JSON data",
		})
		return
	}

	h.candidates.Append(models.TriggerEvent{
		Kind:         kind,
		TargetID:     payload.TargetID,
		AllocationID: payload.AllocationID,
		ObjID:        payload.ObjID,
	})
	h.logger.Debug().
		Str("target_class_name", string(kind)).
		Int64("target_id", payload.TargetID).
		Msg("trigger event queued")

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Notification added to queue",
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
