package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/digital-guild/guild/internal/domain"
)

// ─── POST /recommend ────────────────────────────────────────────────────────
// Wire format matches the original client: camelCase keys on this endpoint.

type recommendRequest struct {
	JobID *int64 `json:"jobId"`
}

type recommendationDTO struct {
	ID         int64   `json:"id"`
	JobID      int64   `json:"jobId"`
	WorkerID   int64   `json:"workerId"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
}

// handleRecommend scores the fixed candidate pool against the job.
// Per-worker generation failures are swallowed inside the batch and simply
// omitted from the result list.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.JobID == nil {
		writeError(w, http.StatusBadRequest, "jobId is required")
		return
	}

	recs, err := s.recommender.ForJob(r.Context(), *req.JobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]recommendationDTO, 0, len(recs))
	for _, rec := range recs {
		out = append(out, recommendationDTO{
			ID:         rec.ID,
			JobID:      rec.JobID,
			WorkerID:   rec.WorkerID,
			Confidence: rec.Confidence,
			Reason:     rec.Reason,
			CreatedAt:  rec.CreatedAt.Format(time.RFC3339),
			UpdatedAt:  rec.UpdatedAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"recommendations": out,
	})
}
