package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"adplan/internal/core/domain"
)

// bucketPayload is the wire form of a budget bucket. Actual is derived
// server-side and ignored on writes.
type bucketPayload struct {
	ID         string   `json:"id,omitempty"`
	Name       string   `json:"name"`
	Target     float64  `json:"target"`
	Actual     float64  `json:"actual"`
	Color      string   `json:"color"`
	Publishers []string `json:"publishers"`
}

// handleListBuckets returns a version's buckets with derived actuals.
func (h *Handler) handleListBuckets(w http.ResponseWriter, r *http.Request) {
	buckets, err := h.svc.ListBuckets(r.Context(), chi.URLParam(r, "versionID"))
	if err != nil {
		h.respondError(w, "list buckets", err)
		return
	}
	out := make([]bucketPayload, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, bucketPayload{
			ID: b.ID, Name: b.Name, Target: b.Target, Actual: b.Actual,
			Color: b.Color, Publishers: b.Publishers,
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

// handleSaveBucket creates or updates a bucket under a version.
func (h *Handler) handleSaveBucket(w http.ResponseWriter, r *http.Request) {
	var payload bucketPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if id := chi.URLParam(r, "bucketID"); id != "" {
		payload.ID = id
	}
	saved, err := h.svc.SaveBucket(r.Context(), domain.Bucket{
		ID:         payload.ID,
		VersionID:  chi.URLParam(r, "versionID"),
		Name:       payload.Name,
		Target:     payload.Target,
		Color:      payload.Color,
		Publishers: payload.Publishers,
	})
	if err != nil {
		h.respondError(w, "save bucket", err)
		return
	}
	h.writeJSON(w, http.StatusOK, bucketPayload{
		ID: saved.ID, Name: saved.Name, Target: saved.Target, Actual: saved.Actual,
		Color: saved.Color, Publishers: saved.Publishers,
	})
}

// handleDeleteBucket removes a bucket; its tactics become unassigned.
func (h *Handler) handleDeleteBucket(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteBucket(r.Context(), chi.URLParam(r, "bucketID")); err != nil {
		h.respondError(w, "delete bucket", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
