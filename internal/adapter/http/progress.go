package httpadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"adplan/internal/core/domain"
)

// handleTagProgress returns the segmented CM360 tag progress for a
// campaign version: counts and percentages for created, needs-re-tag and
// never-tagged entities.
func (h *Handler) handleTagProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.svc.TagProgress(r.Context(), chi.URLParam(r, "versionID"))
	if err != nil {
		h.respondError(w, "tag progress", err)
		return
	}
	h.writeJSON(w, http.StatusOK, progress)
}

// entityTypeParam validates the {entityType} path parameter against the
// snapshot contract values.
func entityTypeParam(r *http.Request) (domain.EntityType, bool) {
	typ := domain.EntityType(chi.URLParam(r, "entityType"))
	switch typ {
	case domain.EntityTactic, domain.EntityPlacement, domain.EntityCreative:
		return typ, true
	}
	return "", false
}

// handleTagChanges returns the change record for one entity: latest
// snapshot, history, and the list of drifted fields.
func (h *Handler) handleTagChanges(w http.ResponseWriter, r *http.Request) {
	typ, ok := entityTypeParam(r)
	if !ok {
		http.Error(w, "unknown entity type", http.StatusBadRequest)
		return
	}
	rec, err := h.svc.TagChanges(r.Context(), typ, chi.URLParam(r, "entityID"))
	if err != nil {
		h.respondError(w, "tag changes", err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"state":          rec.State,
		"has_changes":    rec.HasChanges,
		"changed_fields": rec.ChangedFields,
		"latest":         rec.Latest,
		"history":        rec.History,
	})
}

// handleRecordSnapshot appends a snapshot of the entity's current contract
// fields, returning the assigned version. This is how the tagging workflow
// marks an entity as tagged.
func (h *Handler) handleRecordSnapshot(w http.ResponseWriter, r *http.Request) {
	typ, ok := entityTypeParam(r)
	if !ok {
		http.Error(w, "unknown entity type", http.StatusBadRequest)
		return
	}
	version, err := h.svc.RecordTagSnapshot(r.Context(), typ, chi.URLParam(r, "entityID"))
	if err != nil {
		h.respondError(w, "record snapshot", err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]int{"version": version})
}
