package handlers

import (
	"net/http"
)

// ListHistory returns both task sets. Deleted tasks carry a relative
// deletion label.
func (h *Handlers) ListHistory(w http.ResponseWriter, r *http.Request) {
	v, err := h.tasks.Snapshot(r.Context())
	h.respondView(w, v, err)
}

// RestoreTask moves a deleted task back to the active set.
func (h *Handlers) RestoreTask(w http.ResponseWriter, r *http.Request) {
	id := taskID(r)
	if id == "" {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	v, err := h.tasks.Restore(r.Context(), id)
	h.respondView(w, v, err)
}

// PurgeTask permanently removes a deleted task.
func (h *Handlers) PurgeTask(w http.ResponseWriter, r *http.Request) {
	id := taskID(r)
	if id == "" {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	v, err := h.tasks.Purge(r.Context(), id)
	if err == nil && v.Changed() {
		h.logger.Info("task purged", "id", id)
	}
	h.respondView(w, v, err)
}

// ClearHistory empties the deleted set.
func (h *Handlers) ClearHistory(w http.ResponseWriter, r *http.Request) {
	v, err := h.tasks.ClearDeleted(r.Context())
	if err == nil {
		h.logger.Info("history cleared")
	}
	h.respondView(w, v, err)
}
