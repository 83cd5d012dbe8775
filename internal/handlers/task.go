package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"mytodo/internal/models"
)

func taskID(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "id"))
}

// ListTasks returns both task sets.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	v, err := h.tasks.Snapshot(r.Context())
	h.respondView(w, v, err)
}

// CreateTask creates a new active task from the title and priority form
// fields.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	priority, err := models.ParsePriority(r.FormValue("priority"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	v, err := h.tasks.Create(r.Context(), r.FormValue("title"), priority)
	if err == nil {
		h.logger.Info("task created", "id", v.Task.ID)
	}
	h.respondView(w, v, err)
}

// ToggleTask toggles the completion status of an active task.
func (h *Handlers) ToggleTask(w http.ResponseWriter, r *http.Request) {
	id := taskID(r)
	if id == "" {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	v, err := h.tasks.Toggle(r.Context(), id)
	h.respondView(w, v, err)
}

// DeleteTask moves an active task to the history.
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id := taskID(r)
	if id == "" {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	v, err := h.tasks.SoftDelete(r.Context(), id)
	h.respondView(w, v, err)
}
