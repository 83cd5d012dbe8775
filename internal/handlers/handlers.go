package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"mytodo/internal/lifecycle"
	"mytodo/internal/logging"
	"mytodo/internal/models"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	tasks  *lifecycle.Service
	logger *log.Logger
	now    func() time.Time
}

// New creates a new Handlers instance. A nil logger discards output.
func New(svc *lifecycle.Service, logger *log.Logger) *Handlers {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handlers{
		tasks:  svc,
		logger: logger,
		now:    time.Now,
	}
}

// Routes registers every endpoint on r.
func (h *Handlers) Routes(r chi.Router) {
	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/tasks", h.ListTasks)
		r.Post("/tasks", h.CreateTask)
		r.Post("/tasks/{id}/toggle", h.ToggleTask)
		r.Delete("/tasks/{id}", h.DeleteTask)

		r.Get("/history", h.ListHistory)
		r.Delete("/history", h.ClearHistory)
		r.Post("/history/{id}/restore", h.RestoreTask)
		r.Delete("/history/{id}", h.PurgeTask)
	})
}

// Health reports that the server is up.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type taskJSON struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Priority     string     `json:"priority"`
	Completed    bool       `json:"completed"`
	CreatedAt    time.Time  `json:"createdAt"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty"`
	DeletedLabel string     `json:"deletedLabel,omitempty"`
}

type viewJSON struct {
	Error        string     `json:"error,omitempty"`
	Task         *taskJSON  `json:"task"`
	Tasks        []taskJSON `json:"tasks"`
	DeletedTasks []taskJSON `json:"deletedTasks"`
}

func (h *Handlers) toJSON(t models.Task, now time.Time) taskJSON {
	out := taskJSON{
		ID:        t.ID,
		Title:     t.Title,
		Priority:  string(t.Priority),
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
	}
	if at, ok := t.DeletedAt(); ok {
		if !at.IsZero() {
			out.DeletedAt = &at
		}
		out.DeletedLabel = t.DeletedLabel(now)
	}
	return out
}

func (h *Handlers) encodeView(v lifecycle.View) viewJSON {
	now := h.now()
	out := viewJSON{
		Tasks:        make([]taskJSON, 0, len(v.Active)),
		DeletedTasks: make([]taskJSON, 0, len(v.Deleted)),
	}
	if v.Task != nil {
		t := h.toJSON(*v.Task, now)
		out.Task = &t
	}
	for _, t := range v.Active {
		out.Tasks = append(out.Tasks, h.toJSON(t, now))
	}
	for _, t := range v.Deleted {
		out.DeletedTasks = append(out.DeletedTasks, h.toJSON(t, now))
	}
	return out
}

// respondView writes the view, or the error together with whatever view the
// service could still read.
func (h *Handlers) respondView(w http.ResponseWriter, v lifecycle.View, err error) {
	body := h.encodeView(v)
	code := http.StatusOK

	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			code = http.StatusBadRequest
			body.Error = verr.Error()
		} else {
			h.logger.Error("internal server error", "err", err)
			code = http.StatusInternalServerError
			body.Error = "internal server error"
		}
	}

	respondJSON(w, code, body)
}

func respondJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

// respondError sends an error response with no task sets.
func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, map[string]string{"error": message})
}
