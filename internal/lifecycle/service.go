// Package lifecycle implements the task lifecycle on top of the two stored
// task sets: create, toggle, soft delete, restore, purge and clear.
//
// Every mutation reads the full sets, changes them in memory and writes them
// back. Moves between the sets are written through a single WriteSets call so
// a store that supports transactions never persists half a move. Sets written
// by older, non-transactional versions are repaired on load, see Reconcile.
package lifecycle

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"mytodo/internal/logging"
	"mytodo/internal/models"
	"mytodo/internal/store"
)

// Records is the persistence the service needs.
type Records interface {
	ReadSet(ctx context.Context, set store.Set) ([]models.Task, error)
	WriteSets(ctx context.Context, sets map[store.Set][]models.Task) error
	ClearSet(ctx context.Context, set store.Set) error
}

// View is the state of both sets after an operation. Active is sorted by
// creation time and Deleted by deletion time, newest first. Task is the task
// the operation affected, or nil when the operation was a no-op.
type View struct {
	Task    *models.Task
	Active  []models.Task
	Deleted []models.Task
}

// Changed reports whether the operation affected a task.
func (v View) Changed() bool {
	return v.Task != nil
}

// Service owns the active and deleted task sets.
type Service struct {
	mu      sync.Mutex
	records Records
	logger  *log.Logger
	now     func() time.Time
	newID   func() string
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for createdAt and deletedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator overrides task id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// WithLogger sets the logger used for recoverable read problems.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New creates a Service backed by records.
func New(records Records, opts ...Option) *Service {
	s := &Service{
		records: records,
		logger:  logging.Discard(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create adds a new active task. An empty priority means
// models.DefaultPriority. A blank title or unknown priority returns a
// *models.ValidationError before the store is touched.
func (s *Service) Create(ctx context.Context, title string, priority models.Priority) (View, error) {
	task := models.Task{
		Title:     strings.TrimSpace(title),
		Priority:  priority,
		Lifecycle: models.Active(),
	}
	if task.Priority == "" {
		task.Priority = models.DefaultPriority
	}
	if err := task.Validate(); err != nil {
		return View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	active, deleted, err := s.load(ctx, store.ActiveSet)
	if err != nil {
		return View{}, err
	}

	task.ID = s.newID()
	task.CreatedAt = s.now().UTC()
	active = append(active, task)

	if err := s.records.WriteSets(ctx, map[store.Set][]models.Task{store.ActiveSet: active}); err != nil {
		return s.failed(ctx, err)
	}

	s.logger.Debug("created task", "id", task.ID, "priority", task.Priority)
	return newView(&task, active, deleted), nil
}

// Toggle flips the completed flag of the active task with the given id.
// Deleted tasks are never toggled.
func (s *Service) Toggle(ctx context.Context, id string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, deleted, err := s.load(ctx, store.ActiveSet)
	if err != nil {
		return View{}, err
	}

	i := indexOf(active, id)
	if i < 0 {
		return newView(nil, active, deleted), nil
	}
	active[i].Completed = !active[i].Completed
	task := active[i]

	if err := s.records.WriteSets(ctx, map[store.Set][]models.Task{store.ActiveSet: active}); err != nil {
		return s.failed(ctx, err)
	}

	return newView(&task, active, deleted), nil
}

// SoftDelete moves the active task with the given id to the front of the
// deleted set and stamps its deletion time.
func (s *Service) SoftDelete(ctx context.Context, id string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, deleted, err := s.load(ctx, store.ActiveSet, store.DeletedSet)
	if err != nil {
		return View{}, err
	}

	i := indexOf(active, id)
	if i < 0 {
		return newView(nil, active, deleted), nil
	}
	task := active[i]
	task.Lifecycle = models.Deleted(s.now().UTC())
	active = remove(active, i)
	deleted = append([]models.Task{task}, deleted...)

	if err := s.records.WriteSets(ctx, map[store.Set][]models.Task{
		store.ActiveSet:  active,
		store.DeletedSet: deleted,
	}); err != nil {
		return s.failed(ctx, err)
	}

	return newView(&task, active, deleted), nil
}

// Restore moves the deleted task with the given id back to the active set.
// Every field other than the lifecycle is kept as it was.
func (s *Service) Restore(ctx context.Context, id string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, deleted, err := s.load(ctx, store.ActiveSet, store.DeletedSet)
	if err != nil {
		return View{}, err
	}

	i := indexOf(deleted, id)
	if i < 0 {
		return newView(nil, active, deleted), nil
	}
	task := deleted[i]
	task.Lifecycle = models.Active()
	deleted = remove(deleted, i)
	active = append(active, task)

	if err := s.records.WriteSets(ctx, map[store.Set][]models.Task{
		store.ActiveSet:  active,
		store.DeletedSet: deleted,
	}); err != nil {
		return s.failed(ctx, err)
	}

	return newView(&task, active, deleted), nil
}

// Purge permanently removes the deleted task with the given id.
func (s *Service) Purge(ctx context.Context, id string) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, deleted, err := s.load(ctx, store.DeletedSet)
	if err != nil {
		return View{}, err
	}

	i := indexOf(deleted, id)
	if i < 0 {
		return newView(nil, active, deleted), nil
	}
	task := deleted[i]
	deleted = remove(deleted, i)

	if err := s.records.WriteSets(ctx, map[store.Set][]models.Task{store.DeletedSet: deleted}); err != nil {
		return s.failed(ctx, err)
	}

	return newView(&task, active, deleted), nil
}

// ClearDeleted empties the deleted set.
func (s *Service) ClearDeleted(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.records.ClearSet(ctx, store.DeletedSet); err != nil {
		return s.failed(ctx, err)
	}

	active, _, err := s.load(ctx)
	if err != nil {
		return View{}, err
	}
	return newView(nil, active, nil), nil
}

// ListActive returns the active set, newest first.
func (s *Service) ListActive(ctx context.Context) ([]models.Task, error) {
	v, err := s.Snapshot(ctx)
	return v.Active, err
}

// ListDeleted returns the deleted set, most recently deleted first.
func (s *Service) ListDeleted(ctx context.Context) ([]models.Task, error) {
	v, err := s.Snapshot(ctx)
	return v.Deleted, err
}

// Snapshot returns both sets without changing anything.
func (s *Service) Snapshot(ctx context.Context) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, deleted, err := s.load(ctx)
	if err != nil {
		return View{}, err
	}
	return newView(nil, active, deleted), nil
}

// load reads both sets. A set that cannot be decoded reads as empty, unless
// it is one of the sets the caller is about to write: writing it back would
// drop every task it still holds, so the *store.DeserializationError is
// returned instead and nothing is written. Inconsistent sets are repaired in
// memory and written back on a best effort basis.
func (s *Service) load(ctx context.Context, writes ...store.Set) ([]models.Task, []models.Task, error) {
	active, deleted, report, err := s.read(ctx, writes...)
	if err != nil {
		return nil, nil, err
	}

	if report.Repaired() {
		s.logger.Warn("repairing inconsistent task records", report.fields()...)
		if err := s.persistRepair(ctx, active, deleted, report); err != nil {
			s.logger.Error("failed to persist repaired task records", "err", err)
		}
	}

	return active, deleted, nil
}

// read decodes both sets and reconciles them. Decode failures are fatal only
// for the sets listed in strict.
func (s *Service) read(ctx context.Context, strict ...store.Set) ([]models.Task, []models.Task, Report, error) {
	active, err := s.readSet(ctx, store.ActiveSet, contains(strict, store.ActiveSet))
	if err != nil {
		return nil, nil, Report{}, err
	}
	deleted, err := s.readSet(ctx, store.DeletedSet, contains(strict, store.DeletedSet))
	if err != nil {
		return nil, nil, Report{}, err
	}

	active, deleted, report := reconcile(active, deleted)
	return active, deleted, report, nil
}

func (s *Service) readSet(ctx context.Context, set store.Set, strict bool) ([]models.Task, error) {
	tasks, err := s.records.ReadSet(ctx, set)
	if err != nil {
		var derr *store.DeserializationError
		if errors.As(err, &derr) {
			if strict {
				s.logger.Error("refusing to overwrite unreadable task record", "key", derr.Key, "err", derr.Err)
				return nil, err
			}
			s.logger.Warn("ignoring unreadable task record", "key", derr.Key, "err", derr.Err)
			return []models.Task{}, nil
		}
		return nil, err
	}
	return tasks, nil
}

func contains(sets []store.Set, set store.Set) bool {
	for _, s := range sets {
		if s == set {
			return true
		}
	}
	return false
}

// failed re-reads the store after a failed write so callers can render what
// was actually persisted. The original error is always returned.
func (s *Service) failed(ctx context.Context, err error) (View, error) {
	s.logger.Error("task write failed", "err", err)

	active, deleted, _, readErr := s.read(ctx)
	if readErr != nil {
		return View{}, err
	}
	return newView(nil, active, deleted), err
}

func newView(task *models.Task, active, deleted []models.Task) View {
	v := View{
		Active:  sortByCreated(active),
		Deleted: sortByDeleted(deleted),
	}
	if task != nil {
		t := *task
		v.Task = &t
	}
	return v
}

func sortByCreated(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func sortByDeleted(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Lifecycle.DeletedAt.After(out[j].Lifecycle.DeletedAt)
	})
	return out
}

func indexOf(tasks []models.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func remove(tasks []models.Task, i int) []models.Task {
	out := make([]models.Task, 0, len(tasks)-1)
	out = append(out, tasks[:i]...)
	return append(out, tasks[i+1:]...)
}
