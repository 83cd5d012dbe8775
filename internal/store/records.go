package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"mytodo/internal/models"
)

// Set names one of the two task records.
type Set string

const (
	// ActiveSet holds tasks that have not been deleted.
	ActiveSet Set = "tasks"
	// DeletedSet holds soft-deleted tasks awaiting restore or purge.
	DeletedSet Set = "deletedTasks"
)

const recordSchemaURL = "mytodo://schemas/task-record.json"

const recordSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "array",
	"items": {
		"type": "object",
		"required": ["id", "title", "priority", "completed", "createdAt"],
		"properties": {
			"id": {"type": "string", "minLength": 1},
			"title": {"type": "string"},
			"priority": {"enum": ["low", "medium", "high"]},
			"completed": {"type": "boolean"},
			"createdAt": {"type": "string", "format": "date-time"},
			"deletedAt": {"type": "string", "format": "date-time"}
		}
	}
}`

// record is the stored encoding of a task.
type record struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Priority  string     `json:"priority"`
	Completed bool       `json:"completed"`
	CreatedAt time.Time  `json:"createdAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// Records reads and writes the task sets as JSON arrays in a Store.
type Records struct {
	store  Store
	schema *jsonschema.Schema
}

// NewRecords creates a Records accessor on top of s.
func NewRecords(s Store) (*Records, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(recordSchemaURL, strings.NewReader(recordSchema)); err != nil {
		return nil, fmt.Errorf("failed to load record schema: %w", err)
	}
	schema, err := compiler.Compile(recordSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile record schema: %w", err)
	}

	return &Records{store: s, schema: schema}, nil
}

// ReadSet returns the tasks of set in stored order. An absent record reads as
// an empty set.
func (r *Records) ReadSet(ctx context.Context, set Set) ([]models.Task, error) {
	data, ok, err := r.store.Get(ctx, string(set))
	if err != nil {
		return nil, &PersistenceError{Op: "read", Key: string(set), Err: err}
	}
	if !ok {
		return []models.Task{}, nil
	}

	return r.decode(set, data)
}

// WriteSet overwrites the record of set with tasks.
func (r *Records) WriteSet(ctx context.Context, set Set, tasks []models.Task) error {
	return r.WriteSets(ctx, map[Set][]models.Task{set: tasks})
}

// WriteSets overwrites several records as one unit.
func (r *Records) WriteSets(ctx context.Context, sets map[Set][]models.Task) error {
	entries := make(map[string][]byte, len(sets))
	keys := make([]string, 0, len(sets))
	for set, tasks := range sets {
		data, err := encode(set, tasks)
		if err != nil {
			return &PersistenceError{Op: "write", Key: string(set), Err: err}
		}
		entries[string(set)] = data
		keys = append(keys, string(set))
	}

	if err := r.store.PutMany(ctx, entries); err != nil {
		return &PersistenceError{Op: "write", Key: strings.Join(keys, ","), Err: err}
	}
	return nil
}

// ClearSet removes the record of set entirely.
func (r *Records) ClearSet(ctx context.Context, set Set) error {
	if err := r.store.Delete(ctx, string(set)); err != nil {
		return &PersistenceError{Op: "clear", Key: string(set), Err: err}
	}
	return nil
}

func (r *Records) decode(set Set, data []byte) ([]models.Task, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &DeserializationError{Key: string(set), Err: err}
	}
	if err := r.schema.Validate(doc); err != nil {
		return nil, &DeserializationError{Key: string(set), Err: err}
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &DeserializationError{Key: string(set), Err: err}
	}

	tasks := make([]models.Task, 0, len(records))
	for _, rec := range records {
		tasks = append(tasks, rec.task(set))
	}
	return tasks, nil
}

func encode(set Set, tasks []models.Task) ([]byte, error) {
	records := make([]record, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, newRecord(set, t))
	}
	return json.Marshal(records)
}

func newRecord(set Set, t models.Task) record {
	rec := record{
		ID:        t.ID,
		Title:     t.Title,
		Priority:  string(t.Priority),
		Completed: t.Completed,
		CreatedAt: t.CreatedAt.UTC(),
	}
	if set == DeletedSet {
		if at, ok := t.DeletedAt(); ok && !at.IsZero() {
			at = at.UTC()
			rec.DeletedAt = &at
		}
	}
	return rec
}

func (rec record) task(set Set) models.Task {
	t := models.Task{
		ID:        rec.ID,
		Title:     rec.Title,
		Priority:  models.Priority(rec.Priority),
		Completed: rec.Completed,
		CreatedAt: rec.CreatedAt.UTC(),
		Lifecycle: models.Active(),
	}
	if set == DeletedSet {
		var at time.Time
		if rec.DeletedAt != nil {
			at = rec.DeletedAt.UTC()
		}
		t.Lifecycle = models.Deleted(at)
	}
	return t
}
