package models

import (
	"fmt"
	"strings"
	"time"
)

// Priority is the urgency a task was created with.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority is used when a task is created without one.
const DefaultPriority = PriorityMedium

// ParsePriority normalizes s into a Priority. An empty string yields
// DefaultPriority.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DefaultPriority, nil
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	default:
		return "", &ValidationError{Field: "priority", Message: "priority must be 'high', 'medium', or 'low'"}
	}
}

// IsValid reports whether p is one of the known priorities.
func (p Priority) IsValid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// State tells which set a task belongs to.
type State int

const (
	StateActive State = iota
	StateDeleted
)

func (s State) String() string {
	if s == StateDeleted {
		return "deleted"
	}
	return "active"
}

// Lifecycle is the membership tag of a task. DeletedAt is only meaningful
// when State is StateDeleted.
type Lifecycle struct {
	State     State
	DeletedAt time.Time
}

// Active returns the lifecycle of a task in the active set.
func Active() Lifecycle {
	return Lifecycle{State: StateActive}
}

// Deleted returns the lifecycle of a task soft-deleted at the given time.
func Deleted(at time.Time) Lifecycle {
	return Lifecycle{State: StateDeleted, DeletedAt: at}
}

// IsDeleted reports whether the lifecycle is Deleted.
func (l Lifecycle) IsDeleted() bool {
	return l.State == StateDeleted
}

// Task represents a single to-do item.
type Task struct {
	ID        string
	Title     string
	Priority  Priority
	Completed bool
	CreatedAt time.Time
	Lifecycle Lifecycle
}

// ValidationError reports a task field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks that the task has valid field values.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}

	if !t.Priority.IsValid() {
		return &ValidationError{Field: "priority", Message: "priority must be 'high', 'medium', or 'low'"}
	}

	return nil
}

// IsDeleted reports whether the task is in the deleted set.
func (t *Task) IsDeleted() bool {
	return t.Lifecycle.IsDeleted()
}

// DeletedAt returns the deletion time and whether the task is deleted.
func (t *Task) DeletedAt() (time.Time, bool) {
	if !t.Lifecycle.IsDeleted() {
		return time.Time{}, false
	}
	return t.Lifecycle.DeletedAt, true
}

// PriorityOrder returns a numeric value for sorting by priority.
// Lower numbers indicate higher priority.
func (t *Task) PriorityOrder() int {
	switch t.Priority {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 99
	}
}

// DeletedLabel describes how long ago the task was deleted, relative to now.
// It returns "" for active tasks.
func (t *Task) DeletedLabel(now time.Time) string {
	at, ok := t.DeletedAt()
	if !ok || at.IsZero() {
		return ""
	}

	hours := int(now.Sub(at) / time.Hour)
	days := hours / 24

	switch {
	case hours < 1:
		return "Just now"
	case hours < 24:
		return fmt.Sprintf("%dh ago", hours)
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	default:
		return at.Local().Format("2006-01-02")
	}
}
