package models

import (
	"errors"
	"testing"
	"time"
)

func TestTaskValidation_RequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		wantErr bool
		errMsg  string
	}{
		{
			name:    "empty title should fail",
			task:    Task{Title: "", Priority: PriorityMedium},
			wantErr: true,
			errMsg:  "title is required",
		},
		{
			name:    "whitespace title should fail",
			task:    Task{Title: " \t  ", Priority: PriorityMedium},
			wantErr: true,
			errMsg:  "title is required",
		},
		{
			name:    "valid task should pass",
			task:    Task{Title: "Buy milk", Priority: PriorityMedium},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				} else if err.Error() != tt.errMsg {
					t.Errorf("expected error %q, got %q", tt.errMsg, err.Error())
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestTaskValidation_PriorityValues(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		wantErr bool
	}{
		{name: "high priority is valid", task: Task{Title: "Test", Priority: PriorityHigh}},
		{name: "medium priority is valid", task: Task{Title: "Test", Priority: PriorityMedium}},
		{name: "low priority is valid", task: Task{Title: "Test", Priority: PriorityLow}},
		{name: "empty priority should fail", task: Task{Title: "Test", Priority: ""}, wantErr: true},
		{name: "invalid priority should fail", task: Task{Title: "Test", Priority: "urgent"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if tt.wantErr {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if verr.Field != "priority" {
					t.Errorf("expected field priority, got %q", verr.Field)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{in: "", want: PriorityMedium},
		{in: "low", want: PriorityLow},
		{in: " HIGH ", want: PriorityHigh},
		{in: "medium", want: PriorityMedium},
		{in: "urgent", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePriority(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestTask_PriorityOrder(t *testing.T) {
	tests := []struct {
		name     string
		task     Task
		expected int
	}{
		{name: "high priority returns 1", task: Task{Priority: PriorityHigh}, expected: 1},
		{name: "medium priority returns 2", task: Task{Priority: PriorityMedium}, expected: 2},
		{name: "low priority returns 3", task: Task{Priority: PriorityLow}, expected: 3},
		{name: "unknown priority returns 99", task: Task{Priority: "unknown"}, expected: 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.task.PriorityOrder()
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestTask_Lifecycle(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	active := Task{Lifecycle: Active()}
	if active.IsDeleted() {
		t.Fatal("expected active task not to be deleted")
	}
	if _, ok := active.DeletedAt(); ok {
		t.Fatal("expected active task to have no deletion time")
	}

	deleted := Task{Lifecycle: Deleted(at)}
	if !deleted.IsDeleted() {
		t.Fatal("expected deleted task to be deleted")
	}
	got, ok := deleted.DeletedAt()
	if !ok || !got.Equal(at) {
		t.Fatalf("expected deletion time %v, got %v (%t)", at, got, ok)
	}
	if deleted.Lifecycle.State.String() != "deleted" {
		t.Fatalf("unexpected state name %q", deleted.Lifecycle.State)
	}
}

func TestTask_DeletedLabel(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		task     Task
		expected string
	}{
		{name: "active task has no label", task: Task{Lifecycle: Active()}, expected: ""},
		{name: "minutes ago is just now", task: Task{Lifecycle: Deleted(now.Add(-20 * time.Minute))}, expected: "Just now"},
		{name: "hours ago", task: Task{Lifecycle: Deleted(now.Add(-5 * time.Hour))}, expected: "5h ago"},
		{name: "one day ago is yesterday", task: Task{Lifecycle: Deleted(now.Add(-30 * time.Hour))}, expected: "Yesterday"},
		{name: "several days ago", task: Task{Lifecycle: Deleted(now.Add(-4 * 24 * time.Hour))}, expected: "4 days ago"},
		{name: "zero deletion time has no label", task: Task{Lifecycle: Deleted(time.Time{})}, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.task.DeletedLabel(now)
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}

	old := Task{Lifecycle: Deleted(now.AddDate(0, 0, -30))}
	if got := old.DeletedLabel(now); got != old.Lifecycle.DeletedAt.Local().Format("2006-01-02") {
		t.Errorf("expected a date label, got %q", got)
	}
}
