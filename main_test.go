package main

import (
	"bytes"
	"go/format"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rogpeppe/go-internal/testscript"

	"mytodo/internal/models"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"mytodo": run,
	}))
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
		Setup: func(env *testscript.Env) error {
			env.Setenv("DB_PATH", env.WorkDir+"/data/todo.db")
			env.Setenv("LOG_LEVEL", "error")
			return nil
		},
	})
}

func TestResolveTask(t *testing.T) {
	tasks := []models.Task{
		{ID: "abcd1234-0000"},
		{ID: "abcd5678-0000"},
		{ID: "ef011111-0000"},
	}

	tests := []struct {
		arg     string
		want    string
		wantErr string
	}{
		{arg: "1", want: "abcd1234-0000"},
		{arg: "3", want: "ef011111-0000"},
		{arg: " 2 ", want: "abcd5678-0000"},
		{arg: "0", wantErr: "no task at position 0"},
		{arg: "4", wantErr: "no task at position 4"},
		{arg: "ef01", want: "ef011111-0000"},
		{arg: "abcd5", want: "abcd5678-0000"},
		{arg: "abcd", wantErr: "ambiguous"},
		{arg: "abc", wantErr: "too short"},
		{arg: "zzzz", wantErr: "no task matching"},
		{arg: "1234", wantErr: "no task matching"},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := resolveTask(tasks, tt.arg)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRenderActive(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	out := renderActive([]models.Task{
		{ID: "11111111-2222", Title: "Call dentist", Priority: models.PriorityHigh},
		{ID: "33333333-4444", Title: "Buy milk", Priority: models.PriorityLow, Completed: true},
	})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", out)
	}
	if !strings.Contains(lines[0], "[ ] 11111111 Call dentist") {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if !strings.Contains(lines[1], "[x] 33333333") || !strings.Contains(lines[1], "Buy milk") {
		t.Errorf("unexpected second line %q", lines[1])
	}

	if renderActive(nil) != "No tasks\n" {
		t.Errorf("unexpected empty rendering %q", renderActive(nil))
	}
}

func TestRenderDeleted(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	out := renderDeleted([]models.Task{
		{ID: "11111111-2222", Title: "Buy milk", Priority: models.PriorityLow, Lifecycle: models.Deleted(at.Add(-2 * time.Hour))},
		{ID: "33333333-4444", Title: "Old", Priority: models.PriorityLow, Lifecycle: models.Deleted(at.Add(-30 * time.Hour))},
	}, at)

	if !strings.Contains(out, "deleted 2h ago") || !strings.Contains(out, "deleted Yesterday") {
		t.Fatalf("unexpected rendering %q", out)
	}
	if renderDeleted(nil, at) != "History is empty\n" {
		t.Errorf("unexpected empty rendering")
	}
}

func TestClip(t *testing.T) {
	if got := clip("Buy milk"); got != "Buy milk" {
		t.Errorf("expected short title unchanged, got %q", got)
	}

	long := strings.Repeat("a", 100)
	got := clip(long)
	if len(got) != maxTitleWidth || !strings.HasSuffix(got, "...") {
		t.Errorf("expected %d characters ending in ..., got %q", maxTitleWidth, got)
	}
}

func TestCommandSourcesAreGofmtClean(t *testing.T) {
	files, err := filepath.Glob("*.go")
	if err != nil {
		t.Fatalf("failed to list sources: %v", err)
	}

	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			t.Fatalf("failed to read %s: %v", file, err)
		}
		formatted, err := format.Source(src)
		if err != nil {
			t.Fatalf("failed to format %s: %v", file, err)
		}
		if !bytes.Equal(src, formatted) {
			t.Errorf("%s is not gofmt clean", file)
		}
	}
}
