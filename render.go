package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"mytodo/internal/models"
)

var (
	positionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	idStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Strikethrough(true)
	labelStyle    = lipgloss.NewStyle().Italic(true)

	priorityStyles = map[models.Priority]lipgloss.Style{
		models.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		models.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		models.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	}
)

// now is the clock used for deletion labels.
var now = time.Now

const (
	shortIDLen    = 8
	maxTitleWidth = 60
)

func clip(title string) string {
	return truncate.StringWithTail(title, maxTitleWidth, "...")
}

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

func renderPriority(p models.Priority) string {
	style, ok := priorityStyles[p]
	if !ok {
		return string(p)
	}
	return style.Render(string(p))
}

func describe(t models.Task) string {
	return fmt.Sprintf("%s %q (%s)", idStyle.Render(shortID(t.ID)), t.Title, renderPriority(t.Priority))
}

func renderActive(tasks []models.Task) string {
	if len(tasks) == 0 {
		return "No tasks\n"
	}

	var b strings.Builder
	for i, t := range tasks {
		check := "[ ]"
		title := clip(t.Title)
		if t.Completed {
			check = "[x]"
			title = doneStyle.Render(title)
		}
		fmt.Fprintf(&b, "%s %s %s %s  %s\n",
			positionStyle.Render(fmt.Sprintf("%3d", i+1)),
			check,
			idStyle.Render(shortID(t.ID)),
			title,
			renderPriority(t.Priority),
		)
	}
	return b.String()
}

func renderDeleted(tasks []models.Task, at time.Time) string {
	if len(tasks) == 0 {
		return "History is empty\n"
	}

	var b strings.Builder
	for i, t := range tasks {
		label := t.DeletedLabel(at)
		if label == "" {
			label = "unknown"
		}
		fmt.Fprintf(&b, "%s %s %s  %s  %s\n",
			positionStyle.Render(fmt.Sprintf("%3d", i+1)),
			idStyle.Render(shortID(t.ID)),
			clip(t.Title),
			renderPriority(t.Priority),
			labelStyle.Render("deleted "+label),
		)
	}
	return b.String()
}
