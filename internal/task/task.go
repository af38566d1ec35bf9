package task

import (
	"fmt"
	"strings"
	"time"
)

// Task is a top-level checklist item or one of its subtasks.
type Task struct {
	// Path lists the enclosing headings from the root heading down.
	Path        []string
	Title       string
	Done        bool
	Description string
	// Subtasks are only set on top-level tasks.
	Subtasks []Task
	Attrs    Attributes

	// FilePath and LineNumber are provenance set by the loader.
	FilePath   string
	LineNumber int
}

// IsDisplayed reports whether the task should be listed for today. A task
// that is not visible itself is still shown when one of its subtasks is.
func (t *Task) IsDisplayed(today time.Time, lookaheadDays int) bool {
	if t.Done {
		return false
	}
	if t.Attrs.Dates.IsVisible(today, lookaheadDays) {
		return true
	}
	for i := range t.Subtasks {
		if t.Subtasks[i].IsDisplayed(today, lookaheadDays) {
			return true
		}
	}
	return false
}

// Summary returns the date hint for the task list.
func (t *Task) Summary(today time.Time) string {
	return t.Attrs.Dates.Summary(today)
}

// Details returns the markdown block of the single-task view.
func (t *Task) Details(today time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Title**: %s \n", t.Title)
	b.WriteString(t.Attrs.Dates.Details(today))
	if t.Attrs.Priority != nil {
		fmt.Fprintf(&b, "**Priority**: %d  \n", t.Attrs.Priority.Priority)
	}
	if t.Attrs.Assignment != nil {
		fmt.Fprintf(&b, "**Assigned to**: %s  \n", t.Attrs.Assignment.AssignedTo)
	}
	if t.Description != "" {
		b.WriteString("**Description**:  \n\n")
		b.WriteString(t.Description)
	}
	return b.String()
}

// SetFilePath records the source file on the task and its subtasks.
func (t *Task) SetFilePath(path string) {
	t.FilePath = path
	for i := range t.Subtasks {
		t.Subtasks[i].FilePath = path
	}
}

// AddSubtask appends sub after inheriting the task's unset dates.
func (t *Task) AddSubtask(sub Task) {
	sub.Attrs.Merge(t.Attrs)
	t.Subtasks = append(t.Subtasks, sub)
}

// Visible returns the tasks displayed for today plus lookaheadDays, keeping
// their order.
func Visible(tasks []Task, today time.Time, lookaheadDays int) []Task {
	visible := make([]Task, 0, len(tasks))
	for i := range tasks {
		if tasks[i].IsDisplayed(today, lookaheadDays) {
			visible = append(visible, tasks[i])
		}
	}
	return visible
}
