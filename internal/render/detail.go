package render

import (
	"io"
	"strings"
	"time"

	"github.com/nibzard/today-go/internal/task"
)

// Detail writes the details of one task followed by its subtasks.
func (r *Renderer) Detail(t *task.Task, today time.Time) error {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(r.MarkdownDetail(t.Details(today)))
	b.WriteString("\n\n")

	if len(t.Subtasks) > 0 {
		b.WriteString(r.styles.Label.Render("Subtasks:"))
		b.WriteString("\n")
		for i := range t.Subtasks {
			sub := &t.Subtasks[i]
			b.WriteString("- ")
			if sub.Done {
				b.WriteString(r.styles.Done.Render("DONE"))
				b.WriteString(": ")
			}
			b.WriteString(r.Markdown(sub.Title))
			if summary := sub.Summary(today); summary != "" {
				b.WriteString(" ")
				b.WriteString(r.Markdown(summary))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}
