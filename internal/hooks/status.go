package hooks

import (
	"fmt"
	"os"
	"strings"

	"github.com/nibzard/today-go/internal/task"
)

// TaskStatus returns the status snippet for t: its heading path, title and
// source location.
func TaskStatus(t *task.Task) string {
	path := strings.Join(t.Path, " <span weight='bold'>/</span> ")
	return fmt.Sprintf(
		"<span color='white'> %s <span weight='bold' color='red'>→</span> %s <span color='lightgray'>(%s: %d)</span></span>",
		path, t.Title, t.FilePath, t.LineNumber)
}

// AdhocStatus returns the status snippet for work that has no task.
func AdhocStatus(text string) string {
	return fmt.Sprintf(
		"<span color='white' weight='bold'>Ad-hoc task:</span> <span color='lightgrey'>%s</span>",
		text)
}

// WriteStatus replaces the contents of the status file.
func WriteStatus(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write status file %s: %w", path, err)
	}
	return nil
}
