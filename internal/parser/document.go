package parser

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/nibzard/today-go/internal/task"
)

// maxLineSize bounds a single line read by ParseReader.
const maxLineSize = 1024 * 1024

// Parse parses the lines of one markdown document into its top-level
// tasks, in document order. today resolves relative dates such as "t".
func Parse(lines []string, today time.Time) ([]task.Task, error) {
	p := newDocument(today)
	for i, line := range lines {
		if err := p.line(i+1, line); err != nil {
			return nil, err
		}
	}
	return p.finish(), nil
}

// ParseReader parses a markdown document read from r.
func ParseReader(r io.Reader, today time.Time) ([]task.Task, error) {
	p := newDocument(today)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	n := 0
	for scanner.Scan() {
		n++
		if err := p.line(n, scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}
	return p.finish(), nil
}

// document is the state of a single parse. current is nil until the first
// task line and again after each heading.
type document struct {
	today    time.Time
	headings []string
	current  *task.Task
	desc     []string
	tasks    []task.Task
}

func newDocument(today time.Time) *document {
	return &document{today: task.Truncate(today)}
}

func (p *document) line(n int, line string) error {
	switch {
	case strings.HasPrefix(line, "#"):
		if err := HandleHeadingStack(&p.headings, line); err != nil {
			return lineError(n, line, err)
		}
		p.flush()

	case taskPattern.MatchString(line):
		done, ok := CheckboxState(line[2:])
		if !ok {
			return lineError(n, line, ErrMalformedCheckbox)
		}
		p.flush()

		t, err := p.parseTitle(n, line, line[len("- [ ] "):], done)
		if err != nil {
			return err
		}
		p.current = &t

	case subtaskPattern.MatchString(line):
		if p.current == nil {
			return lineError(n, line, ErrOrphanSubtask)
		}
		start := strings.IndexByte(line, '[')
		done, ok := CheckboxState(line[start:])
		if !ok {
			return lineError(n, line, ErrMalformedCheckbox)
		}

		end := subtaskPattern.FindStringIndex(line)[1]
		sub, err := p.parseTitle(n, line, line[end:], done)
		if err != nil {
			return err
		}
		p.current.AddSubtask(sub)

	case p.current == nil:
		// Text outside of any task, blank or not.

	default:
		p.desc = append(p.desc, line)
	}
	return nil
}

func (p *document) parseTitle(n int, line, title string, done bool) (task.Task, error) {
	attrs, rest, err := ExtractAttributes(title, p.today)
	if err != nil {
		return task.Task{}, lineError(n, line, err)
	}
	return task.Task{
		Path:       slices.Clone(p.headings),
		Title:      rest,
		Done:       done,
		Attrs:      attrs,
		LineNumber: n,
	}, nil
}

// flush appends the current task, if any, to the output.
func (p *document) flush() {
	if p.current == nil {
		return
	}
	p.current.Description = strings.TrimSpace(strings.Join(p.desc, "\n"))
	p.tasks = append(p.tasks, *p.current)
	p.current = nil
	p.desc = p.desc[:0]
}

func (p *document) finish() []task.Task {
	p.flush()
	if p.tasks == nil {
		return []task.Task{}
	}
	return p.tasks
}

func lineError(n int, line string, err error) *LineError {
	return &LineError{Line: n, Content: line, Err: err}
}
