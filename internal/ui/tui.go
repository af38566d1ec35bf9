// Package ui provides the interactive task viewer.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/today-go/internal/render"
	"github.com/nibzard/today-go/internal/task"
)

// DefaultInterval is how often the viewer reloads the task files.
const DefaultInterval = 2 * time.Second

// Loader returns the filtered and sorted tasks to display.
type Loader func(ctx context.Context) ([]task.Task, error)

// Options configures the viewer.
type Options struct {
	Today    time.Time
	Days     int
	Interval time.Duration
	// Renderer styles the output. Defaults to one detected from stdout.
	Renderer *lipgloss.Renderer
}

// RunTUI starts the viewer and blocks until the user quits or ctx is done.
func RunTUI(ctx context.Context, load Loader, opts Options) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	if opts.Renderer == nil {
		opts.Renderer = lipgloss.NewRenderer(os.Stdout)
	}

	program := tea.NewProgram(newTUIModel(ctx, load, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type tuiStyles struct {
	title    lipgloss.Style
	selected lipgloss.Style
	cursor   lipgloss.Style
	file     lipgloss.Style
	help     lipgloss.Style
	err      lipgloss.Style
}

func newTUIStyles(r *lipgloss.Renderer) tuiStyles {
	return tuiStyles{
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("170")),
		selected: r.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		cursor:   r.NewStyle().Foreground(lipgloss.Color("212")),
		file:     r.NewStyle().Foreground(lipgloss.Color("243")),
		help:     r.NewStyle().Foreground(lipgloss.Color("241")),
		err:      r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

type tuiModel struct {
	ctx          context.Context
	load         Loader
	opts         Options
	styles       tuiStyles
	markdown     *render.Renderer
	tasks        []task.Task
	loadErr      error
	loaded       bool
	cursor       int
	showDetail   bool
	showHelp     bool
	tickInterval time.Duration
}

type tickMsg time.Time

func newTUIModel(ctx context.Context, load Loader, opts Options) *tuiModel {
	if opts.Renderer == nil {
		opts.Renderer = lipgloss.DefaultRenderer()
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &tuiModel{
		ctx:          ctx,
		load:         load,
		opts:         opts,
		styles:       newTUIStyles(opts.Renderer),
		markdown:     render.NewWithRenderer(io.Discard, opts.Renderer),
		tickInterval: interval,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.tickInterval)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
		case "g", "home":
			m.cursor = 0
		case "G", "end":
			if len(m.tasks) > 0 {
				m.cursor = len(m.tasks) - 1
			}
		case "enter", " ":
			m.showDetail = !m.showDetail
		case "r", "f5":
			m.refresh()
		case "h", "?":
			m.showHelp = !m.showHelp
		case "esc":
			m.showHelp = false
			m.showDetail = false
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}

	return m, nil
}

func (m *tuiModel) View() string {
	var b strings.Builder
	m.writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		m.writeFooter(&b)
		return b.String()
	}

	switch {
	case m.loadErr != nil:
		b.WriteString(m.styles.err.Render("Error loading tasks:") + "\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
	case !m.loaded:
		b.WriteString("Loading...\n\n")
	case len(m.tasks) == 0:
		b.WriteString("No tasks for today.\n\n")
	default:
		m.writeTasks(&b)
		if m.showDetail {
			m.writeDetail(&b)
		}
	}

	m.writeFooter(&b)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refresh reloads the tasks, keeping the cursor on the same index when it
// is still in range.
func (m *tuiModel) refresh() {
	tasks, err := m.load(m.ctx)
	if err != nil {
		m.loadErr = err
		return
	}
	m.loadErr = nil
	m.loaded = true
	m.tasks = tasks
	if m.cursor >= len(m.tasks) {
		m.cursor = max(len(m.tasks)-1, 0)
	}
}

func (m *tuiModel) selected() *task.Task {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return nil
	}
	return &m.tasks[m.cursor]
}

func (m *tuiModel) writeTitle(b *strings.Builder) {
	title := fmt.Sprintf("Tasks for today (%s)", m.opts.Today.Format(task.DateLayout))
	if m.opts.Days > 0 {
		title += fmt.Sprintf(" (+%s)", task.FormatDays(m.opts.Days))
	}
	b.WriteString(m.styles.title.Render(title) + "\n\n")
}

func (m *tuiModel) writeTasks(b *strings.Builder) {
	for i := range m.tasks {
		t := &m.tasks[i]
		cursor := "  "
		line := fmt.Sprintf("%d - %s", i, m.markdown.Markdown(t.Title))
		if summary := t.Summary(m.opts.Today); summary != "" {
			line += " " + m.markdown.Markdown(summary)
		}
		if i == m.cursor {
			cursor = m.styles.cursor.Render("> ")
			line = m.styles.selected.Render(line)
		}
		fileInfo := m.styles.file.Render(fmt.Sprintf("(%s:%d)", t.FilePath, t.LineNumber))
		fmt.Fprintf(b, "%s%s %s\n", cursor, line, fileInfo)
	}
}

func (m *tuiModel) writeDetail(b *strings.Builder) {
	t := m.selected()
	if t == nil {
		return
	}
	var detail strings.Builder
	if len(t.Path) > 0 {
		fmt.Fprintf(&detail, "\n%s\n", m.markdown.Markdown(strings.Join(t.Path, " / ")))
	}
	// Writes to a strings.Builder cannot fail.
	_ = render.NewWithRenderer(&detail, m.opts.Renderer).Detail(t, m.opts.Today)
	b.WriteString(detail.String())
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  up, k        Move up\n")
	b.WriteString("  down, j      Move down\n")
	b.WriteString("  g, G         Jump to first or last task\n")
	b.WriteString("  enter        Toggle task details\n")
	b.WriteString("  r, F5        Reload task files\n")
	b.WriteString("  h, ?         Toggle this help screen\n\n")
}

func (m *tuiModel) writeFooter(b *strings.Builder) {
	b.WriteString("\n")
	b.WriteString(m.styles.help.Render(fmt.Sprintf(
		"Press h for help | enter for details | q to quit | Reloading every %s", m.tickInterval)))
	b.WriteString("\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
