// Package render prints tasks to the terminal.
//
// Inline markdown in titles, headings and summaries is turned into terminal
// styles. When the output is not a terminal the styles render as plain
// text.
package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the terminal styles used by a Renderer.
type Styles struct {
	Header     lipgloss.Style
	Section    lipgloss.Style
	Index      lipgloss.Style
	Path       lipgloss.Style
	Heading    lipgloss.Style
	File       lipgloss.Style
	Label      lipgloss.Style
	Done       lipgloss.Style
	Bold       lipgloss.Style
	Italic     lipgloss.Style
	BoldItalic lipgloss.Style
	Code       lipgloss.Style
	Strike     lipgloss.Style
	Quote      lipgloss.Style
}

// NewStyles builds the default styles bound to r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Header:     r.NewStyle().Bold(true).Underline(true),
		Section:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("170")),
		Index:      r.NewStyle().Bold(true),
		Path:       r.NewStyle().Foreground(lipgloss.Color("6")),
		Heading:    r.NewStyle().Bold(true),
		File:       r.NewStyle().Italic(true).Faint(true),
		Label:      r.NewStyle().Bold(true),
		Done:       r.NewStyle().Bold(true).Foreground(lipgloss.Color("241")),
		Bold:       r.NewStyle().Bold(true),
		Italic:     r.NewStyle().Italic(true),
		BoldItalic: r.NewStyle().Bold(true).Italic(true),
		Code:       r.NewStyle().Background(lipgloss.Color("0")).Foreground(lipgloss.Color("15")),
		Strike:     r.NewStyle().Strikethrough(true).Faint(true),
		Quote:      r.NewStyle().Faint(true),
	}
}

// Renderer writes styled task output to w.
type Renderer struct {
	w      io.Writer
	styles Styles
}

// New creates a Renderer whose color support is detected from w.
func New(w io.Writer) *Renderer {
	return NewWithRenderer(w, lipgloss.NewRenderer(w))
}

// NewWithRenderer creates a Renderer using the given lipgloss renderer,
// for example one with a fixed color profile.
func NewWithRenderer(w io.Writer, r *lipgloss.Renderer) *Renderer {
	return &Renderer{w: w, styles: NewStyles(r)}
}

// Styles returns the styles in use.
func (r *Renderer) Styles() Styles {
	return r.styles
}
