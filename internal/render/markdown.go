package render

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	boldItalicPattern = regexp.MustCompile(`\*\*\*(.+?)\*\*\*`)
	boldPattern       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicPattern     = regexp.MustCompile(`\*(.+?)\*`)
	codePattern       = regexp.MustCompile("`(.+?)`")
	strikePattern     = regexp.MustCompile(`~~(.+?)~~`)
)

// Markdown styles the inline markdown of a single line: ***bold italic***,
// **bold**, *italic*, `code` and ~~strikethrough~~.
func (r *Renderer) Markdown(s string) string {
	s = replaceStyled(s, boldItalicPattern, r.styles.BoldItalic)
	s = replaceStyled(s, boldPattern, r.styles.Bold)
	s = replaceStyled(s, italicPattern, r.styles.Italic)
	s = replaceStyled(s, codePattern, r.styles.Code)
	s = replaceStyled(s, strikePattern, r.styles.Strike)
	return s
}

func replaceStyled(s string, pattern *regexp.Regexp, style lipgloss.Style) string {
	return pattern.ReplaceAllStringFunc(s, func(match string) string {
		return style.Render(pattern.FindStringSubmatch(match)[1])
	})
}

// MarkdownDetail styles a multi-line details block. Besides inline
// markdown it handles "**Label**:" lines, "- " bullets, "> " quotes and
// four-space nested bullets.
func (r *Renderer) MarkdownDetail(s string) string {
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, r.detailLine(line))
	}
	return strings.Join(out, "\n")
}

func (r *Renderer) detailLine(line string) string {
	switch {
	case strings.HasPrefix(line, "**") && strings.Contains(line, "**:"):
		parts := strings.Split(line, "**")
		if len(parts) < 3 {
			return r.Markdown(line)
		}
		return r.styles.Label.Render(parts[1]) + r.Markdown(strings.Join(parts[2:], "**"))
	case strings.HasPrefix(line, "- "):
		return "  • " + r.Markdown(line[2:])
	case strings.HasPrefix(line, "> "):
		return r.styles.Quote.Render("▌ " + r.Markdown(line[2:]))
	case strings.HasPrefix(line, "    - "):
		return "    - " + r.Markdown(line[6:])
	default:
		return r.Markdown(line)
	}
}
