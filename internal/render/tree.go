package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nibzard/today-go/internal/task"
)

// TreeOptions controls Tree.
type TreeOptions struct {
	Today time.Time
	// Days is the lookahead used to select the tasks. It is shown in the
	// header and filters the subtasks listed under each task.
	Days int
}

// Tree writes the task list. tasks must already be filtered and sorted;
// a task's id is its index in tasks. Prioritized tasks are listed first,
// the rest are grouped by file and heading.
func (r *Renderer) Tree(tasks []task.Task, opts TreeOptions) error {
	var b strings.Builder

	header := fmt.Sprintf("Tasks for today (%s)", opts.Today.Format(task.DateLayout))
	if opts.Days > 0 {
		header += fmt.Sprintf(" (+%s)", task.FormatDays(opts.Days))
	}
	b.WriteString("\n")
	b.WriteString(r.styles.Header.Render(header))
	b.WriteString("\n")

	var root treeNode
	var hasPriority bool
	for i := range tasks {
		t := &tasks[i]
		if t.Attrs.Priority == nil {
			root.add(t, i)
			continue
		}
		if !hasPriority {
			b.WriteString(r.styles.Section.Render("└── Priority Tasks"))
			b.WriteString("\n")
			hasPriority = true
		}
		path := make([]string, len(t.Path))
		for j, p := range t.Path {
			path[j] = r.Markdown(p)
		}
		fmt.Fprintf(&b, "    %s - %s → %s\n",
			r.styles.Index.Render(strconv.Itoa(i)),
			r.styles.Path.Render(strings.Join(path, " / ")),
			r.taskLine(t, opts.Today))
	}

	for _, n := range root.children {
		r.writeNode(&b, n, "└── ", "    ", opts)
	}

	b.WriteString("\n")
	_, err := io.WriteString(r.w, b.String())
	return err
}

// taskLine renders "title summary (file:line)".
func (r *Renderer) taskLine(t *task.Task, today time.Time) string {
	parts := []string{r.Markdown(t.Title)}
	if summary := t.Summary(today); summary != "" {
		parts = append(parts, r.Markdown(summary))
	}
	parts = append(parts, r.styles.File.Render(fmt.Sprintf("(%s:%d)", t.FilePath, t.LineNumber)))
	return strings.Join(parts, " ")
}

func (r *Renderer) writeNode(b *strings.Builder, n *treeNode, prefix, indent string, opts TreeOptions) {
	if n.task != nil {
		fmt.Fprintf(b, "%s%s - %s\n", prefix, r.styles.Index.Render(strconv.Itoa(n.index)), r.taskLine(n.task, opts.Today))
		for i := range n.task.Subtasks {
			sub := &n.task.Subtasks[i]
			if sub.Done || !sub.IsDisplayed(opts.Today, opts.Days) {
				continue
			}
			line := r.Markdown(sub.Title)
			if summary := sub.Summary(opts.Today); summary != "" {
				line += " " + r.Markdown(summary)
			}
			fmt.Fprintf(b, "%s    ├── %s\n", indent, line)
		}
		return
	}

	fmt.Fprintf(b, "%s%s\n", prefix, r.styles.Heading.Render(r.Markdown(n.label)))
	for i, child := range n.children {
		childPrefix, childIndent := "├── ", "│   "
		if i == len(n.children)-1 {
			childPrefix, childIndent = "└── ", "    "
		}
		r.writeNode(b, child, indent+childPrefix, indent+childIndent, opts)
	}
}

// treeNode is either a heading with children or a task leaf.
type treeNode struct {
	label    string
	task     *task.Task
	index    int
	children []*treeNode
}

// add places t under its file and heading path. The top level node of a
// path is "first heading (file)" so equal headings in different files stay
// apart. Tasks without headings are added at the top level.
func (n *treeNode) add(t *task.Task, index int) {
	leaf := &treeNode{task: t, index: index}
	if len(t.Path) == 0 {
		n.children = append(n.children, leaf)
		return
	}

	node := n.child(fmt.Sprintf("%s (%s)", t.Path[0], t.FilePath))
	for _, heading := range t.Path[1:] {
		node = node.child(heading)
	}
	node.children = append(node.children, leaf)
}

// child returns the heading child with label, creating it if needed.
func (n *treeNode) child(label string) *treeNode {
	for _, c := range n.children {
		if c.task == nil && c.label == label {
			return c
		}
	}
	c := &treeNode{label: label}
	n.children = append(n.children, c)
	return c
}
