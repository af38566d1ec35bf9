package parser

import (
	"fmt"

	"github.com/nibzard/today-go/internal/task"
)

// ParseHeading parses a markdown heading such as "## Name". The name is
// everything after the first space and is kept as written.
func ParseHeading(line string) (task.Heading, error) {
	level := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '#':
			level = i + 1
		case ' ':
			if level == 0 {
				return task.Heading{}, fmt.Errorf("%w: %q", ErrMalformedHeading, line)
			}
			return task.Heading{Level: level, Name: line[i+1:]}, nil
		default:
			return task.Heading{}, fmt.Errorf("%w: %q", ErrMalformedHeading, line)
		}
	}
	return task.Heading{}, fmt.Errorf("%w: %q", ErrMalformedHeading, line)
}

// HandleHeadingStack parses raw and updates stack so that it holds the
// names of the enclosing headings, outermost first. A heading may only go
// one level deeper than the current depth.
func HandleHeadingStack(stack *[]string, raw string) error {
	heading, err := ParseHeading(raw)
	if err != nil {
		return err
	}

	depth := len(*stack)
	switch {
	case heading.Level > depth:
		if heading.Level != depth+1 {
			return fmt.Errorf("%w: level %d under depth %d", ErrHeadingTooDeep, heading.Level, depth)
		}
	case heading.Level == depth:
		*stack = (*stack)[:depth-1]
	default:
		*stack = (*stack)[:heading.Level-1]
	}

	*stack = append(*stack, heading.Name)
	return nil
}
