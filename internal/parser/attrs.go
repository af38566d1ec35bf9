package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nibzard/today-go/internal/task"
)

var (
	// attrPattern matches one inline attribute token and a single
	// trailing space.
	attrPattern = regexp.MustCompile(`\[(.:|@|!)(.*?)\] ?`)

	taskPattern    = regexp.MustCompile(`^- \[(.)\] `)
	subtaskPattern = regexp.MustCompile(`^[ \t]+- \[(.)\] `)
)

// CheckboxState reads the checkbox at the start of s.
func CheckboxState(s string) (done bool, ok bool) {
	switch {
	case strings.HasPrefix(s, "[ ]"):
		return false, true
	case strings.HasPrefix(s, "[x]"), strings.HasPrefix(s, "[X]"):
		return true, true
	default:
		return false, false
	}
}

// ExtractAttributes applies every attribute token of title in order and
// returns the attributes with the title stripped of them. Later tokens of
// the same kind overwrite earlier ones.
func ExtractAttributes(title string, today time.Time) (task.Attributes, string, error) {
	var attrs task.Attributes
	rest := title
	for {
		matches := attrPattern.FindAllStringSubmatchIndex(rest, -1)
		if len(matches) == 0 {
			break
		}

		var b strings.Builder
		last := 0
		for _, m := range matches {
			prefix, value := rest[m[2]:m[3]], rest[m[4]:m[5]]
			if err := assignAttribute(&attrs, prefix, value, today); err != nil {
				return task.Attributes{}, "", fmt.Errorf("title %q: %w", title, err)
			}
			b.WriteString(rest[last:m[0]])
			last = m[1]
		}
		b.WriteString(rest[last:])
		// Removing a token can join its neighbors into a new one, as in
		// "[[@a] @b]", so scan again until nothing matches.
		rest = b.String()
	}
	return attrs, strings.TrimRight(rest, " \t"), nil
}

func assignAttribute(attrs *task.Attributes, prefix, value string, today time.Time) error {
	switch prefix {
	case "@":
		attrs.Assignment = &task.AssignmentAttribute{AssignedTo: value}
		return nil
	case "!":
		p, err := strconv.ParseInt(value, 10, 32)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidPriority, value)
		}
		attrs.Priority = &task.PriorityAttribute{Priority: int(p)}
		return nil
	}

	var field **time.Time
	switch prefix {
	case "c:":
		field = &attrs.Dates.Created
	case "d:":
		field = &attrs.Dates.Due
	case "r:":
		field = &attrs.Dates.Reminder
	case "f:":
		field = &attrs.Dates.Finished
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDateKind, prefix)
	}

	date, err := ParseDate(value, today)
	if err != nil {
		return err
	}
	*field = &date
	return nil
}

// ParseDate parses an attribute date value: "t" for today, "M/D" in the
// year of today, or "M/D/Y" with the year taken as written.
func ParseDate(value string, today time.Time) (time.Time, error) {
	if value == "t" {
		return task.Truncate(today), nil
	}

	parts := strings.Split(value, "/")
	if len(parts) != 2 && len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: %q is not M/D or M/D/Y", ErrInvalidDate, value)
	}

	month, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: month %q", ErrInvalidDate, parts[0])
	}
	day, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: day %q", ErrInvalidDate, parts[1])
	}
	year := int64(today.Year())
	if len(parts) == 3 {
		year, err = strconv.ParseInt(parts[2], 10, 32)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: year %q", ErrInvalidDate, parts[2])
		}
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	date := task.Date(int(year), time.Month(month), int(day))
	// time.Date normalizes overflow such as 2/30 into March.
	if date.Month() != time.Month(month) || date.Day() != int(day) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return date, nil
}
