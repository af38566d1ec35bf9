package task

import (
	"fmt"
	"strings"
	"time"
)

// Heading is a markdown heading line. It only exists while parsing.
type Heading struct {
	Level int
	Name  string
}

// DateAttribute holds the optional dates of a task. No ordering between the
// dates is enforced.
type DateAttribute struct {
	Created  *time.Time
	Due      *time.Time
	Reminder *time.Time
	Finished *time.Time
}

// IsVisible reports whether the due or reminder date falls on or before
// today plus lookaheadDays. Without either date the task is never visible.
func (d DateAttribute) IsVisible(today time.Time, lookaheadDays int) bool {
	effective := AddDays(Truncate(today), lookaheadDays)

	if d.Due != nil && !effective.Before(*d.Due) {
		return true
	}
	if d.Reminder != nil && !effective.Before(*d.Reminder) {
		return true
	}
	return false
}

// Merge fills every unset date from parent.
func (d *DateAttribute) Merge(parent DateAttribute) {
	if d.Created == nil {
		d.Created = parent.Created
	}
	if d.Due == nil {
		d.Due = parent.Due
	}
	if d.Reminder == nil {
		d.Reminder = parent.Reminder
	}
	if d.Finished == nil {
		d.Finished = parent.Finished
	}
}

// Summary returns the short date hint shown next to a task title.
// When both dates are set the reminder is only mentioned while the due
// date is still in the future.
func (d DateAttribute) Summary(today time.Time) string {
	today = Truncate(today)

	switch {
	case d.Reminder != nil && d.Due == nil:
		return "[" + RelativeToToday(*d.Reminder, today, "Reminder ") + "]"
	case d.Reminder == nil && d.Due != nil:
		return "[" + RelativeToToday(*d.Due, today, "Due ") + "]"
	case d.Reminder != nil && d.Due != nil:
		due := "[" + RelativeToToday(*d.Due, today, "Due ") + "]"
		if d.Due.After(today) {
			return "[" + RelativeToToday(*d.Reminder, today, "Reminder ") + "] " + due
		}
		return due
	default:
		return ""
	}
}

// Details returns the labeled due and reminder lines of the details view.
func (d DateAttribute) Details(today time.Time) string {
	var b strings.Builder
	if d.Due != nil {
		fmt.Fprintf(&b, "**Due date**: %s (%s)  \n",
			d.Due.Format(DateLayout), RelativeToToday(*d.Due, today, "Due "))
	}
	if d.Reminder != nil {
		fmt.Fprintf(&b, "**Reminder date**: %s (%s)  \n",
			d.Reminder.Format(DateLayout), RelativeToToday(*d.Reminder, today, "Reminder "))
	}
	return b.String()
}

// AssignmentAttribute names who a task is assigned to.
type AssignmentAttribute struct {
	AssignedTo string
}

// PriorityAttribute is a task priority. Lower values are more urgent.
type PriorityAttribute struct {
	Priority int
}

// Summary renders the priority as markdown.
func (p PriorityAttribute) Summary() string {
	return fmt.Sprintf("[***Priority*** = %d]", p.Priority)
}

// Attributes groups everything parsed from inline attribute tokens.
type Attributes struct {
	Dates      DateAttribute
	Assignment *AssignmentAttribute
	Priority   *PriorityAttribute
}

// Merge inherits parent attributes into a subtask. Only dates are
// inherited; priority and assignment stay with the task that declares them.
func (a *Attributes) Merge(parent Attributes) {
	a.Dates.Merge(parent.Dates)
}
