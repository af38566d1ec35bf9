package task

import (
	"cmp"
	"slices"
	"time"
)

// UnprioritizedPriority is the priority used for ordering tasks that have
// none, placing them after every prioritized task.
const UnprioritizedPriority = 100000

// SortKey orders displayed tasks. Fields compare in declaration order.
type SortKey struct {
	Priority      int
	Path          []string
	// ReminderDelta and DueDelta are whole days from today.
	ReminderDelta int
	DueDelta      int
}

// SortKey derives the ordering key of the task relative to today.
//
// Unset reminder and due dates produce a zero delta, so undated tasks order
// as if they were due today.
func (t *Task) SortKey(today time.Time) SortKey {
	key := SortKey{
		Priority: UnprioritizedPriority,
		Path:     t.Path,
	}
	if t.Attrs.Priority != nil {
		key.Priority = t.Attrs.Priority.Priority
	}
	if t.Attrs.Dates.Reminder != nil {
		key.ReminderDelta = DaysBetween(today, *t.Attrs.Dates.Reminder)
	}
	if t.Attrs.Dates.Due != nil {
		key.DueDelta = DaysBetween(today, *t.Attrs.Dates.Due)
	}
	return key
}

// Compare returns -1, 0 or +1 depending on whether k sorts before, with or
// after other.
func (k SortKey) Compare(other SortKey) int {
	if c := cmp.Compare(k.Priority, other.Priority); c != 0 {
		return c
	}
	if c := slices.Compare(k.Path, other.Path); c != 0 {
		return c
	}
	if c := cmp.Compare(k.ReminderDelta, other.ReminderDelta); c != 0 {
		return c
	}
	return cmp.Compare(k.DueDelta, other.DueDelta)
}

// Sort orders tasks in place by their sort key. Tasks with equal keys keep
// their relative order.
func Sort(tasks []Task, today time.Time) {
	slices.SortStableFunc(tasks, func(a, b Task) int {
		return a.SortKey(today).Compare(b.SortKey(today))
	})
}
