// Package task holds the task model produced by the markdown parser and the
// derived computations used for display.
//
// A task file is a markdown checklist:
//
//	# Work
//	## Release
//	- [ ] Ship it [d:3/1] [!2]
//	  - [ ] Write notes [@bob]
//	  Free-text description of the task.
//
// Headings form the task's Path, inline attributes populate Attributes and
// any other text under a task becomes its Description.
//
// # Dates
//
// Dates are civil dates represented as time.Time values at midnight UTC.
// Use Date to build one and Truncate to normalize an arbitrary time.
//
// # Visibility
//
// A task is displayed when it is not done and either its due or reminder
// date falls on or before today plus a lookahead window, or when one of its
// subtasks is displayed.
//
// # Ordering
//
// Tasks sort by priority (unprioritized last), heading path, reminder
// delta and due delta. Unset dates count as "today" for ordering.
package task
