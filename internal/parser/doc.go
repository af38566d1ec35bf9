// Package parser turns markdown checklists into tasks.
//
// A document is read line by line. Headings build the path of every task
// below them, top-level checkbox lines start a task, indented checkbox
// lines add subtasks to the current task, and any other line is appended
// to the current task's description.
//
//	# Work
//	- [ ] Ship it [d:3/1] [!2]
//	  - [ ] subtask [@bob]
//	  Release notes go here.
//
// Parsing stops at the first malformed line. The returned error is a
// *LineError wrapping one of the sentinel errors of this package.
package parser
