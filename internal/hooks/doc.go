// Package hooks publishes the current task for a status bar.
//
// The status file holds a pango markup snippet describing the task that is
// being worked on. After it changes, an external hook command (by default
// "killall -USR1 i3status") tells the status bar to reread it.
package hooks
