// Package watch reports changes to the markdown files of a task directory.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/nibzard/today-go/internal/logging"
	"github.com/nibzard/today-go/internal/scan"
)

// DefaultDebounce is the quiet period after the last event before
// onChange is called.
const DefaultDebounce = 200 * time.Millisecond

// Options controls Run.
type Options struct {
	Debounce time.Duration
	Logger   *log.Logger
}

// Run watches dir and its non-hidden subdirectories until ctx is done.
// Bursts of create, write, rename and remove events on markdown files are
// collapsed into a single onChange call. Directories created while
// watching are added to the watch.
//
// onChange runs on the calling goroutine; events that arrive meanwhile are
// delivered after it returns.
func Run(ctx context.Context, dir string, onChange func(), opts Options) error {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addTree(watcher, dir, true); err != nil {
		return err
	}
	logger.Debug("watching task directory", "dir", dir)

	updateCh := make(chan struct{}, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(watcher, event, logger) {
				continue
			}
			logger.Debug("task file changed", "file", event.Name, "op", event.Op.String())

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(opts.Debounce, func() {
				select {
				case updateCh <- struct{}{}:
				default:
				}
			})

		case <-updateCh:
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		}
	}
}

// relevant reports whether event should trigger a reload. New directories
// are added to the watcher as a side effect.
func relevant(watcher *fsnotify.Watcher, event fsnotify.Event, logger *log.Logger) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return false
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if hidden(event.Name) {
				return false
			}
			if err := addTree(watcher, event.Name, false); err != nil {
				logger.Warn("watch new directory", "dir", event.Name, "err", err)
			}
			return true
		}
	}

	return strings.EqualFold(filepath.Ext(event.Name), scan.Extension)
}

// addTree watches root and every non-hidden directory below it. root
// itself is watched even when hidden if isRoot is set.
func addTree(watcher *fsnotify.Watcher, root string, isRoot bool) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("watch %s: %w", root, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if hidden(path) && !(isRoot && path == root) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func hidden(path string) bool {
	name := filepath.Base(path)
	return len(name) > 1 && strings.HasPrefix(name, ".") && name != ".."
}
