// Package scan finds markdown task files under a directory and parses them
// concurrently.
package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/today-go/internal/logging"
	"github.com/nibzard/today-go/internal/parallel"
	"github.com/nibzard/today-go/internal/parser"
	"github.com/nibzard/today-go/internal/task"
)

// Extension is the suffix of task files.
const Extension = ".md"

// Discover returns the markdown files under dir, relative to dir and in
// lexical order. Hidden directories and dangling symlinks are skipped.
func Discover(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("task directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("task directory %s is not a directory", dir)
	}

	var files []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(d.Name()), Extension) {
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil || !target.Mode().IsRegular() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return files, nil
}

// Options controls Load.
type Options struct {
	// Dir is the task directory.
	Dir string
	// Today resolves relative dates in attributes.
	Today time.Time
	// Workers bounds the number of files parsed at once. Zero means one
	// worker per file.
	Workers int
	// SkipInvalid logs and skips files that fail to parse instead of
	// failing the whole load.
	SkipInvalid bool
	Logger      *log.Logger
}

// Load parses every task file under opts.Dir and returns the top-level
// tasks of all files, file by file in discovery order. Each task and
// subtask records its file relative to opts.Dir.
func Load(ctx context.Context, opts Options) ([]task.Task, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	files, err := Discover(opts.Dir)
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered task files", "dir", opts.Dir, "count", len(files))

	pool := parallel.NewWorkerPool[[]task.Task](ctx, opts.Workers, !opts.SkipInvalid)
	for _, rel := range files {
		rel := rel // per-iteration copy; go.mod targets Go 1.21
		pool.Submit(rel, func(ctx context.Context) ([]task.Task, error) {
			return parseFile(ctx, opts.Dir, rel, opts.Today)
		})
	}
	results, errs := pool.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(errs) > 0 && !opts.SkipInvalid {
		return nil, errors.Join(errs...)
	}

	var tasks []task.Task
	for _, r := range results {
		if r.Err != nil {
			logger.Warn("skipping invalid task file", "file", r.Key, "err", r.Err)
			continue
		}
		logger.Debug("parsed task file", "file", r.Key, "tasks", len(r.Value), "duration", r.Duration)
		tasks = append(tasks, r.Value...)
	}
	return tasks, nil
}

func parseFile(ctx context.Context, dir, rel string, today time.Time) ([]task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(dir, rel))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tasks, err := parser.ParseReader(f, today)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		tasks[i].SetFilePath(rel)
	}
	return tasks, nil
}
