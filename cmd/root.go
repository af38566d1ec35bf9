// Package cmd implements the CLI command structure for today.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/maps"

	"github.com/nibzard/today-go/internal/config"
	"github.com/nibzard/today-go/internal/export"
	"github.com/nibzard/today-go/internal/hooks"
	"github.com/nibzard/today-go/internal/logging"
	"github.com/nibzard/today-go/internal/render"
	"github.com/nibzard/today-go/internal/scan"
	"github.com/nibzard/today-go/internal/task"
	"github.com/nibzard/today-go/internal/ui"
	"github.com/nibzard/today-go/internal/watch"
)

// Version is set via ldflags at build time.
var Version = "dev"

// app carries what every command needs once global options are resolved.
type app struct {
	cfg     *config.Config
	files   []string
	sources map[string]config.ConfigSource
	today   time.Time
	logger  *log.Logger
	stdout  io.Writer
	stderr  io.Writer
}

// Run executes the today CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("today", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(stdout)
	}

	cfg := cws.Config
	today, err := cfg.Today()
	if err != nil {
		return err
	}
	a := &app{
		cfg:     cfg,
		files:   cws.Files,
		sources: cws.Sources,
		today:   today,
		logger:  logging.NewFromConfig(stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller),
		stdout:  stdout,
		stderr:  stderr,
	}

	// Determine the subcommand. A bare task id shows that task, anything
	// else that is not a flag names the command.
	subcommand := "list"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		switch {
		case isTaskID(remainingArgs[0]):
			subcommand = "show"
		case !strings.HasPrefix(remainingArgs[0], "-"):
			subcommand = remainingArgs[0]
			remainingArgs = remainingArgs[1:]
		}
	}

	switch subcommand {
	case "list", "ls":
		return a.listCommand(ctx, remainingArgs)
	case "show":
		return a.showCommand(ctx, remainingArgs)
	case "start":
		return a.startCommand(ctx, remainingArgs)
	case "tui":
		return a.tuiCommand(ctx, remainingArgs)
	case "export":
		return a.exportCommand(ctx, remainingArgs)
	case "config":
		return a.configCommand(remainingArgs)
	case "version":
		return versionCommand(stdout)
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// loadTasks parses the task directory and returns the tasks displayed for
// today, sorted. A task's id is its index in the result.
func (a *app) loadTasks(ctx context.Context) ([]task.Task, error) {
	tasks, err := scan.Load(ctx, scan.Options{
		Dir:         a.cfg.Dir,
		Today:       a.today,
		Workers:     a.cfg.Workers,
		SkipInvalid: a.cfg.SkipInvalid,
		Logger:      a.logger,
	})
	if err != nil {
		return nil, err
	}

	visible := task.Visible(tasks, a.today, a.cfg.Days)
	task.Sort(visible, a.today)
	limit, err := a.cfg.TaskDate()
	if err != nil {
		return nil, err
	}
	a.logger.Debug("selected tasks", "parsed", len(tasks), "visible", len(visible),
		"until", limit.Format(task.DateLayout))
	return visible, nil
}

// listCommand prints the task tree.
func (a *app) listCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("today list", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	watchFlag := fs.Bool("watch", false, "Print the list again whenever a task file changes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if err := a.printTree(ctx); err != nil {
		return err
	}
	if !*watchFlag {
		return nil
	}

	return watch.Run(ctx, a.cfg.Dir, func() {
		if err := a.printTree(ctx); err != nil {
			a.logger.Error("reload failed", "err", err)
		}
	}, watch.Options{Logger: a.logger})
}

func (a *app) printTree(ctx context.Context) error {
	tasks, err := a.loadTasks(ctx)
	if err != nil {
		return err
	}
	return render.New(a.stdout).Tree(tasks, render.TreeOptions{Today: a.today, Days: a.cfg.Days})
}

// showCommand prints the details of one task.
func (a *app) showCommand(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("show takes exactly one task id")
	}
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	tasks, err := a.loadTasks(ctx)
	if err != nil {
		return err
	}
	if id >= len(tasks) {
		return fmt.Errorf("task id %d does not exist (only %d tasks found)", id, len(tasks))
	}
	return render.New(a.stdout).Detail(&tasks[id], a.today)
}

// startCommand publishes the task being worked on to the status file.
// Without arguments the status is cleared; a task id selects a listed
// task; any other text is recorded as an ad-hoc task.
func (a *app) startCommand(ctx context.Context, args []string) error {
	var status string
	switch {
	case len(args) == 0:
	case len(args) == 1 && isTaskID(args[0]):
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		tasks, err := a.loadTasks(ctx)
		if err != nil {
			return err
		}
		if id >= len(tasks) {
			return fmt.Errorf("task id %d out of range (%d tasks)", id, len(tasks))
		}
		status = hooks.TaskStatus(&tasks[id])
	default:
		status = hooks.AdhocStatus(strings.Join(args, " "))
	}

	return hooks.Publish(ctx, a.cfg.StatusFile, status, a.cfg.StartHook, a.logger)
}

// tuiCommand launches the interactive viewer.
func (a *app) tuiCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("today tui", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	interval := fs.Duration("interval", ui.DefaultInterval, "How often task files are reloaded")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return ui.RunTUI(ctx, a.loadTasks, ui.Options{
		Today:    a.today,
		Days:     a.cfg.Days,
		Interval: *interval,
	})
}

// exportCommand writes the displayed tasks as JSON or YAML.
func (a *app) exportCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("today export", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	format := fs.String("format", a.cfg.ExportFormat, "Output format (json|yaml)")
	output := fs.String("o", "", "Write to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tasks, err := a.loadTasks(ctx)
	if err != nil {
		return err
	}

	if *output == "" {
		return export.Write(a.stdout, tasks, a.today, *format)
	}
	f, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	if err := export.Write(f, tasks, a.today, *format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// configCommand prints the effective configuration, or an example file.
func (a *app) configCommand(args []string) error {
	fs := flag.NewFlagSet("today config", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	example := fs.Bool("example", false, "Print an example configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *example {
		_, err := io.WriteString(a.stdout, config.ExampleConfig())
		return err
	}
	for _, file := range a.files {
		fmt.Fprintf(a.stdout, "# loaded from %s\n", file)
	}
	keys := maps.Keys(a.sources)
	slices.Sort(keys)
	for _, key := range keys {
		fmt.Fprintf(a.stdout, "# %s: %s\n", key, a.sources[key])
	}
	return a.cfg.Encode(a.stdout)
}

func versionCommand(w io.Writer) error {
	_, err := fmt.Fprintf(w, "today version %s\n", Version)
	return err
}

// isTaskID reports whether s looks like a task id rather than a command.
func isTaskID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseTaskID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid task ID: %s", s)
	}
	return id, nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "today - Show the tasks due today from markdown checklists")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  today [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  list             List today's tasks (default command)")
	fmt.Fprintln(w, "  show <id>        Show the details of a task (also: today <id>)")
	fmt.Fprintln(w, "  start [id|text]  Publish the current task to the status bar")
	fmt.Fprintln(w, "  tui              Browse tasks interactively")
	fmt.Fprintln(w, "  export           Write tasks as JSON or YAML")
	fmt.Fprintln(w, "  config           Show the effective configuration")
	fmt.Fprintln(w, "  version          Show version information")
	fmt.Fprintln(w, "  help             Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List Options:")
	fmt.Fprintln(w, "  -watch")
	fmt.Fprintln(w, "        Print the list again whenever a task file changes")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "TUI Options:")
	fmt.Fprintln(w, "  -interval duration")
	fmt.Fprintln(w, "        How often task files are reloaded (default 2s)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export Options:")
	fmt.Fprintln(w, "  -format string")
	fmt.Fprintln(w, "        Output format (json|yaml)")
	fmt.Fprintln(w, "  -o string")
	fmt.Fprintln(w, "        Write to this file instead of stdout")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options:")
	fmt.Fprintln(w, "  -example")
	fmt.Fprintln(w, "        Print an example configuration file")
}
