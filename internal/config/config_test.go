// Package config tests configuration loading.
package config

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/today-go/internal/task"
)

// isolate points the user config lookup and the working directory at
// empty temporary directories.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	work := t.TempDir()
	chdir(t, work)
	return home
}

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.Dir != DefaultDir {
		t.Errorf("Dir: got %q, want %q", cfg.Dir, DefaultDir)
	}
	if cfg.Days != 0 {
		t.Errorf("Days: got %d, want 0", cfg.Days)
	}
	if cfg.Workers != DefaultWorkers {
		t.Errorf("Workers: got %d, want %d", cfg.Workers, DefaultWorkers)
	}
	if cfg.StatusFile != "/tmp/task" {
		t.Errorf("StatusFile: got %q, want /tmp/task", cfg.StatusFile)
	}
	if cfg.StartHook != "killall -USR1 i3status" {
		t.Errorf("StartHook: got %q", cfg.StartHook)
	}
	if cfg.ExportFormat != FormatJSON {
		t.Errorf("ExportFormat: got %q, want json", cfg.ExportFormat)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("logging: got %q/%q, want info/text", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TODAY_DIR", "/notes")
	t.Setenv("TODAY_DAYS", "3")
	t.Setenv("TODAY_SKIP_INVALID", "true")
	t.Setenv("TODAY_LOG_LEVEL", "debug")

	cfg := &Config{}
	setDefaults(cfg)
	sources := map[string]ConfigSource{}
	if err := loadFromEnv(cfg, sources); err != nil {
		t.Fatalf("loadFromEnv: %v", err)
	}

	if cfg.Dir != "/notes" {
		t.Errorf("Dir: got %q, want /notes", cfg.Dir)
	}
	if cfg.Days != 3 {
		t.Errorf("Days: got %d, want 3", cfg.Days)
	}
	if !cfg.SkipInvalid {
		t.Error("SkipInvalid: got false, want true")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
	if cfg.Workers != DefaultWorkers {
		t.Errorf("Workers: got %d, want default %d", cfg.Workers, DefaultWorkers)
	}
	if sources["dir"] != SourceEnv || sources["days"] != SourceEnv {
		t.Errorf("sources: got %v", sources)
	}
	if _, ok := sources["workers"]; ok {
		t.Error("unset variable recorded as a source")
	}
}

func TestLoadFromEnvInvalid(t *testing.T) {
	t.Setenv("TODAY_WORKERS", "many")
	cfg := &Config{}
	setDefaults(cfg)
	if err := loadFromEnv(cfg, nil); err == nil {
		t.Fatal("expected error for non-numeric TODAY_WORKERS")
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "today.toml")

	content := []byte(`dir = "~/notes"
days = 2
start_hook = "pkill -USR1 waybar"
`)
	if err := os.WriteFile(configFile, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{}
	setDefaults(cfg)
	sources := map[string]ConfigSource{}
	if err := loadConfigFile(cfg, configFile, sources, SourceUserFile); err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}

	if cfg.Dir != "~/notes" {
		t.Errorf("Dir: got %q, want ~/notes", cfg.Dir)
	}
	if cfg.Days != 2 {
		t.Errorf("Days: got %d, want 2", cfg.Days)
	}
	if cfg.StartHook != "pkill -USR1 waybar" {
		t.Errorf("StartHook: got %q", cfg.StartHook)
	}
	if cfg.Workers != DefaultWorkers {
		t.Errorf("Workers: got %d, want default", cfg.Workers)
	}
	if sources["days"] != SourceUserFile {
		t.Errorf("days source: got %q", sources["days"])
	}
	if _, ok := sources["workers"]; ok {
		t.Error("workers recorded as set by file")
	}
}

func TestLoadConfigFileUnknownKey(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "today.toml")
	if err := os.WriteFile(configFile, []byte("dayz = 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := &Config{}
	err := loadConfigFile(cfg, configFile, map[string]ConfigSource{}, SourceProjFile)
	if err == nil || !strings.Contains(err.Error(), "dayz") {
		t.Fatalf("got %v, want unknown key error naming dayz", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot get home directory")
	}

	tests := []struct {
		input string
		want  string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative", "relative"},
	}
	if runtime.GOOS != "windows" {
		t.Setenv("TODAY_TEST_NOTES", "/srv/notes")
		tests = append(tests, struct {
			input string
			want  string
		}{"$TODAY_TEST_NOTES/work", "/srv/notes/work"})
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := expandPath(tt.input)
			if got != tt.want {
				t.Errorf("expandPath(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExpandWindowsEnv(t *testing.T) {
	t.Setenv("TODAY_TEST_DIR", `C:\Users\me`)

	tests := []struct {
		in, want string
	}{
		{`%TODAY_TEST_DIR%\notes`, `C:\Users\me\notes`},
		{`%TODAY_MISSING_VAR%\notes`, `%TODAY_MISSING_VAR%\notes`},
		{"100%", "100%"},
		{"50%%off", "50%off"},
		{"%%TODAY_TEST_DIR%%", "%TODAY_TEST_DIR%"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := expandWindowsEnv(tt.in); got != tt.want {
			t.Errorf("expandWindowsEnv(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseFlags(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	args := []string{
		"--dir", "tasks",
		"--days", "7",
		"--today", "1/5/2022",
		"--skip-invalid",
		"show", "3",
	}

	sources := map[string]ConfigSource{}
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		t.Fatalf("parseFlags: %v", err)
	}

	if cfg.Dir != "tasks" {
		t.Errorf("Dir: got %q, want tasks", cfg.Dir)
	}
	if cfg.Days != 7 {
		t.Errorf("Days: got %d, want 7", cfg.Days)
	}
	if cfg.TodayOverride != "1/5/2022" {
		t.Errorf("TodayOverride: got %q", cfg.TodayOverride)
	}
	if !cfg.SkipInvalid {
		t.Error("SkipInvalid: got false, want true")
	}
	if rest := fs.Args(); len(rest) != 2 || rest[0] != "show" {
		t.Errorf("remaining args: got %v, want [show 3]", rest)
	}
	if sources["days"] != SourceFlag || sources["today"] != SourceFlag {
		t.Errorf("sources: got %v", sources)
	}
	if _, ok := sources["workers"]; ok {
		t.Error("unset flag recorded as a source")
	}
}

func TestLoadWithSources(t *testing.T) {
	home := isolate(t)

	userDir := filepath.Join(home, ".today")
	if err := os.MkdirAll(userDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(userDir, "today.toml"), []byte("days = 1\nworkers = 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile("today.toml", []byte("days = 5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TODAY_WORKERS", "8")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cws, err := LoadWithSources(fs, []string{"--log-level", "warn"})
	if err != nil {
		t.Fatalf("LoadWithSources: %v", err)
	}

	cfg := cws.Config
	if cfg.Days != 5 {
		t.Errorf("Days: got %d, want project value 5", cfg.Days)
	}
	if cfg.Workers != 8 {
		t.Errorf("Workers: got %d, want env value 8", cfg.Workers)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel: got %q, want warn", cfg.LogLevel)
	}

	want := map[string]ConfigSource{
		"days":       SourceProjFile,
		"workers":    SourceEnv,
		"log_level":  SourceFlag,
		"dir":        SourceDefault,
		"start_hook": SourceDefault,
	}
	for field, source := range want {
		if cws.Sources[field] != source {
			t.Errorf("source of %s: got %q, want %q", field, cws.Sources[field], source)
		}
	}
	if len(cws.Files) != 2 {
		t.Errorf("Files: got %v, want user and project file", cws.Files)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"negative days", []string{"--days", "-1"}},
		{"zero workers", []string{"--workers", "0"}},
		{"bad today", []string{"--today", "13/45/2024"}},
		{"unknown flag", []string{"--nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			fs := flag.NewFlagSet("test", flag.ContinueOnError)
			fs.SetOutput(&bytes.Buffer{})
			if _, err := Load(fs, tt.args); err == nil {
				t.Errorf("Load(%v): expected error", tt.args)
			}
		})
	}

	t.Run("bad export format", func(t *testing.T) {
		isolate(t)
		t.Setenv("TODAY_EXPORT_FORMAT", "xml")
		if _, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil); err == nil {
			t.Error("expected error for xml export format")
		}
	})
}

func TestToday(t *testing.T) {
	cfg := &Config{TodayOverride: "1/5/2022", Days: 2}
	today, err := cfg.Today()
	if err != nil {
		t.Fatalf("Today: %v", err)
	}
	if !today.Equal(task.Date(2022, 1, 5)) {
		t.Errorf("Today: got %s, want 2022-01-05", today)
	}

	taskDate, err := cfg.TaskDate()
	if err != nil {
		t.Fatalf("TaskDate: %v", err)
	}
	if !taskDate.Equal(task.Date(2022, 1, 7)) {
		t.Errorf("TaskDate: got %s, want 2022-01-07", taskDate)
	}

	current, err := (&Config{}).Today()
	if err != nil {
		t.Fatalf("Today without override: %v", err)
	}
	if current.Location() != time.UTC || current.Hour() != 0 {
		t.Errorf("Today without override: got %s, want a UTC midnight date", current)
	}
}

func TestExampleConfigDecodes(t *testing.T) {
	cfg := &Config{}
	md, err := toml.Decode(ExampleConfig(), cfg)
	if err != nil {
		t.Fatalf("decode example: %v", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		t.Errorf("example has unknown keys: %v", undecoded)
	}

	defaults := &Config{}
	setDefaults(defaults)
	if *cfg != *defaults {
		t.Errorf("example differs from defaults:\ngot  %+v\nwant %+v", *cfg, *defaults)
	}
}

func TestEncode(t *testing.T) {
	cfg := &Config{TodayOverride: "1/1/2024"}
	setDefaults(cfg)

	var buf bytes.Buffer
	if err := cfg.Encode(&buf); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `start_hook = "killall -USR1 i3status"`) {
		t.Errorf("encoded config missing start_hook:\n%s", out)
	}
	if strings.Contains(out, "1/1/2024") {
		t.Errorf("encoded config leaked the today override:\n%s", out)
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
