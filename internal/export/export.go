// Package export writes the task list as JSON or YAML for other tools.
//
// The document is checked against an embedded JSON Schema before it is
// written, so consumers can rely on its shape.
package export

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/today-go/internal/task"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

const schemaURL = "https://github.com/nibzard/today-go/export.schema.json"

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Document is the exported form of a task list.
type Document struct {
	Today string   `json:"today" yaml:"today"`
	Tasks []Record `json:"tasks" yaml:"tasks"`
}

// Record is one exported task. Subtasks have no ID.
type Record struct {
	ID          *int     `json:"id,omitempty" yaml:"id,omitempty"`
	Path        []string `json:"path,omitempty" yaml:"path,omitempty"`
	Title       string   `json:"title" yaml:"title"`
	Done        bool     `json:"done" yaml:"done"`
	Dates       *Dates   `json:"dates,omitempty" yaml:"dates,omitempty"`
	Priority    *int     `json:"priority,omitempty" yaml:"priority,omitempty"`
	Assignee    string   `json:"assignee,omitempty" yaml:"assignee,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	File        string   `json:"file" yaml:"file"`
	Line        int      `json:"line" yaml:"line"`
	Summary     string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Subtasks    []Record `json:"subtasks,omitempty" yaml:"subtasks,omitempty"`
}

// Dates holds the task dates formatted as YYYY-MM-DD.
type Dates struct {
	Created  string `json:"created,omitempty" yaml:"created,omitempty"`
	Due      string `json:"due,omitempty" yaml:"due,omitempty"`
	Reminder string `json:"reminder,omitempty" yaml:"reminder,omitempty"`
	Finished string `json:"finished,omitempty" yaml:"finished,omitempty"`
}

// ValidationError is a schema violation at a location in the document.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Build converts tasks into a document. tasks must already be filtered and
// sorted; a task's id is its index in tasks.
func Build(tasks []task.Task, today time.Time) Document {
	doc := Document{
		Today: today.Format(task.DateLayout),
		Tasks: make([]Record, len(tasks)),
	}
	for i := range tasks {
		id := i
		doc.Tasks[i] = newRecord(&tasks[i], today)
		doc.Tasks[i].ID = &id
	}
	return doc
}

func newRecord(t *task.Task, today time.Time) Record {
	r := Record{
		Path:        t.Path,
		Title:       t.Title,
		Done:        t.Done,
		Dates:       newDates(t.Attrs.Dates),
		Description: t.Description,
		File:        t.FilePath,
		Line:        t.LineNumber,
		Summary:     t.Summary(today),
	}
	if t.Attrs.Priority != nil {
		p := t.Attrs.Priority.Priority
		r.Priority = &p
	}
	if t.Attrs.Assignment != nil {
		r.Assignee = t.Attrs.Assignment.AssignedTo
	}
	for i := range t.Subtasks {
		r.Subtasks = append(r.Subtasks, newRecord(&t.Subtasks[i], today))
	}
	return r
}

func newDates(d task.DateAttribute) *Dates {
	format := func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format(task.DateLayout)
	}
	out := Dates{
		Created:  format(d.Created),
		Due:      format(d.Due),
		Reminder: format(d.Reminder),
		Finished: format(d.Finished),
	}
	if out == (Dates{}) {
		return nil
	}
	return &out
}

// Write validates the document built from tasks and writes it in format.
func Write(w io.Writer, tasks []task.Task, today time.Time, format string) error {
	doc := Build(tasks, today)
	if err := Validate(doc); err != nil {
		return err
	}

	switch strings.ToLower(format) {
	case "", FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
	default:
		return fmt.Errorf("unsupported export format %q (want json or yaml)", format)
	}
	return nil
}

// Validate checks doc against the embedded schema. Every violation is
// returned as a *ValidationError, joined with errors.Join.
func Validate(doc Document) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document for validation: %w", err)
	}
	var obj interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unmarshal document for validation: %w", err)
	}

	err = s.Validate(obj)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	var errs []error
	collectSchemaErrors(&errs, ve)
	return errors.Join(errs...)
}

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("load export schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile export schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

func collectSchemaErrors(errs *[]error, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		*errs = append(*errs, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(errs, cause)
	}
}

// jsonPointerToPath turns "/tasks/0/title" into "tasks[0].title".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(strings.TrimPrefix(ptr, "#"), "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
