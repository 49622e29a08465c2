// Package todo holds the task list model and its persisted form.
package todo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Task is a single to-do entry, represented solely by its text.
type Task string

// List is an ordered task list. Insertion order is significant.
type List []Task

// NewList builds a List from plain strings.
func NewList(texts ...string) List {
	l := make(List, 0, len(texts))
	for _, t := range texts {
		l = append(l, Task(t))
	}
	return l
}

// Clone returns an independent copy of the list. A nil list clones to an
// empty, non-nil list.
func (l List) Clone() List {
	out := make(List, len(l))
	copy(out, l)
	return out
}

// Strings returns the task texts.
func (l List) Strings() []string {
	out := make([]string, len(l))
	for i, t := range l {
		out[i] = string(t)
	}
	return out
}

// IndexOf returns the index of the first task equal to t, or -1.
func (l List) IndexOf(t Task) int {
	for i := range l {
		if l[i] == t {
			return i
		}
	}
	return -1
}

// RemoveFirst returns the list without the first task equal to t and
// whether one was found. The receiver is not modified.
func (l List) RemoveFirst(t Task) (List, bool) {
	i := l.IndexOf(t)
	if i < 0 {
		return l, false
	}
	out := make(List, 0, len(l)-1)
	out = append(out, l[:i]...)
	out = append(out, l[i+1:]...)
	return out, true
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // Path to the error location, e.g. "[2]"
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid  bool
	Count  int // number of tasks when Valid
	Errors []error
}

// Encode serializes the list as a compact JSON array. A nil list encodes
// as [] rather than null.
func Encode(l List) ([]byte, error) {
	if l == nil {
		l = List{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(l.Strings()); err != nil {
		return nil, fmt.Errorf("marshal task list: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode parses and validates a persisted task list.
func Decode(data []byte) (List, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse task list: %w", err)
	}

	if errs := validateDoc(doc); len(errs) > 0 {
		return nil, fmt.Errorf("invalid task list: %w", errors.Join(errs...))
	}

	var texts []string
	if err := json.Unmarshal(data, &texts); err != nil {
		return nil, fmt.Errorf("parse task list: %w", err)
	}
	return NewList(texts...), nil
}

// Validate checks raw slot bytes without building a list.
func Validate(data []byte) *ValidationResult {
	result := &ValidationResult{
		Valid:  true,
		Errors: make([]error, 0),
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: fmt.Errorf("not valid JSON: %w", err)})
		return result
	}

	if errs := validateDoc(doc); len(errs) > 0 {
		result.Valid = false
		result.Errors = append(result.Errors, errs...)
		return result
	}

	if arr, ok := doc.([]interface{}); ok {
		result.Count = len(arr)
	}
	return result
}

const listSchemaURL = "taskpad://task-list.schema.json"

const listSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "taskpad://task-list.schema.json",
  "title": "Task list",
  "type": "array",
  "items": {"type": "string"}
}`

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(listSchemaURL, strings.NewReader(listSchema)); err != nil {
		return nil, err
	}
	return compiler.Compile(listSchemaURL)
})

func validateDoc(doc interface{}) []error {
	schema, err := compileSchema()
	if err != nil {
		return []error{&ValidationError{Err: fmt.Errorf("compile schema: %w", err)}}
	}
	if err := schema.Validate(doc); err != nil {
		return schemaErrors(err)
	}
	return nil
}

func schemaErrors(err error) []error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []error{err}
	}
	var out []error
	collectSchemaErrors(&out, ve)
	return out
}

func collectSchemaErrors(out *[]error, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		*out = append(*out, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(out, cause)
	}
}

// jsonPointerToPath turns "/2" into "[2]" and "/a/0" into "a[0]".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
