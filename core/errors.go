package core

import (
	"fmt"
	"strings"
)

// ConfigurationError reports an invalid component, spawn descriptor or configuration value
// Raised synchronously at the call that introduced the value
type ConfigurationError struct {
	Entity Entity // Zero when not entity-bound
	Scope  string // Component, spawn type or config section
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("configuration error")
	if !e.Entity.IsZero() {
		b.WriteString(" on ")
		b.WriteString(e.Entity.String())
	}
	if e.Scope != "" {
		b.WriteString(": ")
		b.WriteString(e.Scope)
		if e.Field != "" {
			b.WriteString(".")
			b.WriteString(e.Field)
		}
	} else if e.Field != "" {
		b.WriteString(": ")
		b.WriteString(e.Field)
	}
	if e.Value != nil {
		fmt.Fprintf(&b, " = %v", e.Value)
	}
	if e.Reason != "" {
		b.WriteString(" (")
		b.WriteString(e.Reason)
		b.WriteString(")")
	}
	return b.String()
}

// LevelLoadError reports a malformed level file
// Row and Col address the file grid (row 0 is the top line), -1 when not cell-bound
type LevelLoadError struct {
	Path  string
	Field string
	Row   int
	Col   int
	Err   error
}

func (e *LevelLoadError) Error() string {
	var b strings.Builder
	b.WriteString("level load failed")
	if e.Path != "" {
		b.WriteString(": ")
		b.WriteString(e.Path)
	}
	if e.Field != "" {
		b.WriteString(": field ")
		b.WriteString(e.Field)
	}
	if e.Row >= 0 && e.Col >= 0 {
		fmt.Fprintf(&b, " at row %d col %d", e.Row, e.Col)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *LevelLoadError) Unwrap() error {
	return e.Err
}

// NewLevelFieldError builds a LevelLoadError not bound to a grid cell
func NewLevelFieldError(path, field string, err error) *LevelLoadError {
	return &LevelLoadError{Path: path, Field: field, Row: -1, Col: -1, Err: err}
}
