package domain

import (
	"fmt"
	"strings"
)

// ConfigError indicates a missing or placeholder operator setting (for
// example an unpopulated API token). It requires operator action and is never
// retried.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Reason
}

// NetworkError indicates a non-2xx response from an upstream source. It is
// fatal for the call; there is no automatic retry.
type NetworkError struct {
	URL    string
	Status int
	Body   string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("upstream error: status %d from %s: %s", e.Status, e.URL, e.Body)
}

// SchemaError indicates that a table is missing required canonical columns.
// Missing lists every absent column, not just the first.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

// ParseError indicates a cell that could not be parsed as its required
// datetime representation.
type ParseError struct {
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("column %q: cannot parse %q: %v", e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// TypeMismatchError indicates a column that is present but holds the wrong
// semantic type.
type TypeMismatchError struct {
	Column string
	Want   string
	Value  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("column %q must be %s (offending value %q)", e.Column, e.Want, e.Value)
}

// IntegrityError indicates raw data violating a dataset-level invariant, such
// as multiple distinct timezones where exactly one is required.
type IntegrityError struct {
	Reason string
}

func (e *IntegrityError) Error() string {
	return "data integrity error: " + e.Reason
}

// ArchiveMemberError indicates that the expected file is absent from a
// downloaded ZIP archive.
type ArchiveMemberError struct {
	Member string
}

func (e *ArchiveMemberError) Error() string {
	return fmt.Sprintf("%q not found in ZIP archive", e.Member)
}

// UnknownDatasetError indicates a dataset identifier with no registered
// loader.
type UnknownDatasetError struct {
	ID string
}

func (e *UnknownDatasetError) Error() string {
	return fmt.Sprintf("no loader registered for dataset %q", e.ID)
}
