package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a fatal load failure.
type ErrorKind int

const (
	Unknown ErrorKind = iota
	NotFound
	PermissionDenied
	ParseError
	EmptyDataset
)

func (k ErrorKind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case PermissionDenied:
		return "permission_denied"
	case ParseError:
		return "parse_error"
	case EmptyDataset:
		return "empty_dataset"
	default:
		return "unknown"
	}
}

// LoadError is returned by Load and FromTable.
type LoadError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("load %s: %s", e.Path, e.Kind)
	}
	return fmt.Sprintf("load %s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Message is the text shown to the user for the failure.
func (e *LoadError) Message() string {
	switch e.Kind {
	case NotFound:
		return fmt.Sprintf("data file does not exist: %s", e.Path)
	case PermissionDenied:
		return fmt.Sprintf("no read permission for data file: %s", e.Path)
	case ParseError:
		return fmt.Sprintf("CSV parse error: %v", e.Err)
	case EmptyDataset:
		return fmt.Sprintf("CSV file is empty: %s", e.Path)
	default:
		return fmt.Sprintf("error while loading data: %v", e.Err)
	}
}

// SchemaError reports every required column absent from the table.
type SchemaError struct {
	Missing  []string
	Required []string
}

func (e *SchemaError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

// Message is the text shown to the user for the failure.
func (e *SchemaError) Message() string {
	return fmt.Sprintf("CSV file is missing required columns: %s. The file must contain: %s",
		strings.Join(e.Missing, ", "), strings.Join(e.Required, ", "))
}

// ErrNoDataForYear is reported when a year selection matches no rows.
var ErrNoDataForYear = errors.New("no data for year")

// MissingValueWarning flags a required column holding missing cells.
type MissingValueWarning struct {
	Column string
	Rows   []int // 1-based data row numbers
}

func (w MissingValueWarning) String() string {
	return fmt.Sprintf("column %q contains %d missing value(s), results may be affected", w.Column, len(w.Rows))
}

// Describe renders any pipeline error as the user-facing message.
func Describe(err error) string {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Message()
	}
	var se *SchemaError
	if errors.As(err, &se) {
		return se.Message()
	}
	return err.Error()
}

// IsFatal reports whether err must halt rendering.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrNoDataForYear)
}
