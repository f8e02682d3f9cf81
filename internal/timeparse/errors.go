package timeparse

import (
	"errors"
	"fmt"

	"github.com/crtools/crparse/pkg/models"
)

// ErrMissingTimeColumns is returned when a time conversion is requested
// without any time columns.
var ErrMissingTimeColumns = errors.New("at least one time column is required")

// UnknownTimeZoneError reports a time zone name that is not a valid IANA
// zone. It is returned at parser construction, never at parse time.
type UnknownTimeZoneError struct {
	Name string
	Err  error
}

func (e *UnknownTimeZoneError) Error() string {
	return fmt.Sprintf("%q is not a valid IANA time zone", e.Name)
}

func (e *UnknownTimeZoneError) Unwrap() error { return e.Err }

// ColumnNotFoundError reports that a designated time column is missing
// from a row.
type ColumnNotFoundError struct {
	Column models.ColumnKey
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("time column %q not found in row", e.Column.String())
}

// UnsupportedTimeFormatError reports more raw time values than the device
// profile's format grammar supports.
type UnsupportedTimeFormatError struct {
	Device Device
	Values int
	Max    int
}

func (e *UnsupportedTimeFormatError) Error() string {
	return fmt.Sprintf("%s supports at most %d time values, got %d",
		e.Device, e.Max, e.Values)
}

// CompactTimeError reports an Hour/Minute value whose length falls outside
// the decodable 1-4 character range.
type CompactTimeError struct {
	Value string
}

func (e *CompactTimeError) Error() string {
	return fmt.Sprintf("Hour/Minute value %q could not be parsed", e.Value)
}

// ParseError reports a combined time value that could not be parsed with
// its combined format. It carries both so an operator can find the
// offending columns in the source file.
type ParseError struct {
	Value  string
	Format string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse time string %q using the format %q",
		e.Value, e.Format)
}

func (e *ParseError) Unwrap() error { return e.Err }
