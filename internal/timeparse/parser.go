// Package timeparse converts the time-column representations emitted by
// Campbell Scientific CR-type dataloggers into timestamps.
//
// Each parser instance is built for one device profile: a time zone, a
// format library of strftime tokens (plus device sentinel tokens such as
// "Hour/Minute") and the device's custom-token expansion. A row's raw
// time values are zipped against the library, combined into one
// format/value pair and parsed in the configured zone:
//
//	CR10   row ["16", "30", "2230"]  ->  2016-01-30 22:30:00 +01:00 (Etc/GMT-1)
//	CR1000 row ["2016-01-30 22:30:00"] -> 2016-01-30 22:30:00 UTC
//
// Parsers are immutable after construction and safe for concurrent use.
package timeparse

import (
	"fmt"
	"time"

	"github.com/itchyny/timefmt-go"
	"github.com/rs/zerolog"

	"github.com/crtools/crparse/internal/logger"
	"github.com/crtools/crparse/pkg/models"
)

// Parser parses one device's time columns into timestamps.
type Parser struct {
	device  Device
	zone    string
	loc     *time.Location
	library Library
	log     zerolog.Logger
}

// New builds a parser for the given device, time zone and format library.
// A nil library falls back to the device's preset. The zone must be a
// valid IANA name; an unknown zone fails here, never at parse time.
func New(device Device, timeZone string, library Library) (*Parser, error) {
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return nil, &UnknownTimeZoneError{Name: timeZone, Err: err}
	}
	if library == nil {
		library = device.DefaultLibrary()
	}
	return &Parser{
		device:  device,
		zone:    timeZone,
		loc:     loc,
		library: append(Library(nil), library...),
		log:     logger.Get("timeparse"),
	}, nil
}

// NewCR10 builds a CR10 parser (Year, Julian Day, Hour/Minute).
func NewCR10(timeZone string) (*Parser, error) {
	return New(DeviceCR10, timeZone, nil)
}

// NewCR10X builds a CR10X parser (4-digit Year, Julian Day, Hour/Minute).
func NewCR10X(timeZone string) (*Parser, error) {
	return New(DeviceCR10X, timeZone, nil)
}

// NewCR1000 builds a CR1000 parser (single combined timestamp column).
func NewCR1000(timeZone string) (*Parser, error) {
	return New(DeviceCR1000, timeZone, nil)
}

// NewGeneric builds a parser with a caller-supplied format library and no
// device-specific token handling.
func NewGeneric(timeZone string, library Library) (*Parser, error) {
	return New(DeviceGeneric, timeZone, library)
}

// Device returns the parser's device profile.
func (p *Parser) Device() Device { return p.device }

// Zone returns the configured IANA zone name.
func (p *Parser) Zone() string { return p.zone }

// Location returns the configured zone.
func (p *Parser) Location() *time.Location { return p.loc }

// Library returns a copy of the parser's format library.
func (p *Parser) Library() Library {
	return append(Library(nil), p.library...)
}

// ParseOptions control error policy and UTC conversion for ParseValues.
type ParseOptions struct {
	// IgnoreParsingError substitutes the UNIX epoch (in the configured
	// zone) for unparseable values instead of failing the row.
	IgnoreParsingError bool
	// ToUTC converts the parsed timestamp to UTC. It applies uniformly,
	// including to the epoch fallback and the empty-input sentinel.
	ToUTC bool
}

// ParseValues resolves the raw time values against the format library and
// parses the combined pair into a timezone-aware timestamp.
//
// Input already carrying a UTC offset (a library with an "%z" token)
// keeps that offset; anything else is localized to the configured zone
// without shifting its wall-clock value.
func (p *Parser) ParseValues(values []string, opts ParseOptions) (time.Time, error) {
	resolved, err := Resolve(p.device, p.library, values)
	if err != nil {
		return time.Time{}, err
	}

	var t time.Time
	if resolved.Format == "" && resolved.Value == "" {
		// Nothing to parse. strptime with empty inputs yields its default
		// field values, 1900-01-01 00:00:00; keep that behavior.
		t = time.Date(1900, time.January, 1, 0, 0, 0, 0, p.loc)
	} else {
		t, err = timefmt.ParseInLocation(resolved.Value, resolved.Format, p.loc)
		if err != nil {
			p.log.Warn().
				Str("value", resolved.Value).
				Str("format", resolved.Format).
				Err(err).
				Msg("Could not parse time string")

			if !opts.IgnoreParsingError {
				return time.Time{}, &ParseError{
					Value:  resolved.Value,
					Format: resolved.Format,
					Err:    err,
				}
			}

			t = time.Unix(0, 0).In(p.loc)
			p.log.Warn().
				Time("fallback", t).
				Msg("Setting time value to epoch time")
		}
	}

	if opts.ToUTC {
		t = t.UTC()
	}
	return t, nil
}

// ConvertOptions control how ConvertTime rewrites a row's time columns.
type ConvertOptions struct {
	// TimeColumns are the keys holding raw time values, in the order the
	// device emits them. Must be non-empty.
	TimeColumns []models.ColumnKey
	// TimeParsedColumn, when set, names the inserted timestamp column.
	// Defaults to the insertion key.
	TimeParsedColumn models.ColumnKey
	// ReplaceTimeColumn, when set, designates the column whose position
	// the timestamp takes. Defaults to the first time column. Must exist
	// in every row.
	ReplaceTimeColumn models.ColumnKey
	// IgnoreParsingError and ToUTC are passed through to ParseValues.
	IgnoreParsingError bool
	ToUTC              bool
}

// ConvertTime replaces each row's time columns with a single parsed
// timestamp column. The returned data set has the same length and row
// order as the input; each row loses its time columns, gains exactly one
// timestamp column at the insertion position, and keeps the relative
// order of everything else. The input is not modified.
//
// The first failing row fails the whole call. Callers wanting per-row
// recovery should iterate with ConvertRowTime themselves.
func (p *Parser) ConvertTime(data models.DataSet, opts ConvertOptions) (models.DataSet, error) {
	if len(opts.TimeColumns) == 0 {
		return nil, ErrMissingTimeColumns
	}

	out := make(models.DataSet, 0, len(data))
	for i := range data {
		row, err := p.ConvertRowTime(data[i], opts)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out = append(out, row)
	}
	return out, nil
}

// ConvertRowTime converts a single row's time columns. See ConvertTime.
func (p *Parser) ConvertRowTime(row models.Row, opts ConvertOptions) (models.Row, error) {
	if len(opts.TimeColumns) == 0 {
		return models.Row{}, ErrMissingTimeColumns
	}

	insertKey, err := findInsertKey(&row, opts)
	if err != nil {
		return models.Row{}, err
	}

	isTimeColumn := make(map[models.ColumnKey]bool, len(opts.TimeColumns))
	for _, k := range opts.TimeColumns {
		isTimeColumn[k] = true
	}

	// Raw values are collected in row-key order, which for well-formed
	// files matches the library's token order.
	var values []string
	for _, pair := range row.Pairs() {
		if isTimeColumn[pair.Key] {
			values = append(values, pair.Value.Raw())
		}
	}

	ts, err := p.ParseValues(values, ParseOptions{
		IgnoreParsingError: opts.IgnoreParsingError,
		ToUTC:              opts.ToUTC,
	})
	if err != nil {
		return models.Row{}, err
	}

	target := insertKey
	if !opts.TimeParsedColumn.IsZero() {
		target = opts.TimeParsedColumn
	}

	out := row.Clone()
	out.Rename(insertKey, target)
	out.Set(target, models.Timestamp(ts))
	for _, k := range opts.TimeColumns {
		if k != target && out.Has(k) {
			out.Remove(k)
		}
	}
	return out, nil
}

// findInsertKey locates the column whose position the parsed timestamp
// takes: the designated replacement column if given, otherwise the first
// key equal to the first time column.
func findInsertKey(row *models.Row, opts ConvertOptions) (models.ColumnKey, error) {
	if !opts.ReplaceTimeColumn.IsZero() {
		if !row.Has(opts.ReplaceTimeColumn) {
			return models.ColumnKey{}, &ColumnNotFoundError{Column: opts.ReplaceTimeColumn}
		}
		return opts.ReplaceTimeColumn, nil
	}

	first := opts.TimeColumns[0]
	for _, k := range row.Keys() {
		if k == first {
			return k, nil
		}
	}
	return models.ColumnKey{}, &ColumnNotFoundError{Column: first}
}
