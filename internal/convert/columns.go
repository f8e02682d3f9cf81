// Package convert provides transforms over already ingested data sets:
// column extraction with optional time-range bounds, column renaming and
// time-zone conversion of parsed timestamp columns.
package convert

import (
	"fmt"
	"time"

	"github.com/crtools/crparse/internal/timeparse"
	"github.com/crtools/crparse/pkg/models"
)

// TimeRange bounds ExtractColumns to rows whose timestamp in Column falls
// within [From, To]. The data set must already be time converted. A zero
// From means the UNIX epoch; a zero To means now.
type TimeRange struct {
	Column models.ColumnKey
	From   time.Time
	To     time.Time
}

// ExtractColumns returns a data set holding only the requested columns of
// each row, in row order. With no columns given, whole rows are kept.
// With a time range, rows outside the range are dropped; a row missing
// the range's time column, or holding an unparsed value there, is an
// error.
func ExtractColumns(data models.DataSet, columns []models.ColumnKey, timeRange *TimeRange) (models.DataSet, error) {
	var from, to time.Time
	if timeRange != nil {
		if timeRange.Column.IsZero() {
			return nil, fmt.Errorf("time range requires a time column")
		}
		from = timeRange.From
		if from.IsZero() {
			from = time.Unix(0, 0).UTC()
		}
		to = timeRange.To
		if to.IsZero() {
			to = time.Now().UTC()
		}
	}

	keep := make(map[models.ColumnKey]bool, len(columns))
	for _, k := range columns {
		keep[k] = true
	}

	out := make(models.DataSet, 0, len(data))
	for i := range data {
		row := &data[i]

		if timeRange != nil {
			v, ok := row.Get(timeRange.Column)
			if !ok {
				return nil, &timeparse.ColumnNotFoundError{Column: timeRange.Column}
			}
			if !v.IsTimestamp() {
				return nil, fmt.Errorf("column %q is not a parsed timestamp",
					timeRange.Column.String())
			}
			ts := v.Time()
			if ts.Before(from) || ts.After(to) {
				continue
			}
		}

		if len(columns) == 0 {
			out = append(out, row.Clone())
			continue
		}

		extracted := models.NewRow()
		for _, pair := range row.Pairs() {
			if keep[pair.Key] {
				extracted.Set(pair.Key, pair.Value)
			}
		}
		out = append(out, extracted)
	}
	return out, nil
}

// UpdateResult carries the outcome of UpdateColumnNames: the renamed rows
// and, when requested, the rows whose length did not match the new names.
type UpdateResult struct {
	Updated    models.DataSet
	Mismatched models.DataSet
}

// UpdateColumnNames maps a fresh set of header names onto each row's
// values positionally. With matchRowLengths, rows whose column count
// differs from the name count are filtered out instead of renamed;
// captureMismatched collects them in the result.
func UpdateColumnNames(data models.DataSet, names []string, matchRowLengths, captureMismatched bool) UpdateResult {
	var result UpdateResult

	for i := range data {
		row := &data[i]
		if matchRowLengths && row.Len() != len(names) {
			if captureMismatched {
				result.Mismatched = append(result.Mismatched, row.Clone())
			}
			continue
		}

		values := row.Values()
		n := len(names)
		if len(values) < n {
			n = len(values)
		}
		renamed := models.NewRow()
		for j := 0; j < n; j++ {
			renamed.Set(models.Name(names[j]), values[j])
		}
		result.Updated = append(result.Updated, renamed)

		if !matchRowLengths && captureMismatched {
			result.Mismatched = append(result.Mismatched, row.Clone())
		}
	}
	return result
}

// ConvertTimeZone rebinds every row's parsed timestamp in timeColumn to
// another IANA zone, preserving the instant. The zone is validated up
// front; a row missing the column, or holding an unparsed value there,
// is an error.
func ConvertTimeZone(data models.DataSet, timeColumn models.ColumnKey, toZone string) (models.DataSet, error) {
	loc, err := time.LoadLocation(toZone)
	if err != nil {
		return nil, &timeparse.UnknownTimeZoneError{Name: toZone, Err: err}
	}

	out := make(models.DataSet, 0, len(data))
	for i := range data {
		row := data[i].Clone()
		v, ok := row.Get(timeColumn)
		if !ok {
			return nil, &timeparse.ColumnNotFoundError{Column: timeColumn}
		}
		if !v.IsTimestamp() {
			return nil, fmt.Errorf("column %q is not a parsed timestamp", timeColumn.String())
		}
		row.Set(timeColumn, models.Timestamp(v.Time().In(loc)))
		out = append(out, row)
	}
	return out, nil
}
