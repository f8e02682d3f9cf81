// Package export serializes data sets back to comma-separated files.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/itchyny/timefmt-go"

	"github.com/crtools/crparse/pkg/models"
)

// Timestamp columns render with the loggers' canonical second-granularity
// format; IncludeTimeZone appends the numeric UTC offset.
const (
	timestampFormat     = "%Y-%m-%d %H:%M:%S"
	timestampZoneFormat = "%Y-%m-%d %H:%M:%S%z"
)

// ErrNoArrayInfo is returned when a per-array-ID export is requested with
// an empty info map.
var ErrNoArrayInfo = errors.New("at least one array id must be given")

// Options control CSV export.
type Options struct {
	// Header writes the first row's keys as a header line. The header is
	// skipped when the destination already has content, so re-running an
	// export appends rows without repeating it.
	Header bool
	// IncludeTimeZone appends the UTC offset to exported timestamps.
	IncludeTimeZone bool
	// Truncate replaces the destination instead of appending to it.
	Truncate bool
}

// ArrayInfo describes the destination for one array ID's partition.
type ArrayInfo struct {
	Path string
}

// ToCSV appends a data set to the file at path, creating the file and any
// missing parent directories. Rows serialize as comma-joined values in
// column order.
func ToCSV(data models.DataSet, path string, opts Options) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	writeHeader := opts.Header
	if writeHeader && !opts.Truncate {
		hasContent, err := fileHasContent(path)
		if err != nil {
			return err
		}
		if hasContent {
			writeHeader = false
		}
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if opts.Truncate {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i := range data {
		row := &data[i]
		if writeHeader {
			keys := row.Keys()
			names := make([]string, len(keys))
			for j, k := range keys {
				names[j] = k.String()
			}
			if _, err := w.WriteString(strings.Join(names, ",") + "\n"); err != nil {
				return err
			}
			writeHeader = false
		}
		if _, err := w.WriteString(rowToLine(row, opts.IncludeTimeZone) + "\n"); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// ArrayIDsToCSV fans a partitioned data set out to one file per array ID.
// Only IDs present in info are exported; an entry without a path is an
// error.
func ArrayIDsToCSV(partitions map[string]models.DataSet, info map[string]ArrayInfo, opts Options) error {
	if len(info) == 0 {
		return ErrNoArrayInfo
	}

	for id, target := range info {
		part, ok := partitions[id]
		if !ok {
			return fmt.Errorf("no data was found for array id %q", id)
		}
		if target.Path == "" {
			return fmt.Errorf("no file path was found for array id %q", id)
		}
		if err := ToCSV(part, target.Path, opts); err != nil {
			return fmt.Errorf("array id %q: %w", id, err)
		}
	}
	return nil
}

// FormatValue renders a column value the way it appears in an exported
// file.
func FormatValue(v models.ColumnValue, includeTimeZone bool) string {
	if !v.IsTimestamp() {
		return v.Raw()
	}
	if includeTimeZone {
		return timefmt.Format(v.Time(), timestampZoneFormat)
	}
	return timefmt.Format(v.Time(), timestampFormat)
}

func rowToLine(row *models.Row, includeTimeZone bool) string {
	values := row.Values()
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = FormatValue(v, includeTimeZone)
	}
	return strings.Join(parts, ",")
}

func fileHasContent(path string) (bool, error) {
	fi, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return fi.Size() > 0, nil
}
