// Package ingest reads CR-type datalogger output files into data sets.
//
// Two layouts exist in the wild. Table format carries one table
// definition per file, optionally with a header line; rows get header
// names as column keys, or zero-based indices when no header is
// available. Mixed-array format interleaves several table definitions
// and always keys columns by index; the array ID in the first column
// tells partitions apart (see the arrayid package).
//
// Line numbers are zero-based over the whole file, header lines
// included, matching the loggers' support software conventions.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/crtools/crparse/pkg/models"
)

// NoLimit disables the last-line bound.
const NoLimit = -1

// TableOptions control table-format reading.
type TableOptions struct {
	// Header supplies literal column names. Mutually exclusive with
	// HeaderRow in practice; when both are set, HeaderRow wins, as the
	// file's own names are authoritative.
	Header []string
	// HeaderRow is the zero-based line holding the column names, or a
	// negative value for none.
	HeaderRow int
	// FirstLine and LastLine bound the lines read, zero-based and
	// inclusive. LastLine NoLimit reads to EOF.
	FirstLine int
	LastLine  int
}

// DefaultTableOptions returns options reading every line with no header.
func DefaultTableOptions() TableOptions {
	return TableOptions{HeaderRow: -1, LastLine: NoLimit}
}

// MixedArrayOptions control mixed-array reading.
type MixedArrayOptions struct {
	FirstLine int
	LastLine  int
	// FixFloats repairs the stripped leading zero on fractional values:
	// ".5" becomes "0.5" and "-.5" becomes "-0.5". Older CR-type
	// loggers drop the zero on output.
	FixFloats bool
}

// DefaultMixedArrayOptions returns options reading every line with float
// repair on.
func DefaultMixedArrayOptions() MixedArrayOptions {
	return MixedArrayOptions{LastLine: NoLimit, FixFloats: true}
}

// ReadTableFile reads a table-format file. Files ending in .gz are
// decompressed transparently.
func ReadTableFile(path string, opts TableOptions) (models.DataSet, error) {
	f, closeAll, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer closeAll()

	data, err := ReadTable(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// ReadTable reads table-format rows from r.
func ReadTable(r io.Reader, opts TableOptions) (models.DataSet, error) {
	reader := newCSVReader(r)
	header := opts.Header
	lineNum := 0

	if opts.HeaderRow >= 0 {
		// The header is the record on line HeaderRow; everything before
		// it is discarded.
		for lineNum <= opts.HeaderRow {
			record, err := reader.Read()
			if err == io.EOF {
				return nil, io.ErrUnexpectedEOF
			}
			if err != nil {
				return nil, err
			}
			header = record
			lineNum++
		}
	}

	var data models.DataSet
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line := lineNum
		lineNum++

		if line < opts.FirstLine {
			continue
		}
		if opts.LastLine != NoLimit && line > opts.LastLine {
			break
		}
		data = append(data, recordToRow(record, header))
	}
	return data, nil
}

// ReadMixedArrayFile reads a mixed-array file. Files ending in .gz are
// decompressed transparently.
func ReadMixedArrayFile(path string, opts MixedArrayOptions) (models.DataSet, error) {
	f, closeAll, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer closeAll()

	data, err := ReadMixedArray(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// ReadMixedArray reads mixed-array rows from r. Columns are keyed by
// index; rows may differ in length.
func ReadMixedArray(r io.Reader, opts MixedArrayOptions) (models.DataSet, error) {
	reader := newCSVReader(r)
	lineNum := 0

	var data models.DataSet
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line := lineNum
		lineNum++

		if line < opts.FirstLine {
			continue
		}
		if opts.LastLine != NoLimit && line > opts.LastLine {
			break
		}

		if opts.FixFloats {
			for i, value := range record {
				record[i] = fixLeadingZero(value)
			}
		}
		data = append(data, recordToRow(record, nil))
	}
	return data, nil
}

func newCSVReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	return reader
}

// openInput opens path, layering a gzip reader over .gz files.
func openInput(path string) (io.Reader, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, func() { f.Close() }, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return gz, func() {
		gz.Close()
		f.Close()
	}, nil
}

// recordToRow maps a CSV record to a row. With a header, names and values
// zip to the shorter side; without one, columns are keyed by index.
func recordToRow(record, header []string) models.Row {
	row := models.NewRow()
	if header != nil {
		n := len(header)
		if len(record) < n {
			n = len(record)
		}
		for i := 0; i < n; i++ {
			row.Set(models.Name(header[i]), models.Raw(record[i]))
		}
		return row
	}
	for i, value := range record {
		row.Set(models.Index(i), models.Raw(value))
	}
	return row
}

// fixLeadingZero restores the leading zero the logger strips from
// fractional values.
func fixLeadingZero(value string) string {
	switch {
	case strings.HasPrefix(value, "."):
		return "0" + value
	case strings.HasPrefix(value, "-."):
		return "-0" + value[1:]
	}
	return value
}
