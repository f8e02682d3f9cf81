// Command crparse converts comma-separated data files produced by
// Campbell Scientific CR-type dataloggers: it normalizes the device's
// time columns into timestamps, optionally splits mixed-array files by
// array ID, and re-exports the result as CSV.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/crtools/crparse/internal/arrayid"
	"github.com/crtools/crparse/internal/config"
	"github.com/crtools/crparse/internal/export"
	"github.com/crtools/crparse/internal/ingest"
	"github.com/crtools/crparse/internal/logger"
	"github.com/crtools/crparse/internal/timeparse"
	"github.com/crtools/crparse/pkg/models"
)

// Version is set at build time
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (default: search crparse.toml)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(Version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Log.Level, cfg.Log.Format)
	log.Info().
		Str("version", Version).
		Str("input", cfg.Input.Path).
		Str("device", cfg.Device.Model).
		Msg("Starting crparse")

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("Conversion failed")
	}
}

func run(cfg *config.Config) error {
	device, err := timeparse.ParseDevice(cfg.Device.Model)
	if err != nil {
		return err
	}

	var library timeparse.Library
	if len(cfg.Device.Library) > 0 {
		library = timeparse.Library(cfg.Device.Library)
	}
	parser, err := timeparse.New(device, cfg.Device.TimeZone, library)
	if err != nil {
		return err
	}

	data, indexed, err := readInput(&cfg.Input)
	if err != nil {
		return err
	}
	log.Info().Int("rows", len(data)).Msg("Input read")

	convertOpts, err := buildConvertOptions(&cfg.Time, indexed)
	if err != nil {
		return err
	}

	exportOpts := export.Options{
		Header:          cfg.Output.Header,
		IncludeTimeZone: cfg.Output.IncludeTimeZone,
		Truncate:        cfg.Output.Truncate,
	}

	if len(cfg.Output.ArrayIDs) > 0 {
		return runArrayIDs(cfg, parser, data, convertOpts, exportOpts)
	}

	if cfg.Time.Parse {
		data, err = parser.ConvertTime(data, *convertOpts)
		if err != nil {
			return err
		}
	}
	if err := export.ToCSV(data, cfg.Output.Path, exportOpts); err != nil {
		return err
	}
	log.Info().Str("path", cfg.Output.Path).Int("rows", len(data)).Msg("Export done")
	return nil
}

// runArrayIDs fans a mixed data set out per array ID, converting time
// columns partition by partition.
func runArrayIDs(cfg *config.Config, parser *timeparse.Parser, data models.DataSet,
	convertOpts *timeparse.ConvertOptions, exportOpts export.Options) error {

	ids := make([]string, 0, len(cfg.Output.ArrayIDs))
	info := make(map[string]export.ArrayInfo, len(cfg.Output.ArrayIDs))
	for id, path := range cfg.Output.ArrayIDs {
		ids = append(ids, id)
		// Export info follows any ID translation so it still matches the
		// renamed partitions.
		key := id
		if name, ok := cfg.Output.ArrayNames[id]; ok && name != "" {
			key = name
		}
		info[key] = export.ArrayInfo{Path: path}
	}

	partitions := arrayid.Partition(data, ids...)
	partitions = arrayid.RenameIDs(partitions, cfg.Output.ArrayNames)

	if cfg.Time.Parse {
		for id, part := range partitions {
			converted, err := parser.ConvertTime(part, *convertOpts)
			if err != nil {
				return fmt.Errorf("array id %q: %w", id, err)
			}
			partitions[id] = converted
		}
	}

	if err := export.ArrayIDsToCSV(partitions, info, exportOpts); err != nil {
		return err
	}
	log.Info().Int("partitions", len(partitions)).Msg("Array id export done")
	return nil
}

func readInput(in *config.InputConfig) (models.DataSet, bool, error) {
	if in.Format == "mixed" {
		data, err := ingest.ReadMixedArrayFile(in.Path, ingest.MixedArrayOptions{
			FirstLine: in.FirstLine,
			LastLine:  in.LastLine,
			FixFloats: in.FixFloats,
		})
		return data, true, err
	}

	data, err := ingest.ReadTableFile(in.Path, ingest.TableOptions{
		Header:    in.Header,
		HeaderRow: in.HeaderRow,
		FirstLine: in.FirstLine,
		LastLine:  in.LastLine,
	})
	indexed := len(in.Header) == 0 && in.HeaderRow < 0
	return data, indexed, err
}

func buildConvertOptions(tc *config.TimeConfig, indexed bool) (*timeparse.ConvertOptions, error) {
	opts := &timeparse.ConvertOptions{
		ToUTC:              tc.ToUTC,
		IgnoreParsingError: tc.IgnoreErrors,
	}

	for _, col := range tc.Columns {
		key, err := columnKey(col, indexed)
		if err != nil {
			return nil, err
		}
		opts.TimeColumns = append(opts.TimeColumns, key)
	}
	if tc.ParsedColumn != "" {
		opts.TimeParsedColumn = models.Name(tc.ParsedColumn)
	}
	if tc.ReplaceColumn != "" {
		key, err := columnKey(tc.ReplaceColumn, indexed)
		if err != nil {
			return nil, err
		}
		opts.ReplaceTimeColumn = key
	}
	return opts, nil
}

// columnKey interprets a configured column reference: a zero-based index
// for headerless input, a header name otherwise.
func columnKey(col string, indexed bool) (models.ColumnKey, error) {
	if !indexed {
		return models.Name(col), nil
	}
	i, err := strconv.Atoi(col)
	if err != nil || i < 0 {
		return models.ColumnKey{}, fmt.Errorf("column %q is not a valid index", col)
	}
	return models.Index(i), nil
}
