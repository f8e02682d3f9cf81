package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the configuration for one crparse batch job.
type Config struct {
	Log    LogConfig
	Device DeviceConfig
	Input  InputConfig
	Time   TimeConfig
	Output OutputConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// DeviceConfig selects the datalogger profile the time columns are
// parsed with.
type DeviceConfig struct {
	Model    string   // generic, cr10, cr10x or cr1000
	TimeZone string   // IANA zone of the collected data
	Library  []string // format token override; empty uses the model's preset
}

type InputConfig struct {
	Path      string
	Format    string   // table or mixed
	Header    []string // literal column names
	HeaderRow int      // zero-based header line, -1 for none
	FirstLine int      // zero-based, inclusive
	LastLine  int      // zero-based, inclusive, -1 for EOF
	FixFloats bool     // repair stripped leading zeros (mixed format)
}

// TimeConfig controls the time-column conversion step.
type TimeConfig struct {
	Parse         bool
	Columns       []string // names, or indices when the input has no header
	ParsedColumn  string   // name for the inserted timestamp column
	ReplaceColumn string   // column whose position the timestamp takes
	ToUTC         bool
	IgnoreErrors  bool // substitute epoch for unparseable rows
}

type OutputConfig struct {
	Path            string
	Header          bool
	IncludeTimeZone bool
	Truncate        bool
	// ArrayIDs maps array IDs to output paths for mixed-format fan-out.
	// Empty means single-file export.
	ArrayIDs map[string]string
	// ArrayNames translates array IDs before fan-out.
	ArrayNames map[string]string
}

// Load reads configuration from defaults, environment and an optional
// TOML file. A non-empty path selects the file explicitly; otherwise the
// usual locations are searched.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("CRPARSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		v.SetConfigName("crparse")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/crparse/")
		v.AddConfigPath("$HOME/.crparse/")

		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
			// No config file is fine, defaults and env apply.
		}
	}

	cfg := &Config{
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Device: DeviceConfig{
			Model:    v.GetString("device.model"),
			TimeZone: v.GetString("device.time_zone"),
			Library:  v.GetStringSlice("device.library"),
		},
		Input: InputConfig{
			Path:      v.GetString("input.path"),
			Format:    v.GetString("input.format"),
			Header:    v.GetStringSlice("input.header"),
			HeaderRow: v.GetInt("input.header_row"),
			FirstLine: v.GetInt("input.first_line"),
			LastLine:  v.GetInt("input.last_line"),
			FixFloats: v.GetBool("input.fix_floats"),
		},
		Time: TimeConfig{
			Parse:         v.GetBool("time.parse"),
			Columns:       v.GetStringSlice("time.columns"),
			ParsedColumn:  v.GetString("time.parsed_column"),
			ReplaceColumn: v.GetString("time.replace_column"),
			ToUTC:         v.GetBool("time.to_utc"),
			IgnoreErrors:  v.GetBool("time.ignore_errors"),
		},
		Output: OutputConfig{
			Path:            v.GetString("output.path"),
			Header:          v.GetBool("output.header"),
			IncludeTimeZone: v.GetBool("output.include_time_zone"),
			Truncate:        v.GetBool("output.truncate"),
			ArrayIDs:        v.GetStringMapString("output.array_ids"),
			ArrayNames:      v.GetStringMapString("output.array_names"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields no job can run without.
func (c *Config) Validate() error {
	if c.Input.Path == "" {
		return fmt.Errorf("input.path is required")
	}
	switch c.Input.Format {
	case "table", "mixed":
	default:
		return fmt.Errorf("input.format must be table or mixed, got %q", c.Input.Format)
	}
	if c.Output.Path == "" && len(c.Output.ArrayIDs) == 0 {
		return fmt.Errorf("output.path or output.array_ids is required")
	}
	if c.Time.Parse && len(c.Time.Columns) == 0 {
		return fmt.Errorf("time.columns is required when time.parse is set")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("device.model", "generic")
	v.SetDefault("device.time_zone", "UTC")

	v.SetDefault("input.format", "table")
	v.SetDefault("input.header_row", -1)
	v.SetDefault("input.first_line", 0)
	v.SetDefault("input.last_line", -1)
	v.SetDefault("input.fix_floats", true)

	v.SetDefault("time.parse", false)
	v.SetDefault("time.to_utc", false)
	v.SetDefault("time.ignore_errors", false)

	v.SetDefault("output.header", false)
	v.SetDefault("output.include_time_zone", false)
	v.SetDefault("output.truncate", false)
}
