package timeparse

import (
	"fmt"
	"strings"
)

// TokenHourMinute is the sentinel format token marking a CR10-family
// compact Hour/Minute column. The resolver replaces it with a plain
// strftime token and the decoded value before generic parsing.
const TokenHourMinute = "Hour/Minute"

// Library is the ordered sequence of format tokens a device emits its
// time columns in. Its length is the maximum number of time columns a row
// may supply. Tokens are plain strftime directives except for sentinel
// custom tokens such as TokenHourMinute.
type Library []string

// Device identifies a datalogger model with a preset time format library
// and custom-token handling.
type Device int

const (
	DeviceGeneric Device = iota
	DeviceCR10
	DeviceCR10X
	DeviceCR1000
)

func (d Device) String() string {
	switch d {
	case DeviceCR10:
		return "CR10"
	case DeviceCR10X:
		return "CR10X"
	case DeviceCR1000:
		return "CR1000"
	default:
		return "generic"
	}
}

// ParseDevice maps a configuration string to a Device.
func ParseDevice(s string) (Device, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "generic":
		return DeviceGeneric, nil
	case "cr10":
		return DeviceCR10, nil
	case "cr10x":
		return DeviceCR10X, nil
	case "cr1000":
		return DeviceCR1000, nil
	default:
		return DeviceGeneric, fmt.Errorf("unknown device model %q", s)
	}
}

// DefaultLibrary returns the device's preset format library. Generic has
// none; callers supply their own.
func (d Device) DefaultLibrary() Library {
	switch d {
	case DeviceCR10:
		return Library{"%y", "%j", TokenHourMinute}
	case DeviceCR10X:
		return Library{"%Y", "%j", TokenHourMinute}
	case DeviceCR1000:
		return Library{"%Y-%m-%d %H:%M:%S"}
	default:
		return nil
	}
}

// maxTimeValues returns the largest number of raw time values the
// device's grammar accepts, 0 meaning unbounded.
func (d Device) maxTimeValues() int {
	switch d {
	case DeviceCR10, DeviceCR10X:
		return 3
	default:
		return 0
	}
}

// expandToken rewrites a device-specific sentinel token and its raw value
// into a generic strftime token/value pair. Non-sentinel tokens pass
// through unchanged.
func (d Device) expandToken(token, value string) (string, string, error) {
	switch d {
	case DeviceCR10, DeviceCR10X:
		if token == TokenHourMinute {
			decoded, err := DecodeHourMinute(value)
			if err != nil {
				return "", "", err
			}
			return "%H%M", decoded, nil
		}
	}
	return token, value, nil
}

// ResolvedTime is the combined format/value pair handed to the generic
// strftime parser. Tokens and values are comma-joined.
type ResolvedTime struct {
	Format string
	Value  string
}

// Resolve zips the format library against the raw time values
// positionally, expanding device-specific tokens along the way. The zip
// truncates to the shorter sequence: extra tokens or extra values are
// dropped without error, which lets a row supply only the leading subset
// of a device's time columns. Zero pairs resolve to two empty strings, a
// "nothing to parse" signal the generic parser maps to its sentinel.
func Resolve(device Device, library Library, values []string) (ResolvedTime, error) {
	if max := device.maxTimeValues(); max > 0 && len(values) > max {
		return ResolvedTime{}, &UnsupportedTimeFormatError{
			Device: device,
			Values: len(values),
			Max:    max,
		}
	}

	n := len(library)
	if len(values) < n {
		n = len(values)
	}

	tokens := make([]string, 0, n)
	parsed := make([]string, 0, n)
	for i := 0; i < n; i++ {
		token, value, err := device.expandToken(library[i], values[i])
		if err != nil {
			return ResolvedTime{}, err
		}
		tokens = append(tokens, token)
		parsed = append(parsed, value)
	}

	return ResolvedTime{
		Format: strings.Join(tokens, ","),
		Value:  strings.Join(parsed, ","),
	}, nil
}
