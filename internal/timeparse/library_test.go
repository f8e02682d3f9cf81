package timeparse

import (
	"errors"
	"testing"
)

func TestResolve_EqualLengths(t *testing.T) {
	resolved, err := Resolve(DeviceGeneric, Library{"%Y", "%m", "%d"}, []string{"2016", "1", "1"})
	if err != nil {
		t.Fatal(err)
	}
	if resolved.Format != "%Y,%m,%d" {
		t.Errorf("Format = %q, want %q", resolved.Format, "%Y,%m,%d")
	}
	if resolved.Value != "2016,1,1" {
		t.Errorf("Value = %q, want %q", resolved.Value, "2016,1,1")
	}
}

func TestResolve_TruncatesToShorterSequence(t *testing.T) {
	// The positional zip is deliberately shortest-sequence-wins: a row
	// may supply only the leading subset of a device's time columns, and
	// a library may be longer than the values on hand.
	tests := []struct {
		name       string
		library    Library
		values     []string
		wantFormat string
		wantValue  string
	}{
		{
			name:       "fewer values than tokens",
			library:    Library{"%Y", "%j", "%H%M"},
			values:     []string{"2016"},
			wantFormat: "%Y",
			wantValue:  "2016",
		},
		{
			name:       "fewer tokens than values",
			library:    Library{"%Y"},
			values:     []string{"2016", "30", "garbage"},
			wantFormat: "%Y",
			wantValue:  "2016",
		},
		{
			name:       "empty library",
			library:    nil,
			values:     []string{"2016"},
			wantFormat: "",
			wantValue:  "",
		},
		{
			name:       "no values",
			library:    Library{"%Y"},
			values:     nil,
			wantFormat: "",
			wantValue:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, err := Resolve(DeviceGeneric, tt.library, tt.values)
			if err != nil {
				t.Fatal(err)
			}
			if resolved.Format != tt.wantFormat {
				t.Errorf("Format = %q, want %q", resolved.Format, tt.wantFormat)
			}
			if resolved.Value != tt.wantValue {
				t.Errorf("Value = %q, want %q", resolved.Value, tt.wantValue)
			}
		})
	}
}

func TestResolve_CR10ExpandsHourMinute(t *testing.T) {
	resolved, err := Resolve(DeviceCR10, DeviceCR10.DefaultLibrary(), []string{"16", "30", "2230"})
	if err != nil {
		t.Fatal(err)
	}
	if resolved.Format != "%y,%j,%H%M" {
		t.Errorf("Format = %q, want %q", resolved.Format, "%y,%j,%H%M")
	}
	if resolved.Value != "16,30,2230" {
		t.Errorf("Value = %q, want %q", resolved.Value, "16,30,2230")
	}

	// The compact value gets zero-padded in place.
	resolved, err = Resolve(DeviceCR10, DeviceCR10.DefaultLibrary(), []string{"16", "30", "5"})
	if err != nil {
		t.Fatal(err)
	}
	if resolved.Value != "16,30,0005" {
		t.Errorf("Value = %q, want %q", resolved.Value, "16,30,0005")
	}
}

func TestResolve_CR10RejectsTooManyValues(t *testing.T) {
	_, err := Resolve(DeviceCR10, DeviceCR10.DefaultLibrary(),
		[]string{"16", "30", "2230", "15"})
	var utf *UnsupportedTimeFormatError
	if !errors.As(err, &utf) {
		t.Fatalf("error = %v, want *UnsupportedTimeFormatError", err)
	}
	if utf.Max != 3 || utf.Values != 4 {
		t.Errorf("got max=%d values=%d, want max=3 values=4", utf.Max, utf.Values)
	}
}

func TestResolve_InvalidHourMinutePropagates(t *testing.T) {
	_, err := Resolve(DeviceCR10X, DeviceCR10X.DefaultLibrary(), []string{"2016", "30", "12345"})
	var cte *CompactTimeError
	if !errors.As(err, &cte) {
		t.Fatalf("error = %v, want *CompactTimeError", err)
	}
}

func TestDevice_DefaultLibraries(t *testing.T) {
	tests := []struct {
		device Device
		want   Library
	}{
		{DeviceCR10, Library{"%y", "%j", TokenHourMinute}},
		{DeviceCR10X, Library{"%Y", "%j", TokenHourMinute}},
		{DeviceCR1000, Library{"%Y-%m-%d %H:%M:%S"}},
		{DeviceGeneric, nil},
	}

	for _, tt := range tests {
		got := tt.device.DefaultLibrary()
		if len(got) != len(tt.want) {
			t.Errorf("%s: library %v, want %v", tt.device, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("%s: library[%d] = %q, want %q", tt.device, i, got[i], tt.want[i])
			}
		}
	}
}

func TestParseDevice(t *testing.T) {
	for input, want := range map[string]Device{
		"cr10":    DeviceCR10,
		"CR10X":   DeviceCR10X,
		"cr1000":  DeviceCR1000,
		"generic": DeviceGeneric,
		"":        DeviceGeneric,
	} {
		got, err := ParseDevice(input)
		if err != nil {
			t.Errorf("ParseDevice(%q) error: %v", input, err)
			continue
		}
		if got != want {
			t.Errorf("ParseDevice(%q) = %v, want %v", input, got, want)
		}
	}

	if _, err := ParseDevice("cr9000"); err == nil {
		t.Error("ParseDevice(\"cr9000\"): expected error")
	}
}
