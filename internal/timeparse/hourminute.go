package timeparse

// DecodeHourMinute expands the CR10-family "Hour/Minute" column into a
// zero-padded HHMM string. The loggers strip leading zeros from the
// combined hour+minute number (midnight is a lone "0"), so the split
// point between hour and minute depends on the total length, not on a
// fixed offset: "945" is 09:45, not 94:05.
//
//	"5"    -> "0005"
//	"35"   -> "0035"
//	"159"  -> "0159"
//	"945"  -> "0945"
//	"2345" -> "2345"
//
// Inputs outside 1-4 characters fail with CompactTimeError.
func DecodeHourMinute(s string) (string, error) {
	switch len(s) {
	case 1: // minute 0-9, hour 0
		return "000" + s, nil
	case 2: // minute 10-59, hour 0
		return "00" + s, nil
	case 3: // one-digit hour, two-digit minute
		return "0" + s[:1] + s[1:3], nil
	case 4: // two-digit hour, two-digit minute
		return s, nil
	default:
		return "", &CompactTimeError{Value: s}
	}
}

// DecodeHourMinuteColon is the colon-separated variant, for pairing with
// an "%H:%M" format token instead of "%H%M".
func DecodeHourMinuteColon(s string) (string, error) {
	hhmm, err := DecodeHourMinute(s)
	if err != nil {
		return "", err
	}
	return hhmm[:2] + ":" + hhmm[2:], nil
}
