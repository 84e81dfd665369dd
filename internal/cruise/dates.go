package cruise

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// The booking engine expects sail dates as wall dates in the cruise line's home zone.
var engineLocation = mustLoadLocation("America/New_York")

var zonedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
}

var wallLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseSailDate parses an ISO 8601 sail date. Dates without a zone offset are read as UTC.
func ParseSailDate(value string) (time.Time, error) {
	t, _, err := parseSailDate(value)
	return t, err
}

func parseSailDate(value string) (time.Time, bool, error) {
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true, nil
		}
	}
	for _, layout := range wallLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, false, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("invalid sail date %q", value)
}

// engineDate renders a sail date in the given layout. Zoned instants are
// converted to the engine's home zone; wall dates are kept as they are.
func engineDate(value, layout string) (string, error) {
	t, zoned, err := parseSailDate(value)
	if err != nil {
		return "", err
	}
	if zoned {
		t = t.In(engineLocation)
	}
	return t.Format(layout), nil
}

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}
