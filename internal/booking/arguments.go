package booking

import (
	"fmt"
	"strconv"
	"strings"
)

// Argument names recognized by the conversational platform.
const (
	ArgDestination      = "Destination"
	ArgDateRange        = "SailingDateRange"
	ArgPassThroughPorts = "PassThruPorts"
	ArgShip             = "Ship"
	ArgNumberOfGuests   = "NumberOfGuests"
	ArgEmbarkationPort  = "EmbarkationPort"
	ArgRateCodes        = "RateCodes"
	ArgNumber           = "Number"
	ArgYesNo            = "YesNo"
	ArgDate             = "Date"
	ArgPhoneNumber      = "PhoneNumber"
)

// Arguments are the recognized arguments of one turn. Values arrive decoded
// from JSON, so numbers may be float64 and lists []any.
type Arguments map[string]any

// String returns the argument as a string, or "" when absent.
func (a Arguments) String(name string) string {
	switch v := a[name].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Strings returns a list argument. A single string becomes a one-element list.
func (a Arguments) Strings(name string) []string {
	switch v := a[name].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

// Int returns a whole-number argument and whether it was present and valid.
func (a Arguments) Int(name string) (int, bool) {
	switch v := a[name].(type) {
	case int:
		return v, true
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
