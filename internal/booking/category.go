// Package booking implements the multi-turn cruise booking dialog: search,
// sailing selection and quote, guest identity and the courtesy hold.
package booking

import "fmt"

// Category is a stateroom category code.
type Category string

const (
	Interior  Category = "IS"
	OceanView Category = "OS"
	Balcony   Category = "OB"
	Suite     Category = "SU"
)

// ParseCategory validates a category code.
func ParseCategory(code string) (Category, error) {
	switch c := Category(code); c {
	case Interior, OceanView, Balcony, Suite:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, code)
	}
}

// Phrase describes the category for speech.
func (c Category) Phrase() string {
	switch c {
	case Interior:
		return "in an interior stateroom"
	case OceanView:
		return "in an ocean view stateroom"
	case Balcony:
		return "in a balcony stateroom"
	case Suite:
		return "in a suite"
	default:
		return ""
	}
}

// Recommend maps a property estimate to a category. Each bound is inclusive.
func Recommend(estimate float64) Category {
	switch {
	case estimate <= 100000:
		return Interior
	case estimate <= 200000:
		return OceanView
	case estimate <= 300000:
		return Balcony
	default:
		return Suite
	}
}
