// Package dashboard implements the filter and chart semantics of the player dashboard.
package dashboard

import (
	"errors"
	"fmt"
	"math"

	"github.com/okian/futdash/internal/domain/types"
)

// ErrInvalidFilter is returned for out-of-range or unknown filter values.
var ErrInvalidFilter = errors.New("invalid filter")

// Contribution selects the x-axis metric.
type Contribution string

const (
	Goals   Contribution = "Goals"
	Assists Contribution = "Assists"
	Both    Contribution = "Both"
)

// Contributions lists the selector values in display order.
var Contributions = []Contribution{Goals, Assists, Both} //nolint:gochecknoglobals // fixed options

// Slider bounds and defaults.
var (
	RatingBounds  = types.Range{Min: 75, Max: 99}   //nolint:gochecknoglobals // fixed bounds
	PriceBounds   = types.Range{Min: 1, Max: 4.5}   //nolint:gochecknoglobals // fixed bounds
	DefaultRating = types.Range{Min: 84, Max: 88}   //nolint:gochecknoglobals // fixed defaults
	DefaultPrices = types.Range{Min: 2.3, Max: 2.7} //nolint:gochecknoglobals // fixed defaults
)

// DefaultPosition is the position selected when none is given.
const DefaultPosition = "ST"

// Filter narrows the derived table. Empty Country, League and Position match anything.
// Prices are log10 of thousands of coins.
type Filter struct {
	Country      string
	League       string
	Position     string
	Contribution Contribution
	Ratings      types.Range
	Prices       types.Range
}

// DefaultFilter returns the initial dashboard selection.
func DefaultFilter() Filter {
	return Filter{
		Position:     DefaultPosition,
		Contribution: Both,
		Ratings:      DefaultRating,
		Prices:       DefaultPrices,
	}
}

// Validate checks the filter against the slider bounds.
func (f Filter) Validate() error {
	switch f.Contribution {
	case Goals, Assists, Both:
	default:
		return fmt.Errorf("%w: contribution %q", ErrInvalidFilter, f.Contribution)
	}
	if err := within("ratings", f.Ratings, RatingBounds); err != nil {
		return err
	}
	return within("prices", f.Prices, PriceBounds)
}

func within(name string, r, bounds types.Range) error {
	if r.Min > r.Max {
		return fmt.Errorf("%w: %s min %v above max %v", ErrInvalidFilter, name, r.Min, r.Max)
	}
	if r.Min < bounds.Min || r.Max > bounds.Max {
		return fmt.Errorf("%w: %s [%v, %v] outside [%v, %v]", ErrInvalidFilter, name, r.Min, r.Max, bounds.Min, bounds.Max)
	}
	return nil
}

// PriceRange converts the log slider to coins: 1000*10^lo to 1000*10^hi.
func (f Filter) PriceRange() (lo, hi float64) {
	return 1000 * math.Pow(10, f.Prices.Min), 1000 * math.Pow(10, f.Prices.Max)
}
