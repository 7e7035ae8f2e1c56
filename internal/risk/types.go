package risk

import (
	"fmt"
	"sort"
	"time"
)

// AnnualizationFactor is the assumed number of trading days per year used
// to scale daily statistics to annual ones.
const AnnualizationFactor = 252

// Default metric parameters.
const (
	// DefaultVaRLevel is the percentile used for historical VaR/CVaR.
	DefaultVaRLevel = 5.0
	// DefaultVolatilityWindow is the trailing window for rolling volatility.
	DefaultVolatilityWindow = 252
	// DefaultDrawdownWindow is the trailing window for the rolling maximum
	// used in the max drawdown calculation.
	DefaultDrawdownWindow = 252
	// DefaultOmegaThreshold is the return threshold separating upside from
	// downside in the Omega ratio.
	DefaultOmegaThreshold = 0.0
)

// PricePoint is a single dated observation of the adjusted close price.
// Valid is false when the source row carried no usable price; such points
// stay in the series so gaps remain visible, and are dropped explicitly by
// each computation that cannot use them.
type PricePoint struct {
	Date  time.Time
	Price float64
	Valid bool
}

// ReturnPoint is a single dated simple return, dated by the later of the
// two prices it was derived from.
type ReturnPoint struct {
	Date  time.Time
	Value float64
}

// SeriesPoint is one entry of a time-indexed output series handed to a
// renderer. Valid is false where the value is undefined, for example the
// head of a rolling-volatility series before the window fills.
type SeriesPoint struct {
	Date  time.Time
	Value float64
	Valid bool
}

// DateWindow is an inclusive [Start, End] date range used to slice a
// price series.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// PriceSeries is a date-ordered sequence of price points. Dates are
// strictly increasing and every valid price is positive; NewPriceSeries
// enforces both. A series is never mutated after construction.
type PriceSeries struct {
	points []PricePoint
}

// NewPriceSeries validates the given points and wraps them in an immutable
// series. The input is copied. Violated invariants are reported as a
// MalformedInputError.
func NewPriceSeries(points []PricePoint) (*PriceSeries, error) {
	for i, p := range points {
		if p.Date.IsZero() {
			return nil, &MalformedInputError{Reason: fmt.Sprintf("point %d has no date", i)}
		}
		if p.Valid && p.Price <= 0 {
			return nil, &MalformedInputError{
				Reason: fmt.Sprintf("non-positive price %.6f on %s", p.Price, p.Date.Format("2006-01-02")),
			}
		}
		if i > 0 && !points[i-1].Date.Before(p.Date) {
			return nil, &MalformedInputError{
				Reason: fmt.Sprintf("dates not strictly increasing at %s", p.Date.Format("2006-01-02")),
			}
		}
	}

	owned := make([]PricePoint, len(points))
	copy(owned, points)
	return &PriceSeries{points: owned}, nil
}

// Len returns the number of points in the series, valid or not.
func (s *PriceSeries) Len() int {
	return len(s.points)
}

// Bounds returns the first and last date covered by the series. The second
// return value is false for an empty series.
func (s *PriceSeries) Bounds() (DateWindow, bool) {
	if len(s.points) == 0 {
		return DateWindow{}, false
	}
	return DateWindow{Start: s.points[0].Date, End: s.points[len(s.points)-1].Date}, true
}

// Slice returns the maximal contiguous sub-sequence whose dates lie within
// the inclusive window. A window that does not intersect the stored dates
// yields an empty slice, not an error; callers decide whether that is
// fatal. A window whose start falls after its end is an InvalidRangeError.
//
// The returned slice aliases the immutable backing array and must not be
// modified.
func (s *PriceSeries) Slice(win DateWindow) ([]PricePoint, error) {
	if win.Start.After(win.End) {
		return nil, &InvalidRangeError{Start: win.Start, End: win.End}
	}

	lo := sort.Search(len(s.points), func(i int) bool {
		return !s.points[i].Date.Before(win.Start)
	})
	hi := sort.Search(len(s.points), func(i int) bool {
		return s.points[i].Date.After(win.End)
	})
	return s.points[lo:hi], nil
}

// Returns derives the simple-return sequence of a price sub-sequence:
// r[i] = p[i]/p[i-1] - 1, dated by the later point. Pairs with an
// undefined endpoint are skipped, so the result has at most len(prices)-1
// entries. Fewer than two prices yield an empty sequence, not an error.
func Returns(prices []PricePoint) []ReturnPoint {
	if len(prices) < 2 {
		return nil
	}

	returns := make([]ReturnPoint, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if !prices[i-1].Valid || !prices[i].Valid {
			continue
		}
		returns = append(returns, ReturnPoint{
			Date:  prices[i].Date,
			Value: prices[i].Price/prices[i-1].Price - 1,
		})
	}
	return returns
}

// returnValues extracts the bare values of a return sequence for the
// distributional metrics.
func returnValues(returns []ReturnPoint) []float64 {
	values := make([]float64, len(returns))
	for i, r := range returns {
		values[i] = r.Value
	}
	return values
}
