package risk

import (
	"fmt"
	"time"
)

// InvalidRangeError reports a date window whose start falls after its end.
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

// Error implements the error interface.
func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid date range: start %s after end %s",
		e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

// InsufficientDataError reports that a metric's minimum sample size was
// not met by the sliced data. An empty slice from a non-intersecting
// window surfaces as this error at the metric boundary.
type InsufficientDataError struct {
	Metric string
	Have   int
	Need   int
}

// Error implements the error interface.
func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: insufficient data: have %d observations, need %d", e.Metric, e.Have, e.Need)
}

// UndefinedMetricError reports a metric whose defining denominator or
// subset is empty or zero for the supplied data, for example zero
// volatility in a ratio or no negative returns for semi-deviation. It is
// surfaced explicitly instead of letting NaN propagate.
type UndefinedMetricError struct {
	Metric string
	Reason string
}

// Error implements the error interface.
func (e *UndefinedMetricError) Error() string {
	return fmt.Sprintf("%s is undefined: %s", e.Metric, e.Reason)
}

// MalformedInputError reports source data that could not be turned into a
// valid price series: missing columns, unparseable dates or prices, or
// violated series invariants.
type MalformedInputError struct {
	Reason string
}

// Error implements the error interface.
func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input: %s", e.Reason)
}
