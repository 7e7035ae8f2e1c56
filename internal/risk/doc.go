// Package risk computes return, drawdown, volatility, and tail-risk
// statistics for a single instrument's historical price series.
//
// The package is built around an immutable PriceSeries and a set of
// stateless metric functions. The Engine facade slices the series by an
// inclusive date window, derives simple returns, and feeds them to the
// metric library. Nothing is cached between calls: every operation is a
// pure function of (series, window, parameters), so an Engine may be
// shared across goroutines without locking.
//
// Failures are reported as typed errors (InvalidRangeError,
// InsufficientDataError, UndefinedMetricError, MalformedInputError)
// rather than NaN or infinite results.
package risk
