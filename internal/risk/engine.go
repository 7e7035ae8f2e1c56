package risk

import (
	"log/slog"
	"time"
)

// Engine is the user-facing facade over a single instrument's price
// series. Every operation slices the series by the supplied window,
// derives returns where needed, and hands them to the metric library.
// No derived state is retained between calls, so identical inputs always
// produce identical results and an Engine is safe for concurrent use.
type Engine struct {
	series *PriceSeries
	logger *slog.Logger
}

// NewEngine creates an engine owning the given price series.
func NewEngine(series *PriceSeries, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{series: series, logger: logger}
}

// Series exposes the underlying price series for inspection.
func (e *Engine) Series() *PriceSeries {
	return e.series
}

// sliceReturns composes the slicer and the return calculator.
func (e *Engine) sliceReturns(win DateWindow) ([]ReturnPoint, error) {
	prices, err := e.series.Slice(win)
	if err != nil {
		return nil, err
	}
	returns := Returns(prices)
	e.logger.Debug("derived return series",
		"start", win.Start.Format("2006-01-02"),
		"end", win.End.Format("2006-01-02"),
		"prices", len(prices),
		"returns", len(returns))
	return returns, nil
}

// AnnualizedPerformance computes the annualized compound return over the
// window.
func (e *Engine) AnnualizedPerformance(win DateWindow) (float64, error) {
	returns, err := e.sliceReturns(win)
	if err != nil {
		return 0, err
	}
	return AnnualizedPerformance(returns)
}

// MaxDrawdown computes the worst trailing-window drawdown over the window
// and the date it first occurred.
func (e *Engine) MaxDrawdown(win DateWindow, window int) (float64, time.Time, error) {
	prices, err := e.series.Slice(win)
	if err != nil {
		return 0, time.Time{}, err
	}
	return MaxDrawdown(prices, window)
}

// RollingVolatility computes the annualized trailing sample volatility
// series over the window.
func (e *Engine) RollingVolatility(win DateWindow, window int) ([]SeriesPoint, error) {
	returns, err := e.sliceReturns(win)
	if err != nil {
		return nil, err
	}
	return RollingVolatility(returns, window)
}

// InformationRatio computes the annualized mean return over annualized
// volatility for the window. See the metric function for the naming
// caveat.
func (e *Engine) InformationRatio(win DateWindow) (float64, error) {
	returns, err := e.sliceReturns(win)
	if err != nil {
		return 0, err
	}
	return InformationRatio(returns)
}

// SemiDeviation computes the downside deviation over the window.
func (e *Engine) SemiDeviation(win DateWindow) (float64, error) {
	returns, err := e.sliceReturns(win)
	if err != nil {
		return 0, err
	}
	return SemiDeviation(returns)
}

// ValueAtRisk computes the historical VaR at the given percentile level
// over the window.
func (e *Engine) ValueAtRisk(win DateWindow, level float64) (float64, error) {
	returns, err := e.sliceReturns(win)
	if err != nil {
		return 0, err
	}
	return ValueAtRisk(returns, level)
}

// ConditionalVaR computes the expected shortfall at the given percentile
// level over the window.
func (e *Engine) ConditionalVaR(win DateWindow, level float64) (float64, error) {
	returns, err := e.sliceReturns(win)
	if err != nil {
		return 0, err
	}
	return ConditionalVaR(returns, level)
}

// Skewness computes the adjusted sample skewness of returns over the
// window.
func (e *Engine) Skewness(win DateWindow) (float64, error) {
	returns, err := e.sliceReturns(win)
	if err != nil {
		return 0, err
	}
	return Skewness(returns)
}

// Kurtosis computes the sample excess kurtosis of returns over the window.
func (e *Engine) Kurtosis(win DateWindow) (float64, error) {
	returns, err := e.sliceReturns(win)
	if err != nil {
		return 0, err
	}
	return Kurtosis(returns)
}

// OmegaRatio computes the Omega ratio at the given threshold over the
// window.
func (e *Engine) OmegaRatio(win DateWindow, threshold float64) (float64, error) {
	returns, err := e.sliceReturns(win)
	if err != nil {
		return 0, err
	}
	return OmegaRatio(returns, threshold)
}

// Prices returns the sliced price path as an output series for a
// renderer. Undefined points are kept with Valid false so gaps stay
// visible.
func (e *Engine) Prices(win DateWindow) ([]SeriesPoint, error) {
	prices, err := e.series.Slice(win)
	if err != nil {
		return nil, err
	}
	out := make([]SeriesPoint, len(prices))
	for i, p := range prices {
		out[i] = SeriesPoint{Date: p.Date, Value: p.Price, Valid: p.Valid}
	}
	return out, nil
}
