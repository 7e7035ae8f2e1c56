package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, prices ...float64) *Engine {
	t.Helper()
	series, err := NewPriceSeries(pricePoints(prices...))
	require.NoError(t, err)
	return NewEngine(series, nil)
}

func TestEngineComposition(t *testing.T) {
	engine := newTestEngine(t, 100, 90, 95, 80, 120, 110, 130, 125, 140, 135)
	win := DateWindow{Start: day(0), End: day(9)}

	t.Run("max drawdown over the full window", func(t *testing.T) {
		dd, date, err := engine.MaxDrawdown(win, 252)
		require.NoError(t, err)
		assert.InDelta(t, -0.20, dd, 1e-12)
		assert.Equal(t, day(3), date)
	})

	t.Run("window slicing changes the answer", func(t *testing.T) {
		// Only the recovery leg: the worst dip is 110 off the 120 high.
		dd, date, err := engine.MaxDrawdown(DateWindow{Start: day(4), End: day(9)}, 252)
		require.NoError(t, err)
		assert.InDelta(t, 110.0/120.0-1, dd, 1e-12)
		assert.Equal(t, day(5), date)
	})

	t.Run("annualized performance matches the compound of derived returns", func(t *testing.T) {
		perf, err := engine.AnnualizedPerformance(win)
		require.NoError(t, err)

		prices, err := engine.series.Slice(win)
		require.NoError(t, err)
		returns := Returns(prices)
		want, err := AnnualizedPerformance(returns)
		require.NoError(t, err)
		assert.Equal(t, want, perf)
	})

	t.Run("operations are repeatable", func(t *testing.T) {
		a, err := engine.InformationRatio(win)
		require.NoError(t, err)
		b, err := engine.InformationRatio(win)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("rolling volatility is dated like the returns", func(t *testing.T) {
		out, err := engine.RollingVolatility(win, 5)
		require.NoError(t, err)
		require.Len(t, out, 9) // one fewer than the price count
		assert.Equal(t, day(1), out[0].Date)
		assert.False(t, out[0].Valid)
		assert.True(t, out[len(out)-1].Valid)
	})

	t.Run("prices output preserves the slice", func(t *testing.T) {
		out, err := engine.Prices(DateWindow{Start: day(2), End: day(4)})
		require.NoError(t, err)
		require.Len(t, out, 3)
		assert.Equal(t, 95.0, out[0].Value)
		assert.True(t, out[0].Valid)
	})
}

func TestEngineEmptyWindow(t *testing.T) {
	engine := newTestEngine(t, 100, 101, 102)
	// A window entirely outside the stored range: every metric must turn
	// the empty slice into InsufficientDataError, never crash.
	win := DateWindow{Start: day(100), End: day(200)}

	tests := []struct {
		name string
		call func() error
	}{
		{"annualized performance", func() error { _, err := engine.AnnualizedPerformance(win); return err }},
		{"max drawdown", func() error { _, _, err := engine.MaxDrawdown(win, 252); return err }},
		{"rolling volatility", func() error { _, err := engine.RollingVolatility(win, 252); return err }},
		{"information ratio", func() error { _, err := engine.InformationRatio(win); return err }},
		{"semi-deviation", func() error { _, err := engine.SemiDeviation(win); return err }},
		{"value at risk", func() error { _, err := engine.ValueAtRisk(win, DefaultVaRLevel); return err }},
		{"conditional VaR", func() error { _, err := engine.ConditionalVaR(win, DefaultVaRLevel); return err }},
		{"skewness", func() error { _, err := engine.Skewness(win); return err }},
		{"kurtosis", func() error { _, err := engine.Kurtosis(win); return err }},
		{"omega ratio", func() error { _, err := engine.OmegaRatio(win, DefaultOmegaThreshold); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			var insufficient *InsufficientDataError
			require.ErrorAs(t, err, &insufficient)
		})
	}
}

func TestEngineInvalidRange(t *testing.T) {
	engine := newTestEngine(t, 100, 101, 102)
	win := DateWindow{Start: day(2), End: day(0)}

	_, err := engine.AnnualizedPerformance(win)
	var invalid *InvalidRangeError
	require.ErrorAs(t, err, &invalid)

	_, _, err = engine.MaxDrawdown(win, 252)
	require.ErrorAs(t, err, &invalid)

	_, err = engine.Prices(win)
	require.ErrorAs(t, err, &invalid)
}
