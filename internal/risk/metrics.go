package risk

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// AnnualizedPerformance compounds the return sequence and scales it to a
// yearly figure: prod(1+r)^(A/m) - 1 with A = 252 trading days.
func AnnualizedPerformance(returns []ReturnPoint) (float64, error) {
	if len(returns) == 0 {
		return 0, &InsufficientDataError{Metric: "annualized performance", Have: 0, Need: 1}
	}

	compound := 1.0
	for _, r := range returns {
		compound *= 1 + r.Value
	}
	return math.Pow(compound, AnnualizationFactor/float64(len(returns))) - 1, nil
}

// MaxDrawdown computes the largest relative decline from the trailing
// maximum price over a window of w points. The window shrinks at the head
// (minimum size 1), so drawdown is defined from the first point on.
// Undefined price points are dropped before the calculation.
//
// Returns the most negative drawdown and the date it first occurred; ties
// are broken by the earliest occurrence. The result is always <= 0 and is
// exactly 0 for a non-decreasing price path.
func MaxDrawdown(prices []PricePoint, w int) (float64, time.Time, error) {
	if w < 1 {
		return 0, time.Time{}, fmt.Errorf("drawdown window must be at least 1, got %d", w)
	}

	dates := make([]time.Time, 0, len(prices))
	values := make([]float64, 0, len(prices))
	for _, p := range prices {
		if p.Valid {
			dates = append(dates, p.Date)
			values = append(values, p.Price)
		}
	}
	if len(values) == 0 {
		return 0, time.Time{}, &InsufficientDataError{Metric: "max drawdown", Have: 0, Need: 1}
	}

	rollMax := rollingMax(values, w)

	worst := math.Inf(1)
	worstIdx := 0
	for i, v := range values {
		dd := v/rollMax[i] - 1
		if dd < worst { // strict: keep the earliest occurrence on ties
			worst = dd
			worstIdx = i
		}
	}
	return worst, dates[worstIdx], nil
}

// RollingVolatility computes the trailing sample standard deviation of the
// return sequence over a window of w observations, annualized by
// sqrt(252). The first w-1 positions have no full window and are marked
// invalid rather than extrapolated.
func RollingVolatility(returns []ReturnPoint, w int) ([]SeriesPoint, error) {
	if w < 2 {
		return nil, fmt.Errorf("volatility window must be at least 2, got %d", w)
	}
	if len(returns) == 0 {
		return nil, &InsufficientDataError{Metric: "rolling volatility", Have: 0, Need: 1}
	}

	out := make([]SeriesPoint, len(returns))
	var stat windowStat
	for i, r := range returns {
		stat.push(r.Value)
		if i >= w {
			stat.drop(returns[i-w].Value)
		}

		out[i] = SeriesPoint{Date: r.Date}
		if i >= w-1 {
			variance, ok := stat.variance()
			if !ok {
				continue
			}
			out[i].Value = math.Sqrt(variance) * math.Sqrt(AnnualizationFactor)
			out[i].Valid = true
		}
	}
	return out, nil
}

// InformationRatio divides the annualized mean return by the annualized
// volatility: mean(r)*252 / (std(r)*sqrt(252)).
//
// Note: there is no benchmark or active-return term, so despite the name
// this is a zero-benchmark Sharpe-like ratio. The formula is kept as-is
// so reported values stay comparable across releases.
func InformationRatio(returns []ReturnPoint) (float64, error) {
	if len(returns) < 2 {
		return 0, &InsufficientDataError{Metric: "information ratio", Have: len(returns), Need: 2}
	}

	values := returnValues(returns)
	std, _ := sampleStdDev(values)
	if std == 0 {
		return 0, &UndefinedMetricError{Metric: "information ratio", Reason: "zero return volatility"}
	}
	return calculateMean(values) * AnnualizationFactor / (std * math.Sqrt(AnnualizationFactor)), nil
}

// SemiDeviation is the sample standard deviation of the strictly negative
// returns. With fewer than two negative observations the sample variance
// has no meaning, so the metric is reported as undefined.
func SemiDeviation(returns []ReturnPoint) (float64, error) {
	if len(returns) == 0 {
		return 0, &InsufficientDataError{Metric: "semi-deviation", Have: 0, Need: 1}
	}

	var downside []float64
	for _, r := range returns {
		if r.Value < 0 {
			downside = append(downside, r.Value)
		}
	}
	std, ok := sampleStdDev(downside)
	if !ok {
		return 0, &UndefinedMetricError{
			Metric: "semi-deviation",
			Reason: fmt.Sprintf("need at least 2 negative returns, have %d", len(downside)),
		}
	}
	return std, nil
}

// ValueAtRisk returns the level-th percentile of the return distribution
// (default level 5), computed with linear interpolation between order
// statistics. For a loss distribution the result is typically negative.
func ValueAtRisk(returns []ReturnPoint, level float64) (float64, error) {
	if level <= 0 || level >= 100 {
		return 0, fmt.Errorf("VaR level must be in (0, 100), got %g", level)
	}
	if len(returns) == 0 {
		return 0, &InsufficientDataError{Metric: "historical VaR", Have: 0, Need: 1}
	}

	sorted := returnValues(returns)
	sort.Float64s(sorted)
	return percentileValue(sorted, level), nil
}

// ConditionalVaR returns the mean of all returns at or below the VaR at
// the same level (expected shortfall). By construction CVaR <= VaR for
// levels below 50.
func ConditionalVaR(returns []ReturnPoint, level float64) (float64, error) {
	threshold, err := ValueAtRisk(returns, level)
	if err != nil {
		return 0, err
	}

	var tail []float64
	for _, r := range returns {
		if r.Value <= threshold {
			tail = append(tail, r.Value)
		}
	}
	// The minimum return is always <= VaR, so the tail cannot be empty.
	return calculateMean(tail), nil
}

// Skewness is the Fisher-Pearson adjusted sample skewness of the return
// distribution: sqrt(n(n-1))/(n-2) * m3/m2^(3/2) with population moments.
// At least three observations are required.
func Skewness(returns []ReturnPoint) (float64, error) {
	n := len(returns)
	if n < 3 {
		return 0, &InsufficientDataError{Metric: "skewness", Have: n, Need: 3}
	}

	values := returnValues(returns)
	m2 := centralMoment(values, 2)
	if m2 == 0 {
		return 0, &UndefinedMetricError{Metric: "skewness", Reason: "zero return variance"}
	}
	g1 := centralMoment(values, 3) / math.Pow(m2, 1.5)
	adjust := math.Sqrt(float64(n*(n-1))) / float64(n-2)
	return adjust * g1, nil
}

// Kurtosis is the sample excess kurtosis of the return distribution
// (normal = 0), with the conventional small-sample adjustment. At least
// four observations are required.
func Kurtosis(returns []ReturnPoint) (float64, error) {
	n := len(returns)
	if n < 4 {
		return 0, &InsufficientDataError{Metric: "kurtosis", Have: n, Need: 4}
	}

	values := returnValues(returns)
	m2 := centralMoment(values, 2)
	if m2 == 0 {
		return 0, &UndefinedMetricError{Metric: "kurtosis", Reason: "zero return variance"}
	}
	g2 := centralMoment(values, 4)/(m2*m2) - 3
	fn := float64(n)
	return ((fn+1)*g2 + 6) * (fn - 1) / ((fn - 2) * (fn - 3)), nil
}

// OmegaRatio divides the mean return above the threshold by the absolute
// mean return at or below it (threshold default 0). Both subsets must be
// non-empty; the result is then strictly positive.
func OmegaRatio(returns []ReturnPoint, threshold float64) (float64, error) {
	if len(returns) == 0 {
		return 0, &InsufficientDataError{Metric: "omega ratio", Have: 0, Need: 1}
	}

	var upside, downside []float64
	for _, r := range returns {
		if r.Value > threshold {
			upside = append(upside, r.Value)
		} else {
			downside = append(downside, r.Value)
		}
	}
	if len(upside) == 0 {
		return 0, &UndefinedMetricError{Metric: "omega ratio", Reason: "no returns above threshold"}
	}
	if len(downside) == 0 {
		return 0, &UndefinedMetricError{Metric: "omega ratio", Reason: "no returns at or below threshold"}
	}
	downMean := calculateMean(downside)
	if downMean == 0 {
		return 0, &UndefinedMetricError{Metric: "omega ratio", Reason: "zero mean downside return"}
	}
	return calculateMean(upside) / math.Abs(downMean), nil
}
