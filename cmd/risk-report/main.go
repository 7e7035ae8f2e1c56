// Command risk-report loads a single instrument's price history, computes
// the full set of risk and performance metrics over a date window, prints
// a summary, and exports the time-indexed series plus an Excel report.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"riskcli/internal/config"
	"riskcli/internal/dataload"
	"riskcli/internal/exporter"
	"riskcli/internal/risk"
)

func main() {
	file := flag.String("file", "", "price history file (CSV or XLSX) with date and Adj Close columns")
	start := flag.String("start", "", "window start date YYYY-MM-DD (defaults to the first stored date)")
	end := flag.String("end", "", "window end date YYYY-MM-DD (defaults to the last stored date)")
	configPath := flag.String("config", "", "optional config file (defaults to ./config.yaml when present)")
	outDir := flag.String("out", "", "output directory for reports (overrides config)")
	volWindow := flag.Int("vol-window", 0, "rolling volatility window in trading days (overrides config)")
	ddWindow := flag.Int("dd-window", 0, "drawdown rolling-max window in trading days (overrides config)")
	varLevel := flag.Float64("var-level", 0, "VaR/CVaR percentile level in (0,100) (overrides config)")
	omegaThreshold := flag.Float64("omega-threshold", 0, "omega ratio return threshold (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	applyFlagOverrides(cfg, *outDir, *volWindow, *ddWindow, *varLevel, *omegaThreshold)

	logger := config.NewLogger(cfg.Logging, os.Stderr)
	slog.SetDefault(logger)

	if *file == "" {
		slog.Error("No price file specified", "hint", "pass -file prices.csv")
		os.Exit(1)
	}

	series, err := dataload.Load(*file)
	if err != nil {
		slog.Error("Failed to load price series", "file", *file, "error", err)
		os.Exit(1)
	}

	bounds, ok := series.Bounds()
	if !ok {
		slog.Error("Price series is empty", "file", *file)
		os.Exit(1)
	}
	win, err := resolveWindow(bounds, *start, *end)
	if err != nil {
		slog.Error("Invalid date window", "error", err)
		os.Exit(1)
	}

	engine := risk.NewEngine(series, logger)

	report, err := buildReport(engine, *file, win, cfg.Analysis)
	if err != nil {
		slog.Error("Failed to compute metrics", "error", err)
		os.Exit(1)
	}

	printSummary(report, cfg.Analysis)

	writer := exporter.NewWriter(cfg.Output.Dir)
	timestamp := time.Now().Format("20060102")

	if _, err := writer.WriteSeries(fmt.Sprintf("price_%s.csv", timestamp), "Adjusted Close", report.Price); err != nil {
		slog.Error("Failed to export price series", "error", err)
		os.Exit(1)
	}
	if _, err := writer.WriteSeries(fmt.Sprintf("volatility_%s.csv", timestamp), "Annualized Volatility", report.Volatility); err != nil {
		slog.Error("Failed to export volatility series", "error", err)
		os.Exit(1)
	}
	workbookPath, err := writer.WriteWorkbook(fmt.Sprintf("risk_report_%s.xlsx", timestamp), report)
	if err != nil {
		slog.Error("Failed to write report workbook", "error", err)
		os.Exit(1)
	}

	slog.Info("Risk report generated successfully", "workbook", workbookPath)
}

// applyFlagOverrides copies explicitly set flags over the loaded config.
func applyFlagOverrides(cfg *config.Config, outDir string, volWindow, ddWindow int, varLevel, omegaThreshold float64) {
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["out"] {
		cfg.Output.Dir = outDir
	}
	if set["vol-window"] {
		cfg.Analysis.VolatilityWindow = volWindow
	}
	if set["dd-window"] {
		cfg.Analysis.DrawdownWindow = ddWindow
	}
	if set["var-level"] {
		cfg.Analysis.VaRLevel = varLevel
	}
	if set["omega-threshold"] {
		cfg.Analysis.OmegaThreshold = omegaThreshold
	}
}

// resolveWindow fills missing window endpoints from the stored bounds.
func resolveWindow(bounds risk.DateWindow, start, end string) (risk.DateWindow, error) {
	win := bounds
	var err error
	if start != "" {
		win.Start, err = time.Parse("2006-01-02", start)
		if err != nil {
			return risk.DateWindow{}, fmt.Errorf("parse start date: %w", err)
		}
	}
	if end != "" {
		win.End, err = time.Parse("2006-01-02", end)
		if err != nil {
			return risk.DateWindow{}, fmt.Errorf("parse end date: %w", err)
		}
	}
	return win, nil
}

// buildReport runs every metric over the window. Metrics that are
// undefined or lack data for this particular window are reported with a
// note instead of aborting the run; any other failure is terminal.
func buildReport(engine *risk.Engine, source string, win risk.DateWindow, analysis config.AnalysisConfig) (exporter.Report, error) {
	report := exporter.Report{Source: source, Window: win}

	scalar := func(name string, value float64, date time.Time, err error) error {
		row := exporter.MetricRow{Name: name, Value: value, Date: date}
		if err != nil {
			if !recoverable(err) {
				return fmt.Errorf("%s: %w", name, err)
			}
			row = exporter.MetricRow{Name: name, Note: err.Error()}
		}
		report.Metrics = append(report.Metrics, row)
		return nil
	}

	perf, err := engine.AnnualizedPerformance(win)
	if err := scalar("Annualized performance", perf, time.Time{}, err); err != nil {
		return report, err
	}

	dd, ddDate, err := engine.MaxDrawdown(win, analysis.DrawdownWindow)
	if err := scalar("Max drawdown", dd, ddDate, err); err != nil {
		return report, err
	}

	ir, err := engine.InformationRatio(win)
	if err := scalar("Information ratio", ir, time.Time{}, err); err != nil {
		return report, err
	}

	semi, err := engine.SemiDeviation(win)
	if err := scalar("Semi-deviation", semi, time.Time{}, err); err != nil {
		return report, err
	}

	v, err := engine.ValueAtRisk(win, analysis.VaRLevel)
	if err := scalar(fmt.Sprintf("Historical VaR(%g)", analysis.VaRLevel), v, time.Time{}, err); err != nil {
		return report, err
	}

	cv, err := engine.ConditionalVaR(win, analysis.VaRLevel)
	if err := scalar(fmt.Sprintf("Historical CVaR(%g)", analysis.VaRLevel), cv, time.Time{}, err); err != nil {
		return report, err
	}

	skew, err := engine.Skewness(win)
	if err := scalar("Skewness", skew, time.Time{}, err); err != nil {
		return report, err
	}

	kurt, err := engine.Kurtosis(win)
	if err := scalar("Excess kurtosis", kurt, time.Time{}, err); err != nil {
		return report, err
	}

	omega, err := engine.OmegaRatio(win, analysis.OmegaThreshold)
	if err := scalar(fmt.Sprintf("Omega ratio(%g)", analysis.OmegaThreshold), omega, time.Time{}, err); err != nil {
		return report, err
	}

	report.Price, err = engine.Prices(win)
	if err != nil {
		return report, fmt.Errorf("price series: %w", err)
	}

	report.Volatility, err = engine.RollingVolatility(win, analysis.VolatilityWindow)
	if err != nil && !recoverable(err) {
		return report, fmt.Errorf("rolling volatility: %w", err)
	}

	return report, nil
}

// recoverable reports whether a metric failure should be noted in the
// report rather than abort the run.
func recoverable(err error) bool {
	var insufficient *risk.InsufficientDataError
	var undefined *risk.UndefinedMetricError
	return errors.As(err, &insufficient) || errors.As(err, &undefined)
}

func printSummary(report exporter.Report, analysis config.AnalysisConfig) {
	fmt.Println("\n========== Risk Report ==========")
	fmt.Printf("Source: %s\n", report.Source)
	fmt.Printf("Window: %s to %s\n",
		report.Window.Start.Format("2006-01-02"),
		report.Window.End.Format("2006-01-02"))
	fmt.Printf("Parameters: dd-window=%d vol-window=%d var-level=%g omega-threshold=%g\n",
		analysis.DrawdownWindow, analysis.VolatilityWindow, analysis.VaRLevel, analysis.OmegaThreshold)
	fmt.Println("---------------------------------")

	for _, m := range report.Metrics {
		if m.Note != "" {
			fmt.Printf("%-28s n/a (%s)\n", m.Name, m.Note)
			continue
		}
		if !m.Date.IsZero() {
			fmt.Printf("%-28s %12.6f  on %s\n", m.Name, m.Value, m.Date.Format("2006-01-02"))
			continue
		}
		fmt.Printf("%-28s %12.6f\n", m.Name, m.Value)
	}
	fmt.Println("=================================")
}
