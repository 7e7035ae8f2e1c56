package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"riskcli/internal/risk"
)

// MetricRow is one line of the workbook summary sheet. Date is set for
// path-dependent metrics; Note carries the reason a metric was
// unavailable for the window.
type MetricRow struct {
	Name  string
	Value float64
	Date  time.Time
	Note  string
}

// Report bundles everything the workbook renders for one analysis run.
type Report struct {
	Source     string
	Window     risk.DateWindow
	Metrics    []MetricRow
	Price      []risk.SeriesPoint
	Volatility []risk.SeriesPoint
}

const (
	summarySheet    = "Summary"
	priceSheet      = "Price"
	volatilitySheet = "Volatility"
)

// WriteWorkbook renders the report as an Excel workbook: a summary sheet
// with every metric, one sheet per series, and a line chart of the price
// path.
func (w *Writer) WriteWorkbook(name string, rep Report) (string, error) {
	path := filepath.Join(w.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return "", fmt.Errorf("rename summary sheet: %w", err)
	}
	if err := writeSummarySheet(f, rep); err != nil {
		return "", err
	}
	if err := writeSeriesSheet(f, priceSheet, "Adjusted Close", rep.Price); err != nil {
		return "", err
	}
	if err := writeSeriesSheet(f, volatilitySheet, "Annualized Volatility", rep.Volatility); err != nil {
		return "", err
	}
	if err := addPriceChart(f, rep.Price); err != nil {
		return "", err
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}

	slog.Info("wrote report workbook",
		"path", path,
		"metrics", len(rep.Metrics),
		"price_points", len(rep.Price))
	return path, nil
}

func writeSummarySheet(f *excelize.File, rep Report) error {
	rows := [][]interface{}{
		{"Source", rep.Source},
		{"Window start", rep.Window.Start.Format("2006-01-02")},
		{"Window end", rep.Window.End.Format("2006-01-02")},
		{},
		{"Metric", "Value", "Date", "Note"},
	}
	for _, m := range rep.Metrics {
		row := []interface{}{m.Name}
		if m.Note == "" {
			row = append(row, m.Value)
		} else {
			row = append(row, nil)
		}
		if !m.Date.IsZero() {
			row = append(row, m.Date.Format("2006-01-02"))
		} else {
			row = append(row, nil)
		}
		row = append(row, m.Note)
		rows = append(rows, row)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}
	return nil
}

func writeSeriesSheet(f *excelize.File, sheet, header string, series []risk.SeriesPoint) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}

	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"Date", header}); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	for i, p := range series {
		row := []interface{}{p.Date.Format("2006-01-02")}
		if p.Valid {
			row = append(row, p.Value)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func addPriceChart(f *excelize.File, price []risk.SeriesPoint) error {
	if len(price) == 0 {
		return nil
	}

	lastRow := len(price) + 1
	chart := &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$B$1", priceSheet),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", priceSheet, lastRow),
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", priceSheet, lastRow),
		}},
		Title: []excelize.RichTextRun{{Text: "Adjusted Close Price"}},
		Legend: excelize.ChartLegend{
			Position: "bottom",
		},
	}
	if err := f.AddChart(priceSheet, "D2", chart); err != nil {
		return fmt.Errorf("add price chart: %w", err)
	}
	return nil
}
