package dataload

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"riskcli/internal/risk"
)

// Load reads a price history file and builds a PriceSeries. The format is
// chosen by extension: .xlsx through excelize, anything else as CSV.
func Load(path string) (*risk.PriceSeries, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return LoadXLSX(path)
	default:
		return LoadCSV(path)
	}
}

// LoadCSV reads a CSV price file from disk.
func LoadCSV(path string) (*risk.PriceSeries, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open price file: %w", err)
	}
	defer file.Close()

	series, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return series, nil
}

// ReadCSV parses CSV price data from a reader. The file must carry a
// header row with a date column and an adjusted close column; a UTF-8 BOM
// is tolerated.
func ReadCSV(r io.Reader) (*risk.PriceSeries, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read price data: %w", err)
	}

	// Strip BOM so header matching sees the real column name.
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		content = content[3:]
	}

	reader := csv.NewReader(strings.NewReader(string(content)))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, &risk.MalformedInputError{Reason: fmt.Sprintf("read CSV: %v", err)}
	}

	return buildSeries(records)
}

// LoadXLSX reads an Excel price file. The first sheet is used.
func LoadXLSX(path string) (*risk.PriceSeries, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &risk.MalformedInputError{Reason: "workbook has no sheets"}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	series, err := buildSeries(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return series, nil
}

// buildSeries turns header+rows into a validated PriceSeries: locate the
// date and adjusted close columns, parse every row, sort ascending, and
// reject duplicate dates.
func buildSeries(records [][]string) (*risk.PriceSeries, error) {
	if len(records) == 0 {
		return nil, &risk.MalformedInputError{Reason: "no data"}
	}

	dateCol, priceCol, err := findColumns(records[0])
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return nil, &risk.MalformedInputError{Reason: "no data rows below header"}
	}

	points := make([]risk.PricePoint, 0, len(records)-1)
	undefined := 0
	for i, record := range records[1:] {
		line := i + 2
		if len(record) <= dateCol || len(record) <= priceCol {
			continue // short trailing row
		}

		date, err := parseDate(strings.TrimSpace(record[dateCol]))
		if err != nil {
			return nil, &risk.MalformedInputError{Reason: fmt.Sprintf("line %d: %v", line, err)}
		}

		point := risk.PricePoint{Date: date}
		cell := strings.TrimSpace(record[priceCol])
		if isMissing(cell) {
			undefined++
		} else {
			price, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, &risk.MalformedInputError{Reason: fmt.Sprintf("line %d: parse price %q: %v", line, cell, err)}
			}
			if price <= 0 {
				return nil, &risk.MalformedInputError{Reason: fmt.Sprintf("line %d: non-positive price %g", line, price)}
			}
			point.Price = price
			point.Valid = true
		}
		points = append(points, point)
	}

	if len(points) == 0 {
		return nil, &risk.MalformedInputError{Reason: "no parseable rows"}
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	for i := 1; i < len(points); i++ {
		if points[i].Date.Equal(points[i-1].Date) {
			return nil, &risk.MalformedInputError{
				Reason: fmt.Sprintf("duplicate date %s", points[i].Date.Format("2006-01-02")),
			}
		}
	}

	slog.Info("loaded price series",
		"rows", len(points),
		"undefined", undefined,
		"first", points[0].Date.Format("2006-01-02"),
		"last", points[len(points)-1].Date.Format("2006-01-02"))

	return risk.NewPriceSeries(points)
}

// findColumns locates the date and adjusted close columns in the header.
// Falls back to a plain close column when no adjusted close exists.
func findColumns(header []string) (dateCol, priceCol int, err error) {
	dateCol, priceCol = -1, -1
	closeCol := -1

	for i, col := range header {
		clean := strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))
		switch normalizeColumn(clean) {
		case "date":
			if dateCol == -1 {
				dateCol = i
			}
		case "adjclose", "adjustedclose":
			if priceCol == -1 {
				priceCol = i
			}
		case "close", "closeprice", "closingprice":
			if closeCol == -1 {
				closeCol = i
			}
		}
	}

	if priceCol == -1 {
		priceCol = closeCol
	}

	var missing []string
	if dateCol == -1 {
		missing = append(missing, "date")
	}
	if priceCol == -1 {
		missing = append(missing, "Adj Close")
	}
	if len(missing) > 0 {
		return 0, 0, &risk.MalformedInputError{
			Reason: fmt.Sprintf("required columns not found: %v (header %v)", missing, header),
		}
	}
	return dateCol, priceCol, nil
}

// normalizeColumn lowercases a header cell and strips separators so
// "Adj Close", "adj_close" and "AdjClose" all match.
func normalizeColumn(col string) string {
	col = strings.ToLower(col)
	for _, sep := range []string{" ", "_", "-", "."} {
		col = strings.ReplaceAll(col, sep, "")
	}
	return col
}

// isMissing reports whether a price cell marks an undefined observation.
func isMissing(cell string) bool {
	switch strings.ToLower(cell) {
	case "", "na", "n/a", "nan", "null":
		return true
	}
	return false
}

// parseDate attempts the date formats seen in price exports.
func parseDate(dateStr string) (time.Time, error) {
	dateFormats := []string{
		"2006-01-02",
		"2006/01/02",
		"01/02/2006",
		"2006-01-02 15:04:05",
		"01-02-2006",
	}

	for _, format := range dateFormats {
		if date, err := time.Parse(format, dateStr); err == nil {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}
