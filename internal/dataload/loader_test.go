package dataload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"riskcli/internal/risk"
)

const sampleCSV = `date,Open,Adj Close
2020-01-02,100.5,100.0
2020-01-03,101.0,102.5
2020-01-06,102.0,101.75
`

func TestReadCSV(t *testing.T) {
	t.Run("parses date and adjusted close", func(t *testing.T) {
		series, err := ReadCSV(strings.NewReader(sampleCSV))
		require.NoError(t, err)
		assert.Equal(t, 3, series.Len())

		bounds, ok := series.Bounds()
		require.True(t, ok)
		assert.Equal(t, time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), bounds.Start)
		assert.Equal(t, time.Date(2020, 1, 6, 0, 0, 0, 0, time.UTC), bounds.End)

		prices, err := series.Slice(bounds)
		require.NoError(t, err)
		assert.Equal(t, 100.0, prices[0].Price)
		assert.Equal(t, 101.75, prices[2].Price)
	})

	t.Run("tolerates a UTF-8 BOM", func(t *testing.T) {
		series, err := ReadCSV(strings.NewReader("\xef\xbb\xbf" + sampleCSV))
		require.NoError(t, err)
		assert.Equal(t, 3, series.Len())
	})

	t.Run("column name variants", func(t *testing.T) {
		variants := []string{"Adj Close", "adj_close", "AdjClose", "Adjusted Close"}
		for _, name := range variants {
			csv := "date," + name + "\n2020-01-02,100\n2020-01-03,101\n"
			series, err := ReadCSV(strings.NewReader(csv))
			require.NoError(t, err, "header %q", name)
			assert.Equal(t, 2, series.Len())
		}
	})

	t.Run("falls back to plain close column", func(t *testing.T) {
		csv := "Date,Close\n2020-01-02,100\n2020-01-03,101\n"
		series, err := ReadCSV(strings.NewReader(csv))
		require.NoError(t, err)
		assert.Equal(t, 2, series.Len())
	})

	t.Run("rows are sorted ascending by date", func(t *testing.T) {
		csv := "date,Adj Close\n2020-01-06,103\n2020-01-02,100\n2020-01-03,101\n"
		series, err := ReadCSV(strings.NewReader(csv))
		require.NoError(t, err)

		bounds, _ := series.Bounds()
		prices, err := series.Slice(bounds)
		require.NoError(t, err)
		assert.Equal(t, 100.0, prices[0].Price)
		assert.Equal(t, 103.0, prices[2].Price)
	})

	t.Run("blank and NA cells become undefined points", func(t *testing.T) {
		csv := "date,Adj Close\n2020-01-02,100\n2020-01-03,\n2020-01-06,NA\n2020-01-07,104\n"
		series, err := ReadCSV(strings.NewReader(csv))
		require.NoError(t, err)
		assert.Equal(t, 4, series.Len())

		bounds, _ := series.Bounds()
		prices, err := series.Slice(bounds)
		require.NoError(t, err)
		assert.True(t, prices[0].Valid)
		assert.False(t, prices[1].Valid)
		assert.False(t, prices[2].Valid)
		assert.True(t, prices[3].Valid)
	})

	t.Run("malformed inputs", func(t *testing.T) {
		tests := []struct {
			name string
			csv  string
		}{
			{"missing price column", "date,Open\n2020-01-02,100\n"},
			{"missing date column", "day,Adj Close\n2020-01-02,100\n"},
			{"duplicate dates", "date,Adj Close\n2020-01-02,100\n2020-01-02,101\n"},
			{"unparseable date", "date,Adj Close\nnot-a-date,100\n"},
			{"unparseable price", "date,Adj Close\n2020-01-02,abc\n"},
			{"non-positive price", "date,Adj Close\n2020-01-02,-3\n"},
			{"header only", "date,Adj Close\n"},
			{"empty input", ""},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := ReadCSV(strings.NewReader(tt.csv))
				var malformed *risk.MalformedInputError
				require.ErrorAs(t, err, &malformed)
			})
		}
	})
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"date", "Adj Close"},
		{"2020-01-02", 100.0},
		{"2020-01-03", 102.5},
		{"2020-01-06", 101.75},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	series, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, series.Len())
}

func TestLoadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prices.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	series, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, series.Len())

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.csv"))
		assert.Error(t, err)
	})
}
