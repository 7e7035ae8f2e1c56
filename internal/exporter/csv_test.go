package exporter

import (
	"encoding/csv"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riskcli/internal/risk"
)

func seriesFixture() []risk.SeriesPoint {
	base := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	return []risk.SeriesPoint{
		{Date: base, Value: 100.5, Valid: true},
		{Date: base.AddDate(0, 0, 1), Valid: false},
		{Date: base.AddDate(0, 0, 2), Value: 101.25, Valid: true},
	}
}

func TestWriteSeries(t *testing.T) {
	w := NewWriter(t.TempDir())

	path, err := w.WriteSeries("price.csv", "Adjusted Close", seriesFixture())
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	// BOM first, then the header.
	require.True(t, strings.HasPrefix(string(content), "\xef\xbb\xbf"))

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(content), "\xef\xbb\xbf")))
	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)

	assert.Equal(t, []string{"Date", "Adjusted Close"}, records[0])
	assert.Equal(t, []string{"2020-01-02", "100.5"}, records[1])
	// Undefined point keeps its date with an empty value cell.
	assert.Equal(t, []string{"2020-01-03", ""}, records[2])
	assert.Equal(t, []string{"2020-01-04", "101.25"}, records[3])
}

func TestWriteSeriesCreatesDirectories(t *testing.T) {
	w := NewWriter(t.TempDir())

	path, err := w.WriteSeries("nested/dir/price.csv", "Price", seriesFixture())
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
