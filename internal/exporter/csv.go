package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"riskcli/internal/risk"
)

// Writer renders series and summaries under a base output directory.
type Writer struct {
	dir string
}

// NewWriter creates a writer rooted at dir. The directory is created on
// first use.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// WriteSeries writes a time-indexed series as a two-column CSV file with a
// UTF-8 BOM for Excel compatibility. Undefined points keep their date row
// with an empty value cell, so gaps stay visible to the consumer.
func (w *Writer) WriteSeries(name, valueHeader string, series []risk.SeriesPoint) (string, error) {
	path := filepath.Join(w.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create series file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return "", fmt.Errorf("write BOM: %w", err)
	}

	writer := csv.NewWriter(file)

	if err := writer.Write([]string{"Date", valueHeader}); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	for _, p := range series {
		value := ""
		if p.Valid {
			value = strconv.FormatFloat(p.Value, 'f', -1, 64)
		}
		if err := writer.Write([]string{p.Date.Format("2006-01-02"), value}); err != nil {
			return "", fmt.Errorf("write record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	slog.Info("wrote series CSV", "path", path, "points", len(series))
	return path, nil
}
