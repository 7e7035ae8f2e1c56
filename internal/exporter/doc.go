// Package exporter renders computed (date, value) sequences and metric
// summaries to files. It is the presentation side of the risk engine: the
// core hands over ordered series and scalars, and this package owns CSV
// layout and Excel workbook/chart generation.
package exporter
