// Package dataload reads tabular price history files (CSV or XLSX) and
// turns them into a validated risk.PriceSeries. It owns everything the
// core engine treats as external: column discovery, date parsing, sorting,
// duplicate rejection, and marking rows with no usable price as undefined
// instead of dropping them silently.
package dataload
