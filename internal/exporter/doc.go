// Package exporter writes the current production record as a download.
//
// Rows flattens a record into one row per figure under a fixed header
// (report date, section, group, period, metric, value). The same rows back
// both formats:
//
//	CSV   UTF-8 with a BOM so Excel picks up the pound sign, via CSVWriter
//	XLSX  one "Dashboard" sheet with a frozen header, via excelize
//
// Example usage:
//
//	ex := exporter.NewExporter(config.AppName, logger)
//	w.Header().Set("Content-Type", exporter.FormatXLSX.ContentType())
//	err := ex.Write(w, exporter.FormatXLSX, snapshot.Record)
package exporter
