package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "proddash/internal/errors"
	"proddash/pkg/contracts/domain"
)

// Format is a download format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv" or "xlsx" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", apperrors.NewAppValidationError(fmt.Sprintf("unsupported export format %q", s))
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// FileName names a download after the day the record was loaded.
func FileName(f Format, loadedAt time.Time) string {
	return fmt.Sprintf("dailyproduction_%s.%s", loadedAt.Format("2006-01-02"), f)
}

// Exporter writes a production record as CSV or XLSX.
type Exporter struct {
	csv    *CSVWriter
	title  string
	logger *slog.Logger
}

// NewExporter creates an exporter. title heads the XLSX sheet.
func NewExporter(title string, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "exporter"))
	return &Exporter{
		csv:    NewCSVWriter(logger),
		title:  title,
		logger: logger,
	}
}

// Write renders record to w. Failures are EXPORT errors.
func (e *Exporter) Write(w io.Writer, f Format, record *domain.ProductionRecord) error {
	if record == nil {
		return apperrors.NewExportError("no record to export", nil)
	}

	rows := Rows(record)
	var err error
	switch f {
	case FormatCSV:
		err = e.csv.WriteCSV(w, WriteOptions{
			Headers:   Headers,
			Records:   Records(record.Date, rows),
			BOMPrefix: true,
		})
	case FormatXLSX:
		err = writeXLSX(w, e.title, record.Date, rows)
	default:
		return apperrors.NewAppValidationError(fmt.Sprintf("unsupported export format %q", f))
	}
	if err != nil {
		return apperrors.NewExportError(fmt.Sprintf("failed to write %s export", f), err)
	}

	e.logger.Debug("export written",
		slog.String("format", string(f)),
		slog.Int("rows", len(rows)),
		slog.String("date", record.Date))
	return nil
}

// WriteFile writes an export to path, picking the format from its
// extension. The directory is created if needed.
func (e *Exporter) WriteFile(path string, record *domain.ProductionRecord) error {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewExportError("failed to create directory", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewExportError("failed to create file", err)
	}

	if err := e.Write(file, f, record); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	if err := file.Close(); err != nil {
		return apperrors.NewExportError("failed to close file", err)
	}

	e.logger.Info("export file written", slog.String("path", path), slog.String("format", string(f)))
	return nil
}
