package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"proddash/internal/dataprocessing"
	apperrors "proddash/internal/errors"
	"proddash/internal/shared/testutil"
	"proddash/pkg/contracts/domain"
)

func sampleRecord(t *testing.T) *domain.ProductionRecord {
	t.Helper()
	res, err := dataprocessing.NewExtractor(dataprocessing.ModeStrict, nil).Extract(testutil.SampleProductionCSV())
	require.NoError(t, err)
	return res.Record
}

func findRow(rows []Row, section, group, period, metric string) (Row, bool) {
	for _, r := range rows {
		if r.Section == section && r.Group == group && r.Period == period && r.Metric == metric {
			return r, true
		}
	}
	return Row{}, false
}

func TestRows(t *testing.T) {
	rows := Rows(sampleRecord(t))
	assert.Len(t, rows, 72)

	tests := []struct {
		section, group, period, metric string
		want                           interface{}
	}{
		{SectionProduction, "conventional", "yesterday", "actual", 1614},
		{SectionProduction, "conventional", "yesterday", "progress_pct", 14.7},
		{SectionProduction, "trade", "mtd", "target", 131250},
		{SectionProduction, "pod", "yesterday", "heads", 3},
		{SectionOnTime, "personalised", "mtd", "on_time_pct", 75.0},
		{SectionInFull, "conventional", "yesterday", "quantity_requested", 200},
		{SectionInFull, "pod", "mtd", "percentage_short", -0.2},
		{SectionRework, "", "yesterday", "job_parts", 3},
	}
	for _, tt := range tests {
		r, ok := findRow(rows, tt.section, tt.group, tt.period, tt.metric)
		require.True(t, ok, "%s/%s/%s/%s", tt.section, tt.group, tt.period, tt.metric)
		assert.Equal(t, tt.want, r.Value, "%s/%s/%s/%s", tt.section, tt.group, tt.period, tt.metric)
	}

	_, ok := findRow(rows, SectionProduction, "conventional", "mtd", "heads")
	assert.False(t, ok)
	_, ok = findRow(rows, SectionInFull, "pod", "yesterday", "jobs_short")
	assert.False(t, ok)

	value, ok := findRow(rows, SectionRework, "", "mtd", "value_gbp")
	require.True(t, ok)
	assert.Equal(t, "3500.75", cellString(value.Value))
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "-9386", cellString(-9386))
	assert.Equal(t, "87.1", cellString(87.1))
	assert.Equal(t, "100", cellString(100.0))
	assert.Equal(t, "pod", cellString("pod"))
	assert.Equal(t, "", cellString(nil))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = ParseFormat(" csv ")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = ParseFormat("pdf")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestFileName(t *testing.T) {
	at := time.Date(2025, 6, 13, 7, 30, 0, 0, time.UTC)
	assert.Equal(t, "dailyproduction_2025-06-13.xlsx", FileName(FormatXLSX, at))
	assert.Equal(t, "dailyproduction_2025-06-13.csv", FileName(FormatCSV, at))
	assert.Contains(t, FormatCSV.ContentType(), "text/csv")
}

func TestExporter_CSV(t *testing.T) {
	var buf bytes.Buffer
	ex := NewExporter("Daily Production Dashboard", nil)
	require.NoError(t, ex.Write(&buf, FormatCSV, sampleRecord(t)))

	data := buf.Bytes()
	require.True(t, bytes.HasPrefix(data, utf8BOM))

	records, err := csv.NewReader(bytes.NewReader(data[len(utf8BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 73)
	assert.Equal(t, Headers, records[0])
	assert.Equal(t, []string{"Thursday 12th June 2025", "production", "conventional", "yesterday", "actual", "1614"}, records[1])
	assert.Equal(t, []string{"Thursday 12th June 2025", "rework", "", "mtd", "value_gbp", "3500.75"}, records[72])
}

func TestExporter_XLSX(t *testing.T) {
	var buf bytes.Buffer
	ex := NewExporter("Daily Production Dashboard", nil)
	require.NoError(t, ex.Write(&buf, FormatXLSX, sampleRecord(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Dashboard"}, f.GetSheetList())

	title, err := f.GetCellValue("Dashboard", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Daily Production Dashboard", title)

	date, err := f.GetCellValue("Dashboard", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Thursday 12th June 2025", date)

	for i, h := range Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 4)
		require.NoError(t, err)
		got, err := f.GetCellValue("Dashboard", cell)
		require.NoError(t, err)
		assert.Equal(t, h, got)
	}

	actual, err := f.GetCellValue("Dashboard", "F5")
	require.NoError(t, err)
	assert.Equal(t, "1614", actual)

	metric, err := f.GetCellValue("Dashboard", "E76")
	require.NoError(t, err)
	assert.Equal(t, "value_gbp", metric)

	after, err := f.GetCellValue("Dashboard", "A77")
	require.NoError(t, err)
	assert.Empty(t, after)
}

func TestExporter_Errors(t *testing.T) {
	ex := NewExporter("", nil)

	err := ex.Write(&bytes.Buffer{}, FormatCSV, nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeExport))

	err = ex.Write(&bytes.Buffer{}, Format("pdf"), sampleRecord(t))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))

	err = ex.Write(failingWriter{}, FormatCSV, sampleRecord(t))
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeExport))
}

func TestExporter_WriteFile(t *testing.T) {
	dir := t.TempDir()
	ex := NewExporter("Daily Production Dashboard", nil)
	record := sampleRecord(t)

	for _, name := range []string{"out/day.csv", "out/day.xlsx"} {
		path := filepath.Join(dir, name)
		require.NoError(t, ex.WriteFile(path, record))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}

	err := ex.WriteFile(filepath.Join(dir, "day.txt"), record)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))

	err = ex.WriteFile(filepath.Join(dir, "empty.csv"), nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeExport))
	_, statErr := os.Stat(filepath.Join(dir, "empty.csv"))
	assert.True(t, os.IsNotExist(statErr))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, os.ErrClosed }
