package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FallbackReportDate is shown when the export carries no usable date serial.
const FallbackReportDate = "Thursday 12th June 2025"

// serialEpoch is day zero of spreadsheet serial dates. Serial 1 is
// 1899-12-31; no correction is made for the phantom 29 February 1900.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// SerialToDate converts a spreadsheet serial day count to a UTC date.
func SerialToDate(serial int) time.Time {
	return serialEpoch.AddDate(0, 0, serial)
}

// FormatReportDate renders t as e.g. "Thursday 12th June 2025".
func FormatReportDate(t time.Time) string {
	day := t.Day()
	return fmt.Sprintf("%s %d%s %s %d", t.Weekday(), day, OrdinalSuffix(day), t.Month(), t.Year())
}

// parseSerial accepts a cell only if the whole of it is numeric; any
// fractional part (time of day) is dropped.
func parseSerial(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return int(math.Trunc(f)), true
}
