package exporter

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Dashboard"

// writeXLSX writes one sheet: a title block, then the flattened rows under
// Headers with numbers stored as numbers.
func writeXLSX(w io.Writer, title, date string, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F3A5F"}},
	})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &[]interface{}{title}); err != nil {
		return fmt.Errorf("write title: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A2", &[]interface{}{"Report date", date}); err != nil {
		return fmt.Errorf("write date: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "A2", bold); err != nil {
		return fmt.Errorf("style title: %w", err)
	}

	const headerRow = 4
	headers := make([]interface{}, len(Headers))
	for i, h := range Headers {
		headers[i] = h
	}
	if err := f.SetSheetRow(sheetName, fmt.Sprintf("A%d", headerRow), &headers); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(Headers), headerRow)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, fmt.Sprintf("A%d", headerRow), last, header); err != nil {
		return fmt.Errorf("style headers: %w", err)
	}

	for i, r := range rows {
		cell := fmt.Sprintf("A%d", headerRow+1+i)
		values := []interface{}{date, r.Section, r.Group, r.Period, r.Metric, sheetValue(r.Value)}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 26); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "B", "E", 18); err != nil {
		return err
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      headerRow,
		TopLeftCell: fmt.Sprintf("A%d", headerRow+1),
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// sheetValue keeps numbers numeric in the workbook.
func sheetValue(v interface{}) interface{} {
	if d, ok := v.(decimal.Decimal); ok {
		return d.InexactFloat64()
	}
	return v
}
