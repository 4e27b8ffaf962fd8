package testutil

import (
	"strings"
)

// sampleExport is a clean daily production export. Every cell the default
// layout reads is numeric, so a strict extractor accepts it unchanged.
const sampleExport = `Daily Production Report
Clays Ltd,Bungay
Report Date,Day
45820,Thursday
Product,Actual,Target,Variance,,,Heads,Hours,,,,,,,MTD Actual,MTD Target,MTD Variance,,
Note 5,,,,,,,,,,,,,,,,,,
Note 6,,,,,,,,,,,,,,,,,,
Note 7,,,,,,,,,,,,,,,,,,
Note 8,,,,,,,,,,,,,,,,,,
Note 9,,,,,,,,,,,,,,,,,,
Conventional Books,1614,11000,-9386,,,11,132,,,,,,,11184,115500,-104316,,
POD,900,1250,-350,,,3,36,,,,,,,8100,11250,-3150,,
Personalised Books,2000,3000,-1000,,,4,48,,,,,,,12000,25999.6,-13999.6,,
Clays Trade,300,12500,-12200,,,9,108,,,,,,,9000,131250,-122250,,
On Time,,,,,,,,,,,Yesterday,,,,,,,MTD
Section,,,,,,,,,,,,,,,,,,
Section,,,,,,,,,,,,,,,,,,
Conventional & Trade,,,,,,,,,,,0.9,,,,,,,0.95
POD,,,,,,,,,,,1,,,,,,,0.99
Personalised,,,,,,,,,,,0.8,,,,,,,0.75
In Full,Jobs Short,Qty Requested,Actual Qty,Short,,,,,,,% Short,,,,,,,
Section,,,,,,,,,,,,,,,,,,
Section,,,,,,,,,,,,,,,,,,
Conventional & Trade,2,200,190,-10,,,,,,,-0.05,,,20,17000,16800,-200,-0.012
POD,,,,-3,,,,,,,-0.01,,,,,,-12,-0.002
Personalised,,,,0,,,,,,,0,,,,,,-5,-0.001
Rework,Jobs,Job Parts,Quantity,Value,,,,,,,,,,,,,,
Section,,,,,,,,,,,,,,,,,,
Section,,,,,,,,,,,,,,,,,,
Yesterday,2,3,500,120.50,,,,,,,,,,,,,,
Month to Date header,,,,,,,,,,,,,,,,,,
Month to Date,10,12,4000,3500.75,,,,,,,,,,,,,,
End of report`

// ProductionCSV builds daily production exports for tests. Line and column
// positions count non-blank lines and comma-separated fields, the same way
// the extractor does.
type ProductionCSV struct {
	rows [][]string
}

// NewProductionCSV starts from the clean sample export.
func NewProductionCSV() *ProductionCSV {
	lines := strings.Split(sampleExport, "\n")
	rows := make([][]string, len(lines))
	for i, l := range lines {
		rows[i] = strings.Split(l, ",")
	}
	return &ProductionCSV{rows: rows}
}

// Set replaces one cell, growing the row when column is past its end.
func (p *ProductionCSV) Set(line, column int, value string) *ProductionCSV {
	row := p.rows[line]
	for len(row) <= column {
		row = append(row, "")
	}
	row[column] = value
	p.rows[line] = row
	return p
}

// Truncate keeps only the first n lines.
func (p *ProductionCSV) Truncate(n int) *ProductionCSV {
	if n < len(p.rows) {
		p.rows = p.rows[:n]
	}
	return p
}

// String renders the export with LF line endings.
func (p *ProductionCSV) String() string {
	lines := make([]string, len(p.rows))
	for i, row := range p.rows {
		lines[i] = strings.Join(row, ",")
	}
	return strings.Join(lines, "\n") + "\n"
}

// Bytes renders the export as a byte slice.
func (p *ProductionCSV) Bytes() []byte {
	return []byte(p.String())
}

// SampleProductionCSV returns the clean sample export.
func SampleProductionCSV() string {
	return NewProductionCSV().String()
}
