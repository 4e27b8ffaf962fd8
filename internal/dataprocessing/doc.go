// Package dataprocessing turns the daily production export into a
// ProductionRecord and derives the figures the dashboard shows from it.
//
// # Layout
//
// The export is a spreadsheet saved as CSV. Blank lines are dropped before
// any position is resolved, so line numbers in a Schema count non-blank
// lines only. Each FieldSpec names one cell and the Kind used to read it:
//
//	KindInt             leading integer, "12.7" reads as 12
//	KindRoundedDecimal  decimal rounded half-up, "25999.6" reads as 26000
//	KindPercent         fraction scaled to a percentage, "0.871" reads as 87.1
//	KindDecimal         exact decimal, used for money
//
// # Modes
//
// In ModeFallback an unreadable cell takes the field's default and its name
// is listed in Result.Fallbacks. In ModeStrict the same document is rejected
// with a MalformedInputError. A document too short for the layout is always
// rejected.
//
// # Usage
//
//	ex := dataprocessing.NewExtractor(dataprocessing.ModeFallback, logger)
//	res, err := ex.Extract(body)
//	if errors.Is(err, dataprocessing.ErrMalformedInput) {
//	    // keep the previous record
//	}
//	pct := dataprocessing.Percentage(float64(res.Record.POD.Yesterday.Actual),
//	    float64(res.Record.POD.Yesterday.Target))
package dataprocessing
