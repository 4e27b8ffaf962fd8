package dataprocessing

import (
	"github.com/shopspring/decimal"

	"proddash/pkg/contracts/domain"
)

// The daily export is a spreadsheet saved as CSV by the upstream reporting
// tool. Positions below are 0-based indices into the non-blank lines and into
// the comma-split fields of a line.
const (
	dateLine   = 3
	dateColumn = 0

	conventionalLine = 10
	podLine          = 11
	personalisedLine = 12
	tradeLine        = 13

	onTimeConventionalLine = 17
	onTimePODLine          = 18
	onTimePersonalisedLine = 19

	inFullConventionalLine = 23
	inFullPODLine          = 24
	inFullPersonalisedLine = 25

	reworkYesterdayLine = 29
	reworkMTDLine       = 31
)

// FieldSpec binds one logical field of the record to a cell of the export.
// Default is used whenever the cell is absent or not numeric.
type FieldSpec struct {
	Name    string
	Line    int
	Column  int
	Kind    Kind
	Default decimal.Decimal

	assign func(*domain.ProductionRecord, decimal.Decimal)
}

// Schema is the ordered list of fields extracted from one export.
type Schema []FieldSpec

// RequiredLines is the number of non-blank lines a document needs for every
// field of the schema to have a line to read from.
func (s Schema) RequiredLines() int {
	highest := dateLine
	for _, f := range s {
		if f.Line > highest {
			highest = f.Line
		}
	}
	return highest + 1
}

// Lookup returns the field with the given name.
func (s Schema) Lookup(name string) (FieldSpec, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

type lineDefaults struct {
	actual, target, variance, heads, hours int
	mtdActual, mtdTarget, mtdVariance      int
}

type inFullDefaults struct {
	jobsShort, requested, actual, short int
	pctShort                            string
}

// DefaultSchema describes the layout of the daily production export. The
// defaults are sample figures from a real report, not zeros.
func DefaultSchema() Schema {
	var s Schema

	s = append(s, productLineFields(domain.GroupConventional, conventionalLine, false, lineDefaults{
		1614, 11000, -9386, 11, 132, 11184, 115500, -104316,
	})...)
	s = append(s, productLineFields(domain.GroupPOD, podLine, false, lineDefaults{
		800, 1250, -450, 2, 24, 7927, 11250, -3323,
	})...)
	s = append(s, productLineFields(domain.GroupPersonalised, personalisedLine, true, lineDefaults{
		1774, 3000, -1226, 2, 24, 11756, 26000, -14244,
	})...)
	s = append(s, productLineFields(domain.GroupTrade, tradeLine, false, lineDefaults{
		269, 12500, -12231, 10, 120, 8541, 131250, -122709,
	})...)

	s = append(s, onTimeFields("conventional", onTimeConventionalLine, "87.0", "96.9",
		func(r *domain.ProductionRecord) *domain.PerformanceSnapshot { return &r.OnTime.Conventional })...)
	s = append(s, onTimeFields("pod", onTimePODLine, "100", "100",
		func(r *domain.ProductionRecord) *domain.PerformanceSnapshot { return &r.OnTime.POD })...)
	s = append(s, onTimeFields("personalised", onTimePersonalisedLine, "71.9", "69.2",
		func(r *domain.ProductionRecord) *domain.PerformanceSnapshot { return &r.OnTime.Personalised })...)

	s = append(s, reworkFields("yesterday", reworkYesterdayLine, 1, 1, 750, "354.25",
		func(r *domain.ProductionRecord) *domain.ReworkSnapshot { return &r.Rework.Yesterday })...)
	s = append(s, reworkFields("mtd", reworkMTDLine, 8, 10, 3483, "3163.22",
		func(r *domain.ProductionRecord) *domain.ReworkSnapshot { return &r.Rework.MonthToDate })...)

	conv := func(r *domain.ProductionRecord) *domain.InFullLine { return &r.InFull.Conventional }
	s = append(s, inFullDetailFields("conventional.yesterday", inFullConventionalLine, 1,
		inFullDefaults{1, 150, 144, -6, "-4.0"},
		func(r *domain.ProductionRecord) *domain.InFullSnapshot { return &conv(r).Yesterday })...)
	s = append(s, inFullDetailFields("conventional.mtd", inFullConventionalLine, 14,
		inFullDefaults{17, 16725, 16505, -220, "-1.3"},
		func(r *domain.ProductionRecord) *domain.InFullSnapshot { return &conv(r).MonthToDate })...)
	s = append(s, inFullShortFields("pod", inFullPODLine,
		func(r *domain.ProductionRecord) *domain.InFullLine { return &r.InFull.POD })...)
	s = append(s, inFullShortFields("personalised", inFullPersonalisedLine,
		func(r *domain.ProductionRecord) *domain.InFullLine { return &r.InFull.Personalised })...)

	return s
}

func productLineFields(group domain.ProductGroup, line int, decimalMTD bool, d lineDefaults) []FieldSpec {
	name := string(group)
	yesterday := func(r *domain.ProductionRecord) *domain.MetricSnapshot { return &r.Line(group).Yesterday }
	mtd := func(r *domain.ProductionRecord) *domain.MetricSnapshot { return &r.Line(group).MonthToDate }

	mtdKind := KindInt
	if decimalMTD {
		mtdKind = KindRoundedDecimal
	}

	return []FieldSpec{
		intField(name+".yesterday.actual", line, 1, d.actual, func(r *domain.ProductionRecord) *int { return &yesterday(r).Actual }),
		intField(name+".yesterday.target", line, 2, d.target, func(r *domain.ProductionRecord) *int { return &yesterday(r).Target }),
		intField(name+".yesterday.variance", line, 3, d.variance, func(r *domain.ProductionRecord) *int { return &yesterday(r).Variance }),
		optionalIntField(name+".yesterday.heads", line, 6, d.heads, func(r *domain.ProductionRecord) **int { return &yesterday(r).Heads }),
		optionalIntField(name+".yesterday.hours", line, 7, d.hours, func(r *domain.ProductionRecord) **int { return &yesterday(r).Hours }),
		intField(name+".mtd.actual", line, 14, d.mtdActual, func(r *domain.ProductionRecord) *int { return &mtd(r).Actual }),
		withKind(intField(name+".mtd.target", line, 15, d.mtdTarget, func(r *domain.ProductionRecord) *int { return &mtd(r).Target }), mtdKind),
		withKind(intField(name+".mtd.variance", line, 16, d.mtdVariance, func(r *domain.ProductionRecord) *int { return &mtd(r).Variance }), mtdKind),
	}
}

func onTimeFields(name string, line int, yesterdayDefault, mtdDefault string, target func(*domain.ProductionRecord) *domain.PerformanceSnapshot) []FieldSpec {
	return []FieldSpec{
		percentField("on_time."+name+".yesterday", line, 11, yesterdayDefault, func(r *domain.ProductionRecord) *float64 { return &target(r).Yesterday }),
		percentField("on_time."+name+".mtd", line, 18, mtdDefault, func(r *domain.ProductionRecord) *float64 { return &target(r).MonthToDate }),
	}
}

func reworkFields(period string, line, jobs, parts, quantity int, value string, target func(*domain.ProductionRecord) *domain.ReworkSnapshot) []FieldSpec {
	name := "rework." + period
	return []FieldSpec{
		intField(name+".jobs", line, 1, jobs, func(r *domain.ProductionRecord) *int { return &target(r).Jobs }),
		intField(name+".job_parts", line, 2, parts, func(r *domain.ProductionRecord) *int { return &target(r).JobParts }),
		intField(name+".quantity", line, 3, quantity, func(r *domain.ProductionRecord) *int { return &target(r).Quantity }),
		{
			Name:    name + ".value",
			Line:    line,
			Column:  4,
			Kind:    KindDecimal,
			Default: decimal.RequireFromString(value),
			assign: func(r *domain.ProductionRecord, v decimal.Decimal) {
				target(r).Value = v
			},
		},
	}
}

// inFullDetailFields covers the conventional line, which exposes job and
// quantity columns in front of the short count.
func inFullDetailFields(name string, line, firstColumn int, d inFullDefaults, target func(*domain.ProductionRecord) *domain.InFullSnapshot) []FieldSpec {
	name = "in_full." + name
	pctColumn := 11
	if firstColumn == 14 {
		pctColumn = 18
	}
	return []FieldSpec{
		optionalIntField(name+".jobs_short", line, firstColumn, d.jobsShort, func(r *domain.ProductionRecord) **int { return &target(r).JobsShort }),
		optionalIntField(name+".quantity_requested", line, firstColumn+1, d.requested, func(r *domain.ProductionRecord) **int { return &target(r).QuantityRequested }),
		optionalIntField(name+".actual_quantity", line, firstColumn+2, d.actual, func(r *domain.ProductionRecord) **int { return &target(r).ActualQuantity }),
		intField(name+".short", line, firstColumn+3, d.short, func(r *domain.ProductionRecord) *int { return &target(r).Short }),
		percentField(name+".percentage_short", line, pctColumn, d.pctShort, func(r *domain.ProductionRecord) *float64 { return &target(r).PercentageShort }),
	}
}

func inFullShortFields(name string, line int, target func(*domain.ProductionRecord) *domain.InFullLine) []FieldSpec {
	name = "in_full." + name
	return []FieldSpec{
		intField(name+".yesterday.short", line, 4, 0, func(r *domain.ProductionRecord) *int { return &target(r).Yesterday.Short }),
		percentField(name+".yesterday.percentage_short", line, 11, "0", func(r *domain.ProductionRecord) *float64 { return &target(r).Yesterday.PercentageShort }),
		intField(name+".mtd.short", line, 17, 0, func(r *domain.ProductionRecord) *int { return &target(r).MonthToDate.Short }),
		percentField(name+".mtd.percentage_short", line, 18, "0", func(r *domain.ProductionRecord) *float64 { return &target(r).MonthToDate.PercentageShort }),
	}
}

func intField(name string, line, column, def int, target func(*domain.ProductionRecord) *int) FieldSpec {
	return FieldSpec{
		Name:    name,
		Line:    line,
		Column:  column,
		Kind:    KindInt,
		Default: decimal.NewFromInt(int64(def)),
		assign: func(r *domain.ProductionRecord, v decimal.Decimal) {
			*target(r) = int(v.IntPart())
		},
	}
}

func optionalIntField(name string, line, column, def int, target func(*domain.ProductionRecord) **int) FieldSpec {
	return FieldSpec{
		Name:    name,
		Line:    line,
		Column:  column,
		Kind:    KindInt,
		Default: decimal.NewFromInt(int64(def)),
		assign: func(r *domain.ProductionRecord, v decimal.Decimal) {
			n := int(v.IntPart())
			*target(r) = &n
		},
	}
}

// percentField defaults are already percentages; the cell holds a fraction.
func percentField(name string, line, column int, def string, target func(*domain.ProductionRecord) *float64) FieldSpec {
	return FieldSpec{
		Name:    name,
		Line:    line,
		Column:  column,
		Kind:    KindPercent,
		Default: decimal.RequireFromString(def),
		assign: func(r *domain.ProductionRecord, v decimal.Decimal) {
			*target(r) = v.InexactFloat64()
		},
	}
}

func withKind(f FieldSpec, kind Kind) FieldSpec {
	f.Kind = kind
	return f
}
