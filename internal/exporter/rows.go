package exporter

import (
	"proddash/internal/dataprocessing"
	"proddash/pkg/contracts/domain"
)

// Sections of the flattened export.
const (
	SectionProduction = "production"
	SectionOnTime     = "on_time"
	SectionInFull     = "in_full"
	SectionRework     = "rework"
)

const (
	periodYesterday = "yesterday"
	periodMTD       = "mtd"
)

// Headers is the column layout shared by the CSV and XLSX exports.
var Headers = []string{"Report Date", "Section", "Group", "Period", "Metric", "Value"}

// Row is one figure of a record. Value is an int, a float64 percentage or a
// decimal.Decimal amount.
type Row struct {
	Section string
	Group   string
	Period  string
	Metric  string
	Value   interface{}
}

// Rows flattens a record into one row per figure, in dashboard order.
// Progress rows are derived; everything else is read straight from the
// record.
func Rows(record *domain.ProductionRecord) []Row {
	var rows []Row
	add := func(section, group, period, metric string, v interface{}) {
		rows = append(rows, Row{Section: section, Group: group, Period: period, Metric: metric, Value: v})
	}

	for _, g := range domain.ProductGroups {
		line := record.Line(g)
		for _, p := range []struct {
			name string
			snap domain.MetricSnapshot
		}{{periodYesterday, line.Yesterday}, {periodMTD, line.MonthToDate}} {
			group := string(g)
			add(SectionProduction, group, p.name, "actual", p.snap.Actual)
			add(SectionProduction, group, p.name, "target", p.snap.Target)
			add(SectionProduction, group, p.name, "variance", p.snap.Variance)
			add(SectionProduction, group, p.name, "progress_pct",
				dataprocessing.Percentage(float64(p.snap.Actual), float64(p.snap.Target)))
			if p.snap.Heads != nil {
				add(SectionProduction, group, p.name, "heads", *p.snap.Heads)
			}
			if p.snap.Hours != nil {
				add(SectionProduction, group, p.name, "hours", *p.snap.Hours)
			}
		}
	}

	onTime := []struct {
		group domain.ProductGroup
		snap  domain.PerformanceSnapshot
	}{
		{domain.GroupConventional, record.OnTime.Conventional},
		{domain.GroupPOD, record.OnTime.POD},
		{domain.GroupPersonalised, record.OnTime.Personalised},
	}
	for _, o := range onTime {
		add(SectionOnTime, string(o.group), periodYesterday, "on_time_pct", o.snap.Yesterday)
		add(SectionOnTime, string(o.group), periodMTD, "on_time_pct", o.snap.MonthToDate)
	}

	inFull := []struct {
		group domain.ProductGroup
		line  domain.InFullLine
	}{
		{domain.GroupConventional, record.InFull.Conventional},
		{domain.GroupPOD, record.InFull.POD},
		{domain.GroupPersonalised, record.InFull.Personalised},
	}
	for _, f := range inFull {
		for _, p := range []struct {
			name string
			snap domain.InFullSnapshot
		}{{periodYesterday, f.line.Yesterday}, {periodMTD, f.line.MonthToDate}} {
			group := string(f.group)
			if p.snap.JobsShort != nil {
				add(SectionInFull, group, p.name, "jobs_short", *p.snap.JobsShort)
			}
			if p.snap.QuantityRequested != nil {
				add(SectionInFull, group, p.name, "quantity_requested", *p.snap.QuantityRequested)
			}
			if p.snap.ActualQuantity != nil {
				add(SectionInFull, group, p.name, "actual_quantity", *p.snap.ActualQuantity)
			}
			add(SectionInFull, group, p.name, "short", p.snap.Short)
			add(SectionInFull, group, p.name, "percentage_short", p.snap.PercentageShort)
		}
	}

	for _, p := range []struct {
		name string
		snap domain.ReworkSnapshot
	}{{periodYesterday, record.Rework.Yesterday}, {periodMTD, record.Rework.MonthToDate}} {
		add(SectionRework, "", p.name, "jobs", p.snap.Jobs)
		add(SectionRework, "", p.name, "job_parts", p.snap.JobParts)
		add(SectionRework, "", p.name, "quantity", p.snap.Quantity)
		add(SectionRework, "", p.name, "value_gbp", p.snap.Value)
	}

	return rows
}

// Records renders rows as text cells under Headers.
func Records(date string, rows []Row) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{date, r.Section, r.Group, r.Period, r.Metric, cellString(r.Value)})
	}
	return records
}
