package domain

import (
	"github.com/shopspring/decimal"
)

// ProductGroup identifies one of the four production lines reported in the
// daily export.
type ProductGroup string

const (
	GroupConventional ProductGroup = "conventional"
	GroupPOD          ProductGroup = "pod"
	GroupPersonalised ProductGroup = "personalised"
	GroupTrade        ProductGroup = "trade"
)

// ProductGroups lists the groups in display order.
var ProductGroups = []ProductGroup{GroupConventional, GroupPOD, GroupPersonalised, GroupTrade}

// MetricSnapshot holds the volume figures for one period of one product line.
// Variance is read from its own column and is not reconciled with
// Actual-Target. Heads and Hours are only reported for yesterday.
type MetricSnapshot struct {
	Actual   int  `json:"actual"`
	Target   int  `json:"target"`
	Variance int  `json:"variance"`
	Heads    *int `json:"heads,omitempty"`
	Hours    *int `json:"hours,omitempty"`
}

// ProductLine pairs the yesterday and month-to-date snapshots of one group.
type ProductLine struct {
	Yesterday   MetricSnapshot `json:"yesterday"`
	MonthToDate MetricSnapshot `json:"mtd"`
}

// PerformanceSnapshot holds on-time percentages (0-100) for both periods.
type PerformanceSnapshot struct {
	Yesterday   float64 `json:"yesterday"`
	MonthToDate float64 `json:"mtd"`
}

// OnTimePerformance is the on-time KPI panel. Trade is reported together
// with conventional books upstream and has no line of its own.
type OnTimePerformance struct {
	Conventional PerformanceSnapshot `json:"conventional"`
	POD          PerformanceSnapshot `json:"pod"`
	Personalised PerformanceSnapshot `json:"personalised"`
}

// InFullSnapshot describes shortfalls against requested quantity.
// PercentageShort is signed and normally <= 0. The pointer fields are only
// exposed by the conventional line.
type InFullSnapshot struct {
	JobsShort         *int    `json:"jobs_short,omitempty"`
	QuantityRequested *int    `json:"quantity_requested,omitempty"`
	ActualQuantity    *int    `json:"actual_quantity,omitempty"`
	Short             int     `json:"short"`
	PercentageShort   float64 `json:"percentage_short"`
}

// InFullLine pairs both periods of in-full performance for one group.
type InFullLine struct {
	Yesterday   InFullSnapshot `json:"yesterday"`
	MonthToDate InFullSnapshot `json:"mtd"`
}

// InFullPerformance is the in-full KPI panel.
type InFullPerformance struct {
	Conventional InFullLine `json:"conventional"`
	POD          InFullLine `json:"pod"`
	Personalised InFullLine `json:"personalised"`
}

// ReworkSnapshot counts jobs redone for quality or process reasons.
type ReworkSnapshot struct {
	Jobs     int             `json:"jobs"`
	JobParts int             `json:"job_parts"`
	Quantity int             `json:"quantity"`
	Value    decimal.Decimal `json:"value"`
}

// Rework is the rework KPI panel.
type Rework struct {
	Yesterday   ReworkSnapshot `json:"yesterday"`
	MonthToDate ReworkSnapshot `json:"mtd"`
}

// ProductionRecord is the whole dashboard payload extracted from one daily
// export. It is built once per load cycle and never mutated afterwards.
type ProductionRecord struct {
	Date         string            `json:"date"`
	Conventional ProductLine       `json:"conventional"`
	POD          ProductLine       `json:"pod"`
	Personalised ProductLine       `json:"personalised"`
	Trade        ProductLine       `json:"trade"`
	OnTime       OnTimePerformance `json:"on_time"`
	InFull       InFullPerformance `json:"in_full"`
	Rework       Rework            `json:"rework"`
}

// Line returns the product line for a group, or nil for an unknown group.
func (r *ProductionRecord) Line(group ProductGroup) *ProductLine {
	switch group {
	case GroupConventional:
		return &r.Conventional
	case GroupPOD:
		return &r.POD
	case GroupPersonalised:
		return &r.Personalised
	case GroupTrade:
		return &r.Trade
	}
	return nil
}

// ProductionTotals are the summary figures shown under the metric cards.
type ProductionTotals struct {
	YesterdayActual   int `json:"yesterday_actual"`
	MonthToDateActual int `json:"mtd_actual"`
	YesterdayHeads    int `json:"yesterday_heads"`
	YesterdayHours    int `json:"yesterday_hours"`
}

// Totals sums actuals across all four groups for both periods, and heads and
// hours for yesterday. Missing heads or hours count as zero.
func (r *ProductionRecord) Totals() ProductionTotals {
	var t ProductionTotals
	for _, g := range ProductGroups {
		line := r.Line(g)
		t.YesterdayActual += line.Yesterday.Actual
		t.MonthToDateActual += line.MonthToDate.Actual
		if line.Yesterday.Heads != nil {
			t.YesterdayHeads += *line.Yesterday.Heads
		}
		if line.Yesterday.Hours != nil {
			t.YesterdayHours += *line.Yesterday.Hours
		}
	}
	return t
}
