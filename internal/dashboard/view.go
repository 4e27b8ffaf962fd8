package dashboard

import (
	"math"
	"time"

	"proddash/internal/dataprocessing"
	"proddash/pkg/contracts/domain"
)

// ErrorBanner is the one message shown for any failed load, whether or not
// earlier data is still on screen. The dashboard never shows why.
const ErrorBanner = "Unable to load production data. Please try again later."

// State is the load-cycle state the page reflects.
type State struct {
	Loading     bool
	Failed      bool
	LastUpdated time.Time
	// RefreshInterval drives the page's own reload fallback when live
	// updates are off.
	RefreshInterval time.Duration
	LiveUpdates     bool
}

// View is everything the dashboard template renders.
type View struct {
	Title       string
	Date        string
	Loading     bool
	Stale       bool
	Banner      string
	HasData     bool
	LastUpdated string

	Cards  []MetricCard
	OnTime KPIPanel
	InFull KPIPanel
	Rework KPIPanel
	Totals []Stat

	LiveUpdates   bool
	ReloadSeconds int
}

// MetricCard is one product group's volume card.
type MetricCard struct {
	Key         string
	Icon        string
	Title       string
	Yesterday   PeriodFigures
	MonthToDate PeriodFigures
}

// PeriodFigures are one period of a metric card.
type PeriodFigures struct {
	Actual        string
	Target        string
	Variance      string
	VarianceClass string
	// Progress is actual as a percentage of target; ProgressWidth is the
	// same figure capped at 100 for the bar.
	Progress      float64
	ProgressWidth float64
	Heads         string
	Hours         string
}

// KPIPanel is one of the on-time, in-full or rework panels.
type KPIPanel struct {
	Title       string
	Yesterday   []KPIItem
	MonthToDate []KPIItem
}

// KPIItem is one labelled figure inside a panel. Class is empty for plain
// counts.
type KPIItem struct {
	Label  string
	Value  string
	Class  string
	Detail string
}

// Stat is a summary figure under the cards.
type Stat struct {
	Label string
	Value string
}

type cardMeta struct {
	group domain.ProductGroup
	icon  string
	title string
}

var cards = []cardMeta{
	{domain.GroupConventional, "CB", "Conventional Books"},
	{domain.GroupPOD, "POD", "Print on Demand"},
	{domain.GroupPersonalised, "PB", "Personalised Books"},
	{domain.GroupTrade, "CT", "Clays Trade"},
}

// Build turns a record and the cycle state into a View. record may be nil
// while loading or after a first load failed.
func Build(record *domain.ProductionRecord, state State) View {
	v := View{
		Title:         "Daily Production Dashboard",
		Loading:       state.Loading && record == nil,
		LiveUpdates:   state.LiveUpdates,
		ReloadSeconds: int(state.RefreshInterval / time.Second),
	}

	if state.Failed {
		v.Banner = ErrorBanner
		v.Stale = record != nil
	}
	if record == nil {
		return v
	}

	v.HasData = true
	v.Date = record.Date
	if !state.LastUpdated.IsZero() {
		v.LastUpdated = FormatTimestamp(state.LastUpdated)
	}

	for _, c := range cards {
		line := record.Line(c.group)
		v.Cards = append(v.Cards, MetricCard{
			Key:         string(c.group),
			Icon:        c.icon,
			Title:       c.title,
			Yesterday:   periodFigures(line.Yesterday),
			MonthToDate: periodFigures(line.MonthToDate),
		})
	}

	v.OnTime = onTimePanel(record.OnTime)
	v.InFull = inFullPanel(record.InFull)
	v.Rework = reworkPanel(record.Rework)

	totals := record.Totals()
	v.Totals = []Stat{
		{Label: "Total Units Yesterday", Value: FormatNumber(totals.YesterdayActual)},
		{Label: "Total Units MTD", Value: FormatNumber(totals.MonthToDateActual)},
		{Label: "Total Heads Yesterday", Value: FormatNumber(totals.YesterdayHeads)},
		{Label: "Total Hours Yesterday", Value: FormatNumber(totals.YesterdayHours)},
	}
	return v
}

func periodFigures(s domain.MetricSnapshot) PeriodFigures {
	progress := dataprocessing.Percentage(float64(s.Actual), float64(s.Target))
	p := PeriodFigures{
		Actual:        FormatNumber(s.Actual),
		Target:        FormatNumber(s.Target),
		Variance:      FormatNumber(s.Variance),
		VarianceClass: varianceClass(s.Variance),
		Progress:      progress,
		ProgressWidth: math.Max(0, math.Min(100, progress)),
	}
	if s.Heads != nil {
		p.Heads = FormatNumber(*s.Heads)
	}
	if s.Hours != nil {
		p.Hours = FormatNumber(*s.Hours)
	}
	return p
}

// varianceClass leaves zero variance unstyled.
func varianceClass(v int) string {
	c := dataprocessing.ClassifyVariance(v)
	if c == dataprocessing.VarianceNeutral {
		return ""
	}
	return string(c)
}

func percentItem(label string, p float64, decimals int) KPIItem {
	return KPIItem{
		Label: label,
		Value: FormatPercent(p, decimals),
		Class: string(dataprocessing.ClassifyQuality(p)),
	}
}

func onTimePanel(ot domain.OnTimePerformance) KPIPanel {
	period := func(pick func(domain.PerformanceSnapshot) float64) []KPIItem {
		return []KPIItem{
			percentItem("Conventional & Trade", pick(ot.Conventional), 1),
			percentItem("POD", pick(ot.POD), 0),
			percentItem("Personalised", pick(ot.Personalised), 1),
		}
	}
	return KPIPanel{
		Title:       "On Time Performance",
		Yesterday:   period(func(s domain.PerformanceSnapshot) float64 { return s.Yesterday }),
		MonthToDate: period(func(s domain.PerformanceSnapshot) float64 { return s.MonthToDate }),
	}
}

// inFullItem shows the share delivered in full, 100 plus the signed
// shortfall, with the absolute short quantity underneath.
func inFullItem(label string, s domain.InFullSnapshot, decimals int) KPIItem {
	item := percentItem(label, 100+s.PercentageShort, decimals)
	short := s.Short
	if short < 0 {
		short = -short
	}
	item.Detail = FormatNumber(short) + " units"
	return item
}

func inFullPanel(inf domain.InFullPerformance) KPIPanel {
	period := func(pick func(domain.InFullLine) domain.InFullSnapshot) []KPIItem {
		return []KPIItem{
			inFullItem("Conventional & Trade", pick(inf.Conventional), 1),
			inFullItem("POD", pick(inf.POD), 0),
			inFullItem("Personalised", pick(inf.Personalised), 0),
		}
	}
	return KPIPanel{
		Title:       "In Full Performance",
		Yesterday:   period(func(l domain.InFullLine) domain.InFullSnapshot { return l.Yesterday }),
		MonthToDate: period(func(l domain.InFullLine) domain.InFullSnapshot { return l.MonthToDate }),
	}
}

func reworkPanel(rw domain.Rework) KPIPanel {
	items := func(s domain.ReworkSnapshot) []KPIItem {
		return []KPIItem{
			{Label: "Jobs", Value: FormatNumber(s.Jobs)},
			{Label: "Quantity", Value: FormatNumber(s.Quantity)},
			{Label: "Value", Value: FormatPounds(s.Value)},
		}
	}
	return KPIPanel{
		Title:       "Rework Analysis",
		Yesterday:   items(rw.Yesterday),
		MonthToDate: items(rw.MonthToDate),
	}
}
