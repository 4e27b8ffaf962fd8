package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proddash/internal/dataprocessing"
	"proddash/internal/shared/testutil"
	"proddash/pkg/contracts/domain"
)

func sampleRecord(t *testing.T) *domain.ProductionRecord {
	t.Helper()
	res, err := dataprocessing.NewExtractor(dataprocessing.ModeStrict, nil).Extract(testutil.SampleProductionCSV())
	require.NoError(t, err)
	return res.Record
}

var loadedAt = time.Date(2025, 6, 13, 7, 30, 0, 0, time.UTC)

func TestBuild_Cards(t *testing.T) {
	v := Build(sampleRecord(t), State{LastUpdated: loadedAt})

	require.True(t, v.HasData)
	assert.False(t, v.Loading)
	assert.Empty(t, v.Banner)
	assert.Equal(t, "Thursday 12th June 2025", v.Date)
	assert.Equal(t, "13/06/2025, 07:30:00", v.LastUpdated)

	require.Len(t, v.Cards, 4)
	assert.Equal(t, []string{"conventional", "pod", "personalised", "trade"},
		[]string{v.Cards[0].Key, v.Cards[1].Key, v.Cards[2].Key, v.Cards[3].Key})

	conv := v.Cards[0]
	assert.Equal(t, "Conventional Books", conv.Title)
	assert.Equal(t, "CB", conv.Icon)
	assert.Equal(t, PeriodFigures{
		Actual:        "1,614",
		Target:        "11,000",
		Variance:      "-9,386",
		VarianceClass: "negative",
		Progress:      14.7,
		ProgressWidth: 14.7,
		Heads:         "11",
		Hours:         "132",
	}, conv.Yesterday)
	assert.Equal(t, "11,184", conv.MonthToDate.Actual)
	assert.InDelta(t, 9.7, conv.MonthToDate.Progress, 1e-9)
	assert.Empty(t, conv.MonthToDate.Heads)

	assert.InDelta(t, 72.0, v.Cards[1].Yesterday.Progress, 1e-9)
	assert.Equal(t, "Clays Trade", v.Cards[3].Title)
}

func TestBuild_Progress(t *testing.T) {
	tests := []struct {
		name     string
		snap     domain.MetricSnapshot
		progress float64
		width    float64
		class    string
	}{
		{name: "over target", snap: domain.MetricSnapshot{Actual: 1300, Target: 1250, Variance: 50}, progress: 104, width: 100, class: "positive"},
		{name: "zero target", snap: domain.MetricSnapshot{Actual: 10}, progress: 0, width: 0, class: ""},
		{name: "on target", snap: domain.MetricSnapshot{Actual: 1250, Target: 1250}, progress: 100, width: 100, class: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := periodFigures(tt.snap)
			assert.InDelta(t, tt.progress, p.Progress, 1e-9)
			assert.InDelta(t, tt.width, p.ProgressWidth, 1e-9)
			assert.Equal(t, tt.class, p.VarianceClass)
		})
	}
}

func TestBuild_Panels(t *testing.T) {
	v := Build(sampleRecord(t), State{})

	assert.Equal(t, "On Time Performance", v.OnTime.Title)
	assert.Equal(t, []KPIItem{
		{Label: "Conventional & Trade", Value: "90.0%", Class: "warning"},
		{Label: "POD", Value: "100%", Class: "good"},
		{Label: "Personalised", Value: "80.0%", Class: "poor"},
	}, v.OnTime.Yesterday)
	assert.Equal(t, "95.0%", v.OnTime.MonthToDate[0].Value)
	assert.Equal(t, "good", v.OnTime.MonthToDate[0].Class)
	assert.Equal(t, "99%", v.OnTime.MonthToDate[1].Value)

	assert.Equal(t, []KPIItem{
		{Label: "Conventional & Trade", Value: "95.0%", Class: "good", Detail: "10 units"},
		{Label: "POD", Value: "99%", Class: "good", Detail: "3 units"},
		{Label: "Personalised", Value: "100%", Class: "good", Detail: "0 units"},
	}, v.InFull.Yesterday)
	assert.Equal(t, "98.8%", v.InFull.MonthToDate[0].Value)
	assert.Equal(t, "200 units", v.InFull.MonthToDate[0].Detail)

	assert.Equal(t, []KPIItem{
		{Label: "Jobs", Value: "2"},
		{Label: "Quantity", Value: "500"},
		{Label: "Value", Value: "£121"},
	}, v.Rework.Yesterday)
	assert.Equal(t, "4,000", v.Rework.MonthToDate[1].Value)
	assert.Equal(t, "£3501", v.Rework.MonthToDate[2].Value)
}

func TestBuild_Totals(t *testing.T) {
	v := Build(sampleRecord(t), State{})
	assert.Equal(t, []Stat{
		{Label: "Total Units Yesterday", Value: "4,814"},
		{Label: "Total Units MTD", Value: "40,284"},
		{Label: "Total Heads Yesterday", Value: "27"},
		{Label: "Total Hours Yesterday", Value: "324"},
	}, v.Totals)
}

func TestBuild_States(t *testing.T) {
	tests := []struct {
		name    string
		record  bool
		state   State
		loading bool
		stale   bool
		banner  string
	}{
		{name: "loading", state: State{Loading: true}, loading: true},
		{name: "first load failed", state: State{Failed: true}, banner: ErrorBanner},
		{name: "stale", record: true, state: State{Failed: true}, stale: true, banner: ErrorBanner},
		{name: "current", record: true, state: State{}},
		{name: "refreshing with data", record: true, state: State{Loading: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec *domain.ProductionRecord
			if tt.record {
				rec = sampleRecord(t)
			}
			v := Build(rec, tt.state)
			assert.Equal(t, tt.loading, v.Loading)
			assert.Equal(t, tt.stale, v.Stale)
			assert.Equal(t, tt.banner, v.Banner)
			assert.Equal(t, tt.record, v.HasData)
		})
	}
}
