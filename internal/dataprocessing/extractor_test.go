package dataprocessing

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proddash/pkg/contracts/domain"
)

func loadSample(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile("testdata/dailyproduction.csv")
	require.NoError(t, err)
	return string(b)
}

func intPtr(n int) *int { return &n }

// blankDocument has enough lines for the layout and nothing readable in any
// of them.
func blankDocument(lines int) string {
	rows := make([]string, lines)
	for i := range rows {
		rows[i] = "x"
	}
	return strings.Join(rows, "\n")
}

var recordCmp = []cmp.Option{
	cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
	cmpopts.EquateApprox(0, 1e-9),
}

func TestExtract_Sample(t *testing.T) {
	res, err := NewExtractor(ModeFallback, nil).Extract(loadSample(t))
	require.NoError(t, err)
	assert.Empty(t, res.Fallbacks)
	assert.Equal(t, 33, res.Lines)

	want := &domain.ProductionRecord{
		Date: "Thursday 12th June 2025",
		Conventional: domain.ProductLine{
			Yesterday:   domain.MetricSnapshot{Actual: 1614, Target: 11000, Variance: -9386, Heads: intPtr(11), Hours: intPtr(132)},
			MonthToDate: domain.MetricSnapshot{Actual: 11184, Target: 115500, Variance: -104316},
		},
		POD: domain.ProductLine{
			Yesterday:   domain.MetricSnapshot{Actual: 900, Target: 1250, Variance: -350, Heads: intPtr(3), Hours: intPtr(36)},
			MonthToDate: domain.MetricSnapshot{Actual: 8100, Target: 11250, Variance: -3150},
		},
		Personalised: domain.ProductLine{
			Yesterday:   domain.MetricSnapshot{Actual: 2000, Target: 3000, Variance: -1000, Heads: intPtr(4), Hours: intPtr(48)},
			MonthToDate: domain.MetricSnapshot{Actual: 12000, Target: 26000, Variance: -14000},
		},
		Trade: domain.ProductLine{
			Yesterday:   domain.MetricSnapshot{Actual: 300, Target: 12500, Variance: -12200, Heads: intPtr(9), Hours: intPtr(108)},
			MonthToDate: domain.MetricSnapshot{Actual: 9000, Target: 131250, Variance: -122250},
		},
		OnTime: domain.OnTimePerformance{
			Conventional: domain.PerformanceSnapshot{Yesterday: 90, MonthToDate: 95},
			POD:          domain.PerformanceSnapshot{Yesterday: 100, MonthToDate: 99},
			Personalised: domain.PerformanceSnapshot{Yesterday: 80, MonthToDate: 75},
		},
		InFull: domain.InFullPerformance{
			Conventional: domain.InFullLine{
				Yesterday: domain.InFullSnapshot{
					JobsShort: intPtr(2), QuantityRequested: intPtr(200), ActualQuantity: intPtr(190),
					Short: -10, PercentageShort: -5,
				},
				MonthToDate: domain.InFullSnapshot{
					JobsShort: intPtr(20), QuantityRequested: intPtr(17000), ActualQuantity: intPtr(16800),
					Short: -200, PercentageShort: -1.2,
				},
			},
			POD: domain.InFullLine{
				Yesterday:   domain.InFullSnapshot{Short: -3, PercentageShort: -1},
				MonthToDate: domain.InFullSnapshot{Short: -12, PercentageShort: -0.2},
			},
			Personalised: domain.InFullLine{
				Yesterday:   domain.InFullSnapshot{Short: 0, PercentageShort: 0},
				MonthToDate: domain.InFullSnapshot{Short: -5, PercentageShort: -0.1},
			},
		},
		Rework: domain.Rework{
			Yesterday:   domain.ReworkSnapshot{Jobs: 2, JobParts: 3, Quantity: 500, Value: decimal.RequireFromString("120.50")},
			MonthToDate: domain.ReworkSnapshot{Jobs: 10, JobParts: 12, Quantity: 4000, Value: decimal.RequireFromString("3500.75")},
		},
	}

	if diff := cmp.Diff(want, res.Record, recordCmp...); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_StrictAcceptsCleanDocument(t *testing.T) {
	res, err := NewExtractor(ModeStrict, nil).Extract(loadSample(t))
	require.NoError(t, err)
	assert.Equal(t, 1614, res.Record.Conventional.Yesterday.Actual)
	assert.Equal(t, "3500.75", res.Record.Rework.MonthToDate.Value.StringFixed(2))
}

func TestExtract_ShortDocument(t *testing.T) {
	tests := []struct {
		name  string
		mode  Mode
		input string
	}{
		{name: "fallback empty", mode: ModeFallback, input: ""},
		{name: "fallback twenty lines", mode: ModeFallback, input: blankDocument(20)},
		{name: "fallback one short", mode: ModeFallback, input: blankDocument(31)},
		{name: "strict twenty lines", mode: ModeStrict, input: blankDocument(20)},
		{name: "blank lines do not count", mode: ModeFallback, input: blankDocument(20) + strings.Repeat("\n  \n", 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewExtractor(tt.mode, nil).Extract(tt.input)
			assert.Nil(t, res)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedInput))

			var mie *MalformedInputError
			require.True(t, errors.As(err, &mie))
			assert.Empty(t, mie.Fields)
		})
	}
}

func TestExtract_MinimumLength(t *testing.T) {
	ex := NewExtractor(ModeFallback, nil)
	assert.Equal(t, 32, DefaultSchema().RequiredLines())

	res, err := ex.Extract(blankDocument(32))
	require.NoError(t, err)
	assert.Equal(t, 32, res.Lines)
}

func TestExtract_DefaultsWhenUnreadable(t *testing.T) {
	res, err := NewExtractor(ModeFallback, nil).Extract(blankDocument(40))
	require.NoError(t, err)

	r := res.Record
	assert.Equal(t, FallbackReportDate, r.Date)
	assert.Equal(t, 1614, r.Conventional.Yesterday.Actual)
	assert.Equal(t, 11000, r.Conventional.Yesterday.Target)
	require.NotNil(t, r.Conventional.Yesterday.Heads)
	assert.Equal(t, 11, *r.Conventional.Yesterday.Heads)
	assert.Equal(t, 800, r.POD.Yesterday.Actual)
	assert.Equal(t, 26000, r.Personalised.MonthToDate.Target)
	assert.Equal(t, -14244, r.Personalised.MonthToDate.Variance)
	assert.Equal(t, -122709, r.Trade.MonthToDate.Variance)
	assert.InDelta(t, 87.0, r.OnTime.Conventional.Yesterday, 1e-9)
	assert.InDelta(t, 69.2, r.OnTime.Personalised.MonthToDate, 1e-9)
	assert.InDelta(t, -4.0, r.InFull.Conventional.Yesterday.PercentageShort, 1e-9)
	assert.Equal(t, 16725, *r.InFull.Conventional.MonthToDate.QuantityRequested)
	assert.Equal(t, 0, r.InFull.POD.Yesterday.Short)
	assert.True(t, decimal.RequireFromString("354.25").Equal(r.Rework.Yesterday.Value))
	assert.True(t, decimal.RequireFromString("3163.22").Equal(r.Rework.MonthToDate.Value))

	schema := DefaultSchema()
	require.Len(t, res.Fallbacks, len(schema)+1)
	assert.Equal(t, DateFieldName, res.Fallbacks[0])
	for i, f := range schema {
		assert.Equal(t, f.Name, res.Fallbacks[i+1])
	}
}

func TestExtract_GarbledCell(t *testing.T) {
	lines := SplitLines(loadSample(t))
	fields := strings.Split(lines[conventionalLine], ",")
	fields[1] = "n/a"
	lines[conventionalLine] = strings.Join(fields, ",")
	doc := strings.Join(lines, "\n")

	t.Run("fallback", func(t *testing.T) {
		res, err := NewExtractor(ModeFallback, nil).Extract(doc)
		require.NoError(t, err)
		assert.Equal(t, []string{"conventional.yesterday.actual"}, res.Fallbacks)
		assert.Equal(t, 1614, res.Record.Conventional.Yesterday.Actual)
		assert.Equal(t, 900, res.Record.POD.Yesterday.Actual)
	})

	t.Run("strict", func(t *testing.T) {
		res, err := NewExtractor(ModeStrict, nil).Extract(doc)
		assert.Nil(t, res)
		require.ErrorIs(t, err, ErrMalformedInput)

		var mie *MalformedInputError
		require.ErrorAs(t, err, &mie)
		assert.Equal(t, []string{"conventional.yesterday.actual"}, mie.Fields)
		assert.Contains(t, err.Error(), "conventional.yesterday.actual")
	})
}

func TestExtract_ZeroIsNotReplaced(t *testing.T) {
	lines := SplitLines(loadSample(t))
	fields := strings.Split(lines[podLine], ",")
	fields[1] = "0"
	lines[podLine] = strings.Join(fields, ",")

	res, err := NewExtractor(ModeStrict, nil).Extract(strings.Join(lines, "\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Record.POD.Yesterday.Actual)
}

func setCell(t *testing.T, line, column int, value string) string {
	t.Helper()
	lines := SplitLines(loadSample(t))
	fields := strings.Split(lines[line], ",")
	fields[column] = value
	lines[line] = strings.Join(fields, ",")
	return strings.Join(lines, "\n")
}

func TestExtract_OutOfRangeInteger(t *testing.T) {
	doc := setCell(t, conventionalLine, 1, "99999999999999999999")

	t.Run("fallback", func(t *testing.T) {
		res, err := NewExtractor(ModeFallback, nil).Extract(doc)
		require.NoError(t, err)
		assert.Equal(t, []string{"conventional.yesterday.actual"}, res.Fallbacks)
		assert.Equal(t, 1614, res.Record.Conventional.Yesterday.Actual)
	})

	t.Run("strict", func(t *testing.T) {
		_, err := NewExtractor(ModeStrict, nil).Extract(doc)
		var mie *MalformedInputError
		require.ErrorAs(t, err, &mie)
		assert.Equal(t, []string{"conventional.yesterday.actual"}, mie.Fields)
	})
}

func TestExtract_VarianceKeptAsReported(t *testing.T) {
	doc := setCell(t, conventionalLine, 3, "-1")

	res, err := NewExtractor(ModeStrict, nil).Extract(doc)
	require.NoError(t, err)

	y := res.Record.Conventional.Yesterday
	assert.Equal(t, 1614, y.Actual)
	assert.Equal(t, 11000, y.Target)
	assert.Equal(t, -1, y.Variance)
	assert.Empty(t, res.Fallbacks)
}

func TestExtract_LineEndings(t *testing.T) {
	sample := loadSample(t)
	tests := []struct {
		name  string
		input string
	}{
		{name: "crlf", input: strings.ReplaceAll(sample, "\n", "\r\n")},
		{name: "byte order mark", input: "\uFEFF" + sample},
		{name: "indented", input: strings.ReplaceAll(sample, "\n", "\n   ")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := NewExtractor(ModeStrict, nil).Extract(tt.input)
			require.NoError(t, err)
			assert.Equal(t, "Thursday 12th June 2025", res.Record.Date)
			assert.Equal(t, 131250, res.Record.Trade.MonthToDate.Target)
		})
	}
}

func TestExtract_MissingColumnsFallBack(t *testing.T) {
	lines := SplitLines(loadSample(t))
	lines[reworkMTDLine] = "Month to Date,10"
	res, err := NewExtractor(ModeFallback, nil).Extract(strings.Join(lines, "\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"rework.mtd.job_parts",
		"rework.mtd.quantity",
		"rework.mtd.value",
	}, res.Fallbacks)
	assert.Equal(t, 10, res.Record.Rework.MonthToDate.Jobs)
	assert.Equal(t, 3483, res.Record.Rework.MonthToDate.Quantity)
}

func TestNewExtractor_DefaultMode(t *testing.T) {
	assert.Equal(t, ModeFallback, NewExtractor("", nil).Mode())
	assert.Equal(t, ModeStrict, NewExtractor(ModeStrict, nil).Mode())
}

func TestSchemaLookup(t *testing.T) {
	s := DefaultSchema()

	f, ok := s.Lookup("personalised.mtd.target")
	require.True(t, ok)
	assert.Equal(t, KindRoundedDecimal, f.Kind)
	assert.Equal(t, personalisedLine, f.Line)
	assert.Equal(t, 15, f.Column)

	f, ok = s.Lookup("conventional.mtd.target")
	require.True(t, ok)
	assert.Equal(t, KindInt, f.Kind)

	_, ok = s.Lookup("does.not.exist")
	assert.False(t, ok)

	seen := make(map[string]bool, len(s))
	for _, f := range s {
		assert.False(t, seen[f.Name], "duplicate field %s", f.Name)
		seen[f.Name] = true
	}
}
