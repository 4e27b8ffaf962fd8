package dataprocessing

import "math"

// VarianceClass buckets a variance by sign for display.
type VarianceClass string

const (
	VariancePositive VarianceClass = "positive"
	VarianceNegative VarianceClass = "negative"
	VarianceNeutral  VarianceClass = "neutral"
)

// QualityClass buckets a performance percentage for display.
type QualityClass string

const (
	QualityGood    QualityClass = "good"
	QualityWarning QualityClass = "warning"
	QualityPoor    QualityClass = "poor"
)

const (
	goodThreshold    = 95.0
	warningThreshold = 85.0
)

// Percentage returns actual as a percentage of target rounded to one decimal
// place. A zero target yields 0.
func Percentage(actual, target float64) float64 {
	if target == 0 {
		return 0
	}
	return roundHalfUp(actual/target*100*10) / 10
}

// ClassifyVariance maps a variance to positive, negative or neutral by sign.
func ClassifyVariance(variance int) VarianceClass {
	switch {
	case variance > 0:
		return VariancePositive
	case variance < 0:
		return VarianceNegative
	default:
		return VarianceNeutral
	}
}

// ClassifyQuality applies the same thresholds to on-time and in-full
// percentages: good from 95, warning from 85, poor below.
func ClassifyQuality(percentage float64) QualityClass {
	switch {
	case percentage >= goodThreshold:
		return QualityGood
	case percentage >= warningThreshold:
		return QualityWarning
	default:
		return QualityPoor
	}
}

// OrdinalSuffix returns the English ordinal suffix for a day of month.
func OrdinalSuffix(day int) string {
	if day%100 >= 11 && day%100 <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

// roundHalfUp rounds .5 towards positive infinity, so -2.5 becomes -2.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
