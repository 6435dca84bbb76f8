package analysis

// Trend is the direction of a period-over-period change once noise is
// discounted.
type Trend string

const (
	TrendPositive Trend = "positive"
	TrendNegative Trend = "negative"
	TrendNeutral  Trend = "neutral"
)

// Noise thresholds below which a change is reported as neutral.
const (
	countNoise      = 0.0
	totalHoursNoise = 1.0
	dailyHoursNoise = 0.5
)

// Metric compares one figure across two periods.
type Metric struct {
	Current  float64
	Previous float64
	Diff     float64
	Percent  float64
	Trend    Trend
}

// PeriodComparison compares a period against the one before it.
type PeriodComparison struct {
	PreviousWindow    Window
	Appointments      Metric
	TotalHours        Metric
	AverageDailyHours Metric
}

// Compare builds the period-over-period comparison. Percentages are 0 when
// the previous value is 0.
func Compare(current, previous PeriodSummary) PeriodComparison {
	return PeriodComparison{
		PreviousWindow:    previous.Window,
		Appointments:      newMetric(float64(current.AppointmentCount), float64(previous.AppointmentCount), countNoise),
		TotalHours:        newMetric(current.TotalHours(), previous.TotalHours(), totalHoursNoise),
		AverageDailyHours: newMetric(current.AverageDailyHours, previous.AverageDailyHours, dailyHoursNoise),
	}
}

func newMetric(current, previous, noise float64) Metric {
	current, previous = finite(current), finite(previous)
	m := Metric{
		Current:  current,
		Previous: previous,
		Diff:     current - previous,
		Trend:    TrendNeutral,
	}
	if previous != 0 {
		m.Percent = finite(m.Diff / previous * 100)
	}
	switch {
	case m.Diff > noise:
		m.Trend = TrendPositive
	case m.Diff < -noise:
		m.Trend = TrendNegative
	}
	return m
}
