package analysis

import (
	"context"

	"github.com/christopherklint97/sitterload/internal/calendar"
	"github.com/christopherklint97/sitterload/internal/workload"
)

// PeriodSummary rolls a window of DayMetrics up into totals.
type PeriodSummary struct {
	Window Window
	Days   []DayMetrics

	TotalWorkMinutes   float64
	TotalTravelMinutes float64
	TotalMinutes       float64
	LoadMinutes        float64
	AppointmentCount   int
	AverageDailyHours  float64

	// BusiestDayIndex points into Days. When every day is empty it is 0;
	// it is -1 only when Days is empty.
	BusiestDayIndex        int
	ConsecutiveWorkingDays int

	// HasLevel is false for granularities without a threshold set
	// (quarter, year, custom).
	HasLevel bool
	Level    workload.Level
	Label    string

	// Risk is set for week windows only.
	Risk *WeekRisk

	Comparison *PeriodComparison
}

// TotalHours returns the threshold-relevant hours of the period.
func (s PeriodSummary) TotalHours() float64 {
	return s.LoadMinutes / 60
}

// BusiestDay returns the day with the most work plus travel.
func (s PeriodSummary) BusiestDay() (DayMetrics, bool) {
	if s.BusiestDayIndex < 0 || s.BusiestDayIndex >= len(s.Days) {
		return DayMetrics{}, false
	}
	return s.Days[s.BusiestDayIndex], true
}

// Aggregate analyzes every day of the window in order. Travel, when
// configured, is computed day by day.
func Aggregate(ctx context.Context, events []calendar.Event, w Window, opts Options) PeriodSummary {
	days := make([]DayMetrics, 0, max(w.Days, 0))
	for _, d := range w.Dates() {
		days = append(days, AnalyzeDay(ctx, events, d, opts))
	}
	return Summarize(w, days, opts)
}

// Summarize combines already computed days. It is the pure half of Aggregate.
func Summarize(w Window, days []DayMetrics, opts Options) PeriodSummary {
	s := PeriodSummary{
		Window:          w,
		Days:            days,
		BusiestDayIndex: -1,
	}

	seen := make(map[string]bool)
	busiest := -1.0
	run := 0
	for i, d := range days {
		s.TotalWorkMinutes += d.WorkMinutes
		s.TotalTravelMinutes += d.TravelMinutes
		s.TotalMinutes += d.TotalMinutes
		s.LoadMinutes += d.LoadMinutes

		for _, a := range d.Appointments {
			seen[appointmentKey(a)] = true
		}

		if load := d.WorkMinutes + d.TravelMinutes; load > busiest {
			busiest = load
			s.BusiestDayIndex = i
		}

		if d.WorkEventCount > 0 {
			run++
			s.ConsecutiveWorkingDays = max(s.ConsecutiveWorkingDays, run)
		} else {
			run = 0
		}
	}
	s.AppointmentCount = len(seen)
	if len(days) > 0 {
		s.AverageDailyHours = s.TotalHours() / float64(len(days))
	}

	thresholds := opts.thresholds()
	switch w.Granularity {
	case GranularityDay:
		s.setLevel(thresholds.Daily())
	case GranularityWeek:
		s.setLevel(thresholds.Weekly())
		risk := s.weekRisk(thresholds.Weekly())
		s.Risk = &risk
	case GranularityMonth:
		s.setLevel(thresholds.Monthly())
	}
	return s
}

func (s *PeriodSummary) setLevel(ts workload.ThresholdSet) {
	c := workload.Classify(s.TotalHours(), ts)
	s.HasLevel = true
	s.Level, s.Label = c.Level, c.Label
}

func (s PeriodSummary) weekRisk(ts workload.ThresholdSet) WeekRisk {
	in := WeekRiskInput{
		TotalHours:             s.TotalHours(),
		ConsecutiveWorkingDays: s.ConsecutiveWorkingDays,
		Thresholds:             ts,
		Level:                  s.Level,
	}
	for _, d := range s.Days {
		if d.Level >= workload.LevelHigh {
			in.HighOrWorseDays++
		}
		if d.Level == workload.LevelBurnout {
			in.BurnoutDays++
		}
	}
	return ScoreWeek(in)
}

// appointmentKey identifies an appointment across days so multi-day events
// are counted once.
func appointmentKey(e calendar.Event) string {
	if e.ID != "" {
		return e.ID
	}
	return e.Title + "|" + e.Start.String()
}

// AggregateWithComparison aggregates w and the preceding window from the same
// events and attaches the comparison.
func AggregateWithComparison(ctx context.Context, events []calendar.Event, w Window, opts Options) PeriodSummary {
	current := Aggregate(ctx, events, w, opts)
	previous := Aggregate(ctx, events, w.Previous(), opts)
	cmp := Compare(current, previous)
	current.Comparison = &cmp
	return current
}
