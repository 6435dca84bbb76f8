package analysis

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/christopherklint97/sitterload/internal/calendar"
	"github.com/christopherklint97/sitterload/internal/travel"
	"github.com/christopherklint97/sitterload/internal/workload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekEvents() []calendar.Event {
	return []calendar.Event{
		// Mon-Wed working, Thu off, Fri-Sat working, Sun off.
		work("mon", at(10, 9, 0), 60),
		work("tue-1", at(11, 9, 0), 60),
		work("tue-2", at(11, 13, 0), 120),
		work("wed", at(12, 9, 0), 30),
		work("fri", at(14, 9, 0), 90),
		work("sat", at(15, 9, 0), 45),
		{ID: "stay", Title: "Overnight - Bella", Start: at(13, 18, 0), End: at(14, 9, 0)},
	}
}

func TestAggregate_Week(t *testing.T) {
	w := WeekWindow(at(12, 12, 0), time.Monday)
	s := Aggregate(context.Background(), weekEvents(), w, testOptions())

	require.Len(t, s.Days, 7)
	assert.Equal(t, 405.0, s.TotalWorkMinutes)
	assert.Equal(t, 6, s.AppointmentCount)
	assert.Equal(t, 3, s.ConsecutiveWorkingDays)

	busiest, ok := s.BusiestDay()
	require.True(t, ok)
	assert.Equal(t, at(11, 0, 0), busiest.Date)

	assert.True(t, s.HasLevel)
	assert.Equal(t, workload.LevelComfortable, s.Level)
	require.NotNil(t, s.Risk)
	assert.InDelta(t, 6.75/7, s.AverageDailyHours, 1e-9)

	thursday := s.Days[3]
	assert.Equal(t, 0, thursday.WorkEventCount)
	require.Len(t, thursday.Housesits, 1)
	assert.False(t, thursday.Housesits[0].IsEndDate)
	assert.True(t, s.Days[4].Housesits[0].IsEndDate)
}

func TestAggregate_BusiestDayTieGoesToFirst(t *testing.T) {
	events := []calendar.Event{work("a", at(10, 9, 0), 60), work("b", at(12, 9, 0), 60)}
	s := Aggregate(context.Background(), events, CustomWindow(at(10, 0, 0), 3), testOptions())
	assert.Equal(t, 0, s.BusiestDayIndex)
	assert.False(t, s.HasLevel)
	assert.Nil(t, s.Risk)
}

func TestAggregate_BusiestDayCountsTravel(t *testing.T) {
	est := travel.NewEstimator(nil, nil, travel.Options{Home: "home"})
	events := []calendar.Event{
		work("a", at(10, 9, 0), 60),
		withLocation(work("b", at(11, 9, 0), 30), "b st"),
		withLocation(work("c", at(11, 11, 0), 30), "c st"),
	}
	opts := testOptions()
	opts.Travel = est

	s := Aggregate(context.Background(), events, CustomWindow(at(10, 0, 0), 2), opts)
	assert.Equal(t, 1, s.BusiestDayIndex, "60 work + 45 travel beats 60 work")
	assert.Equal(t, 45.0, s.TotalTravelMinutes)
}

func TestAggregate_Idempotent(t *testing.T) {
	w := MonthWindow(at(12, 0, 0))
	first := AggregateWithComparison(context.Background(), weekEvents(), w, testOptions())
	second := AggregateWithComparison(context.Background(), weekEvents(), w, testOptions())

	assert.Equal(t, first, second)
	assert.LessOrEqual(t, first.ConsecutiveWorkingDays, len(first.Days))
}

func TestAggregate_EmptyInputs(t *testing.T) {
	s := AggregateWithComparison(context.Background(), nil, WeekWindow(at(12, 0, 0), time.Monday), testOptions())

	assert.Equal(t, 0.0, s.TotalMinutes)
	assert.Equal(t, 0, s.AppointmentCount)
	assert.Equal(t, 0, s.BusiestDayIndex)
	busiest, ok := s.BusiestDay()
	require.True(t, ok)
	assert.Equal(t, s.Days[0].Date, busiest.Date)
	assert.Equal(t, 0, s.ConsecutiveWorkingDays)
	assert.Equal(t, workload.LevelComfortable, s.Level)
	assert.Equal(t, 0, s.Risk.Score)
	assert.Empty(t, s.Risk.Recommendations)

	require.NotNil(t, s.Comparison)
	for _, m := range []Metric{s.Comparison.Appointments, s.Comparison.TotalHours, s.Comparison.AverageDailyHours} {
		assert.False(t, math.IsNaN(m.Percent))
		assert.Equal(t, 0.0, m.Percent)
		assert.Equal(t, TrendNeutral, m.Trend)
	}
}

func TestAggregate_ZeroLengthPeriod(t *testing.T) {
	s := Aggregate(context.Background(), weekEvents(), CustomWindow(at(10, 0, 0), 0), testOptions())
	assert.Empty(t, s.Days)
	assert.Equal(t, 0.0, s.AverageDailyHours)
	assert.Equal(t, -1, s.BusiestDayIndex)
	_, ok := s.BusiestDay()
	assert.False(t, ok)
}

func TestAggregate_MultiDayAppointmentCountedOnce(t *testing.T) {
	late := calendar.Event{ID: "late", Title: "Late walk", Type: calendar.TypeWalk, Start: at(10, 23, 0), End: at(11, 1, 0)}
	s := Aggregate(context.Background(), []calendar.Event{late}, CustomWindow(at(10, 0, 0), 2), testOptions())
	assert.Equal(t, 1, s.AppointmentCount)
	assert.Equal(t, 2, s.ConsecutiveWorkingDays)
	assert.Equal(t, 120.0, s.TotalWorkMinutes)
}

func TestAggregate_WeeklyRiskCountsHeavyDays(t *testing.T) {
	var events []calendar.Event
	for d := 10; d <= 16; d++ {
		events = append(events, work("day", at(d, 6, 0), 12*60))
		events[len(events)-1].ID = at(d, 0, 0).Format("2006-01-02")
	}
	s := Aggregate(context.Background(), events, WeekWindow(at(10, 0, 0), time.Monday), testOptions())

	require.NotNil(t, s.Risk)
	assert.Equal(t, 7, s.ConsecutiveWorkingDays)
	assert.Equal(t, workload.LevelBurnout, s.Level, "84 hours exceeds the weekly burnout threshold")
	assert.Equal(t, 100, s.Risk.Score)
}

func TestCompare_Trends(t *testing.T) {
	cur := PeriodSummary{AppointmentCount: 10, LoadMinutes: 20 * 60, AverageDailyHours: 20.0 / 7}
	prev := PeriodSummary{AppointmentCount: 8, LoadMinutes: 19.5 * 60, AverageDailyHours: 19.5 / 7}

	cmp := Compare(cur, prev)

	assert.Equal(t, 2.0, cmp.Appointments.Diff)
	assert.Equal(t, 25.0, cmp.Appointments.Percent)
	assert.Equal(t, TrendPositive, cmp.Appointments.Trend)

	assert.Equal(t, 0.5, cmp.TotalHours.Diff)
	assert.Equal(t, TrendNeutral, cmp.TotalHours.Trend, "half an hour is within the 1h noise band")

	assert.Equal(t, TrendNeutral, cmp.AverageDailyHours.Trend)

	down := Compare(prev, PeriodSummary{AppointmentCount: 12, LoadMinutes: 25 * 60, AverageDailyHours: 25.0 / 7})
	assert.Equal(t, TrendNegative, down.Appointments.Trend)
	assert.Equal(t, TrendNegative, down.TotalHours.Trend)
	assert.Equal(t, TrendNegative, down.AverageDailyHours.Trend)
}
