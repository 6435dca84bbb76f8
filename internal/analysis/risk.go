package analysis

import (
	"fmt"
	"math"

	"github.com/christopherklint97/sitterload/internal/calendar"
	"github.com/christopherklint97/sitterload/internal/workload"
)

// Severity ranks a recommendation.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Recommendation is a qualitative note derived from the scoring inputs.
type Recommendation struct {
	Severity Severity
	Title    string
	Message  string
}

// DayRiskInput holds the signals for a single day's risk score.
type DayRiskInput struct {
	TotalHours    float64
	Appointments  []calendar.Event // work events, sorted by start
	TravelMinutes float64
	Thresholds    workload.ThresholdSet
	Level         workload.Level
}

// RiskFactors breaks a daily score into its contributions.
type RiskFactors struct {
	Hours   float64
	Density float64
	Breaks  float64
	Travel  float64

	AppointmentsPerHour float64
	AvgBreakMinutes     float64
	HasBreaks           bool
	TravelHours         float64
}

// DayRisk is the composite 0-100 score for one day.
type DayRisk struct {
	Score           int
	Factors         RiskFactors
	Recommendations []Recommendation
}

// ScoreDay sums four weighted factors (hours 0-40, density 0-25, breaks
// 0-20, travel 0-15) and caps the result at 100.
func ScoreDay(in DayRiskInput) DayRisk {
	f := RiskFactors{TravelHours: finite(in.TravelMinutes) / 60}
	f.AppointmentsPerHour = appointmentDensity(in.Appointments)
	f.AvgBreakMinutes, f.HasBreaks = averageBreak(in.Appointments)

	f.Hours = hoursFactor(in.TotalHours, in.Thresholds.Burnout, 40)
	f.Density = densityFactor(f.AppointmentsPerHour)
	if f.HasBreaks {
		f.Breaks = breakFactor(f.AvgBreakMinutes)
	}
	f.Travel = travelFactor(f.TravelHours)

	return DayRisk{
		Score:           capScore(f.Hours + f.Density + f.Breaks + f.Travel),
		Factors:         f,
		Recommendations: dayRecommendations(in, f),
	}
}

func hoursFactor(hours, burnout, weight float64) float64 {
	hours = finite(hours)
	if burnout <= 0 || hours <= 0 {
		return 0
	}
	return math.Min(hours/burnout*weight, weight)
}

func densityFactor(perHour float64) float64 {
	switch {
	case perHour > 1.5:
		return 25
	case perHour > 1.0:
		return 15
	case perHour > 0.5:
		return 5
	default:
		return 0
	}
}

func breakFactor(avgMinutes float64) float64 {
	switch {
	case avgMinutes < 15:
		return 20
	case avgMinutes < 30:
		return 15
	case avgMinutes < 60:
		return 10
	default:
		return 5
	}
}

func travelFactor(hours float64) float64 {
	switch {
	case hours > 3:
		return 15
	case hours > 2:
		return 10
	case hours > 1:
		return 5
	default:
		return 0
	}
}

// appointmentDensity is appointments per hour between the first start and the
// last end. Fewer than two appointments have no span and score zero.
func appointmentDensity(appts []calendar.Event) float64 {
	if len(appts) < 2 {
		return 0
	}
	first, last := appts[0].Start, appts[0].End
	for _, a := range appts[1:] {
		if a.Start.Before(first) {
			first = a.Start
		}
		if a.End.After(last) {
			last = a.End
		}
	}
	span := last.Sub(first).Hours()
	if span <= 0 {
		return 0
	}
	return float64(len(appts)) / span
}

// averageBreak is the mean gap between consecutive appointments in minutes.
// Overlapping appointments count as a zero-minute gap.
func averageBreak(appts []calendar.Event) (float64, bool) {
	if len(appts) < 2 {
		return 0, false
	}
	var total float64
	for i := 1; i < len(appts); i++ {
		gap := appts[i].Start.Sub(appts[i-1].End).Minutes()
		if gap > 0 {
			total += gap
		}
	}
	return total / float64(len(appts)-1), true
}

func dayRecommendations(in DayRiskInput, f RiskFactors) []Recommendation {
	var recs []Recommendation
	hours := finite(in.TotalHours)

	switch in.Level {
	case workload.LevelBurnout:
		recs = append(recs, Recommendation{
			Severity: SeverityCritical,
			Title:    "Burnout Risk",
			Message: fmt.Sprintf("%.1f hours scheduled, at or above your burnout threshold of %g hours. Consider moving or declining appointments.",
				hours, in.Thresholds.Burnout),
		})
	case workload.LevelHigh:
		recs = append(recs, Recommendation{
			Severity: SeverityWarning,
			Title:    "Heavy Day",
			Message:  fmt.Sprintf("%.1f hours scheduled; your high-workload threshold is %g hours.", hours, in.Thresholds.High),
		})
	case workload.LevelBusy:
		recs = append(recs, Recommendation{
			Severity: SeverityInfo,
			Title:    "Busy Day",
			Message:  fmt.Sprintf("%.1f hours scheduled. Leave room for delays.", hours),
		})
	}

	if f.HasBreaks && f.AvgBreakMinutes < 15 && len(in.Appointments) > 2 {
		recs = append(recs, Recommendation{
			Severity: SeverityWarning,
			Title:    "Short Breaks",
			Message:  fmt.Sprintf("Average break between appointments is %.0f minutes.", f.AvgBreakMinutes),
		})
	}
	if f.AppointmentsPerHour > 1.5 {
		recs = append(recs, Recommendation{
			Severity: SeverityWarning,
			Title:    "Tightly Packed",
			Message:  fmt.Sprintf("%.1f appointments per hour between the first and last visit.", f.AppointmentsPerHour),
		})
	}
	if f.TravelHours > 2 {
		recs = append(recs, Recommendation{
			Severity: SeverityWarning,
			Title:    "Long Drive Time",
			Message:  fmt.Sprintf("About %.1f hours of driving estimated.", f.TravelHours),
		})
	}
	return recs
}

// WeekRiskInput holds the signals for a week's sustained-load score.
type WeekRiskInput struct {
	TotalHours             float64
	ConsecutiveWorkingDays int
	BurnoutDays            int
	HighOrWorseDays        int
	Thresholds             workload.ThresholdSet
	Level                  workload.Level
}

// WeekFactors breaks a weekly score into its contributions.
type WeekFactors struct {
	Hours       float64
	Consecutive float64
	BurnoutDays float64
	HighDays    float64
}

// WeekRisk is the composite 0-100 score for a week.
type WeekRisk struct {
	Score           int
	Factors         WeekFactors
	Recommendations []Recommendation
}

// ScoreWeek weights sustained load: weekly hours 0-40, consecutive working
// days 0-25, burnout days 0-20, high-or-worse days 0-15.
func ScoreWeek(in WeekRiskInput) WeekRisk {
	f := WeekFactors{Hours: hoursFactor(in.TotalHours, in.Thresholds.Burnout, 40)}

	switch {
	case in.ConsecutiveWorkingDays >= 7:
		f.Consecutive = 25
	case in.ConsecutiveWorkingDays >= 6:
		f.Consecutive = 20
	case in.ConsecutiveWorkingDays >= 5:
		f.Consecutive = 10
	}

	switch {
	case in.BurnoutDays >= 3:
		f.BurnoutDays = 20
	case in.BurnoutDays == 2:
		f.BurnoutDays = 15
	case in.BurnoutDays == 1:
		f.BurnoutDays = 10
	}

	switch {
	case in.HighOrWorseDays >= 5:
		f.HighDays = 15
	case in.HighOrWorseDays >= 3:
		f.HighDays = 10
	case in.HighOrWorseDays >= 1:
		f.HighDays = 5
	}

	return WeekRisk{
		Score:           capScore(f.Hours + f.Consecutive + f.BurnoutDays + f.HighDays),
		Factors:         f,
		Recommendations: weekRecommendations(in),
	}
}

func weekRecommendations(in WeekRiskInput) []Recommendation {
	var recs []Recommendation
	hours := finite(in.TotalHours)

	switch in.Level {
	case workload.LevelBurnout:
		recs = append(recs, Recommendation{
			Severity: SeverityCritical,
			Title:    "Burnout Risk",
			Message:  fmt.Sprintf("%.1f hours this week, at or above your weekly burnout threshold of %g hours.", hours, in.Thresholds.Burnout),
		})
	case workload.LevelHigh:
		recs = append(recs, Recommendation{
			Severity: SeverityWarning,
			Title:    "Heavy Week",
			Message:  fmt.Sprintf("%.1f hours this week; your weekly high threshold is %g hours.", hours, in.Thresholds.High),
		})
	}
	if in.ConsecutiveWorkingDays >= 7 {
		recs = append(recs, Recommendation{
			Severity: SeverityCritical,
			Title:    "No Days Off",
			Message:  fmt.Sprintf("%d working days in a row. Block out a rest day.", in.ConsecutiveWorkingDays),
		})
	}
	if in.BurnoutDays >= 2 {
		recs = append(recs, Recommendation{
			Severity: SeverityCritical,
			Title:    "Repeated Burnout Days",
			Message:  fmt.Sprintf("%d days this week reach the daily burnout threshold.", in.BurnoutDays),
		})
	}
	return recs
}

func capScore(total float64) int {
	total = math.Round(finite(total))
	switch {
	case total < 0:
		return 0
	case total > 100:
		return 100
	}
	return int(total)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
