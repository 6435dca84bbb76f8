package analysis

import (
	"context"
	"time"

	"github.com/christopherklint97/sitterload/internal/calendar"
	"github.com/christopherklint97/sitterload/internal/travel"
	"github.com/christopherklint97/sitterload/internal/workload"
)

// TravelSource computes a day's travel. *travel.Estimator satisfies it.
type TravelSource interface {
	DayTravel(ctx context.Context, events []calendar.Event, day time.Time) travel.DayTravel
}

// Options carries the configuration for every analysis call. It is passed by
// value; nothing in this package holds on to it.
type Options struct {
	Thresholds workload.Thresholds

	// IncludeTravel adds travel minutes to the hours compared against
	// thresholds, at every granularity.
	IncludeTravel bool

	// Travel is optional; nil means no travel is computed.
	Travel TravelSource
}

func (o Options) thresholds() workload.Thresholds {
	if o.Thresholds.IsZero() {
		return workload.DefaultThresholds()
	}
	return o.Thresholds
}

// Housesit is an overnight stay touching a day.
type Housesit struct {
	Event     calendar.Event
	IsEndDate bool
}

// DayMetrics is the analysis of a single calendar day.
type DayMetrics struct {
	Date           time.Time
	WorkMinutes    float64
	TravelMinutes  float64
	TotalMinutes   float64 // work + travel
	LoadMinutes    float64 // minutes compared against thresholds
	WorkEventCount int

	Appointments []calendar.Event
	Housesits    []Housesit
	Ignored      []calendar.Event
	Travel       travel.DayTravel

	Level workload.Level
	Label string
	Risk  DayRisk
}

// LoadHours returns LoadMinutes in hours.
func (d DayMetrics) LoadHours() float64 {
	return d.LoadMinutes / 60
}

// BuildDay computes the metrics for the day containing day. The travel value
// is taken as given; pass a zero DayTravel when travel is not computed.
func BuildDay(events []calendar.Event, day time.Time, trav travel.DayTravel, opts Options) DayMetrics {
	m := DayMetrics{
		Date:   calendar.DayStart(day),
		Travel: trav,
	}

	for _, e := range events {
		if !calendar.Touches(e, day) {
			continue
		}
		if e.Ignored {
			m.Ignored = append(m.Ignored, e)
			continue
		}
		switch calendar.ClassifyKind(e) {
		case calendar.KindWork:
			m.WorkMinutes += calendar.MinutesOnDay(e, day)
			m.WorkEventCount++
			m.Appointments = append(m.Appointments, e)
		case calendar.KindOvernight:
			m.Housesits = append(m.Housesits, Housesit{
				Event:     e,
				IsEndDate: calendar.SameDay(m.Date, calendar.LastDay(e)),
			})
		}
	}
	calendar.SortByStart(m.Appointments)

	m.TravelMinutes = trav.TotalMinutes
	m.TotalMinutes = m.WorkMinutes + m.TravelMinutes
	m.LoadMinutes = m.WorkMinutes
	if opts.IncludeTravel {
		m.LoadMinutes += m.TravelMinutes
	}

	daily := opts.thresholds().Daily()
	c := workload.Classify(m.LoadHours(), daily)
	m.Level, m.Label = c.Level, c.Label

	m.Risk = ScoreDay(DayRiskInput{
		TotalHours:    m.LoadHours(),
		Appointments:  m.Appointments,
		TravelMinutes: m.TravelMinutes,
		Thresholds:    daily,
		Level:         m.Level,
	})
	return m
}

// AnalyzeDay computes travel for the day (when a source is configured) and
// builds its metrics.
func AnalyzeDay(ctx context.Context, events []calendar.Event, day time.Time, opts Options) DayMetrics {
	var trav travel.DayTravel
	if opts.Travel != nil {
		trav = opts.Travel.DayTravel(ctx, events, day)
	}
	return BuildDay(events, day, trav, opts)
}
