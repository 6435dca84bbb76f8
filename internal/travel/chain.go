package travel

import (
	"context"
	"strings"
	"time"

	"github.com/christopherklint97/sitterload/internal/calendar"
)

// HomeID marks the home endpoint of a leg.
const HomeID = "home"

// Stop is one endpoint in a day's chain.
type Stop struct {
	ID      string
	Address string
	Arrive  time.Time
	Depart  time.Time
}

// Leg is one origin->destination segment and its outcome. Err records why a
// leg fell back to the estimate; it is informational only.
type Leg struct {
	From     Stop
	To       Stop
	DepartAt time.Time
	Result   LegResult
	Err      error
}

// DayTravel is the travel picture for one day.
type DayTravel struct {
	Day          time.Time
	Legs         []Leg
	TotalMinutes float64
}

// Estimated reports whether any leg used the fallback estimate.
func (d DayTravel) Estimated() bool {
	for _, l := range d.Legs {
		if l.Result.Estimated {
			return true
		}
	}
	return false
}

// Stops returns the day's appointment stops in visiting order: work events
// that are neither ignored nor all-day and start on the day. An appointment
// running past midnight belongs to the day it starts. Events without a usable
// location get an empty address.
func Stops(events []calendar.Event, day time.Time) []Stop {
	var work []calendar.Event
	for _, e := range events {
		if calendar.CountsAsWork(e) && calendar.SameDay(day, e.Start) {
			work = append(work, e)
		}
	}
	calendar.SortByStart(work)

	stops := make([]Stop, len(work))
	for i, e := range work {
		stops[i] = Stop{ID: e.ID, Arrive: e.Start, Depart: e.End}
		if e.HasLocation() {
			stops[i].Address = e.Location
		}
	}
	return stops
}

// PlanLegs builds the sequential leg list home -> s1 -> ... -> sn -> home.
// Pairs missing an address on either side are skipped. The plan does not
// depend on whether a routing service is configured.
func PlanLegs(stops []Stop, home string) []Leg {
	if len(stops) == 0 {
		return nil
	}
	home = strings.TrimSpace(home)
	last := stops[len(stops)-1]

	chain := make([]Stop, 0, len(stops)+2)
	chain = append(chain, Stop{ID: HomeID, Address: home, Depart: stops[0].Arrive})
	chain = append(chain, stops...)
	chain = append(chain, Stop{ID: HomeID, Address: home, Arrive: last.Depart})

	var legs []Leg
	for i := 0; i+1 < len(chain); i++ {
		from, to := chain[i], chain[i+1]
		if from.Address == "" || to.Address == "" {
			continue
		}
		legs = append(legs, Leg{From: from, To: to, DepartAt: from.Depart})
	}
	return legs
}

// DayTravel computes the day's legs one at a time. Each lookup completes
// (and updates the cache) before the next starts; a failed leg falls back and
// the remaining legs still run.
func (est *Estimator) DayTravel(ctx context.Context, events []calendar.Event, day time.Time) DayTravel {
	legs := PlanLegs(Stops(events, day), est.home)

	result := DayTravel{Day: calendar.DayStart(day), Legs: legs}
	for i := range result.Legs {
		leg := &result.Legs[i]
		leg.Result, leg.Err = est.legTime(ctx, leg.From.Address, leg.To.Address, leg.DepartAt)
		result.TotalMinutes += leg.Result.Minutes
	}

	est.logger.Debug("day travel computed",
		"day", result.Day.Format("2006-01-02"),
		"legs", len(result.Legs),
		"minutes", result.TotalMinutes,
		"estimated", result.Estimated())
	return result
}
