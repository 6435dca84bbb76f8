// Package report renders analysis results for the terminal.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/christopherklint97/sitterload/internal/analysis"
	"github.com/christopherklint97/sitterload/internal/calendar"
	"github.com/christopherklint97/sitterload/internal/travel"
	"github.com/christopherklint97/sitterload/internal/workload"
)

const dateFormat = "Mon Jan 2, 2006"

// Hours formats minutes as "3h 05m".
func Hours(minutes float64) string {
	total := int(minutes + 0.5)
	if total <= 0 {
		return "0h 00m"
	}
	return fmt.Sprintf("%dh %02dm", total/60, total%60)
}

func Day(w io.Writer, d analysis.DayMetrics) {
	var b strings.Builder

	b.WriteString(titleStyle.Render(d.Date.Format(dateFormat)))
	b.WriteString("\n")

	fmt.Fprintf(&b, "Level: %s\n", levelStyle(d.Level).Render(d.Label))
	fmt.Fprintf(&b, "Work:   %s (%d appointments)\n", Hours(d.WorkMinutes), d.WorkEventCount)
	travelLine := Hours(d.TravelMinutes)
	if d.Travel.Estimated() {
		travelLine += dimStyle.Render(" (includes estimates)")
	}
	fmt.Fprintf(&b, "Travel: %s\n", travelLine)
	fmt.Fprintf(&b, "Total:  %s\n", highlightStyle.Render(Hours(d.TotalMinutes)))
	fmt.Fprintf(&b, "Risk:   %d/100\n", d.Risk.Score)

	if len(d.Appointments) > 0 {
		b.WriteString("\n")
		for _, e := range d.Appointments {
			fmt.Fprintf(&b, "  %s-%s  %s", e.Start.Format("15:04"), e.End.Format("15:04"), e.Title)
			if e.Type != "" && e.Type != calendar.TypeOther {
				b.WriteString(dimStyle.Render(" [" + string(e.Type) + "]"))
			}
			b.WriteString("\n")
		}
	}
	for _, h := range d.Housesits {
		note := "overnight"
		if h.IsEndDate {
			note = "overnight ends"
		}
		fmt.Fprintf(&b, "  %s  %s\n", dimStyle.Render(note), h.Event.Title)
	}
	for _, e := range d.Ignored {
		fmt.Fprintf(&b, "  %s\n", dimStyle.Render("ignored: "+e.Title+" ("+e.ID+")"))
	}

	if len(d.Travel.Legs) > 0 {
		b.WriteString("\n")
		for _, l := range d.Travel.Legs {
			fmt.Fprintf(&b, "  %s -> %s  %s  %s\n", legName(l.From), legName(l.To), Hours(l.Result.Minutes), dimStyle.Render(l.Result.DistanceText))
		}
	}

	writeRecommendations(&b, d.Risk.Recommendations)

	fmt.Fprintln(w, boxStyle.Render(strings.TrimRight(b.String(), "\n")))
}

func legName(s travel.Stop) string {
	if s.ID == travel.HomeID {
		return "home"
	}
	return s.Address
}

func writeRecommendations(b *strings.Builder, recs []analysis.Recommendation) {
	if len(recs) == 0 {
		return
	}
	b.WriteString("\n")
	for _, r := range recs {
		fmt.Fprintf(b, "%s %s\n", severityStyle(r.Severity).Render(r.Title+":"), r.Message)
	}
}

// Period renders a summary with one row per day.
func Period(w io.Writer, s analysis.PeriodSummary) {
	title := fmt.Sprintf("%s - %s", s.Window.Start.Format(dateFormat), s.Window.End().AddDate(0, 0, -1).Format(dateFormat))
	if s.Window.Days == 1 {
		title = s.Window.Start.Format(dateFormat)
	}
	fmt.Fprintln(w, titleStyle.Render(title))

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Day", "Appts", "Work", "Travel", "Level", "Risk").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(s.Days) && col == 4 {
				return levelStyle(s.Days[row].Level).Padding(0, 1)
			}
			return cellStyle
		})
	for i, d := range s.Days {
		day := d.Date.Format("Mon 01/02")
		if i == s.BusiestDayIndex {
			day += " *"
		}
		t.Row(day, fmt.Sprint(d.WorkEventCount), Hours(d.WorkMinutes), Hours(d.TravelMinutes), d.Label, fmt.Sprint(d.Risk.Score))
	}
	fmt.Fprintln(w, t.Render())

	fmt.Fprintf(w, "Appointments: %d\n", s.AppointmentCount)
	fmt.Fprintf(w, "Work: %s  Travel: %s  Total: %s\n", Hours(s.TotalWorkMinutes), Hours(s.TotalTravelMinutes), highlightStyle.Render(Hours(s.TotalMinutes)))
	fmt.Fprintf(w, "Average per day: %.1fh\n", s.AverageDailyHours)
	if busiest, ok := s.BusiestDay(); ok {
		fmt.Fprintf(w, "Busiest day: %s (%s)\n", busiest.Date.Format(dateFormat), Hours(busiest.WorkMinutes+busiest.TravelMinutes))
	}
	fmt.Fprintf(w, "Longest working streak: %d days\n", s.ConsecutiveWorkingDays)
	if s.HasLevel {
		fmt.Fprintf(w, "Level: %s\n", levelStyle(s.Level).Render(s.Label))
	}
	if s.Risk != nil {
		fmt.Fprintf(w, "Week risk: %d/100\n", s.Risk.Score)
		var b strings.Builder
		writeRecommendations(&b, s.Risk.Recommendations)
		fmt.Fprint(w, b.String())
	}
	if s.Comparison != nil {
		fmt.Fprintln(w)
		Comparison(w, *s.Comparison)
	}
}

func Comparison(w io.Writer, c analysis.PeriodComparison) {
	fmt.Fprintln(w, subtitleStyle.Render("Compared with "+c.PreviousWindow.Start.Format(dateFormat)))
	writeMetric(w, "Appointments", c.Appointments, "%.0f")
	writeMetric(w, "Total hours", c.TotalHours, "%.1f")
	writeMetric(w, "Daily average", c.AverageDailyHours, "%.1f")
}

func writeMetric(w io.Writer, name string, m analysis.Metric, format string) {
	arrow := "="
	switch m.Trend {
	case analysis.TrendPositive:
		arrow = "↑"
	case analysis.TrendNegative:
		arrow = "↓"
	}
	change := fmt.Sprintf("%+"+format[1:], m.Diff)
	if m.Previous != 0 {
		change += fmt.Sprintf(" (%+.0f%%)", m.Percent)
	}
	fmt.Fprintf(w, "  %-14s "+format+" vs "+format+"  %s\n", name, m.Current, m.Previous, trendStyle(m.Trend).Render(arrow+" "+change))
}

// Events lists raw calendar events with their IDs so they can be ignored.
func Events(w io.Writer, events []calendar.Event) {
	if len(events) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No events."))
		return
	}
	for _, e := range events {
		kind := calendar.ClassifyKind(e).String()
		line := fmt.Sprintf("%s-%s  %-10s %s", e.Start.Format("Jan 02 15:04"), e.End.Format("15:04"), kind, e.Title)
		if calendar.IsAllDay(e) {
			line = fmt.Sprintf("%s all day  %-10s %s", e.Start.Format("Jan 02"), kind, e.Title)
		}
		if e.Ignored {
			line = dimStyle.Render(line + " (ignored)")
		}
		fmt.Fprintf(w, "%s  %s\n", line, dimStyle.Render(e.ID))
	}
}

func Thresholds(w io.Writer, t workload.Thresholds) {
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("Period", "Comfortable", "Busy", "High", "Burnout").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, p := range []workload.Period{workload.Daily, workload.Weekly, workload.Monthly} {
		ts := t.For(p)
		tbl.Row(string(p), fmt.Sprintf("%gh", ts.Comfortable), fmt.Sprintf("%gh", ts.Busy), fmt.Sprintf("%gh", ts.High), fmt.Sprintf("%gh", ts.Burnout))
	}
	fmt.Fprintln(w, tbl.Render())
}

// CacheStats summarizes the travel cache as of now.
func CacheStats(w io.Writer, entries []travel.Entry, freshness, expiry time.Duration, now time.Time) {
	fresh, stale := 0, 0
	for _, e := range entries {
		if e.Age(now) < freshness {
			fresh++
		} else {
			stale++
		}
	}
	fmt.Fprintf(w, "Entries: %s (%d fresh, %d stale)\n", humanize.Comma(int64(len(entries))), fresh, stale)
	fmt.Fprintf(w, "Freshness window: %s, expiry: %s\n", freshness, expiry)
	for _, e := range entries {
		age := humanize.RelTime(e.Timestamp, now, "ago", "from now")
		fmt.Fprintf(w, "  %-50s %6.1f min  %s\n", e.Key, e.Route.DurationMinutes, dimStyle.Render(age))
	}
}
