package scheduler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/christopherklint97/sitterload/internal/analysis"
	"github.com/christopherklint97/sitterload/internal/calendar"
	"github.com/christopherklint97/sitterload/internal/workload"
)

// AnalyzeFunc produces the summary for an upcoming window. It fetches its own
// events so each run sees the current calendar.
type AnalyzeFunc func(ctx context.Context, w analysis.Window) (analysis.PeriodSummary, error)

// Sweeper drops expired cache entries.
type Sweeper interface {
	SweepExpired(now time.Time) int
}

type Options struct {
	AlertCron     string
	SweepCron     string
	LookAheadDays int
	MinLevel      workload.Level
	Location      *time.Location
	Now           func() time.Time
	Logger        *slog.Logger
}

// Watcher runs the periodic jobs of `sitterload watch`: sweeping the travel
// cache and warning about overloaded days ahead.
type Watcher struct {
	cron     *cron.Cron
	analyze  AnalyzeFunc
	sweeper  Sweeper
	notifier Notifier
	opts     Options
	logger   *slog.Logger

	// notified remembers the highest level already announced per day.
	notified map[string]workload.Level
}

// New registers the jobs. Either analyze or sweeper may be nil to disable
// the corresponding job.
func New(analyze AnalyzeFunc, sweeper Sweeper, notifier Notifier, opts Options) (*Watcher, error) {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.LookAheadDays <= 0 {
		opts.LookAheadDays = 1
	}
	if notifier == nil {
		notifier = DesktopNotifier{}
	}

	w := &Watcher{
		cron: cron.New(
			cron.WithLocation(opts.Location),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		analyze:  analyze,
		sweeper:  sweeper,
		notifier: notifier,
		opts:     opts,
		logger:   opts.Logger,
		notified: make(map[string]workload.Level),
	}

	if sweeper != nil && opts.SweepCron != "" {
		if _, err := w.cron.AddFunc(opts.SweepCron, func() { w.Sweep() }); err != nil {
			return nil, fmt.Errorf("scheduling cache sweep %q: %w", opts.SweepCron, err)
		}
	}
	if analyze != nil && opts.AlertCron != "" {
		if _, err := w.cron.AddFunc(opts.AlertCron, func() {
			if _, err := w.Check(context.Background()); err != nil {
				w.logger.Warn("workload check failed", "error", err)
			}
		}); err != nil {
			return nil, fmt.Errorf("scheduling workload alerts %q: %w", opts.AlertCron, err)
		}
	}
	return w, nil
}

// Run starts the jobs and blocks until ctx is cancelled, then waits for any
// running job to finish.
func (w *Watcher) Run(ctx context.Context) error {
	w.cron.Start()
	for _, e := range w.cron.Entries() {
		w.logger.Info("scheduled job", "next", e.Next.Format(time.RFC3339))
	}
	<-ctx.Done()
	<-w.cron.Stop().Done()
	return nil
}

// Sweep removes expired travel cache entries.
func (w *Watcher) Sweep() int {
	if w.sweeper == nil {
		return 0
	}
	n := w.sweeper.SweepExpired(w.opts.Now())
	w.logger.Debug("travel cache swept", "removed", n)
	return n
}

// Check analyzes the look-ahead window and notifies about every day at or
// above the minimum level. A day is announced again only if its level rises.
// It returns the number of notifications sent.
func (w *Watcher) Check(ctx context.Context) (int, error) {
	if w.analyze == nil {
		return 0, nil
	}
	start := calendar.DayStart(w.opts.Now().In(w.opts.Location))
	win := analysis.CustomWindow(start, w.opts.LookAheadDays)

	summary, err := w.analyze(ctx, win)
	if err != nil {
		return 0, fmt.Errorf("analyzing upcoming days: %w", err)
	}

	sent := 0
	for _, d := range summary.Days {
		if d.Level < w.opts.MinLevel {
			continue
		}
		key := d.Date.Format("2006-01-02")
		if prev, ok := w.notified[key]; ok && prev >= d.Level {
			continue
		}

		title, msg := alertText(d)
		if err := w.notifier.Notify(title, msg); err != nil {
			w.logger.Warn("sending notification", "day", key, "error", err)
			continue
		}
		w.notified[key] = d.Level
		sent++
		w.logger.Info("workload alert sent", "day", key, "level", d.Level.String())
	}
	return sent, nil
}

func alertText(d analysis.DayMetrics) (string, string) {
	title := fmt.Sprintf("sitterload: %s on %s", d.Label, d.Date.Format("Mon Jan 2"))
	msg := fmt.Sprintf("%.1f hours across %d appointments", d.LoadHours(), d.WorkEventCount)
	if d.TravelMinutes > 0 {
		msg += fmt.Sprintf(", %.0f min driving", d.TravelMinutes)
	}
	if len(d.Risk.Recommendations) > 0 {
		msg += ". " + d.Risk.Recommendations[0].Message
	}
	return title, msg
}
