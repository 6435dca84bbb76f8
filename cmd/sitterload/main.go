package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/christopherklint97/sitterload/internal/analysis"
	"github.com/christopherklint97/sitterload/internal/calendar"
	"github.com/christopherklint97/sitterload/internal/config"
	"github.com/christopherklint97/sitterload/internal/report"
	"github.com/christopherklint97/sitterload/internal/routing"
	"github.com/christopherklint97/sitterload/internal/scheduler"
	"github.com/christopherklint97/sitterload/internal/store"
	"github.com/christopherklint97/sitterload/internal/travel"
	"github.com/christopherklint97/sitterload/internal/workload"
)

var rootCmd = &cobra.Command{
	Use:          "sitterload",
	Short:        "Workload and burnout analysis for pet sitters",
	Long:         "sitterload reads your booking calendar, estimates driving between appointments and classifies each day, week and month against your workload thresholds.",
	SilenceUsage: true,
}

var dayCmd = &cobra.Command{
	Use:   "day [date]",
	Short: "Analyze a single day",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDay,
}

var weekCmd = &cobra.Command{
	Use:   "week [date]",
	Short: "Analyze the week containing a date",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPeriod(analysis.GranularityWeek),
}

var monthCmd = &cobra.Command{
	Use:   "month [date]",
	Short: "Analyze the month containing a date",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPeriod(analysis.GranularityMonth),
}

var quarterCmd = &cobra.Command{
	Use:   "quarter [date]",
	Short: "Analyze the quarter containing a date",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPeriod(analysis.GranularityQuarter),
}

var yearCmd = &cobra.Command{
	Use:   "year [date]",
	Short: "Analyze the year containing a date",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPeriod(analysis.GranularityYear),
}

var periodCmd = &cobra.Command{
	Use:   "period",
	Short: "Analyze a custom run of days",
	Args:  cobra.NoArgs,
	RunE:  runCustomPeriod,
}

var eventsCmd = &cobra.Command{
	Use:   "events [date]",
	Short: "List calendar events with their IDs",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runEvents,
}

var ignoreCmd = &cobra.Command{
	Use:   "ignore <event-id>",
	Short: "Exclude an event from workload totals",
	Args:  cobra.ExactArgs(1),
	RunE:  runIgnore,
}

var unignoreCmd = &cobra.Command{
	Use:   "unignore <event-id>",
	Short: "Count a previously ignored event again",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnignore,
}

var thresholdsCmd = &cobra.Command{
	Use:   "thresholds",
	Short: "Show or change workload thresholds",
}

var thresholdsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the configured thresholds",
	Args:  cobra.NoArgs,
	RunE:  runThresholdsShow,
}

var thresholdsSetCmd = &cobra.Command{
	Use:   "set <daily|weekly|monthly> <comfortable> <busy> <high> <burnout>",
	Short: "Replace the thresholds for one period",
	Args:  cobra.ExactArgs(5),
	RunE:  runThresholdsSet,
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or maintain the travel time cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cached routes and their ages",
	Args:  cobra.NoArgs,
	RunE:  runCacheStats,
}

var cacheSweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove expired cache entries",
	Args:  cobra.NoArgs,
	RunE:  runCacheSweep,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cache entry",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run scheduled cache sweeps and overload alerts",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Open config file in your editor",
	RunE:  runConfig,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/sitterload/config.toml)")

	for _, c := range []*cobra.Command{weekCmd, monthCmd, quarterCmd, yearCmd, periodCmd} {
		c.Flags().Bool("compare", false, "Compare with the previous period")
	}
	periodCmd.Flags().String("from", "", "First day (YYYY-MM-DD or natural language)")
	periodCmd.Flags().Int("days", 7, "Number of days")
	eventsCmd.Flags().Int("days", 1, "Number of days to list")

	thresholdsCmd.AddCommand(thresholdsShowCmd)
	thresholdsCmd.AddCommand(thresholdsSetCmd)
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheSweepCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(monthCmd)
	rootCmd.AddCommand(quarterCmd)
	rootCmd.AddCommand(yearCmd)
	rootCmd.AddCommand(periodCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(ignoreCmd)
	rootCmd.AddCommand(unignoreCmd)
	rootCmd.AddCommand(thresholdsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds everything a command needs, built from the config file.
type app struct {
	cfg        *config.Config
	db         *store.DB
	loc        *time.Location
	weekStart  time.Weekday
	thresholds workload.Thresholds
	cache      *travel.Cache
	estimator  *travel.Estimator
	logger     *slog.Logger
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func configPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p, nil
	}
	return config.ConfigPath()
}

func openApp(cmd *cobra.Command) (*app, error) {
	logger := newLogger(cmd)

	path, err := configPath(cmd)
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	thresholds, err := cfg.Workload()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	weekStart, err := cfg.WeekStart()
	if err != nil {
		return nil, err
	}

	db, err := store.Open()
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	backend, err := cacheBackend(cfg, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	cache := travel.NewCache(backend, cfg.Travel.Expiry(), logger)

	var router travel.Router
	if cfg.Routing.APIKey != "" {
		router = routing.NewClient(cfg.Routing.APIKey, cfg.Routing.BaseURL, cfg.Routing.Timeout(), logger)
	} else {
		logger.Debug("no routing API key configured, travel uses the fallback estimate")
	}

	est := travel.NewEstimator(router, cache, travel.Options{
		Home:            cfg.Travel.HomeAddress,
		Freshness:       cfg.Travel.Freshness(),
		FallbackMinutes: cfg.Travel.FallbackMinutes,
		Logger:          logger,
	})

	return &app{
		cfg:        cfg,
		db:         db,
		loc:        loc,
		weekStart:  weekStart,
		thresholds: thresholds,
		cache:      cache,
		estimator:  est,
		logger:     logger,
	}, nil
}

func cacheBackend(cfg *config.Config, db *store.DB) (travel.Backend, error) {
	switch cfg.Travel.CacheBackend {
	case "", "sqlite":
		return store.StateBackend{DB: db, Key: store.TravelCacheKey}, nil
	case "file":
		path, err := store.DefaultCacheFile()
		if err != nil {
			return nil, err
		}
		return store.FileBackend{Path: path}, nil
	}
	return nil, fmt.Errorf("unknown travel.cache_backend %q (want sqlite or file)", cfg.Travel.CacheBackend)
}

func (a *app) Close() {
	a.db.Close()
}

func (a *app) options() analysis.Options {
	return analysis.Options{
		Thresholds:    a.thresholds,
		IncludeTravel: a.cfg.Travel.IncludeInThresholds,
		Travel:        a.estimator,
	}
}

// events fetches the calendar for [start, end) and marks ignored events.
func (a *app) events(ctx context.Context, start, end time.Time) ([]calendar.Event, error) {
	if a.cfg.Calendar.Source == "" {
		return nil, fmt.Errorf("calendar source not configured; run 'sitterload config' to set it up")
	}
	events, err := calendar.Fetch(ctx, a.cfg.Calendar.Source, start, end, a.loc)
	if err != nil {
		return nil, err
	}
	ignored, err := a.db.IgnoredIDs()
	if err != nil {
		return nil, err
	}
	a.logger.Debug("calendar fetched", "events", len(events), "ignored", len(ignored))
	return calendar.ApplyIgnored(events, ignored), nil
}

func (a *app) dayArg(args []string) (time.Time, error) {
	s := ""
	if len(args) > 0 {
		s = args[0]
	}
	return parseDay(s, time.Now(), a.loc)
}

func (a *app) window(g analysis.Granularity, day time.Time) analysis.Window {
	switch g {
	case analysis.GranularityWeek:
		return analysis.WeekWindow(day, a.weekStart)
	case analysis.GranularityMonth:
		return analysis.MonthWindow(day)
	case analysis.GranularityQuarter:
		return analysis.QuarterWindow(day)
	case analysis.GranularityYear:
		return analysis.YearWindow(day)
	}
	return analysis.DayWindow(day)
}

func (a *app) summarize(ctx context.Context, w analysis.Window, compare bool) (analysis.PeriodSummary, error) {
	start := w.Start
	if compare {
		start = w.Previous().Start
	}
	events, err := a.events(ctx, start, w.End())
	if err != nil {
		return analysis.PeriodSummary{}, err
	}
	if compare {
		return analysis.AggregateWithComparison(ctx, events, w, a.options()), nil
	}
	return analysis.Aggregate(ctx, events, w, a.options()), nil
}

func runDay(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	day, err := a.dayArg(args)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	events, err := a.events(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return err
	}
	report.Day(cmd.OutOrStdout(), analysis.AnalyzeDay(ctx, events, day, a.options()))
	return nil
}

func runPeriod(g analysis.Granularity) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		compare, _ := cmd.Flags().GetBool("compare")

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		day, err := a.dayArg(args)
		if err != nil {
			return err
		}
		s, err := a.summarize(cmd.Context(), a.window(g, day), compare)
		if err != nil {
			return err
		}
		report.Period(cmd.OutOrStdout(), s)
		return nil
	}
}

func runCustomPeriod(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("from")
	days, _ := cmd.Flags().GetInt("days")
	compare, _ := cmd.Flags().GetBool("compare")
	if days < 1 {
		return fmt.Errorf("--days must be at least 1")
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	start, err := parseDay(from, time.Now(), a.loc)
	if err != nil {
		return err
	}
	s, err := a.summarize(cmd.Context(), analysis.CustomWindow(start, days), compare)
	if err != nil {
		return err
	}
	report.Period(cmd.OutOrStdout(), s)
	return nil
}

func runEvents(cmd *cobra.Command, args []string) error {
	days, _ := cmd.Flags().GetInt("days")
	if days < 1 {
		days = 1
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	day, err := a.dayArg(args)
	if err != nil {
		return err
	}
	events, err := a.events(cmd.Context(), day, day.AddDate(0, 0, days))
	if err != nil {
		return err
	}
	report.Events(cmd.OutOrStdout(), events)
	return nil
}

func runIgnore(cmd *cobra.Command, args []string) error {
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := db.IgnoreEvent(args[0], ""); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Ignoring %s\n", args[0])
	return nil
}

func runUnignore(cmd *cobra.Command, args []string) error {
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	removed, err := db.UnignoreEvent(args[0])
	if err != nil {
		return err
	}
	if !removed {
		fmt.Fprintf(cmd.OutOrStdout(), "%s was not ignored\n", args[0])
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Counting %s again\n", args[0])
	return nil
}

func runThresholdsShow(cmd *cobra.Command, args []string) error {
	path, err := configPath(cmd)
	if err != nil {
		return err
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	t, err := cfg.Workload()
	if err != nil {
		return err
	}
	report.Thresholds(cmd.OutOrStdout(), t)
	return nil
}

func runThresholdsSet(cmd *cobra.Command, args []string) error {
	p, err := workload.ParsePeriod(args[0])
	if err != nil {
		return err
	}
	var values [4]float64
	for i, s := range args[1:] {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("parsing %q: %w", s, err)
		}
		values[i] = v
	}
	set, err := workload.NewThresholdSet(p, values[0], values[1], values[2], values[3])
	if err != nil {
		return err
	}

	path, err := configPath(cmd)
	if err != nil {
		return err
	}
	if err := config.SaveThresholds(path, p, set); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s thresholds to %s\n", p, path)
	return nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	report.CacheStats(cmd.OutOrStdout(), a.cache.Entries(), a.cfg.Travel.Freshness(), a.cfg.Travel.Expiry(), time.Now())
	return nil
}

func runCacheSweep(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	n := a.cache.SweepExpired(time.Now())
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired entries\n", n)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	n := a.cache.Len()
	a.cache.Clear()
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries\n", n)
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	minLevel, err := a.cfg.MinAlertLevel()
	if err != nil {
		return err
	}

	var analyze scheduler.AnalyzeFunc
	if a.cfg.Alerts.Enabled {
		analyze = func(ctx context.Context, w analysis.Window) (analysis.PeriodSummary, error) {
			return a.summarize(ctx, w, false)
		}
	}

	// Watch logs at info level even without --verbose.
	logger := a.logger
	if v, _ := cmd.Flags().GetBool("verbose"); !v {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}

	w, err := scheduler.New(analyze, a.cache, scheduler.DesktopNotifier{}, scheduler.Options{
		AlertCron:     a.cfg.Alerts.Cron,
		SweepCron:     a.cfg.Alerts.SweepCron,
		LookAheadDays: a.cfg.Alerts.LookAheadDays,
		MinLevel:      minLevel,
		Location:      a.loc,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fmt.Fprintln(cmd.OutOrStdout(), "Watching calendar workload (Ctrl-C to stop)")
	return w.Run(ctx)
}

const defaultConfigTemplate = `[calendar]
source = "%s"
timezone = "%s"

[thresholds.daily]
comfortable = %g
busy = %g
high = %g
burnout = %g

[thresholds.weekly]
comfortable = %g
busy = %g
high = %g
burnout = %g

[thresholds.monthly]
comfortable = %g
busy = %g
high = %g
burnout = %g

[travel]
home_address = "%s"
include_in_thresholds = %t
fallback_minutes = %g
freshness_minutes = %d
expiry_hours = %d
cache_backend = "%s"

[routing]
api_key = ""
base_url = ""
timeout_seconds = %d

[alerts]
enabled = %t
cron = "%s"
sweep_cron = "%s"
look_ahead_days = %d
min_level = "%s"

[schedule]
week_start = "%s"
`

func runConfig(cmd *cobra.Command, args []string) error {
	path, err := configPath(cmd)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := config.EnsureConfigDir(path); err != nil {
			return err
		}
		if err := writeDefaultConfig(path); err != nil {
			return err
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Opening %s with %s...\n", path, editor)

	proc := os.ProcAttr{
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
	}
	process, err := os.StartProcess(editor, []string{editor, path}, &proc)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Could not open editor. Config file is at: %s\n", path)
		return nil
	}
	_, err = process.Wait()
	return err
}

func writeDefaultConfig(path string) error {
	cfg := config.DefaultConfig()
	th := cfg.Thresholds
	data := fmt.Sprintf(defaultConfigTemplate,
		cfg.Calendar.Source, cfg.Calendar.Timezone,
		th.Daily.Comfortable, th.Daily.Busy, th.Daily.High, th.Daily.Burnout,
		th.Weekly.Comfortable, th.Weekly.Busy, th.Weekly.High, th.Weekly.Burnout,
		th.Monthly.Comfortable, th.Monthly.Busy, th.Monthly.High, th.Monthly.Burnout,
		cfg.Travel.HomeAddress, cfg.Travel.IncludeInThresholds, cfg.Travel.FallbackMinutes,
		cfg.Travel.FreshnessMinutes, cfg.Travel.ExpiryHours, cfg.Travel.CacheBackend,
		cfg.Routing.TimeoutSeconds,
		cfg.Alerts.Enabled, cfg.Alerts.Cron, cfg.Alerts.SweepCron, cfg.Alerts.LookAheadDays, cfg.Alerts.MinLevel,
		cfg.Schedule.WeekStart,
	)
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
