package travel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"
)

const (
	DefaultFreshness       = time.Hour
	DefaultExpiry          = 7 * 24 * time.Hour
	DefaultFallbackMinutes = 15.0
)

// ErrNoRouter is recorded on legs estimated because no router is configured.
var ErrNoRouter = errors.New("no routing service configured")

// Route is what the routing service reports for one origin/destination pair.
type Route struct {
	DurationMinutes float64 `json:"duration"`
	DistanceMiles   float64 `json:"distance"`
}

// Router looks up driving time between two addresses.
type Router interface {
	DriveTime(ctx context.Context, origin, destination string, departAt time.Time) (Route, error)
}

// LegResult is the outcome of one lookup. Estimated is true when the value
// is the fixed fallback rather than a measured route.
type LegResult struct {
	Minutes      float64
	DistanceText string
	Estimated    bool
}

// Options configures an Estimator.
type Options struct {
	Home            string
	Freshness       time.Duration
	FallbackMinutes float64
	Now             func() time.Time
	Logger          *slog.Logger
}

// Estimator computes per-leg and per-day travel time.
type Estimator struct {
	router    Router
	cache     Repository
	home      string
	freshness time.Duration
	fallback  float64
	now       func() time.Time
	logger    *slog.Logger
}

// NewEstimator builds an estimator. A nil router puts every lookup on the
// fallback path; a nil cache disables caching.
func NewEstimator(router Router, cache Repository, opts Options) *Estimator {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Freshness <= 0 {
		opts.Freshness = DefaultFreshness
	}
	if opts.FallbackMinutes <= 0 {
		opts.FallbackMinutes = DefaultFallbackMinutes
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Estimator{
		router:    router,
		cache:     cache,
		home:      opts.Home,
		freshness: opts.Freshness,
		fallback:  opts.FallbackMinutes,
		now:       opts.Now,
		logger:    opts.Logger,
	}
}

// Fallback returns the fixed estimate used when routing is unavailable.
func (est *Estimator) Fallback() LegResult {
	return LegResult{
		Minutes:      est.fallback,
		DistanceText: "unknown",
		Estimated:    true,
	}
}

// LegTime returns the driving time between origin and destination. It never
// fails: lookup problems yield the fallback estimate.
func (est *Estimator) LegTime(ctx context.Context, origin, destination string, departAt time.Time) LegResult {
	res, _ := est.legTime(ctx, origin, destination, departAt)
	return res
}

func (est *Estimator) legTime(ctx context.Context, origin, destination string, departAt time.Time) (LegResult, error) {
	if est.router == nil {
		return est.Fallback(), ErrNoRouter
	}

	key := CacheKey(origin, destination)
	now := est.now()
	if est.cache != nil {
		if e, ok := est.cache.Get(key); ok && e.Age(now) < est.freshness {
			est.logger.Debug("travel cache hit", "key", key, "age", e.Age(now))
			return measured(e.Route), nil
		}
	}

	route, err := est.router.DriveTime(ctx, origin, destination, departAt)
	if err == nil {
		err = validateRoute(route)
	}
	if err != nil {
		est.logger.Warn("route lookup failed, using fallback estimate",
			"origin", origin, "destination", destination, "error", err)
		return est.Fallback(), err
	}

	if est.cache != nil {
		est.cache.Put(key, Entry{Key: key, Route: route, Timestamp: now})
	}
	return measured(route), nil
}

func measured(r Route) LegResult {
	return LegResult{
		Minutes:      r.DurationMinutes,
		DistanceText: fmt.Sprintf("%.1f mi", r.DistanceMiles),
	}
}

func validateRoute(r Route) error {
	if math.IsNaN(r.DurationMinutes) || math.IsInf(r.DurationMinutes, 0) || r.DurationMinutes < 0 {
		return fmt.Errorf("malformed route duration %v", r.DurationMinutes)
	}
	if math.IsNaN(r.DistanceMiles) || math.IsInf(r.DistanceMiles, 0) || r.DistanceMiles < 0 {
		return fmt.Errorf("malformed route distance %v", r.DistanceMiles)
	}
	return nil
}
