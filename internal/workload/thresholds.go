package workload

import (
	"errors"
	"fmt"
	"math"
)

// Period is the granularity a ThresholdSet applies to.
type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

// MaxHours returns the largest meaningful cutoff for the period.
func (p Period) MaxHours() float64 {
	switch p {
	case Daily:
		return 24
	case Weekly:
		return 7 * 24
	case Monthly:
		return 31 * 24
	default:
		return 0
	}
}

// ParsePeriod accepts "daily", "weekly" or "monthly".
func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case Daily, Weekly, Monthly:
		return p, nil
	}
	return "", fmt.Errorf("unknown period %q (want daily, weekly or monthly)", s)
}

// ErrInvalidThresholds is wrapped by every ConfigError.
var ErrInvalidThresholds = errors.New("invalid thresholds")

// ConfigError describes a rejected threshold configuration.
type ConfigError struct {
	Period Period
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s thresholds: %s", e.Period, e.Reason)
	}
	return fmt.Sprintf("%s thresholds: %s %s", e.Period, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidThresholds }

// ThresholdSet holds four strictly increasing cutoffs in hours.
type ThresholdSet struct {
	Comfortable float64 `toml:"comfortable" json:"comfortable"`
	Busy        float64 `toml:"busy" json:"busy"`
	High        float64 `toml:"high" json:"high"`
	Burnout     float64 `toml:"burnout" json:"burnout"`
}

// NewThresholdSet builds and validates a set for the given period.
func NewThresholdSet(p Period, comfortable, busy, high, burnout float64) (ThresholdSet, error) {
	ts := ThresholdSet{Comfortable: comfortable, Busy: busy, High: high, Burnout: burnout}
	if err := ts.Validate(p); err != nil {
		return ThresholdSet{}, err
	}
	return ts, nil
}

// Validate rejects non-increasing, non-finite, non-positive or out-of-range
// cutoffs. Values are never clamped.
func (ts ThresholdSet) Validate(p Period) error {
	limit := p.MaxHours()
	if limit == 0 {
		return &ConfigError{Period: p, Reason: "unknown period"}
	}

	fields := []struct {
		name  string
		value float64
	}{
		{"comfortable", ts.Comfortable},
		{"busy", ts.Busy},
		{"high", ts.High},
		{"burnout", ts.Burnout},
	}
	for i, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &ConfigError{Period: p, Field: f.name, Reason: "must be a finite number"}
		}
		if f.value <= 0 {
			return &ConfigError{Period: p, Field: f.name, Reason: fmt.Sprintf("must be positive, got %g", f.value)}
		}
		if f.value > limit {
			return &ConfigError{Period: p, Field: f.name, Reason: fmt.Sprintf("%g exceeds %g hours", f.value, limit)}
		}
		if i > 0 && f.value <= fields[i-1].value {
			return &ConfigError{
				Period: p,
				Field:  f.name,
				Reason: fmt.Sprintf("%g must be greater than %s (%g)", f.value, fields[i-1].name, fields[i-1].value),
			}
		}
	}
	return nil
}

// Thresholds is the immutable per-granularity configuration passed into every
// computation. Updates return a new value.
type Thresholds struct {
	daily   ThresholdSet
	weekly  ThresholdSet
	monthly ThresholdSet
}

// DefaultThresholds returns the stock configuration.
func DefaultThresholds() Thresholds {
	return Thresholds{
		daily:   ThresholdSet{Comfortable: 6, Busy: 8, High: 10, Burnout: 12},
		weekly:  ThresholdSet{Comfortable: 30, Busy: 40, High: 50, Burnout: 60},
		monthly: ThresholdSet{Comfortable: 120, Busy: 160, High: 200, Burnout: 240},
	}
}

// NewThresholds validates all three sets.
func NewThresholds(daily, weekly, monthly ThresholdSet) (Thresholds, error) {
	for _, c := range []struct {
		p  Period
		ts ThresholdSet
	}{{Daily, daily}, {Weekly, weekly}, {Monthly, monthly}} {
		if err := c.ts.Validate(c.p); err != nil {
			return Thresholds{}, err
		}
	}
	return Thresholds{daily: daily, weekly: weekly, monthly: monthly}, nil
}

// For returns the set for p. Unknown periods return the zero set.
func (t Thresholds) For(p Period) ThresholdSet {
	switch p {
	case Daily:
		return t.daily
	case Weekly:
		return t.weekly
	case Monthly:
		return t.monthly
	}
	return ThresholdSet{}
}

// IsZero reports whether t was never initialized.
func (t Thresholds) IsZero() bool {
	return t == Thresholds{}
}

func (t Thresholds) Daily() ThresholdSet   { return t.daily }
func (t Thresholds) Weekly() ThresholdSet  { return t.weekly }
func (t Thresholds) Monthly() ThresholdSet { return t.monthly }

// With returns a copy of t with the set for p replaced. The receiver is left
// unchanged, including when validation fails.
func (t Thresholds) With(p Period, ts ThresholdSet) (Thresholds, error) {
	if err := ts.Validate(p); err != nil {
		return t, err
	}
	switch p {
	case Daily:
		t.daily = ts
	case Weekly:
		t.weekly = ts
	case Monthly:
		t.monthly = ts
	}
	return t, nil
}
