package workload

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var daily = ThresholdSet{Comfortable: 6, Busy: 8, High: 10, Burnout: 12}

func TestClassify_Levels(t *testing.T) {
	tests := []struct {
		hours float64
		want  Level
		label string
	}{
		{0, LevelComfortable, "Comfortable"},
		{2.25, LevelComfortable, "Comfortable"},
		{6, LevelComfortable, "Comfortable"},
		{7.99, LevelComfortable, "Comfortable"},
		{8, LevelBusy, "Busy"},
		{10, LevelHigh, "High"},
		{12, LevelBurnout, "Burnout Risk"},
		{30, LevelBurnout, "Burnout Risk"},
	}
	for _, tt := range tests {
		got := Classify(tt.hours, daily)
		assert.Equal(t, tt.want, got.Level, "hours=%v", tt.hours)
		assert.Equal(t, tt.label, got.Label, "hours=%v", tt.hours)
	}
}

func TestClassify_BurnoutBoundary(t *testing.T) {
	assert.Equal(t, LevelBurnout, Classify(12, daily).Level)
	assert.Equal(t, LevelHigh, Classify(12-1.0/60, daily).Level)
	assert.NotEqual(t, LevelBurnout, Classify(math.Nextafter(12, 0), daily).Level)
}

func TestClassify_Monotonic(t *testing.T) {
	prev := Classify(0, daily).Level
	for h := 0.0; h <= 20; h += 0.25 {
		cur := Classify(h, daily).Level
		assert.GreaterOrEqual(t, cur, prev, "level decreased at %v hours", h)
		prev = cur
	}
}

func TestValidate_RejectsNonIncreasing(t *testing.T) {
	err := ThresholdSet{Comfortable: 6, Busy: 6, High: 10, Burnout: 12}.Validate(Daily)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidThresholds))

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "busy", cfgErr.Field)
	assert.Equal(t, Daily, cfgErr.Period)
}

func TestValidate_RejectsOutOfBounds(t *testing.T) {
	assert.Error(t, ThresholdSet{Comfortable: 6, Busy: 8, High: 10, Burnout: 25}.Validate(Daily))
	assert.Error(t, ThresholdSet{Comfortable: 30, Busy: 40, High: 50, Burnout: 169}.Validate(Weekly))
	assert.NoError(t, ThresholdSet{Comfortable: 30, Busy: 40, High: 50, Burnout: 168}.Validate(Weekly))
	assert.Error(t, ThresholdSet{Comfortable: 0, Busy: 8, High: 10, Burnout: 12}.Validate(Daily))
	assert.Error(t, ThresholdSet{Comfortable: math.NaN(), Busy: 8, High: 10, Burnout: 12}.Validate(Daily))
	assert.Error(t, daily.Validate(Period("yearly")))
}

func TestNewThresholdSet(t *testing.T) {
	ts, err := NewThresholdSet(Daily, 5, 7, 9, 11)
	require.NoError(t, err)
	assert.Equal(t, 11.0, ts.Burnout)

	_, err = NewThresholdSet(Daily, 5, 9, 7, 11)
	assert.ErrorIs(t, err, ErrInvalidThresholds)
}

func TestThresholds_WithReturnsNewValue(t *testing.T) {
	base := DefaultThresholds()
	updated, err := base.With(Daily, ThresholdSet{Comfortable: 4, Busy: 5, High: 6, Burnout: 7})
	require.NoError(t, err)

	assert.Equal(t, 12.0, base.Daily().Burnout, "original must be unchanged")
	assert.Equal(t, 7.0, updated.Daily().Burnout)
	assert.Equal(t, base.Weekly(), updated.Weekly())

	same, err := base.With(Weekly, ThresholdSet{Comfortable: 50, Busy: 40, High: 60, Burnout: 70})
	assert.Error(t, err)
	assert.Equal(t, base, same)
}

func TestNewThresholds_ValidatesEverySet(t *testing.T) {
	d := DefaultThresholds()
	_, err := NewThresholds(d.Daily(), d.Weekly(), ThresholdSet{Comfortable: 1, Busy: 2, High: 3, Burnout: 800})
	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, Monthly, cfgErr.Period)

	ok, err := NewThresholds(d.Daily(), d.Weekly(), d.Monthly())
	require.NoError(t, err)
	assert.Equal(t, d, ok)
	assert.False(t, ok.IsZero())
	assert.True(t, Thresholds{}.IsZero())
}

func TestLevel_StringRoundTrip(t *testing.T) {
	for _, l := range []Level{LevelComfortable, LevelBusy, LevelHigh, LevelBurnout} {
		got, ok := ParseLevel(l.String())
		assert.True(t, ok)
		assert.Equal(t, l, got)
	}
	_, ok := ParseLevel("extreme")
	assert.False(t, ok)
}
