package workload

// Level is an ordinal workload classification.
type Level int

const (
	LevelComfortable Level = iota
	LevelBusy
	LevelHigh
	LevelBurnout
)

var levelLabels = map[Level]string{
	LevelComfortable: "Comfortable",
	LevelBusy:        "Busy",
	LevelHigh:        "High",
	LevelBurnout:     "Burnout Risk",
}

func (l Level) String() string {
	switch l {
	case LevelBusy:
		return "busy"
	case LevelHigh:
		return "high"
	case LevelBurnout:
		return "burnout"
	default:
		return "comfortable"
	}
}

// Label returns the display string for the level.
func (l Level) Label() string {
	if s, ok := levelLabels[l]; ok {
		return s
	}
	return levelLabels[LevelComfortable]
}

// ParseLevel converts a slug produced by String back into a Level.
func ParseLevel(s string) (Level, bool) {
	for _, l := range []Level{LevelComfortable, LevelBusy, LevelHigh, LevelBurnout} {
		if l.String() == s {
			return l, true
		}
	}
	return LevelComfortable, false
}

// Classification is the result of Classify.
type Classification struct {
	Level Level
	Label string
}

// Classify maps accumulated hours onto a level. Hours below the comfortable
// cutoff still classify as comfortable. The function is period-agnostic; the
// caller picks the set for the granularity being classified.
func Classify(hours float64, ts ThresholdSet) Classification {
	var level Level
	switch {
	case hours >= ts.Burnout:
		level = LevelBurnout
	case hours >= ts.High:
		level = LevelHigh
	case hours >= ts.Busy:
		level = LevelBusy
	default:
		level = LevelComfortable
	}
	return Classification{Level: level, Label: level.Label()}
}
