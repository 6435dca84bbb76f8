package calendar

import (
	"regexp"
	"strings"
	"time"
)

// Kind is the classification of an event for workload purposes.
type Kind int

const (
	KindOther Kind = iota
	KindWork
	KindOvernight
	KindAllDay
)

func (k Kind) String() string {
	switch k {
	case KindWork:
		return "work"
	case KindOvernight:
		return "overnight"
	case KindAllDay:
		return "all-day"
	default:
		return "other"
	}
}

// OvernightMinDuration is the shortest multi-day span treated as an overnight
// stay when the event carries no explicit type.
const OvernightMinDuration = 10 * time.Hour

var (
	minuteCountPattern = regexp.MustCompile(`(?i)\b\d{1,3}\s*(m|min|mins|minute|minutes)\b`)

	overnightPhrases = []string{"overnight", "housesit", "house sit", "house-sit", "sleepover", "boarding"}
	overnightTokens  = []string{"hs"}

	meetGreetPhrases = []string{"meet & greet", "meet and greet", "meet-greet", "meet n greet", "m&g"}
	walkPhrases      = []string{"walk"}
	dropInPhrases    = []string{"drop-in", "drop in", "dropin", "visit", "check-in", "check in", "feeding", "pet sit", "potty"}

	personalPhrases = []string{
		"dentist", "doctor", "birthday", "vacation", "personal", "haircut",
		"lunch with", "dinner with", "appointment for me", "day off", "holiday",
	}
)

// ClassifyKind centralizes the work/overnight/all-day heuristics. The result
// depends only on the event's own fields.
func ClassifyKind(e Event) Kind {
	if IsAllDay(e) {
		return KindAllDay
	}
	if isOvernight(e) {
		return KindOvernight
	}
	if isWork(e) {
		return KindWork
	}
	return KindOther
}

// IsWorkEvent reports whether e counts toward workload minutes.
func IsWorkEvent(e Event) bool {
	return ClassifyKind(e) == KindWork
}

// IsOvernightEvent reports whether e is a housesit/overnight stay. All-day
// events are never overnight.
func IsOvernightEvent(e Event) bool {
	return ClassifyKind(e) == KindOvernight
}

// IsAllDay reports whether e is an all-day entry.
func IsAllDay(e Event) bool {
	return e.AllDay
}

// IsIgnored reports whether the operator excluded e.
func IsIgnored(e Event) bool {
	return e.Ignored
}

// CountsAsWork reports whether e contributes work minutes and travel legs:
// a work event that is neither ignored nor all-day.
func CountsAsWork(e Event) bool {
	return !e.Ignored && IsWorkEvent(e)
}

// InferType picks an EventType from title vocabulary. It is used when the
// calendar source supplies no explicit category.
func InferType(title string) EventType {
	lower := strings.ToLower(title)
	switch {
	case hasOvernightVocabulary(lower):
		return TypeOvernight
	case containsAny(lower, meetGreetPhrases):
		return TypeMeetGreet
	case containsAny(lower, walkPhrases):
		return TypeWalk
	case containsAny(lower, dropInPhrases), minuteCountPattern.MatchString(title):
		return TypeDropIn
	default:
		return TypeOther
	}
}

func isOvernight(e Event) bool {
	if e.Type == TypeOvernight {
		return true
	}
	if hasOvernightVocabulary(strings.ToLower(e.Title)) {
		return true
	}
	if e.Type != TypeOther && e.Type != "" {
		return false
	}
	return spansMultipleDays(e) && e.Duration() >= OvernightMinDuration
}

func isWork(e Event) bool {
	switch e.Type {
	case TypeDropIn, TypeWalk, TypeMeetGreet:
		return true
	case TypeOvernight:
		return false
	}
	lower := strings.ToLower(e.Title)
	if containsAny(lower, personalPhrases) {
		return false
	}
	if minuteCountPattern.MatchString(e.Title) {
		return true
	}
	return containsAny(lower, meetGreetPhrases) ||
		containsAny(lower, walkPhrases) ||
		containsAny(lower, dropInPhrases)
}

func hasOvernightVocabulary(lower string) bool {
	if containsAny(lower, overnightPhrases) {
		return true
	}
	for _, tok := range tokens(lower) {
		for _, want := range overnightTokens {
			if tok == want {
				return true
			}
		}
	}
	return false
}

func spansMultipleDays(e Event) bool {
	if !e.End.After(e.Start) {
		return false
	}
	return !SameDay(e.Start, LastDay(e))
}

func tokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
	})
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
