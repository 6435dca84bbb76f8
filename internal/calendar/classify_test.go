package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyKind(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  Kind
	}{
		{"typed drop-in", Event{Title: "Luna", Type: TypeDropIn, Start: at(10, 9, 0), End: at(10, 9, 30)}, KindWork},
		{"typed walk", Event{Title: "Rex", Type: TypeWalk, Start: at(10, 9, 0), End: at(10, 10, 0)}, KindWork},
		{"typed meet-greet", Event{Title: "New client", Type: TypeMeetGreet, Start: at(10, 9, 0), End: at(10, 9, 30)}, KindWork},
		{"minute count in title", Event{Title: "Luna 30 min", Type: TypeOther, Start: at(10, 9, 0), End: at(10, 9, 30)}, KindWork},
		{"compact minute count", Event{Title: "Milo 45m", Type: TypeOther, Start: at(10, 9, 0), End: at(10, 9, 45)}, KindWork},
		{"personal entry", Event{Title: "Dentist", Type: TypeOther, Start: at(10, 9, 0), End: at(10, 10, 0)}, KindOther},
		{"personal beats service words", Event{Title: "Birthday visit", Type: TypeOther, Start: at(10, 9, 0), End: at(10, 10, 0)}, KindOther},
		{"typed overnight", Event{Title: "Bella", Type: TypeOvernight, Start: at(10, 18, 0), End: at(11, 10, 0)}, KindOvernight},
		{"housesit vocabulary", Event{Title: "Housesit - Smith", Type: TypeOther, Start: at(10, 18, 0), End: at(11, 10, 0)}, KindOvernight},
		{"HS token", Event{Title: "HS Jones", Type: TypeOther, Start: at(10, 18, 0), End: at(11, 10, 0)}, KindOvernight},
		{"HS inside a word is not a token", Event{Title: "Fish feeding", Type: TypeOther, Start: at(10, 9, 0), End: at(10, 9, 30)}, KindWork},
		{"untyped multi-day long span", Event{Title: "Smiths", Type: TypeOther, Start: at(10, 18, 0), End: at(11, 8, 0)}, KindOvernight},
		{"untyped multi-day short span", Event{Title: "Smiths", Type: TypeOther, Start: at(10, 23, 0), End: at(11, 1, 0)}, KindOther},
		{"all-day birthday is never overnight", Event{Title: "Birthday", Type: TypeOther, Start: at(10, 0, 0), End: at(12, 0, 0), AllDay: true}, KindAllDay},
		{"all-day overnight stays all-day", Event{Title: "Overnight", Type: TypeOvernight, Start: at(10, 0, 0), End: at(11, 0, 0), AllDay: true}, KindAllDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyKind(tt.event))
		})
	}
}

func TestClassifyKind_Idempotent(t *testing.T) {
	e := Event{Title: "Overnight - Bella", Type: TypeOther, Start: at(10, 18, 0), End: at(11, 10, 0)}
	first := ClassifyKind(e)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ClassifyKind(e))
	}
	assert.True(t, IsOvernightEvent(e))
	assert.False(t, IsWorkEvent(e))
}

func TestCountsAsWork(t *testing.T) {
	e := Event{Title: "Walk", Type: TypeWalk, Start: at(10, 9, 0), End: at(10, 10, 0)}
	assert.True(t, CountsAsWork(e))

	e.Ignored = true
	assert.False(t, CountsAsWork(e))
	assert.True(t, IsIgnored(e))
}

func TestInferType(t *testing.T) {
	assert.Equal(t, TypeOvernight, InferType("Overnight - Bella"))
	assert.Equal(t, TypeMeetGreet, InferType("Meet & Greet with the Lees"))
	assert.Equal(t, TypeWalk, InferType("Rex walk"))
	assert.Equal(t, TypeDropIn, InferType("Luna drop-in"))
	assert.Equal(t, TypeDropIn, InferType("Cats 30 min"))
	assert.Equal(t, TypeOther, InferType("Groceries"))
}

func TestParseEventType(t *testing.T) {
	typ, ok := ParseEventType(" Meet & Greet ")
	assert.True(t, ok)
	assert.Equal(t, TypeMeetGreet, typ)

	typ, ok = ParseEventType("grooming")
	assert.False(t, ok)
	assert.Equal(t, TypeOther, typ)
}
