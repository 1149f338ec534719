package openinghours

import (
	"strings"
	"time"
)

// Event names a point of the day derived from the position of the sun rather
// than from the clock.
type Event int

const (
	EventNone Event = iota
	Sunrise
	Sunset
	Dawn
	Dusk
)

func (e Event) String() string {
	switch e {
	case Sunrise:
		return "sunrise"
	case Sunset:
		return "sunset"
	case Dawn:
		return "dawn"
	case Dusk:
		return "dusk"
	}
	return "NotEvent"
}

// timeState keeps the legal shapes of a Time disjoint. Constructing a Time
// through one of the New* constructors is the only way to leave stateUnset.
type timeState int

const (
	stateUnset timeState = iota
	stateMinutes
	stateHoursMinutes
	stateEvent
	stateEventOffset
)

// Time is a single clock value of the grammar: a plain hours:minutes clock
// time, a bare minute count, or a named event (sunrise, sunset, dawn, dusk)
// optionally shifted by a signed offset. The zero Time is unset and renders
// as the literal placeholder "hh:mm".
type Time struct {
	state  timeState
	event  Event
	offset time.Duration
}

// NewClockTime returns an hours:minutes clock value.
func NewClockTime(hours, minutes int) Time {
	return Time{
		state:  stateHoursMinutes,
		offset: time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute,
	}
}

// NewMinutes returns a bare minute count. A magnitude beyond 60 minutes
// promotes the value to a full hours:minutes clock time.
func NewMinutes(minutes int) Time {
	t := Time{state: stateMinutes, offset: time.Duration(minutes) * time.Minute}
	if minutes > 60 || minutes < -60 {
		t.state = stateHoursMinutes
	}
	return t
}

// NewEvent returns a named event time. EventNone yields the unset Time.
func NewEvent(ev Event) Time {
	if ev == EventNone {
		return Time{}
	}
	return Time{state: stateEvent, event: ev}
}

// NewEventOffset returns a named event time shifted by a signed offset,
// rounded to minute resolution.
func NewEventOffset(ev Event, offset time.Duration) Time {
	if ev == EventNone {
		return Time{}
	}
	return Time{state: stateEventOffset, event: ev, offset: offset.Round(time.Minute)}
}

func (t Time) HasValue() bool      { return t.state != stateUnset }
func (t Time) IsEvent() bool       { return t.state == stateEvent || t.state == stateEventOffset }
func (t Time) IsEventOffset() bool { return t.state == stateEventOffset }
func (t Time) IsHoursMinutes() bool { return t.state == stateHoursMinutes }
func (t Time) IsMinutes() bool      { return t.state == stateMinutes }
func (t Time) IsTime() bool         { return t.IsHoursMinutes() || t.IsEvent() }

// Event reports which named event the value refers to, EventNone for plain
// clock values.
func (t Time) Event() Event { return t.event }

// Hours returns the hour component of the stored value. For event forms this
// is the component of the stored offset relative to a zero event clock; the
// real clock is only known once an EventTimeResolver supplies it at
// evaluation time.
func (t Time) Hours() int { return int(t.offset / time.Hour) }

// Minutes returns the minute component of the stored value, with the same
// event caveat as Hours.
func (t Time) Minutes() int { return int(t.offset/time.Minute) - 60*t.Hours() }

// totalMinutes is the stored value as signed minutes from midnight (or from
// the event, for offset forms).
func (t Time) totalMinutes() int { return int(t.offset / time.Minute) }

func (t Time) String() string {
	var sb strings.Builder
	t.appendTo(&sb)
	return sb.String()
}

func (t Time) appendTo(sb *strings.Builder) {
	switch t.state {
	case stateUnset:
		sb.WriteString("hh:mm")
	case stateEvent:
		sb.WriteString(t.event.String())
	case stateEventOffset:
		sb.WriteByte('(')
		sb.WriteString(t.event.String())
		if t.offset < 0 {
			sb.WriteByte('-')
		} else {
			sb.WriteByte('+')
		}
		t.appendClock(sb)
		sb.WriteByte(')')
	case stateMinutes:
		appendPadded(sb, intAbs(t.Minutes()), 2)
	default:
		t.appendClock(sb)
	}
}

func (t Time) appendClock(sb *strings.Builder) {
	appendPadded(sb, intAbs(t.Hours()), 2)
	sb.WriteByte(':')
	appendPadded(sb, intAbs(t.Minutes()), 2)
}

// Timespan is an interval between two Times, optionally repeating every
// Period and optionally open-ended (Plus). A span with a start but no end is
// "open" and renders as the start alone.
type Timespan struct {
	Start  Time
	End    Time
	Period Time
	Plus   bool
}

func (ts Timespan) IsEmpty() bool   { return !ts.HasStart() && !ts.HasEnd() }
func (ts Timespan) IsOpen() bool    { return ts.HasStart() && !ts.HasEnd() }
func (ts Timespan) HasStart() bool  { return ts.Start.HasValue() }
func (ts Timespan) HasEnd() bool    { return ts.End.HasValue() }
func (ts Timespan) HasPlus() bool   { return ts.Plus }
func (ts Timespan) HasPeriod() bool { return ts.Period.HasValue() }

// IsValid reports whether the span is semantically usable: it must have a
// start, clock components must stay within the extended 48-hour day with
// minutes below 60, and a repeat period requires a closed span.
func (ts Timespan) IsValid() bool {
	if !ts.HasStart() {
		return false
	}
	if !validClock(ts.Start) {
		return false
	}
	if ts.HasEnd() && !validClock(ts.End) {
		return false
	}
	if ts.HasPeriod() && ts.IsOpen() {
		return false
	}
	return true
}

func validClock(t Time) bool {
	if t.IsEvent() {
		return true
	}
	h, m := t.Hours(), t.Minutes()
	if h < 0 || m < 0 || m > 59 {
		return false
	}
	if h > 48 || (h == 48 && m != 0) {
		return false
	}
	return true
}

func (ts Timespan) String() string {
	var sb strings.Builder
	ts.appendTo(&sb)
	return sb.String()
}

func (ts Timespan) appendTo(sb *strings.Builder) {
	ts.Start.appendTo(sb)
	if ts.HasEnd() {
		sb.WriteByte('-')
		ts.End.appendTo(sb)
		if ts.HasPeriod() {
			sb.WriteByte('/')
			ts.Period.appendTo(sb)
		}
	}
	if ts.Plus {
		sb.WriteByte('+')
	}
}
