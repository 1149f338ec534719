package openinghours

import (
	"strconv"
	"strings"
)

// Weekday is a day of the week, ordered Sunday < Monday < ... < Saturday for
// range containment. The zero value WeekdayNone means "no day set".
type Weekday int

const (
	WeekdayNone Weekday = iota
	Sunday
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

func (w Weekday) String() string {
	switch w {
	case Sunday:
		return "Su"
	case Monday:
		return "Mo"
	case Tuesday:
		return "Tu"
	case Wednesday:
		return "We"
	case Thursday:
		return "Th"
	case Friday:
		return "Fr"
	case Saturday:
		return "Sa"
	}
	return "not-a-day"
}

// NthWeekdayOfMonth selects an occurrence of a weekday within a month:
// 1 through 5 counted from the start, NthLast counted from the end.
type NthWeekdayOfMonth int

const (
	NthLast NthWeekdayOfMonth = -1
	NthNone NthWeekdayOfMonth = 0

	NthFirst  NthWeekdayOfMonth = 1
	NthSecond NthWeekdayOfMonth = 2
	NthThird  NthWeekdayOfMonth = 3
	NthFourth NthWeekdayOfMonth = 4
	NthFifth  NthWeekdayOfMonth = 5
)

// NthEntry is a single bracketed nth-of-month qualifier: either one ordinal
// or a closed ordinal range.
type NthEntry struct {
	Start NthWeekdayOfMonth
	End   NthWeekdayOfMonth
}

func (e NthEntry) IsEmpty() bool  { return !e.HasStart() && !e.HasEnd() }
func (e NthEntry) HasStart() bool { return e.Start != NthNone }
func (e NthEntry) HasEnd() bool   { return e.End != NthNone }

func (e NthEntry) String() string {
	var sb strings.Builder
	e.appendTo(&sb)
	return sb.String()
}

func (e NthEntry) appendTo(sb *strings.Builder) {
	if e.HasStart() {
		sb.WriteString(strconv.Itoa(int(e.Start)))
	}
	if e.HasEnd() {
		sb.WriteByte('-')
		sb.WriteString(strconv.Itoa(int(e.End)))
	}
}

// WeekdayRange is a contiguous run of weekdays, or a single weekday when End
// is unset. A single day may carry nth-of-month qualifiers and a signed day
// offset ("Sa[1] +1 day").
type WeekdayRange struct {
	Start  Weekday
	End    Weekday
	Nths   []NthEntry
	Offset int
}

func (r WeekdayRange) IsEmpty() bool   { return r.Start == WeekdayNone && r.End == WeekdayNone }
func (r WeekdayRange) HasStart() bool  { return r.Start != WeekdayNone }
func (r WeekdayRange) HasEnd() bool    { return r.End != WeekdayNone }
func (r WeekdayRange) HasOffset() bool { return r.Offset != 0 }
func (r WeekdayRange) HasNth() bool    { return len(r.Nths) > 0 }

// HasWeekday reports whether w falls inside the range. A missing end makes
// the range a single day. A reversed range such as Sa-Tu wraps over the week
// boundary and contains Sa, Su, Mo and Tu.
func (r WeekdayRange) HasWeekday(w Weekday) bool {
	if r.IsEmpty() || w == WeekdayNone {
		return false
	}
	if !r.HasEnd() {
		return r.Start == w
	}
	if r.Start <= r.End {
		return r.Start <= w && w <= r.End
	}
	return w >= r.Start || w <= r.End
}

func (r WeekdayRange) HasSunday() bool    { return r.HasWeekday(Sunday) }
func (r WeekdayRange) HasMonday() bool    { return r.HasWeekday(Monday) }
func (r WeekdayRange) HasTuesday() bool   { return r.HasWeekday(Tuesday) }
func (r WeekdayRange) HasWednesday() bool { return r.HasWeekday(Wednesday) }
func (r WeekdayRange) HasThursday() bool  { return r.HasWeekday(Thursday) }
func (r WeekdayRange) HasFriday() bool    { return r.HasWeekday(Friday) }
func (r WeekdayRange) HasSaturday() bool  { return r.HasWeekday(Saturday) }

// DaysCount is the inclusive number of days the range covers, wrap-aware.
func (r WeekdayRange) DaysCount() int {
	if r.IsEmpty() {
		return 0
	}
	if !r.HasEnd() {
		return 1
	}
	return (int(r.End)-int(r.Start)+7)%7 + 1
}

func (r WeekdayRange) String() string {
	var sb strings.Builder
	r.appendTo(&sb)
	return sb.String()
}

func (r WeekdayRange) appendTo(sb *strings.Builder) {
	sb.WriteString(r.Start.String())
	if r.HasEnd() {
		sb.WriteByte('-')
		sb.WriteString(r.End.String())
		return
	}
	if r.HasNth() {
		sb.WriteByte('[')
		appendJoined(sb, r.Nths, ",")
		sb.WriteByte(']')
	}
	appendDayOffset(sb, r.Offset, true)
}

// Holiday marks holiday days: PH (all public holidays, Plural) or SH (a
// school holiday) with an optional signed day offset applied to the singular
// form only.
type Holiday struct {
	Plural bool
	Offset int
}

func (h Holiday) String() string {
	var sb strings.Builder
	h.appendTo(&sb)
	return sb.String()
}

func (h Holiday) appendTo(sb *strings.Builder) {
	if h.Plural {
		sb.WriteString("PH")
		return
	}
	sb.WriteString("SH")
	appendDayOffset(sb, h.Offset, true)
}

// Weekdays is the union of weekday ranges and holiday markers defining
// "which days" a rule applies to. Holidays render before weekday ranges.
type Weekdays struct {
	Ranges   []WeekdayRange
	Holidays []Holiday
}

func (w Weekdays) IsEmpty() bool     { return len(w.Ranges) == 0 && len(w.Holidays) == 0 }
func (w Weekdays) HasWeekday() bool  { return len(w.Ranges) > 0 }
func (w Weekdays) HasHolidays() bool { return len(w.Holidays) > 0 }

func (w Weekdays) String() string {
	var sb strings.Builder
	w.appendTo(&sb)
	return sb.String()
}

func (w Weekdays) appendTo(sb *strings.Builder) {
	appendJoined(sb, w.Holidays, ", ")
	if w.HasWeekday() && w.HasHolidays() {
		sb.WriteString(", ")
	}
	appendJoined(sb, w.Ranges, ", ")
}
