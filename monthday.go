package openinghours

import (
	"strconv"
	"strings"
)

// Month is a calendar month with MonthNone as "no month set".
type Month int

const (
	MonthNone Month = iota
	January
	February
	March
	April
	May
	June
	July
	August
	September
	October
	November
	December
)

func (m Month) String() string {
	switch m {
	case January:
		return "Jan"
	case February:
		return "Feb"
	case March:
		return "Mar"
	case April:
		return "Apr"
	case May:
		return "May"
	case June:
		return "Jun"
	case July:
		return "Jul"
	case August:
		return "Aug"
	case September:
		return "Sep"
	case October:
		return "Oct"
	case November:
		return "Nov"
	case December:
		return "Dec"
	}
	return "None"
}

// VariableDate is a movable calendar date.
type VariableDate int

const (
	VariableNone VariableDate = iota
	Easter
)

func (v VariableDate) String() string {
	if v == Easter {
		return "easter"
	}
	return "none"
}

// DateOffset adjusts a calendar date: first to the nearest given weekday
// (forward for Positive, backward otherwise), then by a signed day count.
type DateOffset struct {
	WeekdayShift Weekday
	Positive     bool
	Days         int
}

func (o DateOffset) IsEmpty() bool         { return !o.HasDays() && !o.HasWeekdayShift() }
func (o DateOffset) HasWeekdayShift() bool { return o.WeekdayShift != WeekdayNone }
func (o DateOffset) HasDays() bool         { return o.Days != 0 }

func (o DateOffset) String() string {
	var sb strings.Builder
	o.appendTo(&sb)
	return sb.String()
}

func (o DateOffset) appendTo(sb *strings.Builder) {
	if o.HasWeekdayShift() {
		if o.Positive {
			sb.WriteByte('+')
		} else {
			sb.WriteByte('-')
		}
		sb.WriteString(o.WeekdayShift.String())
	}
	appendDayOffset(sb, o.Days, o.HasWeekdayShift())
}

// MonthDay is one calendar date: an optional year, either a variable date or
// a month with an optional day-of-month, and an attached DateOffset. The
// variable date wins over month and day when both are populated.
type MonthDay struct {
	Year     int
	Month    Month
	Day      int
	Variable VariableDate
	Offset   DateOffset
}

func (md MonthDay) IsEmpty() bool {
	return !md.HasYear() && !md.HasMonth() && !md.HasDay() && !md.IsVariable()
}

func (md MonthDay) IsVariable() bool { return md.Variable != VariableNone }
func (md MonthDay) HasYear() bool    { return md.Year != 0 }
func (md MonthDay) HasMonth() bool   { return md.Month != MonthNone }
func (md MonthDay) HasDay() bool     { return md.Day != 0 }
func (md MonthDay) HasOffset() bool  { return !md.Offset.IsEmpty() }

func (md MonthDay) String() string {
	var sb strings.Builder
	md.appendTo(&sb)
	return sb.String()
}

func (md MonthDay) appendTo(sb *strings.Builder) {
	w := spacedWriter{sb: sb}
	if md.HasYear() {
		w.next()
		sb.WriteString(strconv.Itoa(md.Year))
	}
	if md.IsVariable() {
		w.next()
		sb.WriteString(md.Variable.String())
	} else {
		if md.HasMonth() {
			w.next()
			sb.WriteString(md.Month.String())
		}
		if md.HasDay() {
			w.next()
			appendPadded(sb, md.Day, 2)
		}
	}
	if md.HasOffset() {
		sb.WriteByte(' ')
		md.Offset.appendTo(sb)
	}
}

// MonthdayRange is a contiguous run of calendar dates with an optional
// repeat period (in days) and an optional open end (Plus).
type MonthdayRange struct {
	Start  MonthDay
	End    MonthDay
	Period int
	Plus   bool
}

func (r MonthdayRange) IsEmpty() bool  { return !r.HasStart() && !r.HasEnd() }
func (r MonthdayRange) HasStart() bool { return !r.Start.IsEmpty() }

// HasEnd also fires when the end carries only a day number, the
// "Jan 01-15" form where the end inherits month and year from the start.
func (r MonthdayRange) HasEnd() bool { return !r.End.IsEmpty() || r.End.HasDay() }

func (r MonthdayRange) HasPeriod() bool { return r.Period != 0 }
func (r MonthdayRange) HasPlus() bool   { return r.Plus }

func (r MonthdayRange) String() string {
	var sb strings.Builder
	r.appendTo(&sb)
	return sb.String()
}

func (r MonthdayRange) appendTo(sb *strings.Builder) {
	if r.HasStart() {
		r.Start.appendTo(sb)
	}
	if r.HasEnd() {
		sb.WriteByte('-')
		r.End.appendTo(sb)
		if r.HasPeriod() {
			sb.WriteByte('/')
			sb.WriteString(strconv.Itoa(r.Period))
		}
	} else if r.Plus {
		sb.WriteByte('+')
	}
}
