package openinghours

import (
	"time"

	"openinghours/holiday"
)

// State is the availability a ruleset asserts at an instant.
type State int

const (
	StateUnknown State = iota
	StateClosed
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	}
	return "unknown"
}

// Verdict is the outcome of evaluating a ruleset at one instant. RuleIndex is
// the index of the clause that decided the state, -1 when no clause matched.
type Verdict struct {
	State     State
	Comment   string
	RuleIndex int
}

// HolidayChecker supplies the PH/SH ground truth for an instant's civil date.
// holiday.Calendar satisfies it.
type HolidayChecker interface {
	IsPublicHoliday(t time.Time) bool
	IsSchoolHoliday(t time.Time) bool
}

// EventTimeResolver maps a named event on a given date to a clock time. A nil
// resolver reports a zero clock for every event.
type EventTimeResolver func(date time.Time, ev Event) Time

// FixedEventTimes builds a resolver from constant per-event clock times,
// useful where real astronomical data is unavailable or irrelevant.
func FixedEventTimes(times map[Event]Time) EventTimeResolver {
	return func(_ time.Time, ev Event) Time {
		return times[ev]
	}
}

// Evaluator applies a parsed ruleset to concrete instants. Instants are
// interpreted in their own time.Location; the evaluator performs no timezone
// conversion of its own.
type Evaluator struct {
	Rules    RuleSequences
	Holidays HolidayChecker
	Events   EventTimeResolver
}

type ruleRole int

const (
	roleOverride ruleRole = iota
	roleAdditive
	roleFallback
)

// StateAt evaluates the ruleset at t. Clauses apply in order; the separator
// preceding a clause gives its combination role: ";" overrides the state so
// far, "," only widens it, "||" applies only when nothing matched yet. An
// override clause whose day selectors match but whose timespans do not
// claims the day as closed, unless the clause itself asserts closed or
// unknown, in which case the prior state stands outside its spans.
func (e *Evaluator) StateAt(t time.Time) Verdict {
	verdict := Verdict{State: StateClosed, RuleIndex: -1}
	matched := false

	for i, r := range e.Rules {
		role := roleOverride
		if i > 0 {
			switch e.Rules[i-1].Separator {
			case ",":
				role = roleAdditive
			case "||":
				role = roleFallback
			}
		}

		dayOK := e.dayMatches(r, t)
		full := dayOK && e.timeMatches(r, t)

		switch role {
		case roleOverride:
			if full {
				verdict = e.ruleVerdict(r, i)
				matched = true
			} else if dayOK && r.HasTimes() && ruleState(r) == StateOpen {
				verdict = Verdict{State: StateClosed, RuleIndex: i}
				matched = true
			}
		case roleAdditive:
			if full {
				v := e.ruleVerdict(r, i)
				if v.State != StateClosed {
					verdict = v
					matched = true
				}
			}
		case roleFallback:
			if !matched && full {
				verdict = e.ruleVerdict(r, i)
				matched = true
			}
		}
	}
	return verdict
}

// IsOpenAt reports whether the ruleset asserts the open state at t.
func (e *Evaluator) IsOpenAt(t time.Time) bool { return e.StateAt(t).State == StateOpen }

// IsClosedAt reports whether the ruleset asserts the closed state at t.
func (e *Evaluator) IsClosedAt(t time.Time) bool { return e.StateAt(t).State == StateClosed }

const maxNextChangeScan = 366 * 24 * time.Hour

// NextChange returns the first instant after from at which the verdict
// differs, at minute resolution. The scan is bounded to a year and a day;
// false means the state never changes inside that window (e.g. "24/7").
func (e *Evaluator) NextChange(from time.Time) (time.Time, bool) {
	cur := e.StateAt(from)
	limit := from.Add(maxNextChangeScan)
	for t := from.Truncate(time.Minute).Add(time.Minute); !t.After(limit); t = t.Add(time.Minute) {
		v := e.StateAt(t)
		if v.State != cur.State || v.Comment != cur.Comment {
			return t, true
		}
	}
	return time.Time{}, false
}

func ruleState(r RuleSequence) State {
	switch r.Modifier {
	case ModifierClosed:
		return StateClosed
	case ModifierUnknown, ModifierCommentOnly:
		return StateUnknown
	}
	return StateOpen
}

func (e *Evaluator) ruleVerdict(r RuleSequence, index int) Verdict {
	v := Verdict{State: ruleState(r), RuleIndex: index}
	switch {
	case r.HasModifierComment():
		v.Comment = r.ModifierComment
	case r.HasComment():
		v.Comment = r.Comment
	}
	return v
}

// dayMatches reports whether every populated date selector of r contains t's
// civil date. A clause with no date selectors (24/7, comment clauses,
// modifier-only clauses) matches every day.
func (e *Evaluator) dayMatches(r RuleSequence, t time.Time) bool {
	if r.TwentyFourHours || r.HasComment() {
		return true
	}
	if r.HasYears() && !yearsContain(r.Years, t.Year()) {
		return false
	}
	if r.HasMonths() && !e.monthdaysContain(r.Months, t) {
		return false
	}
	if r.HasWeeks() && !weeksContain(r.Weeks, t) {
		return false
	}
	if r.HasWeekdays() && !e.weekdaysContain(r.Weekdays, t) {
		return false
	}
	return true
}

// timeMatches reports whether any timespan of r covers t's minute of day. A
// clause with no timespans covers the whole day.
func (e *Evaluator) timeMatches(r RuleSequence, t time.Time) bool {
	if r.TwentyFourHours || !r.HasTimes() {
		return true
	}
	m := t.Hour()*60 + t.Minute()
	for _, span := range r.Times {
		if e.spanContains(span, t, m) {
			return true
		}
	}
	return false
}

func (e *Evaluator) spanContains(span Timespan, date time.Time, m int) bool {
	s := e.resolveMinutes(span.Start, date)

	if span.IsOpen() && !span.Plus {
		// A point time: matches its own minute only.
		return m == s
	}

	end := 24 * 60
	if span.HasEnd() {
		end = e.resolveMinutes(span.End, date)
	}

	if span.HasPeriod() {
		period := span.Period.totalMinutes()
		if period <= 0 {
			return m == s
		}
		if !minuteInSpan(m, s, end) {
			return false
		}
		elapsed := m - s
		if elapsed < 0 {
			elapsed += 24 * 60
		}
		return elapsed%period == 0
	}
	return minuteInSpan(m, s, end)
}

// minuteInSpan checks m against the half-open window [s, end), wrapping over
// midnight when the end does not lie after the start.
func minuteInSpan(m, s, end int) bool {
	end %= 24 * 60
	if end <= s {
		return m >= s || m < end
	}
	return m >= s && m < end
}

// resolveMinutes turns a Time into minutes from midnight on the given date,
// resolving event forms through the injected resolver.
func (e *Evaluator) resolveMinutes(t Time, date time.Time) int {
	if !t.IsEvent() {
		return t.totalMinutes()
	}
	base := NewClockTime(0, 0)
	if e.Events != nil {
		base = e.Events(date, t.Event())
	}
	resolved := base.totalMinutes()
	if t.IsEventOffset() {
		resolved += t.totalMinutes()
	}
	return resolved
}

func yearsContain(years []YearRange, y int) bool {
	for _, yr := range years {
		if yearRangeContains(yr, y) {
			return true
		}
	}
	return false
}

func yearRangeContains(yr YearRange, y int) bool {
	if !yr.HasStart() || y < yr.Start {
		return false
	}
	if yr.HasEnd() {
		if y > yr.End {
			return false
		}
	} else if !yr.Plus {
		return y == yr.Start
	}
	if yr.HasPeriod() {
		return (y-yr.Start)%yr.Period == 0
	}
	return true
}

func weeksContain(weeks []WeekRange, t time.Time) bool {
	_, wk := t.ISOWeek()
	for _, wr := range weeks {
		if weekRangeContains(wr, wk) {
			return true
		}
	}
	return false
}

func weekRangeContains(wr WeekRange, wk int) bool {
	if !wr.HasStart() || wk < wr.Start {
		return false
	}
	if !wr.HasEnd() {
		return wk == wr.Start
	}
	if wk > wr.End {
		return false
	}
	if wr.HasPeriod() {
		return (wk-wr.Start)%wr.Period == 0
	}
	return true
}

func (e *Evaluator) weekdaysContain(w Weekdays, t time.Time) bool {
	for _, r := range w.Ranges {
		if weekdayRangeContains(r, t) {
			return true
		}
	}
	for _, h := range w.Holidays {
		if e.holidayContains(h, t) {
			return true
		}
	}
	return false
}

func (e *Evaluator) holidayContains(h Holiday, t time.Time) bool {
	if e.Holidays == nil {
		return false
	}
	if h.Plural {
		return e.Holidays.IsPublicHoliday(t)
	}
	return e.Holidays.IsSchoolHoliday(t.AddDate(0, 0, -h.Offset))
}

func weekdayRangeContains(r WeekdayRange, t time.Time) bool {
	// A day offset shifts the match: "Sa[1] +1 day" selects the day after
	// the first Saturday.
	base := t.AddDate(0, 0, -r.Offset)
	wd := weekdayFromTime(base.Weekday())
	if !r.HasWeekday(wd) {
		return false
	}
	if !r.HasNth() {
		return true
	}
	nth := (base.Day()-1)/7 + 1
	last := base.Day()+7 > daysInMonth(base.Year(), base.Month())
	for _, entry := range r.Nths {
		if nthEntryContains(entry, nth, last) {
			return true
		}
	}
	return false
}

func nthEntryContains(entry NthEntry, nth int, last bool) bool {
	if entry.Start == NthLast {
		return last
	}
	if !entry.HasEnd() {
		return nth == int(entry.Start)
	}
	return nth >= int(entry.Start) && nth <= int(entry.End)
}

func weekdayFromTime(wd time.Weekday) Weekday { return Weekday(int(wd) + 1) }

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (e *Evaluator) monthdaysContain(ranges []MonthdayRange, t time.Time) bool {
	for _, r := range ranges {
		if monthdayRangeContains(r, t) {
			return true
		}
	}
	return false
}

func monthdayRangeContains(r MonthdayRange, t time.Time) bool {
	y, _, _ := t.Date()
	d := civilDate(t)

	if !r.HasEnd() {
		if r.Plus {
			// Open-ended: every date on or after the resolved start.
			start, ok := resolveMonthDay(r.Start, y)
			if !ok {
				return false
			}
			if d.Before(start) {
				// A start without an explicit year recurs annually; check
				// against the previous year's resolution as well.
				if r.Start.HasYear() {
					return false
				}
				prev, ok := resolveMonthDay(r.Start, y-1)
				return ok && !d.Before(prev)
			}
			return true
		}
		return monthDayMatchesDate(r.Start, t)
	}

	// Closed range: resolve both ends against the instant's year, wrapping
	// into the neighbouring year when the end precedes the start (Nov-Mar).
	start, ok := resolveMonthDay(r.Start, y)
	if !ok {
		return false
	}
	end, ok := resolveRangeEnd(r.Start, r.End, y)
	if !ok {
		return false
	}

	if end.Before(start) {
		if d.Before(start) {
			var prevOK bool
			start, prevOK = resolveMonthDay(r.Start, y-1)
			end, ok = resolveRangeEnd(r.Start, r.End, y-1)
			if !prevOK || !ok {
				return false
			}
			end = end.AddDate(1, 0, 0)
		} else {
			end = end.AddDate(1, 0, 0)
		}
	}

	if d.Before(start) || d.After(end) {
		return false
	}
	if r.HasPeriod() {
		days := int(d.Sub(start).Hours() / 24)
		return days%r.Period == 0
	}
	return true
}

// resolveRangeEnd completes a day-number-only end from the start ("Jan
// 01-15") and resolves month-only ends to the last day of their month.
func resolveRangeEnd(start, end MonthDay, year int) (time.Time, bool) {
	if !end.IsVariable() && !end.HasMonth() && end.HasDay() {
		completed := end
		completed.Month = start.Month
		if start.HasYear() && !completed.HasYear() {
			completed.Year = start.Year
		}
		return resolveMonthDay(completed, year)
	}
	if !end.IsVariable() && end.HasMonth() && !end.HasDay() {
		completed := end
		y := year
		if completed.HasYear() {
			y = completed.Year
		}
		completed.Day = daysInMonth(y, time.Month(completed.Month))
		return resolveMonthDay(completed, year)
	}
	return resolveMonthDay(end, year)
}

// resolveMonthDay turns a MonthDay into a concrete date in the given year
// (its own year takes precedence), applying the variable date and the
// attached DateOffset. It reports false when the fields cannot name a date.
func resolveMonthDay(md MonthDay, year int) (time.Time, bool) {
	if md.HasYear() {
		year = md.Year
	}

	var date time.Time
	switch {
	case md.IsVariable():
		date = holiday.Easter(year)
	case md.HasMonth():
		day := md.Day
		if day == 0 {
			day = 1
		}
		date = time.Date(year, time.Month(md.Month), day, 0, 0, 0, 0, time.UTC)
	default:
		return time.Time{}, false
	}

	if md.Offset.HasWeekdayShift() {
		target := time.Weekday(int(md.Offset.WeekdayShift) - 1)
		step := 1
		if !md.Offset.Positive {
			step = -1
		}
		for date.Weekday() != target {
			date = date.AddDate(0, 0, step)
		}
	}
	if md.Offset.HasDays() {
		date = date.AddDate(0, 0, md.Offset.Days)
	}
	return date, true
}

// monthDayMatchesDate checks a single (non-range) date selector against t.
// Without a day number the selector covers its whole month.
func monthDayMatchesDate(md MonthDay, t time.Time) bool {
	y, m, day := t.Date()

	if md.IsVariable() || md.HasOffset() {
		resolved, ok := resolveMonthDay(md, y)
		if !ok {
			return false
		}
		ry, rm, rd := resolved.Date()
		return ry == y && rm == m && rd == day
	}

	if md.HasYear() && md.Year != y {
		return false
	}
	if md.HasMonth() && time.Month(md.Month) != m {
		return false
	}
	if md.HasDay() && md.Day != day {
		return false
	}
	return md.HasMonth() || md.HasDay() || md.HasYear()
}

// civilDate is t's calendar date at midnight UTC, for location-independent
// date comparisons.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
