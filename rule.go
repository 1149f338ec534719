package openinghours

import "strings"

// Modifier is the state a rule clause asserts. ModifierDefaultOpen (the zero
// value) and ModifierCommentOnly render no keyword; the latter marks a clause
// whose state is expressed purely by its quoted comment.
type Modifier int

const (
	ModifierDefaultOpen Modifier = iota
	ModifierOpen
	ModifierClosed
	ModifierUnknown
	ModifierCommentOnly
)

func (m Modifier) String() string {
	switch m {
	case ModifierOpen:
		return "open"
	case ModifierClosed:
		return "closed"
	case ModifierUnknown:
		return "unknown"
	}
	return ""
}

// RuleSequence is one clause of an opening_hours expression: a conjunction of
// year, month, week, weekday and time selectors (or the 24/7 flag, or a
// quoted comment standing in for all selectors), a state modifier, and the
// separator joining this clause to the next one.
type RuleSequence struct {
	TwentyFourHours bool
	Years           []YearRange
	Months          []MonthdayRange
	Weeks           []WeekRange
	Weekdays        Weekdays
	Times           []Timespan

	// Comment, when set, replaces the whole selector block ("<comment>":).
	Comment string

	Modifier        Modifier
	ModifierComment string

	// SeparatorForReadability inserts a ":" between the date selectors and
	// the weekday/time selectors.
	SeparatorForReadability bool

	// Separator joins this clause to the following one: ";", "," or "||".
	// Empty defaults to ";" at render time.
	Separator string
}

func (s RuleSequence) IsEmpty() bool {
	return !s.HasYears() && !s.HasMonths() && !s.HasWeeks() && !s.HasWeekdays() && !s.HasTimes()
}

func (s RuleSequence) IsTwentyFourHours() bool { return s.TwentyFourHours }
func (s RuleSequence) HasYears() bool          { return len(s.Years) > 0 }
func (s RuleSequence) HasMonths() bool         { return len(s.Months) > 0 }
func (s RuleSequence) HasWeeks() bool          { return len(s.Weeks) > 0 }
func (s RuleSequence) HasWeekdays() bool       { return !s.Weekdays.IsEmpty() }
func (s RuleSequence) HasTimes() bool          { return len(s.Times) > 0 }
func (s RuleSequence) HasComment() bool        { return s.Comment != "" }
func (s RuleSequence) HasModifierComment() bool {
	return s.ModifierComment != ""
}

// String renders the clause in canonical form. A single latched space flag is
// shared across all fragments: once anything has been written, every later
// non-empty fragment is preceded by exactly one space.
func (s RuleSequence) String() string {
	var sb strings.Builder
	w := spacedWriter{sb: &sb}

	switch {
	case s.TwentyFourHours:
		w.next()
		sb.WriteString("24/7")
	case s.HasComment():
		w.next()
		sb.WriteByte('"')
		sb.WriteString(s.Comment)
		sb.WriteString("\":")
	default:
		if s.HasYears() {
			w.next()
			appendJoined(&sb, s.Years, ", ")
		}
		if s.HasMonths() {
			w.next()
			appendJoined(&sb, s.Months, ", ")
		}
		if s.HasWeeks() {
			w.next()
			sb.WriteString("week ")
			appendJoined(&sb, s.Weeks, ", ")
		}

		if s.SeparatorForReadability {
			sb.WriteByte(':')
		}

		if s.HasWeekdays() {
			w.next()
			s.Weekdays.appendTo(&sb)
		}
		if s.HasTimes() {
			w.next()
			appendJoined(&sb, s.Times, ", ")
		}
	}

	if s.Modifier != ModifierDefaultOpen && s.Modifier != ModifierCommentOnly {
		w.next()
		sb.WriteString(s.Modifier.String())
	}
	if s.HasModifierComment() {
		w.next()
		sb.WriteByte('"')
		sb.WriteString(s.ModifierComment)
		sb.WriteByte('"')
	}

	return sb.String()
}
