package openinghours

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	appLog "openinghours/internal/log"
)

// Parse recognizes an opening_hours expression and builds its rule-sequence
// model. It accepts the canonical form emitted by String plus common liberal
// spellings: case-insensitive keywords, full weekday and month names, and
// flexible whitespace. Rendering the result of Parse reproduces a canonical
// input byte for byte.
func Parse(value string) (RuleSequences, error) {
	toks, err := lex(value)
	if err != nil {
		return nil, errors.Wrap(err, "opening_hours")
	}
	p := &parser{toks: toks}
	rules, err := p.parseRuleSequences()
	if err != nil {
		return nil, errors.Wrap(err, "opening_hours")
	}
	appLog.Debug("parsed opening_hours", "input", value, "rules", len(rules))
	return rules, nil
}

// MustParse is Parse for fixtures and tests; it panics on invalid input.
func MustParse(value string) RuleSequences {
	rules, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return rules
}

type parser struct {
	toks []token
	pos  int
}

// at returns the token at absolute index i, clamped to the trailing EOF.
func (p *parser) at(i int) token {
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *parser) tok() token       { return p.at(p.pos) }
func (p *parser) kind() tokenKind  { return p.at(p.pos).kind }
func (p *parser) peek(n int) token { return p.at(p.pos + n) }

func (p *parser) advance() { p.advanceN(1) }

func (p *parser) advanceN(n int) {
	p.pos += n
	if p.pos >= len(p.toks) {
		p.pos = len(p.toks) - 1
	}
}

func (p *parser) errf(format string, args ...interface{}) error {
	t := p.tok()
	msg := errors.Errorf(format, args...)
	if t.kind == tokEOF {
		return errors.Wrapf(msg, "at end of input (offset %d)", t.pos)
	}
	return errors.Wrapf(msg, "at %q (offset %d)", t.text, t.pos)
}

var weekdayNames = map[string]Weekday{
	"su": Sunday, "sunday": Sunday,
	"mo": Monday, "monday": Monday,
	"tu": Tuesday, "tuesday": Tuesday,
	"we": Wednesday, "wednesday": Wednesday,
	"th": Thursday, "thursday": Thursday,
	"fr": Friday, "friday": Friday,
	"sa": Saturday, "saturday": Saturday,
}

var monthNames = map[string]Month{
	"jan": January, "january": January,
	"feb": February, "february": February,
	"mar": March, "march": March,
	"apr": April, "april": April,
	"may": May,
	"jun": June, "june": June,
	"jul": July, "july": July,
	"aug": August, "august": August,
	"sep": September, "september": September,
	"oct": October, "october": October,
	"nov": November, "november": November,
	"dec": December, "december": December,
}

var eventNames = map[string]Event{
	"sunrise": Sunrise,
	"sunset":  Sunset,
	"dawn":    Dawn,
	"dusk":    Dusk,
}

func wordWeekday(t token) Weekday {
	if t.kind != tokWord {
		return WeekdayNone
	}
	return weekdayNames[strings.ToLower(t.text)]
}

func wordMonth(t token) Month {
	if t.kind != tokWord {
		return MonthNone
	}
	return monthNames[strings.ToLower(t.text)]
}

func wordEvent(t token) Event {
	if t.kind != tokWord {
		return EventNone
	}
	return eventNames[strings.ToLower(t.text)]
}

func wordIs(t token, s string) bool {
	return t.kind == tokWord && strings.EqualFold(t.text, s)
}

func isDayWord(t token) bool { return wordIs(t, "day") || wordIs(t, "days") }

func isHolidayWord(t token) bool { return wordIs(t, "PH") || wordIs(t, "SH") }

// isYearToken treats any four-digit number in a plausible calendar range as
// a year; day numbers and clock components never reach four digits.
func isYearToken(t token) bool {
	return t.kind == tokNumber && len(t.text) == 4 && t.num >= 1900 && t.num <= 2999
}

func (p *parser) parseRuleSequences() (RuleSequences, error) {
	var rules RuleSequences
	for {
		rule, err := p.parseRule()
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)

		switch p.kind() {
		case tokSemi:
			rules[len(rules)-1].Separator = ";"
			p.advance()
		case tokComma:
			rules[len(rules)-1].Separator = ","
			p.advance()
		case tokBarBar:
			rules[len(rules)-1].Separator = "||"
			p.advance()
		case tokEOF:
			return rules, nil
		default:
			return nil, p.errf("unexpected trailing input")
		}
	}
}

func (p *parser) parseRule() (RuleSequence, error) {
	var rs RuleSequence
	start := p.pos

	switch {
	case p.kind() == tokNumber && p.tok().num == 24 &&
		p.peek(1).kind == tokSlash &&
		p.peek(2).kind == tokNumber && p.peek(2).num == 7:
		rs.TwentyFourHours = true
		p.advanceN(3)
	case p.kind() == tokQuoted && p.peek(1).kind == tokColon:
		rs.Comment = p.tok().text
		p.advanceN(2)
	default:
		if err := p.parseSelectors(&rs); err != nil {
			return rs, err
		}
	}

	if p.kind() == tokWord {
		switch strings.ToLower(p.tok().text) {
		case "open":
			rs.Modifier = ModifierOpen
			p.advance()
		case "closed", "off":
			rs.Modifier = ModifierClosed
			p.advance()
		case "unknown":
			rs.Modifier = ModifierUnknown
			p.advance()
		}
	}

	if p.kind() == tokQuoted {
		rs.ModifierComment = p.tok().text
		p.advance()
		// A clause that carries nothing but a quoted comment expresses its
		// state through that comment alone.
		if rs.Modifier == ModifierDefaultOpen && rs.IsEmpty() &&
			!rs.TwentyFourHours && !rs.HasComment() {
			rs.Modifier = ModifierCommentOnly
		}
	}

	if p.pos == start {
		return rs, p.errf("empty rule")
	}
	return rs, nil
}

// parseSelectors consumes the condition groups of one clause in their fixed
// order: years, monthday ranges, weeks, an optional readability colon, then
// weekdays/holidays and timespans.
func (p *parser) parseSelectors(rs *RuleSequence) error {
	p.parseYears(rs)
	if err := p.parseMonths(rs); err != nil {
		return err
	}
	if err := p.parseWeeks(rs); err != nil {
		return err
	}

	if p.kind() == tokColon && (rs.HasYears() || rs.HasMonths() || rs.HasWeeks()) {
		rs.SeparatorForReadability = true
		p.advance()
	}

	if err := p.parseWeekdays(rs); err != nil {
		return err
	}
	return p.parseTimes(rs)
}

// yearStartAt reports whether the token at i opens a year range rather than
// the year of a monthday; a year directly followed by a month or "easter"
// belongs to the monthday group.
func (p *parser) yearStartAt(i int) bool {
	if !isYearToken(p.at(i)) {
		return false
	}
	next := p.at(i + 1)
	return wordMonth(next) == MonthNone && !wordIs(next, "easter")
}

func (p *parser) parseYears(rs *RuleSequence) {
	for p.yearStartAt(p.pos) {
		var yr YearRange
		yr.Start = p.tok().num
		p.advance()
		if p.kind() == tokDash && isYearToken(p.peek(1)) {
			p.advance()
			yr.End = p.tok().num
			p.advance()
			if p.kind() == tokSlash && p.peek(1).kind == tokNumber {
				p.advance()
				yr.Period = p.tok().num
				p.advance()
			}
		} else if p.kind() == tokPlus {
			yr.Plus = true
			p.advance()
		}
		rs.Years = append(rs.Years, yr)

		if p.kind() == tokComma && p.yearStartAt(p.pos+1) {
			p.advance()
			continue
		}
		break
	}
}

func (p *parser) monthdayStartAt(i int) bool {
	t := p.at(i)
	if wordMonth(t) != MonthNone || wordIs(t, "easter") {
		return true
	}
	if isYearToken(t) {
		next := p.at(i + 1)
		return wordMonth(next) != MonthNone || wordIs(next, "easter")
	}
	return false
}

// monthdayEndAt additionally allows a bare day number, the "Jan 01-15" form.
func (p *parser) monthdayEndAt(i int) bool {
	if p.monthdayStartAt(i) {
		return true
	}
	t := p.at(i)
	return t.kind == tokNumber && t.num >= 1 && t.num <= 31 &&
		!isYearToken(t) && p.at(i+1).kind != tokColon
}

func (p *parser) parseMonths(rs *RuleSequence) error {
	for p.monthdayStartAt(p.pos) {
		r, err := p.parseMonthdayRange()
		if err != nil {
			return err
		}
		rs.Months = append(rs.Months, r)

		if p.kind() == tokComma && p.monthdayStartAt(p.pos+1) {
			p.advance()
			continue
		}
		break
	}
	return nil
}

func (p *parser) parseMonthdayRange() (MonthdayRange, error) {
	var r MonthdayRange
	start, err := p.parseMonthDay(false)
	if err != nil {
		return r, err
	}
	r.Start = start

	if p.kind() == tokDash && p.monthdayEndAt(p.pos+1) {
		p.advance()
		end, err := p.parseMonthDay(true)
		if err != nil {
			return r, err
		}
		r.End = end
		if p.kind() == tokSlash && p.peek(1).kind == tokNumber {
			p.advance()
			r.Period = p.tok().num
			p.advance()
		}
	} else if p.kind() == tokPlus {
		r.Plus = true
		p.advance()
	}
	return r, nil
}

func (p *parser) parseMonthDay(allowBareDay bool) (MonthDay, error) {
	var md MonthDay

	if isYearToken(p.tok()) &&
		(wordMonth(p.peek(1)) != MonthNone || wordIs(p.peek(1), "easter")) {
		md.Year = p.tok().num
		p.advance()
	}

	switch {
	case wordIs(p.tok(), "easter"):
		md.Variable = Easter
		p.advance()
	case wordMonth(p.tok()) != MonthNone:
		md.Month = wordMonth(p.tok())
		p.advance()
		if p.dayNumberAt(p.pos) {
			md.Day = p.tok().num
			p.advance()
		}
	case allowBareDay && p.dayNumberAt(p.pos):
		md.Day = p.tok().num
		p.advance()
	default:
		return md, p.errf("expected month, day number or easter")
	}

	p.parseDateOffset(&md.Offset)
	return md, nil
}

// dayNumberAt rejects numbers that open a clock time ("Jan 08:00" selects
// January, not the 8th).
func (p *parser) dayNumberAt(i int) bool {
	t := p.at(i)
	return t.kind == tokNumber && t.num >= 1 && t.num <= 31 &&
		!isYearToken(t) && p.at(i+1).kind != tokColon
}

func (p *parser) parseDateOffset(o *DateOffset) {
	if (p.kind() == tokPlus || p.kind() == tokDash) && wordWeekday(p.peek(1)) != WeekdayNone {
		o.Positive = p.kind() == tokPlus
		o.WeekdayShift = wordWeekday(p.peek(1))
		p.advanceN(2)
	}
	if n, ok := p.parseDayOffsetSuffix(); ok {
		o.Days = n
	}
}

// parseDayOffsetSuffix consumes the "+2 days" / "-1 day" form.
func (p *parser) parseDayOffsetSuffix() (int, bool) {
	if (p.kind() == tokPlus || p.kind() == tokDash) &&
		p.peek(1).kind == tokNumber && isDayWord(p.peek(2)) {
		n := p.peek(1).num
		if p.kind() == tokDash {
			n = -n
		}
		p.advanceN(3)
		return n, true
	}
	return 0, false
}

func (p *parser) parseWeeks(rs *RuleSequence) error {
	if !wordIs(p.tok(), "week") {
		return nil
	}
	p.advance()

	for p.kind() == tokNumber {
		var wr WeekRange
		wr.Start = p.tok().num
		p.advance()
		if p.kind() == tokDash && p.peek(1).kind == tokNumber {
			p.advance()
			wr.End = p.tok().num
			p.advance()
			if p.kind() == tokSlash && p.peek(1).kind == tokNumber {
				p.advance()
				wr.Period = p.tok().num
				p.advance()
			}
		}
		rs.Weeks = append(rs.Weeks, wr)

		if p.kind() == tokComma && p.weekNumberAt(p.pos+1) {
			p.advance()
			continue
		}
		break
	}

	if len(rs.Weeks) == 0 {
		return p.errf("expected week number")
	}
	return nil
}

func (p *parser) weekNumberAt(i int) bool {
	t := p.at(i)
	return t.kind == tokNumber && t.num >= 1 && t.num <= 53 &&
		p.at(i+1).kind != tokColon
}

func (p *parser) weekdayItemAt(i int) bool {
	t := p.at(i)
	return wordWeekday(t) != WeekdayNone || isHolidayWord(t)
}

func (p *parser) parseWeekdays(rs *RuleSequence) error {
	for p.weekdayItemAt(p.pos) {
		if isHolidayWord(p.tok()) {
			h := Holiday{Plural: wordIs(p.tok(), "PH")}
			p.advance()
			if !h.Plural {
				if n, ok := p.parseDayOffsetSuffix(); ok {
					h.Offset = n
				}
			}
			rs.Weekdays.Holidays = append(rs.Weekdays.Holidays, h)
		} else {
			r, err := p.parseWeekdayRange()
			if err != nil {
				return err
			}
			rs.Weekdays.Ranges = append(rs.Weekdays.Ranges, r)
		}

		if p.kind() == tokComma && p.weekdayItemAt(p.pos+1) {
			p.advance()
			continue
		}
		break
	}
	return nil
}

func (p *parser) parseWeekdayRange() (WeekdayRange, error) {
	var r WeekdayRange
	r.Start = wordWeekday(p.tok())
	p.advance()

	if p.kind() == tokDash && wordWeekday(p.peek(1)) != WeekdayNone {
		p.advance()
		r.End = wordWeekday(p.tok())
		p.advance()
		return r, nil
	}

	if p.kind() == tokLBracket {
		p.advance()
		for {
			e, err := p.parseNthEntry()
			if err != nil {
				return r, err
			}
			r.Nths = append(r.Nths, e)
			if p.kind() == tokComma {
				p.advance()
				continue
			}
			break
		}
		if p.kind() != tokRBracket {
			return r, p.errf("expected ']'")
		}
		p.advance()
	}

	if n, ok := p.parseDayOffsetSuffix(); ok {
		r.Offset = n
	}
	return r, nil
}

func (p *parser) parseNthEntry() (NthEntry, error) {
	var e NthEntry
	if p.kind() == tokDash {
		if p.peek(1).kind != tokNumber || p.peek(1).num != 1 {
			return e, p.errf("only -1 selects the last occurrence")
		}
		p.advanceN(2)
		e.Start = NthLast
		return e, nil
	}
	if p.kind() != tokNumber || p.tok().num < 1 || p.tok().num > 5 {
		return e, p.errf("expected occurrence number 1..5")
	}
	e.Start = NthWeekdayOfMonth(p.tok().num)
	p.advance()
	if p.kind() == tokDash && p.peek(1).kind == tokNumber {
		p.advance()
		if p.tok().num < 1 || p.tok().num > 5 {
			return e, p.errf("expected occurrence number 1..5")
		}
		e.End = NthWeekdayOfMonth(p.tok().num)
		p.advance()
	}
	return e, nil
}

func (p *parser) timeStartAt(i int) bool {
	t := p.at(i)
	if t.kind == tokNumber || t.kind == tokLParen {
		return true
	}
	return wordEvent(t) != EventNone
}

func (p *parser) parseTimes(rs *RuleSequence) error {
	for p.timeStartAt(p.pos) {
		ts, err := p.parseTimespan()
		if err != nil {
			return err
		}
		rs.Times = append(rs.Times, ts)

		if p.kind() == tokComma && p.timeStartAt(p.pos+1) {
			p.advance()
			continue
		}
		break
	}
	return nil
}

func (p *parser) parseTimespan() (Timespan, error) {
	var ts Timespan
	start, err := p.parseTime()
	if err != nil {
		return ts, err
	}
	ts.Start = start

	if p.kind() == tokDash {
		p.advance()
		end, err := p.parseTime()
		if err != nil {
			return ts, err
		}
		ts.End = end
		if p.kind() == tokSlash {
			p.advance()
			per, err := p.parseClockOrMinutes()
			if err != nil {
				return ts, err
			}
			ts.Period = per
		}
	}
	if p.kind() == tokPlus {
		ts.Plus = true
		p.advance()
	}
	return ts, nil
}

func (p *parser) parseTime() (Time, error) {
	if p.kind() == tokLParen {
		return p.parseEventOffset()
	}
	if ev := wordEvent(p.tok()); ev != EventNone {
		p.advance()
		return NewEvent(ev), nil
	}
	return p.parseClockOrMinutes()
}

func (p *parser) parseClockOrMinutes() (Time, error) {
	if p.kind() != tokNumber {
		return Time{}, p.errf("expected time")
	}
	n := p.tok().num
	p.advance()
	if p.kind() == tokColon && p.peek(1).kind == tokNumber {
		p.advance()
		m := p.tok().num
		p.advance()
		return NewClockTime(n, m), nil
	}
	return NewMinutes(n), nil
}

func (p *parser) parseEventOffset() (Time, error) {
	p.advance() // '('
	ev := wordEvent(p.tok())
	if ev == EventNone {
		return Time{}, p.errf("expected event name")
	}
	p.advance()

	negative := false
	switch p.kind() {
	case tokPlus:
	case tokDash:
		negative = true
	default:
		return Time{}, p.errf("expected '+' or '-' after event name")
	}
	p.advance()

	if p.kind() != tokNumber {
		return Time{}, p.errf("expected hours in event offset")
	}
	h := p.tok().num
	p.advance()
	if p.kind() != tokColon {
		return Time{}, p.errf("expected ':' in event offset")
	}
	p.advance()
	if p.kind() != tokNumber {
		return Time{}, p.errf("expected minutes in event offset")
	}
	m := p.tok().num
	p.advance()
	if p.kind() != tokRParen {
		return Time{}, p.errf("expected ')'")
	}
	p.advance()

	offset := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute
	if negative {
		offset = -offset
	}
	return NewEventOffset(ev, offset), nil
}
