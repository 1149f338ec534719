// Package holiday supplies the public- and school-holiday ground truth that
// opening_hours PH/SH selectors are evaluated against. Holidays are defined
// by small declarative rules (a fixed date, an nth weekday of a month, or a
// day offset from Easter) and grouped into a Calendar that can be persisted
// as YAML.
package holiday

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Easter returns the Gregorian Easter Sunday of the given year (anonymous
// Gregorian computus), at midnight UTC.
func Easter(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// Kind selects how a Def names its date.
type Kind string

const (
	// KindFixed is a fixed month and day, e.g. Dec 25.
	KindFixed Kind = "fixed"
	// KindNthWeekday is the nth (or last, nth = -1) weekday of a month.
	KindNthWeekday Kind = "nth-weekday"
	// KindEasterOffset is a day offset relative to Easter Sunday.
	KindEasterOffset Kind = "easter-offset"
)

// Def is one declarative holiday rule.
type Def struct {
	Name string `yaml:"name"`
	Kind Kind   `yaml:"kind"`

	// Month and Day define KindFixed; Month also scopes KindNthWeekday.
	Month int `yaml:"month,omitempty"`
	Day   int `yaml:"day,omitempty"`

	// Weekday is a lowercase weekday name ("monday"); Nth counts occurrences
	// within the month, -1 meaning the last one. Both are KindNthWeekday
	// fields.
	Weekday string `yaml:"weekday,omitempty"`
	Nth     int    `yaml:"nth,omitempty"`

	// Offset is the day offset from Easter for KindEasterOffset.
	Offset int `yaml:"offset,omitempty"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// DateIn resolves the rule for one year. It reports false when the rule's
// fields cannot name a date in that year (e.g. a 5th occurrence that does
// not exist).
func (d Def) DateIn(year int) (time.Time, bool) {
	switch d.Kind {
	case KindFixed:
		if d.Month < 1 || d.Month > 12 || d.Day < 1 || d.Day > 31 {
			return time.Time{}, false
		}
		return time.Date(year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC), true

	case KindNthWeekday:
		wd, ok := weekdayNames[strings.ToLower(d.Weekday)]
		if !ok || d.Month < 1 || d.Month > 12 {
			return time.Time{}, false
		}
		return nthWeekdayOf(year, time.Month(d.Month), wd, d.Nth)

	case KindEasterOffset:
		return Easter(year).AddDate(0, 0, d.Offset), true
	}
	return time.Time{}, false
}

func (d Def) validate() error {
	switch d.Kind {
	case KindFixed:
		if d.Month < 1 || d.Month > 12 {
			return errors.Errorf("holiday %q: month %d out of range", d.Name, d.Month)
		}
		if d.Day < 1 || d.Day > 31 {
			return errors.Errorf("holiday %q: day %d out of range", d.Name, d.Day)
		}
	case KindNthWeekday:
		if _, ok := weekdayNames[strings.ToLower(d.Weekday)]; !ok {
			return errors.Errorf("holiday %q: unknown weekday %q", d.Name, d.Weekday)
		}
		if d.Month < 1 || d.Month > 12 {
			return errors.Errorf("holiday %q: month %d out of range", d.Name, d.Month)
		}
		if d.Nth == 0 || d.Nth > 5 || d.Nth < -1 {
			return errors.Errorf("holiday %q: nth %d out of range", d.Name, d.Nth)
		}
	case KindEasterOffset:
		// Any offset is fine.
	default:
		return errors.Errorf("holiday %q: unknown kind %q", d.Name, d.Kind)
	}
	return nil
}

// nthWeekdayOf finds the nth occurrence of wd in the month, counting from
// the end when nth is -1.
func nthWeekdayOf(year int, month time.Month, wd time.Weekday, nth int) (time.Time, bool) {
	if nth == -1 {
		d := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC) // last day of month
		for d.Weekday() != wd {
			d = d.AddDate(0, 0, -1)
		}
		return d, true
	}
	if nth < 1 || nth > 5 {
		return time.Time{}, false
	}
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != wd {
		d = d.AddDate(0, 0, 1)
	}
	d = d.AddDate(0, 0, 7*(nth-1))
	if d.Month() != month {
		return time.Time{}, false
	}
	return d, true
}

// Calendar groups public and school holiday rules. It satisfies the
// evaluator's HolidayChecker interface.
type Calendar struct {
	Public []Def `yaml:"public"`
	School []Def `yaml:"school"`
}

// IsPublicHoliday reports whether t's civil date (in t's own location) is a
// public holiday.
func (c *Calendar) IsPublicHoliday(t time.Time) bool {
	return matchAny(c.Public, t)
}

// IsSchoolHoliday reports whether t's civil date is a school holiday.
func (c *Calendar) IsSchoolHoliday(t time.Time) bool {
	return matchAny(c.School, t)
}

// NameOf returns the name of the holiday falling on t's civil date, public
// rules first. The empty string means no holiday.
func (c *Calendar) NameOf(t time.Time) string {
	for _, d := range c.Public {
		if matches(d, t) {
			return d.Name
		}
	}
	for _, d := range c.School {
		if matches(d, t) {
			return d.Name
		}
	}
	return ""
}

func matchAny(defs []Def, t time.Time) bool {
	for _, d := range defs {
		if matches(d, t) {
			return true
		}
	}
	return false
}

func matches(d Def, t time.Time) bool {
	y, m, day := t.Date()
	resolved, ok := d.DateIn(y)
	if !ok {
		return false
	}
	ry, rm, rd := resolved.Date()
	return ry == y && rm == m && rd == day
}
