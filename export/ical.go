// Package export renders evaluated opening_hours rulesets into external
// scheduling formats: iCalendar feeds and crontab entries.
package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/pkg/errors"
	"github.com/teambition/rrule-go"

	"openinghours"
)

// ICalConfig controls calendar generation. Window bounds the expansion used
// for irregular rulesets and anchors the first occurrence of recurring ones.
type ICalConfig struct {
	// Name becomes the calendar name and event summary. Empty means "Open".
	Name string
	// UIDSuffix is appended to every generated event UID, typically
	// "@host.example".
	UIDSuffix string

	Window openinghours.ExpandConfig
}

// ICal renders the evaluator's ruleset as an iCalendar feed. A ruleset that
// is purely weekly (one open rule over weekday ranges and closed clock
// spans) yields one recurring VEVENT per timespan with a weekly RRULE; any
// other ruleset is expanded over the window into one VEVENT per non-closed
// interval.
func ICal(ev *openinghours.Evaluator, cfg ICalConfig) (*ics.Calendar, error) {
	if cfg.Window.From.IsZero() {
		return nil, errors.New("ical: expand window start required")
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	if cfg.Name != "" {
		cal.SetName(cfg.Name)
	}

	if rule, ok := weeklyRule(ev.Rules); ok {
		if err := addWeeklyEvents(cal, rule, cfg); err != nil {
			return nil, err
		}
		return cal, nil
	}

	res, err := ev.Expand(cfg.Window)
	if err != nil {
		return nil, err
	}
	stamp := time.Now().UTC()
	for i, iv := range res.Intervals {
		uid := fmt.Sprintf("%s-%d%s", iv.Start.Format("20060102T150405"), i, cfg.UIDSuffix)
		e := cal.AddEvent(uid)
		e.SetDtStampTime(stamp)
		e.SetStartAt(iv.Start)
		e.SetEndAt(iv.End)
		e.SetSummary(summary(cfg))
		if iv.Comment != "" {
			e.SetDescription(iv.Comment)
		}
	}
	return cal, nil
}

func summary(cfg ICalConfig) string {
	if cfg.Name != "" {
		return cfg.Name
	}
	return "Open"
}

// weeklyRule reports whether the ruleset reduces to a single plain weekly
// schedule: one open rule, weekday ranges without qualifiers or holidays,
// and closed clock timespans.
func weeklyRule(rules openinghours.RuleSequences) (openinghours.RuleSequence, bool) {
	if len(rules) != 1 {
		return openinghours.RuleSequence{}, false
	}
	r := rules[0]
	if r.TwentyFourHours || r.HasYears() || r.HasMonths() || r.HasWeeks() || r.HasComment() {
		return r, false
	}
	if r.Modifier != openinghours.ModifierDefaultOpen && r.Modifier != openinghours.ModifierOpen {
		return r, false
	}
	if !r.Weekdays.HasWeekday() || r.Weekdays.HasHolidays() {
		return r, false
	}
	for _, wr := range r.Weekdays.Ranges {
		if wr.HasNth() || wr.HasOffset() || !wr.HasStart() {
			return r, false
		}
	}
	if !r.HasTimes() {
		return r, false
	}
	for _, span := range r.Times {
		if !clockSpan(span) {
			return r, false
		}
	}
	return r, true
}

func clockSpan(span openinghours.Timespan) bool {
	return span.HasStart() && span.HasEnd() &&
		!span.Start.IsEvent() && !span.End.IsEvent() &&
		!span.HasPeriod() && !span.Plus
}

var rruleDays = map[openinghours.Weekday]rrule.Weekday{
	openinghours.Sunday:    rrule.SU,
	openinghours.Monday:    rrule.MO,
	openinghours.Tuesday:   rrule.TU,
	openinghours.Wednesday: rrule.WE,
	openinghours.Thursday:  rrule.TH,
	openinghours.Friday:    rrule.FR,
	openinghours.Saturday:  rrule.SA,
}

func addWeeklyEvents(cal *ics.Calendar, rule openinghours.RuleSequence, cfg ICalConfig) error {
	days := weekdaySet(rule.Weekdays.Ranges)
	byday := make([]rrule.Weekday, 0, len(days))
	for _, wd := range days {
		byday = append(byday, rruleDays[wd])
	}

	stamp := time.Now().UTC()
	for i, span := range rule.Times {
		first := firstMatchingDay(cfg.Window.From, days)
		start := first.Add(time.Duration(span.Start.Hours())*time.Hour +
			time.Duration(span.Start.Minutes())*time.Minute)
		end := first.Add(time.Duration(span.End.Hours())*time.Hour +
			time.Duration(span.End.Minutes())*time.Minute)
		if !end.After(start) {
			end = end.AddDate(0, 0, 1)
		}

		opt := rrule.ROption{Freq: rrule.WEEKLY, Byweekday: byday, Dtstart: start}
		if _, err := rrule.NewRRule(opt); err != nil {
			return errors.Wrap(err, "build weekly rrule")
		}

		e := cal.AddEvent(fmt.Sprintf("weekly-%d%s", i, cfg.UIDSuffix))
		e.SetDtStampTime(stamp)
		e.SetStartAt(start)
		e.SetEndAt(end)
		e.SetSummary(summary(cfg))
		e.AddRrule(opt.RRuleString())
	}
	return nil
}

// weekdaySet enumerates the distinct weekdays the ranges cover, wrap-aware,
// in range order.
func weekdaySet(ranges []openinghours.WeekdayRange) []openinghours.Weekday {
	seen := map[openinghours.Weekday]bool{}
	var days []openinghours.Weekday
	for _, r := range ranges {
		for i := 0; i < r.DaysCount(); i++ {
			wd := openinghours.Weekday((int(r.Start)-1+i)%7 + 1)
			if !seen[wd] {
				seen[wd] = true
				days = append(days, wd)
			}
		}
	}
	return days
}

// firstMatchingDay returns the midnight of the first day on or after from
// whose weekday is in days.
func firstMatchingDay(from time.Time, days []openinghours.Weekday) time.Time {
	y, m, d := from.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, from.Location())
	for i := 0; i < 7; i++ {
		wd := openinghours.Weekday(int(day.Weekday()) + 1)
		for _, want := range days {
			if wd == want {
				return day
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return day
}
