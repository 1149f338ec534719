package export

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"openinghours"
)

// CronEntry is one 5-field cron expression marking a state transition:
// Opening for the start of an open span, closing otherwise.
type CronEntry struct {
	Spec    string
	Opening bool
}

// Crontab converts a ruleset into the cron expressions of its open/close
// transition moments. Only plain weekly clock schedules are expressible;
// date selectors, holidays, nth qualifiers, events, periods and open-ended
// or midnight-crossing spans yield an error. Every generated expression is
// checked against the standard cron parser before being returned.
func Crontab(rules openinghours.RuleSequences) ([]CronEntry, error) {
	var entries []CronEntry
	for _, r := range rules {
		if r.TwentyFourHours {
			return nil, errors.New("not expressible as cron (24/7 never changes state)")
		}
		if r.HasYears() || r.HasMonths() || r.HasWeeks() {
			return nil, errors.New("not expressible as cron (date selectors not supported)")
		}
		if r.HasComment() {
			return nil, errors.New("not expressible as cron (comment rules not supported)")
		}
		if r.Modifier != openinghours.ModifierDefaultOpen && r.Modifier != openinghours.ModifierOpen {
			return nil, errors.New("not expressible as cron (only open rules are supported)")
		}
		if r.Weekdays.HasHolidays() {
			return nil, errors.New("not expressible as cron (holiday selectors not supported)")
		}
		for _, wr := range r.Weekdays.Ranges {
			if wr.HasNth() || wr.HasOffset() {
				return nil, errors.New("not expressible as cron (nth and offset weekday selectors not supported)")
			}
		}
		if !r.HasTimes() {
			return nil, errors.New("not expressible as cron (rule has no timespans)")
		}

		dow := cronDOW(r.Weekdays.Ranges)
		for _, span := range r.Times {
			if span.Start.IsEvent() || span.End.IsEvent() {
				return nil, errors.New("not expressible as cron (event times not supported)")
			}
			if span.HasPeriod() || span.Plus || !span.HasEnd() {
				return nil, errors.New("not expressible as cron (periods and open spans not supported)")
			}

			sh, sm := span.Start.Hours(), span.Start.Minutes()
			eh, em := span.End.Hours(), span.End.Minutes()
			if sh > 23 || eh > 23 {
				return nil, errors.New("not expressible as cron (spans reaching past midnight not supported)")
			}
			if eh*60+em <= sh*60+sm {
				return nil, errors.New("not expressible as cron (spans crossing midnight not supported)")
			}

			opening := CronEntry{Spec: fmt.Sprintf("%d %d * * %s", sm, sh, dow), Opening: true}
			closing := CronEntry{Spec: fmt.Sprintf("%d %d * * %s", em, eh, dow)}
			for _, e := range []CronEntry{opening, closing} {
				if _, err := cron.ParseStandard(e.Spec); err != nil {
					return nil, errors.Wrapf(err, "generated cron spec %q", e.Spec)
				}
			}
			entries = append(entries, opening, closing)
		}
	}
	return entries, nil
}

// cronDOW renders the weekday ranges as a cron day-of-week field
// (Sunday = 0), "*" when no weekday selector is present.
func cronDOW(ranges []openinghours.WeekdayRange) string {
	if len(ranges) == 0 {
		return "*"
	}
	var nums []int
	for _, wd := range weekdaySet(ranges) {
		nums = append(nums, int(wd)-1)
	}
	sort.Ints(nums)
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}
