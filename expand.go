package openinghours

import (
	"sort"
	"time"

	"github.com/pkg/errors"

	appLog "openinghours/internal/log"
)

const defaultMaxIntervals = 5000

// ExpandConfig controls how a ruleset is materialized into concrete
// intervals.
type ExpandConfig struct {
	// From / To define the half-open expansion window [From, To).
	From time.Time
	To   time.Time

	// MaxIntervals is a safety cap to avoid extremely large expansions. If
	// zero, defaultMaxIntervals is used.
	MaxIntervals int
}

// Interval is one contiguous stretch of non-closed state.
type Interval struct {
	Start   time.Time
	End     time.Time
	State   State
	Comment string
}

// ExpandResult wraps the materialized intervals and whether the cap cut the
// expansion short.
type ExpandResult struct {
	Intervals []Interval
	Truncated bool
}

// Expand walks the window day by day, cuts each day at every point where a
// timespan of any clause can change the verdict, evaluates the state on each
// segment, and merges adjacent segments with equal state and comment, also
// across midnight. Closed stretches are omitted.
func (e *Evaluator) Expand(cfg ExpandConfig) (ExpandResult, error) {
	var result ExpandResult

	if cfg.To.Before(cfg.From) {
		return result, errors.New("expand: To is before From")
	}
	if cfg.MaxIntervals <= 0 {
		cfg.MaxIntervals = defaultMaxIntervals
	}

	var current *Interval
	flush := func() {
		if current != nil {
			result.Intervals = append(result.Intervals, *current)
			current = nil
		}
	}

	y, m, d := cfg.From.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, cfg.From.Location())

scan:
	for ; day.Before(cfg.To); day = day.AddDate(0, 0, 1) {
		cuts := e.dayCuts(day)
		for i, minute := range cuts {
			segStart := day.Add(time.Duration(minute) * time.Minute)
			segEnd := day.Add(24 * time.Hour)
			if i+1 < len(cuts) {
				segEnd = day.Add(time.Duration(cuts[i+1]) * time.Minute)
			}

			if !segEnd.After(cfg.From) || !segStart.Before(cfg.To) {
				continue
			}
			if segStart.Before(cfg.From) {
				segStart = cfg.From
			}
			if segEnd.After(cfg.To) {
				segEnd = cfg.To
			}

			v := e.StateAt(segStart)
			if v.State == StateClosed {
				flush()
				continue
			}

			if current != nil && current.End.Equal(segStart) &&
				current.State == v.State && current.Comment == v.Comment {
				current.End = segEnd
				continue
			}

			flush()
			if len(result.Intervals) >= cfg.MaxIntervals {
				result.Truncated = true
				appLog.Error("expand: truncated intervals due to cap",
					errors.New("max intervals reached"),
					"cap", cfg.MaxIntervals,
				)
				break scan
			}
			current = &Interval{Start: segStart, End: segEnd, State: v.State, Comment: v.Comment}
		}
	}
	flush()

	if result.Truncated && len(result.Intervals) > cfg.MaxIntervals {
		result.Intervals = result.Intervals[:cfg.MaxIntervals]
	}
	return result, nil
}

// dayCuts returns the sorted minutes of the day at which the verdict can
// change: midnight plus every resolved span boundary and period hit of every
// clause.
func (e *Evaluator) dayCuts(day time.Time) []int {
	const dayMinutes = 24 * 60
	seen := map[int]bool{0: true}

	add := func(m int) {
		m %= dayMinutes
		if m < 0 {
			m += dayMinutes
		}
		seen[m] = true
	}

	for _, r := range e.Rules {
		for _, span := range r.Times {
			s := e.resolveMinutes(span.Start, day)
			add(s)

			switch {
			case span.IsOpen() && !span.Plus:
				add(s + 1)
				continue
			case span.IsOpen():
				// Open "+" spans run to the end of the day; midnight is
				// already a cut.
				continue
			}

			end := e.resolveMinutes(span.End, day)
			add(end)

			if span.HasPeriod() {
				period := span.Period.totalMinutes()
				if period <= 0 {
					continue
				}
				length := end - s
				if length <= 0 {
					length += dayMinutes
				}
				for off := 0; off <= length; off += period {
					add(s + off)
					add(s + off + 1)
				}
			}
		}
	}

	cuts := make([]int, 0, len(seen))
	for m := range seen {
		cuts = append(cuts, m)
	}
	sort.Ints(cuts)
	return cuts
}
