// Package openinghours models the OSM opening_hours mini-language: a compact
// textual grammar for recurring availability windows such as
//
//	Mo-Fr 08:00-18:00; Sa 09:00-13:00; PH off
//
// The package provides the abstract syntax (rule sequences built from year,
// month, week, weekday, holiday and time selectors), a canonical-text
// serializer (every entity has a String method), a recognizer (Parse), and an
// evaluator that answers "what state does this expression assert at instant
// T" (Evaluator.StateAt) and materializes concrete open intervals
// (Evaluator.Expand).
//
// Example usage:
//
//	rules, err := openinghours.Parse("Mo-Fr 10:00-20:00; PH off")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ev := &openinghours.Evaluator{Rules: rules}
//	if ev.IsOpenAt(time.Now()) {
//	    fmt.Println("open, come in")
//	}
//
// Timezones are the caller's concern: instants are interpreted in their own
// time.Location. Sunrise/sunset clocks are injected through an
// EventTimeResolver; the package performs no astronomical computation itself.
package openinghours

import "strings"

// RuleSequences is a full opening_hours expression: an ordered list of rule
// clauses. Consecutive clauses are joined by the separator carried on the
// preceding clause (";", "," or "||").
type RuleSequences []RuleSequence

// String renders the expression in canonical form. The "||" separator is
// space-padded on both sides, every other separator only on the right. The
// last clause's separator is never consulted.
func (rs RuleSequences) String() string {
	var sb strings.Builder
	for i, r := range rs {
		if i > 0 {
			sep := rs[i-1].Separator
			if sep == "" {
				sep = ";"
			}
			if sep == "||" {
				sb.WriteString(" || ")
			} else {
				sb.WriteString(sep)
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(r.String())
	}
	return sb.String()
}
