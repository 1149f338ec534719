package openinghours

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRuleSequenceString(t *testing.T) {
	tests := []struct {
		name string
		in   RuleSequence
		want string
	}{
		{"around the clock", RuleSequence{TwentyFourHours: true}, "24/7"},
		{
			"around the clock closed",
			RuleSequence{TwentyFourHours: true, Modifier: ModifierClosed},
			"24/7 closed",
		},
		{
			"weekdays and times",
			RuleSequence{
				Weekdays: Weekdays{Ranges: []WeekdayRange{{Start: Monday, End: Friday}}},
				Times:    []Timespan{{Start: NewClockTime(8, 0), End: NewClockTime(18, 0)}},
			},
			"Mo-Fr 08:00-18:00",
		},
		{
			"multiple timespans",
			RuleSequence{
				Times: []Timespan{
					{Start: NewClockTime(8, 0), End: NewClockTime(12, 0)},
					{Start: NewClockTime(13, 0), End: NewClockTime(17, 0)},
				},
			},
			"08:00-12:00, 13:00-17:00",
		},
		{
			"readability separator",
			RuleSequence{
				Months: []MonthdayRange{
					{Start: MonthDay{Month: January}, End: MonthDay{Month: February}},
				},
				SeparatorForReadability: true,
				Weekdays:                Weekdays{Ranges: []WeekdayRange{{Start: Monday, End: Friday}}},
			},
			"Jan-Feb: Mo-Fr",
		},
		{
			"weeks carry the keyword",
			RuleSequence{
				Weeks:    []WeekRange{{Start: 1, End: 5, Period: 2}, {Start: 10}},
				Weekdays: Weekdays{Ranges: []WeekdayRange{{Start: Monday}}},
			},
			"week 01-05/2, 10 Mo",
		},
		{
			"comment replaces selectors",
			RuleSequence{Comment: "season", Modifier: ModifierOpen},
			"\"season\": open",
		},
		{
			"comment only clause",
			RuleSequence{Modifier: ModifierCommentOnly, ModifierComment: "on appointment"},
			"\"on appointment\"",
		},
		{
			"modifier with comment",
			RuleSequence{
				Weekdays:        Weekdays{Ranges: []WeekdayRange{{Start: Saturday}}},
				Modifier:        ModifierUnknown,
				ModifierComment: "maybe",
			},
			"Sa unknown \"maybe\"",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.in.String())
		})
	}
}

func TestRuleSequencesString(t *testing.T) {
	open := RuleSequence{
		Weekdays: Weekdays{Ranges: []WeekdayRange{{Start: Monday, End: Friday}}},
		Times:    []Timespan{{Start: NewClockTime(8, 0), End: NewClockTime(18, 0)}},
	}
	closedPH := RuleSequence{
		Weekdays: Weekdays{Holidays: []Holiday{{Plural: true}}},
		Modifier: ModifierClosed,
	}
	fallback := RuleSequence{Modifier: ModifierCommentOnly, ModifierComment: "by arrangement"}

	semi := open
	semi.Separator = ";"
	require.Equal(t, "Mo-Fr 08:00-18:00; PH closed", RuleSequences{semi, closedPH}.String())

	// An unset separator defaults to ";".
	require.Equal(t, "Mo-Fr 08:00-18:00; PH closed", RuleSequences{open, closedPH}.String())

	comma := open
	comma.Separator = ","
	require.Equal(t, "Mo-Fr 08:00-18:00, PH closed", RuleSequences{comma, closedPH}.String())

	bar := open
	bar.Separator = "||"
	require.Equal(t, "Mo-Fr 08:00-18:00 || \"by arrangement\"", RuleSequences{bar, fallback}.String())
}
