package openinghours

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The canonical corpus: rendering the parse result must reproduce the input
// byte for byte, and a second round trip must be stable.
func TestParseRoundTrip(t *testing.T) {
	inputs := []string{
		"24/7",
		"24/7 closed",
		"Mo-Fr 08:00-18:00",
		"Mo-Fr 08:00-18:00; Sa 09:00-13:00; PH closed",
		"Mo-Fr 08:00-12:00, 13:00-17:00",
		"Mo, We, Fr 10:00-12:00",
		"Sa-Tu 10:00-14:00",
		"Sa[1,3] 10:00-12:00",
		"Sa[2-4] 10:00-12:00",
		"Su[-1] 10:00-12:00",
		"Sa[1] +2 days 10:00-12:00",
		"Su -1 day 10:00-12:00",
		"PH, Mo-Fr 08:00-18:00",
		"SH +1 day 10:00-12:00",
		"Jan 08:00-18:00",
		"Jan-Feb: Mo-Fr 08:00-18:00",
		"Jan 01-15 10:00-14:00",
		"Jan 01-Feb 15/3",
		"Jan 01+",
		"2024 Jan 05-2025 Feb 10",
		"2024 easter",
		"easter -2 days-easter +2 days closed",
		"Oct 31 -Su",
		"Nov 01 +Su +2 days",
		"week 01-05/2, 10 Mo 08:00-10:00",
		"1995-2005/2 10:00-14:00",
		"2020+ Mo-Fr 08:00-18:00",
		"2024-2026/2: Mo 08:00-10:00",
		"10:00+",
		"08:00-18:00/30",
		"08:00-18:00/01:30",
		"sunrise-sunset",
		"(sunrise+01:30)-sunset",
		"dawn-(dusk-00:30)",
		"Mo-Fr 10:00-20:00 unknown \"maybe\"",
		"\"season\": open",
		"\"on appointment\"",
		"Mo-Fr 08:00-18:00 || \"by arrangement\"",
		"Mo-Fr 08:00-12:00, Sa 10:00-11:00",
		"Mo-Fr 22:00-02:00",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			rules, err := Parse(in)
			require.NoError(t, err)
			got := rules.String()
			require.Equal(t, in, got)

			again, err := Parse(got)
			require.NoError(t, err)
			assert.Equal(t, got, again.String())
		})
	}
}

// Liberal spellings normalize to the canonical form.
func TestParseNormalizes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"monday-friday 8:00-18:00", "Mo-Fr 08:00-18:00"},
		{"MO-FR 08:00-18:00", "Mo-Fr 08:00-18:00"},
		{"Mo-Fr 08:00-18:00;Sa 09:00-13:00", "Mo-Fr 08:00-18:00; Sa 09:00-13:00"},
		{"PH off", "PH closed"},
		{"january 05", "Jan 05"},
		{"Mo   08:00 - 12:00", "Mo 08:00-12:00"},
		{"week 1-5 Mo", "week 01-05 Mo"},
		{"Mo 9:00", "Mo 09:00"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			rules, err := Parse(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, rules.String())
		})
	}
}

func TestParseStructure(t *testing.T) {
	rules, err := Parse("Mo-Fr 08:00-18:00; PH closed || \"by arrangement\"")
	require.NoError(t, err)
	require.Len(t, rules, 3)

	require.Equal(t, ";", rules[0].Separator)
	require.True(t, rules[0].Weekdays.Ranges[0].HasMonday())
	require.Len(t, rules[0].Times, 1)

	require.Equal(t, "||", rules[1].Separator)
	require.True(t, rules[1].Weekdays.Holidays[0].Plural)
	require.Equal(t, ModifierClosed, rules[1].Modifier)

	require.Equal(t, ModifierCommentOnly, rules[2].Modifier)
	require.Equal(t, "by arrangement", rules[2].ModifierComment)
}

func TestParseDisambiguation(t *testing.T) {
	// A four-digit number followed by a month is the year of a monthday, not
	// a year selector.
	rules, err := Parse("2024 Jan 05")
	require.NoError(t, err)
	require.Empty(t, rules[0].Years)
	require.Equal(t, 2024, rules[0].Months[0].Start.Year)

	// A number followed by a colon is a clock time, never a day of month.
	rules, err = Parse("Jan 08:00-18:00")
	require.NoError(t, err)
	require.False(t, rules[0].Months[0].Start.HasDay())
	require.Len(t, rules[0].Times, 1)

	// A comma continues the current list only when the next token fits it.
	rules, err = Parse("Mo 08:00-12:00, We 14:00-16:00")
	require.NoError(t, err)
	require.Len(t, rules, 2)
	require.Equal(t, ",", rules[0].Separator)
}

func TestParseErrors(t *testing.T) {
	inputs := []string{
		"",
		";",
		"Mo-",
		"Mo[6]",
		"Mo[1-6]",
		"Mo[",
		"week",
		"\"unterminated",
		"Mo | Tu",
		"Mo & Tu",
		"(sunrise)",
		"(noon+01:00)",
		"Mo-Fr 08:00-18:00 extra garbage",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			require.Error(t, err)
		})
	}
}

func TestMustParsePanics(t *testing.T) {
	require.Panics(t, func() { MustParse("Mo[6]") })
	require.NotPanics(t, func() { MustParse("24/7") })
}
