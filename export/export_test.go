package export

import (
	"strings"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openinghours"
)

// 2026-08-03 is a Monday.
func window(days int) openinghours.ExpandConfig {
	from := time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC)
	return openinghours.ExpandConfig{From: from, To: from.AddDate(0, 0, days)}
}

func TestICalWeeklyRecurrence(t *testing.T) {
	ev := &openinghours.Evaluator{Rules: openinghours.MustParse("Mo-Fr 08:00-18:00")}
	cal, err := ICal(ev, ICalConfig{Name: "Office", UIDSuffix: "@example.org", Window: window(7)})
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 1)

	ser := cal.Serialize()
	assert.Contains(t, ser, "RRULE:FREQ=WEEKLY;BYDAY=MO,TU,WE,TH,FR")
	assert.Contains(t, ser, "SUMMARY:Office")
	assert.Contains(t, ser, "UID:weekly-0@example.org")
	assert.Contains(t, ser, "DTSTART:20260803T080000Z")
	assert.Contains(t, ser, "DTEND:20260803T180000Z")
}

func TestICalWeeklySplitSpans(t *testing.T) {
	ev := &openinghours.Evaluator{Rules: openinghours.MustParse("Mo-Fr 08:00-12:00, 13:00-17:00")}
	cal, err := ICal(ev, ICalConfig{Window: window(7)})
	require.NoError(t, err)

	// One recurring event per timespan.
	require.Len(t, cal.Events(), 2)
	assert.Contains(t, cal.Serialize(), "SUMMARY:Open")
}

func TestICalExpandedFallback(t *testing.T) {
	ev := &openinghours.Evaluator{Rules: openinghours.MustParse("Sa 10:00-12:00; PH closed")}
	cal, err := ICal(ev, ICalConfig{Name: "Market", Window: window(14)})
	require.NoError(t, err)

	// Two Saturdays fall inside the window; no recurrence is emitted.
	require.Len(t, cal.Events(), 2)
	ser := cal.Serialize()
	assert.NotContains(t, ser, "RRULE")
	assert.Contains(t, ser, "SUMMARY:Market")
}

func TestICalCarriesComments(t *testing.T) {
	ev := &openinghours.Evaluator{Rules: openinghours.MustParse("Sa 10:00-12:00 unknown \"call ahead\"")}
	cal, err := ICal(ev, ICalConfig{Window: window(7)})
	require.NoError(t, err)

	require.Len(t, cal.Events(), 1)
	assert.Contains(t, cal.Serialize(), "DESCRIPTION:call ahead")
}

func TestICalRequiresWindow(t *testing.T) {
	ev := &openinghours.Evaluator{Rules: openinghours.MustParse("24/7")}
	_, err := ICal(ev, ICalConfig{})
	require.Error(t, err)
}

func TestCrontab(t *testing.T) {
	entries, err := Crontab(openinghours.MustParse("Mo-Fr 08:00-18:00"))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.Equal(t, "0 8 * * 1,2,3,4,5", entries[0].Spec)
	require.True(t, entries[0].Opening)
	require.Equal(t, "0 18 * * 1,2,3,4,5", entries[1].Spec)
	require.False(t, entries[1].Opening)

	for _, e := range entries {
		_, err := cron.ParseStandard(e.Spec)
		require.NoError(t, err, e.Spec)
	}
}

func TestCrontabDayOfWeek(t *testing.T) {
	// A wrapping range covers Saturday through Tuesday; cron counts Sunday
	// as 0 and the field is sorted.
	entries, err := Crontab(openinghours.MustParse("Sa-Tu 10:00-14:00"))
	require.NoError(t, err)
	require.Equal(t, "0 10 * * 0,1,2,6", entries[0].Spec)

	// No weekday selector runs every day.
	entries, err = Crontab(openinghours.MustParse("09:30-17:15"))
	require.NoError(t, err)
	require.Equal(t, "30 9 * * *", entries[0].Spec)
	require.Equal(t, "15 17 * * *", entries[1].Spec)
}

func TestCrontabMultipleRules(t *testing.T) {
	entries, err := Crontab(openinghours.MustParse("Mo-Fr 08:00-12:00, 13:00-17:00; Sa 10:00-14:00"))
	require.NoError(t, err)
	require.Len(t, entries, 6)
	require.Equal(t, "0 10 * * 6", entries[4].Spec)
}

func TestCrontabInexpressible(t *testing.T) {
	inputs := []string{
		"24/7",
		"Jan 08:00-18:00",
		"\"season\": open",
		"Mo closed",
		"PH 08:00-18:00",
		"Sa[1] 08:00-18:00",
		"Mo",
		"sunrise-sunset",
		"Mo 08:00-18:00/30",
		"Mo 08:00+",
		"Mo 22:00-02:00",
		"Mo 08:00-26:00",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			_, err := Crontab(openinghours.MustParse(in))
			require.Error(t, err)
			require.True(t, strings.HasPrefix(err.Error(), "not expressible as cron ("), err.Error())
		})
	}
}
