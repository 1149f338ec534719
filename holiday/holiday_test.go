package holiday

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEaster(t *testing.T) {
	tests := []struct {
		year int
		want time.Time
	}{
		{2024, date(2024, time.March, 31)},
		{2025, date(2025, time.April, 20)},
		{2026, date(2026, time.April, 5)},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, Easter(tc.year), "easter %d", tc.year)
	}
}

func TestDefDateIn(t *testing.T) {
	tests := []struct {
		name string
		def  Def
		year int
		want time.Time
		ok   bool
	}{
		{
			"fixed date",
			Def{Name: "Christmas Day", Kind: KindFixed, Month: 12, Day: 25},
			2026, date(2026, time.December, 25), true,
		},
		{
			"easter offset",
			Def{Name: "Good Friday", Kind: KindEasterOffset, Offset: -2},
			2026, date(2026, time.April, 3), true,
		},
		{
			"fourth thursday",
			Def{Name: "Thanksgiving", Kind: KindNthWeekday, Month: 11, Weekday: "thursday", Nth: 4},
			2026, date(2026, time.November, 26), true,
		},
		{
			"last monday",
			Def{Name: "Spring Bank Holiday", Kind: KindNthWeekday, Month: 5, Weekday: "monday", Nth: -1},
			2026, date(2026, time.May, 25), true,
		},
		{
			"fifth monday missing",
			Def{Name: "Nope", Kind: KindNthWeekday, Month: 2, Weekday: "monday", Nth: 5},
			2026, time.Time{}, false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.def.DateIn(tc.year)
			require.Equal(t, tc.ok, ok)
			if tc.ok {
				require.Equal(t, tc.want, got)
			}
		})
	}
}

func TestDefValidate(t *testing.T) {
	bad := []Def{
		{Name: "bad kind", Kind: "lunar"},
		{Name: "bad month", Kind: KindFixed, Month: 13, Day: 1},
		{Name: "bad day", Kind: KindFixed, Month: 1, Day: 32},
		{Name: "bad weekday", Kind: KindNthWeekday, Month: 1, Weekday: "mansday", Nth: 1},
		{Name: "bad nth", Kind: KindNthWeekday, Month: 1, Weekday: "monday", Nth: 6},
	}
	for _, d := range bad {
		c := &Calendar{Public: []Def{d}}
		assert.Error(t, c.Validate(), d.Name)
	}

	ok := &Calendar{Public: DefaultCalendar().Public}
	assert.NoError(t, ok.Validate())
}

func TestCalendarLookup(t *testing.T) {
	cal := DefaultCalendar()

	require.True(t, cal.IsPublicHoliday(date(2026, time.December, 25)))
	require.True(t, cal.IsPublicHoliday(date(2026, time.April, 3)))
	require.False(t, cal.IsPublicHoliday(date(2026, time.August, 3)))
	require.False(t, cal.IsSchoolHoliday(date(2026, time.December, 25)))

	require.Equal(t, "Good Friday", cal.NameOf(date(2026, time.April, 3)))
	require.Equal(t, "", cal.NameOf(date(2026, time.August, 3)))

	// Time of day and location do not affect the civil-date match.
	loc := time.FixedZone("UTC+9", 9*3600)
	require.True(t, cal.IsPublicHoliday(time.Date(2026, time.December, 25, 23, 30, 0, 0, loc)))
}

func TestNormalize(t *testing.T) {
	cal := &Calendar{
		Public: []Def{{Name: "  Padded  ", Month: 7, Day: 14, Weekday: " Monday "}},
	}
	cal.Normalize()

	require.Equal(t, "Padded", cal.Public[0].Name)
	require.Equal(t, KindFixed, cal.Public[0].Kind)
	require.Equal(t, "monday", cal.Public[0].Weekday)
	require.NotNil(t, cal.School)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.yaml")

	cal := DefaultCalendar()
	cal.School = []Def{{Name: "Summer Break Start", Kind: KindFixed, Month: 7, Day: 1}}
	require.NoError(t, cal.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cal, loaded)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "holidays.yaml")

	cal, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, DefaultCalendar(), cal)

	// The defaults are persisted for the next load.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestLoadRejectsBadCalendar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "holidays.yaml")
	require.NoError(t, os.WriteFile(path, []byte("public:\n  - name: bad\n    kind: lunar\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "nodir", "x.yaml"))
	require.NoError(t, err)

	_, err = Load("")
	require.Error(t, err)
}
