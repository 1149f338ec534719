package openinghours

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpandDaily(t *testing.T) {
	ev := &Evaluator{Rules: MustParse("08:00-09:00")}
	res, err := ev.Expand(ExpandConfig{From: augustAt(3, 0, 0), To: augustAt(6, 0, 0)})
	require.NoError(t, err)
	require.False(t, res.Truncated)
	require.Len(t, res.Intervals, 3)

	for i, iv := range res.Intervals {
		require.Equal(t, augustAt(3+i, 8, 0), iv.Start)
		require.Equal(t, augustAt(3+i, 9, 0), iv.End)
		require.Equal(t, StateOpen, iv.State)
	}
}

func TestExpandWeek(t *testing.T) {
	ev := &Evaluator{Rules: MustParse("Mo-Fr 08:00-12:00, 13:00-17:00")}
	res, err := ev.Expand(ExpandConfig{From: augustAt(3, 0, 0), To: augustAt(8, 0, 0)})
	require.NoError(t, err)
	require.Len(t, res.Intervals, 10)

	require.Equal(t, augustAt(3, 8, 0), res.Intervals[0].Start)
	require.Equal(t, augustAt(3, 12, 0), res.Intervals[0].End)
	require.Equal(t, augustAt(3, 13, 0), res.Intervals[1].Start)
	require.Equal(t, augustAt(7, 17, 0), res.Intervals[9].End)
}

func TestExpandMergesAcrossMidnight(t *testing.T) {
	ev := &Evaluator{Rules: MustParse("22:00-02:00")}
	res, err := ev.Expand(ExpandConfig{From: augustAt(3, 0, 0), To: augustAt(5, 0, 0)})
	require.NoError(t, err)
	require.Len(t, res.Intervals, 3)

	// The window opens mid-span; the first interval starts at the window.
	require.Equal(t, augustAt(3, 0, 0), res.Intervals[0].Start)
	require.Equal(t, augustAt(3, 2, 0), res.Intervals[0].End)

	require.Equal(t, augustAt(3, 22, 0), res.Intervals[1].Start)
	require.Equal(t, augustAt(4, 2, 0), res.Intervals[1].End)

	require.Equal(t, augustAt(4, 22, 0), res.Intervals[2].Start)
	require.Equal(t, augustAt(5, 0, 0), res.Intervals[2].End)
}

func TestExpandCarriesStateAndComment(t *testing.T) {
	ev := &Evaluator{Rules: MustParse("Mo-Fr 08:00-18:00 || \"by arrangement\"")}
	res, err := ev.Expand(ExpandConfig{From: augustAt(1, 0, 0), To: augustAt(4, 0, 0)})
	require.NoError(t, err)
	require.Len(t, res.Intervals, 2)

	// Saturday and Sunday fall through to the fallback clause and merge into
	// one unknown stretch.
	require.Equal(t, augustAt(1, 0, 0), res.Intervals[0].Start)
	require.Equal(t, augustAt(3, 0, 0), res.Intervals[0].End)
	require.Equal(t, StateUnknown, res.Intervals[0].State)
	require.Equal(t, "by arrangement", res.Intervals[0].Comment)

	require.Equal(t, augustAt(3, 8, 0), res.Intervals[1].Start)
	require.Equal(t, augustAt(3, 18, 0), res.Intervals[1].End)
	require.Equal(t, StateOpen, res.Intervals[1].State)
}

func TestExpandTruncates(t *testing.T) {
	ev := &Evaluator{Rules: MustParse("08:00-09:00")}
	res, err := ev.Expand(ExpandConfig{
		From:         augustAt(3, 0, 0),
		To:           augustAt(13, 0, 0),
		MaxIntervals: 3,
	})
	require.NoError(t, err)
	require.True(t, res.Truncated)
	require.Len(t, res.Intervals, 3)
}

func TestExpandRejectsReversedWindow(t *testing.T) {
	ev := &Evaluator{Rules: MustParse("24/7")}
	_, err := ev.Expand(ExpandConfig{From: augustAt(5, 0, 0), To: augustAt(3, 0, 0)})
	require.Error(t, err)
}
