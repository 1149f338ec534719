package openinghours

import (
	"strconv"
	"strings"
)

// YearRange is a contiguous run of years with an optional repeat period and
// an optional open end (Plus). Zero start and end mean "unset".
type YearRange struct {
	Start  int
	End    int
	Period int
	Plus   bool
}

func (r YearRange) IsEmpty() bool   { return !r.HasStart() && !r.HasEnd() }
func (r YearRange) IsOpen() bool    { return r.HasStart() && !r.HasEnd() }
func (r YearRange) HasStart() bool  { return r.Start != 0 }
func (r YearRange) HasEnd() bool    { return r.End != 0 }
func (r YearRange) HasPlus() bool   { return r.Plus }
func (r YearRange) HasPeriod() bool { return r.Period != 0 }

func (r YearRange) String() string {
	var sb strings.Builder
	r.appendTo(&sb)
	return sb.String()
}

func (r YearRange) appendTo(sb *strings.Builder) {
	if r.IsEmpty() {
		return
	}
	sb.WriteString(strconv.Itoa(r.Start))
	if r.HasEnd() {
		sb.WriteByte('-')
		sb.WriteString(strconv.Itoa(r.End))
		if r.HasPeriod() {
			sb.WriteByte('/')
			sb.WriteString(strconv.Itoa(r.Period))
		}
	} else if r.Plus {
		sb.WriteByte('+')
	}
}

// WeekRange is a contiguous run of ISO week numbers with an optional repeat
// period. Week numbers render zero-padded to two digits; the containing list
// carries the "week " prefix.
type WeekRange struct {
	Start  int
	End    int
	Period int
}

func (r WeekRange) IsEmpty() bool   { return !r.HasStart() && !r.HasEnd() }
func (r WeekRange) IsOpen() bool    { return r.HasStart() && !r.HasEnd() }
func (r WeekRange) HasStart() bool  { return r.Start != 0 }
func (r WeekRange) HasEnd() bool    { return r.End != 0 }
func (r WeekRange) HasPeriod() bool { return r.Period != 0 }

func (r WeekRange) String() string {
	var sb strings.Builder
	r.appendTo(&sb)
	return sb.String()
}

func (r WeekRange) appendTo(sb *strings.Builder) {
	if r.IsEmpty() {
		return
	}
	appendPadded(sb, r.Start, 2)
	if r.HasEnd() {
		sb.WriteByte('-')
		appendPadded(sb, r.End, 2)
		if r.HasPeriod() {
			sb.WriteByte('/')
			sb.WriteString(strconv.Itoa(r.Period))
		}
	}
}
