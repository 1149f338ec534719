package openinghours

import (
	"fmt"
	"strings"
)

// appendDayOffset writes a signed day-count suffix such as "+2 days" or
// "-1 day". A zero offset writes nothing at all, including the leading space.
func appendDayOffset(sb *strings.Builder, offset int, leadingSpace bool) {
	if offset == 0 {
		return
	}
	if leadingSpace {
		sb.WriteByte(' ')
	}
	fmt.Fprintf(sb, "%+d day", offset)
	if offset > 1 || offset < -1 {
		sb.WriteByte('s')
	}
}

// appendPadded writes value zero-padded to width columns.
func appendPadded(sb *strings.Builder, value, width int) {
	fmt.Fprintf(sb, "%0*d", width, value)
}

// appendJoined writes items separated by sep.
func appendJoined[T fmt.Stringer](sb *strings.Builder, items []T, sep string) {
	for i, item := range items {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(item.String())
	}
}

// spacedWriter latches after the first fragment so that every later fragment
// is preceded by exactly one space. Shared by the rule-sequence and month-day
// printers.
type spacedWriter struct {
	sb      *strings.Builder
	printed bool
}

func (w *spacedWriter) next() {
	if w.printed {
		w.sb.WriteByte(' ')
	}
	w.printed = true
}

func intAbs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
