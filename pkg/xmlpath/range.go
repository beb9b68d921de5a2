package xmlpath

import (
	"cmp"
	"fmt"
)

// Range locates a span of source text. Lines and columns are 1-based and
// ColStop is exclusive.
type Range struct {
	LineStart int
	ColStart  int
	LineStop  int
	ColStop   int
}

// Compare orders ranges by start line, start column, stop line, then stop
// column.
func (r Range) Compare(o Range) int {
	if c := cmp.Compare(r.LineStart, o.LineStart); c != 0 {
		return c
	}
	if c := cmp.Compare(r.ColStart, o.ColStart); c != 0 {
		return c
	}
	if c := cmp.Compare(r.LineStop, o.LineStop); c != 0 {
		return c
	}
	return cmp.Compare(r.ColStop, o.ColStop)
}

// IsZero reports whether r was never set.
func (r Range) IsZero() bool { return r == Range{} }

func (r Range) String() string {
	return fmt.Sprintf("%d:%d - %d:%d", r.LineStart, r.ColStart, r.LineStop, r.ColStop)
}

// span merges two ranges into one running from the start of r to the stop
// of o.
func (r Range) span(o Range) Range {
	return Range{LineStart: r.LineStart, ColStart: r.ColStart, LineStop: o.LineStop, ColStop: o.ColStop}
}

// Replace substitutes text for the span r covers in lines and returns the
// resulting lines. Lines between the start and stop line are removed. A
// range outside of lines returns lines unchanged.
//
// When applying several replacements to one document, apply them in
// descending [Range.Compare] order so earlier ranges stay valid.
func Replace(lines []string, r Range, text string) []string {
	if r.LineStart < 1 || r.LineStop < r.LineStart || r.LineStop > len(lines) {
		return lines
	}
	first := []rune(lines[r.LineStart-1])
	last := []rune(lines[r.LineStop-1])
	if r.ColStart < 1 || r.ColStart-1 > len(first) || r.ColStop < 1 || r.ColStop-1 > len(last) {
		return lines
	}
	merged := string(first[:r.ColStart-1]) + text + string(last[r.ColStop-1:])

	out := make([]string, 0, len(lines)-(r.LineStop-r.LineStart))
	out = append(out, lines[:r.LineStart-1]...)
	out = append(out, merged)
	out = append(out, lines[r.LineStop:]...)
	return out
}
