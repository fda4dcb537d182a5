package diff

import (
	"fmt"
	"io"

	"github.com/sergi/go-diff/diffmatchpatch"

	"docblock-annotator/internal/textutil"
)

// SegmentKind classifies one line of a line diff.
type SegmentKind int

const (
	Equal SegmentKind = iota
	Added
	Removed
)

// Segment is one line of a line diff, without its line terminator.
type Segment struct {
	Kind SegmentKind
	Line string
}

// Lines aligns a and b line by line.
func Lines(a, b string) []Segment {
	dmp := diffmatchpatch.New()
	ra, rb, lines := dmp.DiffLinesToRunes(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(ra, rb, false), lines)

	var segs []Segment
	for _, d := range diffs {
		kind := Equal
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			kind = Added
		case diffmatchpatch.DiffDelete:
			kind = Removed
		}
		for _, l := range textutil.SplitLinesKeepNL(d.Text) {
			segs = append(segs, Segment{Kind: kind, Line: textutil.TrimEOL(l)})
		}
	}
	return segs
}

// Window trims segs to the smallest range covering every change, widened by
// one unchanged line on each side when available. It returns nil when
// nothing changed.
func Window(segs []Segment) []Segment {
	begin, end := -1, -1
	for i, s := range segs {
		if s.Kind == Equal {
			continue
		}
		if begin < 0 {
			begin = i
		}
		end = i
	}
	if begin < 0 {
		return nil
	}
	if begin > 0 {
		begin--
	}
	if end < len(segs)-1 {
		end++
	}
	return segs[begin : end+1]
}

// Render prints segments as "   | +line", "   | -line" or "   |  line".
func Render(w io.Writer, segs []Segment) error {
	for _, s := range segs {
		mark := ' '
		switch s.Kind {
		case Added:
			mark = '+'
		case Removed:
			mark = '-'
		}
		if _, err := fmt.Fprintf(w, "   | %c%s\n", mark, s.Line); err != nil {
			return err
		}
	}
	return nil
}

// Preview writes the trimmed line diff of a↦b to w. Equal texts print
// nothing.
func Preview(w io.Writer, a, b string) error {
	if a == b {
		return nil
	}
	return Render(w, Window(Lines(a, b)))
}
