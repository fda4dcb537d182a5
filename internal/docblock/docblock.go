// Package docblock reads and writes PHP documentation blocks on top of a
// lexer token stream.
//
// This file provides:
//   - Opener: the "/**" matching a "*/"
//   - ParseExisting: the recognized annotations already present in a block
//   - NeedsBlankLine: whether appended tags need a separating " *" line
//   - Render: a brand-new block for a declaration without one
package docblock

import (
	"strings"

	"docblock-annotator/internal/annotation"
	"docblock-annotator/internal/lexer"
)

// Opener returns the index of the DocOpen token of the block closed at
// close, or -1 when close is not part of a doc comment.
func Opener(toks []lexer.Token, close int) int {
	for i := close - 1; i >= 0; i-- {
		switch toks[i].Kind {
		case lexer.DocOpen:
			return i
		case lexer.DocWhitespace, lexer.DocStar, lexer.DocTag, lexer.DocString:
		default:
			return -1
		}
	}
	return -1
}

// ParseExisting returns the @property, @var and @method annotations of the
// block closed at close, in source order. Each carries the position of its
// descriptive DocString as origin. Tags of other kinds and entries that do
// not have the expected shape are skipped.
func ParseExisting(toks []lexer.Token, close int) []annotation.Annotation {
	open := Opener(toks, close)
	if open < 0 {
		return nil
	}

	var out []annotation.Annotation
	for i := open + 1; i < close; i++ {
		if toks[i].Kind != lexer.DocTag {
			continue
		}
		tag, err := annotation.ParseTag(toks[i].Text)
		if err != nil {
			continue
		}
		desc := descriptionOf(toks, i, close)
		if desc < 0 {
			continue
		}
		a, ok := annotation.ParseBody(tag, toks[desc].Text)
		if !ok {
			continue
		}
		out = append(out, a.WithOrigin(desc))
	}
	return out
}

// descriptionOf returns the DocString following the tag at i on the same
// line, separated by exactly one blank token, or -1.
func descriptionOf(toks []lexer.Token, i, close int) int {
	ws, desc := i+1, i+2
	if desc >= close {
		return -1
	}
	if toks[ws].Kind != lexer.DocWhitespace || toks[ws].IsNewline() {
		return -1
	}
	if toks[desc].Kind != lexer.DocString {
		return -1
	}
	return desc
}

// NeedsBlankLine reports whether tags appended after the line ending at
// token anchor need a blank " *" line in front of them. It is false when
// that line holds a tag or the block opener (tags continue the list, or the
// block is still empty) and when it already is a bare " *" line.
func NeedsBlankLine(toks []lexer.Token, anchor int) bool {
	line := toks[anchor].Line
	bare := true
	for i := anchor; i >= 0 && toks[i].Line == line; i-- {
		switch toks[i].Kind {
		case lexer.DocTag, lexer.DocOpen:
			return false
		case lexer.DocString:
			bare = false
		}
	}
	return !bare
}

// Render builds a new doc block holding annotations, one per line. The
// first line is not indented (it continues the declaration's line); every
// following line is prefixed with indent and the block ends with eol.
func Render(annotations []annotation.Annotation, indent, eol string) string {
	var b strings.Builder
	b.WriteString("/**")
	b.WriteString(eol)
	for _, a := range annotations {
		b.WriteString(indent)
		b.WriteString(" * ")
		b.WriteString(a.String())
		b.WriteString(eol)
	}
	b.WriteString(indent)
	b.WriteString(" */")
	b.WriteString(eol)
	return b.String()
}
