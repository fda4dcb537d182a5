// Package textutil holds small line-oriented helpers shared by the lexer, the
// planner and the diff previewer. None of them normalizes content: annotated
// files must keep every byte outside the edited doc block.
package textutil

import "strings"

// DetectEOL returns "\r\n" when the first line break of s is CRLF and "\n"
// otherwise (including when s has no line break at all).
func DetectEOL(s string) string {
	i := strings.IndexByte(s, '\n')
	if i > 0 && s[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// SplitLinesKeepNL splits s into lines, keeping the line terminators.
// A final chunk without terminator is kept as its own line; "" yields no lines.
func SplitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// TrimEOL strips one trailing "\n" or "\r\n". A lone "\r" is content.
func TrimEOL(line string) string {
	if l, ok := strings.CutSuffix(line, "\r\n"); ok {
		return l
	}
	return strings.TrimSuffix(line, "\n")
}
