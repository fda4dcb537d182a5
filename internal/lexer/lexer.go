package lexer

import "strings"

// Tokenize splits src into tokens. It never fails: unterminated strings and
// comments simply run to the end of the input.
//
// Files containing "<?" start in inline-HTML mode, like PHP itself. Input
// without any open tag is treated as code so snippets can be processed too.
func Tokenize(src string) []Token {
	s := &scanner{src: src, line: 1}
	if !strings.Contains(src, "<?") {
		s.code = true
	}
	for s.pos < len(s.src) {
		if s.code {
			s.scanCode()
		} else {
			s.scanHTML()
		}
	}
	return s.toks
}

type scanner struct {
	src  string
	pos  int
	line int
	code bool // false while in inline HTML
	toks []Token
}

// emit turns the next n bytes into a token.
func (s *scanner) emit(kind Kind, n int) {
	text := s.src[s.pos : s.pos+n]
	s.toks = append(s.toks, Token{
		Kind:   kind,
		Text:   text,
		Line:   s.line,
		Pos:    len(s.toks),
		Offset: s.pos,
	})
	s.line += strings.Count(text, "\n")
	// A lone "\r" is a line break too.
	s.line += strings.Count(text, "\r") - strings.Count(text, "\r\n")
	s.pos += n
}

func (s *scanner) rest() string { return s.src[s.pos:] }

func (s *scanner) scanHTML() {
	i := strings.Index(s.rest(), "<?")
	if i < 0 {
		s.emit(InlineHTML, len(s.rest()))
		return
	}
	if i > 0 {
		s.emit(InlineHTML, i)
		return
	}
	rest := s.rest()
	switch {
	case len(rest) >= 5 && strings.EqualFold(rest[:5], "<?php"):
		s.emit(OpenTag, 5)
	case strings.HasPrefix(rest, "<?="):
		s.emit(OpenTag, 3)
	default:
		s.emit(OpenTag, 2)
	}
	s.code = true
}

func (s *scanner) scanCode() {
	rest := s.rest()
	c := rest[0]
	switch {
	case isBlank(c) || c == '\n' || c == '\r':
		s.emit(Whitespace, blankRun(rest))
	case strings.HasPrefix(rest, "?>"):
		s.emit(CloseTag, 2)
		s.code = false
	case strings.HasPrefix(rest, "/**") && len(rest) > 3 && isSpace(rest[3]):
		s.scanDocComment()
	case strings.HasPrefix(rest, "/*"):
		end := strings.Index(rest[2:], "*/")
		if end < 0 {
			s.emit(Comment, len(rest))
			return
		}
		s.emit(Comment, end+4)
	case strings.HasPrefix(rest, "#["):
		s.emit(Symbol, 2)
	case strings.HasPrefix(rest, "//") || c == '#':
		s.emit(Comment, lineCommentLen(rest))
	case c == '\'' || c == '"' || c == '`':
		s.emit(String, quotedLen(rest))
	case strings.HasPrefix(rest, "<<<"):
		if n := heredocLen(rest); n > 0 {
			s.emit(String, n)
			return
		}
		s.emit(Symbol, 3)
	case c == '$' && len(rest) > 1 && isIdentStart(rest[1]):
		s.emit(Variable, 1+identLen(rest[1:]))
	case isIdentStart(c):
		s.emit(Ident, identLen(rest))
	case isDigit(c):
		s.emit(Number, numberLen(rest))
	case strings.HasPrefix(rest, "?->"):
		s.emit(Symbol, 3)
	case strings.HasPrefix(rest, "::") || strings.HasPrefix(rest, "->"):
		s.emit(Symbol, 2)
	default:
		s.emit(Symbol, 1)
	}
}

// scanDocComment splits a "/** ... */" comment into doc tokens.
func (s *scanner) scanDocComment() {
	s.emit(DocOpen, 3)
	lineStart := false
	for s.pos < len(s.src) {
		rest := s.rest()
		c := rest[0]
		switch {
		case strings.HasPrefix(rest, "*/"):
			s.emit(DocClose, 2)
			return
		case strings.HasPrefix(rest, "\r\n"):
			s.emit(DocWhitespace, 2)
			lineStart = true
		case c == '\n' || c == '\r':
			s.emit(DocWhitespace, 1)
			lineStart = true
		case isBlank(c):
			n := 0
			for n < len(rest) && isBlank(rest[n]) {
				n++
			}
			s.emit(DocWhitespace, n)
		case c == '*' && lineStart:
			s.emit(DocStar, 1)
			lineStart = false
		case c == '@' && len(rest) > 1 && isTagChar(rest[1]):
			n := 1
			for n < len(rest) && isTagChar(rest[n]) {
				n++
			}
			s.emit(DocTag, n)
			lineStart = false
		default:
			s.emit(DocString, docStringLen(rest))
			lineStart = false
		}
	}
}

// docStringLen measures doc text up to the line end or the closing marker,
// leaving trailing blanks for a DocWhitespace token.
func docStringLen(rest string) int {
	n := 0
	for n < len(rest) {
		if rest[n] == '\n' || rest[n] == '\r' || strings.HasPrefix(rest[n:], "*/") {
			break
		}
		n++
	}
	for n > 1 && isBlank(rest[n-1]) {
		n--
	}
	return n
}

// blankRun measures blanks up to and including a single line break.
func blankRun(rest string) int {
	n := 0
	for n < len(rest) && isBlank(rest[n]) {
		n++
	}
	switch {
	case strings.HasPrefix(rest[n:], "\r\n"):
		n += 2
	case n < len(rest) && (rest[n] == '\n' || rest[n] == '\r'):
		n++
	}
	return n
}

// lineCommentLen stops before the line break or a closing "?>".
func lineCommentLen(rest string) int {
	n := 0
	for n < len(rest) {
		if rest[n] == '\n' || rest[n] == '\r' || strings.HasPrefix(rest[n:], "?>") {
			break
		}
		n++
	}
	return n
}

func quotedLen(rest string) int {
	q := rest[0]
	for i := 1; i < len(rest); i++ {
		switch rest[i] {
		case '\\':
			i++
		case q:
			return i + 1
		}
	}
	return len(rest)
}

// heredocLen measures "<<<LABEL ... LABEL", "<<<'LABEL'" and "<<<"LABEL"".
// It returns 0 when rest is not a heredoc opener.
func heredocLen(rest string) int {
	i := 3
	for i < len(rest) && isBlank(rest[i]) {
		i++
	}
	quote := byte(0)
	if i < len(rest) && (rest[i] == '\'' || rest[i] == '"') {
		quote = rest[i]
		i++
	}
	if i >= len(rest) || !isIdentStart(rest[i]) {
		return 0
	}
	n := identLen(rest[i:])
	label := rest[i : i+n]
	i += n
	if quote != 0 {
		if i >= len(rest) || rest[i] != quote {
			return 0
		}
		i++
	}
	nl := strings.IndexByte(rest[i:], '\n')
	if nl < 0 {
		return 0
	}
	i += nl + 1
	for i < len(rest) {
		lineEnd := strings.IndexByte(rest[i:], '\n')
		line := rest[i:]
		if lineEnd >= 0 {
			line = rest[i : i+lineEnd]
		}
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, label) {
			after := trimmed[len(label):]
			if after == "" || !isIdentChar(after[0]) {
				return i + (len(line) - len(trimmed)) + len(label)
			}
		}
		if lineEnd < 0 {
			break
		}
		i += lineEnd + 1
	}
	return len(rest)
}

func identLen(rest string) int {
	n := 0
	for n < len(rest) && isIdentChar(rest[n]) {
		n++
	}
	return n
}

func numberLen(rest string) int {
	n := 0
	for n < len(rest) && (isIdentChar(rest[n]) || rest[n] == '.') {
		n++
	}
	return n
}

func isBlank(c byte) bool { return c == ' ' || c == '\t' || c == '\f' || c == '\v' }

func isSpace(c byte) bool { return isBlank(c) || c == '\n' || c == '\r' }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentChar(c byte) bool { return isIdentStart(c) || isDigit(c) }

func isTagChar(c byte) bool {
	return isIdentChar(c) || c == '-' || c == '\\' || c == ':'
}
