package lexer

import (
	"fmt"
	"strings"

	"docblock-annotator/internal/textutil"
)

// MalformedSourceError reports a file that has no declaration to annotate.
// Callers skip such files and continue with the rest of the batch.
type MalformedSourceError struct {
	Reason string
}

func (e *MalformedSourceError) Error() string {
	return "malformed source: " + e.Reason
}

// Location is the result of Locate. Token indexes are -1 when absent.
type Location struct {
	Tokens []Token

	Decl      int // "class", "interface" or "trait" keyword
	DeclStart int // first modifier or attribute of the declaration; Decl when none
	PrevCode  int // nearest preceding code token before DeclStart
	DocClose  int // closing marker of the doc block attached to the declaration

	EOL string // line break used by the file
}

// HasDocBlock reports whether a documentation block precedes the declaration.
func (l *Location) HasDocBlock() bool { return l.DocClose >= 0 }

var declKeywords = map[string]struct{}{
	"class":     {},
	"interface": {},
	"trait":     {},
}

var notDeclPrefixes = map[string]struct{}{
	"new":      {},
	"function": {},
	"const":    {},
}

var declModifiers = map[string]struct{}{
	"abstract": {},
	"final":    {},
	"readonly": {},
}

// Locate tokenizes src and finds the first declaration together with the
// doc block directly above it. Only the first declaration is considered.
func Locate(src string) (*Location, error) {
	toks := Tokenize(src)
	loc := &Location{
		Tokens:    toks,
		Decl:      -1,
		DeclStart: -1,
		PrevCode:  -1,
		DocClose:  -1,
		EOL:       textutil.DetectEOL(src),
	}

	for i, t := range toks {
		if t.Kind != Ident || !isKeyword(t.Text, declKeywords) {
			continue
		}
		// Modifiers and attributes belong to the declaration; "new" may
		// precede them for anonymous classes.
		if p := prevCode(toks, declStart(toks, i)-1); p >= 0 && !opensDeclaration(toks[p]) {
			continue
		}
		loc.Decl = i
		break
	}
	if loc.Decl < 0 {
		return nil, &MalformedSourceError{Reason: "no class, interface or trait declaration found"}
	}

	loc.DeclStart = declStart(toks, loc.Decl)
	loc.PrevCode = prevCode(toks, loc.DeclStart-1)
	loc.DocClose = lastDocClose(toks, loc.DeclStart-1, loc.PrevCode)
	if loc.DocClose < 0 && loc.DeclStart != loc.Decl {
		// The block may sit between the attributes and the keyword.
		loc.DocClose = lastDocClose(toks, loc.Decl-1, prevCode(toks, loc.Decl-1))
	}
	return loc, nil
}

// lastDocClose scans back from i down to, but excluding, stop for a doc
// block closing marker.
func lastDocClose(toks []Token, i, stop int) int {
	for ; i > stop; i-- {
		if toks[i].Kind == DocClose {
			return i
		}
	}
	return -1
}

// opensDeclaration rejects "Foo::class", "$x->class", "new class",
// "new readonly class", "new #[A] class" and methods or constants named
// like a keyword. prev is the code token before the modifiers and attributes.
func opensDeclaration(prev Token) bool {
	switch prev.Kind {
	case Symbol:
		return prev.Text != "::" && prev.Text != "->" && prev.Text != "?->"
	case Ident:
		return !isKeyword(prev.Text, notDeclPrefixes)
	}
	return true
}

// declStart walks back over modifiers and #[...] attributes.
func declStart(toks []Token, decl int) int {
	start := decl
	for {
		p := prevCode(toks, start-1)
		if p < 0 {
			return start
		}
		switch {
		case toks[p].Kind == Ident && isKeyword(toks[p].Text, declModifiers):
			start = p
		case toks[p].Kind == Symbol && toks[p].Text == "]":
			open := attributeOpener(toks, p)
			if open < 0 {
				return start
			}
			start = open
		default:
			return start
		}
	}
}

// attributeOpener finds the "#[" matching the "]" at end, or -1.
func attributeOpener(toks []Token, end int) int {
	depth := 0
	for i := end; i >= 0; i-- {
		if toks[i].Kind != Symbol {
			continue
		}
		switch toks[i].Text {
		case "]":
			depth++
		case "[", "#[":
			depth--
			if depth == 0 {
				if toks[i].Text == "#[" {
					return i
				}
				return -1
			}
		}
	}
	return -1
}

// prevCode returns the index of the nearest non-empty token at or before i.
func prevCode(toks []Token, i int) int {
	for ; i >= 0; i-- {
		if !toks[i].Kind.Empty() {
			return i
		}
	}
	return -1
}

func isKeyword(text string, set map[string]struct{}) bool {
	_, ok := set[strings.ToLower(text)]
	return ok
}

// LineIndent returns the blanks between the start of the line holding token
// i and the token itself, or "" when anything else precedes it on that line.
func LineIndent(toks []Token, i int) string {
	indent := ""
	for j := i - 1; j >= 0; j-- {
		text := toks[j].Text
		if nl := strings.LastIndexAny(text, "\r\n"); nl >= 0 {
			text = text[nl+1:]
			if strings.Trim(text, " \t") != "" {
				return ""
			}
			return text + indent
		}
		if strings.Trim(text, " \t") != "" {
			return ""
		}
		indent = text + indent
	}
	return indent
}

func (l *Location) String() string {
	return fmt.Sprintf("decl=%d start=%d prev=%d doc=%d", l.Decl, l.DeclStart, l.PrevCode, l.DocClose)
}
