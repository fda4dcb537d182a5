package annotation

import (
	"fmt"
	"strings"
)

// ParseBody reads the descriptive text that follows a tag, e.g.
// "\Foo\Bar $bar Some description". ok is false when the text does not have
// the shape expected for tag; callers skip such annotations.
func ParseBody(tag Tag, body string) (a Annotation, ok bool) {
	typ, rest := splitType(strings.TrimSpace(body))
	if typ == "" {
		return Annotation{}, false
	}
	a = Annotation{Tag: tag, Type: typ}

	switch tag {
	case Property:
		if !strings.HasPrefix(rest, "$") {
			return Annotation{}, false
		}
		a.Name, a.Extra = splitWord(rest[1:])
		if a.Name == "" {
			return Annotation{}, false
		}
	case Var:
		if strings.HasPrefix(rest, "$") {
			a.Name, a.Extra = splitWord(rest[1:])
			if a.Name == "" {
				return Annotation{}, false
			}
		} else {
			a.Extra = rest
		}
	case Method:
		open := strings.IndexByte(rest, '(')
		if open <= 0 {
			return Annotation{}, false
		}
		a.Name = rest[:open]
		if strings.ContainsAny(a.Name, " \t") {
			return Annotation{}, false
		}
		a.Extra = rest[open:]
	default:
		return Annotation{}, false
	}
	return a, true
}

// ParseLine parses a full annotation line such as "@property \Foo $foo".
// A leading "*" of a doc block line is tolerated.
func ParseLine(line string) (Annotation, error) {
	s := strings.TrimSpace(line)
	s = strings.TrimSpace(strings.TrimPrefix(s, "*"))
	tagText, body := splitWord(s)
	if !strings.HasPrefix(tagText, "@") {
		return Annotation{}, fmt.Errorf("annotation %q does not start with a tag", line)
	}
	tag, err := ParseTag(tagText)
	if err != nil {
		return Annotation{}, err
	}
	a, ok := ParseBody(tag, body)
	if !ok {
		return Annotation{}, fmt.Errorf("malformed %s annotation %q", tag, line)
	}
	return New(a.Tag, a.Name, a.Type, a.Extra)
}

// splitType cuts s at the first blank that is not nested inside <>, (), {}
// or [], so generic types such as "array<int, string>" stay whole.
func splitType(s string) (typ, rest string) {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '<', '(', '{', '[':
			depth++
		case '>', ')', '}', ']':
			if depth > 0 {
				depth--
			}
		case ' ', '\t':
			if depth == 0 {
				return s[:i], strings.TrimSpace(s[i+1:])
			}
		}
	}
	return s, ""
}

// splitWord cuts s at its first blank.
func splitWord(s string) (word, rest string) {
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i+1:])
}
