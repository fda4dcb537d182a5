// Package annotation models a single doc block annotation such as
// "@property \App\Model\Table\BarsTable $Bars".
//
// An Annotation is a value: Tag + Name identify it (see Matches), Type and
// Extra are its value. Annotations read from an existing doc block also carry
// an origin, the token position of their descriptive text, which the planner
// overwrites when the value changes.
package annotation

import (
	"fmt"
	"strings"
)

// Tag is the annotation category.
type Tag int

const (
	Property Tag = iota + 1
	Var
	Method
)

var tagNames = map[Tag]string{
	Property: "@property",
	Var:      "@var",
	Method:   "@method",
}

var tagsByName = map[string]Tag{
	"@property": Property,
	"@var":      Var,
	"@method":   Method,
}

func (t Tag) String() string {
	if s, ok := tagNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Tag(%d)", int(t))
}

// Valid reports whether t is one of the supported tags.
func (t Tag) Valid() bool {
	_, ok := tagNames[t]
	return ok
}

// UnrecognizedTagError rejects tags outside the supported vocabulary.
type UnrecognizedTagError struct {
	Tag string
}

func (e *UnrecognizedTagError) Error() string {
	return fmt.Sprintf("unrecognized annotation tag %q", e.Tag)
}

// ParseTag maps "@property", "@var" or "@method" (the "@" is optional) to
// its Tag.
func ParseTag(s string) (Tag, error) {
	name := s
	if !strings.HasPrefix(name, "@") {
		name = "@" + name
	}
	if t, ok := tagsByName[name]; ok {
		return t, nil
	}
	return 0, &UnrecognizedTagError{Tag: s}
}

// Annotation is one tagged doc block line.
type Annotation struct {
	Tag   Tag
	Name  string // subject without "$": property, variable or method name
	Type  string // type expression, e.g. "\Foo\Bar|null"
	Extra string // trailing text: method parameters, descriptions

	origin    int
	hasOrigin bool
}

// New validates and builds a desired annotation. A leading "$" on name is
// dropped; a method without a parameter list gets "()". Values that would
// not read back from the rendered line, such as "int | null" as a type, are
// rejected.
func New(tag Tag, name, typ, extra string) (Annotation, error) {
	if !tag.Valid() {
		return Annotation{}, &UnrecognizedTagError{Tag: tag.String()}
	}
	a := Annotation{
		Tag:   tag,
		Name:  strings.TrimPrefix(strings.TrimSpace(name), "$"),
		Type:  strings.TrimSpace(typ),
		Extra: strings.TrimSpace(extra),
	}
	if a.Type == "" {
		return Annotation{}, fmt.Errorf("%s annotation needs a type", tag)
	}
	if a.Name == "" && tag != Var {
		return Annotation{}, fmt.Errorf("%s annotation needs a name", tag)
	}
	if strings.ContainsAny(a.Name, " \t\r\n($") {
		return Annotation{}, fmt.Errorf("%s annotation: invalid name %q", tag, name)
	}
	if tag == Method && !strings.HasPrefix(a.Extra, "(") {
		a.Extra = strings.TrimSpace("() " + a.Extra)
	}
	for _, s := range []string{a.Type, a.Extra} {
		if strings.ContainsAny(s, "\r\n") || strings.Contains(s, "*/") {
			return Annotation{}, fmt.Errorf("%s annotation: line break or block end in %q", tag, s)
		}
	}
	// The rendered line must read back as the same annotation, or every
	// later run would append it again.
	if got, ok := ParseBody(tag, a.Body()); !ok || !got.SameValue(a) {
		return Annotation{}, fmt.Errorf("%s annotation %q does not parse back", tag, a.Body())
	}
	return a, nil
}

// MustNew is New for static tables; it panics on invalid input.
func MustNew(tag Tag, name, typ, extra string) Annotation {
	a, err := New(tag, name, typ, extra)
	if err != nil {
		panic(err)
	}
	return a
}

// Origin returns the token position of the descriptive text this annotation
// was parsed from.
func (a Annotation) Origin() (int, bool) { return a.origin, a.hasOrigin }

// WithOrigin returns a copy of a bound to token position pos.
func (a Annotation) WithOrigin(pos int) Annotation {
	a.origin = pos
	a.hasOrigin = true
	return a
}

// Matches reports whether a and o describe the same subject.
func (a Annotation) Matches(o Annotation) bool {
	return a.Tag == o.Tag && a.Name == o.Name
}

// SameValue reports whether a and o match and render identically.
func (a Annotation) SameValue(o Annotation) bool {
	return a.Matches(o) && a.Type == o.Type && a.Extra == o.Extra
}

// ReplaceWith takes over the value of o; the origin is kept.
func (a *Annotation) ReplaceWith(o Annotation) {
	a.Type = o.Type
	a.Extra = o.Extra
}

// Body renders the annotation without its tag, i.e. the text that follows
// the tag on a doc block line.
func (a Annotation) Body() string {
	var b strings.Builder
	b.WriteString(a.Type)
	switch a.Tag {
	case Method:
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(a.Extra)
		return b.String()
	case Property:
		b.WriteString(" $")
		b.WriteString(a.Name)
	default:
		if a.Name != "" {
			b.WriteString(" $")
			b.WriteString(a.Name)
		}
	}
	if a.Extra != "" {
		b.WriteByte(' ')
		b.WriteString(a.Extra)
	}
	return b.String()
}

func (a Annotation) String() string {
	return a.Tag.String() + " " + a.Body()
}
