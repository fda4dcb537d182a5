package docblock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docblock-annotator/internal/annotation"
	"docblock-annotator/internal/lexer"
)

func locate(t *testing.T, src string) *lexer.Location {
	t.Helper()
	loc, err := lexer.Locate(src)
	require.NoError(t, err)
	require.True(t, loc.HasDocBlock(), "no doc block in %q", src)
	return loc
}

// lineAnchor returns the newline token ending the line before the closer.
func lineAnchor(toks []lexer.Token, close int) int {
	i := close
	for toks[i].Line == toks[close].Line {
		i--
	}
	return i
}

func TestOpener(t *testing.T) {
	loc := locate(t, "<?php\n/**\n * @var int\n */\nclass A {}")
	open := Opener(loc.Tokens, loc.DocClose)
	require.GreaterOrEqual(t, open, 0)
	assert.Equal(t, lexer.DocOpen, loc.Tokens[open].Kind)
	assert.Equal(t, 2, loc.Tokens[open].Line)

	assert.Equal(t, -1, Opener(loc.Tokens, loc.Decl))
}

func TestParseExistingKeepsSourceOrder(t *testing.T) {
	src := `<?php
/**
 * Controller.
 *
 * @property \Old\Thing $bar
 * @var int
 * @param string $ignored
 * @method \Foo get($id)
 * @property \A $a Has a description.
 */
class Foo {}
`
	loc := locate(t, src)
	got := ParseExisting(loc.Tokens, loc.DocClose)
	require.Len(t, got, 4)

	want := []string{
		"@property \\Old\\Thing $bar",
		"@var int",
		"@method \\Foo get($id)",
		"@property \\A $a Has a description.",
	}
	for i, a := range got {
		assert.Equal(t, want[i], a.String())
		pos, ok := a.Origin()
		require.True(t, ok)
		assert.Equal(t, lexer.DocString, loc.Tokens[pos].Kind)
		assert.Equal(t, a.Body(), loc.Tokens[pos].Text)
	}
}

func TestParseExistingSkipsMalformed(t *testing.T) {
	src := `<?php
/**
 * @property
 * @property \NoName
 * @property-read \Ro $ro
 * @method \Foo noParens
 * @var
 * int $x
 * @property \Ok $ok
 */
class Foo {}
`
	loc := locate(t, src)
	got := ParseExisting(loc.Tokens, loc.DocClose)
	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].Name)
}

func TestParseExistingSingleLine(t *testing.T) {
	loc := locate(t, "<?php\n/** @var \\Foo $foo */\nclass A {}")
	got := ParseExisting(loc.Tokens, loc.DocClose)
	require.Len(t, got, 1)
	assert.Equal(t, annotation.MustNew(annotation.Var, "foo", "\\Foo", ""), stripOrigin(got[0]))
}

func stripOrigin(a annotation.Annotation) annotation.Annotation {
	return annotation.Annotation{Tag: a.Tag, Name: a.Name, Type: a.Type, Extra: a.Extra}
}

func TestNeedsBlankLine(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want bool
	}{
		{"empty block", "<?php\n/**\n */\nclass A {}", false},
		{"after tag", "<?php\n/**\n * @var int\n */\nclass A {}", false},
		{"after description", "<?php\n/**\n * Describes A.\n */\nclass A {}", true},
		{"after blank continuation", "<?php\n/**\n * Describes A.\n *\n */\nclass A {}", false},
		{"opener with text", "<?php\n/** Describes A.\n */\nclass A {}", false},
		{"tag continuation line", "<?php\n/**\n * @method \\A a(\n *   $x)\n */\nclass A {}", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := locate(t, tt.src)
			anchor := lineAnchor(loc.Tokens, loc.DocClose)
			require.True(t, loc.Tokens[anchor].IsNewline())
			assert.Equal(t, tt.want, NeedsBlankLine(loc.Tokens, anchor))
		})
	}
}

func TestRender(t *testing.T) {
	got := Render([]annotation.Annotation{
		annotation.MustNew(annotation.Property, "bar", "\\Bar\\BarTable", ""),
		annotation.MustNew(annotation.Method, "baz", "int", ""),
	}, "\t", "\n")
	assert.Equal(t, "/**\n\t * @property \\Bar\\BarTable $bar\n\t * @method int baz()\n\t */\n", got)
}
