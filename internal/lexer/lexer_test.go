package lexer

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func joinTexts(toks []Token) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.Text)
	}
	return b.String()
}

func TestTokenizeRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"<?php\nclass Foo {}\n",
		"<html>\n<?php echo 'x'; ?>\n</html>\n<?= $y ?>",
		"<?php\r\n/**\r\n * @var int\r\n */\r\nclass A {}\r\n",
		"<?php\n$s = \"unterminated",
		"<?php\n/* unterminated comment",
		"<?php\n/** unterminated doc",
		"<?php\n$x = <<<'EOT'\nbody 'quoted\n  EOT;\n# hash comment\n#[Attr]\nfinal class B {}",
		"class NoOpenTag extends \\Base\\Thing {}",
	}
	for _, in := range inputs {
		toks := Tokenize(in)
		assert.Equal(t, in, joinTexts(toks), "round trip of %q", in)
		for i, tok := range toks {
			assert.Equal(t, i, tok.Pos)
			assert.Equal(t, tok.Text, in[tok.Offset:tok.Offset+len(tok.Text)])
		}
	}
}

func TestTokenizeDocComment(t *testing.T) {
	toks := Tokenize("/**\n * @property \\A $a\n */")

	type kt struct {
		kind Kind
		text string
	}
	var got []kt
	for _, tok := range toks {
		got = append(got, kt{tok.Kind, tok.Text})
	}
	want := []kt{
		{DocOpen, "/**"},
		{DocWhitespace, "\n"},
		{DocWhitespace, " "},
		{DocStar, "*"},
		{DocWhitespace, " "},
		{DocTag, "@property"},
		{DocWhitespace, " "},
		{DocString, "\\A $a"},
		{DocWhitespace, "\n"},
		{DocWhitespace, " "},
		{DocClose, "*/"},
	}
	assert.Equal(t, want, got)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 2, toks[5].Line)
	assert.Equal(t, 3, toks[10].Line)
}

func TestTokenizeDocStringStopsAtCloser(t *testing.T) {
	toks := Tokenize("/** @var Foo*/")
	require.Len(t, toks, 6)
	assert.Equal(t, DocString, toks[4].Kind)
	assert.Equal(t, "Foo", toks[4].Text)
	assert.Equal(t, DocClose, toks[5].Kind)
}

func TestTokenizeEmptyCommentIsNotDoc(t *testing.T) {
	toks := Tokenize("/**/ class A {}")
	assert.Equal(t, Comment, toks[0].Kind)
	assert.Equal(t, "/**/", toks[0].Text)
}

func TestLocateFindsDocBlock(t *testing.T) {
	src := "<?php\nnamespace App;\n\n/**\n * Foo\n */\nclass Foo {}\n"
	loc, err := Locate(src)
	require.NoError(t, err)

	toks := loc.Tokens
	assert.Equal(t, "class", toks[loc.Decl].Text)
	assert.Equal(t, 7, toks[loc.Decl].Line)
	assert.Equal(t, loc.Decl, loc.DeclStart)
	assert.Equal(t, ";", toks[loc.PrevCode].Text)
	require.True(t, loc.HasDocBlock())
	assert.Equal(t, DocClose, toks[loc.DocClose].Kind)
	assert.Equal(t, 6, toks[loc.DocClose].Line)
	assert.Equal(t, "\n", loc.EOL)
}

func TestLocateWithoutDocBlock(t *testing.T) {
	loc, err := Locate("<?php\nclass Foo {}\n")
	require.NoError(t, err)
	assert.False(t, loc.HasDocBlock())
	assert.Equal(t, -1, loc.DocClose)
	assert.Equal(t, 0, loc.PrevCode)
}

func TestLocateIgnoresBlockAboveEarlierCode(t *testing.T) {
	loc, err := Locate("<?php\n/**\n * File\n */\nuse Foo;\n\nclass Bar {}\n")
	require.NoError(t, err)
	assert.False(t, loc.HasDocBlock())
	assert.Equal(t, ";", loc.Tokens[loc.PrevCode].Text)
}

func TestLocateSkipsNonDeclarations(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		decl      string
		declStart string
	}{
		{
			name:      "class constant and modifier",
			src:       "<?php\n$x = Bar::class;\nfinal class Foo {}",
			decl:      "class",
			declStart: "final",
		},
		{
			name:      "comments and strings",
			src:       "<?php\n// class Fake\n$s = 'class Str';\ninterface Real {}",
			decl:      "interface",
			declStart: "interface",
		},
		{
			name:      "heredoc",
			src:       "<?php\n$x = <<<EOT\nclass Nope it's\nEOT;\ntrait T {}",
			decl:      "trait",
			declStart: "trait",
		},
		{
			name:      "anonymous class",
			src:       "<?php\n$o = new class {};\nabstract class Real {}",
			decl:      "class",
			declStart: "abstract",
		},
		{
			name:      "anonymous readonly class",
			src:       "<?php\n$o = new readonly class {};\nclass Real {}",
			decl:      "class",
			declStart: "class",
		},
		{
			name:      "anonymous class with attribute",
			src:       "<?php\n$o = new #[A] class {};\nfinal class Real {}",
			decl:      "class",
			declStart: "final",
		},
		{
			name:      "attribute",
			src:       "<?php\n/** doc */\n#[Attr([1])]\nclass Foo {}",
			decl:      "class",
			declStart: "#[",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := Locate(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.decl, loc.Tokens[loc.Decl].Text)
			assert.Equal(t, tt.declStart, loc.Tokens[loc.DeclStart].Text)
		})
	}
}

func TestLocateAttributeKeepsDocBlock(t *testing.T) {
	loc, err := Locate("<?php\n/** doc */\n#[Attr([1])]\nclass Foo {}")
	require.NoError(t, err)
	assert.True(t, loc.HasDocBlock())
}

func TestLocateDocBlockBelowAttribute(t *testing.T) {
	loc, err := Locate("<?php\n#[A]\n/**\n * Doc.\n */\nclass Foo {}")
	require.NoError(t, err)
	require.True(t, loc.HasDocBlock())
	assert.Equal(t, "#[", loc.Tokens[loc.DeclStart].Text)
	assert.Greater(t, loc.DocClose, loc.DeclStart)
	assert.Less(t, loc.DocClose, loc.Decl)
}

func TestLocateMalformed(t *testing.T) {
	_, err := Locate("<?php\necho 1;\n")
	require.Error(t, err)
	var malformed *MalformedSourceError
	assert.True(t, errors.As(err, &malformed))
}

func TestLineIndent(t *testing.T) {
	toks := Tokenize("<?php\n\tclass Foo {}")
	assert.Equal(t, "\t", LineIndent(toks, 3))

	toks = Tokenize("<?php class Foo {}")
	assert.Equal(t, "", LineIndent(toks, 2))

	toks = Tokenize("  class Foo {}")
	assert.Equal(t, "  ", LineIndent(toks, 1))
}
