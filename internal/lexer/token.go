// Package lexer turns PHP source text into a positioned token stream and
// locates the class-like declaration that annotations are attached to.
//
// The tokenizer is intentionally shallow (not a PHP parser). It only needs to
// be exact about three things:
//   - concatenating all token texts reproduces the input byte-for-byte
//   - comments, strings and heredocs never leak keywords into code
//   - doc comments are split the way PHP_CodeSniffer splits them
//     (open/close markers, stars, tags, strings, one token per line break)
package lexer

import "fmt"

// Kind classifies a token.
type Kind int

const (
	InlineHTML Kind = iota // text outside <?php ... ?>
	OpenTag                // "<?php", "<?=" or "<?"
	CloseTag               // "?>"
	Whitespace             // spaces/tabs, ending at most at one line break
	Comment                // "//", "#" and "/* */" comments
	String                 // quoted strings, heredoc and nowdoc bodies
	Variable               // "$name"
	Ident                  // identifiers and keywords
	Number                 // numeric literals
	Symbol                 // operators and punctuation

	DocOpen       // "/**"
	DocClose      // "*/"
	DocWhitespace // blanks inside a doc comment; a line break is its own token
	DocStar       // leading "*" of a doc comment line
	DocTag        // "@property", "@var", ...
	DocString     // any other doc comment text, up to the end of the line
)

var kindNames = [...]string{
	InlineHTML:    "InlineHTML",
	OpenTag:       "OpenTag",
	CloseTag:      "CloseTag",
	Whitespace:    "Whitespace",
	Comment:       "Comment",
	String:        "String",
	Variable:      "Variable",
	Ident:         "Ident",
	Number:        "Number",
	Symbol:        "Symbol",
	DocOpen:       "DocOpen",
	DocClose:      "DocClose",
	DocWhitespace: "DocWhitespace",
	DocStar:       "DocStar",
	DocTag:        "DocTag",
	DocString:     "DocString",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Empty reports whether tokens of this kind carry no code: whitespace,
// comments and every part of a doc comment.
func (k Kind) Empty() bool {
	switch k {
	case Whitespace, Comment,
		DocOpen, DocClose, DocWhitespace, DocStar, DocTag, DocString:
		return true
	}
	return false
}

// Token is one lexical unit of a file. Tokens are immutable; edits are
// recorded elsewhere, keyed by Pos.
type Token struct {
	Kind   Kind
	Text   string
	Line   int // 1-based line of the first byte
	Pos    int // index of the token in the stream
	Offset int // byte offset of the first byte
}

// IsNewline reports whether the token is a bare line break.
func (t Token) IsNewline() bool {
	return t.Text == "\n" || t.Text == "\r\n" || t.Text == "\r"
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Kind, t.Text, t.Pos, t.Line)
}
