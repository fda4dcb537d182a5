package merge

import (
	"strings"

	"docblock-annotator/internal/annotation"
	"docblock-annotator/internal/docblock"
	"docblock-annotator/internal/lexer"
)

// AnchorFor computes where annotations are appended to the block closed at
// close. For a multi-line block this is the line break ending the line above
// the closer, so new lines land right before the " */" line. A single-line
// block is split: the lines go between its last text and the closer, which
// moves to a line of its own.
func AnchorFor(toks []lexer.Token, close int, eol string) Anchor {
	open := docblock.Opener(toks, close)
	closeLine := toks[close].Line

	if open < 0 || toks[open].Line == closeLine {
		indent := lexer.LineIndent(toks, max(open, 0))
		pos := close - 1
		trail := indent + " "
		if pos > open && toks[pos].Kind == lexer.DocWhitespace {
			pos--
			trail = indent
		}
		return Anchor{
			Position: pos,
			Indent:   indent,
			EOL:      eol,
			Lead:     eol,
			Trail:    trail,
		}
	}

	pos := close
	for pos > open && toks[pos].Line == closeLine {
		pos--
	}
	if toks[pos].IsNewline() {
		eol = toks[pos].Text
	}
	return Anchor{
		Position:  pos,
		Indent:    closerIndent(toks, pos, close),
		EOL:       eol,
		BlankLine: docblock.NeedsBlankLine(toks, pos),
	}
}

// closerIndent derives the line prefix from the blanks in front of "*/":
// " */" gives "", "\t */" gives "\t".
func closerIndent(toks []lexer.Token, from, close int) string {
	var b strings.Builder
	for i := from + 1; i < close; i++ {
		if toks[i].Kind != lexer.DocWhitespace {
			return ""
		}
		b.WriteString(toks[i].Text)
	}
	return strings.TrimSuffix(b.String(), " ")
}

// Build plans the edits for the declaration found by loc. Without a doc
// block, a new one holding all desired annotations is put in front of the
// declaration; otherwise desired annotations are merged into the block.
func Build(loc *lexer.Location, desired []annotation.Annotation) EditPlan {
	if len(desired) == 0 {
		return EditPlan{}
	}
	toks := loc.Tokens

	if !loc.HasDocBlock() {
		start := toks[loc.DeclStart]
		indent := lexer.LineIndent(toks, loc.DeclStart)
		block := docblock.Render(desired, indent, loc.EOL)
		return EditPlan{
			Ops: []Op{{
				Kind:     ReplaceAt,
				Position: loc.DeclStart,
				Text:     block + indent + start.Text,
			}},
			Added: len(desired),
		}
	}

	existing := docblock.ParseExisting(toks, loc.DocClose)
	return Plan(desired, existing, AnchorFor(toks, loc.DocClose, loc.EOL))
}
