// Package fixer applies token-keyed edits to a token stream, in the manner
// of a changeset fixer: original tokens are never modified, replacement and
// appended text is recorded per token position and only materialized when
// the contents are rendered.
package fixer

import (
	"fmt"
	"strings"

	"docblock-annotator/internal/lexer"
	"docblock-annotator/internal/merge"
)

// OverlappingEditError reports two edits claiming the same token, or an
// edit outside the token stream. It indicates a planning defect; the file
// must not be written.
type OverlappingEditError struct {
	Position int
	Existing string // what already claimed the position, if anything
	Incoming merge.OpKind
}

func (e *OverlappingEditError) Error() string {
	if e.Existing == "" {
		return fmt.Sprintf("edit %s at token %d is out of range", e.Incoming, e.Position)
	}
	return fmt.Sprintf("overlapping edits at token %d: %s already claimed it, got %s",
		e.Position, e.Existing, e.Incoming)
}

// Fixer records edits against a fixed token stream.
type Fixer struct {
	tokens       []lexer.Token
	replacements map[int]string
	additions    map[int]string
}

// New starts an empty changeset for tokens.
func New(tokens []lexer.Token) *Fixer {
	return &Fixer{
		tokens:       tokens,
		replacements: make(map[int]string),
		additions:    make(map[int]string),
	}
}

// ReplaceToken records text to be emitted instead of the token at pos.
func (f *Fixer) ReplaceToken(pos int, text string) error {
	if err := f.claim(pos, merge.ReplaceAt); err != nil {
		return err
	}
	f.replacements[pos] = text
	return nil
}

// AddContent records text to be emitted right after the token at pos.
func (f *Fixer) AddContent(pos int, text string) error {
	if err := f.claim(pos, merge.AppendAfter); err != nil {
		return err
	}
	f.additions[pos] = text
	return nil
}

func (f *Fixer) claim(pos int, kind merge.OpKind) error {
	if pos < 0 || pos >= len(f.tokens) {
		return &OverlappingEditError{Position: pos, Incoming: kind}
	}
	if _, ok := f.replacements[pos]; ok {
		return &OverlappingEditError{Position: pos, Existing: merge.ReplaceAt.String(), Incoming: kind}
	}
	if _, ok := f.additions[pos]; ok {
		return &OverlappingEditError{Position: pos, Existing: merge.AppendAfter.String(), Incoming: kind}
	}
	return nil
}

// Contents renders the token stream with all recorded edits.
func (f *Fixer) Contents() string {
	var b strings.Builder
	for i, t := range f.tokens {
		if r, ok := f.replacements[i]; ok {
			b.WriteString(r)
		} else {
			b.WriteString(t.Text)
		}
		b.WriteString(f.additions[i])
	}
	return b.String()
}

// Apply runs plan against tokens and returns the new file contents.
func Apply(tokens []lexer.Token, plan merge.EditPlan) (string, error) {
	f := New(tokens)
	for _, op := range plan.Ops {
		var err error
		switch op.Kind {
		case merge.ReplaceAt:
			err = f.ReplaceToken(op.Position, op.Text)
		case merge.AppendAfter:
			err = f.AddContent(op.Position, op.Text)
		default:
			err = fmt.Errorf("unknown edit %s", op.Kind)
		}
		if err != nil {
			return "", err
		}
	}
	return f.Contents(), nil
}
