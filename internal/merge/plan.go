// Package merge reconciles desired annotations with the ones already present
// in a doc block and turns the result into an EditPlan for the fixer.
//
// Matching is an ownership move: every desired annotation takes the first
// still-unclaimed existing annotation with the same tag and subject, so no
// existing line is claimed twice. Claimed lines whose value differs are
// rewritten in place; everything left over is appended as one batch.
package merge

import (
	"fmt"
	"slices"
	"strings"

	"docblock-annotator/internal/annotation"
)

// OpKind distinguishes plan operations.
type OpKind int

const (
	ReplaceAt   OpKind = iota // replace the text of the token at Position
	AppendAfter               // insert Text after the token at Position
)

func (k OpKind) String() string {
	switch k {
	case ReplaceAt:
		return "ReplaceAt"
	case AppendAfter:
		return "AppendAfter"
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}

// Op is a single token-keyed edit.
type Op struct {
	Kind     OpKind
	Position int
	Text     string
}

func (o Op) String() string {
	return fmt.Sprintf("%s(%d, %q)", o.Kind, o.Position, o.Text)
}

// EditPlan is an ordered list of edits plus counters for reporting. It holds
// at most one AppendAfter.
type EditPlan struct {
	Ops      []Op
	Added    int
	Replaced int
}

// Empty reports whether applying the plan would change nothing.
func (p EditPlan) Empty() bool { return len(p.Ops) == 0 }

func (p EditPlan) String() string {
	parts := make([]string, len(p.Ops))
	for i, op := range p.Ops {
		parts[i] = op.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Anchor describes where and how unmatched annotations are appended.
type Anchor struct {
	Position  int    // token the appended text follows
	Indent    string // prefix of every appended line, before " * "
	EOL       string
	BlankLine bool   // emit "<indent> *" before the first appended line
	Lead      string // written before the appended lines
	Trail     string // written after the appended lines
}

// Reconcile splits desired into replacements of existing annotations and
// annotations to append. Each replacement is the claimed existing annotation
// carrying the desired value; existing annotations that already hold the
// desired value are claimed without producing a replacement.
func Reconcile(desired, existing []annotation.Annotation) (replaced, appended []annotation.Annotation) {
	pool := slices.Clone(existing)
	for _, d := range desired {
		i := slices.IndexFunc(pool, d.Matches)
		if i < 0 {
			appended = append(appended, d)
			continue
		}
		claimed := pool[i]
		pool = slices.Delete(pool, i, i+1)
		if claimed.SameValue(d) {
			continue
		}
		claimed.ReplaceWith(d)
		replaced = append(replaced, claimed)
	}
	return replaced, appended
}

// Plan builds the edit plan for a block that already exists.
func Plan(desired, existing []annotation.Annotation, anchor Anchor) EditPlan {
	replaced, appended := Reconcile(desired, existing)

	var plan EditPlan
	for _, r := range replaced {
		pos, ok := r.Origin()
		if !ok {
			continue
		}
		plan.Ops = append(plan.Ops, Op{Kind: ReplaceAt, Position: pos, Text: r.Body()})
		plan.Replaced++
	}
	if len(appended) == 0 {
		return plan
	}

	text := appendText(appended, anchor)
	plan.Added = len(appended)
	// The anchor token may itself be a rewritten description (single-line
	// blocks without blanks); fold the insertion into that replacement.
	for i := range plan.Ops {
		if plan.Ops[i].Position == anchor.Position {
			plan.Ops[i].Text += text
			return plan
		}
	}
	plan.Ops = append(plan.Ops, Op{Kind: AppendAfter, Position: anchor.Position, Text: text})
	return plan
}

func appendText(appended []annotation.Annotation, anchor Anchor) string {
	var b strings.Builder
	b.WriteString(anchor.Lead)
	if anchor.BlankLine {
		b.WriteString(anchor.Indent)
		b.WriteString(" *")
		b.WriteString(anchor.EOL)
	}
	for _, a := range appended {
		b.WriteString(anchor.Indent)
		b.WriteString(" * ")
		b.WriteString(a.String())
		b.WriteString(anchor.EOL)
	}
	b.WriteString(anchor.Trail)
	return b.String()
}
