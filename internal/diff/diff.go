// Package diff renders the changes an annotation run makes to a file.
//
// Two renderings are offered:
//   - Preview: a compact, context-bounded line diff (the default for -verbose)
//   - Unified: a classic unified patch (---/+++ headers, @@ hunks) built with
//     github.com/pmezard/go-difflib/difflib, for -diff=unified
package diff

import (
	"fmt"

	difflib "github.com/pmezard/go-difflib/difflib"

	"docblock-annotator/internal/textutil"
)

// Options controls unified patch generation.
type Options struct {
	// MaxBytes is a guardrail on input size (a+b). When exceeded, a
	// placeholder patch is returned and oversize=true. 0 means "no limit".
	MaxBytes int

	// Context is the number of context lines around each hunk. If 0,
	// default to 3.
	Context int
}

// Unified produces a unified patch for a↦b. It returns "" when both texts
// are equal.
func Unified(aName, bName, a, b string, opt Options) (body string, oversize bool) {
	if a == b {
		return "", false
	}
	if opt.MaxBytes > 0 && len(a)+len(b) > opt.MaxBytes {
		return omitted(aName, bName), true
	}

	ctx := opt.Context
	if ctx <= 0 {
		ctx = 3
	}

	u := difflib.UnifiedDiff{
		A:        textutil.SplitLinesKeepNL(a),
		B:        textutil.SplitLinesKeepNL(b),
		FromFile: aName,
		ToFile:   bName,
		Context:  ctx,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil || s == "" {
		return omitted(aName, bName), false
	}
	return s, false
}

// omitted returns a compact placeholder when no patch can be produced.
func omitted(aName, bName string) string {
	return fmt.Sprintf("--- %s\n+++ %s\n@@\n# diff omitted (oversize)\n", aName, bName)
}
