// Package annotator is the single-file boundary of the engine: it takes one
// file's content and the desired annotations, runs locate → parse → plan →
// apply entirely in memory, renders the optional diff and stores the result.
//
// Nothing is written unless the whole plan applied cleanly, and a file is
// written at most once per call.
package annotator

import (
	"fmt"

	"docblock-annotator/internal/annotation"
	"docblock-annotator/internal/fixer"
	"docblock-annotator/internal/lexer"
	"docblock-annotator/internal/merge"
)

// Result describes the outcome for one file.
type Result struct {
	Path     string
	Content  string // final text, always computed
	Changed  bool
	Added    int
	Replaced int
	Written  bool
	Diff     string // rendered preview or patch, only in verbose mode
}

// Merge computes the annotated version of src. An empty desired list
// returns src unchanged. Errors are *lexer.MalformedSourceError,
// *annotation.UnrecognizedTagError, an invalid annotation value or a wrapped
// *fixer.OverlappingEditError.
func Merge(src string, desired []annotation.Annotation) (Result, error) {
	res := Result{Content: src}
	if len(desired) == 0 {
		return res, nil
	}
	// Literals bypass annotation.New; normalize them the same way so that a
	// second run reads back what the first one wrote.
	norm := make([]annotation.Annotation, len(desired))
	for i, d := range desired {
		a, err := annotation.New(d.Tag, d.Name, d.Type, d.Extra)
		if err != nil {
			return res, err
		}
		norm[i] = a
	}
	desired = norm

	loc, err := lexer.Locate(src)
	if err != nil {
		return res, err
	}
	plan := merge.Build(loc, desired)
	if plan.Empty() {
		return res, nil
	}
	out, err := fixer.Apply(loc.Tokens, plan)
	if err != nil {
		return res, fmt.Errorf("apply plan %s: %w", plan, err)
	}

	res.Content = out
	res.Changed = out != src
	res.Added = plan.Added
	res.Replaced = plan.Replaced
	return res, nil
}
