// Package producer decides which annotations a file should carry.
//
// The merge engine never discovers annotations itself; it is handed a list
// per file by a Producer:
//   - Static: fixed annotation lines, optionally restricted to paths matching
//     a glob (from -annotate flags or the config file),
//   - Models: table classes used by a controller-like class, found through
//     "$modelClass = '…'" and "loadModel('…')",
//   - Chain: several producers in order, later duplicates dropped.
package producer

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"docblock-annotator/internal/annotation"
)

// Producer returns the desired annotations for one file. An empty result
// leaves the file untouched.
type Producer interface {
	Annotations(path string, content []byte) ([]annotation.Annotation, error)
}

// Rule binds annotations to files whose slash-separated path or base name
// matches Pattern. An empty Pattern matches every file.
type Rule struct {
	Pattern     string
	Annotations []annotation.Annotation
}

func (r Rule) match(p string) (bool, error) {
	if r.Pattern == "" {
		return true, nil
	}
	p = filepath.ToSlash(p)
	ok, err := path.Match(r.Pattern, p)
	if err != nil || ok {
		return ok, err
	}
	if strings.Contains(r.Pattern, "/") {
		// "src/Controller/*.php" also matches "./app/src/Controller/X.php".
		for i := 0; i < len(p); i++ {
			if p[i] != '/' {
				continue
			}
			if ok, _ := path.Match(r.Pattern, p[i+1:]); ok {
				return true, nil
			}
		}
		return false, nil
	}
	return path.Match(r.Pattern, path.Base(p))
}

// Static hands out fixed annotations.
type Static []Rule

// Annotations returns the annotations of every matching rule in order.
func (s Static) Annotations(p string, _ []byte) ([]annotation.Annotation, error) {
	var out []annotation.Annotation
	for _, r := range s {
		ok, err := r.match(p)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", r.Pattern, err)
		}
		if ok {
			out = append(out, r.Annotations...)
		}
	}
	return out, nil
}

// ParseRule builds a Rule from annotation lines such as
// "@property \App\Model\Table\BarsTable $Bars".
func ParseRule(pattern string, lines []string) (Rule, error) {
	r := Rule{Pattern: pattern}
	if _, err := path.Match(pattern, ""); err != nil {
		return r, fmt.Errorf("pattern %q: %w", pattern, err)
	}
	for _, l := range lines {
		a, err := annotation.ParseLine(l)
		if err != nil {
			return r, err
		}
		r.Annotations = append(r.Annotations, a)
	}
	return r, nil
}

// Chain runs producers in order. An annotation whose tag and subject were
// already produced is dropped, so the first producer wins.
type Chain []Producer

func (c Chain) Annotations(p string, content []byte) ([]annotation.Annotation, error) {
	var out []annotation.Annotation
	for _, pr := range c {
		got, err := pr.Annotations(p, content)
		if err != nil {
			return nil, err
		}
		for _, a := range got {
			if !containsMatch(out, a) {
				out = append(out, a)
			}
		}
	}
	return out, nil
}

func containsMatch(list []annotation.Annotation, a annotation.Annotation) bool {
	for _, o := range list {
		if o.Matches(a) {
			return true
		}
	}
	return false
}
