package annotator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"docblock-annotator/internal/annotation"
	"docblock-annotator/internal/diff"
	"docblock-annotator/internal/fixer"
	"docblock-annotator/internal/lexer"
	"docblock-annotator/internal/producer"
	"docblock-annotator/internal/writer"
)

// Diff formats accepted by Options.DiffFormat.
const (
	DiffPreview = "preview"
	DiffUnified = "unified"
)

// Options controls side effects. The zero value writes files and renders
// nothing.
type Options struct {
	DryRun      bool
	Verbose     bool
	DiffFormat  string // DiffPreview (default) or DiffUnified
	DiffContext int
	DiffMax     int // byte limit for unified diffs, 0 = unlimited
}

// Annotator applies annotations to files. It holds no per-file state and
// may be shared between goroutines.
type Annotator struct {
	opts   Options
	store  writer.Writer
	logger *slog.Logger
}

// New returns an Annotator. A nil logger discards log output.
func New(opts Options, logger *slog.Logger) *Annotator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Annotator{
		opts:   opts,
		store:  writer.Writer{DryRun: opts.DryRun},
		logger: logger,
	}
}

// Annotate merges desired into content and stores the result at path when
// it changed.
func (a *Annotator) Annotate(path string, content []byte, desired []annotation.Annotation) (Result, error) {
	src := string(content)
	res, err := Merge(src, desired)
	res.Path = path
	if err != nil {
		a.logFailure(path, err)
		return res, fmt.Errorf("%s: %w", path, err)
	}
	if !res.Changed {
		a.logger.Debug("unchanged", "path", path)
		return res, nil
	}

	if a.opts.Verbose {
		d, err := a.render(path, src, res.Content)
		if err != nil {
			return res, fmt.Errorf("%s: render diff: %w", path, err)
		}
		res.Diff = d
	}

	written, err := a.store.Store(path, []byte(res.Content))
	if err != nil {
		a.logger.Error("store failed", "path", path, "error", err)
		return res, fmt.Errorf("%s: store: %w", path, err)
	}
	res.Written = written
	a.logger.Info("annotated",
		"path", path,
		"added", res.Added,
		"replaced", res.Replaced,
		"written", written)
	return res, nil
}

// AnnotateFile reads path, asks p for the desired annotations and runs
// Annotate. A cancelled ctx stops before the file is read.
func (a *Annotator) AnnotateFile(ctx context.Context, path string, p producer.Producer) (Result, error) {
	res := Result{Path: path}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return res, err
	}
	desired, err := p.Annotations(path, content)
	if err != nil {
		return res, fmt.Errorf("%s: produce annotations: %w", path, err)
	}
	if len(desired) == 0 {
		res.Content = string(content)
		return res, nil
	}
	return a.Annotate(path, content, desired)
}

func (a *Annotator) render(path, before, after string) (string, error) {
	if a.opts.DiffFormat == DiffUnified {
		body, oversize := diff.Unified("a/"+path, "b/"+path, before, after, diff.Options{
			MaxBytes: a.opts.DiffMax,
			Context:  a.opts.DiffContext,
		})
		if oversize {
			a.logger.Debug("diff omitted", "path", path, "bytes", len(before)+len(after), "max", a.opts.DiffMax)
		}
		return body, nil
	}
	var buf bytes.Buffer
	if err := diff.Preview(&buf, before, after); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (a *Annotator) logFailure(path string, err error) {
	var (
		malformed *lexer.MalformedSourceError
		overlap   *fixer.OverlappingEditError
		tag       *annotation.UnrecognizedTagError
	)
	switch {
	case errors.As(err, &malformed):
		a.logger.Warn("skipping file", "path", path, "reason", malformed.Reason)
	case errors.As(err, &overlap):
		a.logger.Error("conflicting edits", "path", path, "position", overlap.Position, "error", err)
	case errors.As(err, &tag):
		a.logger.Error("invalid annotation", "path", path, "tag", tag.Tag)
	default:
		a.logger.Error("annotate failed", "path", path, "error", err)
	}
}
