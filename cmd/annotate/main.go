// Package main provides the annotate CLI: it walks PHP source trees and
// merges @property, @var and @method annotations into the doc block above
// the first class, interface or trait of each file.
//
// Usage:
//
//	annotate [flags] <path>...
//
// Annotations come from:
//   - -annotate lines, applied to every file,
//   - the "annotations" section of a -config file, per path glob,
//   - -models, which derives table properties from $modelClass and
//     loadModel() calls.
//
// Files are processed in parallel (-jobs); output is reported in path order.
// Exit status is 0 on success, 1 when a file failed and 2 on usage errors.
// Files without a declaration are skipped, not failed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"docblock-annotator/internal/annotator"
	"docblock-annotator/internal/config"
	"docblock-annotator/internal/lexer"
	"docblock-annotator/internal/logging"
	"docblock-annotator/internal/meta"
	"docblock-annotator/internal/producer"
	"docblock-annotator/internal/walkwalk"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// outcome is the result of one file, stored by index so the report keeps
// path order whatever the scheduling.
type outcome struct {
	res annotator.Result
	err error
}

type summary struct {
	changed, unchanged, skipped, failed int
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, "ERROR:", err)
		return 2
	}
	var groups config.Annotations
	if cfg.configPath != "" {
		f, err := config.Load(cfg.configPath)
		if err != nil {
			fmt.Fprintln(stderr, "ERROR: config:", err)
			return 2
		}
		cfg.applyFile(f)
		if err := cfg.check(); err != nil {
			fmt.Fprintln(stderr, "ERROR:", err)
			return 2
		}
		groups = f.Annotations
	}

	level, err := logging.ParseLevel(cfg.logLevel)
	if err != nil {
		fmt.Fprintln(stderr, "ERROR:", err)
		return 2
	}
	logger, cleanup, err := logging.Setup(stderr, logging.Options{Level: level, JSON: cfg.logJSON, LogFile: cfg.logFile})
	if err != nil {
		fmt.Fprintln(stderr, "ERROR: logging:", err)
		return 1
	}
	defer cleanup()

	prod, err := buildProducer(cfg, groups, logger)
	if err != nil {
		fmt.Fprintln(stderr, "ERROR:", err)
		return 2
	}

	exclude := splitCSV(cfg.exclude)
	if exclude == nil {
		exclude = []string{}
	}
	files, err := walkwalk.Collect(ctx, cfg.roots, walkwalk.Options{
		Exts:           splitCSV(cfg.exts),
		Exclude:        exclude,
		UseGitignore:   cfg.useGitignore,
		FollowSymlinks: cfg.followSymlinks,
		MaxFileBytes:   cfg.maxFileBytes,
	})
	if err != nil {
		fmt.Fprintln(stderr, "ERROR:", err)
		return 1
	}
	if len(files) == 0 {
		fmt.Fprintln(stdout, "No files matched filters.")
		return 0
	}
	logger.Debug("collected files", "count", len(files), "jobs", cfg.jobs)

	a := annotator.New(annotator.Options{
		DryRun:      cfg.dryRun,
		Verbose:     cfg.verbose,
		DiffFormat:  cfg.diffFormat,
		DiffContext: cfg.diffContext,
		DiffMax:     cfg.maxDiffBytes,
	}, logger)

	results := make([]outcome, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.jobs)
	for i, f := range files {
		g.Go(func() error {
			res, err := a.AnnotateFile(gctx, f.Path, prod)
			results[i] = outcome{res: res, err: err}
			return nil
		})
	}
	_ = g.Wait()

	sum := report(stdout, stderr, cfg, files, results)
	suffix := ""
	if cfg.dryRun {
		suffix = " (dry-run)"
	}
	fmt.Fprintf(stdout, "Done: %d changed, %d unchanged, %d skipped, %d failed%s\n",
		sum.changed, sum.unchanged, sum.skipped, sum.failed, suffix)

	if ctx.Err() != nil {
		fmt.Fprintln(stderr, "ERROR: interrupted")
		return 1
	}
	if sum.failed > 0 {
		return 1
	}
	return 0
}

func report(stdout, stderr io.Writer, cfg Config, files []walkwalk.File, results []outcome) summary {
	var sum summary
	var malformed *lexer.MalformedSourceError
	for i, o := range results {
		path := files[i].Path
		switch {
		case o.err != nil && errors.As(o.err, &malformed):
			sum.skipped++
			if cfg.verbose {
				fmt.Fprintf(stdout, "Skipping %s: %s\n", path, malformed.Reason)
			}
		case o.err != nil:
			sum.failed++
			fmt.Fprintln(stderr, "ERROR:", o.err)
		case o.res.Changed:
			sum.changed++
			fmt.Fprintln(stdout, path)
			if o.res.Diff != "" {
				fmt.Fprint(stdout, o.res.Diff)
			}
			fmt.Fprintln(stdout, changeLine(o.res))
		default:
			sum.unchanged++
		}
	}
	return sum
}

func changeLine(r annotator.Result) string {
	s := fmt.Sprintf("   -> %d %s added", r.Added, plural(r.Added, "annotation"))
	if r.Replaced > 0 {
		s += fmt.Sprintf(", %d replaced", r.Replaced)
	}
	return s
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// buildProducer assembles the annotation sources: -annotate lines first,
// then config file globs, then model discovery.
func buildProducer(cfg Config, groups config.Annotations, logger *slog.Logger) (producer.Producer, error) {
	var chain producer.Chain

	if len(cfg.annotate) > 0 {
		r, err := producer.ParseRule("", cfg.annotate)
		if err != nil {
			return nil, fmt.Errorf("-annotate: %w", err)
		}
		chain = append(chain, producer.Static{r})
	}

	if len(groups) > 0 {
		var rules producer.Static
		var errs []error
		for _, g := range groups {
			r, err := producer.ParseRule(g.Pattern, g.Lines)
			if err != nil {
				errs = append(errs, fmt.Errorf("annotations %q: %w", g.Pattern, err))
				continue
			}
			rules = append(rules, r)
		}
		if err := errors.Join(errs...); err != nil {
			return nil, err
		}
		chain = append(chain, rules)
	}

	if cfg.models {
		ns := cfg.plugin
		if ns == "" && len(cfg.roots) > 0 {
			if inf := meta.Detect(cfg.roots[0]); inf.Namespace != "" {
				ns = inf.Namespace
				logger.Debug("namespace from composer.json", "dir", inf.Dir, "namespace", ns)
			}
		}
		chain = append(chain, producer.NewModels(ns))
	}

	if len(chain) == 0 {
		return nil, fmt.Errorf("%w: nothing to annotate, use -annotate, -models or a config file with annotations", errUsage)
	}
	return chain, nil
}
