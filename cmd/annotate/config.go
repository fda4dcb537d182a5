package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"runtime"
	"strings"

	"docblock-annotator/internal/annotator"
	"docblock-annotator/internal/config"
	"docblock-annotator/internal/walkwalk"
)

// errUsage marks command line mistakes (exit status 2).
var errUsage = errors.New("usage")

// Config is the resolved command line.
type Config struct {
	roots []string

	dryRun       bool
	verbose      bool
	diffFormat   string
	diffContext  int
	maxDiffBytes int

	plugin   string
	annotate []string
	models   bool

	exts           string
	exclude        string
	useGitignore   bool
	followSymlinks bool
	maxFileBytes   int64
	jobs           int

	configPath string
	logLevel   string
	logJSON    bool
	logFile    string

	// set records flags given explicitly; they win over the config file.
	set map[string]bool
}

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, "; ") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func newFlagSet(cfg *Config, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("annotate", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprintf(out, "Usage:\n  annotate [flags] <path>...\n\n")
		fmt.Fprintln(out, "Adds @property/@var/@method annotations to the doc block of the first")
		fmt.Fprintln(out, "class, interface or trait of every PHP file below <path>.")
		fmt.Fprintln(out, "\nFlags:")
		fs.PrintDefaults()
	}

	fs.BoolVar(&cfg.dryRun, "dry-run", false, "compute changes but do not write files")
	fs.BoolVar(&cfg.verbose, "verbose", false, "print a diff for every changed file")
	fs.StringVar(&cfg.diffFormat, "diff", annotator.DiffPreview, "diff format in -verbose mode: preview or unified")
	fs.IntVar(&cfg.diffContext, "diff-context", 3, "context lines for -diff=unified")
	fs.IntVar(&cfg.maxDiffBytes, "max-diff-bytes", 200_000, "max bytes per unified diff (0 = no limit)")

	fs.StringVar(&cfg.plugin, "plugin", "", `namespace for models without plugin prefix, e.g. "Shop/Cart" (default: composer.json, else App)`)
	fs.Var((*stringList)(&cfg.annotate), "annotate", `annotation added to every file, e.g. '@property \Foo $foo' (repeatable)`)
	fs.BoolVar(&cfg.models, "models", false, "annotate tables used via $modelClass and loadModel()")

	fs.StringVar(&cfg.exts, "ext", strings.Join(walkwalk.DefaultExts, ","), "comma-separated extensions to annotate")
	fs.StringVar(&cfg.exclude, "exclude", strings.Join(walkwalk.DefaultExclude, ","), "comma-separated names or globs to skip")
	fs.BoolVar(&cfg.useGitignore, "use-gitignore", true, "honor the root .gitignore during the walk")
	fs.BoolVar(&cfg.followSymlinks, "follow-symlinks", false, "annotate symlinked files")
	fs.Int64Var(&cfg.maxFileBytes, "max-file-bytes", 2_000_000, "skip files larger than this (0 = no limit)")
	fs.IntVar(&cfg.jobs, "jobs", runtime.NumCPU(), "files processed in parallel")

	fs.StringVar(&cfg.configPath, "config", "", "YAML configuration file")
	fs.StringVar(&cfg.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	fs.BoolVar(&cfg.logJSON, "log-json", false, "log JSON lines instead of text")
	fs.StringVar(&cfg.logFile, "log-file", "", "also append logs to this file")
	return fs
}

// parseFlags reads the command line. Flags may follow the paths.
func parseFlags(args []string, out io.Writer) (Config, error) {
	var cfg Config
	fs := newFlagSet(&cfg, out)

	flags, positional := reorderArgs(fs, args)
	if err := fs.Parse(flags); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return cfg, err
		}
		return cfg, fmt.Errorf("%w: %v", errUsage, err)
	}
	cfg.roots = append(positional, fs.Args()...)
	cfg.set = map[string]bool{}
	fs.Visit(func(f *flag.Flag) { cfg.set[f.Name] = true })

	if len(cfg.roots) == 0 {
		return cfg, fmt.Errorf("%w: missing <path>", errUsage)
	}
	if err := cfg.check(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (cfg Config) check() error {
	switch cfg.diffFormat {
	case annotator.DiffPreview, annotator.DiffUnified:
	default:
		return fmt.Errorf("%w: -diff must be %s or %s, got %q", errUsage, annotator.DiffPreview, annotator.DiffUnified, cfg.diffFormat)
	}
	if cfg.jobs < 1 {
		return fmt.Errorf("%w: -jobs must be at least 1", errUsage)
	}
	return nil
}

// reorderArgs moves flags in front of positional arguments so that
// "annotate src -dry-run" works like "annotate -dry-run src". Everything
// after "--" is positional.
func reorderArgs(fs *flag.FlagSet, args []string) (flags, positional []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return flags, append(positional, args[i+1:]...)
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			positional = append(positional, arg)
			continue
		}
		flags = append(flags, arg)
		if strings.Contains(arg, "=") {
			continue
		}
		f := fs.Lookup(strings.TrimLeft(arg, "-"))
		if f == nil || isBoolFlag(f) || i+1 >= len(args) {
			continue
		}
		i++
		flags = append(flags, args[i])
	}
	return flags, positional
}

func isBoolFlag(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

// applyFile fills every setting the command line left at its default from
// the configuration file.
func (cfg *Config) applyFile(f config.File) {
	if f.Plugin != "" && !cfg.set["plugin"] {
		cfg.plugin = f.Plugin
	}
	if f.DryRun != nil && !cfg.set["dry-run"] {
		cfg.dryRun = *f.DryRun
	}
	if f.Verbose != nil && !cfg.set["verbose"] {
		cfg.verbose = *f.Verbose
	}
	if f.Models != nil && !cfg.set["models"] {
		cfg.models = *f.Models
	}
	if len(f.Ext) > 0 && !cfg.set["ext"] {
		cfg.exts = strings.Join(f.Ext, ",")
	}
	if f.Exclude != nil && !cfg.set["exclude"] {
		cfg.exclude = strings.Join(f.Exclude, ",")
	}
	if f.Jobs > 0 && !cfg.set["jobs"] {
		cfg.jobs = f.Jobs
	}
}

// splitCSV splits a comma-separated list, trimming blanks and dropping
// empty items.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
