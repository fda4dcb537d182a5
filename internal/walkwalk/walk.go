// Package walkwalk finds the source files to annotate.
//
// Collect accepts files and directories. Directories are walked with:
//   - an extension filter (case-insensitive, default ".php"),
//   - excluded names matched against every path element, either literally
//     ("vendor") or as a glob ("*.blade.php"),
//   - the root's .gitignore when enabled,
//   - symlinked files skipped unless FollowSymlinks is set (symlinked
//     directories are never entered).
//
// Results are unique and sorted by path so runs are reproducible.
package walkwalk

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultExts and DefaultExclude apply when Options leaves them empty.
var (
	DefaultExts    = []string{".php"}
	DefaultExclude = []string{".git", ".svn", "vendor", "node_modules", "tmp", "logs"}
)

// Options filters the walk.
type Options struct {
	Exts           []string
	Exclude        []string
	UseGitignore   bool
	FollowSymlinks bool
	MaxFileBytes   int64 // 0 = no limit
}

// File is one collected source file.
type File struct {
	Path    string // as passed in or joined onto the walked root
	RelPath string // relative to the walked root, forward slashes
}

type walker struct {
	opts     Options
	root     string
	exts     map[string]struct{}
	patterns []gitPattern
	files    []File
	ctx      context.Context
}

// Collect expands roots into the files to annotate. A root that is a file
// is taken as is, whatever its extension.
func Collect(ctx context.Context, roots []string, opts Options) ([]File, error) {
	if len(opts.Exts) == 0 {
		opts.Exts = DefaultExts
	}
	if opts.Exclude == nil {
		opts.Exclude = DefaultExclude
	}

	var out []File
	for _, root := range roots {
		fi, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			out = append(out, File{Path: root, RelPath: filepath.ToSlash(filepath.Base(root))})
			continue
		}
		files, err := walkDir(ctx, root, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}

	slices.SortFunc(out, func(a, b File) int { return strings.Compare(a.Path, b.Path) })
	return slices.CompactFunc(out, func(a, b File) bool { return a.Path == b.Path }), nil
}

func walkDir(ctx context.Context, root string, opts Options) ([]File, error) {
	w := &walker{opts: opts, root: root, exts: map[string]struct{}{}, ctx: ctx}
	for _, e := range opts.Exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		w.exts[e] = struct{}{}
	}
	if opts.UseGitignore {
		pats, err := parseGitignore(filepath.Join(root, ".gitignore"))
		if err == nil {
			w.patterns = pats
		}
	}
	if err := filepath.WalkDir(root, w.visit); err != nil {
		return nil, err
	}
	return w.files, nil
}

func (w *walker) visit(p string, d fs.DirEntry, err error) error {
	if cerr := w.ctx.Err(); cerr != nil {
		return cerr
	}
	if err != nil {
		// Unreadable entries are skipped, not fatal.
		if d != nil && d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	}
	rel, err := filepath.Rel(w.root, p)
	if err != nil {
		return nil
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return nil
	}

	if w.skip(rel, d) {
		if d.IsDir() {
			return filepath.SkipDir
		}
		return nil
	}
	if d.IsDir() {
		return nil
	}
	return w.file(p, rel, d)
}

func (w *walker) skip(rel string, d fs.DirEntry) bool {
	if excluded(path.Base(rel), w.opts.Exclude) {
		return true
	}
	return w.opts.UseGitignore && matchGitignore(w.patterns, rel, d.IsDir())
}

func (w *walker) file(p, rel string, d fs.DirEntry) error {
	if isSymlink(d) && !w.opts.FollowSymlinks {
		return nil
	}
	if _, ok := w.exts[strings.ToLower(filepath.Ext(p))]; !ok {
		return nil
	}
	info, err := os.Stat(p)
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}
	if w.opts.MaxFileBytes > 0 && info.Size() > w.opts.MaxFileBytes {
		return nil
	}
	w.files = append(w.files, File{Path: p, RelPath: rel})
	return nil
}

// excluded reports whether name equals or glob-matches an exclude entry.
func excluded(name string, exclude []string) bool {
	for _, x := range exclude {
		if x == name {
			return true
		}
		if ok, _ := path.Match(x, name); ok {
			return true
		}
	}
	return false
}

func isSymlink(d fs.DirEntry) bool {
	return d.Type()&fs.ModeSymlink != 0
}
