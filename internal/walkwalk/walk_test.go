package walkwalk

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, root string, rels ...string) {
	t.Helper()
	for _, rel := range rels {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("<?php\n"), 0o644))
	}
}

func rels(files []File) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.RelPath)
	}
	return out
}

func TestCollectDefaults(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"src/Controller/FooController.php",
		"src/Model/Table/BarsTable.PHP",
		"src/Template/index.ctp",
		"vendor/lib/Lib.php",
		"tmp/cache/x.php",
		"README.md",
	)

	files, err := Collect(context.Background(), []string{root}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"src/Controller/FooController.php",
		"src/Model/Table/BarsTable.PHP",
	}, rels(files))
	assert.Equal(t, filepath.Join(root, "src", "Controller", "FooController.php"), files[0].Path)
}

func TestCollectExtsAndGlobExclude(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.php", "b.ctp", "c.blade.php", "vendor/d.php")

	files, err := Collect(context.Background(), []string{root}, Options{
		Exts:    []string{"php", ".ctp"},
		Exclude: []string{"*.blade.php"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.php", "b.ctp", "vendor/d.php"}, rels(files))
}

func TestCollectGitignore(t *testing.T) {
	root := t.TempDir()
	touch(t, root,
		"src/A.php",
		"src/Generated/B.php",
		"src/Generated/Keep.php",
		"build/C.php",
		"docs/api/D.php",
	)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte(
		"# generated\nsrc/Generated/*\n!src/Generated/Keep.php\nbuild/\n/docs/**/*.php\n"), 0o644))

	files, err := Collect(context.Background(), []string{root}, Options{UseGitignore: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/A.php", "src/Generated/Keep.php"}, rels(files))

	files, err = Collect(context.Background(), []string{root}, Options{})
	require.NoError(t, err)
	assert.Len(t, files, 5)
}

func TestCollectFilesAndDuplicates(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "x/A.php", "x/B.inc")
	a := filepath.Join(root, "x", "A.php")
	b := filepath.Join(root, "x", "B.inc")

	files, err := Collect(context.Background(), []string{b, filepath.Join(root, "x"), a}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []File{{Path: a, RelPath: "A.php"}, {Path: b, RelPath: "B.inc"}}, files)

	_, err = Collect(context.Background(), []string{filepath.Join(root, "missing")}, Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCollectMaxFileBytes(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "small.php")
	require.NoError(t, os.WriteFile(filepath.Join(root, "big.php"), make([]byte, 1024), 0o644))

	files, err := Collect(context.Background(), []string{root}, Options{MaxFileBytes: 100})
	require.NoError(t, err)
	assert.Equal(t, []string{"small.php"}, rels(files))
}

func TestCollectCancelled(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a.php")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Collect(ctx, []string{root}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGitPatterns(t *testing.T) {
	cases := []struct {
		pattern string
		path    string
		dir     bool
		want    bool
	}{
		{"*.php", "a/b/c.php", false, true},
		{"/a.php", "a.php", false, true},
		{"/a.php", "x/a.php", false, false},
		{"logs/", "logs", true, true},
		{"logs/", "logs", false, false},
		{"a/**/b.php", "a/b.php", false, true},
		{"a/**/b.php", "a/x/y/b.php", false, true},
		{"cache/**", "cache/x/y", false, true},
		{"file[0-9].php", "file7.php", false, true},
		{"file[!0-9].php", "file7.php", false, false},
	}
	for _, tc := range cases {
		p, ok := compileGitPattern(tc.pattern)
		require.True(t, ok, tc.pattern)
		assert.Equal(t, tc.want, matchGitignore([]gitPattern{p}, tc.path, tc.dir), "%s vs %s", tc.pattern, tc.path)
	}

	_, ok := compileGitPattern("# comment")
	assert.False(t, ok)
	_, ok = compileGitPattern("   ")
	assert.False(t, ok)
}
