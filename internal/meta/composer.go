// Package meta detects project metadata from composer.json.
//
// The annotator only needs the application namespace: the PSR-4 prefix
// mapped to "src/" (CakePHP's layout), else the first prefix in name order.
// Missing or unreadable files are not errors; Detect then returns the zero
// Info and callers fall back to their defaults.
package meta

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Info summarizes a composer project.
type Info struct {
	Name      string // package name, e.g. "cakephp/app"
	Namespace string // application namespace without trailing "\", e.g. "App"
	Dir       string // directory holding composer.json
}

type composerJSON struct {
	Name     string `json:"name"`
	Autoload struct {
		PSR4 map[string]json.RawMessage `json:"psr-4"`
	} `json:"autoload"`
}

// Detect looks for composer.json in start and its parents.
func Detect(start string) Info {
	dir, err := filepath.Abs(start)
	if err != nil {
		return Info{}
	}
	if fi, err := os.Stat(dir); err == nil && !fi.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		if inf, ok := read(filepath.Join(dir, "composer.json")); ok {
			inf.Dir = dir
			return inf
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Info{}
		}
		dir = parent
	}
}

func read(path string) (Info, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Info{}, false
	}
	var c composerJSON
	if err := json.Unmarshal(b, &c); err != nil {
		return Info{}, false
	}
	return Info{Name: strings.TrimSpace(c.Name), Namespace: appNamespace(c.Autoload.PSR4)}, true
}

func appNamespace(psr4 map[string]json.RawMessage) string {
	prefixes := make([]string, 0, len(psr4))
	for p := range psr4 {
		prefixes = append(prefixes, p)
	}
	slices.Sort(prefixes)

	for _, p := range prefixes {
		for _, d := range dirs(psr4[p]) {
			if strings.TrimRight(filepath.ToSlash(d), "/") == "src" {
				return strings.TrimRight(p, `\`)
			}
		}
	}
	if len(prefixes) > 0 {
		return strings.TrimRight(prefixes[0], `\`)
	}
	return ""
}

// dirs decodes a PSR-4 target, which is a string or a list of strings.
func dirs(raw json.RawMessage) []string {
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		return []string{one}
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}
	return nil
}
