// Package config loads the optional YAML configuration file.
//
// Example:
//
//	plugin: Shop/Cart
//	dry_run: false
//	verbose: true
//	ext: [.php]
//	exclude: [vendor, tmp, webroot]
//	jobs: 4
//	models: true
//	annotations:
//	  "src/Controller/*.php":
//	    - '@property \App\Model\Table\UsersTable $Users'
//	  "*Table.php":
//	    - '@method \App\Model\Entity\Entity get($primaryKey, $options = [])'
//
// Unset keys stay nil/zero so the command line can tell them apart from
// explicit values. Unknown keys are an error.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the decoded configuration file.
type File struct {
	Plugin      string      `yaml:"plugin"`
	DryRun      *bool       `yaml:"dry_run"`
	Verbose     *bool       `yaml:"verbose"`
	Ext         []string    `yaml:"ext"`
	Exclude     []string    `yaml:"exclude"`
	Jobs        int         `yaml:"jobs"`
	Models      *bool       `yaml:"models"`
	Annotations Annotations `yaml:"annotations"`
}

// Group is the list of annotation lines for one path glob.
type Group struct {
	Pattern string
	Lines   []string
}

// Annotations keeps the glob groups in file order, which a Go map would
// lose.
type Annotations []Group

// UnmarshalYAML decodes a mapping of glob to a list of lines. A single
// string value is accepted as a one-line list.
func (a *Annotations) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: annotations must be a mapping of glob to lines", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		g := Group{Pattern: key.Value}
		switch val.Kind {
		case yaml.ScalarNode:
			g.Lines = []string{val.Value}
		case yaml.SequenceNode:
			if err := val.Decode(&g.Lines); err != nil {
				return err
			}
		default:
			return fmt.Errorf("line %d: annotations for %q must be a list", val.Line, key.Value)
		}
		*a = append(*a, g)
	}
	return nil
}

// Load reads the file at path.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	f, err := Parse(data)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes configuration data. Empty input gives a zero File.
func Parse(data []byte) (File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, err
	}
	if f.Jobs < 0 {
		return File{}, fmt.Errorf("jobs must not be negative, got %d", f.Jobs)
	}
	return f, nil
}
