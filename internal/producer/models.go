package producer

import (
	"regexp"
	"strings"

	"docblock-annotator/internal/annotation"
)

var (
	reModelClass = regexp.MustCompile(`\$modelClass\s*=\s*['"]([\w/]+(?:\.\w+)?)['"]`)
	reLoadModel  = regexp.MustCompile(`\bloadModel\(\s*['"]([\w/]+(?:\.\w+)?)['"]`)
)

// DefaultNamespace is the application namespace used when none is set.
const DefaultNamespace = "App"

// Models annotates the table classes a class pulls in, e.g.
//
//	$this->loadModel('Shop.Orders');
//
// yields "@property \Shop\Model\Table\OrdersTable $Orders". Models without a
// plugin prefix live in Namespace.
type Models struct {
	Namespace string
}

// NewModels returns a Models producer for namespace. A plugin name such as
// "Vendor/Shop" becomes "Vendor\Shop"; "" selects DefaultNamespace.
func NewModels(namespace string) Models {
	namespace = strings.Trim(strings.ReplaceAll(namespace, "/", `\`), `\`)
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return Models{Namespace: namespace}
}

func (m Models) Annotations(_ string, content []byte) ([]annotation.Annotation, error) {
	var out []annotation.Annotation
	seen := map[string]bool{}
	for _, model := range UsedModels(content) {
		a, err := m.annotate(model)
		if err != nil {
			return nil, err
		}
		if seen[a.Name] {
			continue
		}
		seen[a.Name] = true
		out = append(out, a)
	}
	return out, nil
}

func (m Models) annotate(model string) (annotation.Annotation, error) {
	ns := m.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	plugin, name := pluginSplit(model)
	if plugin != "" {
		ns = strings.ReplaceAll(plugin, "/", `\`)
	}
	class := `\` + ns + `\Model\Table\` + name + "Table"
	return annotation.New(annotation.Property, name, class, "")
}

// UsedModels lists model names in order of appearance: the $modelClass
// default first, then every loadModel call.
func UsedModels(content []byte) []string {
	var out []string
	if m := reModelClass.FindSubmatch(content); m != nil {
		out = append(out, string(m[1]))
	}
	for _, m := range reLoadModel.FindAllSubmatch(content, -1) {
		out = append(out, string(m[1]))
	}
	return out
}

// pluginSplit splits "Plugin.Name" into its parts; plain names have no
// plugin.
func pluginSplit(model string) (plugin, name string) {
	if i := strings.LastIndexByte(model, '.'); i >= 0 {
		return model[:i], model[i+1:]
	}
	return "", model
}
