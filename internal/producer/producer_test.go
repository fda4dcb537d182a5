package producer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docblock-annotator/internal/annotation"
)

func lines(as []annotation.Annotation) []string {
	out := make([]string, 0, len(as))
	for _, a := range as {
		out = append(out, a.String())
	}
	return out
}

func TestStaticPatterns(t *testing.T) {
	all, err := ParseRule("", []string{`@property \Foo $foo`})
	require.NoError(t, err)
	ctrl, err := ParseRule("src/Controller/*.php", []string{`@method \Bar bar()`})
	require.NoError(t, err)
	base, err := ParseRule("*Table.php", []string{`@var \Baz`})
	require.NoError(t, err)
	s := Static{all, ctrl, base}

	cases := []struct {
		path string
		want []string
	}{
		{"app/src/Controller/FooController.php", []string{`@property \Foo $foo`, `@method \Bar bar()`}},
		{"src/Controller/FooController.php", []string{`@property \Foo $foo`, `@method \Bar bar()`}},
		{"src/Model/Table/BarsTable.php", []string{`@property \Foo $foo`, `@var \Baz`}},
		{"src/View/AppView.php", []string{`@property \Foo $foo`}},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			got, err := s.Annotations(tc.path, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, lines(got))
		})
	}
}

func TestParseRuleErrors(t *testing.T) {
	_, err := ParseRule("[", nil)
	assert.Error(t, err)

	_, err = ParseRule("", []string{"@param int $x"})
	var tagErr *annotation.UnrecognizedTagError
	assert.ErrorAs(t, err, &tagErr)
}

func TestModels(t *testing.T) {
	src := []byte(`<?php
class BarController extends AppController {
	public $modelClass = 'BarBars';

	public function index() {
		$this->loadModel('Wheels');
		$this->loadModel("Shop/Cart.Orders");
		$this->loadModel('Wheels');
	}
}
`)
	got, err := NewModels("").Annotations("BarController.php", src)
	require.NoError(t, err)
	assert.Equal(t, []string{
		`@property \App\Model\Table\BarBarsTable $BarBars`,
		`@property \App\Model\Table\WheelsTable $Wheels`,
		`@property \Shop\Cart\Model\Table\OrdersTable $Orders`,
	}, lines(got))
}

func TestModelsNamespace(t *testing.T) {
	got, err := NewModels("My/Plugin").Annotations("x.php", []byte(`$this->loadModel('Users');`))
	require.NoError(t, err)
	assert.Equal(t, []string{`@property \My\Plugin\Model\Table\UsersTable $Users`}, lines(got))

	got, err = NewModels("").Annotations("x.php", []byte(`<?php class Foo {}`))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestChainDropsDuplicates(t *testing.T) {
	first, err := ParseRule("", []string{`@property \Custom\Wheels $Wheels`})
	require.NoError(t, err)
	c := Chain{Static{first}, NewModels("")}

	got, err := c.Annotations("x.php", []byte(`$this->loadModel('Wheels'); $this->loadModel('Tyres');`))
	require.NoError(t, err)
	assert.Equal(t, []string{
		`@property \Custom\Wheels $Wheels`,
		`@property \App\Model\Table\TyresTable $Tyres`,
	}, lines(got))
}
