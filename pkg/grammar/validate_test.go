package grammar_test

import (
	"errors"
	"testing"

	"github.com/aretw0/algorist/pkg/domain"
	"github.com/aretw0/algorist/pkg/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *grammar.Document {
	t.Helper()
	doc, err := grammar.Parse([]byte(src), grammar.FormatYAML)
	require.NoError(t, err)
	return doc
}

func TestValidate_ReportsEveryIssue(t *testing.T) {
	doc := mustParse(t, `
start: missing
limits: {max_depth: -1}
rules:
  a:
    - weight: -2
      steps:
        - shape: {name: teapot}
        - shape: {name: uvsphere, params: {radius: -1}}
        - call: [ghost]
        - transform:
            - rotate: {axis: w, degrees: 10}
          call: [a]
        - transform:
            - {}
          call: [a]
        - transform:
            - translate: [0, 0, 1]
`)

	err := grammar.Validate(doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidGrammar)

	issues := grammar.Issues(err)
	var messages []string
	for _, is := range issues {
		messages = append(messages, is.Error())
	}
	assert.Len(t, issues, 9, "%v", messages)
	assert.Contains(t, messages, `start rule "missing" is not defined`)
	assert.Contains(t, messages, "limits: max_depth must not be negative, got -1")
	assert.Contains(t, messages, `rule "a" variant 0 step 0: weight must be positive, got -2`)
	assert.Contains(t, messages, `rule "a" variant 0 step 2: call to undefined rule "ghost"`)
	assert.Contains(t, messages, `rule "a" variant 0 step 3: transform 0: unknown axis "w"`)
	assert.Contains(t, messages, `rule "a" variant 0 step 5: step neither places a shape nor calls a rule`)

	var unknown grammar.Issue
	require.True(t, errors.As(err, &unknown))
}

func TestValidate_MissingStart(t *testing.T) {
	err := grammar.Validate(mustParse(t, "rules: {a: [{steps: [{shape: {name: cube}}]}]}"))
	require.Error(t, err)
	assert.Equal(t, "missing start rule", grammar.Issues(err)[0].Message)

	assert.ErrorIs(t, grammar.Validate(nil), domain.ErrInvalidGrammar)
}

func TestValidate_CustomShapes(t *testing.T) {
	doc := mustParse(t, "start: a\nrules: {a: [{steps: [{shape: {name: teapot}}]}]}")
	require.Error(t, grammar.Validate(doc))

	err := grammar.Validate(doc, grammar.WithShapeValidator(func(name string, params domain.Params) error {
		return nil
	}))
	assert.NoError(t, err)
}

func TestEdgesAndShapes(t *testing.T) {
	doc, err := grammar.Example("tree")
	require.NoError(t, err)

	edges := grammar.Edges(doc)
	assert.Contains(t, edges, grammar.Edge{From: "tree", To: "branch", Variant: 0, Weight: 1})
	assert.Contains(t, edges, grammar.Edge{From: "branch", To: "grow", Variant: 0, Weight: 1})
	assert.Contains(t, edges, grammar.Edge{From: "grow", To: "branch", Variant: 3, Weight: 1})

	shapes := grammar.Shapes(doc)
	assert.Equal(t, []string{"cylinder"}, shapes["branch"])
	assert.Equal(t, []string{"plane"}, shapes["tree"])
}

func TestValidate_RepeatBounds(t *testing.T) {
	doc := mustParse(t, `
start: a
rules:
  a:
    - steps:
        - repeat: 10000
          shape: {name: plane}
        - repeat: 10001
          shape: {name: plane}
        - repeat: -1
          shape: {name: plane}
`)

	err := grammar.Validate(doc)
	require.ErrorIs(t, err, domain.ErrInvalidGrammar)

	var messages []string
	for _, is := range grammar.Issues(err) {
		messages = append(messages, is.Error())
	}
	assert.Equal(t, []string{
		`rule "a" variant 0 step 1: repeat must be between 0 and 10000, got 10001`,
		`rule "a" variant 0 step 2: repeat must be between 0 and 10000, got -1`,
	}, messages)
}
