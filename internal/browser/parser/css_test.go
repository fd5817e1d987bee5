// internal/browser/parser/css_test.go
package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// Helper functions to build expected structures concisely
func d(prop string, val Value) Declaration {
	return Declaration{Property: prop, Value: val}
}

func s(tag, id string, classes ...string) SimpleSelector {
	return SimpleSelector{TagName: tag, ID: id, Classes: classes}
}

func TestParseSimpleSelectors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected SimpleSelector
	}{
		{"Tag", "div", s("div", "")},
		{"Tag is lowercased", "DIV", s("div", "")},
		{"ID", "#main", s("", "main")},
		{"Class", ".button", s("", "", "button")},
		{"Multiple Classes", ".btn.primary", s("", "", "btn", "primary")},
		{"Combined", "input#username.required", s("input", "username", "required")},
		{"Compound in any order", ".a.b#s", s("", "s", "a", "b")},
		{"Universal", "*", s("", "")},
		{"Universal with class", "*.x", s("", "", "x")},
		{"Attribute dropped", `a.external[target="_blank"]`, s("a", "", "external")},
		{"Pseudo dropped", "a:hover", s("a", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(tt.input+" { }", zaptest.NewLogger(t))
			selectors := p.parseSelectors()
			require.Len(t, selectors, 1, "failed to parse selector for input: %s", tt.input)
			require.Len(t, selectors[0].Simple, 1)
			assert.Equal(t, tt.expected, selectors[0].Simple[0])
		})
	}
}

func TestParseCombinators(t *testing.T) {
	input := `
		div p,
		article > section,
		h1 + h2,
		h2 ~ p,
		.container .item > span
		{}
	`
	p := NewParser(input, nil)
	selectors := p.parseSelectors()
	require.Len(t, selectors, 5)

	expected := []Selector{
		{Simple: []SimpleSelector{s("div", ""), s("p", "")}, Combinators: []Combinator{CombinatorDescendant}},
		{Simple: []SimpleSelector{s("article", ""), s("section", "")}, Combinators: []Combinator{CombinatorChild}},
		{Simple: []SimpleSelector{s("h1", ""), s("h2", "")}, Combinators: []Combinator{CombinatorAdjacentSibling}},
		{Simple: []SimpleSelector{s("h2", ""), s("p", "")}, Combinators: []Combinator{CombinatorGeneralSibling}},
		{
			Simple:      []SimpleSelector{s("", "", "container"), s("", "", "item"), s("span", "")},
			Combinators: []Combinator{CombinatorDescendant, CombinatorChild},
		},
	}

	for i, exp := range expected {
		assert.Equal(t, exp, selectors[i], "Mismatch for selector %d", i)
	}
}

func TestParseDeclarations(t *testing.T) {
	input := `
	{
		color: red;
		font-size: 16px !important;
		display: inline-block;
		border: none;
        /* Comment between declarations */
        padding: 0;
		width: 50%
	}
	`
	p := NewParser(input, zaptest.NewLogger(t))
	p.consumeWhitespace()

	got, err := p.parseDeclarations()
	require.NoError(t, err)

	expected := []Declaration{
		d("color", Col(Color{R: 1, A: 1})),
		d("font-size", Len(16, UnitPx)),
		d("display", Keyword("inline-block")),
		d("border", Keyword("none")),
		d("padding-top", Keyword("0")),
		d("padding-right", Keyword("0")),
		d("padding-bottom", Keyword("0")),
		d("padding-left", Keyword("0")),
		d("width", Len(50, UnitPercent)),
	}
	assert.Equal(t, expected, got)
}

func TestExpandDeclaration(t *testing.T) {
	tests := []struct {
		name     string
		property string
		raw      string
		expected []Declaration
	}{
		{
			"Two values", "margin", "10px 20px",
			[]Declaration{
				d("margin-top", Len(10, UnitPx)), d("margin-right", Len(20, UnitPx)),
				d("margin-bottom", Len(10, UnitPx)), d("margin-left", Len(20, UnitPx)),
			},
		},
		{
			"Three values", "border-width", "1px 2px 3px",
			[]Declaration{
				d("border-top-width", Len(1, UnitPx)), d("border-right-width", Len(2, UnitPx)),
				d("border-bottom-width", Len(3, UnitPx)), d("border-left-width", Len(2, UnitPx)),
			},
		},
		{
			"Four values", "padding", "1px 2px 3px 4em",
			[]Declaration{
				d("padding-top", Len(1, UnitPx)), d("padding-right", Len(2, UnitPx)),
				d("padding-bottom", Len(3, UnitPx)), d("padding-left", Len(4, UnitEm)),
			},
		},
		{
			"Too many values stay raw", "margin", "1px 2px 3px 4px 5px",
			[]Declaration{d("margin", Keyword("1px 2px 3px 4px 5px"))},
		},
		{
			"Not a shorthand", "height", "10px",
			[]Declaration{d("height", Len(10, UnitPx))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandDeclaration(tt.property, tt.raw))
		})
	}
}

func TestParseFullStylesheet(t *testing.T) {
	input := `
		@charset "UTF-8";
		@import url("foo.css");

		/* Main styles */
		body, html {
			margin: 0;
		}

		@media (max-width: 600px) {
			.sidebar { display: none; }
		}

		#a { display: block; width: 100px; }
		.x { display: inline-block; width: 40px; height: 10px; }

		.empty {}
	`
	sheet := NewParser(input, zaptest.NewLogger(t)).Parse()
	require.Len(t, sheet.Rules, 3, "at-rules and empty rules are skipped")

	body := sheet.Rules[0]
	require.Len(t, body.Selectors, 2)
	assert.Equal(t, s("body", ""), body.Selectors[0].Simple[0])
	assert.Equal(t, s("html", ""), body.Selectors[1].Simple[0])
	assert.Len(t, body.Declarations, 4)

	a := sheet.Rules[1]
	assert.Equal(t, s("", "a"), a.Selectors[0].Simple[0])
	assert.Equal(t, []Declaration{d("display", Keyword("block")), d("width", Len(100, UnitPx))}, a.Declarations)

	x := sheet.Rules[2]
	assert.Equal(t, []Declaration{
		d("display", Keyword("inline-block")),
		d("width", Len(40, UnitPx)),
		d("height", Len(10, UnitPx)),
	}, x.Declarations)
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		rules int
	}{
		{"Missing block", "div", 0},
		{"Empty selector", "{ color: red; }", 0},
		{"Leading combinator", "> p { color: red; }", 1},
		{"Garbage selector then valid rule", "1abc { color: red; } p { color: blue; }", 1},
		{"Unterminated comment", "p { color: red; } /* never closed", 1},
		{"Missing colon", "p { color red; width: 1px; }", 1},
		{"Unterminated block", "p { color: red;", 1},
		{"Unterminated attribute", "a[href { color: red; }", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sheet := ParseStyleSheet(tt.input)
			assert.Len(t, sheet.Rules, tt.rules)
		})
	}
}

func TestStyleSheet_String(t *testing.T) {
	sheet := ParseStyleSheet(`div > p.x, #a { color: #ff0000; width: 10px; display: none; }`)
	assert.Equal(t, "div > p.x, #a {\n    color: rgba(255, 0, 0, 1);\n    width: 10px;\n    display: none;\n}", sheet.String())
}
