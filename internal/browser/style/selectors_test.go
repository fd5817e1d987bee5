package style

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xkilldash9x/boxflow/internal/browser/dom"
	"github.com/xkilldash9x/boxflow/internal/browser/parser"
)

// firstSelector parses a single selector through the stylesheet parser so the
// tests exercise the same shapes real stylesheets produce.
func firstSelector(t *testing.T, text string) parser.Selector {
	t.Helper()
	sheet := parser.ParseStyleSheet(text + " { color: red; }")
	if len(sheet.Rules) != 1 || len(sheet.Rules[0].Selectors) == 0 {
		t.Fatalf("failed to parse selector %q", text)
	}
	return sheet.Rules[0].Selectors[0]
}

func TestSelectorMatching(t *testing.T) {
	doc := dom.NewDocument()
	span := doc.Node(doc.AddElement(dom.InvalidNode, "span", map[string]string{"class": "a b", "id": "s"}))
	bare := doc.Node(doc.AddElement(dom.InvalidNode, "span", nil))
	spaced := doc.Node(doc.AddElement(dom.InvalidNode, "p", map[string]string{"class": "a  b"}))
	text := doc.Node(doc.AddText(dom.InvalidNode, "span"))

	tests := []struct {
		name     string
		el       *dom.Node
		selector string
		want     bool
	}{
		{"Compound classes and id", span, ".a.b#s", true},
		{"Tag", span, "span", true},
		{"Single class", span, ".a", true},
		{"Other id", span, "#other", false},
		{"Missing class", span, ".c", false},
		{"One missing class of many", span, ".a.c", false},
		{"Universal", span, "*", true},
		{"Tag is case-sensitive", span, "SPAN", true}, // the parser lowercases selector tags
		{"Id selector on element without id", bare, "#s", false},
		{"Class selector on element without class", bare, ".a", false},
		{"Double spaces still split into a and b", spaced, ".a.b", true},
		{"Combinator operands are alternatives", bare, "div > span", true},
		{"Descendant operands are alternatives", span, ".c .a", true},
		{"No operand matches", bare, "div .a", false},
		{"Text nodes never match", text, "*", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(tt.el, firstSelector(t, tt.selector)))
		})
	}
}

func TestMatchesSimple_CaseSensitiveTag(t *testing.T) {
	doc := dom.NewDocument()
	el := doc.Node(doc.AddElement(dom.InvalidNode, "span", nil))

	assert.True(t, MatchesSimple(el, parser.SimpleSelector{TagName: "span"}))
	assert.False(t, MatchesSimple(el, parser.SimpleSelector{TagName: "Span"}))
	assert.True(t, MatchesSimple(el, parser.SimpleSelector{}), "an empty simple selector matches any element")
}

func TestMatches_EmptySelector(t *testing.T) {
	doc := dom.NewDocument()
	el := doc.Node(doc.AddElement(dom.InvalidNode, "div", nil))
	assert.False(t, Matches(el, parser.Selector{}))
}
