package layout_test

import (
	"errors"
	"math"
	"testing"

	fuzz "github.com/AdaLogics/go-fuzz-headers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/boxflow/internal/browser/dom"
	"github.com/xkilldash9x/boxflow/internal/browser/layout"
	"github.com/xkilldash9x/boxflow/internal/browser/parser"
	"github.com/xkilldash9x/boxflow/internal/browser/style"
)

var (
	fuzzTags     = []string{"div", "p", "span", "section"}
	fuzzClasses  = []string{"", "a", "b", "a b"}
	fuzzDisplays = []string{"block", "inline-block", "inline", "none", "flex"}
	fuzzProps    = []string{
		"width", "height", "margin-left", "margin-right", "margin-top", "margin-bottom",
		"padding-left", "padding-right", "padding-top", "padding-bottom",
		"border-left-width", "border-right-width", "border-top-width", "border-bottom-width",
	}
	fuzzUnits = []parser.Unit{parser.UnitPx, parser.UnitPercent, parser.UnitPx, parser.UnitEm, parser.UnitVw}
)

func pick[T any](c *fuzz.ConsumeFuzzer, items []T) (T, error) {
	b, err := c.GetByte()
	if err != nil {
		var zero T
		return zero, err
	}
	return items[int(b)%len(items)], nil
}

// buildFuzzDocument grows a random element tree and stylesheet. Running out
// of input just ends generation early.
func buildFuzzDocument(c *fuzz.ConsumeFuzzer) (*dom.Document, parser.StyleSheet) {
	doc := dom.NewDocument()
	nodes := []dom.NodeID{doc.AddElement(dom.InvalidNode, "div", map[string]string{"class": "a"})}

	for i := 0; i < 40; i++ {
		parentIdx, err := c.GetByte()
		if err != nil {
			break
		}
		tag, err := pick(c, fuzzTags)
		if err != nil {
			break
		}
		class, err := pick(c, fuzzClasses)
		if err != nil {
			break
		}
		attrs := map[string]string{}
		if class != "" {
			attrs["class"] = class
		}
		parent := nodes[int(parentIdx)%len(nodes)]
		nodes = append(nodes, doc.AddElement(parent, tag, attrs))
		if withText, _ := c.GetBool(); withText {
			doc.AddText(parent, "text")
		}
	}

	var sheet parser.StyleSheet
	for i := 0; i < 8; i++ {
		sel := parser.SimpleSelector{}
		if useTag, err := c.GetBool(); err != nil {
			break
		} else if useTag {
			sel.TagName, _ = pick(c, fuzzTags)
		} else {
			cls, _ := pick(c, fuzzClasses[1:3])
			sel.Classes = []string{cls}
		}

		rule := parser.Rule{Selectors: []parser.Selector{{Simple: []parser.SimpleSelector{sel}}}}
		display, err := pick(c, fuzzDisplays)
		if err != nil {
			break
		}
		rule.Declarations = append(rule.Declarations, parser.Declaration{Property: "display", Value: parser.Keyword(display)})

		for j := 0; j < 4; j++ {
			prop, err := pick(c, fuzzProps)
			if err != nil {
				break
			}
			mag, err := c.GetUint16()
			if err != nil {
				break
			}
			var v parser.Value
			if kw, _ := c.GetBool(); kw {
				v = parser.Keyword("auto")
			} else {
				unit, _ := pick(c, fuzzUnits)
				v = parser.Len(float64(mag%2000), unit)
			}
			rule.Declarations = append(rule.Declarations, parser.Declaration{Property: prop, Value: v})
		}
		sheet.Rules = append(sheet.Rules, rule)
	}
	return doc, sheet
}

func FuzzResolveAndLayout(f *testing.F) {
	f.Add([]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15})
	f.Add([]byte("boxes in boxes in boxes, with margins and percentages"))
	f.Add(make([]byte, 256))

	f.Fuzz(func(t *testing.T, data []byte) {
		doc, sheet := buildFuzzDocument(fuzz.NewConsumer(data))

		styles, err := style.Resolve(doc, dom.NodeID(0), sheet)
		require.NoError(t, err)

		again, err := style.Resolve(doc, dom.NodeID(0), sheet)
		require.NoError(t, err)
		require.True(t, styles.Equal(again), "style resolution must be deterministic")

		tree, err := layout.LayoutTree(styles, layout.Viewport(800, 600))
		if err != nil {
			// The only reachable failure is a width in an unsupported unit.
			require.True(t, errors.Is(err, layout.ErrUnsupportedUnit), "unexpected error: %v", err)
			return
		}

		tree.Walk(func(_ layout.BoxID, b *layout.LayoutBox, _ int) {
			r := b.Dimensions.MarginBox()
			for _, v := range []float64{r.X, r.Y, r.Width, r.Height} {
				assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "non-finite geometry in %v box", b.BoxType)
			}
			if b.BoxType == layout.AnonymousBox {
				assert.Empty(t, b.Children)
			}
		})
	})
}
