// internal/browser/layout/geometry.go
package layout

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/xkilldash9x/boxflow/api/schemas"
	"github.com/xkilldash9x/boxflow/internal/browser/dom"
)

// -- Public Interface for Geometry Retrieval --

// ElementGeometry evaluates an XPath selector against the source document
// and returns the border box of the matching element.
func (t *Tree) ElementGeometry(selector string) (*schemas.ElementGeometry, error) {
	if t == nil {
		return nil, fmt.Errorf("layout tree is nil")
	}
	doc := t.styles.Document()
	node, err := dom.QueryXPath(doc, selector)
	if err != nil {
		return nil, err
	}
	sid, ok := t.styles.Lookup(node)
	if !ok {
		return nil, fmt.Errorf("element '%s' is outside the styled root", selector)
	}
	box, ok := t.BoxFor(sid)
	if !ok {
		return nil, fmt.Errorf("element '%s' found in DOM but not rendered (e.g., display: none)", selector)
	}
	return t.ToElementGeometry(box), nil
}

// ToElementGeometry converts the border box of a box.
func (t *Tree) ToElementGeometry(id BoxID) *schemas.ElementGeometry {
	b := t.Box(id)
	rect := b.Dimensions.BorderBox()
	x, y, w, h := rect.X, rect.Y, rect.Width, rect.Height

	geom := &schemas.ElementGeometry{
		Vertices: []float64{x, y, x + w, y, x + w, y + h, x, y + h},
		Width:    int64(math.Round(w)),
		Height:   int64(math.Round(h)),
		Type:     b.BoxType.String(),
	}
	if el := t.styles.Element(b.Styled); el != nil {
		geom.TagName = strings.ToUpper(el.Tag)
	}
	return geom
}

// Report converts the tree into its serialisable form.
func (t *Tree) Report() *schemas.BoxReport {
	if t == nil {
		return nil
	}
	return t.report(t.root)
}

func (t *Tree) report(id BoxID) *schemas.BoxReport {
	b := t.Box(id)
	if b == nil {
		return nil
	}
	d := b.Dimensions
	r := &schemas.BoxReport{
		Type:      b.BoxType.String(),
		Element:   t.styles.Label(b.Styled),
		Content:   toSchemaRect(d.Content),
		Padding:   toSchemaEdges(d.Padding),
		Border:    toSchemaEdges(d.Border),
		Margin:    toSchemaEdges(d.Margin),
		BorderBox: toSchemaRect(d.BorderBox()),
	}
	if sn := t.styles.Node(b.Styled); sn != nil {
		r.XPath = dom.GenerateUniqueXPath(t.styles.Document(), sn.Node)
	}
	for _, c := range b.Children {
		r.Children = append(r.Children, t.report(c))
	}
	return r
}

func toSchemaRect(r Rect) schemas.Rect {
	return schemas.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

func toSchemaEdges(e Edges) schemas.Edges {
	return schemas.Edges{Top: e.Top, Right: e.Right, Bottom: e.Bottom, Left: e.Left}
}

// Dump writes one line per box with its content rectangle and edges.
func (t *Tree) Dump(w io.Writer) {
	t.Walk(func(id BoxID, b *LayoutBox, depth int) {
		d := b.Dimensions
		fmt.Fprintf(w, "%s%s %s content=%s padding=%s border=%s margin=%s\n",
			strings.Repeat("  ", depth),
			b.BoxType,
			t.styles.Label(b.Styled),
			formatRect(d.Content),
			formatEdges(d.Padding),
			formatEdges(d.Border),
			formatEdges(d.Margin),
		)
	})
}

func formatRect(r Rect) string {
	return fmt.Sprintf("(x=%g y=%g w=%g h=%g)", r.X, r.Y, r.Width, r.Height)
}

func formatEdges(e Edges) string {
	return fmt.Sprintf("(t=%g r=%g b=%g l=%g)", e.Top, e.Right, e.Bottom, e.Left)
}
