// internal/browser/paint/paint.go
package paint

import (
	"fmt"
	"io"

	"github.com/xkilldash9x/boxflow/api/schemas"
	"github.com/xkilldash9x/boxflow/internal/browser/layout"
	"github.com/xkilldash9x/boxflow/internal/browser/parser"
	"github.com/xkilldash9x/boxflow/internal/browser/style"
)

// Command paints a solid rectangle.
type Command struct {
	Color parser.Color
	Rect  layout.Rect
}

// DisplayList is the ordered list of paint commands for one layout tree.
// Later commands paint over earlier ones.
type DisplayList []Command

// BuildDisplayList walks the layout tree in document order. Each box paints
// its background over the border box, then its four borders, before any of
// its descendants.
func BuildDisplayList(tree *layout.Tree) DisplayList {
	var list DisplayList
	if tree == nil {
		return list
	}
	tree.Walk(func(id layout.BoxID, b *layout.LayoutBox, _ int) {
		if b.BoxType == layout.AnonymousBox {
			return
		}
		sn := tree.StyledNode(id)
		list = renderBackground(list, sn, b.Dimensions)
		list = renderBorders(list, sn, b.Dimensions)
	})
	return list
}

func renderBackground(list DisplayList, sn *style.StyledNode, d layout.Dimensions) DisplayList {
	c, ok := sn.Color("background-color")
	if !ok {
		return list
	}
	return append(list, Command{Color: c, Rect: d.BorderBox()})
}

func renderBorders(list DisplayList, sn *style.StyledNode, d layout.Dimensions) DisplayList {
	c, ok := sn.Color("border-color")
	if !ok {
		return list
	}
	bb := d.BorderBox()
	return append(list,
		// left
		Command{Color: c, Rect: layout.Rect{X: bb.X, Y: bb.Y, Width: d.Border.Left, Height: bb.Height}},
		// right
		Command{Color: c, Rect: layout.Rect{X: bb.X + bb.Width - d.Border.Right, Y: bb.Y, Width: d.Border.Right, Height: bb.Height}},
		// top
		Command{Color: c, Rect: layout.Rect{X: bb.X, Y: bb.Y, Width: bb.Width, Height: d.Border.Top}},
		// bottom
		Command{Color: c, Rect: layout.Rect{X: bb.X, Y: bb.Y + bb.Height - d.Border.Bottom, Width: bb.Width, Height: d.Border.Bottom}},
	)
}

// Schema converts the list into its serialisable form.
func (l DisplayList) Schema() []schemas.PaintCommand {
	out := make([]schemas.PaintCommand, len(l))
	for i, c := range l {
		out[i] = schemas.PaintCommand{
			Color: [4]float64{c.Color.R, c.Color.G, c.Color.B, c.Color.A},
			Rect:  schemas.Rect{X: c.Rect.X, Y: c.Rect.Y, Width: c.Rect.Width, Height: c.Rect.Height},
		}
	}
	return out
}

// Dump writes one line per command.
func (l DisplayList) Dump(w io.Writer) {
	for _, c := range l {
		fmt.Fprintf(w, "rect %s x=%g y=%g w=%g h=%g\n", c.Color, c.Rect.X, c.Rect.Y, c.Rect.Width, c.Rect.Height)
	}
}
