// internal/browser/layout/box.go
package layout

import (
	"fmt"

	"github.com/xkilldash9x/boxflow/internal/browser/style"
)

// -- Core Structures: Box Model and Dimensions --

type Rect struct {
	X, Y, Width, Height float64
}

// ExpandedBy returns a new rectangle expanded by the edge sizes.
func (r Rect) ExpandedBy(e Edges) Rect {
	return Rect{
		X:      r.X - e.Left,
		Y:      r.Y - e.Top,
		Width:  r.Width + e.Left + e.Right,
		Height: r.Height + e.Top + e.Bottom,
	}
}

// Edges holds the four sizes of a padding, border or margin.
type Edges struct {
	Top, Right, Bottom, Left float64
}

// Dimensions defines the geometry of a layout box.
type Dimensions struct {
	// Content area, absolute within the viewport.
	Content Rect

	Padding Edges
	Border  Edges
	Margin  Edges

	// current is the inline-block flow cursor used while laying out
	// children. It is not part of the box's geometry.
	current Rect
}

// Viewport returns the root containing block for a viewport of the given
// size.
func Viewport(width, height float64) Dimensions {
	return Dimensions{Content: Rect{Width: width, Height: height}}
}

// MarginBox returns the rectangle enclosing the margin area.
func (d Dimensions) MarginBox() Rect {
	return d.BorderBox().ExpandedBy(d.Margin)
}

// BorderBox returns the rectangle enclosing the border area.
func (d Dimensions) BorderBox() Rect {
	return d.PaddingBox().ExpandedBy(d.Border)
}

// PaddingBox returns the rectangle enclosing the padding area.
func (d Dimensions) PaddingBox() Rect {
	return d.Content.ExpandedBy(d.Padding)
}

// BoxType determines which layout routine a box receives.
type BoxType int

const (
	BlockBox BoxType = iota
	InlineBox
	InlineBlockBox
	// AnonymousBox is never laid out. The tree builder only produces one for
	// a root whose display is none.
	AnonymousBox
)

func (t BoxType) String() string {
	switch t {
	case BlockBox:
		return "block"
	case InlineBox:
		return "inline"
	case InlineBlockBox:
		return "inline-block"
	case AnonymousBox:
		return "anonymous"
	}
	return fmt.Sprintf("BoxType(%d)", int(t))
}

func boxTypeFor(d style.DisplayType) BoxType {
	switch d {
	case style.DisplayBlock:
		return BlockBox
	case style.DisplayInlineBlock:
		return InlineBlockBox
	case style.DisplayNone:
		return AnonymousBox
	}
	return InlineBox
}

// BoxID addresses a LayoutBox inside a Tree.
type BoxID int32

// InvalidBox is the "no box" sentinel.
const InvalidBox BoxID = -1

// LayoutBox is a node in the layout tree.
type LayoutBox struct {
	Dimensions Dimensions
	BoxType    BoxType
	Styled     style.NodeID
	Children   []BoxID
}

// Tree owns the boxes laid out from one styled tree. The styled tree (and
// through it the document) must outlive it.
type Tree struct {
	styles *style.Tree
	boxes  []LayoutBox
	root   BoxID
}

// Root returns the ID of the root box.
func (t *Tree) Root() BoxID { return t.root }

// Styles returns the styled tree the boxes were built from.
func (t *Tree) Styles() *style.Tree { return t.styles }

// Len is the number of boxes.
func (t *Tree) Len() int { return len(t.boxes) }

// Box returns the box for id, or nil when id is out of range.
func (t *Tree) Box(id BoxID) *LayoutBox {
	if t == nil || id < 0 || int(id) >= len(t.boxes) {
		return nil
	}
	return &t.boxes[id]
}

// StyledNode returns the styled node a box was built from.
func (t *Tree) StyledNode(id BoxID) *style.StyledNode {
	b := t.Box(id)
	if b == nil {
		return nil
	}
	return t.styles.Node(b.Styled)
}

// BoxFor finds the box built from a styled node. Nodes inside a display:none
// subtree have none.
func (t *Tree) BoxFor(styled style.NodeID) (BoxID, bool) {
	for i := range t.boxes {
		if t.boxes[i].Styled == styled {
			return BoxID(i), true
		}
	}
	return InvalidBox, false
}

// Walk visits every box depth-first in document order.
func (t *Tree) Walk(fn func(id BoxID, box *LayoutBox, depth int)) {
	t.walk(t.root, 0, fn)
}

func (t *Tree) walk(id BoxID, depth int, fn func(BoxID, *LayoutBox, int)) {
	b := t.Box(id)
	if b == nil {
		return
	}
	fn(id, b, depth)
	for _, c := range b.Children {
		t.walk(c, depth+1, fn)
	}
}
