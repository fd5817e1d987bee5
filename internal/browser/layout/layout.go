// internal/browser/layout/layout.go
package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/boxflow/internal/browser/parser"
	"github.com/xkilldash9x/boxflow/internal/browser/style"
)

// DefaultMaxDepth bounds the box nesting the engine will build.
const DefaultMaxDepth = 512

// -- Engine Core --

type Engine struct {
	logger   *zap.Logger
	maxDepth int
}

// NewEngine creates a layout engine. A nil logger discards diagnostics and a
// non-positive maxDepth selects DefaultMaxDepth.
func NewEngine(logger *zap.Logger, maxDepth int) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Engine{logger: logger.Named("layout"), maxDepth: maxDepth}
}

// LayoutTree lays out styles with a default Engine.
func LayoutTree(styles *style.Tree, viewport Dimensions) (*Tree, error) {
	return NewEngine(nil, 0).LayoutTree(styles, viewport)
}

// LayoutTree builds one box per displayed styled node and lays the tree out
// inside viewport. The viewport's content height is ignored: the root height
// always comes from its children.
//
// Widths are computed top-down and heights bottom-up. A width in a unit other
// than px or percent aborts the whole pass with an *UnsupportedUnitError.
func (e *Engine) LayoutTree(styles *style.Tree, viewport Dimensions) (*Tree, error) {
	if styles == nil {
		return nil, ErrNoStyles
	}
	start := time.Now()

	t := &Tree{styles: styles}
	root, err := e.buildTree(t, styles.Root(), 0)
	if err != nil {
		return nil, err
	}
	t.root = root

	viewport.Content.Height = 0
	viewport.current = Rect{}
	if err := t.layout(root, viewport); err != nil {
		return nil, err
	}

	e.logger.Debug("Laid out tree",
		zap.Int("boxes", len(t.boxes)),
		zap.Float64("viewport_width", viewport.Content.Width),
		zap.Float64("root_height", t.boxes[root].Dimensions.MarginBox().Height),
		zap.Duration("duration", time.Since(start)),
	)
	return t, nil
}

// -- Tree Construction --

// buildTree creates the box for a styled node and, recursively, for every
// child whose display is not none. A display:none child hides its whole
// subtree. A display:none root yields a childless anonymous box.
func (e *Engine) buildTree(t *Tree, sid style.NodeID, depth int) (BoxID, error) {
	if depth > e.maxDepth {
		return InvalidBox, fmt.Errorf("%w: limit %d", ErrMaxDepth, e.maxDepth)
	}
	sn := t.styles.Node(sid)
	id := BoxID(len(t.boxes))
	t.boxes = append(t.boxes, LayoutBox{BoxType: boxTypeFor(sn.Display()), Styled: sid})
	if t.boxes[id].BoxType == AnonymousBox {
		return id, nil
	}

	var children []BoxID
	for _, c := range sn.Children {
		if t.styles.Node(c).Display() == style.DisplayNone {
			continue
		}
		child, err := e.buildTree(t, c, depth+1)
		if err != nil {
			return InvalidBox, err
		}
		children = append(children, child)
	}
	t.boxes[id].Children = children
	return id, nil
}

// -- Geometric Layout --

// layout dispatches on box type. The containing block is passed by value: it
// is a snapshot of the parent's dimensions, including the flow cursor.
func (t *Tree) layout(id BoxID, cb Dimensions) error {
	switch t.boxes[id].BoxType {
	case BlockBox, InlineBox:
		return t.layoutBlock(id, cb)
	case InlineBlockBox:
		return t.layoutInlineBlock(id, cb)
	}
	return nil
}

func (t *Tree) layoutBlock(id BoxID, cb Dimensions) error {
	b := &t.boxes[id]
	// A box can be laid out twice when its line overflows.
	b.Dimensions = Dimensions{}
	if err := t.calculateBlockWidth(b, cb); err != nil {
		return err
	}
	t.calculatePosition(b, cb, 0)
	if err := t.layoutChildren(id); err != nil {
		return err
	}
	t.calculateHeight(b)
	return nil
}

func (t *Tree) layoutInlineBlock(id BoxID, cb Dimensions) error {
	b := &t.boxes[id]
	b.Dimensions = Dimensions{}
	if err := t.calculateInlineWidth(b, cb); err != nil {
		return err
	}
	t.calculatePosition(b, cb, cb.current.X)
	if err := t.layoutChildren(id); err != nil {
		return err
	}
	t.calculateHeight(b)
	return nil
}

// calculateBlockWidth resolves the content width and horizontal edges of a
// block-level box.
//
// A margin counts as auto only when the property is absent. A present margin
// contributes a number only when it is a plain numeric keyword such as "10";
// any other value, lengths included, counts as 0.
func (t *Tree) calculateBlockWidth(b *LayoutBox, cb Dimensions) error {
	sn := t.styles.Node(b.Styled)
	d := &b.Dimensions

	width, err := t.resolveWidth(b, cb)
	if err != nil {
		return err
	}

	marginLeft, leftSet := sn.Value("margin-left")
	marginRight, rightSet := sn.Value("margin-right")
	ml := keywordNumber(marginLeft, leftSet)
	mr := keywordNumber(marginRight, rightSet)

	d.Border.Left = sn.NumOr("border-left-width", 0)
	d.Border.Right = sn.NumOr("border-right-width", 0)
	d.Padding.Left = sn.NumOr("padding-left", 0)
	d.Padding.Right = sn.NumOr("padding-right", 0)

	total := width + ml + mr + d.Border.Left + d.Border.Right + d.Padding.Left + d.Padding.Right
	underflow := cb.Content.Width - total

	switch {
	case width == 0:
		// Auto width takes up the slack, or pushes it into the right margin
		// when there is none.
		if underflow >= 0 {
			d.Content.Width = underflow
			d.Margin.Right = mr
		} else {
			d.Content.Width = 0
			d.Margin.Right = mr + underflow
		}
		d.Margin.Left = ml
	case !leftSet && rightSet:
		d.Content.Width = width
		d.Margin.Left = underflow
		d.Margin.Right = mr
	case leftSet && !rightSet:
		d.Content.Width = width
		d.Margin.Left = ml
		d.Margin.Right = underflow
	case !leftSet && !rightSet:
		d.Content.Width = width
		d.Margin.Left = underflow / 2
		d.Margin.Right = underflow / 2
	default:
		// Over-constrained.
		d.Content.Width = width
		d.Margin.Left = ml
		d.Margin.Right = mr + underflow
	}
	return nil
}

// calculateInlineWidth sizes an inline-block box: the explicit width or 0,
// with no auto margin resolution.
func (t *Tree) calculateInlineWidth(b *LayoutBox, cb Dimensions) error {
	sn := t.styles.Node(b.Styled)
	d := &b.Dimensions

	width, err := t.resolveWidth(b, cb)
	if err != nil {
		return err
	}
	d.Content.Width = width

	d.Margin.Left = sn.NumOr("margin-left", 0)
	d.Margin.Right = sn.NumOr("margin-right", 0)
	d.Border.Left = sn.NumOr("border-left-width", 0)
	d.Border.Right = sn.NumOr("border-right-width", 0)
	d.Padding.Left = sn.NumOr("padding-left", 0)
	d.Padding.Right = sn.NumOr("padding-right", 0)
	return nil
}

// calculatePosition resolves the vertical edges and places the content box.
// Boxes stack below whatever the containing block has accumulated so far;
// cursorX shifts inline-block boxes along the current line.
func (t *Tree) calculatePosition(b *LayoutBox, cb Dimensions, cursorX float64) {
	sn := t.styles.Node(b.Styled)
	d := &b.Dimensions

	d.Margin.Top = sn.NumOr("margin-top", 0)
	d.Margin.Bottom = sn.NumOr("margin-bottom", 0)
	d.Border.Top = sn.NumOr("border-top-width", 0)
	d.Border.Bottom = sn.NumOr("border-bottom-width", 0)
	d.Padding.Top = sn.NumOr("padding-top", 0)
	d.Padding.Bottom = sn.NumOr("padding-bottom", 0)

	d.Content.X = cb.Content.X + cursorX + d.Margin.Left + d.Border.Left + d.Padding.Left
	d.Content.Y = cb.Content.Height + cb.Content.Y + d.Margin.Top + d.Border.Top + d.Padding.Top
}

// calculateHeight applies an explicit height. The magnitude is used whatever
// its unit.
func (t *Tree) calculateHeight(b *LayoutBox) {
	if h, ok := t.styles.Node(b.Styled).Length("height"); ok {
		b.Dimensions.Content.Height = h.Value
	}
}

// layoutChildren runs the flow: block children stack vertically, inline-block
// children advance a horizontal cursor and wrap to a new line when they
// overflow the content width. The running content height is the vertical
// cursor children are placed against. A line is only flushed by a block
// following an inline-block or by an overflow, so a trailing line of
// inline-blocks adds no height to its parent.
func (t *Tree) layoutChildren(id BoxID) error {
	d := &t.boxes[id].Dimensions
	// Tallest margin box since the last flush, block children included.
	var lineHeight float64
	prev := BlockBox

	flush := func() {
		d.Content.Height += lineHeight
		d.current.X = 0
		lineHeight = 0
	}

	for _, cid := range t.boxes[id].Children {
		child := &t.boxes[cid]
		if child.BoxType == AnonymousBox {
			continue
		}
		if prev == InlineBlockBox && child.BoxType == BlockBox {
			flush()
		}

		if err := t.layout(cid, *d); err != nil {
			return err
		}
		mb := child.Dimensions.MarginBox()

		switch child.BoxType {
		case BlockBox:
			lineHeight = math.Max(lineHeight, mb.Height)
			d.Content.Height += mb.Height
		case InlineBlockBox:
			// An overflowing box wraps even when it is alone on its line; the
			// flushed height is whatever was tracked before it.
			if d.current.X+mb.Width > d.Content.Width {
				flush()
				if err := t.layout(cid, *d); err != nil {
					return err
				}
				mb = child.Dimensions.MarginBox()
			}
			d.current.X += mb.Width
			lineHeight = math.Max(lineHeight, mb.Height)
		default:
			lineHeight = math.Max(lineHeight, mb.Height)
		}
		prev = child.BoxType
	}
	return nil
}

// resolveWidth returns the explicit width of a box, or 0 when it has none.
// Percentages resolve against the containing block's content width.
func (t *Tree) resolveWidth(b *LayoutBox, cb Dimensions) (float64, error) {
	l, ok := t.styles.Node(b.Styled).Length("width")
	if !ok {
		return 0, nil
	}
	switch l.Unit {
	case parser.UnitPx:
		return l.Value, nil
	case parser.UnitPercent:
		return l.Value * cb.Content.Width / 100, nil
	}
	return 0, fmt.Errorf("failed to resolve width of %s: %w",
		t.styles.Label(b.Styled), &UnsupportedUnitError{Property: "width", Unit: l.Unit})
}

// keywordNumber reads a margin given as a bare number. Anything else is 0.
func keywordNumber(v parser.Value, ok bool) float64 {
	if !ok {
		return 0
	}
	kw, ok := v.Keyword()
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(kw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
