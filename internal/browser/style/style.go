// internal/browser/style/style.go
package style

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/boxflow/internal/browser/dom"
	"github.com/xkilldash9x/boxflow/internal/browser/parser"
)

// DefaultMaxDepth bounds the element nesting the resolver will descend into.
const DefaultMaxDepth = 512

var (
	// ErrNotElement is returned when the designated root is not an element.
	ErrNotElement = errors.New("style root is not an element")
	// ErrMaxDepth is returned when the document nests deeper than the
	// configured limit.
	ErrMaxDepth = errors.New("maximum tree depth exceeded")
)

// NodeID addresses a StyledNode inside a Tree.
type NodeID int32

// InvalidNode is the "no styled node" sentinel.
const InvalidNode NodeID = -1

// PropertyMap holds the resolved value of every property set on an element.
type PropertyMap map[string]parser.Value

// StyledNode pairs a document element with its resolved properties. It is
// built once and never mutated afterwards.
type StyledNode struct {
	Node       dom.NodeID
	Properties PropertyMap
	Children   []NodeID
}

// Tree owns the styled nodes derived from one document. It keeps the source
// document alive for as long as the tree is in use.
type Tree struct {
	doc   *dom.Document
	nodes []StyledNode
	root  NodeID
}

// Root returns the ID of the styled root.
func (t *Tree) Root() NodeID { return t.root }

// Document returns the document the tree was resolved from.
func (t *Tree) Document() *dom.Document { return t.doc }

// Len is the number of styled nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the styled node for id, or nil when id is out of range.
func (t *Tree) Node(id NodeID) *StyledNode {
	if t == nil || id < 0 || int(id) >= len(t.nodes) {
		return nil
	}
	return &t.nodes[id]
}

// Element returns the document element a styled node was built from.
func (t *Tree) Element(id NodeID) *dom.Node {
	sn := t.Node(id)
	if sn == nil {
		return nil
	}
	return t.doc.Node(sn.Node)
}

// Lookup finds the styled node built from a document node.
func (t *Tree) Lookup(node dom.NodeID) (NodeID, bool) {
	for i := range t.nodes {
		if t.nodes[i].Node == node {
			return NodeID(i), true
		}
	}
	return InvalidNode, false
}

// Resolver computes styled trees. The zero value is not usable; use
// NewResolver.
type Resolver struct {
	logger   *zap.Logger
	maxDepth int
}

// NewResolver creates a resolver. A nil logger discards diagnostics and a
// non-positive maxDepth selects DefaultMaxDepth.
func NewResolver(logger *zap.Logger, maxDepth int) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Resolver{logger: logger.Named("style"), maxDepth: maxDepth}
}

// Resolve is a convenience wrapper around a default Resolver.
func Resolve(doc *dom.Document, root dom.NodeID, sheet parser.StyleSheet) (*Tree, error) {
	return NewResolver(nil, 0).Resolve(doc, root, sheet)
}

// Resolve builds the styled tree for the element root. Only elements get a
// styled node; text and comment children are skipped.
//
// Rules are applied in stylesheet order. Within a rule the first matching
// selector applies all of the rule's declarations, and a later rule
// overwrites any property an earlier one set. There is no specificity.
func (r *Resolver) Resolve(doc *dom.Document, root dom.NodeID, sheet parser.StyleSheet) (*Tree, error) {
	if !doc.Node(root).IsElement() {
		return nil, fmt.Errorf("%w: node %d", ErrNotElement, root)
	}

	start := time.Now()
	t := &Tree{doc: doc}
	id, err := r.build(t, root, sheet, 0)
	if err != nil {
		return nil, err
	}
	t.root = id

	r.logger.Debug("Resolved styles",
		zap.Int("styled_nodes", len(t.nodes)),
		zap.Int("rules", len(sheet.Rules)),
		zap.Duration("duration", time.Since(start)),
	)
	return t, nil
}

func (r *Resolver) build(t *Tree, node dom.NodeID, sheet parser.StyleSheet, depth int) (NodeID, error) {
	if depth > r.maxDepth {
		return InvalidNode, fmt.Errorf("%w: limit %d", ErrMaxDepth, r.maxDepth)
	}

	el := t.doc.Node(node)
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, StyledNode{
		Node:       node,
		Properties: computeProperties(el, sheet),
	})

	var children []NodeID
	for _, c := range el.Children {
		if !t.doc.Node(c).IsElement() {
			continue
		}
		child, err := r.build(t, c, sheet, depth+1)
		if err != nil {
			return InvalidNode, err
		}
		children = append(children, child)
	}
	// t.nodes may have been reallocated by the recursion.
	t.nodes[id].Children = children
	return id, nil
}

func computeProperties(el *dom.Node, sheet parser.StyleSheet) PropertyMap {
	props := make(PropertyMap)
	for _, rule := range sheet.Rules {
		for _, sel := range rule.Selectors {
			if !Matches(el, sel) {
				continue
			}
			for _, decl := range rule.Declarations {
				props[decl.Property] = decl.Value
			}
			break
		}
	}
	return props
}

// Equal reports whether two trees have the same shape, reference the same
// document nodes and hold equal property maps.
func (t *Tree) Equal(other *Tree) bool {
	if t == nil || other == nil {
		return t == other
	}
	if len(t.nodes) != len(other.nodes) {
		return false
	}
	return t.equalAt(t.root, other, other.root)
}

func (t *Tree) equalAt(a NodeID, other *Tree, b NodeID) bool {
	na, nb := t.Node(a), other.Node(b)
	if na == nil || nb == nil {
		return na == nb
	}
	if na.Node != nb.Node || len(na.Properties) != len(nb.Properties) || len(na.Children) != len(nb.Children) {
		return false
	}
	for k, v := range na.Properties {
		if w, ok := nb.Properties[k]; !ok || w != v {
			return false
		}
	}
	for i := range na.Children {
		if !t.equalAt(na.Children[i], other, nb.Children[i]) {
			return false
		}
	}
	return true
}
