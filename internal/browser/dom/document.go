// internal/browser/dom/document.go
package dom

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// NodeID addresses a node inside a Document arena. IDs are stable for the
// lifetime of the Document that issued them.
type NodeID int32

// InvalidNode is the zero-value sentinel for "no node" (e.g., the parent of a root).
const InvalidNode NodeID = -1

// NodeKind discriminates the variants a document node can take.
type NodeKind uint8

const (
	ElementNode NodeKind = iota
	TextNode
	CommentNode
)

func (k NodeKind) String() string {
	switch k {
	case ElementNode:
		return "element"
	case TextNode:
		return "text"
	case CommentNode:
		return "comment"
	}
	return fmt.Sprintf("NodeKind(%d)", uint8(k))
}

// Node is one entry of the document arena. Tag and Attrs are only meaningful
// for elements; Data only for text and comment nodes.
type Node struct {
	Kind     NodeKind
	Tag      string
	Attrs    map[string]string
	Data     string
	Parent   NodeID
	Children []NodeID
}

// IsElement reports whether the node is an element.
func (n *Node) IsElement() bool {
	return n != nil && n.Kind == ElementNode
}

// ID returns the value of the element's id attribute.
func (n *Node) ID() (string, bool) {
	if !n.IsElement() {
		return "", false
	}
	id, ok := n.Attrs["id"]
	return id, ok
}

// Classes returns the set of class names of the element. The class attribute
// is split on single spaces, so runs of spaces yield an empty class name in
// the set, which no selector can ever name.
func (n *Node) Classes() map[string]struct{} {
	classes := make(map[string]struct{})
	if !n.IsElement() {
		return classes
	}
	attr, ok := n.Attrs["class"]
	if !ok {
		return classes
	}
	for _, c := range strings.Split(attr, " ") {
		classes[c] = struct{}{}
	}
	return classes
}

// Document owns every node of a parsed document. The top level of a parse
// may be a forest, so a Document can have several roots.
type Document struct {
	nodes []Node
	roots []NodeID

	// source maps are populated only when the document came from FromHTML.
	sourceOf htmlIndex
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

func (d *Document) add(parent NodeID, n Node) NodeID {
	id := NodeID(len(d.nodes))
	n.Parent = parent
	d.nodes = append(d.nodes, n)
	if parent == InvalidNode {
		d.roots = append(d.roots, id)
	} else {
		p := &d.nodes[parent]
		p.Children = append(p.Children, id)
	}
	return id
}

// AddElement appends an element under parent (InvalidNode appends a new root).
func (d *Document) AddElement(parent NodeID, tag string, attrs map[string]string) NodeID {
	if attrs == nil {
		attrs = map[string]string{}
	}
	return d.add(parent, Node{Kind: ElementNode, Tag: tag, Attrs: attrs})
}

// AddText appends a text node under parent.
func (d *Document) AddText(parent NodeID, text string) NodeID {
	return d.add(parent, Node{Kind: TextNode, Data: text})
}

// AddComment appends a comment node under parent.
func (d *Document) AddComment(parent NodeID, text string) NodeID {
	return d.add(parent, Node{Kind: CommentNode, Data: text})
}

// Node returns the node for id, or nil when id is out of range.
func (d *Document) Node(id NodeID) *Node {
	if d == nil || id < 0 || int(id) >= len(d.nodes) {
		return nil
	}
	return &d.nodes[id]
}

// Len is the number of nodes in the arena.
func (d *Document) Len() int { return len(d.nodes) }

// Roots returns the top-level nodes in document order.
func (d *Document) Roots() []NodeID { return d.roots }

// FirstElementRoot returns the first top-level element, which is the root the
// style and layout stages operate on.
func (d *Document) FirstElementRoot() (NodeID, bool) {
	for _, id := range d.roots {
		if d.nodes[id].Kind == ElementNode {
			return id, true
		}
	}
	return InvalidNode, false
}

// Dump writes an indented, markup-like rendering of the subtree rooted at id.
func (d *Document) Dump(w io.Writer, id NodeID) {
	d.dump(w, id, 0)
}

func (d *Document) dump(w io.Writer, id NodeID, depth int) {
	n := d.Node(id)
	if n == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	switch n.Kind {
	case ElementNode:
		fmt.Fprintf(w, "%s<%s%s>\n", indent, n.Tag, formatAttrs(n.Attrs))
	case TextNode:
		fmt.Fprintf(w, "%s%s\n", indent, n.Data)
	case CommentNode:
		fmt.Fprintf(w, "%s<!--%s-->\n", indent, n.Data)
	}
	for _, c := range n.Children {
		d.dump(w, c, depth+1)
	}
	if n.Kind == ElementNode {
		fmt.Fprintf(w, "%s</%s>\n", indent, n.Tag)
	}
}

// formatAttrs renders attributes sorted by name so dumps are deterministic.
func formatAttrs(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%q", k, attrs[k])
	}
	return sb.String()
}
