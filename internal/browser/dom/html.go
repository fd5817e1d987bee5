// internal/browser/dom/html.go
package dom

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// htmlIndex links arena nodes back to the parsed *html.Node they were built
// from, so XPath evaluation can run against the source tree.
type htmlIndex struct {
	root   *html.Node
	byNode map[*html.Node]NodeID
	byID   []*html.Node
}

// FromHTML parses a complete HTML document. The parser follows the HTML5
// tree construction rules, so the result always has an <html> root with
// <head> and <body> children.
func FromHTML(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return fromHTMLRoot(root), nil
}

// FromHTMLFragment parses markup as the children of a <body> element. This is
// the natural entry point for snippets like `<div id="a">...</div>`, where the
// first top-level element should be the styled root.
func FromHTMLFragment(r io.Reader) (*Document, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, context)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML fragment: %w", err)
	}
	root := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return fromHTMLRoot(root), nil
}

func fromHTMLRoot(root *html.Node) *Document {
	doc := &Document{
		sourceOf: htmlIndex{
			root:   root,
			byNode: make(map[*html.Node]NodeID),
		},
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		doc.importNode(InvalidNode, c)
	}
	return doc
}

func (d *Document) importNode(parent NodeID, n *html.Node) {
	var id NodeID
	switch n.Type {
	case html.ElementNode:
		attrs := make(map[string]string, len(n.Attr))
		for _, a := range n.Attr {
			// Attribute keys are unique; the first occurrence wins as in the DOM.
			if _, dup := attrs[a.Key]; !dup {
				attrs[a.Key] = a.Val
			}
		}
		id = d.AddElement(parent, strings.ToLower(n.Data), attrs)
	case html.TextNode:
		id = d.AddText(parent, n.Data)
	case html.CommentNode:
		id = d.AddComment(parent, n.Data)
	default:
		// Doctype and raw nodes have no place in the arena.
		return
	}

	// Arena IDs are issued sequentially, so byID stays index-aligned.
	d.sourceOf.byNode[n] = id
	d.sourceOf.byID = append(d.sourceOf.byID, n)

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.importNode(id, c)
	}
}

// Source returns the *html.Node an arena node was imported from, or nil for
// documents that were built programmatically.
func (d *Document) Source(id NodeID) *html.Node {
	if d == nil || id < 0 || int(id) >= len(d.sourceOf.byID) {
		return nil
	}
	return d.sourceOf.byID[id]
}

// Lookup maps a source *html.Node back to its arena ID.
func (d *Document) Lookup(n *html.Node) (NodeID, bool) {
	if d == nil || d.sourceOf.byNode == nil {
		return InvalidNode, false
	}
	id, ok := d.sourceOf.byNode[n]
	return id, ok
}

// HTMLRoot returns the parsed document node, or nil when the document was
// not imported from HTML.
func (d *Document) HTMLRoot() *html.Node {
	if d == nil {
		return nil
	}
	return d.sourceOf.root
}
