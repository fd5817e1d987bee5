// internal/browser/dom/xpath.go
package dom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
)

// ErrNoSource is returned by XPath queries on documents that were not
// imported from HTML and therefore have no source tree to evaluate against.
var ErrNoSource = errors.New("document has no HTML source tree")

// GenerateUniqueXPath generates a robust XPath expression for an element.
// It prioritizes using IDs as anchors for stability and brevity.
func GenerateUniqueXPath(doc *Document, id NodeID) string {
	if doc.Node(id) == nil {
		return ""
	}

	var path []string
	for cur := id; cur != InvalidNode; cur = doc.Node(cur).Parent {
		n := doc.Node(cur)
		if n.Kind != ElementNode {
			continue
		}

		tag := strings.ToLower(n.Tag)
		if tag == "" {
			continue
		}

		// If an element has an ID, use it as the base and stop traversal.
		if elID, ok := n.ID(); ok && elID != "" {
			path = append(path, fmt.Sprintf(`//*[@id='%s']`, elID))
			break
		}

		// XPath indices are 1-based and count same-tag element siblings only.
		index := 1
		for _, sib := range doc.siblings(cur) {
			if sib == cur {
				break
			}
			if s := doc.Node(sib); s.Kind == ElementNode && strings.ToLower(s.Tag) == tag {
				index++
			}
		}

		path = append(path, fmt.Sprintf("%s[%d]", tag, index))
	}

	if len(path) == 0 {
		return "/"
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	xpath := strings.Join(path, "/")
	if !strings.HasPrefix(xpath, "//*[@id=") {
		xpath = "/" + xpath
	}
	return xpath
}

func (d *Document) siblings(id NodeID) []NodeID {
	n := d.Node(id)
	if n.Parent == InvalidNode {
		return d.roots
	}
	return d.Node(n.Parent).Children
}

// QueryXPath evaluates expr against the HTML source tree and returns the
// arena ID of the first matching node.
func QueryXPath(doc *Document, expr string) (NodeID, error) {
	root := doc.HTMLRoot()
	if root == nil {
		return InvalidNode, ErrNoSource
	}
	target, err := htmlquery.Query(root, expr)
	if err != nil {
		return InvalidNode, fmt.Errorf("invalid XPath selector '%s': %w", expr, err)
	}
	if target == nil {
		return InvalidNode, fmt.Errorf("element not found matching selector '%s'", expr)
	}
	id, ok := doc.Lookup(target)
	if !ok {
		return InvalidNode, fmt.Errorf("node matching '%s' is not part of the document arena", expr)
	}
	return id, nil
}
