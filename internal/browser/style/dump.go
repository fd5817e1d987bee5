// internal/browser/style/dump.go
package style

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Label renders the element of a styled node as a compact selector, e.g.
// div#a.x.y.
func (t *Tree) Label(id NodeID) string {
	el := t.Element(id)
	if el == nil {
		return "?"
	}
	var sb strings.Builder
	sb.WriteString(el.Tag)
	if elID, ok := el.ID(); ok && elID != "" {
		sb.WriteByte('#')
		sb.WriteString(elID)
	}
	if class, ok := el.Attrs["class"]; ok {
		for _, c := range strings.Fields(class) {
			sb.WriteByte('.')
			sb.WriteString(c)
		}
	}
	return sb.String()
}

// Dump writes one line per styled node, indented by depth, with properties
// sorted by name.
func (t *Tree) Dump(w io.Writer) {
	t.dump(w, t.root, 0)
}

func (t *Tree) dump(w io.Writer, id NodeID, depth int) {
	sn := t.Node(id)
	if sn == nil {
		return
	}
	fmt.Fprintf(w, "%s%s {%s}\n", strings.Repeat("  ", depth), t.Label(id), formatProperties(sn.Properties))
	for _, c := range sn.Children {
		t.dump(w, c, depth+1)
	}
}

func formatProperties(props PropertyMap) string {
	if len(props) == 0 {
		return ""
	}
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + props[name].String()
	}
	return " " + strings.Join(parts, "; ") + " "
}
