// internal/browser/style/selectors.go
package style

import (
	"github.com/xkilldash9x/boxflow/internal/browser/dom"
	"github.com/xkilldash9x/boxflow/internal/browser/parser"
)

// Matches reports whether any simple selector of sel matches el. Combinators
// are carried by the selector but not evaluated, so `div p` matches every div
// and every p.
func Matches(el *dom.Node, sel parser.Selector) bool {
	for _, simple := range sel.Simple {
		if MatchesSimple(el, simple) {
			return true
		}
	}
	return false
}

// MatchesSimple checks tag (case-sensitive), id and every class of s against
// el. Absent components match anything.
func MatchesSimple(el *dom.Node, s parser.SimpleSelector) bool {
	if !el.IsElement() {
		return false
	}
	if s.TagName != "" && s.TagName != el.Tag {
		return false
	}
	if s.ID != "" {
		id, ok := el.ID()
		if !ok || id != s.ID {
			return false
		}
	}
	if len(s.Classes) > 0 {
		classes := el.Classes()
		for _, c := range s.Classes {
			if _, ok := classes[c]; !ok {
				return false
			}
		}
	}
	return true
}
