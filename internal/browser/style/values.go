// internal/browser/style/values.go
package style

import (
	"fmt"

	"github.com/xkilldash9x/boxflow/internal/browser/parser"
)

type DisplayType int

const (
	DisplayInline DisplayType = iota
	DisplayBlock
	DisplayInlineBlock
	DisplayNone
)

func (d DisplayType) String() string {
	switch d {
	case DisplayInline:
		return "inline"
	case DisplayBlock:
		return "block"
	case DisplayInlineBlock:
		return "inline-block"
	case DisplayNone:
		return "none"
	}
	return fmt.Sprintf("DisplayType(%d)", int(d))
}

// Value looks up a property. Absence is not an error.
func (sn *StyledNode) Value(name string) (parser.Value, bool) {
	v, ok := sn.Properties[name]
	return v, ok
}

// Display maps the display keyword. Anything else, including a missing
// property or a non-keyword value, is inline.
func (sn *StyledNode) Display() DisplayType {
	v, ok := sn.Value("display")
	if !ok {
		return DisplayInline
	}
	kw, ok := v.Keyword()
	if !ok {
		return DisplayInline
	}
	switch kw {
	case "block":
		return DisplayBlock
	case "inline-block":
		return DisplayInlineBlock
	case "none":
		return DisplayNone
	}
	return DisplayInline
}

// NumOr returns the magnitude of a length property, dropping its unit, or
// def when the property is missing or not a length.
func (sn *StyledNode) NumOr(name string, def float64) float64 {
	if l, ok := sn.Length(name); ok {
		return l.Value
	}
	return def
}

// Length returns a length property with its unit.
func (sn *StyledNode) Length(name string) (parser.Length, bool) {
	v, ok := sn.Value(name)
	if !ok {
		return parser.Length{}, false
	}
	return v.Length()
}

// Color returns a color property. A value of another kind is treated as not
// applicable.
func (sn *StyledNode) Color(name string) (parser.Color, bool) {
	v, ok := sn.Value(name)
	if !ok {
		return parser.Color{}, false
	}
	return v.Color()
}
