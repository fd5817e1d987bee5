// internal/browser/parser/stylesheet.go
package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit is the unit of a Length value.
type Unit uint8

const (
	UnitEm Unit = iota
	UnitEx
	UnitCh
	UnitRem
	UnitVh
	UnitVw
	UnitVmin
	UnitVmax
	UnitPx
	UnitMm
	UnitQ
	UnitCm
	UnitIn
	UnitPt
	UnitPc
	UnitPercent
)

var unitNames = [...]string{
	UnitEm:      "em",
	UnitEx:      "ex",
	UnitCh:      "ch",
	UnitRem:     "rem",
	UnitVh:      "vh",
	UnitVw:      "vw",
	UnitVmin:    "vmin",
	UnitVmax:    "vmax",
	UnitPx:      "px",
	UnitMm:      "mm",
	UnitQ:       "q",
	UnitCm:      "cm",
	UnitIn:      "in",
	UnitPt:      "pt",
	UnitPc:      "pc",
	UnitPercent: "%",
}

func (u Unit) String() string {
	if int(u) < len(unitNames) {
		return unitNames[u]
	}
	return fmt.Sprintf("Unit(%d)", uint8(u))
}

// ParseUnit maps a unit suffix (case-insensitive) to its Unit.
func ParseUnit(s string) (Unit, bool) {
	s = strings.ToLower(s)
	for u, name := range unitNames {
		if name == s {
			return Unit(u), true
		}
	}
	return 0, false
}

// Color is an RGBA color with every channel normalized to [0, 1].
type Color struct {
	R, G, B, A float64
}

// DefaultColor is opaque white.
var DefaultColor = Color{R: 1, G: 1, B: 1, A: 1}

func (c Color) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)",
		channel(c.R), channel(c.G), channel(c.B),
		strconv.FormatFloat(c.A, 'f', -1, 64))
}

func channel(f float64) int {
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return 255
	}
	return int(f*255 + 0.5)
}

// Length is a magnitude with its unit.
type Length struct {
	Value float64
	Unit  Unit
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + l.Unit.String()
}

// ValueKind discriminates the variants of Value.
type ValueKind uint8

const (
	KeywordValue ValueKind = iota
	LengthValue
	ColorValue
)

func (k ValueKind) String() string {
	switch k {
	case KeywordValue:
		return "keyword"
	case LengthValue:
		return "length"
	case ColorValue:
		return "color"
	}
	return fmt.Sprintf("ValueKind(%d)", uint8(k))
}

// Value is a declaration value: a Color, a Length, or any other raw text
// (keywords such as display modes, unitless numbers, lists).
// Values are comparable with ==.
type Value struct {
	kind   ValueKind
	color  Color
	length Length
	raw    string
}

// Col builds a color value.
func Col(c Color) Value { return Value{kind: ColorValue, color: c} }

// Len builds a length value.
func Len(v float64, u Unit) Value { return Value{kind: LengthValue, length: Length{Value: v, Unit: u}} }

// Keyword builds a value holding raw text.
func Keyword(s string) Value { return Value{kind: KeywordValue, raw: s} }

// Kind reports which variant v holds.
func (v Value) Kind() ValueKind { return v.kind }

// Color returns the color held by v.
func (v Value) Color() (Color, bool) {
	if v.kind != ColorValue {
		return Color{}, false
	}
	return v.color, true
}

// Length returns the length held by v.
func (v Value) Length() (Length, bool) {
	if v.kind != LengthValue {
		return Length{}, false
	}
	return v.length, true
}

// Keyword returns the raw text held by v.
func (v Value) Keyword() (string, bool) {
	if v.kind != KeywordValue {
		return "", false
	}
	return v.raw, true
}

func (v Value) String() string {
	switch v.kind {
	case ColorValue:
		return v.color.String()
	case LengthValue:
		return v.length.String()
	}
	return v.raw
}

// Declaration is a property/value pair (e.g. display: none).
type Declaration struct {
	Property string
	Value    Value
}

func (d Declaration) String() string {
	return d.Property + ": " + d.Value.String()
}

// SimpleSelector is a tag name, an id and a set of classes. Empty strings
// mean the component is absent.
type SimpleSelector struct {
	TagName string
	ID      string
	Classes []string
}

// IsValid reports whether the selector constrains anything at all.
func (s SimpleSelector) IsValid() bool {
	return s.TagName != "" || s.ID != "" || len(s.Classes) > 0
}

func (s SimpleSelector) String() string {
	var sb strings.Builder
	sb.WriteString(s.TagName)
	if s.ID != "" {
		sb.WriteByte('#')
		sb.WriteString(s.ID)
	}
	for _, c := range s.Classes {
		sb.WriteByte('.')
		sb.WriteString(c)
	}
	if sb.Len() == 0 {
		return "*"
	}
	return sb.String()
}

// Combinator is the relationship written between two simple selectors.
type Combinator byte

const (
	CombinatorDescendant      Combinator = ' '
	CombinatorChild           Combinator = '>'
	CombinatorAdjacentSibling Combinator = '+'
	CombinatorGeneralSibling  Combinator = '~'
)

// Selector is a sequence of simple selectors. Combinators[i] sits between
// Simple[i] and Simple[i+1].
type Selector struct {
	Simple      []SimpleSelector
	Combinators []Combinator
}

func (s Selector) String() string {
	var sb strings.Builder
	for i, simple := range s.Simple {
		if i > 0 {
			c := CombinatorDescendant
			if i-1 < len(s.Combinators) {
				c = s.Combinators[i-1]
			}
			if c == CombinatorDescendant {
				sb.WriteByte(' ')
			} else {
				sb.WriteByte(' ')
				sb.WriteByte(byte(c))
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(simple.String())
	}
	return sb.String()
}

// Rule applies its declarations to every element any of its selectors match.
type Rule struct {
	Selectors    []Selector
	Declarations []Declaration
}

func (r Rule) String() string {
	var sb strings.Builder
	for i, s := range r.Selectors {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(s.String())
	}
	sb.WriteString(" {\n")
	for _, d := range r.Declarations {
		sb.WriteString("    ")
		sb.WriteString(d.String())
		sb.WriteString(";\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// StyleSheet is an ordered list of rules.
type StyleSheet struct {
	Rules []Rule
}

func (s StyleSheet) String() string {
	parts := make([]string, len(s.Rules))
	for i, r := range s.Rules {
		parts[i] = r.String()
	}
	return strings.Join(parts, "\n\n")
}
