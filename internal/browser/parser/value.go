// internal/browser/parser/value.go
package parser

import (
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

type valueToken struct {
	tt   css.TokenType
	data string
}

// ParseValue types the raw text of a declaration value. A single dimension or
// percentage with a known unit becomes a Length; a hash, an rgb()/rgba() call
// or a basic named color becomes a Color; everything else, including unitless
// numbers and multi-token values, is kept verbatim as a Keyword.
func ParseValue(raw string) Value {
	raw = strings.TrimSpace(raw)
	tokens := tokenize(raw)
	if len(tokens) == 0 {
		return Keyword(raw)
	}

	if len(tokens) == 1 {
		t := tokens[0]
		switch t.tt {
		case css.DimensionToken:
			if l, ok := parseDimension(t.data); ok {
				return Len(l.Value, l.Unit)
			}
		case css.PercentageToken:
			if f, err := strconv.ParseFloat(strings.TrimSuffix(t.data, "%"), 64); err == nil {
				return Len(f, UnitPercent)
			}
		case css.HashToken:
			if c, ok := parseHexColor(t.data[1:]); ok {
				return Col(c)
			}
		case css.IdentToken:
			if c, ok := namedColors[strings.ToLower(t.data)]; ok {
				return Col(c)
			}
		}
		return Keyword(raw)
	}

	if tokens[0].tt == css.FunctionToken {
		name := strings.ToLower(strings.TrimSuffix(tokens[0].data, "("))
		if name == "rgb" || name == "rgba" {
			if c, ok := parseRGBFunction(tokens[1:]); ok {
				return Col(c)
			}
		}
	}
	return Keyword(raw)
}

func tokenize(raw string) []valueToken {
	lexer := css.NewLexer(parse.NewInputString(raw))
	var tokens []valueToken
	for {
		tt, data := lexer.Next()
		switch tt {
		case css.ErrorToken:
			return tokens
		case css.WhitespaceToken, css.CommentToken:
			continue
		}
		tokens = append(tokens, valueToken{tt: tt, data: string(data)})
	}
}

// parseDimension splits a dimension token such as "12.5px" into its number
// and unit. Unknown units are rejected.
func parseDimension(s string) (Length, bool) {
	end := len(s)
	for end > 0 && isASCIILetter(s[end-1]) {
		end--
	}
	if end == 0 || end == len(s) {
		return Length{}, false
	}
	unit, ok := ParseUnit(s[end:])
	if !ok {
		return Length{}, false
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return Length{}, false
	}
	return Length{Value: f, Unit: unit}, true
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// parseHexColor accepts the 3, 4, 6 and 8 digit hex notations.
func parseHexColor(hex string) (Color, bool) {
	switch len(hex) {
	case 3, 4:
		var expanded strings.Builder
		for i := 0; i < len(hex); i++ {
			expanded.WriteByte(hex[i])
			expanded.WriteByte(hex[i])
		}
		hex = expanded.String()
	case 6, 8:
	default:
		return Color{}, false
	}

	var ch [4]float64
	ch[3] = 1
	for i := 0; i < len(hex)/2; i++ {
		n, err := strconv.ParseUint(hex[2*i:2*i+2], 16, 8)
		if err != nil {
			return Color{}, false
		}
		ch[i] = float64(n) / 255
	}
	return Color{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, true
}

// parseRGBFunction reads the arguments of rgb()/rgba() up to the closing
// parenthesis. Channels may be numbers (0-255) or percentages; alpha may be a
// number (0-1) or a percentage.
func parseRGBFunction(args []valueToken) (Color, bool) {
	var nums []float64
	closed := false
	for _, t := range args {
		switch t.tt {
		case css.NumberToken:
			f, err := strconv.ParseFloat(t.data, 64)
			if err != nil {
				return Color{}, false
			}
			if len(nums) < 3 {
				f /= 255
			}
			nums = append(nums, f)
		case css.PercentageToken:
			f, err := strconv.ParseFloat(strings.TrimSuffix(t.data, "%"), 64)
			if err != nil {
				return Color{}, false
			}
			nums = append(nums, f/100)
		case css.CommaToken:
		case css.DelimToken:
			// Space separated syntax uses "/" before alpha.
			if t.data != "/" {
				return Color{}, false
			}
		case css.RightParenthesisToken:
			closed = true
		default:
			return Color{}, false
		}
		if closed {
			break
		}
	}
	if !closed || (len(nums) != 3 && len(nums) != 4) {
		return Color{}, false
	}
	if len(nums) == 3 {
		nums = append(nums, 1)
	}
	return Color{R: clamp01(nums[0]), G: clamp01(nums[1]), B: clamp01(nums[2]), A: clamp01(nums[3])}, true
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

var namedColors = map[string]Color{
	"black":       {0, 0, 0, 1},
	"silver":      {192.0 / 255, 192.0 / 255, 192.0 / 255, 1},
	"gray":        {128.0 / 255, 128.0 / 255, 128.0 / 255, 1},
	"grey":        {128.0 / 255, 128.0 / 255, 128.0 / 255, 1},
	"white":       {1, 1, 1, 1},
	"maroon":      {128.0 / 255, 0, 0, 1},
	"red":         {1, 0, 0, 1},
	"purple":      {128.0 / 255, 0, 128.0 / 255, 1},
	"fuchsia":     {1, 0, 1, 1},
	"green":       {0, 128.0 / 255, 0, 1},
	"lime":        {0, 1, 0, 1},
	"olive":       {128.0 / 255, 128.0 / 255, 0, 1},
	"yellow":      {1, 1, 0, 1},
	"navy":        {0, 0, 128.0 / 255, 1},
	"blue":        {0, 0, 1, 1},
	"teal":        {0, 128.0 / 255, 128.0 / 255, 1},
	"aqua":        {0, 1, 1, 1},
	"orange":      {1, 165.0 / 255, 0, 1},
	"transparent": {0, 0, 0, 0},
}
