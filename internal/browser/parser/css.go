// internal/browser/parser/css.go
package parser

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Parser holds the state of the stylesheet parser.
type Parser struct {
	input  string
	pos    int
	logger *zap.Logger
}

// NewParser prepares a parser over input. A nil logger discards diagnostics.
func NewParser(input string, logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{input: input, logger: logger.Named("css-parser")}
}

// ParseStyleSheet parses input without diagnostics.
func ParseStyleSheet(input string) StyleSheet {
	return NewParser(input, nil).Parse()
}

// Parse analyzes the input and builds a StyleSheet. Malformed rules are
// skipped; parsing never fails.
func (p *Parser) Parse() StyleSheet {
	var rules []Rule
	for {
		p.consumeWhitespace()
		if p.eof() {
			break
		}
		if p.startsWith("/*") {
			p.skipComment()
			continue
		}

		if p.currentChar() == '@' {
			p.skipAtRule()
			continue
		}

		selectors := p.parseSelectors()
		if len(selectors) == 0 {
			p.skipTo('{')
			if !p.eof() && p.currentChar() == '{' {
				p.consumeChar()
				p.skipBlock('{', '}')
			}
			continue
		}

		declarations, err := p.parseDeclarations()
		if err != nil {
			p.logger.Debug("Skipping rule without a declaration block", zap.Error(err))
			continue
		}

		if len(declarations) > 0 {
			rules = append(rules, Rule{Selectors: selectors, Declarations: declarations})
		}
	}
	p.logger.Debug("Parsed stylesheet", zap.Int("rules", len(rules)))
	return StyleSheet{Rules: rules}
}

// parseSelectors parses a comma-separated list of selectors.
func (p *Parser) parseSelectors() []Selector {
	var selectors []Selector
	for {
		p.consumeWhitespace()
		if p.eof() || p.currentChar() == '{' {
			break
		}
		sel := p.parseSelector()
		if len(sel.Simple) > 0 {
			selectors = append(selectors, sel)
		}

		p.consumeWhitespace()
		if p.eof() || p.currentChar() == '{' {
			break
		}
		if p.currentChar() == ',' {
			p.consumeChar()
			continue
		}
		break
	}
	return selectors
}

// parseSelector parses a sequence of simple selectors and the combinators
// between them.
func (p *Parser) parseSelector() Selector {
	var sel Selector
	pending := CombinatorDescendant

	for {
		p.consumeWhitespace()
		if p.eof() || p.currentChar() == '{' || p.currentChar() == ',' {
			break
		}

		start := p.pos
		simple, err := p.parseSimpleSelector()
		if err != nil {
			p.logger.Debug("Skipping malformed selector component", zap.Error(err), zap.Int("offset", start))
			if p.pos == start {
				p.consumeChar()
			}
			p.skipTo(' ', '>', '+', '~', ',', '{')
			continue
		}
		if len(sel.Simple) > 0 {
			sel.Combinators = append(sel.Combinators, pending)
		}
		sel.Simple = append(sel.Simple, simple)

		p.consumeWhitespace()
		if p.eof() || p.currentChar() == '{' || p.currentChar() == ',' {
			break
		}

		switch p.currentChar() {
		case '>':
			pending = CombinatorChild
			p.consumeChar()
		case '+':
			pending = CombinatorAdjacentSibling
			p.consumeChar()
		case '~':
			pending = CombinatorGeneralSibling
			p.consumeChar()
		default:
			pending = CombinatorDescendant
		}
	}
	return sel
}

// parseSimpleSelector parses a single compound such as div#id.class1.class2.
// The universal selector leaves the tag empty.
func (p *Parser) parseSimpleSelector() (SimpleSelector, error) {
	selector := SimpleSelector{}
	universal := false

	if !p.eof() {
		ch := p.currentChar()
		if ch == '*' {
			p.consumeChar()
			universal = true
		} else if isValidIdentifierStart(ch) {
			selector.TagName = strings.ToLower(p.parseIdentifier())
		}
	}

	for !p.eof() {
		switch p.currentChar() {
		case '#':
			p.consumeChar()
			selector.ID = p.parseIdentifier()
		case '.':
			p.consumeChar()
			if class := p.parseIdentifier(); class != "" {
				selector.Classes = append(selector.Classes, class)
			}
		case '[':
			p.consumeChar()
			if attr, err := p.skipAttributeSelector(); err == nil {
				// Rules carry no attribute constraints.
				p.logger.Debug("Dropping attribute selector", zap.String("attribute", attr))
			}
		case ':':
			// Pseudo-classes and pseudo-elements are not modeled either.
			p.consumeChar()
			if !p.eof() && p.currentChar() == ':' {
				p.consumeChar()
			}
			name := p.parseIdentifier()
			if !p.eof() && p.currentChar() == '(' {
				p.consumeChar()
				p.skipBlock('(', ')')
			}
			p.logger.Debug("Dropping pseudo selector", zap.String("pseudo", name))
		default:
			goto done
		}
	}

done:
	if !selector.IsValid() && !universal {
		return selector, fmt.Errorf("invalid simple selector")
	}
	return selector, nil
}

// skipAttributeSelector consumes the contents of `[...]` and returns the
// attribute name.
func (p *Parser) skipAttributeSelector() (string, error) {
	p.consumeWhitespace()
	name := p.parseIdentifier()
	for !p.eof() {
		ch := p.currentChar()
		switch ch {
		case '"', '\'':
			p.skipQuotedString(ch)
		case ']':
			p.consumeChar()
			return name, nil
		default:
			p.pos++
		}
	}
	return name, fmt.Errorf("unexpected EOF in attribute selector")
}

// parseDeclarations parses the content within { ... }.
func (p *Parser) parseDeclarations() ([]Declaration, error) {
	p.consumeWhitespace()
	if p.eof() || p.currentChar() != '{' {
		return nil, fmt.Errorf("expected '{' at start of declarations")
	}
	p.consumeChar()

	var declarations []Declaration
	for {
		p.consumeWhitespace()
		if p.eof() || p.currentChar() == '}' {
			break
		}

		if p.startsWith("/*") {
			p.skipComment()
			continue
		}

		property, value := p.parseDeclaration()
		if property != "" && value != "" {
			declarations = append(declarations, expandDeclaration(strings.ToLower(property), value)...)
		}
	}

	if !p.eof() && p.currentChar() == '}' {
		p.consumeChar()
	}
	return declarations, nil
}

// parseDeclaration parses a single 'property: value;' pair.
func (p *Parser) parseDeclaration() (prop, val string) {
	if !isValidIdentifierStart(p.currentChar()) {
		p.skipTo(';', '}')
		if !p.eof() && p.currentChar() == ';' {
			p.consumeChar()
		}
		return
	}
	prop = p.parseIdentifier()
	p.consumeWhitespace()

	if p.eof() || p.currentChar() != ':' {
		p.skipTo(';', '}')
		if !p.eof() && p.currentChar() == ';' {
			p.consumeChar()
		}
		return "", ""
	}
	p.consumeChar()
	p.consumeWhitespace()

	val = p.parseValue()

	// There is no importance in the cascade; the flag is dropped.
	if strings.HasSuffix(strings.ToLower(val), "!important") {
		val = strings.TrimSpace(val[:len(val)-len("!important")])
		p.logger.Debug("Ignoring !important", zap.String("property", prop))
	}

	p.consumeWhitespace()
	if !p.eof() && p.currentChar() == ';' {
		p.consumeChar()
	}
	return
}

// parseValue reads a raw value until a delimiter.
func (p *Parser) parseValue() string {
	start := p.pos
	for !p.eof() {
		ch := p.currentChar()
		if ch == ';' || ch == '}' {
			break
		}
		if ch == '"' || ch == '\'' {
			p.skipQuotedString(ch)
			continue
		}
		if ch == '(' {
			p.consumeChar()
			p.skipBlock('(', ')')
			continue
		}
		p.pos++
	}
	return strings.TrimSpace(p.input[start:p.pos])
}

// boxShorthands maps the 1-to-4 value shorthands to their longhands in
// top, right, bottom, left order.
var boxShorthands = map[string][4]string{
	"margin":       {"margin-top", "margin-right", "margin-bottom", "margin-left"},
	"padding":      {"padding-top", "padding-right", "padding-bottom", "padding-left"},
	"border-width": {"border-top-width", "border-right-width", "border-bottom-width", "border-left-width"},
}

// expandDeclaration types a raw declaration, expanding box shorthands into
// their four longhands.
func expandDeclaration(property, raw string) []Declaration {
	longhands, ok := boxShorthands[property]
	if !ok {
		return []Declaration{{Property: property, Value: ParseValue(raw)}}
	}

	parts := strings.Fields(raw)
	var top, right, bottom, left string
	switch len(parts) {
	case 1:
		top, right, bottom, left = parts[0], parts[0], parts[0], parts[0]
	case 2:
		top, right, bottom, left = parts[0], parts[1], parts[0], parts[1]
	case 3:
		top, right, bottom, left = parts[0], parts[1], parts[2], parts[1]
	case 4:
		top, right, bottom, left = parts[0], parts[1], parts[2], parts[3]
	default:
		return []Declaration{{Property: property, Value: Keyword(raw)}}
	}

	return []Declaration{
		{Property: longhands[0], Value: ParseValue(top)},
		{Property: longhands[1], Value: ParseValue(right)},
		{Property: longhands[2], Value: ParseValue(bottom)},
		{Property: longhands[3], Value: ParseValue(left)},
	}
}

// --- Lexer-like Helpers ---

func (p *Parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *Parser) currentChar() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *Parser) consumeChar() byte {
	ch := p.currentChar()
	if !p.eof() {
		p.pos++
	}
	return ch
}

func (p *Parser) consumeWhitespace() {
	for !p.eof() && isWhitespace(p.currentChar()) {
		p.pos++
	}
}

func (p *Parser) startsWith(s string) bool {
	return strings.HasPrefix(p.input[p.pos:], s)
}

func (p *Parser) skipComment() {
	p.pos += 2
	if end := strings.Index(p.input[p.pos:], "*/"); end == -1 {
		p.pos = len(p.input)
	} else {
		p.pos += end + 2
	}
}

func (p *Parser) skipTo(targets ...byte) {
	for !p.eof() {
		if strings.IndexByte(string(targets), p.currentChar()) >= 0 {
			return
		}
		p.pos++
	}
}

// skipBlock consumes up to and including the close byte matching an open
// byte that has already been consumed.
func (p *Parser) skipBlock(open, close byte) {
	depth := 1
	for !p.eof() {
		c := p.consumeChar()
		if c == open {
			depth++
		} else if c == close {
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

func (p *Parser) skipQuotedString(quote byte) {
	p.consumeChar()
	for !p.eof() {
		ch := p.consumeChar()
		if ch == '\\' {
			p.consumeChar()
		} else if ch == quote {
			return
		}
	}
}

func (p *Parser) skipAtRule() {
	p.consumeChar()
	name := p.parseIdentifier()
	p.logger.Debug("Skipping at-rule", zap.String("name", name))
	for !p.eof() {
		ch := p.currentChar()
		if ch == '{' {
			p.consumeChar()
			p.skipBlock('{', '}')
			return
		}
		if ch == ';' {
			p.consumeChar()
			return
		}
		p.pos++
	}
}

func (p *Parser) parseIdentifier() string {
	start := p.pos
	for !p.eof() && isValidIdentifierChar(p.currentChar()) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f'
}

func isValidIdentifierStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '-'
}

func isValidIdentifierChar(ch byte) bool {
	return isValidIdentifierStart(ch) || (ch >= '0' && ch <= '9')
}
