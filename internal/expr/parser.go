package expr

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Parse converts a directive expression into a tree.
//
// Grammar, lowest precedence first:
//
//	expr    := term (('+' | '-') term)*
//	term    := unary (('*' | '/') unary)*
//	unary   := '-' unary | primary
//	primary := NUMBER | '@' | NAME | 'exp' '(' expr ')' | 'ln' '(' expr ')' | '(' expr ')'
//
// '@' stands for the raw value being converted. A bare NAME references
// another feature of the same chip.
func Parse(input string) (*Node, error) {
	p := &parser{input: input}
	p.next()
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, fmt.Errorf("expression %q: unexpected %q", input, p.tok.text)
	}
	return node, nil
}

// MustParse is Parse for expressions known valid at compile time,
// panicking on error. Intended for tests and fixtures.
func MustParse(input string) *Node {
	n, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return n
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokName
	tokSource // '@'
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string
	val  float64
}

type parser struct {
	input string
	pos   int
	tok   token
	err   error
}

func (p *parser) next() {
	if p.err != nil {
		return
	}
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
	if p.pos >= len(p.input) {
		p.tok = token{kind: tokEOF}
		return
	}

	c := p.input[p.pos]
	switch {
	case c == '@':
		p.tok = token{kind: tokSource, text: "@"}
		p.pos++
	case c == '+':
		p.tok = token{kind: tokPlus, text: "+"}
		p.pos++
	case c == '-':
		p.tok = token{kind: tokMinus, text: "-"}
		p.pos++
	case c == '*':
		p.tok = token{kind: tokStar, text: "*"}
		p.pos++
	case c == '/':
		p.tok = token{kind: tokSlash, text: "/"}
		p.pos++
	case c == '(':
		p.tok = token{kind: tokLParen, text: "("}
		p.pos++
	case c == ')':
		p.tok = token{kind: tokRParen, text: ")"}
		p.pos++
	case c >= '0' && c <= '9' || c == '.':
		start := p.pos
		for p.pos < len(p.input) &&
			(p.input[p.pos] >= '0' && p.input[p.pos] <= '9' || p.input[p.pos] == '.') {
			p.pos++
		}
		text := p.input[start:p.pos]
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			p.fail(fmt.Errorf("bad number %q", text))
			return
		}
		p.tok = token{kind: tokNumber, text: text, val: v}
	case unicode.IsLetter(rune(c)):
		start := p.pos
		for p.pos < len(p.input) && isNameChar(p.input[p.pos]) {
			p.pos++
		}
		p.tok = token{kind: tokName, text: p.input[start:p.pos]}
	default:
		p.fail(fmt.Errorf("unexpected character %q", string(c)))
	}
}

func isNameChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' || c == '_'
}

func (p *parser) fail(err error) {
	if p.err == nil {
		p.err = fmt.Errorf("expression %q: %w", p.input, err)
	}
	p.tok = token{kind: tokEOF}
}

func (p *parser) parseExpr() (*Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		var op BinaryOp
		switch p.tok.kind {
		case tokPlus:
			op = OpAdd
		case tokMinus:
			op = OpSub
		default:
			return left, p.err
		}
		p.next()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		left = Binary(op, left, right)
	}
}

func (p *parser) parseTerm() (*Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op BinaryOp
		switch p.tok.kind {
		case tokStar:
			op = OpMul
		case tokSlash:
			op = OpDiv
		default:
			return left, p.err
		}
		p.next()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = Binary(op, left, right)
	}
}

func (p *parser) parseUnary() (*Node, error) {
	if p.tok.kind == tokMinus {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Unary(OpNegate, operand), nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (*Node, error) {
	if p.err != nil {
		return nil, p.err
	}
	switch p.tok.kind {
	case tokNumber:
		n := Const(p.tok.val)
		p.next()
		return n, nil

	case tokSource:
		p.next()
		return Source(), nil

	case tokName:
		name := p.tok.text
		p.next()
		// exp(...) and ln(...) are the two built-in functions;
		// any other name is a feature reference.
		if p.tok.kind == tokLParen {
			var op UnaryOp
			switch strings.ToLower(name) {
			case "exp":
				op = OpExp
			case "ln", "log":
				op = OpLog
			default:
				return nil, fmt.Errorf("expression %q: unknown function %q", p.input, name)
			}
			p.next()
			operand, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if p.tok.kind != tokRParen {
				return nil, fmt.Errorf("expression %q: missing ')'", p.input)
			}
			p.next()
			return Unary(op, operand), nil
		}
		return Var(name), nil

	case tokLParen:
		p.next()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokRParen {
			return nil, fmt.Errorf("expression %q: missing ')'", p.input)
		}
		p.next()
		return inner, nil

	case tokEOF:
		if p.err != nil {
			return nil, p.err
		}
		return nil, fmt.Errorf("expression %q: unexpected end of expression", p.input)

	default:
		return nil, fmt.Errorf("expression %q: unexpected %q", p.input, p.tok.text)
	}
}
