// Package typeexpr parses the textual type notation used by fixtures and the
// REPL into typesystem values:
//
//	union := inter ('|' inter)*
//	inter := atom ('&' atom)*
//	atom  := Name | Name '.' 'singleton' | ['-'] INT | ['-'] FLOAT | ':'name
//	       | true | false | nil | dynamic | top | bottom
//	       | '[' [union (',' union)*] ']'
//	       | '{' [entry (',' entry)*] '}'
//	       | '(' union ')'
//	entry := name ':' union | literal '=>' union
//
// Unions and intersections are built as written, right-nested, without
// simplification.
package typeexpr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/funvibe/gradual/internal/config"
	"github.com/funvibe/gradual/internal/symbols"
	"github.com/funvibe/gradual/internal/typesystem"
)

// SyntaxError reports a malformed expression or an unknown class name.
type SyntaxError struct {
	Input  string
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("type expression %q, column %d: %s", e.Input, e.Column, e.Msg)
}

type Parser struct {
	l     *Lexer
	input string
	table *symbols.Table

	curToken  Token
	peekToken Token
}

func New(input string, table *symbols.Table) *Parser {
	p := &Parser{l: NewLexer(input), input: input, table: table}
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses a complete type expression against table.
func Parse(table *symbols.Table, input string) (typesystem.Type, error) {
	return New(input, table).ParseType()
}

// MustParse is Parse for expressions known to be valid. It panics on error.
func MustParse(table *symbols.Table, input string) typesystem.Type {
	t, err := Parse(table, input)
	if err != nil {
		panic(err)
	}
	return t
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) errorf(tok Token, format string, args ...interface{}) error {
	return &SyntaxError{Input: p.input, Column: tok.Column, Msg: fmt.Sprintf(format, args...)}
}

func (p *Parser) expect(t TokenType) error {
	if !p.curTokenIs(t) {
		return p.errorf(p.curToken, "expected %s, got %s", t, p.describe(p.curToken))
	}
	p.nextToken()
	return nil
}

func (p *Parser) describe(tok Token) string {
	if tok.Literal == "" {
		return tok.Type.String()
	}
	return fmt.Sprintf("%q", tok.Literal)
}

// ParseType parses the whole input; trailing tokens are an error.
func (p *Parser) ParseType() (typesystem.Type, error) {
	if p.curTokenIs(EOF) {
		return nil, p.errorf(p.curToken, "empty type expression")
	}
	t, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	if !p.curTokenIs(EOF) {
		return nil, p.errorf(p.curToken, "unexpected %s after type", p.describe(p.curToken))
	}
	return t, nil
}

// ParseSequence parses juxtaposed type expressions, as in
// "Integer | String Comparable", which yields two types.
func ParseSequence(table *symbols.Table, input string) ([]typesystem.Type, error) {
	p := New(input, table)
	var out []typesystem.Type
	for !p.curTokenIs(EOF) {
		t, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// SplitAtMethod splits "Recv method args..." at the first bare lower-case
// identifier outside brackets that is not a keyword. ok is false when there
// is none.
func SplitAtMethod(input string) (recv, method, rest string, ok bool) {
	l := NewLexer(input)
	depth := 0
	for tok := l.NextToken(); tok.Type != EOF; tok = l.NextToken() {
		switch tok.Type {
		case LBRACKET, LBRACE, LPAREN:
			depth++
		case RBRACKET, RBRACE, RPAREN:
			depth--
		case IDENT_LOWER:
			if depth == 0 && !isKeyword(tok.Literal) {
				start := tok.Column - 1
				end := start + len(tok.Literal)
				// Method names may end in ? or ! like symbols do.
				if end < len(input) && (input[end] == '?' || input[end] == '!') {
					end++
				}
				return input[:start], input[start:end], input[end:], true
			}
		}
	}
	return "", "", "", false
}

func isKeyword(s string) bool {
	switch s {
	case config.DynamicKeyword, config.TopKeyword, config.BottomKeyword,
		config.NilKeyword, config.TrueKeyword, config.FalseKeyword:
		return true
	}
	return false
}

func (p *Parser) parseUnion() (typesystem.Type, error) {
	first, err := p.parseIntersection()
	if err != nil {
		return nil, err
	}
	arms := []typesystem.Type{first}
	for p.curTokenIs(PIPE) {
		p.nextToken() // consume '|'
		next, err := p.parseIntersection()
		if err != nil {
			return nil, err
		}
		arms = append(arms, next)
	}
	return nest(arms, func(l, r typesystem.Type) typesystem.Type { return typesystem.NewOr(l, r) }), nil
}

func (p *Parser) parseIntersection() (typesystem.Type, error) {
	first, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	arms := []typesystem.Type{first}
	for p.curTokenIs(AMP) {
		p.nextToken() // consume '&'
		next, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		arms = append(arms, next)
	}
	return nest(arms, func(l, r typesystem.Type) typesystem.Type { return typesystem.NewAnd(l, r) }), nil
}

func nest(arms []typesystem.Type, join func(l, r typesystem.Type) typesystem.Type) typesystem.Type {
	result := arms[len(arms)-1]
	for i := len(arms) - 2; i >= 0; i-- {
		result = join(arms[i], result)
	}
	return result
}

func (p *Parser) parseAtom() (typesystem.Type, error) {
	tok := p.curToken
	switch tok.Type {
	case IDENT_UPPER:
		return p.parseClass()
	case IDENT_LOWER:
		p.nextToken()
		switch tok.Literal {
		case config.DynamicKeyword:
			return typesystem.Dynamic(), nil
		case config.TopKeyword:
			return typesystem.Top(), nil
		case config.BottomKeyword:
			return typesystem.Bottom(), nil
		case config.NilKeyword:
			return typesystem.Nil(), nil
		case config.TrueKeyword:
			return p.table.BoolLiteral(true), nil
		case config.FalseKeyword:
			return p.table.BoolLiteral(false), nil
		}
		return nil, p.errorf(tok, "unknown keyword %q", tok.Literal)
	case INT, FLOAT, MINUS, SYMBOL:
		return p.parseLiteral()
	case LBRACKET:
		return p.parseArray()
	case LBRACE:
		return p.parseHash()
	case LPAREN:
		p.nextToken() // consume '('
		t, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		if err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return t, nil
	}
	return nil, p.errorf(tok, "expected a type, got %s", p.describe(tok))
}

func (p *Parser) parseClass() (typesystem.Type, error) {
	tok := p.curToken
	ref, ok := p.table.Lookup(tok.Literal)
	if !ok {
		return nil, p.errorf(tok, "unknown class %s", tok.Literal)
	}
	p.nextToken()
	if p.curTokenIs(DOT) {
		p.nextToken() // consume '.'
		if !p.curTokenIs(IDENT_LOWER) || p.curToken.Literal != config.SingletonWord {
			return nil, p.errorf(p.curToken, "expected 'singleton' after '.'")
		}
		p.nextToken()
		ref = p.table.SingletonOf(ref)
	}
	return typesystem.NewClassType(ref), nil
}

func (p *Parser) parseLiteral() (*typesystem.Literal, error) {
	tok := p.curToken
	switch tok.Type {
	case SYMBOL:
		p.nextToken()
		return p.table.SymbolLiteral(tok.Literal), nil
	case IDENT_LOWER:
		if tok.Literal == config.TrueKeyword || tok.Literal == config.FalseKeyword {
			p.nextToken()
			return p.table.BoolLiteral(tok.Literal == config.TrueKeyword), nil
		}
	case MINUS, INT, FLOAT:
		sign := ""
		if tok.Type == MINUS {
			p.nextToken()
			sign = "-"
			if !p.curTokenIs(INT) && !p.curTokenIs(FLOAT) {
				return nil, p.errorf(p.curToken, "expected a number after '-'")
			}
		}
		num := p.curToken
		p.nextToken()
		if num.Type == INT {
			v, err := strconv.ParseInt(sign+strings.ReplaceAll(num.Literal, "_", ""), 10, 64)
			if err != nil {
				return nil, p.errorf(num, "bad integer %s%s", sign, num.Literal)
			}
			return p.table.IntegerLiteral(v), nil
		}
		v, err := strconv.ParseFloat(sign+strings.ReplaceAll(num.Literal, "_", ""), 64)
		if err != nil {
			return nil, p.errorf(num, "bad float %s%s", sign, num.Literal)
		}
		return p.table.FloatLiteral(v), nil
	}
	return nil, p.errorf(tok, "expected a literal, got %s", p.describe(tok))
}

func (p *Parser) parseArray() (typesystem.Type, error) {
	p.nextToken() // consume '['
	var elems []typesystem.Type
	for !p.curTokenIs(RBRACKET) {
		e, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if !p.curTokenIs(COMMA) {
			break
		}
		p.nextToken() // consume ','
	}
	if err := p.expect(RBRACKET); err != nil {
		return nil, err
	}
	return p.table.Array(elems), nil
}

func (p *Parser) parseHash() (typesystem.Type, error) {
	p.nextToken() // consume '{'
	var keys []*typesystem.Literal
	var values []typesystem.Type
	seen := make(map[string]bool)
	for !p.curTokenIs(RBRACE) {
		keyTok := p.curToken
		var key *typesystem.Literal
		if p.curTokenIs(IDENT_LOWER) && p.peekTokenIs(COLON) {
			key = p.table.SymbolLiteral(keyTok.Literal)
			p.nextToken() // name
			p.nextToken() // ':'
		} else {
			k, err := p.parseLiteral()
			if err != nil {
				return nil, err
			}
			if err := p.expect(ARROW); err != nil {
				return nil, err
			}
			key = k
		}
		if seen[key.String()] {
			return nil, p.errorf(keyTok, "duplicate key %s", key.String())
		}
		seen[key.String()] = true

		v, err := p.parseUnion()
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
		values = append(values, v)
		if !p.curTokenIs(COMMA) {
			break
		}
		p.nextToken() // consume ','
	}
	if err := p.expect(RBRACE); err != nil {
		return nil, err
	}
	return p.table.Hash(keys, values), nil
}
