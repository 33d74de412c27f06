/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Tablegrid Authors
*/

package expr

import (
	"fmt"
	"strconv"
)

// Parser parses expressions into an AST
type Parser struct {
	lexer *Lexer
	cur   Token
}

// NewParser creates a new parser
func NewParser(input string) *Parser {
	return &Parser{lexer: NewLexer(input)}
}

func (p *Parser) advance() error {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}
	p.cur = tok
	return nil
}

func (p *Parser) expect(t TokenType) error {
	if p.cur.Type != t {
		return fmt.Errorf("expected %v at position %d, got %q", t, p.cur.Pos, p.cur.Value)
	}
	return p.advance()
}

// Parse parses the input and returns the AST
func (p *Parser) Parse() (Node, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	node, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != TOKEN_EOF {
		return nil, fmt.Errorf("unexpected %q at position %d", p.cur.Value, p.cur.Pos)
	}
	return node, nil
}

// Expression parsing with precedence climbing
// Precedence (low to high):
// 1. ?: (right associative)
// 2. ??
// 3. or, ||
// 4. and, &&
// 5. not, !
// 6. ==, !=, <, >, <=, >=
// 7. +, -
// 8. *, /, %
// 9. ** (right associative)
// 10. unary -
// 11. calls, attribute and index access

func (p *Parser) parseExpr() (Node, error) {
	return p.parseConditional()
}

func (p *Parser) parseConditional() (Node, error) {
	cond, err := p.parseNullish()
	if err != nil {
		return nil, err
	}
	if p.cur.Type != TOKEN_QUESTION {
		return cond, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	then, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TOKEN_COLON); err != nil {
		return nil, err
	}
	otherwise, err := p.parseConditional()
	if err != nil {
		return nil, err
	}
	return &Conditional{Cond: cond, Then: then, Otherwise: otherwise}, nil
}

// parseLeft parses a left-associative chain of ops over operands from next
func (p *Parser) parseLeft(next func() (Node, error), ops ...TokenType) (Node, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for matches(p.cur.Type, ops) {
		op := p.cur.Type
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func matches(t TokenType, ops []TokenType) bool {
	for _, op := range ops {
		if t == op {
			return true
		}
	}
	return false
}

func (p *Parser) parseNullish() (Node, error) {
	return p.parseLeft(p.parseOr, TOKEN_NULLISH)
}

func (p *Parser) parseOr() (Node, error) {
	return p.parseLeft(p.parseAnd, TOKEN_OR)
}

func (p *Parser) parseAnd() (Node, error) {
	return p.parseLeft(p.parseNot, TOKEN_AND)
}

func (p *Parser) parseNot() (Node, error) {
	if p.cur.Type == TOKEN_NOT {
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: TOKEN_NOT, Expr: expr}, nil
	}
	return p.parseComparison()
}

func (p *Parser) parseComparison() (Node, error) {
	return p.parseLeft(p.parseAddSub, TOKEN_EQ, TOKEN_NE, TOKEN_LT, TOKEN_GT, TOKEN_LE, TOKEN_GE)
}

func (p *Parser) parseAddSub() (Node, error) {
	return p.parseLeft(p.parseMulDiv, TOKEN_PLUS, TOKEN_MINUS)
}

func (p *Parser) parseMulDiv() (Node, error) {
	return p.parseLeft(p.parsePower, TOKEN_STAR, TOKEN_SLASH, TOKEN_PERCENT)
}

func (p *Parser) parsePower() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	// Power is right-associative
	if p.cur.Type == TOKEN_POWER {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		return &BinaryOp{Op: TOKEN_POWER, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *Parser) parseUnary() (Node, error) {
	if p.cur.Type == TOKEN_MINUS || p.cur.Type == TOKEN_NOT {
		op := p.cur.Type
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: op, Expr: expr}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (Node, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		switch p.cur.Type {
		case TOKEN_LPAREN:
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			switch callee := node.(type) {
			case *Ident:
				node = &CallExpr{Func: callee.Name, Args: args}
			case *AttrAccess:
				node = &MethodCall{Obj: callee.Obj, Method: callee.Attr, Args: args}
			default:
				return nil, fmt.Errorf("cannot call non-function")
			}
		case TOKEN_DOT:
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.Type != TOKEN_IDENT {
				return nil, fmt.Errorf("expected identifier after '.', got %v", p.cur.Type)
			}
			node = &AttrAccess{Obj: node, Attr: p.cur.Value}
			if err := p.advance(); err != nil {
				return nil, err
			}
		case TOKEN_LBRACKET:
			if err := p.advance(); err != nil {
				return nil, err
			}
			index, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expect(TOKEN_RBRACKET); err != nil {
				return nil, err
			}
			node = &IndexAccess{Obj: node, Index: index}
		default:
			return node, nil
		}
	}
}

func (p *Parser) parseArgs() ([]Node, error) {
	// Skip '('
	if err := p.advance(); err != nil {
		return nil, err
	}

	var args []Node
	if p.cur.Type != TOKEN_RPAREN {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		for p.cur.Type == TOKEN_COMMA {
			if err := p.advance(); err != nil {
				return nil, err
			}
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
	}

	if p.cur.Type != TOKEN_RPAREN {
		return nil, fmt.Errorf("expected ')' after arguments")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	return args, nil
}

func (p *Parser) parsePrimary() (Node, error) {
	tok := p.cur
	switch tok.Type {
	case TOKEN_NUMBER:
		val, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number: %s", tok.Value)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &NumberLit{Value: val}, nil

	case TOKEN_STRING:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &StringLit{Value: tok.Value}, nil

	case TOKEN_TRUE, TOKEN_FALSE:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &BoolLit{Value: tok.Type == TOKEN_TRUE}, nil

	case TOKEN_NULL:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &NullLit{}, nil

	case TOKEN_IDENT:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &Ident{Name: tok.Value}, nil

	case TOKEN_LPAREN:
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.cur.Type != TOKEN_RPAREN {
			return nil, fmt.Errorf("expected ')' after expression")
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return expr, nil

	case TOKEN_EOF:
		return nil, fmt.Errorf("unexpected end of expression")

	default:
		return nil, fmt.Errorf("unexpected token: %v", tok.Value)
	}
}
