/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Tablegrid Authors
*/

package expr

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lexer tokenizes an expression string. Both the Python-style keywords the
// grid accepted historically (and, or, not) and the JavaScript operators
// authors type in low-code editors (&&, ||, !, ===, ??) are recognized.
type Lexer struct {
	input string
	pos   int
	ch    byte
}

// NewLexer creates a new lexer for the given input
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	if len(input) > 0 {
		l.ch = input[0]
	}
	return l
}

func (l *Lexer) advance() {
	l.pos++
	if l.pos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.pos]
	}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.advance()
	}
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()

	if l.ch == 0 {
		return Token{Type: TOKEN_EOF, Pos: l.pos}, nil
	}

	startPos := l.pos

	if isDigit(l.ch) || (l.ch == '.' && l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1])) {
		return l.readNumber(startPos)
	}
	if l.ch == '"' || l.ch == '\'' {
		return l.readString(startPos)
	}
	if isIdentStart(l.input[l.pos:]) {
		return l.readIdent(startPos)
	}

	single := func(t TokenType) (Token, error) {
		v := string(l.ch)
		l.advance()
		return Token{Type: t, Value: v, Pos: startPos}, nil
	}
	// either returns long when the next byte is next, else short
	either := func(next byte, long, short TokenType) (Token, error) {
		first := l.ch
		l.advance()
		if l.ch == next {
			l.advance()
			return Token{Type: long, Value: string([]byte{first, next}), Pos: startPos}, nil
		}
		return Token{Type: short, Value: string(first), Pos: startPos}, nil
	}

	switch l.ch {
	case '+':
		return single(TOKEN_PLUS)
	case '-':
		return single(TOKEN_MINUS)
	case '*':
		return either('*', TOKEN_POWER, TOKEN_STAR)
	case '/':
		return single(TOKEN_SLASH)
	case '%':
		return single(TOKEN_PERCENT)
	case '(':
		return single(TOKEN_LPAREN)
	case ')':
		return single(TOKEN_RPAREN)
	case '[':
		return single(TOKEN_LBRACKET)
	case ']':
		return single(TOKEN_RBRACKET)
	case ',':
		return single(TOKEN_COMMA)
	case ':':
		return single(TOKEN_COLON)
	case '.':
		return single(TOKEN_DOT)
	case '?':
		return either('?', TOKEN_NULLISH, TOKEN_QUESTION)
	case '<':
		return either('=', TOKEN_LE, TOKEN_LT)
	case '>':
		return either('=', TOKEN_GE, TOKEN_GT)
	case '=':
		l.advance()
		if l.ch != '=' {
			return Token{}, fmt.Errorf("unexpected '=' at position %d, did you mean '=='?", startPos)
		}
		l.advance()
		if l.ch == '=' {
			l.advance()
		}
		return Token{Type: TOKEN_EQ, Value: "==", Pos: startPos}, nil
	case '!':
		l.advance()
		if l.ch != '=' {
			return Token{Type: TOKEN_NOT, Value: "!", Pos: startPos}, nil
		}
		l.advance()
		if l.ch == '=' {
			l.advance()
		}
		return Token{Type: TOKEN_NE, Value: "!=", Pos: startPos}, nil
	case '&':
		l.advance()
		if l.ch != '&' {
			return Token{}, fmt.Errorf("unexpected '&' at position %d, did you mean '&&'?", startPos)
		}
		l.advance()
		return Token{Type: TOKEN_AND, Value: "&&", Pos: startPos}, nil
	case '|':
		l.advance()
		if l.ch != '|' {
			return Token{}, fmt.Errorf("unexpected '|' at position %d, did you mean '||'?", startPos)
		}
		l.advance()
		return Token{Type: TOKEN_OR, Value: "||", Pos: startPos}, nil
	}

	return Token{}, fmt.Errorf("unexpected character '%c' at position %d", l.ch, startPos)
}

func (l *Lexer) readNumber(startPos int) (Token, error) {
	var sb strings.Builder
	hasDecimal := false

	for isDigit(l.ch) || l.ch == '.' {
		if l.ch == '.' {
			if hasDecimal {
				break
			}
			hasDecimal = true
		}
		sb.WriteByte(l.ch)
		l.advance()
	}

	return Token{Type: TOKEN_NUMBER, Value: sb.String(), Pos: startPos}, nil
}

func (l *Lexer) readString(startPos int) (Token, error) {
	quote := l.ch
	l.advance()
	var sb strings.Builder

	for l.ch != 0 && l.ch != quote {
		if l.ch == '\\' {
			l.advance()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 0:
				return Token{}, fmt.Errorf("unterminated string starting at position %d", startPos)
			default:
				sb.WriteByte(l.ch)
			}
		} else {
			sb.WriteByte(l.ch)
		}
		l.advance()
	}

	if l.ch != quote {
		return Token{}, fmt.Errorf("unterminated string starting at position %d", startPos)
	}
	l.advance()

	return Token{Type: TOKEN_STRING, Value: sb.String(), Pos: startPos}, nil
}

// readIdent reads identifiers, which may contain non-ASCII letters since
// field names come straight from user data
func (l *Lexer) readIdent(startPos int) (Token, error) {
	end := l.pos
	for end < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[end:])
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$') {
			break
		}
		end += size
	}
	value := l.input[l.pos:end]
	for l.pos < end {
		l.advance()
	}

	switch value {
	case "and":
		return Token{Type: TOKEN_AND, Value: value, Pos: startPos}, nil
	case "or":
		return Token{Type: TOKEN_OR, Value: value, Pos: startPos}, nil
	case "not":
		return Token{Type: TOKEN_NOT, Value: value, Pos: startPos}, nil
	case "true", "True":
		return Token{Type: TOKEN_TRUE, Value: value, Pos: startPos}, nil
	case "false", "False":
		return Token{Type: TOKEN_FALSE, Value: value, Pos: startPos}, nil
	case "null", "None", "undefined":
		return Token{Type: TOKEN_NULL, Value: value, Pos: startPos}, nil
	}

	return Token{Type: TOKEN_IDENT, Value: value, Pos: startPos}, nil
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLetter(r) || r == '_' || r == '$'
}
