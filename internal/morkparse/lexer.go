package morkparse

import (
	"fmt"
	"strings"
)

// Lexer tokenizes Mork input.
//
// Mork is not fully context-free: the text of a cell value runs from '=' to
// the next unescaped ')', and transaction groups are delimited by multi-byte
// '@$${' markers. The parser drives those modes through ReadValueText and
// ReadGroup; NextToken covers the structural grammar.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // NUL = EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// NextToken returns the next structural token from the input.
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	tok := Token{Offset: l.pos}

	switch l.ch {
	case 0:
		tok.Type = TOKEN_EOF
		tok.Literal = ""
		return tok
	case '<':
		tok.Type, tok.Literal = TOKEN_LANGLE, "<"
	case '>':
		tok.Type, tok.Literal = TOKEN_RANGLE, ">"
	case '[':
		tok.Type, tok.Literal = TOKEN_LBRACKET, "["
	case ']':
		tok.Type, tok.Literal = TOKEN_RBRACKET, "]"
	case '{':
		tok.Type, tok.Literal = TOKEN_LBRACE, "{"
	case '}':
		tok.Type, tok.Literal = TOKEN_RBRACE, "}"
	case '(':
		tok.Type, tok.Literal = TOKEN_LPAREN, "("
	case ')':
		tok.Type, tok.Literal = TOKEN_RPAREN, ")"
	case '^':
		tok.Type, tok.Literal = TOKEN_CARET, "^"
	case ':':
		tok.Type, tok.Literal = TOKEN_COLON, ":"
	case '=':
		tok.Type, tok.Literal = TOKEN_EQ, "="
	case '-':
		tok.Type, tok.Literal = TOKEN_MINUS, "-"
	case '+':
		tok.Type, tok.Literal = TOKEN_PLUS, "+"
	case '!':
		tok.Type, tok.Literal = TOKEN_BANG, "!"
	case '@':
		tok.Type, tok.Literal = TOKEN_AT, "@"
	default:
		if isNameStart(l.ch) {
			tok.Type = TOKEN_NAME
			tok.Literal = l.readName()
			return tok
		}
		tok.Type = TOKEN_ILLEGAL
		tok.Literal = string(l.ch)
	}

	l.readChar()
	return tok
}

// readName reads an identifier: a hex object id, a scope name, or a literal
// column name.
func (l *Lexer) readName() string {
	start := l.pos
	for isNameChar(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// ReadValueText reads raw cell value text up to (not including) the next
// unescaped ')'. Escape sequences are copied verbatim; decoding belongs to
// the logical database layer. Called by the parser immediately after the
// '=' token, before any further NextToken call.
func (l *Lexer) ReadValueText() string {
	start := l.pos
	for l.ch != 0 && l.ch != ')' {
		switch l.ch {
		case '\\':
			l.readChar() // keep the escaped char, whatever it is
			if l.ch != 0 {
				l.readChar()
			}
		case '$':
			l.readChar()
			// $HH: skip up to two hex digits
			for i := 0; i < 2 && isHexDigit(l.ch); i++ {
				l.readChar()
			}
		default:
			l.readChar()
		}
	}
	return l.input[start:l.pos]
}

// ReadGroup consumes a transaction group after the parser has seen the
// opening '@'. It returns the group id and the raw content between the
// '{@' and '@$$}' markers.
func (l *Lexer) ReadGroup() (id, raw string, err error) {
	if !l.consumeLiteral("$${") {
		return "", "", fmt.Errorf("malformed group start at offset %d", l.pos)
	}

	idStart := l.pos
	for l.ch != 0 && l.ch != '{' {
		l.readChar()
	}
	id = l.input[idStart:l.pos]
	if !l.consumeLiteral("{@") {
		return "", "", fmt.Errorf("malformed group %q: missing '{@'", id)
	}

	end := strings.Index(l.input[l.pos:], "@$$}")
	if end < 0 {
		return "", "", fmt.Errorf("unterminated group %q", id)
	}
	raw = l.input[l.pos : l.pos+end]
	for i := 0; i < end+len("@$$}"); i++ {
		l.readChar()
	}

	// Trailing id and '}@'; groups aborted mid-write carry a '~abort~'
	// marker here, which we pass over without applying.
	for l.ch != 0 && l.ch != '@' {
		l.readChar()
	}
	if l.ch == '@' {
		l.readChar()
	}
	return id, raw, nil
}

// consumeLiteral advances past the expected literal, returning false if the
// input does not match.
func (l *Lexer) consumeLiteral(lit string) bool {
	for i := 0; i < len(lit); i++ {
		if l.ch != lit[i] {
			return false
		}
		l.readChar()
	}
	return true
}

// skipWhitespaceAndComments skips whitespace and '//' line comments,
// including the '// <!-- <mdb:mork:z v="1.4"/> -->' magic header.
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != 0 && l.ch != '\n' {
				l.readChar()
			}
		default:
			return
		}
	}
}

func isNameStart(ch byte) bool {
	return ch == '_' ||
		('a' <= ch && ch <= 'z') ||
		('A' <= ch && ch <= 'Z') ||
		('0' <= ch && ch <= '9')
}

// Literal column names may carry escape sequences; '$' and '\' stay part
// of the name and are decoded downstream.
func isNameChar(ch byte) bool {
	return isNameStart(ch) || ch == '-' || ch == '$' || ch == '\\'
}

func isHexDigit(ch byte) bool {
	return ('0' <= ch && ch <= '9') ||
		('a' <= ch && ch <= 'f') ||
		('A' <= ch && ch <= 'F')
}
