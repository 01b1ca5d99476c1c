// Package morkparse provides a lexer, parser, and syntax tree for the Mork
// 1.4 structured-text format used by Mozilla mail summary files, address
// books, and history databases.
//
// The parser only recovers the file's syntactic shape. Alias indirection,
// namespace resolution, escape decoding, and incremental redefinition are
// the logical database layer's job (internal/morkdb); symbolic references
// and escape sequences are therefore preserved verbatim in the tree.
package morkparse

import "fmt"

// TokenType represents the type of a lexical token.
type TokenType int

// TOKEN_EOF and friends enumerate all token types produced by the lexer.
const (
	TOKEN_EOF     TokenType = iota // end of input
	TOKEN_ILLEGAL                  // unexpected character

	TOKEN_NAME // hex id, scope name, or literal column name

	TOKEN_LANGLE   // <
	TOKEN_RANGLE   // >
	TOKEN_LBRACKET // [
	TOKEN_RBRACKET // ]
	TOKEN_LBRACE   // {
	TOKEN_RBRACE   // }
	TOKEN_LPAREN   // (
	TOKEN_RPAREN   // )
	TOKEN_CARET    // ^
	TOKEN_COLON    // :
	TOKEN_EQ       // =
	TOKEN_MINUS    // - (cut/truncate update marker)
	TOKEN_PLUS     // + (add update marker)
	TOKEN_BANG     // ! (row update marker)
	TOKEN_AT       // @ (group delimiter)
)

// Token is a single lexical token with its byte offset in the input.
type Token struct {
	Type    TokenType
	Literal string
	Offset  int
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
}

var tokenNames = map[TokenType]string{
	TOKEN_EOF:      "EOF",
	TOKEN_ILLEGAL:  "ILLEGAL",
	TOKEN_NAME:     "NAME",
	TOKEN_LANGLE:   "<",
	TOKEN_RANGLE:   ">",
	TOKEN_LBRACKET: "[",
	TOKEN_RBRACKET: "]",
	TOKEN_LBRACE:   "{",
	TOKEN_RBRACE:   "}",
	TOKEN_LPAREN:   "(",
	TOKEN_RPAREN:   ")",
	TOKEN_CARET:    "^",
	TOKEN_COLON:    ":",
	TOKEN_EQ:       "=",
	TOKEN_MINUS:    "-",
	TOKEN_PLUS:     "+",
	TOKEN_BANG:     "!",
	TOKEN_AT:       "@",
}

// String returns the token type name.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}
