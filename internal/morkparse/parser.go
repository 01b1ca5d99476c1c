package morkparse

import (
	"fmt"
	"strings"
)

// ParseError is a syntax error with the byte offset where it was detected.
type ParseError struct {
	Message string
	Offset  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Message, e.Offset)
}

// Parser parses Mork text into a syntax tree.
type Parser struct {
	lexer  *Lexer
	tok    Token // current token
	errors []error
}

// NewParser creates a new parser for the given input.
func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	p.next()
	return p
}

// Parse parses a whole Mork file and returns the syntax tree. The returned
// error is the first syntax error encountered; the tree contains every item
// parsed before it.
func Parse(input string) (*File, error) {
	if strings.TrimSpace(input) == "" {
		return nil, fmt.Errorf("empty input")
	}

	p := NewParser(input)
	file := p.parseFile()
	if len(p.errors) > 0 {
		return file, p.errors[0]
	}
	return file, nil
}

// next advances to the next token. Cell values and group bodies are read
// through the lexer's mode helpers, never through next.
func (p *Parser) next() {
	p.tok = p.lexer.NextToken()
}

func (p *Parser) errorf(offset int, format string, args ...any) {
	p.errors = append(p.errors, &ParseError{
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
	})
}

// expect consumes a token of the given type, recording an error otherwise.
func (p *Parser) expect(t TokenType) bool {
	if p.tok.Type != t {
		p.errorf(p.tok.Offset, "expected %s, found %s", t, p.tok)
		return false
	}
	p.next()
	return true
}

func (p *Parser) parseFile() *File {
	file := &File{}
	for p.tok.Type != TOKEN_EOF {
		switch p.tok.Type {
		case TOKEN_LANGLE:
			file.Items = append(file.Items, p.parseDict())
		case TOKEN_LBRACKET:
			file.Items = append(file.Items, p.parseRow())
		case TOKEN_LBRACE:
			file.Items = append(file.Items, p.parseTable())
		case TOKEN_AT:
			if g := p.parseGroup(); g != nil {
				file.Items = append(file.Items, g)
			}
		default:
			p.errorf(p.tok.Offset, "unexpected top-level token %s", p.tok)
			p.next()
		}
	}
	return file
}

// parseDict parses `< metadict? alias* >`.
func (p *Parser) parseDict() *Dict {
	d := &Dict{}
	p.next() // consume '<'

	for {
		switch p.tok.Type {
		case TOKEN_LPAREN:
			d.Cells = append(d.Cells, p.parseCell(false))
		case TOKEN_MINUS:
			p.next()
			if p.tok.Type == TOKEN_LPAREN {
				d.Cells = append(d.Cells, p.parseCell(true))
			} else {
				p.errorf(p.tok.Offset, "expected cell after '-', found %s", p.tok)
			}
		case TOKEN_LANGLE:
			d.Meta = append(d.Meta, p.parseMetaDict())
		case TOKEN_RANGLE:
			p.next()
			return d
		case TOKEN_EOF:
			p.errorf(p.tok.Offset, "unterminated dict")
			return d
		default:
			p.errorf(p.tok.Offset, "unexpected token %s in dict", p.tok)
			p.next()
		}
	}
}

// parseMetaDict parses the `<( cell )*>` annotation inside a dict.
func (p *Parser) parseMetaDict() *MetaDict {
	m := &MetaDict{}
	p.next() // consume '<'

	for {
		switch p.tok.Type {
		case TOKEN_LPAREN:
			m.Cells = append(m.Cells, p.parseCell(false))
		case TOKEN_RANGLE:
			p.next()
			return m
		case TOKEN_EOF:
			p.errorf(p.tok.Offset, "unterminated meta-dict")
			return m
		default:
			p.errorf(p.tok.Offset, "unexpected token %s in meta-dict", p.tok)
			p.next()
		}
	}
}

// parseCell parses `( column slot? )` with the current token on '('.
// The column is a literal name or ^ref; the slot is =value or ^ref.
func (p *Parser) parseCell(cut bool) *Cell {
	c := &Cell{Cut: cut}
	p.next() // consume '('

	if p.tok.Type == TOKEN_MINUS {
		c.Cut = true
		p.next()
	}

	switch p.tok.Type {
	case TOKEN_NAME:
		c.Column = Text(p.tok.Literal)
		p.next()
	case TOKEN_CARET:
		c.Column = p.parseRef()
	default:
		p.errorf(p.tok.Offset, "expected cell column, found %s", p.tok)
	}

	switch p.tok.Type {
	case TOKEN_EQ:
		// The lexer cursor sits just past '='; read the raw value before
		// fetching another token.
		c.Value = Text(p.lexer.ReadValueText())
		p.next()
	case TOKEN_CARET:
		c.Value = p.parseRef()
	case TOKEN_RPAREN:
		c.Value = Text("")
	default:
		p.errorf(p.tok.Offset, "expected cell value, found %s", p.tok)
	}

	p.expect(TOKEN_RPAREN)
	return c
}

// parseRef parses `^id` with an optional `:scope`, current token on '^'.
func (p *Parser) parseRef() *ObjectRef {
	p.next() // consume '^'
	return &ObjectRef{ID: p.parseObjectID()}
}

// parseObjectID parses `id` with an optional `:scope`, where scope is a
// literal name or itself a ^ref.
func (p *Parser) parseObjectID() *ObjectID {
	oid := &ObjectID{}

	if p.tok.Type != TOKEN_NAME {
		p.errorf(p.tok.Offset, "expected object id, found %s", p.tok)
		return oid
	}
	oid.ID = p.tok.Literal
	p.next()

	if p.tok.Type == TOKEN_COLON {
		p.next()
		switch p.tok.Type {
		case TOKEN_NAME:
			oid.Scope = Text(p.tok.Literal)
			p.next()
		case TOKEN_CARET:
			oid.Scope = p.parseRef()
		default:
			p.errorf(p.tok.Offset, "expected scope after ':', found %s", p.tok)
		}
	}
	return oid
}

// parseRow parses `[ id item* ]` with the current token on '['.
func (p *Parser) parseRow() *Row {
	r := &Row{}
	p.next() // consume '['

	// Update markers before the row id.
	for {
		if p.tok.Type == TOKEN_MINUS {
			r.Cut = true
			p.next()
			continue
		}
		if p.tok.Type == TOKEN_BANG {
			r.Trunc = true
			p.next()
			continue
		}
		break
	}

	r.ID = p.parseObjectID()

	for {
		switch p.tok.Type {
		case TOKEN_LPAREN:
			r.Cells = append(r.Cells, p.parseCell(false))
		case TOKEN_MINUS:
			p.next()
			if p.tok.Type == TOKEN_LPAREN {
				r.Cells = append(r.Cells, p.parseCell(true))
			} else {
				p.errorf(p.tok.Offset, "expected cell after '-', found %s", p.tok)
			}
		case TOKEN_LBRACKET:
			r.Meta = append(r.Meta, p.parseMetaRow())
		case TOKEN_RBRACKET:
			p.next()
			return r
		case TOKEN_EOF:
			p.errorf(p.tok.Offset, "unterminated row")
			return r
		default:
			p.errorf(p.tok.Offset, "unexpected token %s in row", p.tok)
			p.next()
		}
	}
}

// parseMetaRow parses the `[ cell* ]` annotation nested inside a row.
func (p *Parser) parseMetaRow() *MetaRow {
	m := &MetaRow{}
	p.next() // consume '['

	for {
		switch p.tok.Type {
		case TOKEN_LPAREN:
			m.Cells = append(m.Cells, p.parseCell(false))
		case TOKEN_RBRACKET:
			p.next()
			return m
		case TOKEN_EOF:
			p.errorf(p.tok.Offset, "unterminated meta-row")
			return m
		default:
			p.errorf(p.tok.Offset, "unexpected token %s in meta-row", p.tok)
			p.next()
		}
	}
}

// parseTable parses `{ id item* }` with the current token on '{'.
func (p *Parser) parseTable() *Table {
	t := &Table{}
	p.next() // consume '{'

	if p.tok.Type == TOKEN_MINUS {
		t.Trunc = true
		p.next()
	}

	t.ID = p.parseObjectID()

	for {
		switch p.tok.Type {
		case TOKEN_LBRACE:
			t.Meta = append(t.Meta, p.parseMetaTable())
		case TOKEN_LBRACKET:
			t.Items = append(t.Items, p.parseRow())
		case TOKEN_NAME:
			t.Items = append(t.Items, &RowRef{ID: p.parseObjectID()})
		case TOKEN_MINUS:
			p.next()
			switch p.tok.Type {
			case TOKEN_NAME:
				t.Items = append(t.Items, &RowRef{ID: p.parseObjectID(), Cut: true})
			case TOKEN_LBRACKET:
				row := p.parseRow()
				row.Cut = true
				t.Items = append(t.Items, row)
			default:
				p.errorf(p.tok.Offset, "expected row after '-', found %s", p.tok)
			}
		case TOKEN_PLUS:
			// '+' re-adds a row inside a group; the reference stands on its own.
			p.next()
		case TOKEN_RBRACE:
			p.next()
			return t
		case TOKEN_EOF:
			p.errorf(p.tok.Offset, "unterminated table")
			return t
		default:
			p.errorf(p.tok.Offset, "unexpected token %s in table", p.tok)
			p.next()
		}
	}
}

// parseMetaTable parses the `{ cell* }` annotation nested inside a table.
func (p *Parser) parseMetaTable() *MetaTable {
	m := &MetaTable{}
	p.next() // consume '{'

	for {
		switch p.tok.Type {
		case TOKEN_LPAREN:
			m.Cells = append(m.Cells, p.parseCell(false))
		case TOKEN_RBRACE:
			p.next()
			return m
		case TOKEN_EOF:
			p.errorf(p.tok.Offset, "unterminated meta-table")
			return m
		default:
			p.errorf(p.tok.Offset, "unexpected token %s in meta-table", p.tok)
			p.next()
		}
	}
}

// parseGroup parses a transaction group with the current token on '@'.
func (p *Parser) parseGroup() *Group {
	offset := p.tok.Offset
	id, raw, err := p.lexer.ReadGroup()
	if err != nil {
		p.errorf(offset, "%v", err)
		p.next()
		return nil
	}
	p.next()
	return &Group{ID: id, Raw: raw}
}
