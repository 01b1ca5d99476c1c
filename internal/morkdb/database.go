// Package morkdb resolves a parsed Mork syntax tree into a logical
// database of namespaced dictionaries, rows, and tables.
//
// This is where the format's deferred meaning is pinned down: identifiers
// may be literal or symbolic aliases resolved through per-namespace
// dictionaries, a namespace can itself be a symbolic reference, the same
// row or table may be redefined incrementally across the file, and value
// escaping is inverted before data is usable. Items are processed strictly
// in file order, so every reference resolves against the dictionaries and
// rows defined before it.
//
// Construction is single-threaded and the resulting Database is read-only
// to consumers, except for the filter pipeline's sanctioned in-place cell
// rewrite (Row.Set). A fully built Database is safe for concurrent readers.
package morkdb

import (
	"errors"
	"sort"
)

// Structural corruption aborts the whole build: a partially resolved
// database can silently mis-attribute data, so none of these is locally
// recoverable.
var (
	// ErrUndefinedAlias is a dictionary lookup of an undefined namespace or alias.
	ErrUndefinedAlias = errors.New("undefined dictionary alias")
	// ErrNoNamespace is a row or table whose namespace cannot be determined.
	ErrNoNamespace = errors.New("no namespace determined")
	// ErrRowNotFound is a table referencing a row not yet built.
	ErrRowNotFound = errors.New("row not defined before table reference")
	// ErrMetaDict is a dict carrying more than one meta-dict.
	ErrMetaDict = errors.New("multiple meta-dicts")
)

// Row is one logical row: a column → value mapping keyed by (namespace, id).
// A later definition of the same key replaces the row wholesale; columns
// are never merged across definitions.
type Row struct {
	Key
	cells map[string]string
}

// Columns returns the row's column names, sorted.
func (r *Row) Columns() []string {
	out := make([]string, 0, len(r.cells))
	for col := range r.cells {
		out = append(out, col)
	}
	sort.Strings(out)
	return out
}

// Value returns the value stored under a column.
func (r *Row) Value(column string) (string, bool) {
	v, ok := r.cells[column]
	return v, ok
}

// Len returns the number of cells.
func (r *Row) Len() int {
	return len(r.cells)
}

// Set rewrites a cell value in place. This is the single sanctioned
// post-build mutation, reserved for the field-conversion filter pipeline;
// it rewrites existing data and never adds columns.
func (r *Row) Set(column, value string) {
	if _, ok := r.cells[column]; ok {
		r.cells[column] = value
	}
}

// Table is an ordered sequence of row references keyed by (namespace, id).
// Members are non-owning keys into the row store, so rewrites of a shared
// row stay visible through every table referencing it.
type Table struct {
	Key
	members []Key
}

// Members returns the table's row keys in body order.
func (t *Table) Members() []Key {
	out := make([]Key, len(t.members))
	copy(out, t.members)
	return out
}

// Len returns the number of member rows.
func (t *Table) Len() int {
	return len(t.members)
}

// Database is the root aggregate: one dictionary store and the row and
// table object stores. Build once with Build; read-only thereafter.
type Database struct {
	dicts  *DictStore
	rows   *store[*Row]
	tables *store[*Table]
}

// NewDatabase creates an empty database with the ambient dictionaries.
func NewDatabase() *Database {
	return &Database{
		dicts:  NewDictStore(),
		rows:   newStore[*Row](),
		tables: newStore[*Table](),
	}
}

// Dicts returns the dictionary store.
func (db *Database) Dicts() *DictStore {
	return db.dicts
}

// Row looks up a row by namespace and id.
func (db *Database) Row(namespace, id string) (*Row, bool) {
	return db.rows.get(Key{Namespace: namespace, ID: id})
}

// Table looks up a table by namespace and id.
func (db *Database) Table(namespace, id string) (*Table, bool) {
	return db.tables.get(Key{Namespace: namespace, ID: id})
}

// Rows enumerates all rows in first-definition order.
func (db *Database) Rows() []*Row {
	return db.rows.all()
}

// Tables enumerates all tables in first-definition order.
func (db *Database) Tables() []*Table {
	return db.tables.all()
}

// TableRows resolves a table's member keys against the row store, in body
// order. Keys are resolved lazily so that later row redefinitions and
// post-build cell rewrites are visible here.
func (db *Database) TableRows(t *Table) []*Row {
	out := make([]*Row, 0, len(t.members))
	for _, k := range t.members {
		if row, ok := db.rows.get(k); ok {
			out = append(out, row)
		}
	}
	return out
}
