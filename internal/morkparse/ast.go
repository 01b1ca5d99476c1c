package morkparse

// === Syntax Tree Nodes ===

// Node is the base interface for all syntax nodes.
type Node interface {
	node()
}

// Item is a marker interface for top-level items in a Mork file.
type Item interface {
	Node
	itemNode()
}

// Value is a marker interface for the two forms a cell column, cell value,
// or identifier scope can take: literal text or a symbolic reference.
type Value interface {
	Node
	valueNode()
}

// Text is a literal text value. Escape sequences are kept verbatim; the
// logical database layer decodes them.
type Text string

func (Text) node()      {}
func (Text) valueNode() {}

// ObjectID is an identifier with an optional scope. The scope is either
// literal (Text) or symbolic (*ObjectRef), or nil when the source carried
// no scope at all.
type ObjectID struct {
	ID    string
	Scope Value // Text, *ObjectRef, or nil
}

func (*ObjectID) node() {}

// ObjectRef is a symbolic reference to a dictionary alias, written ^id in
// the source.
type ObjectRef struct {
	ID *ObjectID
}

func (*ObjectRef) node()      {}
func (*ObjectRef) valueNode() {}

// Cell is a (column, value) pair. Column is Text or *ObjectRef; Value is
// Text (possibly empty) or *ObjectRef. Cut marks the cell with the
// record-edit minus prefix.
type Cell struct {
	Column Value
	Value  Value
	Cut    bool
}

func (*Cell) node() {}

// Dict is a top-level dictionary item: `< <(a=c)> (id=value)... >`.
// Meta holds at most one well-formed meta-dict per the format, but the
// parser preserves every one it sees so the builder can reject extras.
type Dict struct {
	Cells []*Cell
	Meta  []*MetaDict
}

func (*Dict) node()     {}
func (*Dict) itemNode() {}

// MetaDict is the auxiliary annotation inside a Dict, `<( cell )*>`.
type MetaDict struct {
	Cells []*Cell
}

func (*MetaDict) node() {}

// Row is a row item: `[ id (cell)... ]`. Rows appear both at top level and
// inline inside tables.
type Row struct {
	ID    *ObjectID
	Cells []*Cell
	Meta  []*MetaRow
	Trunc bool // leading ! update marker
	Cut   bool // leading - on the row id
}

func (*Row) node()     {}
func (*Row) itemNode() {}

func (*Row) tableItemNode() {}

// MetaRow is the auxiliary annotation inside a Row, `[ cell* ]` nested.
type MetaRow struct {
	Cells []*Cell
}

func (*MetaRow) node() {}

// TableItem is a marker interface for table body entries: an inline *Row or
// a bare *RowRef identifier.
type TableItem interface {
	Node
	tableItemNode()
}

// RowRef is a bare row identifier inside a table body.
type RowRef struct {
	ID  *ObjectID
	Cut bool // leading - update marker
}

func (*RowRef) node()          {}
func (*RowRef) tableItemNode() {}

// Table is a table item: `{ id [row]... 1:ns... }`.
type Table struct {
	ID    *ObjectID
	Items []TableItem
	Meta  []*MetaTable
	Trunc bool // leading - after the opening brace
}

func (*Table) node()     {}
func (*Table) itemNode() {}

// MetaTable is the auxiliary annotation inside a Table, `{ cell* }` nested.
type MetaTable struct {
	Cells []*Cell
}

func (*MetaTable) node() {}

// Group is a transaction group, `@$${id{@ ... @$$}id}@`. The content is kept
// raw; the logical database builder skips groups with a diagnostic.
type Group struct {
	ID  string
	Raw string
}

func (*Group) node()     {}
func (*Group) itemNode() {}

// File is the root node: the ordered sequence of top-level items.
type File struct {
	Items []Item
}

func (*File) node() {}
