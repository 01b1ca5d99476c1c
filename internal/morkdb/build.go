package morkdb

import (
	"fmt"
	"log/slog"

	"mork-export/internal/morkparse"
)

// Build resolves a parsed Mork file into a logical database. Top-level
// items are processed strictly in source order: dicts merge into the
// dictionary store, rows and tables resolve their references against what
// is already defined and write into the object stores. Unrecognized item
// kinds (transaction groups) are skipped with a diagnostic.
//
// Structural corruption — an undefined alias, a missing namespace, a table
// referencing a row not yet built, more than one meta-dict — aborts the
// build; the partial database is not returned. Cut and truncation markers
// are recognized and diagnosed but never applied: the most recent untrimmed
// values stand, since the purpose is lossless read-only extraction rather
// than edit replay.
func Build(file *morkparse.File) (*Database, error) {
	db := NewDatabase()

	for _, item := range file.Items {
		var err error
		switch it := item.(type) {
		case *morkparse.Dict:
			err = db.buildDict(it)
		case *morkparse.Row:
			_, err = db.buildRow(it, "", false)
		case *morkparse.Table:
			err = db.buildTable(it)
		default:
			slog.Warn("skipping unrecognized top-level item", "kind", fmt.Sprintf("%T", item))
		}
		if err != nil {
			return nil, fmt.Errorf("cannot interpret file: %w", err)
		}
	}
	return db, nil
}

// buildDict merges one dict item into the dictionary store. The effective
// namespace defaults to "a" and can be redirected by an "a" cell in the
// dict's single meta-dict.
func (db *Database) buildDict(d *morkparse.Dict) error {
	entries := make(map[string]string, len(d.Cells))
	for _, cell := range d.Cells {
		alias, ok := cell.Column.(morkparse.Text)
		if !ok {
			slog.Warn("skipping dict alias with symbolic id")
			continue
		}
		value, ok := cell.Value.(morkparse.Text)
		if !ok {
			slog.Warn("skipping dict alias with symbolic value", "alias", string(alias))
			continue
		}
		if cell.Cut {
			slog.Warn("ignoring dict cell 'cut' attribute", "alias", string(alias))
		}
		entries[string(alias)] = Unescape(string(value))
	}

	namespace := "a"
	if len(d.Meta) > 1 {
		return fmt.Errorf("dict: %w", ErrMetaDict)
	}
	if len(d.Meta) == 1 {
		for _, cell := range d.Meta[0].Cells {
			col, isText := cell.Column.(morkparse.Text)
			if !isText || string(col) != "a" {
				continue
			}
			if v, isText := cell.Value.(morkparse.Text); isText {
				namespace = string(v)
			} else {
				slog.Warn("ignoring symbolic namespace in meta-dict")
			}
			break
		}
	}

	db.dicts.Merge(namespace, entries)
	return nil
}

// buildRow resolves one row and writes it into the row store, replacing any
// prior row at the same key. The default namespace is supplied by an
// enclosing table for inline rows; top-level rows have none and must carry
// their own.
func (db *Database) buildRow(r *morkparse.Row, defaultNamespace string, haveDefault bool) (Key, error) {
	cells := make(map[string]string, len(r.Cells))
	for _, cell := range r.Cells {
		column, value, err := db.inflateCell(cell)
		if err != nil {
			return Key{}, fmt.Errorf("row %q: %w", r.ID.ID, err)
		}
		if cell.Cut {
			slog.Warn("ignoring cell 'cut' attribute", "row", r.ID.ID, "column", column)
		}
		cells[column] = value
	}

	id, namespace, ok, err := db.dissectID(r.ID)
	if err != nil {
		return Key{}, fmt.Errorf("row %q: %w", r.ID.ID, err)
	}
	if !ok {
		if !haveDefault {
			return Key{}, fmt.Errorf("row %q: %w", id, ErrNoNamespace)
		}
		namespace = defaultNamespace
	}

	if r.Trunc {
		slog.Warn("ignoring row 'truncated' attribute", "row", id)
	}
	if r.Cut {
		slog.Warn("ignoring row 'cut' attribute", "row", id)
	}
	if len(r.Meta) > 0 {
		slog.Warn("ignoring meta-row", "row", id)
	}

	key := Key{Namespace: namespace, ID: id}
	db.rows.put(key, &Row{Key: key, cells: cells})
	return key, nil
}

// buildTable resolves one table and writes it into the table store,
// replacing any prior table at the same key. Tables inherit no namespace
// from context; an unresolvable namespace is a hard failure. Bare row
// references default to the table's namespace and must already be built —
// referenced rows precede their table in processing order.
func (db *Database) buildTable(t *morkparse.Table) error {
	id, namespace, ok, err := db.dissectID(t.ID)
	if err != nil {
		return fmt.Errorf("table %q: %w", t.ID.ID, err)
	}
	if !ok {
		return fmt.Errorf("table %q: %w", id, ErrNoNamespace)
	}

	members := make([]Key, 0, len(t.Items))
	for _, item := range t.Items {
		switch it := item.(type) {
		case *morkparse.RowRef:
			rowID, rowNS, ok, err := db.dissectID(it.ID)
			if err != nil {
				return fmt.Errorf("table %q: %w", id, err)
			}
			if !ok {
				rowNS = namespace
			}
			key := Key{Namespace: rowNS, ID: rowID}
			if _, exists := db.rows.get(key); !exists {
				return fmt.Errorf("table %q references row %s:%s: %w", id, rowNS, rowID, ErrRowNotFound)
			}
			if it.Cut {
				slog.Warn("ignoring row reference 'cut' attribute", "table", id, "row", rowID)
			}
			members = append(members, key)
		case *morkparse.Row:
			key, err := db.buildRow(it, namespace, true)
			if err != nil {
				return fmt.Errorf("table %q: %w", id, err)
			}
			members = append(members, key)
		}
	}

	if t.Trunc {
		slog.Warn("ignoring table 'truncated' attribute", "table", id)
	}
	if len(t.Meta) > 0 {
		slog.Warn("ignoring meta-table", "table", id)
	}

	key := Key{Namespace: namespace, ID: id}
	db.tables.put(key, &Table{Key: key, members: members})
	return nil
}
