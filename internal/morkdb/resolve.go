package morkdb

import (
	"fmt"

	"mork-export/internal/morkparse"
)

// dictDeref resolves a symbolic reference to its literal string. The
// reference's own namespace, if absent, falls back to the given default
// ("c" everywhere except cell values, which default to "a").
func (db *Database) dictDeref(ref *morkparse.ObjectRef, defaultNamespace string) (string, error) {
	id, ns, ok, err := db.dissectID(ref.ID)
	if err != nil {
		return "", err
	}
	if !ok {
		ns = defaultNamespace
	}
	return db.dicts.Get(ns, id)
}

// dissectID splits an identifier into its raw id and namespace. The scope
// may be absent (ok=false; the caller supplies a context-specific default),
// a literal name, or a symbolic reference — "my namespace is whatever this
// alias currently means in dictionary c" — which recurses through dictDeref
// since the reference's inner identifier can itself carry a symbolic scope.
func (db *Database) dissectID(oid *morkparse.ObjectID) (id, namespace string, ok bool, err error) {
	switch scope := oid.Scope.(type) {
	case nil:
		return oid.ID, "", false, nil
	case morkparse.Text:
		return oid.ID, string(scope), true, nil
	case *morkparse.ObjectRef:
		ns, err := db.dictDeref(scope, "c")
		if err != nil {
			return "", "", false, err
		}
		return oid.ID, ns, true, nil
	default:
		return "", "", false, fmt.Errorf("unexpected scope node %T", oid.Scope)
	}
}

// inflateCell resolves a cell to its (column, value) strings. Column and
// value are each independently literal (escape-decoded directly) or
// symbolic; column references default to namespace "c", value references
// to namespace "a".
func (db *Database) inflateCell(cell *morkparse.Cell) (column, value string, err error) {
	switch col := cell.Column.(type) {
	case morkparse.Text:
		column = Unescape(string(col))
	case *morkparse.ObjectRef:
		column, err = db.dictDeref(col, "c")
		if err != nil {
			return "", "", err
		}
	default:
		return "", "", fmt.Errorf("cell without column")
	}

	switch val := cell.Value.(type) {
	case nil:
		value = ""
	case morkparse.Text:
		value = Unescape(string(val))
	case *morkparse.ObjectRef:
		value, err = db.dictDeref(val, "a")
		if err != nil {
			return "", "", err
		}
	}
	return column, value, nil
}
