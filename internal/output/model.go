package output

import (
	"mork-export/internal/morkdb"
)

// Document is the export shape shared by the JSON, XML, and YAML writers.
// Cells are a sorted list rather than a map so every format renders
// deterministically.
type Document struct {
	Source string     `json:"source,omitempty" yaml:"source,omitempty" xml:"source,attr,omitempty"`
	Tables []TableDoc `json:"tables" yaml:"tables" xml:"table"`
	Rows   []RowDoc   `json:"rows,omitempty" yaml:"rows,omitempty" xml:"row,omitempty"`
}

// TableDoc is one table with its member rows materialized in body order.
type TableDoc struct {
	Namespace string   `json:"namespace" yaml:"namespace" xml:"namespace,attr"`
	ID        string   `json:"id" yaml:"id" xml:"id,attr"`
	Rows      []RowDoc `json:"rows" yaml:"rows" xml:"row"`
}

// RowDoc is one row with its cells sorted by column.
type RowDoc struct {
	Namespace string    `json:"namespace" yaml:"namespace" xml:"namespace,attr"`
	ID        string    `json:"id" yaml:"id" xml:"id,attr"`
	Cells     []CellDoc `json:"cells" yaml:"cells" xml:"cell"`
}

// CellDoc is one (column, value) pair.
type CellDoc struct {
	Column string `json:"column" yaml:"column" xml:"column,attr"`
	Value  string `json:"value" yaml:"value" xml:",chardata"`
}

// BuildDocument flattens a database into the export shape. Rows referenced
// by no table end up in the top-level Rows list so nothing is lost.
func BuildDocument(db *morkdb.Database, source string) *Document {
	doc := &Document{Source: source}

	referenced := make(map[morkdb.Key]bool)
	for _, t := range db.Tables() {
		td := TableDoc{Namespace: t.Namespace, ID: t.ID}
		for _, row := range db.TableRows(t) {
			referenced[row.Key] = true
			td.Rows = append(td.Rows, rowDoc(row))
		}
		doc.Tables = append(doc.Tables, td)
	}

	for _, row := range db.Rows() {
		if !referenced[row.Key] {
			doc.Rows = append(doc.Rows, rowDoc(row))
		}
	}
	return doc
}

func rowDoc(row *morkdb.Row) RowDoc {
	rd := RowDoc{Namespace: row.Namespace, ID: row.ID}
	for _, column := range row.Columns() {
		value, _ := row.Value(column)
		rd.Cells = append(rd.Cells, CellDoc{Column: column, Value: value})
	}
	return rd
}
