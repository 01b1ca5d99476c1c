package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"mork-export/internal/morkdb"
)

type csvWriter struct{}

func (*csvWriter) Name() string { return "csv" }
func (*csvWriter) Ext() string  { return "csv" }

// Write renders one CSV section per table, each introduced by a
// `# table namespace:id` comment line. The header row is the union of the
// section's columns, sorted; rows referenced by no table form a final
// `# rows` section.
func (*csvWriter) Write(db *morkdb.Database, dest string) error {
	w, closer, err := openDest(dest)
	if err != nil {
		return err
	}
	defer func() {
		_ = closer()
	}()

	referenced := make(map[morkdb.Key]bool)
	for _, t := range db.Tables() {
		rows := db.TableRows(t)
		for _, row := range rows {
			referenced[row.Key] = true
		}
		header := fmt.Sprintf("# table %s:%s\n", t.Namespace, t.ID)
		if err := writeCSVSection(w, header, rows); err != nil {
			return err
		}
	}

	var orphans []*morkdb.Row
	for _, row := range db.Rows() {
		if !referenced[row.Key] {
			orphans = append(orphans, row)
		}
	}
	if len(orphans) > 0 {
		if err := writeCSVSection(w, "# rows\n", orphans); err != nil {
			return err
		}
	}
	return nil
}

func writeCSVSection(w io.Writer, header string, rows []*morkdb.Row) error {
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	columns := unionColumns(rows)
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"namespace", "id"}, columns...)); err != nil {
		return err
	}
	record := make([]string, 0, len(columns)+2)
	for _, row := range rows {
		record = record[:0]
		record = append(record, row.Namespace, row.ID)
		for _, col := range columns {
			v, _ := row.Value(col)
			record = append(record, v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func unionColumns(rows []*morkdb.Row) []string {
	seen := make(map[string]bool)
	var out []string
	for _, row := range rows {
		for _, col := range row.Columns() {
			if !seen[col] {
				seen[col] = true
				out = append(out, col)
			}
		}
	}
	sort.Strings(out)
	return out
}
