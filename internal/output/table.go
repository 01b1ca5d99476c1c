package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"mork-export/internal/morkdb"
)

// tableWriter renders aligned text tables, one section per mork table,
// clamping cell widths to the terminal when writing to one.
type tableWriter struct{}

func (*tableWriter) Name() string { return "table" }
func (*tableWriter) Ext() string  { return "txt" }

const maxCellWidth = 40

func (*tableWriter) Write(db *morkdb.Database, dest string) error {
	w, closer, err := openDest(dest)
	if err != nil {
		return err
	}
	defer func() {
		_ = closer()
	}()

	width := 0
	if dest == "" || dest == "-" {
		if term.IsTerminal(int(os.Stdout.Fd())) {
			width, _, _ = term.GetSize(int(os.Stdout.Fd()))
		}
	}

	referenced := make(map[morkdb.Key]bool)
	for _, t := range db.Tables() {
		rows := db.TableRows(t)
		for _, row := range rows {
			referenced[row.Key] = true
		}
		title := fmt.Sprintf("table %s:%s (%d rows)", t.Namespace, t.ID, len(rows))
		if err := writeTextSection(w, title, rows, width); err != nil {
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
		if err := writeTextSection(w, "rows outside tables", orphans, width); err != nil {
			return err
		}
	}
	return nil
}

func writeTextSection(w io.Writer, title string, rows []*morkdb.Row, termWidth int) error {
	if _, err := fmt.Fprintf(w, "== %s ==\n", title); err != nil {
		return err
	}

	columns := append([]string{"id"}, unionColumns(rows)...)
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = len(col)
	}

	cells := make([][]string, len(rows))
	for ri, row := range rows {
		record := make([]string, len(columns))
		record[0] = row.ID
		for i, col := range columns[1:] {
			v, _ := row.Value(col)
			record[i+1] = clampCell(v)
		}
		for i, v := range record {
			if len(v) > widths[i] {
				widths[i] = len(v)
			}
		}
		cells[ri] = record
	}

	// On narrow terminals give every column an equal share instead of the
	// natural width.
	if termWidth > 0 {
		total := 0
		for _, cw := range widths {
			total += cw + 2
		}
		if total > termWidth {
			share := termWidth/len(widths) - 2
			if share < 4 {
				share = 4
			}
			for i := range widths {
				if widths[i] > share {
					widths[i] = share
				}
			}
		}
	}

	var b strings.Builder
	writeRecord := func(record []string) error {
		b.Reset()
		for i, v := range record {
			if len(v) > widths[i] {
				v = v[:widths[i]]
			}
			b.WriteString(v)
			b.WriteString(strings.Repeat(" ", widths[i]-len(v)+2))
		}
		_, err := fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
		return err
	}

	if err := writeRecord(columns); err != nil {
		return err
	}
	for _, record := range cells {
		if err := writeRecord(record); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// clampCell keeps control characters out of the aligned output.
func clampCell(v string) string {
	v = strings.NewReplacer("\r", `\r`, "\n", `\n`, "\t", `\t`).Replace(v)
	if r := []rune(v); len(r) > maxCellWidth {
		return string(r[:maxCellWidth-1]) + "..."
	}
	return v
}
