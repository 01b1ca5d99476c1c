package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mork-export/internal/morkdb"
	"mork-export/internal/morkparse"
)

// inspectReport summarizes a parsed file without exporting it.
type inspectReport struct {
	Source     string         `json:"source"`
	Rows       int            `json:"rows"`
	Tables     int            `json:"tables"`
	Dicts      []inspectDict  `json:"dicts"`
	RowScopes  map[string]int `json:"rowScopes"`
	TableSizes map[string]int `json:"tableSizes"`
}

type inspectDict struct {
	Namespace string `json:"namespace"`
	Aliases   int    `json:"aliases"`
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Summarize a Mork file",
		Long: "Parses and resolves a Mork file, then prints dictionary namespaces,\n" +
			"row scope counts, and table sizes instead of the data itself.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			tree, err := morkparse.Parse(string(data))
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			db, err := morkdb.Build(tree)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			report := buildReport(args[0], db)
			if getOutputFormat(cmd) == "json" {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return printReport(cmd, report)
		},
	}
	return cmd
}

func buildReport(source string, db *morkdb.Database) inspectReport {
	report := inspectReport{
		Source:     source,
		Rows:       len(db.Rows()),
		Tables:     len(db.Tables()),
		RowScopes:  map[string]int{},
		TableSizes: map[string]int{},
	}
	for _, ns := range db.Dicts().Namespaces() {
		report.Dicts = append(report.Dicts, inspectDict{
			Namespace: ns,
			Aliases:   db.Dicts().Len(ns),
		})
	}
	for _, row := range db.Rows() {
		report.RowScopes[row.Namespace]++
	}
	for _, t := range db.Tables() {
		report.TableSizes[t.Namespace+":"+t.ID] = t.Len()
	}
	return report
}

func printReport(cmd *cobra.Command, report inspectReport) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	fmt.Fprintf(w, "source\t%s\n", report.Source)
	fmt.Fprintf(w, "rows\t%d\n", report.Rows)
	fmt.Fprintf(w, "tables\t%d\n", report.Tables)
	for _, d := range report.Dicts {
		fmt.Fprintf(w, "dict %s\t%d aliases\n", d.Namespace, d.Aliases)
	}
	for _, ns := range sortedKeys(report.RowScopes) {
		fmt.Fprintf(w, "scope %s\t%d rows\n", ns, report.RowScopes[ns])
	}
	for _, id := range sortedKeys(report.TableSizes) {
		fmt.Fprintf(w, "table %s\t%d members\n", id, report.TableSizes[id])
	}
	return w.Flush()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
