package output

import (
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"mork-export/internal/morkdb"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// sqliteWriter exports into a normalized SQLite database. The schema is a
// (namespace, row, column, value) quadruple plus table membership, so one
// database can accumulate multiple export runs; each run is stamped in
// export_runs with a fresh run id.
type sqliteWriter struct {
	// Source labels the export run; set by the CLI to the input path.
	Source string
}

func (*sqliteWriter) Name() string { return "sqlite" }
func (*sqliteWriter) Ext() string  { return "db" }

// SetSource implements SourceSetter.
func (s *sqliteWriter) SetSource(source string) { s.Source = source }

func (s *sqliteWriter) Write(db *morkdb.Database, dest string) error {
	if dest == "" || dest == "-" {
		return fmt.Errorf("sqlite output requires a file path")
	}

	conn, err := sql.Open("sqlite3", dest)
	if err != nil {
		return fmt.Errorf("open %s: %w", dest, err)
	}
	defer func() {
		_ = conn.Close()
	}()

	if err := runMigrations(conn); err != nil {
		return err
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	runID := uuid.NewString()
	if _, err := tx.Exec(
		`INSERT INTO export_runs (id, source, created_at) VALUES (?, ?, ?)`,
		runID, s.Source, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("insert export run: %w", err)
	}

	insertCell, err := tx.Prepare(
		`INSERT INTO mork_rows (run_id, namespace, row_id, col, value) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer insertCell.Close()

	for _, row := range db.Rows() {
		for _, column := range row.Columns() {
			value, _ := row.Value(column)
			if _, err := insertCell.Exec(runID, row.Namespace, row.ID, column, value); err != nil {
				return fmt.Errorf("insert row %s:%s: %w", row.Namespace, row.ID, err)
			}
		}
	}

	insertMember, err := tx.Prepare(
		`INSERT INTO mork_table_members (run_id, table_namespace, table_id, position, row_namespace, row_id)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer insertMember.Close()

	for _, t := range db.Tables() {
		for pos, key := range t.Members() {
			if _, err := insertMember.Exec(runID, t.Namespace, t.ID, pos, key.Namespace, key.ID); err != nil {
				return fmt.Errorf("insert table %s:%s member: %w", t.Namespace, t.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// runMigrations brings the destination schema up to date via the embedded
// goose migrations.
func runMigrations(conn *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}
	if err := goose.Up(conn, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
