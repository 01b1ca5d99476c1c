// Package output renders a logical Mork database in the formats the
// export command supports: aligned text tables, CSV, JSON, XML, YAML, and
// a normalized SQLite database.
package output

import (
	"fmt"
	"io"
	"os"
	"sort"

	"mork-export/internal/morkdb"
)

// Writer renders a database to a destination. For stream formats dest ""
// or "-" means stdout; the sqlite writer requires a file path.
type Writer interface {
	// Name is the format name used on the command line.
	Name() string
	// Ext is the default file extension, without the dot.
	Ext() string
	// Write renders the database.
	Write(db *morkdb.Database, dest string) error
}

// SourceSetter is implemented by writers that record where the exported
// data came from.
type SourceSetter interface {
	SetSource(source string)
}

var writers = map[string]func() Writer{
	"table":  func() Writer { return &tableWriter{} },
	"csv":    func() Writer { return &csvWriter{} },
	"json":   func() Writer { return &jsonWriter{} },
	"xml":    func() Writer { return &xmlWriter{} },
	"yaml":   func() Writer { return &yamlWriter{} },
	"sqlite": func() Writer { return &sqliteWriter{} },
}

// New returns the writer for a format name.
func New(format string) (Writer, error) {
	f, ok := writers[format]
	if !ok {
		return nil, fmt.Errorf("unsupported output format %q: use one of %v", format, Formats())
	}
	return f(), nil
}

// Formats returns the supported format names, sorted.
func Formats() []string {
	out := make([]string, 0, len(writers))
	for name := range writers {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// openDest opens the destination for a stream writer. The caller must call
// the returned close function; for stdout it is a no-op.
func openDest(dest string) (io.Writer, func() error, error) {
	if dest == "" || dest == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(dest)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", dest, err)
	}
	return f, f.Close, nil
}
