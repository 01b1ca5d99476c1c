package filters

import (
	"fmt"
	"os"
	"time"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"mork-export/internal/morkdb"
)

const (
	scriptMaxSteps = uint64(500_000)
	scriptTimeout  = 5 * time.Second
)

// Script is a user-supplied Starlark filter. The script must define
//
//	def convert(namespace, column, value): ...
//
// which is called once per cell and returns the replacement value as a
// string, or None to leave the cell untouched. Scripts run sandboxed with
// an execution-step cap and a wall-clock timeout.
type Script struct {
	name    string
	convert starlark.Callable
}

// LoadScript reads and compiles a Starlark filter from a file.
func LoadScript(path string) (*Script, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return NewScript(path, string(src))
}

// NewScript compiles a Starlark filter from source.
func NewScript(name, src string) (*Script, error) {
	thread := &starlark.Thread{Name: "load:" + name}
	thread.SetMaxExecutionSteps(scriptMaxSteps)

	var globals starlark.StringDict
	err := runWithTimeout(thread, scriptTimeout, func() error {
		var err error
		globals, err = starlark.ExecFileOptions(&syntax.FileOptions{}, thread, name, src, nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load script %s: %w", name, err)
	}

	// Exports convert concurrently; frozen globals make shared scripts safe.
	globals.Freeze()

	fn, ok := globals["convert"].(starlark.Callable)
	if !ok {
		return nil, fmt.Errorf("script %s does not define convert(namespace, column, value)", name)
	}
	return &Script{name: name, convert: fn}, nil
}

// Name implements Filter.
func (s *Script) Name() string { return "script:" + s.name }

// Order implements Filter. Scripts run after the built-in conversions so
// they see human-readable values.
func (s *Script) Order() int { return 3000 }

// Process implements Filter.
func (s *Script) Process(db *morkdb.Database, opts *Options) error {
	if opts.NoConvert {
		return nil
	}

	for _, row := range db.Rows() {
		for _, column := range row.Columns() {
			value, _ := row.Value(column)

			thread := &starlark.Thread{Name: s.name}
			thread.SetMaxExecutionSteps(scriptMaxSteps)

			var result starlark.Value
			err := runWithTimeout(thread, scriptTimeout, func() error {
				args := starlark.Tuple{
					starlark.String(row.Namespace),
					starlark.String(column),
					starlark.String(value),
				}
				var err error
				result, err = starlark.Call(thread, s.convert, args, nil)
				return err
			})
			if err != nil {
				return fmt.Errorf("convert(%q, %q): %w", row.Namespace, column, err)
			}

			switch v := result.(type) {
			case starlark.NoneType:
				// Leave the cell untouched.
			case starlark.String:
				row.Set(column, string(v))
			default:
				return fmt.Errorf("convert(%q, %q): returned %s, want string or None",
					row.Namespace, column, result.Type())
			}
		}
	}
	return nil
}

// runWithTimeout executes fn, cancelling the Starlark thread if the
// deadline passes first.
func runWithTimeout(thread *starlark.Thread, timeout time.Duration, fn func() error) error {
	timer := time.AfterFunc(timeout, func() {
		thread.Cancel("timeout")
	})
	defer timer.Stop()
	return fn()
}
