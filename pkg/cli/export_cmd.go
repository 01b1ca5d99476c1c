package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"mork-export/internal/filters"
	"mork-export/internal/morkdb"
	"mork-export/internal/morkparse"
	"mork-export/internal/output"
)

func newExportCmd() *cobra.Command {
	var (
		out        string
		scriptPath string
		opts       filters.Options
	)

	cmd := &cobra.Command{
		Use:   "export FILE...",
		Short: "Convert one or more Mork files",
		Long: "Parses each Mork file, resolves it into a logical database, applies\n" +
			"field conversions, and writes it in the selected output format.\n" +
			"Multiple files are converted concurrently.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := getOutputFormat(cmd)

			if !cmd.Flags().Changed("time-format") {
				if cfg, err := LoadUserConfig(); err == nil {
					profile := lookupString(cmd.Root().PersistentFlags(), "profile")
					if tf := cfg.ActiveProfile(profile).TimeFormat; tf != "" {
						opts.TimeFormat = tf
					}
				}
			}

			pipe := &filters.Pipeline{}
			pipe.Add(filters.FieldConvert{})
			if scriptPath != "" {
				script, err := filters.LoadScript(scriptPath)
				if err != nil {
					return err
				}
				pipe.Add(script)
			}

			if len(args) == 1 {
				return exportOne(args[0], format, out, pipe, &opts)
			}
			if out != "" {
				return fmt.Errorf("--out is only valid with a single input file")
			}

			g := &errgroup.Group{}
			g.SetLimit(runtime.GOMAXPROCS(0))
			for _, path := range args {
				path := path
				g.Go(func() error {
					dest := replaceExt(path, format)
					if err := exportOne(path, format, dest, pipe, &opts); err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					return nil
				})
			}
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output path (default: stdout; required for sqlite)")
	cmd.Flags().StringVar(&scriptPath, "script", "", "Starlark script defining convert(namespace, column, value)")
	cmd.Flags().BoolVarP(&opts.NoConvert, "no-convert", "x", false, "Skip all field conversions")
	cmd.Flags().BoolVar(&opts.NoTime, "no-time", false, "Skip time/date conversions")
	cmd.Flags().StringVar(&opts.TimeFormat, "time-format", "", "Go time layout for rendered times")
	cmd.Flags().BoolVar(&opts.NoBase, "no-base", false, "Keep hexadecimal integers as stored")
	cmd.Flags().BoolVar(&opts.NoSymbolic, "no-symbolic", false, "Skip flag, boolean, and enumeration conversions")

	return cmd
}

// exportOne runs the full pipeline for a single input file.
func exportOne(path, format, dest string, pipe *filters.Pipeline, opts *filters.Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	tree, err := morkparse.Parse(string(data))
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	db, err := morkdb.Build(tree)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := pipe.Run(db, opts); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	w, err := output.New(format)
	if err != nil {
		return err
	}
	if ss, ok := w.(output.SourceSetter); ok {
		ss.SetSource(path)
	}
	return w.Write(db, dest)
}

// replaceExt derives the per-file output path used when converting several
// inputs at once.
func replaceExt(path, format string) string {
	w, err := output.New(format)
	if err != nil {
		return path + ".out"
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "." + w.Ext()
}
