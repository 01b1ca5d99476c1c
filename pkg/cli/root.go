// Package cli implements the morkexport command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		outputFmt string
		profile   string
		quiet     bool
		verbose   bool
	)

	rootCmd := &cobra.Command{
		Use:   "morkexport",
		Short: "Convert Mork databases to readable formats",
		Long: "morkexport reads Mozilla Mork files (Thunderbird mail summaries and\n" +
			"address books, legacy Firefox history) and renders them as tables,\n" +
			"CSV, JSON, XML, YAML, or SQLite.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelInfo
			switch {
			case quiet:
				level = slog.LevelError
			case verbose:
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))

			// Precedence: flag > env > profile > default.
			cfg, err := LoadUserConfig()
			if err != nil {
				// The config file is optional.
				cfg = &UserConfig{CurrentProfile: "default", Profiles: map[string]Profile{}}
			}
			if !cmd.Flags().Changed("profile") {
				if v := os.Getenv("MORK_PROFILE"); v != "" {
					profile = v
				}
			}
			p := cfg.ActiveProfile(profile)

			if !cmd.Flags().Changed("output") {
				if v := os.Getenv("MORK_OUTPUT"); v != "" {
					outputFmt = v
				} else if p.Output != "" {
					outputFmt = p.Output
				}
				_ = cmd.Root().PersistentFlags().Set("output", outputFmt)
			}

			return validateOutputFormat(getOutputFormat(cmd))
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&outputFmt, "output", "o", "table", "Output format (table, csv, json, xml, yaml, sqlite)")
	pf.StringVar(&profile, "profile", "", "Configuration profile to use")
	pf.BoolVarP(&quiet, "quiet", "q", false, "Only log errors")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newInspectCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
