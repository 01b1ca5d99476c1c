package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"mork-export/internal/output"
)

// getOutputFormat returns the effective output format from the root
// command's persistent flags.
func getOutputFormat(cmd *cobra.Command) string {
	return lookupString(cmd.Root().PersistentFlags(), "output")
}

// lookupString reads a string flag value, tolerating an unknown name.
func lookupString(flags *pflag.FlagSet, name string) string {
	v, _ := flags.GetString(name)
	return v
}

func validateOutputFormat(format string) error {
	if format == "" {
		return nil
	}
	if !slices.Contains(output.Formats(), format) {
		return fmt.Errorf("unsupported output format %q: use one of %v", format, output.Formats())
	}
	return nil
}
