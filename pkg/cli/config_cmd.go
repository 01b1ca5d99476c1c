package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration profiles",
		Long:  "View and edit the profiles stored in " + ConfigPath() + ".",
	}
	cmd.AddCommand(newConfigListCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigUseCmd())
	return cmd
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := LoadUserConfig()
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no configuration file")
				return nil
			}
			for name, p := range cfg.Profiles {
				marker := " "
				if name == cfg.CurrentProfile {
					marker = "*"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s", marker, name)
				if p.Output != "" {
					fmt.Fprintf(cmd.OutOrStdout(), " output=%s", p.Output)
				}
				if p.TimeFormat != "" {
					fmt.Fprintf(cmd.OutOrStdout(), " time-format=%q", p.TimeFormat)
				}
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	var (
		outputFmt  string
		timeFormat string
	)
	cmd := &cobra.Command{
		Use:   "set PROFILE",
		Short: "Create or update a profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputFmt != "" {
				if err := validateOutputFormat(outputFmt); err != nil {
					return err
				}
			}
			cfg, err := LoadUserConfig()
			if err != nil {
				cfg = &UserConfig{Profiles: map[string]Profile{}}
			}
			p := cfg.Profiles[args[0]]
			if cmd.Flags().Changed("set-output") {
				p.Output = outputFmt
			}
			if cmd.Flags().Changed("set-time-format") {
				p.TimeFormat = timeFormat
			}
			cfg.Profiles[args[0]] = p
			if cfg.CurrentProfile == "" {
				cfg.CurrentProfile = args[0]
			}
			return SaveUserConfig(cfg)
		},
	}
	cmd.Flags().StringVar(&outputFmt, "set-output", "", "Default output format for the profile")
	cmd.Flags().StringVar(&timeFormat, "set-time-format", "", "Default time layout for the profile")
	return cmd
}

func newConfigUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use PROFILE",
		Short: "Select the current profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadUserConfig()
			if err != nil {
				cfg = &UserConfig{Profiles: map[string]Profile{}}
			}
			if _, ok := cfg.Profiles[args[0]]; !ok {
				return fmt.Errorf("unknown profile %q", args[0])
			}
			cfg.CurrentProfile = args[0]
			return SaveUserConfig(cfg)
		},
	}
}
