package main

import (
	"github.com/aretw0/appshell"
	"github.com/aretw0/appshell/internal/cli"
	"github.com/aretw0/appshell/pkg/platform"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show which plugins a bootstrap would register",
	Long: `Evaluates the plugin table against a platform classification without
registering anything. Defaults to the classification of this binary;
--mobile and --debug override it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cls := platform.Detect()
		if cmd.Flags().Changed("mobile") {
			cls.Mobile, _ = cmd.Flags().GetBool("mobile")
		}
		if cmd.Flags().Changed("debug") {
			cls.Debug, _ = cmd.Flags().GetBool("debug")
		}
		entries := appshell.DefaultPlugins(cfg)
		if mermaid, _ := cmd.Flags().GetBool("mermaid"); mermaid {
			return cli.WritePlanMermaid(cmd.OutOrStdout(), cls, entries)
		}
		return cli.WritePlan(cmd.OutOrStdout(), cls, entries)
	},
}

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List the declared plugins and their conditions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return cli.WriteDeclared(cmd.OutOrStdout(), appshell.DefaultPlugins(cfg))
	},
}

func init() {
	rootCmd.AddCommand(planCmd, pluginsCmd)

	planCmd.Flags().Bool("mobile", false, "Classify as a mobile target")
	planCmd.Flags().Bool("debug", false, "Classify as a debug build")
	planCmd.Flags().Bool("mermaid", false, "Print the plan as a Mermaid flowchart")
}
