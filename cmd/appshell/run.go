package main

import (
	"context"

	"github.com/aretw0/appshell"
	"github.com/aretw0/appshell/internal/logging"
	"github.com/aretw0/appshell/internal/presentation/tui"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Bootstrap the application and serve it",
	Long: `Registers the plugins that apply to this build (barcode scanner on mobile,
os everywhere, log on debug builds) and serves their commands until
interrupted. A plugin that fails to register aborts startup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Host.Addr, _ = cmd.Flags().GetString("addr")
		}
		if cmd.Flags().Changed("transport") {
			cfg.Host.Transport, _ = cmd.Flags().GetString("transport")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		// Stdout carries JSON-RPC on the mcp transport.
		if cfg.Host.Transport == "http" && tui.IsTerminal(cmd.OutOrStdout()) {
			tui.PrintBanner(cmd.OutOrStdout(), appshell.Version)
		}

		logger := logging.NewWithFormat(cmd.ErrOrStderr(), logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)
		return appshell.Run(context.Background(),
			appshell.WithConfig(cfg),
			appshell.WithLogger(logger),
		)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("addr", "", "HTTP listen address (overrides host.addr)")
	runCmd.Flags().String("transport", "", "Transport: http or mcp (overrides host.transport)")

	// 'run' is the default when no command is provided.
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
