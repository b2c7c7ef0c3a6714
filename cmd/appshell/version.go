package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/appshell"
	"github.com/aretw0/appshell/pkg/platform"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of appshell",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "appshell version %s (%s)\n", strings.TrimSpace(appshell.Version), platform.Detect())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
