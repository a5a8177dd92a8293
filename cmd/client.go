/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/sempr/judge-core-go/internal/client"
	"github.com/spf13/cobra"
)

// clientCmd represents the client command. It is re-exec'd by the
// daemon's worker pool as "<self> client <solution_id> <runner_id>
// [oj_home_path] [DEBUG]" — client.Main reads those positional
// arguments from os.Args itself rather than through cobra flags.
var clientCmd = &cobra.Command{
	Use:                "client",
	Short:              "Judge a single submission (invoked by the daemon worker pool)",
	DisableFlagParsing: true,
	Run: func(cmd *cobra.Command, args []string) {
		client.Main()
	},
}

func init() {
	rootCmd.AddCommand(clientCmd)
}
