/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/sempr/judge-core-go/internal/judge"
	"github.com/spf13/cobra"
)

// judgeCmd is the Entry Orchestrator's command-line front end:
// <program> judge <limits_file> <source_file> <input_file>.
var judgeCmd = &cobra.Command{
	Use:   "judge <limits_file> <source_file> <input_file>",
	Short: "Compile and run one submission under cgroup+rlimit isolation",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		result := judge.Judge(args[0], args[1], args[2])
		fmt.Print(judge.Encode(result))
	},
}

// judgeExecCmd is the hidden re-exec target used internally by the
// Run Stage; it is never invoked directly by a user.
var judgeExecCmd = &cobra.Command{
	Use:    "__judge-exec__",
	Hidden: true,
	Run: func(cmd *cobra.Command, args []string) {
		judge.ChildEntrypoint()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(judgeCmd)
	rootCmd.AddCommand(judgeExecCmd)
}
