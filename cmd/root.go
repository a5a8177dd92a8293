/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "judge-core-go",
	Short: "Online-judge execution core and worker daemon",
	Long: `judge-core-go compiles and runs a single submission under cgroup v2 +
rlimit isolation, classifies the verdict, and optionally drives a
MySQL-backed solution queue around that core.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). Cobra only needs to
// know the root command; every subcommand registers itself via init().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
