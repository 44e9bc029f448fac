package main

import (
	"os"

	"github.com/grovetools/statline/cli"
	"github.com/grovetools/statline/cmd"
)

func main() {
	rootCmd := cli.NewStandardCommand(
		"statline",
		"Status line renderer for Neovim",
	)

	// Add subcommands
	rootCmd.AddCommand(cmd.NewServeCmd())
	rootCmd.AddCommand(cmd.NewPreviewCmd())
	rootCmd.AddCommand(cli.NewVersionCommand("statline"))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
