package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	serve := newServeCmd()

	root := &cobra.Command{
		Use:   "koinonia",
		Short: "Koinonia event registration API",
		// no subcommand runs the server
		RunE:          serve.RunE,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(serve)
	root.AddCommand(newMigrateCmd())

	return root
}
