package main

import (
	"github.com/spf13/cobra"
)

type options struct {
	json bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "labelcheck",
		Short:         "Compare OCR label text with expected product data",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&opts.json, "json", false, "Render results as JSON")

	rootCmd.AddCommand(newVerbageCommand(opts))
	rootCmd.AddCommand(newIngredientsCommand(opts))
	rootCmd.AddCommand(newRankCommand(opts))

	return rootCmd
}
