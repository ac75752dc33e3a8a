package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "soundbox",
		Short:         "Palindrome sound box: digit sequences as music and particle visuals",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newPlayCommand(ctx))
	rootCmd.AddCommand(newSnapshotCommand(ctx))
	rootCmd.AddCommand(newPatternCommand(ctx))
	rootCmd.AddCommand(newPalindromeCommand())
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
