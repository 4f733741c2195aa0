package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var flags globalFlags

	ctx := newCommandContext(&flags)

	rootCmd := &cobra.Command{
		Use:           "cardctl",
		Short:         "Identify trading cards and check their prices",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.initLogging(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Configuration file path (defaults to $TCGPRICE_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&flags.output, "output", "o", outputAuto, "Output format: auto, table or json")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "Log level written to stderr")
	rootCmd.PersistentFlags().StringVar(&flags.sourceMode, "sources", "", "Override the price source mode: demo, live or none")

	rootCmd.AddCommand(newResolveCommand(ctx))
	rootCmd.AddCommand(newPriceCommand(ctx))
	rootCmd.AddCommand(newSearchCommand(ctx))
	rootCmd.AddCommand(newIdentifyCommand(ctx))

	return rootCmd
}
