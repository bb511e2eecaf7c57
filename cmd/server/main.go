package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "liquor-delivery",
		Short:         "Liquor delivery storefront API: carts, order intake and fulfillment",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		// With no subcommand the API server starts.
		RunE: runServe,
	}
	rootCmd.PersistentFlags().BoolVar(&autoMigrate, "migrate", false, "run schema migrations before serving")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
