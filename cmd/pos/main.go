package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kcmvp/pos/cmd/internal"
	"github.com/kcmvp/pos/cmd/pos/migrate"
	"github.com/kcmvp/pos/cmd/pos/orders"
	"github.com/kcmvp/pos/cmd/pos/serve"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pos",
	Short: "pos manages the sales orders of a point of sale.",
	Long: `pos keeps sales orders and their line items in a relational store.
It lists and filters orders from the command line and serves the same
operations over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		rt, err := internal.Load()
		if err != nil {
			return err
		}
		cmd.SetContext(internal.WithRuntime(cmd.Context(), rt))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if rt, err := internal.FromContext(cmd.Context()); err == nil {
			return rt.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrate.MigrateCmd)
	rootCmd.AddCommand(serve.ServeCmd)
	rootCmd.AddCommand(orders.OrdersCmd)
	rootCmd.AddCommand(orders.ProductsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}
