package migrate

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kcmvp/pos/cmd/internal"
	"github.com/kcmvp/pos/store"
)

// MigrateCmd creates the pos tables on the configured datasource.
var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the orders, order_details and products tables if missing.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := internal.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		if err := store.Migrate(cmd.Context(), rt.DB); err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "schema is up to date (%s)\n", rt.DB.Dialect())
		return nil
	},
}
