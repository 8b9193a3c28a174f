package orders

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kcmvp/pos/cmd/internal"
)

// ProductsCmd lists the product catalog.
var ProductsCmd = &cobra.Command{
	Use:   "products",
	Short: "List the known product names.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := internal.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		names, err := rt.Store.Products().Names(cmd.Context())
		if err != nil {
			return err
		}
		if len(names) == 0 {
			color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "no products yet")
			return nil
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}
