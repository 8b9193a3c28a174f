package orders

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/kcmvp/pos/cmd/internal"
	"github.com/kcmvp/pos/order"
)

var (
	status string
	query  string
	sortBy string
	desc   bool
)

// OrdersCmd lists orders through the same cache and filter the API uses.
var OrdersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List orders, optionally filtered by status and text.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := internal.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		filter, err := rt.DefaultFilter()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("status") {
			if filter, err = order.ParseStatusFilter(status); err != nil {
				return err
			}
		}
		column, ok := order.ParseColumn(sortBy)
		if !ok {
			return fmt.Errorf("unknown sort column %q, one of %v", sortBy, order.Columns())
		}
		cache := order.NewListCache(rt.Store)
		if err := cache.RefreshAll(cmd.Context(), filter); err != nil {
			return err
		}
		view := order.NewListFilter(cache)
		view.SetSort(column, desc)
		view.SetQuery(query)
		Print(cmd.OutOrStdout(), view)
		return nil
	},
}

var statusColors = map[order.Status]*color.Color{
	order.Active:    color.New(color.FgGreen),
	order.Completed: color.New(color.FgBlue),
	order.Cancelled: color.New(color.FgRed),
}

// Print writes the visible rows of view as a table followed by its info line.
func Print(w io.Writer, view *order.ListFilter) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := lo.Map(order.Columns(), func(c order.Column, _ int) string { return c.String() })
	fmt.Fprintln(tw, joinTab(header))
	for _, row := range view.Rows() {
		cells := lo.Map(order.Columns(), func(c order.Column, _ int) string { return row.Text(c) })
		if clr, ok := statusColors[row.Status]; ok {
			cells[order.ColumnStatus] = clr.Sprint(cells[order.ColumnStatus])
		}
		fmt.Fprintln(tw, joinTab(cells))
	}
	_ = tw.Flush()
	color.New(color.Faint).Fprintln(w, view.Info())
}

func joinTab(cells []string) string {
	return lo.Reduce(cells, func(acc string, cell string, i int) string {
		return acc + lo.Ternary(i == 0, "", "\t") + cell
	}, "")
}

func init() {
	OrdersCmd.Flags().StringVar(&status, "status", "", "all, active, completed or cancelled; defaults to pos.default_status")
	OrdersCmd.Flags().StringVarP(&query, "query", "q", "", "show rows containing this text in any column")
	OrdersCmd.Flags().StringVar(&sortBy, "sort", order.ColumnID.String(), "sort column")
	OrdersCmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
}
