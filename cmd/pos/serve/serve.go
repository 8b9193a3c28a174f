package serve

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kcmvp/pos/api"
	"github.com/kcmvp/pos/cmd/internal"
	"github.com/kcmvp/pos/store"
)

var addr string

// ServeCmd serves the order API until interrupted.
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the order API over HTTP.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := internal.FromContext(cmd.Context())
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := store.Migrate(ctx, rt.DB); err != nil {
			return err
		}
		filter, err := rt.DefaultFilter()
		if err != nil {
			return err
		}
		listen := addr
		if listen == "" {
			listen = rt.Settings.ServerAddr
		}
		color.New(color.FgCyan).Fprintf(cmd.OutOrStdout(), "pos api listening on %s\n", listen)
		return api.NewServer(rt.Store, filter, rt.Logger).ListenAndServe(ctx, listen)
	},
}

func init() {
	ServeCmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
}
