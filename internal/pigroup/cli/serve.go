package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/pigroup/internal/pigroup/app"
)

func newServeCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API used by the front-end",
		Long: `Serve the JSON API used by the front-end until interrupted.

Set PIGROUP_API_TOKEN to require "Authorization: Bearer <token>" on /v1 routes.
API documentation is served under /swagger/.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(ctx context.Context, a *app.Application) error {
				return a.Serve(ctx)
			})
		},
	}

	cmd.Flags().IntVar(&o.port, "port", 8080, "Port to listen on")
	cmd.Flags().BoolVar(&o.restartDNS, "restart-dns", false, "Restart the Pi-hole resolver after each change (remote backend)")

	return cmd
}
