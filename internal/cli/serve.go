package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/statuscard/internal/server"
)

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render service",
		Long: `Run the HTTP render service. Endpoints:

  POST /v1/render/profile  {"id": "<steam-id>"}        → image/png
  POST /v1/render/roster   {"parent_id": "<group>"}    → image/png
  POST /v1/render/notice   {"id": "<steam-id>"}        → image/png
  GET  /healthz                                        → 200 ok

The service shares the render cache configured in the config file, so a
Redis backend lets multiple instances serve cached cards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := server.New(runner, c.Logger)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
