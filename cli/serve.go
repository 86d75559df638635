package cli

import (
	"github.com/compozy/gantt/engine/infra/server"
	"github.com/spf13/cobra"
)

// ServeCmd starts the HTTP API.
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the task API and static bundle server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv, err := server.NewServer(cmd.Context())
			if err != nil {
				return err
			}
			return srv.Run()
		},
	}

	cmd.Flags().String("host", "0.0.0.0", "Host to bind")
	cmd.Flags().Int("port", 8000, "Port to listen on")
	cmd.Flags().String("static-dir", "frontend/dist", "Directory holding the prebuilt web bundle")
	cmd.Flags().Bool("metrics", false, "Expose Prometheus metrics")
	cmd.Flags().Bool("rate-limit", false, "Enable per-client rate limiting")
	addDataFlags(cmd)

	return cmd
}
