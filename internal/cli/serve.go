package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/maskgen/internal/api"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		logFormat string
		backend   backendFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the mask generation HTTP API",
		Long: `Serve the mask generation HTTP API.

  GET  /healthz
  GET  /v1/presets
  POST /v1/generate?format=gds|svg|png|pdf|dot[&preset=NAME][&record=true]
  GET  /v1/runs/{id}

POST a TOML design as the request body, or name a preset.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := formatter(logFormat)
			if err != nil {
				return err
			}
			c.Logger.SetFormatter(f)

			runner, err := c.newRunner(cmd.Context(), backend, true)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			return api.New(runner, c.Logger).ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&logFormat, "log-format", "text", "log format: text, json or logfmt")
	backend.register(cmd)
	return cmd
}
