package cli

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/imagecloud/internal/buildinfo"
	"github.com/ironsheep/imagecloud/internal/server"
)

// serveCommand creates the command that runs the MCP server on stdio.
func (c *CLI) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin and stdout",
		Long: `Serve the imagecloud tools over the Model Context Protocol.

Requests are read as JSON-RPC lines from stdin and answered on stdout. Logs
go to stderr.`,
		Args: requireNoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			logger.Debug("starting MCP server", "version", buildinfo.Version)
			return server.New(logger, buildinfo.Version).Run(ctx)
		},
	}
}
