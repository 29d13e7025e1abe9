package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/imagecloud/internal/buildinfo"
)

func (c *CLI) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  requireNoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(c.Out, "%s %s\n", appName, buildinfo.String())
		},
	}
}
