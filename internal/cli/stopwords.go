package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/imagecloud/internal/text"
)

// stopwordsCommand lists the words left out of every cloud.
func (c *CLI) stopwordsCommand() *cobra.Command {
	var extra string

	cmd := &cobra.Command{
		Use:   "stopwords",
		Short: "List the stopwords that are never counted",
		Args:  requireNoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, w := range text.Stopwords(extra).Words() {
				fmt.Fprintln(c.Out, w)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&extra, "extra-stopwords", "", "comma-separated words to add to the list")
	return cmd
}
