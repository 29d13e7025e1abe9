package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ironsheep/imagecloud/internal/buildinfo"
	"github.com/ironsheep/imagecloud/internal/errors"
)

// appName is the application name used for display.
const appName = "imagecloud"

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives summaries and listings, Err receives status lines.
	Out io.Writer
	Err io.Writer

	logLevel string
}

// New creates a CLI whose logger writes to errw.
func New(out, errw io.Writer) *CLI {
	if out == nil {
		out = os.Stdout
	}
	if errw == nil {
		errw = os.Stderr
	}
	return &CLI{
		Logger: newLogger(errw, log.InfoLevel),
		Out:    out,
		Err:    errw,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands
// registered. Run without a subcommand, it renders a word cloud.
func (c *CLI) RootCommand() *cobra.Command {
	root := c.renderCommand()
	root.Use = appName
	root.Version = buildinfo.Version
	root.SilenceUsage = true
	root.SilenceErrors = true
	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)
	root.SetErr(c.Err)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return errors.Wrap(errors.ErrCodeInvalidParameter, err, "%s", cmd.CommandPath())
	})

	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "INFO", "log verbosity: DEBUG, INFO, WARN or ERROR")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level, err := parseLevel(c.logLevel)
		if err != nil {
			return err
		}
		c.SetLogLevel(level)
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.stopwordsCommand())
	root.AddCommand(c.versionCommand())

	return root
}
