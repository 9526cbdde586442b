package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/citation/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Persistent flags:
//   - --verbose (-v): debug-level logging
//   - --log-file: also write logs to a rotating file
//
// The CLI's logger is attached to the command context before any subcommand
// runs, so commands retrieve it with loggerFromContext.
func (c *CLI) RootCommand() *cobra.Command {
	var (
		verbose bool
		logFile string
	)

	root := &cobra.Command{
		Use:          appName,
		Short:        "Citation renders Papers, Please style citation cards",
		Long:         `Citation draws the pink citation slip from Papers, Please with your own title, reason and penalty, as a still image, a PDF or the animated slide-in GIF.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			if logFile != "" {
				if err := c.SetLogFile(logFile); err != nil {
					return err
				}
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this file (rotated at 10 MB)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.geometryCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
