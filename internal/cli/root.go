package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/storeshot/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
// The CLI logger is attached to each command's context before it runs;
// --verbose lowers it to debug level. Errors are returned, not printed.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   appName,
		Short: "Storeshot turns raw app screenshots into store-ready marketing images",
		Long: `Storeshot composes raw app screenshots into App Store marketing images.

Each entry of a config gets a styled background, a device frame, glows and
shadows, and a fitted headline. Five styles are built in; run 'storeshot
styles' to list them.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.stylesCommand())
	root.AddCommand(c.paletteCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
