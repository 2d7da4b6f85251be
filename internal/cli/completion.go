package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/storeshot/pkg/style"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for storeshot.

To load completions:

Bash:
  $ source <(storeshot completion bash)

Zsh:
  $ storeshot completion zsh > "${fpath[1]}/_storeshot"

Fish:
  $ storeshot completion fish > ~/.config/fish/completions/storeshot.fish

PowerShell:
  PS> storeshot completion powershell | Out-String | Invoke-Expression

Flag values such as --style and --device complete as well.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}

	return cmd
}

// completeFlagValues registers fixed completions for the named flags of cmd.
// Flags that do not exist are skipped.
func completeFlagValues(cmd *cobra.Command, values map[string][]string) {
	for flag, vals := range values {
		if cmd.Flags().Lookup(flag) == nil {
			continue
		}
		_ = cmd.RegisterFlagCompletionFunc(flag, cobra.FixedCompletions(vals, cobra.ShellCompDirectiveNoFileComp))
	}
}

// renderFlagValues lists completions shared by the rendering commands.
func renderFlagValues() map[string][]string {
	names := style.Names()
	styles := make([]string, len(names))
	for i, n := range names {
		styles[i] = string(n)
	}
	return map[string][]string{
		"style":  styles,
		"device": {"iphone", "ipad"},
		"method": {"dominant", "kmeans"},
		"fonts":  {"embedded", "mono", "system"},
	}
}
