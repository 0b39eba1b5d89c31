package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/maskgen/pkg/config"
)

// completionCommand prints shell completion scripts. Design arguments
// complete to preset names and files.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for maskgen.

  $ source <(maskgen completion bash)
  $ maskgen completion zsh > "${fpath[1]}/_maskgen"
  $ maskgen completion fish > ~/.config/fish/completions/maskgen.fish
  PS> maskgen completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// completeDesigns offers preset names and lets the shell complete .toml and
// .gds files.
func completeDesigns(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return config.PresetNames(), cobra.ShellCompDirectiveDefault
}
