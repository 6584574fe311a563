package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate a shell completion script",
	Long: `Generate a completion script for the named shell.

Write the output where your shell picks completions up, then start a
new shell:

  bash        cubby completion bash > /etc/bash_completion.d/cubby
  zsh         cubby completion zsh > "${fpath[1]}/_cubby"
  fish        cubby completion fish > ~/.config/fish/completions/cubby.fish
  powershell  cubby completion powershell | Out-String | Invoke-Expression

On macOS with Homebrew, use $(brew --prefix)/etc/bash_completion.d and
$(brew --prefix)/share/zsh/site-functions instead. Zsh users who have
never enabled completion also need 'autoload -U compinit; compinit' in
their ~/.zshrc.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE:                  runCompletion,
}

func runCompletion(cmd *cobra.Command, args []string) error {
	root := cmd.Root()
	switch args[0] {
	case "bash":
		return root.GenBashCompletion(os.Stdout)
	case "zsh":
		return root.GenZshCompletion(os.Stdout)
	case "fish":
		return root.GenFishCompletion(os.Stdout, true)
	default:
		return root.GenPowerShellCompletionWithDesc(os.Stdout)
	}
}
