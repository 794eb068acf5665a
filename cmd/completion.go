package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"munch/internal/ui"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for munch.

To load completions:

Bash:
  $ source <(munch completion bash)

Zsh:
  $ munch completion zsh > "${fpath[1]}/_munch"

Fish:
  $ munch completion fish | source

PowerShell:
  PS> munch completion powershell | Out-String | Invoke-Expression

Or let 'munch completion install' set up the current shell.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	Run: func(cmd *cobra.Command, args []string) {
		if err := writeCompletion(ui.Out, args[0]); err != nil {
			ui.PrintError("%v", err)
			os.Exit(1)
		}
	},
}

var completionInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install shell completion for your current shell",
	Run: func(cmd *cobra.Command, args []string) {
		home, err := os.UserHomeDir()
		if err != nil {
			ui.PrintError("Could not find home directory: %v", err)
			os.Exit(1)
		}

		target, err := completionTargetFor(detectShell(os.Getenv("SHELL")), home)
		if err != nil {
			ui.PrintError("%v", err)
			os.Exit(1)
		}

		if err := installCompletion(target); err != nil {
			ui.PrintError("%v", err)
			os.Exit(1)
		}
		ui.PrintSuccess("Installed completion script to %s", target.file)

		if target.rc != "" {
			ui.PrintInfo("Restart your shell or run: source %s", target.rc)
		}
	},
}

func init() {
	completionCmd.AddCommand(completionInstallCmd)
	rootCmd.AddCommand(completionCmd)
}

type completionTarget struct {
	shell string
	file  string
	rc    string
	line  string
}

func writeCompletion(w io.Writer, shell string) error {
	switch shell {
	case "bash":
		return rootCmd.GenBashCompletion(w)
	case "zsh":
		return rootCmd.GenZshCompletion(w)
	case "fish":
		return rootCmd.GenFishCompletion(w, true)
	case "powershell":
		return rootCmd.GenPowerShellCompletionWithDesc(w)
	}
	return fmt.Errorf("unsupported shell %q", shell)
}

// completionTargetFor places the script where shell loads it from under home.
// Fish needs no rc line since it reads its completions directory.
func completionTargetFor(shell, home string) (completionTarget, error) {
	switch shell {
	case "zsh":
		dir := filepath.Join(home, ".zsh", "completions")
		return completionTarget{
			shell: shell,
			file:  filepath.Join(dir, "_munch"),
			rc:    filepath.Join(home, ".zshrc"),
			line:  fmt.Sprintf("\nfpath=(%s $fpath)\nautoload -Uz compinit && compinit\n", dir),
		}, nil
	case "bash":
		file := filepath.Join(home, ".bash_completion.d", "munch")
		return completionTarget{
			shell: shell,
			file:  file,
			rc:    filepath.Join(home, ".bashrc"),
			line:  fmt.Sprintf("\n[ -f %s ] && source %s\n", file, file),
		}, nil
	case "fish":
		return completionTarget{
			shell: shell,
			file:  filepath.Join(home, ".config", "fish", "completions", "munch.fish"),
		}, nil
	case "":
		return completionTarget{}, fmt.Errorf("could not detect shell, use 'munch completion [bash|zsh|fish|powershell]' manually")
	}
	return completionTarget{}, fmt.Errorf("auto-install not supported for %s, use 'munch completion %s' manually", shell, shell)
}

func installCompletion(t completionTarget) error {
	if err := os.MkdirAll(filepath.Dir(t.file), 0755); err != nil {
		return fmt.Errorf("failed to create completion directory: %w", err)
	}

	f, err := os.Create(t.file)
	if err != nil {
		return fmt.Errorf("failed to create completion file: %w", err)
	}
	if err := writeCompletion(f, t.shell); err != nil {
		f.Close()
		return fmt.Errorf("failed to write completion file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write completion file: %w", err)
	}

	if t.rc == "" {
		return nil
	}

	// Only once per rc file
	content, _ := os.ReadFile(t.rc)
	if strings.Contains(string(content), t.line) {
		return nil
	}
	rc, err := os.OpenFile(t.rc, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		ui.PrintWarning("Could not update %s: %v", t.rc, err)
		ui.PrintInfo("Please add manually: %s", t.line)
		return nil
	}
	defer rc.Close()

	if _, err := rc.WriteString(t.line); err != nil {
		return fmt.Errorf("failed to update %s: %w", t.rc, err)
	}
	ui.PrintSuccess("Updated %s", t.rc)
	return nil
}

func detectShell(shell string) string {
	for _, name := range []string{"zsh", "bash", "fish"} {
		if strings.Contains(shell, name) {
			return name
		}
	}
	return ""
}
