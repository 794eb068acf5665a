package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"munch/internal/config"
	"munch/internal/tokenmap"
	"munch/internal/ui"
)

const defaultIgnore = "munch-ignore.json"

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter .muncher run config and ignore list",
	Long:  "Write a .muncher run config and an empty munch-ignore.json in the current directory. Options given as flags are written as is; without any the options are asked for interactively.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ui.PrintHeader(Version)

		dir, err := os.Getwd()
		if err != nil {
			ui.PrintError("Failed to get current directory: %v", err)
			os.Exit(1)
		}

		path := filepath.Join(dir, config.DefaultManifest)
		if config.FileExists(path) {
			ui.PrintWarning("%s already exists", config.DefaultManifest)
			os.Exit(1)
		}

		// Flags provided means non-interactive mode
		given := make(config.Properties)
		cmd.Flags().Visit(func(f *pflag.Flag) {
			if f.Name != manifestFlag {
				given[f.Name] = f.Value.String()
			}
		})

		props := initProperties(dir, given, bufio.NewReader(os.Stdin))

		ignorePath := filepath.Join(dir, defaultIgnore)
		if !config.FileExists(ignorePath) {
			if err := tokenmap.WriteNames(ignorePath, tokenmap.Names{}); err != nil {
				ui.PrintError("%v", err)
				os.Exit(1)
			}
			ui.PrintSuccess("Created %s", defaultIgnore)
		}
		props[config.KeyIgnore] = defaultIgnore

		if err := config.Write(path, props); err != nil {
			ui.PrintError("%v", err)
			os.Exit(1)
		}
		ui.PrintSuccess("Created %s", config.DefaultManifest)

		fmt.Fprintln(ui.Out)
		ui.PrintInfo("Run 'munch --manifest' to munch your site")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

// initProperties collects the starter options: the given flags, or answers
// read from reader when there are none.
func initProperties(dir string, given config.Properties, reader *bufio.Reader) config.Properties {
	props := config.Properties{config.KeyShowSavings: "true"}

	if len(given) > 0 {
		props.Merge(given)
		return props
	}

	ui.PrintInfo("Let's set up munch for this site!")
	fmt.Fprintln(ui.Out)

	set := func(key, value string) {
		if value != "" {
			props[key] = value
		}
	}
	set(config.KeyView, prompt(reader, "HTML files or directories", guessInput(dir, "views", "templates", "html")))
	set(config.KeyCSS, prompt(reader, "CSS files or directories", guessInput(dir, "css", "styles", "stylesheets")))
	set(config.KeyJS, prompt(reader, "JS files or directories", guessInput(dir, "js", "scripts", "javascripts")))
	set(config.KeySuffix, prompt(reader, "Output suffix (empty rewrites in place)", ""))
	set(config.KeyMap, prompt(reader, "Map file", ""))

	fmt.Fprintln(ui.Out)
	return props
}

// guessInput returns the first candidate directory present in dir, or "."
func guessInput(dir string, candidates ...string) string {
	for _, c := range candidates {
		if info, err := os.Stat(filepath.Join(dir, c)); err == nil && info.IsDir() {
			return c
		}
	}
	return "."
}

func prompt(reader *bufio.Reader, label, defaultValue string) string {
	if defaultValue != "" {
		fmt.Fprintf(ui.Out, "  %s [%s]: ", label, defaultValue)
	} else {
		fmt.Fprintf(ui.Out, "  %s: ", label)
	}

	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultValue
	}
	return input
}
