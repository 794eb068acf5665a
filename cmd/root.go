package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"munch/internal/config"
	"munch/internal/muncher"
	"munch/internal/parsers"
	"munch/internal/tokenmap"
	"munch/internal/ui"
)

// Version is set by ldflags during build
var Version = "dev"

const manifestFlag = "manifest"

var manifestPath string

var rootCmd = &cobra.Command{
	Use:   "munch",
	Short: "Rename CSS ids and classes across HTML, CSS and JS files",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := loadOptions(cmd)
		if err != nil {
			ui.PrintError("%v", err)
			os.Exit(1)
		}

		if _, err := runMunch(opts, cmd.Flags().Changed(manifestFlag)); err != nil {
			ui.PrintError("%v", err)
			os.Exit(1)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Long = ui.Divider() + "\n" + ui.Banner() + "\n" + ui.VersionLine(Version) + "\n\n" + ui.Divider() + "\n\n  Shrinks the ids and classes of a site to short tokens, consistently across markup, stylesheets and scripts"
	addRunFlags(rootCmd.PersistentFlags())
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("munch %s\n", Version)
	},
}

func addRunFlags(fs *pflag.FlagSet) {
	fs.StringVar(&manifestPath, manifestFlag, "", "Read options from a run config file (.muncher when no path is given)")
	fs.Lookup(manifestFlag).NoOptDefVal = config.DefaultManifest

	fs.String(config.KeyView, "", "HTML files, directories or globs, comma separated")
	fs.String(config.KeyCSS, "", "CSS files, directories or globs, comma separated")
	fs.String(config.KeyJS, "", "JS files, directories or globs, comma separated")
	fs.String(config.KeyViewExt, ".html", "Extension of HTML files in view directories")
	fs.String(config.KeyCSSExt, ".css", "Extension of CSS files in css directories")
	fs.String(config.KeyJSExt, ".js", "Extension of JS files in js directories")
	fs.Bool(config.KeyCompressView, false, "Minify rewritten HTML")
	fs.Bool(config.KeyCompressCSS, false, "Minify rewritten CSS")
	fs.Bool(config.KeyCompressJS, false, "Minify rewritten JS")
	fs.Bool(config.KeySilent, false, "Print nothing but errors")
	fs.Bool(config.KeyShowSavings, false, "Report the size saved for each file")
	fs.String(config.KeyMap, "", "Write the discovered ids and classes to this file")
	fs.String(config.KeyRead, "", "Replay ids and classes from a map file instead of discovering them")
	fs.String(config.KeySuffix, "", "Append to each input path to name its output (default rewrites in place)")
	fs.String(config.KeyIgnore, "", "Ignore list files of ids and classes to leave alone, comma separated")
	fs.String(config.KeyParsers, "", "Script parsers to run after the built-in ones: "+strings.Join(parsers.Registered(), ", ")+" or a .so path")
	fs.String(config.KeyExclude, "", "Patterns of input files to skip, comma separated")
	fs.String(config.KeySalt, tokenmap.DefaultSalt, "Salt of the token generator")
	fs.Int(config.KeyMinLength, 0, "Minimum token length")
	fs.Bool(config.KeyDryRun, false, "Show the changes without writing any file")
}

// loadOptions merges the run config file, if any, with the flags set on
// the command line. Flags win.
func loadOptions(cmd *cobra.Command) (config.Options, error) {
	props := make(config.Properties)

	if cmd.Flags().Changed(manifestFlag) {
		if !config.FileExists(manifestPath) {
			return config.Options{}, fmt.Errorf("run config %s not found", manifestPath)
		}
		fileProps, err := config.Load(manifestPath)
		if err != nil {
			return config.Options{}, fmt.Errorf("failed to load configuration: %w", err)
		}
		props.Merge(fileProps)
	}

	cmd.Flags().Visit(func(f *pflag.Flag) {
		if f.Name != manifestFlag {
			props[f.Name] = f.Value.String()
		}
	})

	opts, err := config.FromProperties(props)
	if err != nil {
		return config.Options{}, fmt.Errorf("failed to load configuration: %w", err)
	}
	return opts, nil
}

// runMunch validates opts, runs both passes and prints the summary
func runMunch(opts config.Options, fromManifest bool) (*muncher.Muncher, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if !opts.Silent {
		ui.PrintHeader(Version)
		if fromManifest {
			ui.PrintInfo("Reading %s to get configuration...", manifestPath)
		}
		printOptions(opts)
	}

	m, err := muncher.New(opts)
	if err != nil {
		return nil, err
	}
	if err := m.Run(); err != nil {
		return m, err
	}

	if !opts.Silent {
		fmt.Fprintln(ui.Out)
		if opts.ShowSavings && len(m.Results) > 0 {
			ui.PrintLine(ui.SavingsTable(m.Summary()))
		}
		if m.Failures > 0 {
			ui.PrintWarning("Finished with %d file errors", m.Failures)
		} else {
			ui.PrintSuccess("Finished!")
		}
	}
	return m, nil
}

func printOptions(opts config.Options) {
	show := func(key string, values []string) {
		if len(values) > 0 {
			ui.PrintKeyValue(key, strings.Join(values, ", "))
		}
	}
	show("View", opts.View)
	show("CSS", opts.CSS)
	show("JS", opts.JS)
	show("Parsers", opts.Parsers)
	if opts.Suffix != "" {
		ui.PrintKeyValue("Suffix", opts.Suffix)
	}
	if opts.Replay() {
		ui.PrintKeyValue("Read", opts.Read)
	}
	if opts.DryRun {
		ui.PrintKeyValue("Mode", "dry run")
	}
	fmt.Fprintln(ui.Out)
}
