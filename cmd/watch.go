package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"munch/internal/config"
	"munch/internal/muncher"
	"munch/internal/ui"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the inputs and munch again on every change",
	Long:  "Run munch, then poll every input file and run it again whenever one changes. A --suffix is required so outputs never replace the files being watched.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := loadOptions(cmd)
		if err != nil {
			ui.PrintError("%v", err)
			os.Exit(1)
		}

		if opts.Suffix == "" {
			ui.PrintError("watch needs --suffix: rewriting in place would retrigger the watcher")
			os.Exit(1)
		}

		if _, err := runMunch(opts, cmd.Flags().Changed(manifestFlag)); err != nil {
			ui.PrintError("%v", err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		ui.PrintInfo("Watching for changes...")
		ui.PrintInfo("Press Ctrl+C to stop")

		lastMod := time.Now()
		debounce := 500 * time.Millisecond

		ticker := time.NewTicker(watchInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			changed, newMod := hasChanges(watchList(opts), lastMod)
			if !changed {
				continue
			}

			if time.Since(newMod) < debounce {
				continue
			}

			lastMod = time.Now()

			ui.PrintInfo("Changes detected, munching...")

			// The run config may be among the changes
			if reloaded, err := loadOptions(cmd); err != nil {
				ui.PrintWarning("Keeping previous options: %v", err)
			} else if reloaded.Suffix != "" {
				opts = reloaded
			}

			if _, err := runMunch(opts, false); err != nil {
				ui.PrintError("%v", err)
			}
			ui.PrintInfo("Watching for changes...")
		}
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 500*time.Millisecond, "How often to poll the inputs")
	rootCmd.AddCommand(watchCmd)
}

// watchList returns the inputs of every group and the files that configure
// the run, without outputs of earlier runs.
func watchList(opts config.Options) []string {
	groups := []struct {
		inputs []string
		ext    string
	}{
		{opts.View, opts.ViewExt},
		{opts.CSS, opts.CSSExt},
		{opts.JS, opts.JSExt},
	}

	var files []string
	for _, g := range groups {
		expanded, err := muncher.ExpandInputs(g.inputs, g.ext, opts.Exclude)
		if err != nil {
			continue
		}
		for _, path := range expanded {
			if opts.Suffix != "" && strings.HasSuffix(path, opts.Suffix) {
				continue
			}
			files = append(files, path)
		}
	}

	files = append(files, opts.Ignore...)
	if opts.Read != "" {
		files = append(files, opts.Read)
	}
	if manifestPath != "" {
		files = append(files, manifestPath)
	}
	return files
}

func hasChanges(files []string, since time.Time) (bool, time.Time) {
	var latestMod time.Time
	changed := false

	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.ModTime().After(since) {
			changed = true
		}
		if info.ModTime().After(latestMod) {
			latestMod = info.ModTime()
		}
	}

	return changed, latestMod
}
