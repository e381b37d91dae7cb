package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/mschirtzinger/gitwatch/internal/autosync"
	"github.com/mschirtzinger/gitwatch/internal/config"
	"github.com/mschirtzinger/gitwatch/internal/ui"
	"github.com/mschirtzinger/gitwatch/internal/vcs"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively create a .gitwatch.toml config file",
	Long: `Walk through gitwatch settings and write them to .gitwatch.toml in
the repository root. Flags and GITWATCH_* environment variables still
override the file at runtime.`,
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("path")

		v := openVCS(path)
		root, err := v.RepoRoot()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		file := filepath.Join(root, config.FileName)
		if _, err := os.Stat(file); err == nil {
			var overwrite bool
			confirm := huh.NewConfirm().
				Title(fmt.Sprintf("%s already exists. Overwrite?", config.FileName)).
				Value(&overwrite)
			if err := confirm.Run(); err != nil || !overwrite {
				fmt.Printf("%s Keeping existing config\n", ui.RenderMuted("·"))
				return
			}
		}

		currentBranch, _ := v.CurrentBranch()

		remote := vcs.DefaultRemote
		branch := currentBranch
		debounceStr := "2s"
		messageTmpl := autosync.DefaultTemplate
		push := true

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Remote").
					Description("Remote pushes go to").
					Value(&remote),
				huh.NewInput().
					Title("Branch").
					Description("Branch pushes target (empty: current branch)").
					Value(&branch),
				huh.NewInput().
					Title("Debounce").
					Description("Quiet period before syncing, e.g. 2s, 500ms").
					Value(&debounceStr).
					Validate(func(s string) error {
						d, err := time.ParseDuration(s)
						if err != nil {
							return fmt.Errorf("not a duration: %s", s)
						}
						if d <= 0 {
							return fmt.Errorf("must be positive")
						}
						return nil
					}),
				huh.NewInput().
					Title("Commit message template").
					Description("{ts} expands to the sync timestamp").
					Value(&messageTmpl),
				huh.NewConfirm().
					Title("Push after committing?").
					Value(&push),
			),
		)

		if err := form.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		d, err := time.ParseDuration(debounceStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid debounce: %v\n", err)
			os.Exit(1)
		}

		written, err := config.Save(root, &config.Config{
			Remote:   remote,
			Branch:   branch,
			Debounce: d,
			Push:     push,
			Message:  messageTmpl,
			Ignore:   []string{},
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("\n%s Wrote %s\n", ui.RenderPass("✓"), written)
		fmt.Printf("   Start watching with: gitwatch watch --path %s\n\n", root)
	},
}

func init() {
	initCmd.Flags().String("path", ".", "repository path")

	rootCmd.AddCommand(initCmd)
}
