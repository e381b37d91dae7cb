package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mschirtzinger/gitwatch/internal/autosync"
	"github.com/mschirtzinger/gitwatch/internal/ui"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one sync cycle and exit",
	Long: `Run a single stage-commit-push cycle immediately, without watching.

Useful from cron or scripts where the debounced daemon is not wanted.
Exit status is 0 when the cycle succeeds (including a clean tree),
1 when a step fails, 2 when the path is not a working copy.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		v := openVCS(cfg.Path)

		// The runner's own log lines would duplicate the output below.
		runner, journal, err := buildRunner(cfg, v, io.Discard)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if journal != nil {
			defer journal.Close()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		res, err := runner.Sync(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s Sync failed: %v\n", ui.RenderFail("✗"), err)
			os.Exit(1)
		}

		switch res.Outcome {
		case autosync.OutcomeNoChanges:
			fmt.Printf("%s No changes to commit\n", ui.RenderMuted("·"))
			if res.Pushed {
				fmt.Printf("%s Pushed previously committed changes\n", ui.RenderPass("✓"))
			}
		case autosync.OutcomeSynced:
			fmt.Printf("%s Synced at %s\n", ui.RenderPass("✓"), autosync.Timestamp(res.Timestamp))
			if res.CommitHash != "" {
				fmt.Printf("   Commit: %s\n", shortHash(res.CommitHash))
			}
			fmt.Printf("   Message: %s\n", res.Message)
			if res.Pushed {
				session := runner.Session()
				fmt.Printf("   Pushed: %s %s\n", session.Remote, session.Branch)
			}
		}
	},
}

// shortHash abbreviates a commit hash for display.
func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

func init() {
	f := syncCmd.Flags()
	f.String("path", ".", "repository path to sync")
	f.String("remote", "origin", "remote to push to")
	f.String("branch", "", "branch to push (default: current branch)")
	f.Bool("no-push", false, "commit locally without pushing")
	f.String("message", autosync.DefaultTemplate, "commit message template ({ts} expands to the timestamp)")
	f.Bool("ai-message", false, "generate the commit message from the diff (requires ANTHROPIC_API_KEY)")
	f.String("ai-model", "", "model for --ai-message")

	rootCmd.AddCommand(syncCmd)
}
