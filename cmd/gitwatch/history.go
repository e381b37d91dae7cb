package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mschirtzinger/gitwatch/internal/autosync"
	"github.com/mschirtzinger/gitwatch/internal/history"
	"github.com/mschirtzinger/gitwatch/internal/ui"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent sync attempts",
	Long: `Display recent sync attempts from the repository's journal.

The journal lives inside the VCS metadata directory and records every
attempt: successful syncs with their commit hash, clean-tree no-ops,
and failures with the error that aborted them.`,
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("path")
		limit, _ := cmd.Flags().GetInt("limit")

		v := openVCS(path)

		vcsDir, err := v.VCSDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		journalPath := filepath.Join(vcsDir, filepath.FromSlash(history.FileName))
		if _, err := os.Stat(journalPath); os.IsNotExist(err) {
			fmt.Printf("\n%s No sync history yet\n", ui.RenderWarn("⚠"))
			fmt.Printf("   Run 'gitwatch watch' or 'gitwatch sync' to start recording\n\n")
			return
		}

		journal, err := history.Open(journalPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening journal: %v\n", err)
			os.Exit(1)
		}
		defer journal.Close()

		stats, err := journal.GetStats(cmd.Context())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading journal: %v\n", err)
			os.Exit(1)
		}

		attempts, err := journal.Recent(cmd.Context(), limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading journal: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("\n%s Sync History\n\n", ui.RenderAccent("📊"))
		fmt.Printf("Attempts: %d (%d synced, %d clean, %d failed)\n\n",
			stats.Total, stats.Synced, stats.NoChanges, stats.Failed)

		for _, a := range attempts {
			printAttempt(a)
		}
		fmt.Println()
	},
}

// printAttempt renders one journal row.
func printAttempt(a history.Attempt) {
	ts := a.Timestamp.Local().Format("2006-01-02 15:04:05")

	switch a.Outcome {
	case autosync.OutcomeSynced:
		line := fmt.Sprintf("%s %s  %s  %s", ui.RenderPass("✓"), ts, shortHash(a.CommitHash), a.Message)
		if a.Pushed {
			line += "  " + ui.RenderMuted("(pushed)")
		}
		fmt.Println(line)
	case autosync.OutcomeNoChanges:
		fmt.Printf("%s %s  %s\n", ui.RenderMuted("·"), ts, ui.RenderMuted("no changes"))
	case autosync.OutcomeFailed:
		fmt.Printf("%s %s  %s\n", ui.RenderFail("✗"), ts, a.Err)
	default:
		fmt.Printf("  %s  %s\n", ts, a.Outcome)
	}
}

func init() {
	f := historyCmd.Flags()
	f.String("path", ".", "repository path")
	f.Int("limit", 20, "number of attempts to show")

	rootCmd.AddCommand(historyCmd)
}
