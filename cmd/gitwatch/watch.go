package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mschirtzinger/gitwatch/internal/autosync"
	"github.com/mschirtzinger/gitwatch/internal/dashboard"
	"github.com/mschirtzinger/gitwatch/internal/ui"
	"github.com/mschirtzinger/gitwatch/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a repository and sync changes continuously",
	Long: `Watch the repository for filesystem changes and run a sync cycle
(stage, commit, push) once the tree has been quiet for the debounce
period.

The watcher skips VCS metadata directories (.git, .jj) and any path
containing an --ignore substring. Runs until interrupted; SIGINT or
SIGTERM shuts down cleanly, letting an in-flight sync finish.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		out := logWriter(cfg)
		logger := log.New(out, "[gitwatch] ", log.LstdFlags)

		v := openVCS(cfg.Path)

		runner, journal, err := buildRunner(cfg, v, out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if journal != nil {
			defer journal.Close()
		}

		filter := watch.NewFilter(watch.DefaultMetaDirs(), cfg.Ignore)
		daemon, err := autosync.NewDaemon(runner, filter, autosync.DaemonConfig{
			Debounce: cfg.Debounce,
			Logger:   logger,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		// Optional dashboard
		if cfg.Listen != "" {
			srv := dashboard.NewServer(&dashboard.Config{
				Addr:   cfg.Listen,
				Logger: logger,
			})
			if err := srv.Start(); err != nil {
				fmt.Fprintf(os.Stderr, "Error starting dashboard: %v\n", err)
				os.Exit(1)
			}
			defer func() { _ = srv.Stop() }()

			handler := dashboard.NewHandler(srv, logger)
			if journal != nil {
				if stats, err := journal.GetStats(cmd.Context()); err == nil {
					handler.SeedStats(dashboard.StatsData{
						Total:     stats.Total,
						Synced:    stats.Synced,
						NoChanges: stats.NoChanges,
						Failed:    stats.Failed,
					})
				}
			}
			runner.OnStart = handler.OnSyncStart
			runner.OnResult = handler.OnResult
			daemon.OnChange = handler.OnChange
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		session := runner.Session()
		fmt.Printf("%s Watching %s\n", ui.RenderAccent("🚀"), ui.RenderBold(session.Root))
		fmt.Printf("   VCS: %s\n", v.Name())
		if session.Push {
			fmt.Printf("   Push: %s %s\n", session.Remote, session.Branch)
		} else {
			fmt.Printf("   Push: %s\n", ui.RenderMuted("disabled"))
		}
		fmt.Printf("   Debounce: %s\n", cfg.Debounce)
		fmt.Printf("\nPress Ctrl+C to stop\n\n")

		if err := daemon.Run(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	f := watchCmd.Flags()
	f.String("path", ".", "repository path to watch")
	f.String("remote", "origin", "remote to push to")
	f.String("branch", "", "branch to push (default: current branch)")
	f.Duration("debounce", watch.DefaultDebounce, "quiet period before syncing")
	f.Bool("no-push", false, "commit locally without pushing")
	f.StringSlice("ignore", nil, "path substrings to skip (repeatable)")
	f.String("message", autosync.DefaultTemplate, "commit message template ({ts} expands to the timestamp)")
	f.String("log-file", "", "tee logs into this rotating file")
	f.String("listen", "", "serve the live dashboard on this address (e.g. 127.0.0.1:8787)")
	f.Bool("ai-message", false, "generate commit messages from the diff (requires ANTHROPIC_API_KEY)")
	f.String("ai-model", "", "model for --ai-message")

	rootCmd.AddCommand(watchCmd)
}
