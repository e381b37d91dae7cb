package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mschirtzinger/gitwatch/internal/autosync"
	"github.com/mschirtzinger/gitwatch/internal/config"
	"github.com/mschirtzinger/gitwatch/internal/history"
	"github.com/mschirtzinger/gitwatch/internal/message"
	"github.com/mschirtzinger/gitwatch/internal/vcs"
)

// viperKeys maps config keys to the flag names that override them.
var viperKeys = map[string]string{
	"path":       "path",
	"remote":     "remote",
	"branch":     "branch",
	"debounce":   "debounce",
	"ignore":     "ignore",
	"message":    "message",
	"log_file":   "log-file",
	"listen":     "listen",
	"ai_message": "ai-message",
	"ai_model":   "ai-model",
}

// loadConfig resolves configuration for a command: its flags override
// GITWATCH_* environment variables, which override the repository's
// .gitwatch.toml, which overrides defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := config.New()
	flags := cmd.Flags()

	for key, name := range viperKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}

	cfg, err := config.Load(v, v.GetString("path"))
	if err != nil {
		return nil, err
	}

	// --no-push inverts the push setting rather than binding to it.
	if noPush, err := flags.GetBool("no-push"); err == nil && noPush {
		cfg.Push = false
	}

	return cfg, nil
}

// openVCS resolves the VCS backend for path. Exits with status 2 when
// the path is not a working copy, 1 on any other failure.
func openVCS(path string) vcs.VCS {
	v, err := vcs.GetForPath(path)
	if err != nil {
		if errors.Is(err, vcs.ErrNotInVCS) {
			fmt.Fprintf(os.Stderr, "Error: %s is not a git or jj working copy\n", path)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return v
}

// logWriter returns the destination for daemon logs: stderr, teed into
// a rotating file when --log-file is set.
func logWriter(cfg *config.Config) io.Writer {
	if cfg.LogFile == "" {
		return os.Stderr
	}

	return io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	})
}

// buildRunner assembles a sync runner with its journal and optional
// message generator. The journal is best-effort: a failure to open it
// is reported but does not prevent syncing. The caller must Close a
// non-nil journal.
func buildRunner(cfg *config.Config, v vcs.VCS, out io.Writer) (*autosync.Runner, *history.Journal, error) {
	session, err := autosync.NewSession(v, cfg.Remote, cfg.Branch, cfg.Message, cfg.Push)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build sync session: %w", err)
	}

	runner := autosync.NewRunner(session, v, log.New(out, "[sync] ", log.LstdFlags))

	var journal *history.Journal
	if vcsDir, err := v.VCSDir(); err == nil {
		journal, err = history.OpenForRepo(vcsDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: sync history disabled: %v\n", err)
			journal = nil
		}
	}
	if journal != nil {
		runner.SetJournal(journal)
	}

	if cfg.AIMessage {
		gen, err := message.NewClaude(cfg.AIModel)
		if err != nil {
			if journal != nil {
				_ = journal.Close()
			}
			return nil, nil, fmt.Errorf("--ai-message: %w", err)
		}
		runner.SetGenerator(gen)
	}

	return runner, journal, nil
}
