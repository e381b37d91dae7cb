package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gitwatch",
	Short: "Watch a repository and auto-commit changes",
	Long: `gitwatch watches a working copy for filesystem changes and, after a
quiet period, stages, commits, and pushes them using the repository's
own VCS client (git or jj).

Typical use is keeping a notes or config repository continuously backed
up without manual commits:

  gitwatch watch --path ~/notes --debounce 5s`,
	SilenceUsage:  true,
	SilenceErrors: true,
}
