package main

import (
	"os"

	// Register VCS backends
	_ "github.com/mschirtzinger/gitwatch/internal/vcs/git"
	_ "github.com/mschirtzinger/gitwatch/internal/vcs/jj"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
