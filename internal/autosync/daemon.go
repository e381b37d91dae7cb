package autosync

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/mschirtzinger/gitwatch/internal/vcs"
	"github.com/mschirtzinger/gitwatch/internal/watch"
)

// DaemonConfig configures the watch daemon.
type DaemonConfig struct {
	// Debounce is the quiet period after the last change before a sync
	// starts. Zero uses watch.DefaultDebounce.
	Debounce time.Duration

	// Logger for daemon lifecycle messages. Nil falls back to a stderr
	// logger with the [gitwatch] prefix.
	Logger *log.Logger
}

// Daemon connects a filesystem watcher to a sync runner: qualifying
// change events arm a debounce timer, and once the tree has been quiet
// for the configured period, one sync cycle runs.
type Daemon struct {
	runner    *Runner
	watcher   *watch.Watcher
	debouncer *watch.Debouncer
	logger    *log.Logger

	// OnChange, when set, is invoked for every qualifying change event.
	// Used to publish dashboard events; must not block.
	OnChange func(path string)

	// syncCtx is handed to in-flight syncs. It is detached from the run
	// context so shutdown lets the current cycle finish instead of
	// killing its subprocesses halfway.
	syncCtx context.Context

	// fatal carries a non-recoverable sync error out of the debounce
	// callback so Run can exit instead of looping on a dead repository.
	fatal chan error
}

// NewDaemon creates a daemon driving the given runner. The filter
// decides which paths count as changes; nil uses the default filter
// (VCS metadata directories only).
func NewDaemon(runner *Runner, filter *watch.Filter, cfg DaemonConfig) (*Daemon, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "[gitwatch] ", log.LstdFlags)
	}

	watcher, err := watch.NewWatcher(filter)
	if err != nil {
		return nil, err
	}

	d := &Daemon{
		runner:  runner,
		watcher: watcher,
		logger:  logger,
		syncCtx: context.Background(),
		fatal:   make(chan error, 1),
	}
	d.debouncer = watch.NewDebouncer(cfg.Debounce, d.sync, logger)

	return d, nil
}

// Run watches the session's repository root until ctx is canceled.
//
// Shutdown order matters: the watcher stops first so no new triggers
// arrive, then the debouncer is stopped, which waits for any sync still
// in flight before Run returns.
func (d *Daemon) Run(ctx context.Context) error {
	root := d.runner.Session().Root
	d.syncCtx = context.WithoutCancel(ctx)

	if err := d.watcher.Start(root); err != nil {
		return err
	}

	d.logger.Printf("Watching %s (debounce %s)", root, d.debouncer.Delay())

	for {
		select {
		case <-ctx.Done():
			d.logger.Printf("Shutting down")
			err := d.watcher.Stop()
			d.debouncer.Stop()
			return err

		case ev, ok := <-d.watcher.Events():
			if !ok {
				d.debouncer.Stop()
				return nil
			}
			if d.OnChange != nil {
				d.OnChange(ev.Path)
			}
			d.debouncer.Trigger()

		case err, ok := <-d.watcher.Errors():
			if !ok {
				d.debouncer.Stop()
				return nil
			}
			d.logger.Printf("Watch error: %v", err)

		case err := <-d.fatal:
			d.logger.Printf("Fatal sync error: %v", err)
			_ = d.watcher.Stop()
			d.debouncer.Stop()
			return err
		}
	}
}

// sync runs one cycle on behalf of the debouncer. Errors are already
// logged and recorded by the runner; the daemon keeps going unless the
// error is one no later sync can recover from.
func (d *Daemon) sync() {
	if _, err := d.runner.Sync(d.syncCtx); vcs.IsFatal(err) {
		select {
		case d.fatal <- err:
		default:
		}
	}
}
