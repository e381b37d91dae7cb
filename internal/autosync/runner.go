package autosync

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/mschirtzinger/gitwatch/internal/message"
	"github.com/mschirtzinger/gitwatch/internal/vcs"
)

// Outcome classifies a finished sync attempt.
type Outcome string

const (
	// OutcomeSynced means changes were committed (and pushed, if enabled).
	OutcomeSynced Outcome = "synced"

	// OutcomeNoChanges means the working tree was clean.
	OutcomeNoChanges Outcome = "no_changes"

	// OutcomeFailed means a step failed and the attempt was abandoned.
	OutcomeFailed Outcome = "failed"
)

// Result describes one finished sync attempt.
type Result struct {
	// Timestamp is when the attempt started (UTC)
	Timestamp time.Time

	// Outcome classifies the attempt
	Outcome Outcome

	// CommitHash is the created commit, when one was made
	CommitHash string

	// Message is the commit message, when a commit was made
	Message string

	// Err holds the failure detail for OutcomeFailed
	Err string

	// Pushed is true if a push to the remote succeeded
	Pushed bool

	// Duration is the total attempt duration
	Duration time.Duration
}

// Recorder persists sync attempt results.
// Implemented by the history journal; a nil Recorder disables recording.
type Recorder interface {
	Record(r Result) error
}

// Runner executes the stage-commit-push sequence for a session.
//
// Sync is serialized with a mutex: a debounce trigger arriving while a
// sync is still running waits for it instead of racing the working tree.
type Runner struct {
	session *Session
	v       vcs.VCS
	logger  *log.Logger

	// journal records attempts; nil disables recording
	journal Recorder

	// generator produces commit messages; nil uses the session template
	generator message.Generator

	// OnStart, when set, is invoked as an attempt begins.
	// Used to publish dashboard events.
	OnStart func(time.Time)

	// OnResult, when set, is invoked after every attempt.
	// Used to publish dashboard events.
	OnResult func(Result)

	mu sync.Mutex

	// pushPending is set when a commit landed locally but its push
	// failed; the next sync retries the push even on a clean tree.
	pushPending bool
}

// NewRunner creates a runner for the given session and VCS backend.
// A nil logger falls back to a stderr logger with the [sync] prefix.
func NewRunner(session *Session, v vcs.VCS, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(os.Stderr, "[sync] ", log.LstdFlags)
	}
	return &Runner{
		session: session,
		v:       v,
		logger:  logger,
	}
}

// SetJournal attaches a recorder for sync attempts.
func (r *Runner) SetJournal(j Recorder) {
	r.journal = j
}

// SetGenerator attaches a commit message generator.
func (r *Runner) SetGenerator(g message.Generator) {
	r.generator = g
}

// Session returns the runner's read-only session.
func (r *Runner) Session() *Session {
	return r.session
}

// Sync runs one stage-commit-push cycle.
//
// Failures are logged and recorded, never panicked: the returned error
// lets one-shot callers set an exit code, while the daemon only logs it.
// No step is retried and nothing is rolled back; a later sync starts
// fresh (except a pending push, which is retried - see pushPending).
func (r *Runner) Sync(ctx context.Context) (Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	ts := Timestamp(start)
	res := Result{Timestamp: start.UTC()}

	if r.OnStart != nil {
		r.OnStart(start)
	}

	if err := r.v.StageAll(ctx); err != nil {
		return r.fail(res, start, "stage", err)
	}

	changed, err := r.v.HasChanges(ctx)
	if err != nil {
		return r.fail(res, start, "status", err)
	}

	if !changed {
		r.logger.Printf("No changes to commit")
		res.Outcome = OutcomeNoChanges

		// A previous commit may still be waiting for its push.
		if r.pushPending && r.session.Push {
			if err := r.push(ctx); err != nil {
				r.logger.Printf("Push retry failed: %v", err)
			} else {
				r.logger.Printf("Pushed previously committed changes")
				r.pushPending = false
				res.Pushed = true
			}
		}

		res.Duration = time.Since(start)
		r.record(res)
		return res, nil
	}

	msg := r.composeMessage(ctx, ts)

	if err := r.v.Commit(ctx, vcs.CommitOptions{Message: msg}); err != nil {
		return r.fail(res, start, "commit", err)
	}
	res.Message = msg

	if hash, err := r.v.GetCommitHash(""); err == nil {
		res.CommitHash = hash
	}

	if r.session.Push {
		if err := r.push(ctx); err != nil {
			r.pushPending = true
			return r.fail(res, start, "push", err)
		}
		r.pushPending = false
		res.Pushed = true
	}

	r.logger.Printf("Synced at %s", ts)
	res.Outcome = OutcomeSynced
	res.Duration = time.Since(start)
	r.record(res)
	return res, nil
}

// push pushes the session's branch to its remote.
func (r *Runner) push(ctx context.Context) error {
	return r.v.Push(ctx, vcs.PushOptions{
		Remote: r.session.Remote,
		Ref:    r.session.Branch,
	})
}

// composeMessage returns the commit message for this attempt.
// The generator gets the staged diff summary for context; any generator
// failure falls back to the session template silently.
func (r *Runner) composeMessage(ctx context.Context, ts string) string {
	fallback := r.session.FormatMessage(ts)

	if r.generator == nil {
		return fallback
	}

	diff, err := r.v.DiffSummary(ctx)
	if err != nil {
		r.logger.Printf("Diff summary failed, using template message: %v", err)
		return fallback
	}

	msg, err := r.generator.Generate(ctx, ts, diff)
	if err != nil || msg == "" {
		if err != nil {
			r.logger.Printf("Message generation failed, using template message: %v", err)
		}
		return fallback
	}

	return msg
}

// fail finalizes a failed attempt: log, record, return.
func (r *Runner) fail(res Result, start time.Time, step string, err error) (Result, error) {
	wrapped := fmt.Errorf("%s failed: %w", step, err)
	r.logger.Printf("Sync aborted: %v", wrapped)

	res.Outcome = OutcomeFailed
	res.Err = wrapped.Error()
	res.Duration = time.Since(start)
	r.record(res)
	return res, wrapped
}

// record persists and publishes a result. Recording problems are
// logged, never propagated: the journal is observational.
func (r *Runner) record(res Result) {
	if r.journal != nil {
		if err := r.journal.Record(res); err != nil {
			r.logger.Printf("Failed to record sync attempt: %v", err)
		}
	}
	if r.OnResult != nil {
		r.OnResult(res)
	}
}
