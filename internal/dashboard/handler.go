// Package dashboard event handling and message formatting.
package dashboard

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/mschirtzinger/gitwatch/internal/autosync"
)

// Handler bridges daemon and runner callbacks to dashboard messages.
// Its methods are safe to install as autosync hooks; stats updates are
// guarded by a mutex since runner and watcher callbacks run on
// different goroutines.
type Handler struct {
	server *Server
	logger *log.Logger

	mu    sync.Mutex
	stats StatsData
}

// NewHandler creates a new event handler connected to a dashboard server
func NewHandler(server *Server, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}

	return &Handler{
		server: server,
		logger: logger,
	}
}

// OnChange handles a qualifying filesystem change.
// Install as the daemon's OnChange hook.
func (h *Handler) OnChange(path string) {
	data := ChangeData{Path: path}

	dataJSON, err := json.Marshal(data)
	if err != nil {
		h.logger.Printf("Failed to marshal change data: %v", err)
		return
	}

	h.server.Broadcast(Message{
		Type:      MessageTypeChangeDetected,
		Timestamp: time.Now(),
		Data:      dataJSON,
	})
}

// OnSyncStart handles the start of a sync attempt.
// Install as the runner's OnStart hook.
func (h *Handler) OnSyncStart(start time.Time) {
	h.server.Broadcast(Message{
		Type:      MessageTypeSyncStarted,
		Timestamp: start,
	})
}

// OnResult handles a finished sync attempt.
// Install as the runner's OnResult hook.
func (h *Handler) OnResult(res autosync.Result) {
	data := SyncData{
		Outcome:    string(res.Outcome),
		CommitHash: res.CommitHash,
		Message:    res.Message,
		Pushed:     res.Pushed,
		DurationMS: res.Duration.Milliseconds(),
		Error:      res.Err,
	}

	dataJSON, err := json.Marshal(data)
	if err != nil {
		h.logger.Printf("Failed to marshal sync data: %v", err)
		return
	}

	msgType := MessageTypeSyncComplete
	if res.Outcome == autosync.OutcomeFailed {
		msgType = MessageTypeSyncFailed
	}

	h.server.Broadcast(Message{
		Type:      msgType,
		Timestamp: time.Now(),
		Data:      dataJSON,
	})

	h.updateStats(res)
	h.broadcastStats()
}

// updateStats folds a result into the running counters.
func (h *Handler) updateStats(res autosync.Result) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.stats.Total++
	switch res.Outcome {
	case autosync.OutcomeSynced:
		h.stats.Synced++
		h.stats.LastSync = res.Timestamp
	case autosync.OutcomeNoChanges:
		h.stats.NoChanges++
	case autosync.OutcomeFailed:
		h.stats.Failed++
	}
}

// SeedStats initializes the counters from persisted journal totals so
// a restarted daemon reports lifetime statistics, not session ones.
func (h *Handler) SeedStats(stats StatsData) {
	h.mu.Lock()
	h.stats = stats
	h.mu.Unlock()

	h.broadcastStats()
}

// GetStats returns a copy of the current statistics
func (h *Handler) GetStats() StatsData {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats
}

// broadcastStats sends current statistics to all clients
func (h *Handler) broadcastStats() {
	h.mu.Lock()
	stats := h.stats
	h.mu.Unlock()

	dataJSON, err := json.Marshal(stats)
	if err != nil {
		h.logger.Printf("Failed to marshal stats: %v", err)
		return
	}

	h.server.Broadcast(Message{
		Type:      MessageTypeStats,
		Timestamp: time.Now(),
		Data:      dataJSON,
	})
}
