package pinboard

import (
	"log/slog"
	"time"
)

// SetDebugMode enables per-commit statistics logged at Info level: snapshot
// copy time, entity counts and history depth.
func (c *Controller) SetDebugMode(enabled bool) { c.debug = enabled }

// DebugMode reports whether debug statistics are enabled.
func (c *Controller) DebugMode() bool { return c.debug }

// debugStats holds the numbers logged for one history push.
type debugStats struct {
	action       string
	snapshotTime time.Duration
	notes        int
	connectors   int
	strokes      int
	dangling     int
	historyLen   int
	historyIndex int
}

func (c *Controller) debugCommit(action string, elapsed time.Duration) {
	if !c.debug {
		return
	}
	sc := c.st.Scene
	stats := debugStats{
		action:       action,
		snapshotTime: elapsed,
		notes:        len(sc.notes),
		connectors:   len(sc.connectors),
		strokes:      len(sc.strokes),
		historyLen:   c.st.History.Len(),
		historyIndex: c.st.History.Index(),
	}
	for _, conn := range sc.connectors {
		if sc.IsDangling(conn) {
			stats.dangling++
		}
	}
	c.debugLog(stats)
}

func (c *Controller) debugLog(s debugStats) {
	c.log.Info("[pinboard] commit",
		slog.String("action", s.action),
		slog.Duration("snapshot", s.snapshotTime),
		slog.Int("notes", s.notes),
		slog.Int("connectors", s.connectors),
		slog.Int("dangling", s.dangling),
		slog.Int("strokes", s.strokes),
		slog.Int("history_len", s.historyLen),
		slog.Int("history_index", s.historyIndex),
	)
	if s.historyLen >= c.st.History.Limit() {
		c.log.Warn("[pinboard] history full, oldest snapshots are being evicted",
			slog.Int("limit", c.st.History.Limit()))
	}
}
