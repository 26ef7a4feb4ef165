package game

import (
	"log/slog"

	"github.com/pthm-cable/flock/telemetry"
)

// flushTelemetry samples the flock at the end of each stats window and
// writes the results.
func (g *Game) flushTelemetry() {
	tick := g.pipeline.Ticks()
	if tick%uint64(g.cfg.Derived.StatsTicks) != 0 {
		return
	}

	stats := g.sampler.Sample(g.arena, tick, g.simTime.Seconds())
	perfStats := g.perfCollector.Stats()
	g.lastFlock = stats

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteFlock(stats); err != nil {
		slog.Error("failed to write flock stats", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, tick, g.pipeline.Workers()); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	bookmarks := g.bookmarkDetector.Check(stats)
	if g.logStats {
		for _, bm := range bookmarks {
			bm.LogBookmark()
		}
	}
	if err := g.outputManager.WriteBookmarks(bookmarks); err != nil {
		slog.Error("failed to write bookmarks", "error", err)
	}
}

// LastFlockStats returns the most recent flock stats window.
func (g *Game) LastFlockStats() telemetry.FlockStats {
	return g.lastFlock
}
