package game

import (
	"log/slog"

	"github.com/pthm-cable/meltdown/systems"
	"github.com/pthm-cable/meltdown/telemetry"
)

// initTelemetry creates the collectors and, if requested, the CSV output.
func (g *Game) initTelemetry(opts Options) {
	window := g.cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		window = opts.StatsWindowSec
	}
	g.collector = telemetry.NewCollector(window, g.cfg.Derived.DT32)
	g.perfCollector = telemetry.NewPerfCollector(g.cfg.Telemetry.PerfWindow)
	g.bookmarkDetector = telemetry.NewBookmarkDetector(10, g.cfg.Audio.MaxThreat)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Warn("telemetry output disabled", "dir", opts.OutputDir, "error", err)
		return
	}
	g.outputManager = om
	if err := om.WriteConfig(g.cfg); err != nil {
		slog.Warn("failed to write config snapshot", "error", err)
	}
}

// recordTick moves this tick's counters into the window collector.
func (g *Game) recordTick(res systems.ApplyResult) {
	c := g.sess.Counters
	for i := range c.Fissions {
		g.collector.RecordFission(i < c.TerminalFissions)
	}
	for range c.FriendlySkips {
		g.collector.RecordFriendlySkip()
	}
	for range c.Pickups {
		g.collector.RecordPickup()
	}
	g.collector.RecordContacts(c.EnemyContacts, c.PlayerContacts)
	g.collector.RecordDamage(c.DamageTaken)
	g.collector.RecordSpawns(res.AtomsSpawned, res.NeutronsSpawned)
	g.collector.RecordExpired(c.Expired)
	g.collector.RecordPlayerActions(c.Shots, c.Dashes)
}

// snapshot samples the gauges reported with each window.
func (g *Game) snapshot() telemetry.Snapshot {
	census := g.Census()
	health, bullets := g.PlayerStatus()
	return telemetry.Snapshot{
		Atoms:        census.Atoms,
		Neutrons:     census.Neutrons,
		Pickups:      census.Pickups,
		Threat:       g.sess.Threat,
		PlayerHealth: health.Current(),
		Bullets:      bullets.Count,
		TotalEvents:  g.sess.TotalEvents,
		Generations:  census.Generations,
	}
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	tick := g.Tick()
	if !g.collector.ShouldFlush(tick) {
		return
	}

	stats := g.collector.Flush(tick, g.snapshot())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	} else {
		slog.Debug("window", "tick", tick, "perf", perfStats)
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

// closeTelemetry flushes and closes the CSV output.
func (g *Game) closeTelemetry() {
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close telemetry output", "error", err)
	}
}
