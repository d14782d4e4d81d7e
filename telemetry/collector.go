package telemetry

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	fissions         int
	terminalFissions int
	friendlySkips    int
	enemyContacts    int
	playerContacts   int
	damageTaken      float64
	pickupsTaken     int
	atomsSpawned     int
	neutronsSpawned  int
	expired          int
	shots            int
	dashes           int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in game seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordFission records a reaction. terminal marks an atom at max generation.
func (c *Collector) RecordFission(terminal bool) {
	c.fissions++
	if terminal {
		c.terminalFissions++
	}
}

// RecordFriendlySkip records a contact ignored because both sides share a progenitor.
func (c *Collector) RecordFriendlySkip() {
	c.friendlySkips++
}

// RecordContacts records new enemy and player contacts.
func (c *Collector) RecordContacts(enemy, player int) {
	c.enemyContacts += enemy
	c.playerContacts += player
}

// RecordDamage records damage taken by the player.
func (c *Collector) RecordDamage(amount float64) {
	c.damageTaken += amount
}

// RecordPickup records a collected pickup.
func (c *Collector) RecordPickup() {
	c.pickupsTaken++
}

// RecordSpawns records spawned atoms and neutrons.
func (c *Collector) RecordSpawns(atoms, neutrons int) {
	c.atomsSpawned += atoms
	c.neutronsSpawned += neutrons
}

// RecordExpired records entities removed by their lifespan.
func (c *Collector) RecordExpired(n int) {
	c.expired += n
}

// RecordPlayerActions records shots fired and dashes started.
func (c *Collector) RecordPlayerActions(shots, dashes int) {
	c.shots += shots
	c.dashes += dashes
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Snapshot holds gauges sampled by the caller at flush time.
type Snapshot struct {
	Atoms        int
	Neutrons     int
	Pickups      int
	Threat       int
	PlayerHealth float64
	Bullets      int
	TotalEvents  uint64
	Generations  []float64
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, snap Snapshot) WindowStats {
	elapsed := float64(currentTick-c.windowStartTick) * float64(c.dt)
	var rate float64
	if elapsed > 0 {
		rate = float64(c.fissions) / elapsed
	}

	genMean, genStd, genP50, genMax := ComputeGenerationStats(snap.Generations)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Atoms:    snap.Atoms,
		Neutrons: snap.Neutrons,
		Pickups:  snap.Pickups,
		Threat:   snap.Threat,

		PlayerHealth: snap.PlayerHealth,
		Bullets:      snap.Bullets,

		Fissions:         c.fissions,
		TerminalFissions: c.terminalFissions,
		FriendlySkips:    c.friendlySkips,
		FissionRate:      rate,
		TotalEvents:      snap.TotalEvents,

		EnemyContacts:  c.enemyContacts,
		PlayerContacts: c.playerContacts,
		DamageTaken:    c.damageTaken,
		PickupsTaken:   c.pickupsTaken,

		AtomsSpawned:    c.atomsSpawned,
		NeutronsSpawned: c.neutronsSpawned,
		Expired:         c.expired,
		Shots:           c.shots,
		Dashes:          c.dashes,

		GenMean: genMean,
		GenStd:  genStd,
		GenP50:  genP50,
		GenMax:  genMax,
	}

	// Reset for next window
	*c = Collector{
		windowDurationSec:   c.windowDurationSec,
		windowDurationTicks: c.windowDurationTicks,
		dt:                  c.dt,
		windowStartTick:     currentTick,
	}

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
