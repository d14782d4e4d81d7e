package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Census at window end
	Atoms    int `csv:"atoms"`
	Neutrons int `csv:"neutrons"`
	Pickups  int `csv:"pickups"`
	Threat   int `csv:"threat"`

	// Player at window end
	PlayerHealth float64 `csv:"player_health"`
	Bullets      int     `csv:"bullets"`

	// Reactions during window
	Fissions         int     `csv:"fissions"`
	TerminalFissions int     `csv:"terminal_fissions"`
	FriendlySkips    int     `csv:"friendly_skips"`
	FissionRate      float64 `csv:"fission_rate"` // Fissions per second
	TotalEvents      uint64  `csv:"total_events"`

	// Contacts during window
	EnemyContacts  int     `csv:"enemy_contacts"`
	PlayerContacts int     `csv:"player_contacts"`
	DamageTaken    float64 `csv:"damage_taken"`
	PickupsTaken   int     `csv:"pickups_taken"`

	// Lifecycle during window
	AtomsSpawned    int `csv:"atoms_spawned"`
	NeutronsSpawned int `csv:"neutrons_spawned"`
	Expired         int `csv:"expired"`
	Shots           int `csv:"shots"`
	Dashes          int `csv:"dashes"`

	// Atom generation distribution (sampled at window end)
	GenMean float64 `csv:"gen_mean"`
	GenStd  float64 `csv:"gen_std"`
	GenP50  float64 `csv:"gen_p50"`
	GenMax  float64 `csv:"gen_max"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeGenerationStats calculates mean, standard deviation, median and
// maximum of atom generations.
func ComputeGenerationStats(values []float64) (mean, std, p50, maxGen float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	if n > 1 {
		mean, std = stat.MeanStdDev(values, nil)
	} else {
		mean = values[0]
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	return mean, std, Percentile(sorted, 0.5), floats.Max(sorted)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"atoms", s.Atoms,
		"neutrons", s.Neutrons,
		"pickups", s.Pickups,
		"threat", s.Threat,
		"player_health", s.PlayerHealth,
		"bullets", s.Bullets,
		"fissions", s.Fissions,
		"terminal_fissions", s.TerminalFissions,
		"friendly_skips", s.FriendlySkips,
		"fission_rate", s.FissionRate,
		"total_events", s.TotalEvents,
		"enemy_contacts", s.EnemyContacts,
		"player_contacts", s.PlayerContacts,
		"damage_taken", s.DamageTaken,
		"pickups_taken", s.PickupsTaken,
		"atoms_spawned", s.AtomsSpawned,
		"neutrons_spawned", s.NeutronsSpawned,
		"expired", s.Expired,
		"gen_mean", s.GenMean,
		"gen_max", s.GenMax,
	)
}
