package telemetry

import (
	"log/slog"
	"slices"
	"time"
)

// Phase is one timed stage of the game step, in execution order.
type Phase uint8

const (
	PhaseInput Phase = iota
	PhaseSpawn
	PhaseMovement
	PhasePlayerCollision
	PhaseEnemyCollision
	PhaseReactions
	PhaseLifecycle
	PhaseFeedback
	PhaseCommit
	PhaseTelemetry
	phaseCount
)

var phaseNames = [phaseCount]string{
	"input",
	"spawn",
	"movement",
	"player_collision",
	"enemy_collision",
	"reactions",
	"lifecycle",
	"feedback",
	"commit",
	"telemetry",
}

func (p Phase) String() string {
	if p >= phaseCount {
		return "unknown"
	}
	return phaseNames[p]
}

type tickSample struct {
	total  time.Duration
	phases [phaseCount]time.Duration
	seen   [phaseCount]bool
}

// PerfCollector times game steps over a rolling window of ticks.
// Phase durations live in fixed arrays, so timing a tick does not allocate.
type PerfCollector struct {
	ring   []tickSample
	next   int
	filled int

	cur        tickSample
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool

	lastFrame time.Time
	frame     time.Duration

	now func() time.Time
}

// NewPerfCollector creates a collector averaging over window ticks (default 60).
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{ring: make([]tickSample, window), now: time.Now}
}

// StartTick begins timing a step.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.cur = tickSample{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := p.now()
	p.closePhase(now)
	p.phase = phase
	p.phaseStart = now
	p.inPhase = true
}

// EndTick closes the running phase and stores the tick in the window.
func (p *PerfCollector) EndTick() {
	now := p.now()
	p.closePhase(now)
	p.inPhase = false
	p.cur.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.filled = min(p.filled+1, len(p.ring))
}

func (p *PerfCollector) closePhase(now time.Time) {
	if !p.inPhase || p.phase >= phaseCount {
		return
	}
	p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	p.cur.seen[p.phase] = true
}

// RecordFrame marks a rendered frame; the gap to the previous one gives FPS.
func (p *PerfCollector) RecordFrame() {
	now := p.now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PhaseStat is the timing of one phase over the window.
type PhaseStat struct {
	Phase Phase
	Avg   time.Duration
	Peak  time.Duration // Slowest single tick
	Pct   float64       // Share of the average tick, in percent
}

// PerfStats aggregates the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	TicksPerSecond  float64

	// Phases that ran at least once in the window, in step order.
	Phases []PhaseStat

	FrameDuration time.Duration
	FPS           float64
}

// Stats summarizes the ticks currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{FrameDuration: p.frame}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return s
	}

	var total time.Duration
	var sums, peaks [phaseCount]time.Duration
	var seen [phaseCount]bool
	for i, sample := range p.ring[:p.filled] {
		total += sample.total
		if i == 0 || sample.total < s.MinTickDuration {
			s.MinTickDuration = sample.total
		}
		s.MaxTickDuration = max(s.MaxTickDuration, sample.total)
		for ph := range phaseCount {
			if !sample.seen[ph] {
				continue
			}
			seen[ph] = true
			sums[ph] += sample.phases[ph]
			peaks[ph] = max(peaks[ph], sample.phases[ph])
		}
	}

	n := time.Duration(p.filled)
	s.AvgTickDuration = total / n
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}

	for ph := range phaseCount {
		if !seen[ph] {
			continue
		}
		st := PhaseStat{Phase: ph, Avg: sums[ph] / n, Peak: peaks[ph]}
		if s.AvgTickDuration > 0 {
			st.Pct = float64(st.Avg) / float64(s.AvgTickDuration) * 100
		}
		s.Phases = append(s.Phases, st)
	}
	return s
}

// Phase returns the stats of one phase, if it ran in the window.
func (s PerfStats) Phase(ph Phase) (PhaseStat, bool) {
	for _, st := range s.Phases {
		if st.Phase == ph {
			return st, true
		}
	}
	return PhaseStat{}, false
}

// Slowest returns the phases ordered by average duration, slowest first.
func (s PerfStats) Slowest() []PhaseStat {
	out := slices.Clone(s.Phases)
	slices.SortStableFunc(out, func(a, b PhaseStat) int {
		switch {
		case a.Avg > b.Avg:
			return -1
		case a.Avg < b.Avg:
			return 1
		}
		return 0
	})
	return out
}

// LogStats logs the window at Info level. Phases under 0.1% are left out.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, st := range s.Phases {
		if st.Pct > 0.1 {
			attrs = append(attrs, st.Phase.String()+"_pct", float64(int(st.Pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, st := range s.Phases {
		attrs = append(attrs, slog.Float64(st.Phase.String()+"_pct", st.Pct))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd          int32   `csv:"window_end"`
	AvgTickUS          int64   `csv:"avg_tick_us"`
	MinTickUS          int64   `csv:"min_tick_us"`
	MaxTickUS          int64   `csv:"max_tick_us"`
	TicksPerSec        float64 `csv:"ticks_per_sec"`
	FPS                float64 `csv:"fps"`
	InputPct           float64 `csv:"input_pct"`
	SpawnPct           float64 `csv:"spawn_pct"`
	MovementPct        float64 `csv:"movement_pct"`
	PlayerCollisionPct float64 `csv:"player_collision_pct"`
	EnemyCollisionPct  float64 `csv:"enemy_collision_pct"`
	EnemyCollisionPeak int64   `csv:"enemy_collision_peak_us"`
	ReactionsPct       float64 `csv:"reactions_pct"`
	LifecyclePct       float64 `csv:"lifecycle_pct"`
	FeedbackPct        float64 `csv:"feedback_pct"`
	CommitPct          float64 `csv:"commit_pct"`
	TelemetryPct       float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats into a perf.csv row.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	var pct [phaseCount]float64
	var peakUS [phaseCount]int64
	for _, st := range s.Phases {
		if st.Phase < phaseCount {
			pct[st.Phase] = st.Pct
			peakUS[st.Phase] = st.Peak.Microseconds()
		}
	}
	return PerfStatsCSV{
		WindowEnd:          windowEnd,
		AvgTickUS:          s.AvgTickDuration.Microseconds(),
		MinTickUS:          s.MinTickDuration.Microseconds(),
		MaxTickUS:          s.MaxTickDuration.Microseconds(),
		TicksPerSec:        s.TicksPerSecond,
		FPS:                s.FPS,
		InputPct:           pct[PhaseInput],
		SpawnPct:           pct[PhaseSpawn],
		MovementPct:        pct[PhaseMovement],
		PlayerCollisionPct: pct[PhasePlayerCollision],
		EnemyCollisionPct:  pct[PhaseEnemyCollision],
		EnemyCollisionPeak: peakUS[PhaseEnemyCollision],
		ReactionsPct:       pct[PhaseReactions],
		LifecyclePct:       pct[PhaseLifecycle],
		FeedbackPct:        pct[PhaseFeedback],
		CommitPct:          pct[PhaseCommit],
		TelemetryPct:       pct[PhaseTelemetry],
	}
}
