package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for range 5 {
		pc.StartTick()
		pc.StartPhase(PhaseEnemyCollision)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseMovement)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if len(stats.Phases) != 2 {
		t.Fatalf("phases = %d, want 2", len(stats.Phases))
	}
	// Reported in step order regardless of call order
	if stats.Phases[0].Phase != PhaseMovement || stats.Phases[1].Phase != PhaseEnemyCollision {
		t.Errorf("phase order = %v, %v", stats.Phases[0].Phase, stats.Phases[1].Phase)
	}
	if _, ok := stats.Phase(PhaseCommit); ok {
		t.Error("untimed phase reported")
	}
	mv, ok := stats.Phase(PhaseMovement)
	if !ok || mv.Avg <= 0 || mv.Peak < mv.Avg {
		t.Errorf("movement stat = %+v", mv)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for range 10 {
		pc.StartTick()
		pc.StartPhase(PhaseEnemyCollision)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
	if stats.MinTickDuration > stats.MaxTickDuration {
		t.Errorf("min %v > max %v", stats.MinTickDuration, stats.MaxTickDuration)
	}
}

// stepClock is a manual time source; advance moves it forward.
type stepClock struct{ t time.Time }

func (c *stepClock) now() time.Time { return c.t }
func (c *stepClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestPerfCollector_Slowest(t *testing.T) {
	pc := NewPerfCollector(10)
	clock := &stepClock{t: time.Unix(0, 0)}
	pc.now = clock.now

	for range 5 {
		pc.StartTick()
		pc.StartPhase(PhaseInput)
		clock.advance(10 * time.Microsecond)
		pc.StartPhase(PhaseReactions)
		clock.advance(500 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration != 510*time.Microsecond {
		t.Errorf("avg tick = %v, want 510us", stats.AvgTickDuration)
	}
	slowest := stats.Slowest()
	if len(slowest) != 2 || slowest[0].Phase != PhaseReactions || slowest[1].Phase != PhaseInput {
		t.Fatalf("slowest = %+v, want reactions then input", slowest)
	}
	if slowest[0].Avg != 500*time.Microsecond || slowest[1].Avg != 10*time.Microsecond {
		t.Errorf("averages = %v, %v", slowest[0].Avg, slowest[1].Avg)
	}
	if slowest[0].Pct <= slowest[1].Pct {
		t.Errorf("reactions %.1f%% should exceed input %.1f%%", slowest[0].Pct, slowest[1].Pct)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()
	if stats.AvgTickDuration != 0 || len(stats.Phases) != 0 {
		t.Errorf("empty collector stats = %+v", stats)
	}
	if len(stats.Slowest()) != 0 {
		t.Error("slowest of empty stats should be empty")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)
	clock := &stepClock{t: time.Unix(0, 0)}
	pc.now = clock.now

	pc.RecordFrame()
	if stats := pc.Stats(); stats.FPS != 0 {
		t.Errorf("FPS after one frame = %v, want 0", stats.FPS)
	}
	clock.advance(20 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration != 20*time.Millisecond {
		t.Errorf("frame duration = %v, want 20ms", stats.FrameDuration)
	}
	if stats.FPS != 50 {
		t.Errorf("FPS = %v, want 50", stats.FPS)
	}
}

func TestPhase_String(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseInput, "input"},
		{PhaseEnemyCollision, "enemy_collision"},
		{PhaseTelemetry, "telemetry"},
		{phaseCount, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d) = %q, want %q", tt.phase, got, tt.want)
		}
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: 250 * time.Microsecond,
		Phases: []PhaseStat{
			{Phase: PhaseEnemyCollision, Pct: 40, Peak: 900 * time.Microsecond},
			{Phase: PhaseReactions, Pct: 10},
		},
	}

	rec := s.ToCSV(600)
	if rec.WindowEnd != 600 {
		t.Errorf("window end = %d, want 600", rec.WindowEnd)
	}
	if rec.AvgTickUS != 250 {
		t.Errorf("avg tick = %dus, want 250us", rec.AvgTickUS)
	}
	if rec.EnemyCollisionPct != 40 || rec.ReactionsPct != 10 {
		t.Errorf("phase pct not carried: %+v", rec)
	}
	if rec.EnemyCollisionPeak != 900 {
		t.Errorf("enemy collision peak = %dus, want 900", rec.EnemyCollisionPeak)
	}
	if rec.CommitPct != 0 {
		t.Errorf("untracked phase should be 0, got %v", rec.CommitPct)
	}
}
