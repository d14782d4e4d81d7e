package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/meltdown/config"
	"github.com/pthm-cable/meltdown/telemetry"
)

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(raw[i]-back[i]) > 1e-9 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestClampRoundsIntegers(t *testing.T) {
	pv := NewParamVector()
	v := pv.DefaultVector()
	v[1] = 2.6  // child_count
	v[2] = 99   // neutron_count
	v[0] = -1.0 // atom_spawn_rate

	got := pv.Clamp(v)
	if got[1] != 3 {
		t.Errorf("child_count = %v, want 3", got[1])
	}
	if got[2] != pv.Specs[2].Max {
		t.Errorf("neutron_count = %v, want %v", got[2], pv.Specs[2].Max)
	}
	if got[0] != pv.Specs[0].Min {
		t.Errorf("atom_spawn_rate = %v, want %v", got[0], pv.Specs[0].Min)
	}
}

func TestApplyExtractAgree(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector()

	want := pv.DefaultVector()
	want[0] = 1.25
	want[1] = 3
	want[6] = 4.5
	pv.ApplyToConfig(cfg, want)

	got := pv.ExtractFromConfig(cfg)
	if len(got) != pv.Dim() {
		t.Fatalf("extracted %d values, want %d", len(got), pv.Dim())
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("%s: applied %v, extracted %v", pv.Specs[i].Path, want[i], got[i])
		}
	}
}

func TestQualityRewardsTargetRate(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	fe := NewFitnessEvaluator(NewParamVector(), 100, []int64{1}, cfg, 3.0)

	windows := func(rate float64) []telemetry.WindowStats {
		ws := make([]telemetry.WindowStats, 6)
		for i := range ws {
			ws[i] = telemetry.WindowStats{
				Atoms:       10,
				FissionRate: rate,
				GenMean:     float64(cfg.Atoms.MaxGeneration) / 2,
			}
		}
		return ws
	}

	onTarget := fe.computeQuality(windows(3.0))
	offTarget := fe.computeQuality(windows(0.1))
	if onTarget <= offTarget {
		t.Errorf("quality on target = %v, off target = %v", onTarget, offTarget)
	}
	if onTarget < 0.99 {
		t.Errorf("steady on-target cascade quality = %v, want ~1", onTarget)
	}
	if q := fe.computeQuality(windows(3.0)[:2]); q != 0 {
		t.Errorf("warmup-only quality = %v, want 0", q)
	}
}
