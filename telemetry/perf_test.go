package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartSection(SectionSpatialGrid)
		time.Sleep(100 * time.Microsecond)
		pc.StartSection(SectionForces)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if _, ok := stats.SectionAvg[SectionSpatialGrid]; !ok {
		t.Error("expected spatial_grid section to be tracked")
	}
	if _, ok := stats.SectionAvg[SectionForces]; !ok {
		t.Error("expected forces section to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartSection(SectionIntegrate)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_SectionPercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartSection("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartSection("slow")
		time.Sleep(100 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	fastPct := stats.SectionPct["fast"]
	slowPct := stats.SectionPct["slow"]
	if slowPct <= fastPct {
		t.Errorf("expected slow section (%v%%) > fast section (%v%%)", slowPct, fastPct)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}
	if stats.SectionAvg == nil || stats.SectionPct == nil {
		t.Error("expected non-nil section maps")
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: 1500 * time.Microsecond,
		SectionPct:      map[string]float64{SectionForces: 70, SectionSpatialGrid: 10},
	}
	row := s.ToCSV(600)
	if row.WindowEnd != 600 || row.AvgTickUS != 1500 {
		t.Errorf("unexpected row header fields: %+v", row)
	}
	if row.ForcesPct != 70 || row.SpatialGridPct != 10 || row.IntegratePct != 0 {
		t.Errorf("unexpected section percentages: %+v", row)
	}
}
