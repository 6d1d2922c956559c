package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/phasefield/config"
	"github.com/pthm-cable/phasefield/systems"
	"github.com/pthm-cable/phasefield/telemetry"
)

// testConfig returns defaults shrunk to a small population with the
// parallel pass disabled.
func testConfig(nodes int) *config.Config {
	cfg := config.Defaults()
	cfg.Population.Nodes = nodes
	cfg.Parallel.Threshold = 0
	cfg.Telemetry.StatsWindow = 50
	return cfg
}

func newTestGame(t *testing.T, cfg *config.Config, seed int64) *Game {
	t.Helper()
	g := NewGameWithOptions(Options{Seed: seed, Headless: true, Config: cfg})
	t.Cleanup(g.Unload)
	return g
}

func TestSpawnNodes(t *testing.T) {
	cfg := testConfig(120)
	g := newTestGame(t, cfg, 1)

	if g.NodeCount() != 120 {
		t.Fatalf("expected 120 nodes, got %d", g.NodeCount())
	}

	var frame Frame
	g.Snapshot(&frame)

	seen := make(map[uint32]bool)
	b := g.Bounds()
	for _, n := range frame.Nodes {
		if seen[n.ID] {
			t.Errorf("duplicate node id %d", n.ID)
		}
		seen[n.ID] = true
		if n.ID >= 120 {
			t.Errorf("node id %d outside sequential range", n.ID)
		}
		if n.X < 0 || n.X > b.Width || n.Y < 0 || n.Y > b.Height {
			t.Errorf("node %d spawned outside domain at (%v, %v)", n.ID, n.X, n.Y)
		}
	}

	query := g.nodeFilter.Query()
	for query.Next() {
		_, vel, _, node := query.Get()
		if node.Mass < cfg.Population.MassMin || node.Mass > cfg.Population.MassMax {
			t.Errorf("node %d mass %v outside [%v, %v]", node.ID, node.Mass, cfg.Population.MassMin, cfg.Population.MassMax)
		}
		if speed := vel.X*vel.X + vel.Y*vel.Y; speed > cfg.Fog.MaxSpeed*cfg.Fog.MaxSpeed+1e-12 {
			t.Errorf("node %d initial speed exceeds fog max speed", node.ID)
		}
	}
}

func TestStepKeepsNodesInDomain(t *testing.T) {
	g := newTestGame(t, testConfig(200), 2)

	for i := 0; i < 300; i++ {
		if i%60 == 0 {
			g.AdvancePhase()
		}
		g.Step()
	}

	if g.Tick() != 300 {
		t.Errorf("expected tick 300, got %d", g.Tick())
	}

	var frame Frame
	g.Snapshot(&frame)
	b := g.Bounds()
	for _, n := range frame.Nodes {
		if n.X < 0 || n.X > b.Width || n.Y < 0 || n.Y > b.Height {
			t.Errorf("node %d left the domain: (%v, %v)", n.ID, n.X, n.Y)
		}
	}
}

func TestStepSetsAcceleration(t *testing.T) {
	g := newTestGame(t, testConfig(10), 3)
	g.Step()

	// Fog weight is 1 on the first frame, so every node carries a noise force.
	nonZero := 0
	query := g.nodeFilter.Query()
	for query.Next() {
		_, _, acc, _ := query.Get()
		if acc.X != 0 || acc.Y != 0 {
			nonZero++
		}
	}
	if nonZero != 10 {
		t.Errorf("expected all 10 nodes to hold an acceleration after a step, got %d", nonZero)
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	serialCfg := testConfig(300)
	parallelCfg := testConfig(300)
	parallelCfg.Parallel.Threshold = 1

	serial := newTestGame(t, serialCfg, 7)
	parallel := newTestGame(t, parallelCfg, 7)

	for i := 0; i < 200; i++ {
		if i%40 == 0 {
			serial.AdvancePhase()
			parallel.AdvancePhase()
		}
		serial.Step()
		parallel.Step()
	}

	if !parallel.parallel.running {
		t.Fatal("expected the worker pool to have been used")
	}

	var a, b Frame
	serial.Snapshot(&a)
	parallel.Snapshot(&b)

	if len(a.Nodes) != len(b.Nodes) {
		t.Fatalf("node counts differ: %d vs %d", len(a.Nodes), len(b.Nodes))
	}
	for i := range a.Nodes {
		if a.Nodes[i] != b.Nodes[i] {
			t.Fatalf("node %d differs: serial %+v, parallel %+v", i, a.Nodes[i], b.Nodes[i])
		}
	}
}

func TestAdvancePhaseResamplesOnFluidBoundary(t *testing.T) {
	g := newTestGame(t, testConfig(5), 11)

	want := []struct {
		to        systems.Phase
		resampled bool
	}{
		{systems.PhaseNet, false},
		{systems.PhaseFluid, true},
		{systems.PhaseNet, true},
		{systems.PhaseFog, false},
		{systems.PhaseNet, false},
	}

	for i, w := range want {
		before := g.Profile()
		tr := g.AdvancePhase()
		if tr.To != w.to {
			t.Errorf("advance %d: expected target %v, got %v", i, w.to, tr.To)
		}
		if tr.CrossedFluid != w.resampled {
			t.Errorf("advance %d: expected resampled=%v, got %v", i, w.resampled, tr.CrossedFluid)
		}
		if !w.resampled && g.Profile() != before {
			t.Errorf("advance %d: profile changed without crossing the fluid boundary", i)
		}
		if w.resampled && g.Profile() == before {
			t.Errorf("advance %d: expected a fresh fluid profile", i)
		}
	}
}

func TestResize(t *testing.T) {
	cfg := testConfig(50)
	g := newTestGame(t, cfg, 4)

	var before Frame
	g.Snapshot(&before)
	nodes := append([]NodeView(nil), before.Nodes...)

	g.Resize(450, 330)

	if b := g.Bounds(); b.Width != 450 || b.Height != 330 {
		t.Errorf("expected bounds 450x330, got %vx%v", b.Width, b.Height)
	}
	cols, rows := g.grid.Dims()
	wantCols := int(450/cfg.Grid.CellSize) + 1
	wantRows := int(330/cfg.Grid.CellSize) + 1
	if cols != wantCols || rows != wantRows {
		t.Errorf("expected grid %dx%d, got %dx%d", wantCols, wantRows, cols, rows)
	}

	var after Frame
	g.Snapshot(&after)
	for i := range nodes {
		if after.Nodes[i] != nodes[i] {
			t.Fatalf("resize moved node %d", nodes[i].ID)
		}
	}

	// Invalid sizes are ignored
	g.Resize(0, 100)
	if b := g.Bounds(); b.Width != 450 {
		t.Errorf("zero width resize should be ignored, got width %v", b.Width)
	}

	// Nodes outside the smaller domain wrap back in as they move
	for i := 0; i < 5; i++ {
		g.Step()
	}
}

func TestSeedDeterminism(t *testing.T) {
	a := newTestGame(t, testConfig(40), 99)
	b := newTestGame(t, testConfig(40), 99)

	for i := 0; i < 50; i++ {
		a.Step()
		b.Step()
	}

	var fa, fb Frame
	a.Snapshot(&fa)
	b.Snapshot(&fb)
	for i := range fa.Nodes {
		if fa.Nodes[i] != fb.Nodes[i] {
			t.Fatalf("same seed diverged at node %d", i)
		}
	}
}

func TestStatsCallbackAndOutput(t *testing.T) {
	cfg := testConfig(20)
	dir := filepath.Join(t.TempDir(), "out")

	var windows []telemetry.WindowStats
	g := NewGameWithOptions(Options{
		Seed:        5,
		Headless:    true,
		Config:      cfg,
		OutputDir:   dir,
		StatsWindow: 25,
		StatsCallback: func(s telemetry.WindowStats) {
			windows = append(windows, s)
		},
	})

	g.AdvancePhase()
	for i := 0; i < 100; i++ {
		g.Step()
	}
	g.Unload()

	if len(windows) != 4 {
		t.Fatalf("expected 4 stats windows, got %d", len(windows))
	}
	if windows[0].Advances != 1 {
		t.Errorf("expected the first window to count 1 advance, got %d", windows[0].Advances)
	}
	if windows[3].WindowEndTick != 100 || windows[3].Nodes != 20 {
		t.Errorf("unexpected last window: %+v", windows[3])
	}

	for _, name := range []string{"telemetry.csv", "perf.csv", "phases.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
	data, err := os.ReadFile(filepath.Join(dir, "phases.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "fog,net") {
		t.Errorf("expected a fog->net row in phases.csv, got:\n%s", data)
	}
}

func TestAutoAdvance(t *testing.T) {
	g := NewGameWithOptions(Options{Seed: 1, Headless: true, Config: testConfig(5), AutoAdvance: 10})
	defer g.Unload()

	for i := 0; i < 21; i++ {
		g.Step()
	}
	// Advances fire at ticks 10 and 20
	if got := g.Phase().Target(); got != systems.PhaseFluid {
		t.Errorf("expected target fluid after two auto advances, got %v", got)
	}
}

func TestUpdatePaused(t *testing.T) {
	g := NewGameWithOptions(Options{Seed: 1, Config: testConfig(5), StepsPerUpdate: 3})
	defer g.Unload()

	g.Update()
	if g.Tick() != 3 {
		t.Errorf("expected 3 ticks per update, got %d", g.Tick())
	}
	g.SetPaused(true)
	g.Update()
	if g.Tick() != 3 {
		t.Errorf("paused update should not advance, got tick %d", g.Tick())
	}
	g.SetStepsPerUpdate(50)
	if g.StepsPerUpdate() != 10 {
		t.Errorf("steps per update should clamp to 10, got %d", g.StepsPerUpdate())
	}
}

func TestInspect(t *testing.T) {
	g := newTestGame(t, testConfig(30), 8)
	g.Step()

	var frame Frame
	g.Snapshot(&frame)
	want := frame.Nodes[3]

	d, ok := g.Inspect(want.ID)
	if !ok {
		t.Fatalf("expected node %d to be found", want.ID)
	}
	if d.ID != want.ID || d.X != want.X || d.Y != want.Y {
		t.Errorf("detail %+v does not match frame node %+v", d, want)
	}
	if d.Links < 0 || d.Links >= 30 {
		t.Errorf("links out of range: %d", d.Links)
	}
	if d.Resting != (d.Speed < restingSpeed) {
		t.Errorf("resting flag inconsistent with speed %v", d.Speed)
	}

	if _, ok := g.Inspect(1000); ok {
		t.Error("unknown id should not be found")
	}

	// The world is unlocked again after an early-exit lookup
	g.Step()
}
