package game

import (
	"runtime"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/phasefield/components"
	"github.com/pthm-cable/phasefield/systems"
)

// nodeSnapshot captures read-only state for parallel processing.
type nodeSnapshot struct {
	Entity ecs.Entity
	Pos    components.Position
}

// intent captures computed outputs to apply after the parallel pass.
type intent struct {
	AccX, AccY float64
	Links      int
}

// workerScratch holds per-worker reusable buffers.
type workerScratch struct {
	Neighbors []ecs.Entity
}

// workChunk represents a range of nodes for a worker to process.
type workChunk struct {
	start, end int
	ctx        *systems.FrameContext
}

// parallelState holds resources for the parallel force pass.
type parallelState struct {
	snapshots  []nodeSnapshot
	intents    []intent
	scratches  []workerScratch
	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelState() *parallelState {
	numWorkers := runtime.GOMAXPROCS(0)
	scratches := make([]workerScratch, numWorkers)
	for i := range scratches {
		scratches[i].Neighbors = make([]ecs.Entity, 0, 64)
	}
	return &parallelState{
		numWorkers: numWorkers,
		scratches:  scratches,
		snapshots:  make([]nodeSnapshot, 0, 512),
		intents:    make([]intent, 0, 512),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(g *Game) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(g, i)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker(g *Game, workerID int) {
	defer p.wg.Done()
	scratch := &p.scratches[workerID]

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			g.computeChunk(chunk.start, chunk.end, scratch, chunk.ctx)
			p.doneChan <- struct{}{}
		}
	}
}

// updateForcesParallel snapshots positions, computes forces across the worker
// pool and writes accelerations back single-threaded.
// The grid, positions and Fluid Profile are read-only for the whole pass.
func (g *Game) updateForcesParallel(ctx *systems.FrameContext) int {
	// Phase A: Build snapshots (single-threaded)
	g.parallel.snapshots = g.parallel.snapshots[:0]

	query := g.nodeFilter.Query()
	for query.Next() {
		pos, _, _, _ := query.Get()
		g.parallel.snapshots = append(g.parallel.snapshots, nodeSnapshot{
			Entity: query.Entity(),
			Pos:    *pos,
		})
	}

	n := len(g.parallel.snapshots)
	if n == 0 {
		return 0
	}

	if cap(g.parallel.intents) < n {
		g.parallel.intents = make([]intent, n)
	}
	g.parallel.intents = g.parallel.intents[:n]

	// Phase B: Compute
	g.computeParallel(n, ctx)

	// Phase C: Apply intents (single-threaded)
	return g.applyIntents()
}

// computeParallel dispatches work to the worker pool.
func (g *Game) computeParallel(n int, ctx *systems.FrameContext) {
	if !g.parallel.running {
		g.parallel.startWorkers(g)
	}

	numWorkers := g.parallel.numWorkers
	chunkSize := (n + numWorkers - 1) / numWorkers

	chunksDispatched := 0
	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}

		g.parallel.workChan <- workChunk{start: start, end: end, ctx: ctx}
		chunksDispatched++
	}

	// Wait for all chunks to complete
	for i := 0; i < chunksDispatched; i++ {
		<-g.parallel.doneChan
	}
}

// computeChunk processes a range of snapshots for a single worker.
func (g *Game) computeChunk(i0, i1 int, scratch *workerScratch, ctx *systems.FrameContext) {
	for i := i0; i < i1; i++ {
		snap := &g.parallel.snapshots[i]

		// Query neighbors and read positions only (grid and posMap are shared)
		acc, links, neighbors := g.forces.Compute(snap.Entity, snap.Pos, g.grid, ctx, scratch.Neighbors)
		scratch.Neighbors = neighbors

		g.parallel.intents[i] = intent{AccX: acc.X, AccY: acc.Y, Links: links}
	}
}

// applyIntents writes computed accelerations back to the ECS components.
func (g *Game) applyIntents() int {
	links := 0
	for i, snap := range g.parallel.snapshots {
		in := &g.parallel.intents[i]
		acc := g.accMap.Get(snap.Entity)
		if acc == nil {
			continue
		}
		acc.X, acc.Y = in.AccX, in.AccY
		links += in.Links
	}
	return links
}

// stopParallelWorkers should be called when shutting down the game.
func (g *Game) stopParallelWorkers() {
	if g.parallel != nil {
		g.parallel.stopWorkers()
	}
}
