package game

import (
	"github.com/pthm-cable/phasefield/systems"
)

// NodeView is the read-only view of one node handed to renderers.
type NodeView struct {
	ID   uint32
	X, Y float64
}

// Frame is everything a renderer needs for one frame.
type Frame struct {
	Tick     int64
	Nodes    []NodeView
	Weights  systems.Weights
	Target   systems.Phase
	Progress float64
	Profile  systems.FluidProfile
	Bounds   systems.Bounds
}

// Snapshot copies the current node positions and blend state into dst.
// The returned Frame shares no memory with the simulation; dst.Nodes is reused.
func (g *Game) Snapshot(dst *Frame) {
	dst.Tick = g.tick
	dst.Weights = g.phase.Weights()
	dst.Target = g.phase.Target()
	dst.Progress = g.phase.Progress()
	dst.Profile = g.profile
	dst.Bounds = g.params.Bounds

	dst.Nodes = dst.Nodes[:0]
	query := g.nodeFilter.Query()
	for query.Next() {
		pos, _, _, node := query.Get()
		dst.Nodes = append(dst.Nodes, NodeView{ID: node.ID, X: pos.X, Y: pos.Y})
	}
}
