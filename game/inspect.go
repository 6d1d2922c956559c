package game

import (
	"math"
)

// NodeDetail is the per-node state shown by the inspector. Field tags drive
// how each value is drawn.
type NodeDetail struct {
	ID       uint32  `inspect:"label"`
	X        float64 `inspect:"label,fmt:%.0f"`
	Y        float64 `inspect:"label,fmt:%.0f"`
	Speed    float64 `inspect:"bar,max:4"`
	Heading  float64 `inspect:"angle"`
	Accel    float64 `inspect:"label,fmt:%.4f"`
	Mass     float64 `inspect:"label,fmt:%.2f"`
	Links    int     `inspect:"label"`
	Resting  bool    `inspect:"bool"`
}

// restingSpeed is the speed below which a node is reported as at rest.
const restingSpeed = 0.05

// Inspect returns the current state of the node with the given ID. Links
// counts neighbours within the connection distance among the candidates of
// the last grid rebuild.
func (g *Game) Inspect(id uint32) (NodeDetail, bool) {
	query := g.nodeFilter.Query()
	for query.Next() {
		pos, vel, acc, node := query.Get()
		if node.ID != id {
			continue
		}
		self := query.Entity()
		speed := math.Hypot(vel.X, vel.Y)
		d := NodeDetail{
			ID:      node.ID,
			X:       pos.X,
			Y:       pos.Y,
			Speed:   speed,
			Heading: math.Atan2(vel.Y, vel.X),
			Accel:   math.Hypot(acc.X, acc.Y),
			Mass:    node.Mass,
			Resting: speed < restingSpeed,
		}
		px, py := pos.X, pos.Y
		query.Close()

		conn := g.params.Net.ConnectionDist
		g.inspectScratch = g.grid.QueryInto(g.inspectScratch[:0], px, py)
		for _, e := range g.inspectScratch {
			if e == self {
				continue
			}
			other := g.posMap.Get(e)
			if math.Hypot(other.X-px, other.Y-py) < conn {
				d.Links++
			}
		}
		return d, true
	}
	return NodeDetail{}, false
}
