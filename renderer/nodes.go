// Package renderer draws simulation frames with raylib.
package renderer

import (
	"math"
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/phasefield/config"
	"github.com/pthm-cable/phasefield/game"
	"github.com/pthm-cable/phasefield/systems"
)

// Regime tints, blended by the current weights.
var (
	fogTint   = [3]float64{110, 125, 150}
	netTint   = [3]float64{235, 235, 245}
	fluidTint = [3]float64{80, 200, 255}
)

// minLineWeight keeps faint links visible while the net weight is fading in.
const minLineWeight = 0.05

// NodeRenderer draws nodes as dots and links between nodes closer than the
// connection distance. It only reads the frame it is given.
type NodeRenderer struct {
	nodeSize  float32
	lineWidth float32
	lineAlpha float64
	connDist  float64

	order []int // node indices sorted by X
}

// NewNodeRenderer creates a renderer from visual and net settings.
func NewNodeRenderer(visual config.VisualConfig, net config.NetConfig) *NodeRenderer {
	return &NodeRenderer{
		nodeSize:  float32(visual.NodeSize),
		lineWidth: float32(visual.LineWidth),
		lineAlpha: visual.LineAlpha,
		connDist:  net.ConnectionDist,
	}
}

// Draw renders the links and nodes of one frame.
func (r *NodeRenderer) Draw(f *game.Frame) {
	tint := BlendTint(f.Weights)

	if lw := math.Max(f.Weights.Net, minLineWeight*f.Weights.Fluid); lw > 0.01 {
		r.drawLinks(f.Nodes, tint, lw)
	}

	for _, n := range f.Nodes {
		rl.DrawCircleV(rl.Vector2{X: float32(n.X), Y: float32(n.Y)}, r.nodeSize, tint)
	}
}

// drawLinks sweeps nodes in X order so only pairs within connDist on X are tested.
func (r *NodeRenderer) drawLinks(nodes []game.NodeView, tint rl.Color, weight float64) {
	r.order = r.order[:0]
	for i := range nodes {
		r.order = append(r.order, i)
	}
	slices.SortFunc(r.order, func(a, b int) int {
		switch {
		case nodes[a].X < nodes[b].X:
			return -1
		case nodes[a].X > nodes[b].X:
			return 1
		}
		return 0
	})

	for i, ai := range r.order {
		a := nodes[ai]
		for _, bi := range r.order[i+1:] {
			b := nodes[bi]
			dx := b.X - a.X
			if dx >= r.connDist {
				break
			}
			d := math.Hypot(dx, b.Y-a.Y)
			if d >= r.connDist {
				continue
			}
			alpha := r.lineAlpha * (1 - d/r.connDist) * weight
			if alpha < 1.0/255 {
				continue
			}
			c := tint
			c.A = uint8(alpha * 255)
			rl.DrawLineEx(
				rl.Vector2{X: float32(a.X), Y: float32(a.Y)},
				rl.Vector2{X: float32(b.X), Y: float32(b.Y)},
				r.lineWidth, c,
			)
		}
	}
}

// BlendTint mixes the regime tints by weight. Weights need not sum to one.
func BlendTint(w systems.Weights) rl.Color {
	total := w.Fog + w.Net + w.Fluid
	if total <= 0 {
		return rl.Color{R: uint8(fogTint[0]), G: uint8(fogTint[1]), B: uint8(fogTint[2]), A: 255}
	}
	var c [3]float64
	for i := range c {
		c[i] = (fogTint[i]*w.Fog + netTint[i]*w.Net + fluidTint[i]*w.Fluid) / total
	}
	return rl.Color{R: uint8(c[0]), G: uint8(c[1]), B: uint8(c[2]), A: 255}
}
